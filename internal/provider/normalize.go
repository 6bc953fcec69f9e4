package provider

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cinelist/pkg/models"
)

const (
	// imageBase resolves provider-relative poster/backdrop paths; absolute
	// URLs (the anime provider sends those) pass through untouched.
	imageBase = "https://image.tmdb.org/t/p/w500"

	fallbackTitle    = "Sem título"
	fallbackOverview = "Sem descrição disponível."
)

var markupTags = regexp.MustCompile(`<[^>]*>`)

// Normalize re-applies the canonical-field rules to an already-normalized
// Media record. It is a no-op on canonical input, which keeps the whole
// pipeline idempotent; some call sites normalize defensively twice.
func Normalize(m models.Media) models.Media {
	if m.Title == "" {
		m.Title = fallbackTitle
	}
	m.Overview = strings.TrimSpace(markupTags.ReplaceAllString(m.Overview, ""))
	m.PosterPath = imageURL(deref(m.PosterPath))
	m.BackdropPath = imageURL(deref(m.BackdropPath))
	if m.Genres == nil {
		m.Genres = []models.Genre{}
	}
	return m
}

func (r RawMovie) Normalize() models.Media {
	return Normalize(models.Media{
		ID:           r.ID,
		Type:         models.TypeMovie,
		Title:        r.Title,
		Overview:     r.Overview,
		PosterPath:   imageURL(r.PosterPath),
		BackdropPath: imageURL(r.BackdropPath),
		ReleaseDate:  nonEmpty(r.ReleaseDate),
		VoteAverage:  r.VoteAverage,
		Genres:       wrapGenres(r.Genres),
	})
}

func (r RawSerie) Normalize() models.Media {
	return Normalize(models.Media{
		ID:           r.ID,
		Type:         models.TypeSerie,
		Title:        r.Name,
		Overview:     r.Overview,
		PosterPath:   imageURL(r.PosterPath),
		BackdropPath: imageURL(r.BackdropPath),
		ReleaseDate:  nonEmpty(r.FirstAirDate),
		VoteAverage:  r.VoteAverage,
		Genres:       wrapGenres(r.Genres),
	})
}

func (r RawAnime) Normalize() models.Media {
	// Title precedence is fixed: romaji, then english. It doubles as a sort
	// key downstream, so reordering would change displayed identity.
	title := r.Title.Romaji
	if title == "" {
		title = r.Title.English
	}

	overview := strings.TrimSpace(markupTags.ReplaceAllString(r.Description, ""))
	if overview == "" {
		overview = fallbackOverview
	}

	poster := r.CoverImage.Large
	if poster == "" {
		poster = r.CoverImage.Medium
	}
	backdrop := r.BannerImage
	if backdrop == "" {
		backdrop = r.CoverImage.ExtraLarge
	}

	genres := make([]models.Genre, 0, len(r.Genres))
	for _, g := range r.Genres {
		genres = append(genres, models.Genre{ID: g, Name: g})
	}

	return Normalize(models.Media{
		ID:           r.ID,
		Type:         models.TypeAnime,
		Title:        title,
		Overview:     overview,
		PosterPath:   imageURL(poster),
		BackdropPath: imageURL(backdrop),
		ReleaseDate:  assembleDate(r.StartDate),
		VoteAverage:  r.AverageScore / 10,
		Genres:       genres,
	})
}

// assembleDate builds YYYY-MM-DD from the anime provider's structured date.
// Month and day default to 01; without a year there is no date at all.
func assembleDate(d AnimeDate) *string {
	if d.Year == 0 {
		return nil
	}
	month, day := d.Month, d.Day
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	s := fmt.Sprintf("%04d-%02d-%02d", d.Year, month, day)
	return &s
}

func imageURL(path string) *string {
	if path == "" {
		return nil
	}
	if strings.HasPrefix(path, "http") {
		return &path
	}
	full := imageBase + path
	return &full
}

func wrapGenres(raw []RawGenre) []models.Genre {
	out := make([]models.Genre, 0, len(raw))
	for _, g := range raw {
		out = append(out, models.Genre{
			ID:   strconv.FormatInt(g.ID, 10),
			Name: g.Name,
		})
	}
	return out
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
