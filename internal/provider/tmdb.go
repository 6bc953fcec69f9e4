package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"cinelist/pkg/models"
	"cinelist/pkg/utils"
)

// TMDB fetches movies and series from a TMDB-compatible API.
type TMDB struct {
	BaseURL string
	Token   string
	Client  *http.Client

	mu     sync.Mutex
	genres map[int64]string // genre id -> name, loaded lazily
}

func NewTMDB(cfg utils.ProviderConfig) *TMDB {
	return &TMDB{
		BaseURL: cfg.TMDBBaseURL,
		Token:   cfg.TMDBToken,
		Client:  &http.Client{Timeout: 12 * time.Second},
	}
}

func (t *TMDB) Name() string { return "tmdb" }

type tmdbMoviePage struct {
	Page    int        `json:"page"`
	Results []RawMovie `json:"results"`
}

type tmdbSeriePage struct {
	Page    int        `json:"page"`
	Results []RawSerie `json:"results"`
}

type tmdbGenreList struct {
	Genres []RawGenre `json:"genres"`
}

func (t *TMDB) get(ctx context.Context, path string, query url.Values, out any) error {
	u, err := url.Parse(t.BaseURL + path)
	if err != nil {
		return fmt.Errorf("tmdb: parse url: %w", err)
	}
	q := u.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("language", "pt-BR")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tmdb: status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("tmdb: decode: %w", err)
	}
	return nil
}

// genreTable returns the id -> name genre map, fetching it on first use.
// List endpoints only carry genre ids; names come from the two genre
// list endpoints, merged. A failed load is not fatal: entries just come
// back without genre names until the next call retries.
func (t *TMDB) genreTable(ctx context.Context) map[int64]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.genres != nil {
		return t.genres
	}

	table := make(map[int64]string)
	for _, path := range []string{"/genre/movie/list", "/genre/tv/list"} {
		var gl tmdbGenreList
		if err := t.get(ctx, path, nil, &gl); err != nil {
			return table
		}
		for _, g := range gl.Genres {
			table[g.ID] = g.Name
		}
	}
	t.genres = table
	return table
}

func (t *TMDB) resolveGenres(ctx context.Context, ids []int64) []RawGenre {
	if len(ids) == 0 {
		return nil
	}
	table := t.genreTable(ctx)
	out := make([]RawGenre, 0, len(ids))
	for _, id := range ids {
		name, ok := table[id]
		if !ok {
			name = strconv.FormatInt(id, 10)
		}
		out = append(out, RawGenre{ID: id, Name: name})
	}
	return out
}

// PopularMovies returns one popularity-ranked page of movies, normalized.
func (t *TMDB) PopularMovies(ctx context.Context, page int) ([]models.Media, error) {
	if page < 1 {
		page = 1
	}
	var p tmdbMoviePage
	q := url.Values{"page": {strconv.Itoa(page)}}
	if err := t.get(ctx, "/movie/popular", q, &p); err != nil {
		return nil, err
	}
	return t.mapMovies(ctx, p.Results), nil
}

// PopularSeries returns one popularity-ranked page of TV series, normalized.
func (t *TMDB) PopularSeries(ctx context.Context, page int) ([]models.Media, error) {
	if page < 1 {
		page = 1
	}
	var p tmdbSeriePage
	q := url.Values{"page": {strconv.Itoa(page)}}
	if err := t.get(ctx, "/tv/popular", q, &p); err != nil {
		return nil, err
	}
	return t.mapSeries(ctx, p.Results), nil
}

// SearchMovies searches movies by name.
func (t *TMDB) SearchMovies(ctx context.Context, query string) ([]models.Media, error) {
	var p tmdbMoviePage
	q := url.Values{"query": {query}}
	if err := t.get(ctx, "/search/movie", q, &p); err != nil {
		return nil, err
	}
	return t.mapMovies(ctx, p.Results), nil
}

// SearchSeries searches TV series by name.
func (t *TMDB) SearchSeries(ctx context.Context, query string) ([]models.Media, error) {
	var p tmdbSeriePage
	q := url.Values{"query": {query}}
	if err := t.get(ctx, "/search/tv", q, &p); err != nil {
		return nil, err
	}
	return t.mapSeries(ctx, p.Results), nil
}

func (t *TMDB) mapMovies(ctx context.Context, raws []RawMovie) []models.Media {
	out := make([]models.Media, 0, len(raws))
	for _, r := range raws {
		if r.ID == 0 {
			continue
		}
		if len(r.Genres) == 0 {
			r.Genres = t.resolveGenres(ctx, r.GenreIDs)
		}
		out = append(out, r.Normalize())
	}
	return out
}

func (t *TMDB) mapSeries(ctx context.Context, raws []RawSerie) []models.Media {
	out := make([]models.Media, 0, len(raws))
	for _, r := range raws {
		if r.ID == 0 {
			continue
		}
		if len(r.Genres) == 0 {
			r.Genres = t.resolveGenres(ctx, r.GenreIDs)
		}
		out = append(out, r.Normalize())
	}
	return out
}
