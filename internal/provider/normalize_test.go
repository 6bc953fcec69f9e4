package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelist/pkg/models"
)

func TestRawMovieNormalize(t *testing.T) {
	m := RawMovie{
		ID:           603,
		Title:        "Matrix",
		Overview:     "Um hacker descobre a verdade.",
		PosterPath:   "/poster.jpg",
		ReleaseDate:  "1999-03-31",
		VoteAverage:  8.2,
		Genres:       []RawGenre{{ID: 878, Name: "Ficção científica"}, {ID: 28, Name: "Ação"}},
	}.Normalize()

	assert.Equal(t, models.TypeMovie, m.Type)
	assert.Equal(t, "Matrix", m.Title)
	require.NotNil(t, m.PosterPath)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/poster.jpg", *m.PosterPath)
	assert.Nil(t, m.BackdropPath)
	require.NotNil(t, m.ReleaseDate)
	assert.Equal(t, "1999-03-31", *m.ReleaseDate)
	assert.Equal(t, 8.2, m.VoteAverage)
	assert.Equal(t, []models.Genre{
		{ID: "878", Name: "Ficção científica"},
		{ID: "28", Name: "Ação"},
	}, m.Genres)
}

func TestRawSerieNormalize(t *testing.T) {
	m := RawSerie{
		ID:           1668,
		Name:         "Friends",
		FirstAirDate: "1994-09-22",
		VoteAverage:  8.4,
	}.Normalize()

	assert.Equal(t, models.TypeSerie, m.Type)
	assert.Equal(t, "Friends", m.Title)
	require.NotNil(t, m.ReleaseDate)
	assert.Equal(t, "1994-09-22", *m.ReleaseDate)
	assert.NotNil(t, m.Genres)
	assert.Empty(t, m.Genres)
}

func TestRawAnimeNormalizeTitlePrecedence(t *testing.T) {
	both := RawAnime{ID: 1, Title: AnimeTitle{Romaji: "Shingeki no Kyojin", English: "Attack on Titan"}}.Normalize()
	assert.Equal(t, "Shingeki no Kyojin", both.Title)

	englishOnly := RawAnime{ID: 2, Title: AnimeTitle{English: "Attack on Titan"}}.Normalize()
	assert.Equal(t, "Attack on Titan", englishOnly.Title)

	neither := RawAnime{ID: 3}.Normalize()
	assert.Equal(t, "Sem título", neither.Title)
}

func TestRawAnimeNormalizeOverview(t *testing.T) {
	m := RawAnime{
		ID:          16498,
		Title:       AnimeTitle{Romaji: "Shingeki no Kyojin"},
		Description: "  Humanity lives <i>inside</i> walls.<br><br>Fear the titans. ",
	}.Normalize()
	assert.Equal(t, "Humanity lives inside walls.Fear the titans.", m.Overview)

	empty := RawAnime{ID: 1, Title: AnimeTitle{Romaji: "X"}}.Normalize()
	assert.Equal(t, "Sem descrição disponível.", empty.Overview)

	onlyMarkup := RawAnime{ID: 2, Title: AnimeTitle{Romaji: "Y"}, Description: "<br><br>"}.Normalize()
	assert.Equal(t, "Sem descrição disponível.", onlyMarkup.Overview)
}

func TestRawAnimeNormalizeScoreRescale(t *testing.T) {
	m := RawAnime{ID: 1, Title: AnimeTitle{Romaji: "X"}, AverageScore: 85}.Normalize()
	assert.Equal(t, 8.5, m.VoteAverage)

	noScore := RawAnime{ID: 2, Title: AnimeTitle{Romaji: "Y"}}.Normalize()
	assert.Equal(t, 0.0, noScore.VoteAverage)
}

func TestRawAnimeNormalizeImages(t *testing.T) {
	m := RawAnime{
		ID:          1,
		Title:       AnimeTitle{Romaji: "X"},
		CoverImage:  AnimeCover{Large: "https://img.anilist.co/large.png", ExtraLarge: "https://img.anilist.co/xl.png"},
		BannerImage: "",
	}.Normalize()
	require.NotNil(t, m.PosterPath)
	assert.Equal(t, "https://img.anilist.co/large.png", *m.PosterPath)
	// no banner: the extra-large cover stands in for the backdrop
	require.NotNil(t, m.BackdropPath)
	assert.Equal(t, "https://img.anilist.co/xl.png", *m.BackdropPath)

	mediumOnly := RawAnime{
		ID:         2,
		Title:      AnimeTitle{Romaji: "Y"},
		CoverImage: AnimeCover{Medium: "https://img.anilist.co/medium.png"},
	}.Normalize()
	require.NotNil(t, mediumOnly.PosterPath)
	assert.Equal(t, "https://img.anilist.co/medium.png", *mediumOnly.PosterPath)

	bare := RawAnime{ID: 3, Title: AnimeTitle{Romaji: "Z"}}.Normalize()
	assert.Nil(t, bare.PosterPath)
	assert.Nil(t, bare.BackdropPath)
}

func TestRawAnimeNormalizeGenres(t *testing.T) {
	m := RawAnime{ID: 1, Title: AnimeTitle{Romaji: "X"}, Genres: []string{"Action", "Drama"}}.Normalize()
	assert.Equal(t, []models.Genre{
		{ID: "Action", Name: "Action"},
		{ID: "Drama", Name: "Drama"},
	}, m.Genres)
}

func TestAssembleDate(t *testing.T) {
	assert.Nil(t, assembleDate(AnimeDate{Month: 4, Day: 7}))

	full := assembleDate(AnimeDate{Year: 1999, Month: 7, Day: 4})
	require.NotNil(t, full)
	assert.Equal(t, "1999-07-04", *full)

	yearOnly := assembleDate(AnimeDate{Year: 2021})
	require.NotNil(t, yearOnly)
	assert.Equal(t, "2021-01-01", *yearOnly)
}

func TestImageURL(t *testing.T) {
	assert.Nil(t, imageURL(""))

	abs := imageURL("https://example.com/x.png")
	require.NotNil(t, abs)
	assert.Equal(t, "https://example.com/x.png", *abs)

	rel := imageURL("/x.png")
	require.NotNil(t, rel)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/x.png", *rel)
}

func TestNormalizeIdempotent(t *testing.T) {
	cases := []models.Media{
		RawMovie{ID: 603, Title: "Matrix", PosterPath: "/p.jpg", Overview: "ok"}.Normalize(),
		RawAnime{ID: 1, Title: AnimeTitle{Romaji: "X"}, AverageScore: 73, StartDate: AnimeDate{Year: 2013, Month: 4}}.Normalize(),
		Normalize(models.Media{Type: models.TypeSerie, ID: 5}),
	}
	for _, m := range cases {
		assert.Equal(t, m, Normalize(m))
	}
}
