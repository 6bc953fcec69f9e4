package provider

// Raw provider payloads. The two upstreams disagree on nearly every field
// name and type, so each shape gets its own struct and its own Normalize;
// nothing outside this package is allowed to see them.

// RawMovie is a movie entry as the TMDB-like provider sends it.
type RawMovie struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Overview     string     `json:"overview"`
	PosterPath   string     `json:"poster_path"`
	BackdropPath string     `json:"backdrop_path"`
	ReleaseDate  string     `json:"release_date"`
	VoteAverage  float64    `json:"vote_average"`
	Genres       []RawGenre `json:"genres"`
	GenreIDs     []int64    `json:"genre_ids"`
}

// RawSerie is a TV entry from the same provider; titles and dates live under
// different keys than movies.
type RawSerie struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Overview     string     `json:"overview"`
	PosterPath   string     `json:"poster_path"`
	BackdropPath string     `json:"backdrop_path"`
	FirstAirDate string     `json:"first_air_date"`
	VoteAverage  float64    `json:"vote_average"`
	Genres       []RawGenre `json:"genres"`
	GenreIDs     []int64    `json:"genre_ids"`
}

type RawGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RawAnime is an entry from the AniList-like provider: structured titles and
// dates, absolute image URLs, a 0-100 score and bare-string genres.
type RawAnime struct {
	ID           int64      `json:"id"`
	Title        AnimeTitle `json:"title"`
	Description  string     `json:"description"`
	StartDate    AnimeDate  `json:"startDate"`
	CoverImage   AnimeCover `json:"coverImage"`
	BannerImage  string     `json:"bannerImage"`
	AverageScore float64    `json:"averageScore"`
	Genres       []string   `json:"genres"`
}

type AnimeTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
}

type AnimeDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type AnimeCover struct {
	Large      string `json:"large"`
	Medium     string `json:"medium"`
	ExtraLarge string `json:"extraLarge"`
}
