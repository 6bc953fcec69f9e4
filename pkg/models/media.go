package models

// MediaType discriminates the three catalog categories. Provider IDs are only
// unique within a single type, so identity is always the (Type, ID) pair.
type MediaType string

const (
	TypeMovie MediaType = "movie"
	TypeSerie MediaType = "serie"
	TypeAnime MediaType = "anime"
)

func (t MediaType) Valid() bool {
	switch t {
	case TypeMovie, TypeSerie, TypeAnime:
		return true
	}
	return false
}

// Genre uses a string ID because the movie/series provider sends numeric ids
// while the anime provider sends bare genre names used as both id and name.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Media is the normalized, provider-agnostic form of a catalog entry.
// All provider payloads are mapped into this structure first; no component
// past the normalizer is allowed to care where a record came from.
//
// PosterPath, BackdropPath and ReleaseDate are nil when the provider did not
// supply them. VoteAverage is always on a 0-10 scale; a missing score maps
// to 0.
type Media struct {
	ID           int64     `json:"id"`
	Type         MediaType `json:"type"`
	Title        string    `json:"title"`
	Overview     string    `json:"overview"`
	PosterPath   *string   `json:"poster_path"`
	BackdropPath *string   `json:"backdrop_path"`
	ReleaseDate  *string   `json:"release_date"`
	VoteAverage  float64   `json:"vote_average"`
	Genres       []Genre   `json:"genres"`
}

// MediaKey is the compound identity used for dedup and item uniqueness.
type MediaKey struct {
	Type MediaType
	ID   int64
}

func (m Media) Key() MediaKey {
	return MediaKey{Type: m.Type, ID: m.ID}
}
