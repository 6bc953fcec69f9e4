package models

import "time"

// List is a user-owned named collection of media snapshots. Deleting a list
// cascades to its items.
//
// Wire field names (nome, itens, lista_id) follow the original backend
// contract that the web client was written against.
type List struct {
	ID          int64      `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"nome"`
	Description string     `json:"description,omitempty"`
	ItemCount   int        `json:"item_count"`
	Items       []ListItem `json:"itens"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ListItem is a snapshot of a Media record taken at the moment it was added
// to a list. It belongs to exactly one list and is unique per
// (lista_id, media_type, media_id).
type ListItem struct {
	ID           int64     `json:"id"`
	ListID       int64     `json:"lista_id"`
	MediaID      int64     `json:"media_id"`
	MediaType    MediaType `json:"media_type"`
	Title        string    `json:"title"`
	PosterPath   *string   `json:"poster_path"`
	BackdropPath *string   `json:"backdrop_path"`
	Overview     string    `json:"overview"`
	VoteAverage  float64   `json:"vote_average"`
	ReleaseDate  *string   `json:"release_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// Media converts the snapshot back into canonical form so list views can run
// through the same filter/sort path as provider results.
func (it ListItem) Media() Media {
	return Media{
		ID:           it.MediaID,
		Type:         it.MediaType,
		Title:        it.Title,
		Overview:     it.Overview,
		PosterPath:   it.PosterPath,
		BackdropPath: it.BackdropPath,
		ReleaseDate:  it.ReleaseDate,
		VoteAverage:  it.VoteAverage,
		Genres:       []Genre{},
	}
}
