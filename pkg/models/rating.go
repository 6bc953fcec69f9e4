package models

import "time"

// Rating is one user's score and optional comment for one media entry.
// At most one rating exists per (user_id, media_type, media_id); a second
// create is rejected, callers must update or delete instead.
//
// Title and PosterPath are snapshots so profile pages can render rated media
// without another provider round trip.
type Rating struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	MediaID    int64     `json:"media_id"`
	MediaType  MediaType `json:"media_type"`
	Title      string    `json:"title"`
	PosterPath *string   `json:"poster_path"`
	Score      float64   `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
