// Package sync broadcasts catalog mutations to connected sessions over
// WebSocket and a plain TCP line protocol, so other devices can refetch
// instead of polling.
package sync

import (
	"time"

	"cinelist/pkg/models"
)

const (
	EventListCreate     = "list.create"
	EventListDelete     = "list.delete"
	EventListItemAdd    = "list.item.add"
	EventListItemRemove = "list.item.remove"
	EventRatingCreate   = "rating.create"
	EventRatingUpdate   = "rating.update"
	EventRatingDelete   = "rating.delete"
)

// Event is one mutation notice. It names what changed, never the new state;
// receivers refetch whatever views depend on it.
type Event struct {
	Type      string           `json:"type"`
	UserID    string           `json:"user_id"`
	ListID    int64            `json:"lista_id,omitempty"`
	MediaID   int64            `json:"media_id,omitempty"`
	MediaType models.MediaType `json:"media_type,omitempty"`
	At        time.Time        `json:"at"`
}
