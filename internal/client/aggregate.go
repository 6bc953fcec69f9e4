package client

import (
	"context"
	"log"
	"strings"

	"cinelist/pkg/models"
)

// Aggregate is the client-side mirror of the signed-in user's lists and
// ratings. It never patches state optimistically: every mutation goes to the
// server first, then the affected collection is refetched, so the mirror
// only ever shows rows the server confirmed.
type Aggregate struct {
	Client *Client
}

func NewAggregate(c *Client) *Aggregate {
	return &Aggregate{Client: c}
}

// FetchLists returns the user's lists. On failure the view still gets an
// empty slice to render, never nil, plus the error for its message area.
func (a *Aggregate) FetchLists(ctx context.Context) ([]models.List, error) {
	out, err := a.Client.UserLists(ctx)
	if err != nil {
		log.Printf("[client] fetch lists: %v", err)
		return []models.List{}, err
	}
	return out, nil
}

// FetchRatings returns the user's ratings, with the same empty-on-failure
// contract as FetchLists.
func (a *Aggregate) FetchRatings(ctx context.Context) ([]models.Rating, error) {
	out, err := a.Client.UserRatings(ctx)
	if err != nil {
		log.Printf("[client] fetch ratings: %v", err)
		return []models.Rating{}, err
	}
	return out, nil
}

// CreateList validates the name locally before any I/O, then creates the
// list and refetches the collection.
func (a *Aggregate) CreateList(ctx context.Context, name, description string) ([]models.List, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Detail: "list name is required"}
	}
	if _, err := a.Client.CreateList(ctx, name, description); err != nil {
		return nil, err
	}
	return a.FetchLists(ctx)
}

// DeleteList removes the list and refetches the collection.
func (a *Aggregate) DeleteList(ctx context.Context, listID int64) ([]models.List, error) {
	if err := a.Client.DeleteList(ctx, listID); err != nil {
		return nil, err
	}
	return a.FetchLists(ctx)
}

// AddItem adds m to the list and returns the refetched list detail.
func (a *Aggregate) AddItem(ctx context.Context, listID int64, m models.Media) (*models.List, error) {
	if err := a.Client.AddListItem(ctx, listID, m); err != nil {
		return nil, err
	}
	return a.Client.GetList(ctx, listID)
}

// RemoveItem removes one entry and returns the refetched list detail.
func (a *Aggregate) RemoveItem(ctx context.Context, listID int64, key models.MediaKey) (*models.List, error) {
	if err := a.Client.RemoveListItem(ctx, listID, key); err != nil {
		return nil, err
	}
	return a.Client.GetList(ctx, listID)
}

// Rate validates the score locally, creates the rating and refetches the
// user's ratings.
func (a *Aggregate) Rate(ctx context.Context, m models.Media, score float64, comment string) ([]models.Rating, error) {
	if err := validateScore(score); err != nil {
		return nil, err
	}
	if _, err := a.Client.Rate(ctx, m, score, comment); err != nil {
		return nil, err
	}
	return a.FetchRatings(ctx)
}

// UpdateRating validates the score locally, updates and refetches.
func (a *Aggregate) UpdateRating(ctx context.Context, key models.MediaKey, score float64, comment string) ([]models.Rating, error) {
	if err := validateScore(score); err != nil {
		return nil, err
	}
	if _, err := a.Client.UpdateRating(ctx, key, score, comment); err != nil {
		return nil, err
	}
	return a.FetchRatings(ctx)
}

// DeleteRating removes the rating and refetches.
func (a *Aggregate) DeleteRating(ctx context.Context, key models.MediaKey) ([]models.Rating, error) {
	if err := a.Client.DeleteRating(ctx, key); err != nil {
		return nil, err
	}
	return a.FetchRatings(ctx)
}

func validateScore(score float64) error {
	if score < 0 || score > 10 {
		return &ValidationError{Detail: "rating must be between 0 and 10"}
	}
	return nil
}
