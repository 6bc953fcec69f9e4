package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"cinelist/pkg/models"
)

// SessionState is where the rating page currently is for one media entry.
type SessionState string

const (
	SessionViewing    SessionState = "viewing"
	SessionEditing    SessionState = "editing"
	SessionSubmitting SessionState = "submitting"
	SessionDeleting   SessionState = "deleting"
	SessionRedirected SessionState = "redirected"
)

// RedirectDelay is how long the page shows the deletion notice before
// navigating away.
const RedirectDelay = 1500 * time.Millisecond

var ErrSessionBusy = errors.New("request already in progress")

// RatingSession drives the rating page for one media entry. It starts
// viewing (with the user's existing rating, if any), moves to editing on
// demand, and submits or deletes against the server. A failed submit or
// delete returns to editing with the error available, never losing the
// user's input state.
type RatingSession struct {
	Aggregate *Aggregate
	Media     models.Media

	// RedirectDelay overrides the package default when non-zero.
	RedirectDelay time.Duration
	// OnRedirect runs after a successful delete, once the delay elapses.
	OnRedirect func()

	mu      sync.Mutex
	state   SessionState
	current *models.Rating
	lastErr error
}

func NewRatingSession(agg *Aggregate, m models.Media) *RatingSession {
	return &RatingSession{Aggregate: agg, Media: m, state: SessionViewing}
}

func (s *RatingSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the user's rating of this media as last fetched, or nil.
func (s *RatingSession) Current() *models.Rating {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *RatingSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Load refreshes the user's existing rating of this media from the server.
func (s *RatingSession) Load(ctx context.Context) error {
	ratings, err := s.Aggregate.FetchRatings(ctx)
	if err != nil {
		return err
	}
	key := s.Media.Key()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	for i := range ratings {
		if ratings[i].MediaID == key.ID && ratings[i].MediaType == key.Type {
			s.current = &ratings[i]
			break
		}
	}
	return nil
}

// Edit opens the score form.
func (s *RatingSession) Edit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionViewing {
		s.state = SessionEditing
	}
}

// Cancel abandons the form and returns to viewing.
func (s *RatingSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionEditing {
		s.state = SessionViewing
		s.lastErr = nil
	}
}

// Submit saves the score: a create when the user has no rating yet, an
// update otherwise. The score is validated before any I/O. On success the
// page returns to viewing with the fresh rating; on failure it stays in
// editing.
func (s *RatingSession) Submit(ctx context.Context, score float64, comment string) error {
	if err := validateScore(score); err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if s.state == SessionSubmitting || s.state == SessionDeleting {
		s.mu.Unlock()
		return ErrSessionBusy
	}
	updating := s.current != nil
	s.state = SessionSubmitting
	s.lastErr = nil
	s.mu.Unlock()

	var rt *models.Rating
	var err error
	if updating {
		rt, err = s.Aggregate.Client.UpdateRating(ctx, s.Media.Key(), score, comment)
	} else {
		rt, err = s.Aggregate.Client.Rate(ctx, s.Media, score, comment)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SessionEditing
		s.lastErr = err
		return err
	}
	s.current = rt
	s.state = SessionViewing
	return nil
}

// Delete removes the rating. On success the page shows a notice and
// schedules OnRedirect after the redirect delay; on failure it returns to
// editing with the error available.
func (s *RatingSession) Delete(ctx context.Context) error {
	s.mu.Lock()
	if s.state == SessionSubmitting || s.state == SessionDeleting {
		s.mu.Unlock()
		return ErrSessionBusy
	}
	s.state = SessionDeleting
	s.lastErr = nil
	s.mu.Unlock()

	err := s.Aggregate.Client.DeleteRating(ctx, s.Media.Key())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SessionEditing
		s.lastErr = err
		return err
	}
	s.current = nil
	s.state = SessionRedirected

	delay := s.RedirectDelay
	if delay == 0 {
		delay = RedirectDelay
	}
	if s.OnRedirect != nil {
		time.AfterFunc(delay, s.OnRedirect)
	}
	return nil
}
