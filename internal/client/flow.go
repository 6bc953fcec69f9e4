package client

import (
	"context"
	"errors"
	"sync"

	"cinelist/pkg/models"
)

// FlowState is where the add-to-list modal currently is.
type FlowState string

const (
	FlowClosed     FlowState = "closed"
	FlowLoading    FlowState = "loading"
	FlowReady      FlowState = "ready"
	FlowSubmitting FlowState = "submitting"
)

var (
	ErrFlowNotOpen    = errors.New("no media selected")
	ErrFlowBusy       = errors.New("submit already in progress")
	ErrNoListSelected = errors.New("select a list first")
)

// AddToListFlow drives the add-to-list modal. Opening captures the media
// being added and loads the user's lists; Submit is guarded so a double
// click cannot fire two requests. A failed submit keeps the modal open with
// the lists intact so the user can retry or pick another list.
type AddToListFlow struct {
	Aggregate *Aggregate

	mu      sync.Mutex
	state   FlowState
	media   models.Media
	lists   []models.List
	lastErr error
}

func NewAddToListFlow(agg *Aggregate) *AddToListFlow {
	return &AddToListFlow{Aggregate: agg, state: FlowClosed}
}

func (f *AddToListFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Lists returns the choices loaded at open time.
func (f *AddToListFlow) Lists() []models.List {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

// Err returns the failure from the last open or submit, if any.
func (f *AddToListFlow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Open starts the flow for m: the modal shows a loading state while the
// user's lists are fetched, then becomes ready. A failed fetch still opens
// the modal, with zero lists and the error available via Err.
func (f *AddToListFlow) Open(ctx context.Context, m models.Media) error {
	f.mu.Lock()
	f.state = FlowLoading
	f.media = m
	f.lists = nil
	f.lastErr = nil
	f.mu.Unlock()

	lists, err := f.Aggregate.FetchLists(ctx)

	f.mu.Lock()
	f.lists = lists
	f.lastErr = err
	f.state = FlowReady
	f.mu.Unlock()
	return err
}

// Submit adds the captured media to the chosen list. On success the modal
// closes; on failure it stays ready so the user can react. Calling Submit
// while a submit is in flight returns ErrFlowBusy without touching the
// server.
func (f *AddToListFlow) Submit(ctx context.Context, listID int64) error {
	f.mu.Lock()
	switch f.state {
	case FlowSubmitting:
		f.mu.Unlock()
		return ErrFlowBusy
	case FlowReady:
	default:
		f.mu.Unlock()
		return ErrFlowNotOpen
	}
	if listID <= 0 {
		f.mu.Unlock()
		return ErrNoListSelected
	}
	media := f.media
	f.state = FlowSubmitting
	f.lastErr = nil
	f.mu.Unlock()

	err := f.Aggregate.Client.AddListItem(ctx, listID, media)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = FlowReady
		f.lastErr = err
		return err
	}
	f.state = FlowClosed
	f.lists = nil
	return nil
}

// Close dismisses the modal; whatever state it was in is discarded.
func (f *AddToListFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FlowClosed
	f.lists = nil
	f.lastErr = nil
}
