package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelist/pkg/models"
)

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func listsServer(t *testing.T, addItemStatus int, addItemDetail string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/media/listas/user/get", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, []models.List{
			{ID: 1, Name: "Favoritos", ItemCount: 2},
			{ID: 2, Name: "Assistir depois"},
		})
	})
	mux.HandleFunc("/media/listas/item/add", func(w http.ResponseWriter, r *http.Request) {
		if addItemStatus >= 300 {
			jsonResponse(w, addItemStatus, map[string]string{"detail": addItemDetail})
			return
		}
		jsonResponse(w, http.StatusCreated, map[string]string{"message": "ok"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		check  func(t *testing.T, err error)
	}{
		{http.StatusBadRequest, func(t *testing.T, err error) {
			var e *ValidationError
			require.ErrorAs(t, err, &e)
			assert.Equal(t, "boom", e.Detail)
		}},
		{http.StatusUnauthorized, func(t *testing.T, err error) {
			var e *AuthorizationError
			require.ErrorAs(t, err, &e)
		}},
		{http.StatusForbidden, func(t *testing.T, err error) {
			var e *AuthorizationError
			require.ErrorAs(t, err, &e)
			assert.Equal(t, http.StatusForbidden, e.StatusCode)
		}},
		{http.StatusNotFound, func(t *testing.T, err error) {
			var e *NotFoundError
			require.ErrorAs(t, err, &e)
		}},
		{http.StatusInternalServerError, func(t *testing.T, err error) {
			var e *APIError
			require.ErrorAs(t, err, &e)
			assert.Equal(t, http.StatusInternalServerError, e.StatusCode)
		}},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, tc.status, map[string]string{"detail": "boom"})
		}))
		c := New(srv.URL)
		_, err := c.Me(context.Background())
		require.Error(t, err)
		tc.check(t, err)
		srv.Close()
	}
}

func TestNetworkErrorOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL)
	_, err := c.Me(context.Background())
	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
}

func TestDuplicateConflictsAreTyped(t *testing.T) {
	srv := listsServer(t, http.StatusConflict, "item already in this list")
	c := New(srv.URL)

	err := c.AddListItem(context.Background(), 1, models.Media{ID: 603, Type: models.TypeMovie})
	var dup *DuplicateItemError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "item already in this list", dup.Detail)

	rateSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusConflict, map[string]string{"detail": "media already rated, use update or delete instead"})
	}))
	t.Cleanup(rateSrv.Close)

	_, err = New(rateSrv.URL).Rate(context.Background(), models.Media{ID: 1, Type: models.TypeAnime}, 8, "")
	var dupRating *DuplicateRatingError
	require.ErrorAs(t, err, &dupRating)
	assert.Equal(t, "media already rated, use update or delete instead", dupRating.Detail)
}

func TestFetchListsEmptyOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusInternalServerError, map[string]string{"detail": "db down"})
	}))
	t.Cleanup(srv.Close)

	agg := NewAggregate(New(srv.URL))

	lists, err := agg.FetchLists(context.Background())
	assert.Error(t, err)
	assert.NotNil(t, lists)
	assert.Empty(t, lists)

	ratings, err := agg.FetchRatings(context.Background())
	assert.Error(t, err)
	assert.NotNil(t, ratings)
	assert.Empty(t, ratings)
}

func TestCreateListValidatesBeforeIO(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	agg := NewAggregate(New(srv.URL))
	_, err := agg.CreateList(context.Background(), "   ", "desc")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, hits.Load(), "validation failure must not reach the server")
}

func TestFlowOpenLoadsLists(t *testing.T) {
	srv := listsServer(t, http.StatusCreated, "")
	flow := NewAddToListFlow(NewAggregate(New(srv.URL)))

	assert.Equal(t, FlowClosed, flow.State())
	require.NoError(t, flow.Open(context.Background(), models.Media{ID: 603, Type: models.TypeMovie}))
	assert.Equal(t, FlowReady, flow.State())
	require.Len(t, flow.Lists(), 2)
	assert.Equal(t, "Favoritos", flow.Lists()[0].Name)
}

func TestFlowSubmitSuccessCloses(t *testing.T) {
	srv := listsServer(t, http.StatusCreated, "")
	flow := NewAddToListFlow(NewAggregate(New(srv.URL)))

	require.NoError(t, flow.Open(context.Background(), models.Media{ID: 603, Type: models.TypeMovie}))
	require.NoError(t, flow.Submit(context.Background(), 1))
	assert.Equal(t, FlowClosed, flow.State())
	assert.Empty(t, flow.Lists())
}

func TestFlowSubmitFailureStaysReady(t *testing.T) {
	srv := listsServer(t, http.StatusConflict, "item already in this list")
	flow := NewAddToListFlow(NewAggregate(New(srv.URL)))

	require.NoError(t, flow.Open(context.Background(), models.Media{ID: 603, Type: models.TypeMovie}))
	err := flow.Submit(context.Background(), 1)

	var dup *DuplicateItemError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, FlowReady, flow.State(), "modal stays open for the user to react")
	assert.Len(t, flow.Lists(), 2, "loaded lists survive the failure")
	assert.Equal(t, err, flow.Err())
}

func TestFlowSubmitRequiresOpen(t *testing.T) {
	flow := NewAddToListFlow(NewAggregate(New("http://unused.invalid")))
	assert.ErrorIs(t, flow.Submit(context.Background(), 1), ErrFlowNotOpen)
}

func TestFlowDoubleSubmitGuard(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/media/listas/user/get", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, []models.List{{ID: 1, Name: "Favoritos"}})
	})
	mux.HandleFunc("/media/listas/item/add", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		jsonResponse(w, http.StatusCreated, map[string]string{"message": "ok"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	flow := NewAddToListFlow(NewAggregate(New(srv.URL)))
	require.NoError(t, flow.Open(context.Background(), models.Media{ID: 603, Type: models.TypeMovie}))

	done := make(chan error, 1)
	go func() { done <- flow.Submit(context.Background(), 1) }()

	<-entered
	assert.Equal(t, FlowSubmitting, flow.State())
	assert.ErrorIs(t, flow.Submit(context.Background(), 1), ErrFlowBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, FlowClosed, flow.State())
}

func TestSessionSubmitValidatesLocally(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	s := NewRatingSession(NewAggregate(New(srv.URL)), models.Media{ID: 603, Type: models.TypeMovie})
	s.Edit()

	err := s.Submit(context.Background(), 11, "")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, hits.Load())
	assert.Equal(t, SessionEditing, s.State())
}

func TestSessionSubmitAndDeleteLifecycle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/media/rate", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusCreated, models.Rating{ID: 1, MediaID: 603, MediaType: models.TypeMovie, Score: 8.5})
	})
	mux.HandleFunc("/media/rate/delete", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{"message": "deleted"})
	})
	mux.HandleFunc("/media/rate/user/get", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]any{"results": []models.Rating{}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	s := NewRatingSession(NewAggregate(New(srv.URL)), models.Media{ID: 603, Type: models.TypeMovie})
	require.NoError(t, s.Load(context.Background()))
	assert.Nil(t, s.Current())

	s.Edit()
	assert.Equal(t, SessionEditing, s.State())

	require.NoError(t, s.Submit(context.Background(), 8.5, "great"))
	assert.Equal(t, SessionViewing, s.State())
	require.NotNil(t, s.Current())
	assert.Equal(t, 8.5, s.Current().Score)

	redirected := make(chan struct{})
	s.RedirectDelay = 10 * time.Millisecond
	s.OnRedirect = func() { close(redirected) }

	require.NoError(t, s.Delete(context.Background()))
	assert.Equal(t, SessionRedirected, s.State())
	assert.Nil(t, s.Current())

	select {
	case <-redirected:
	case <-time.After(time.Second):
		t.Fatal("redirect callback never fired")
	}
}

func TestSessionDeleteFailureReturnsToEditing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusNotFound, map[string]string{"detail": "rating not found"})
	}))
	t.Cleanup(srv.Close)

	s := NewRatingSession(NewAggregate(New(srv.URL)), models.Media{ID: 603, Type: models.TypeMovie})
	s.Edit()

	err := s.Delete(context.Background())
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, SessionEditing, s.State())
	assert.Equal(t, err, s.Err())
}
