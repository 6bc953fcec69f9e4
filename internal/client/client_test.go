package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelist/pkg/models"
)

func TestUserListsByIDNamesTheUser(t *testing.T) {
	var body []byte
	mux := http.NewServeMux()
	mux.HandleFunc("/media/listas/user/get", func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		jsonResponse(w, http.StatusOK, []models.List{{ID: 1, Name: "Maratona", UserID: "u2"}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	out, err := c.UserListsByID(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "u2", out[0].UserID)
	assert.JSONEq(t, `{"user_id":"u2"}`, string(body))

	// the caller's own lists go without a body
	body = nil
	_, err = c.UserLists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestUserRatingsByIDNamesTheUser(t *testing.T) {
	var body []byte
	mux := http.NewServeMux()
	mux.HandleFunc("/media/rate/user/get", func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		jsonResponse(w, http.StatusOK, map[string]any{"results": []models.Rating{
			{UserID: "u2", MediaID: 603, MediaType: models.TypeMovie, Score: 9},
		}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	out, err := c.UserRatingsByID(context.Background(), "u2")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "u2", out[0].UserID)
	assert.JSONEq(t, `{"user_id":"u2"}`, string(body))
}
