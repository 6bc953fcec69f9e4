package lists

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelist/internal/auth"
	"cinelist/pkg/models"
)

// testRouter wires the handler behind the real auth middleware, with a
// second user so cross-user requests can be exercised.
func testRouter(t *testing.T) (*gin.Engine, *Repo, func(userID string) string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testDB(t)
	_, err := db.Exec(`INSERT INTO users (id, username, email, password_hash) VALUES ('u2', 'bia', 'bia@example.com', 'x')`)
	require.NoError(t, err)

	tokens := auth.TokenService{Secret: []byte("test-secret"), Issuer: "cinelist", Duration: time.Hour}
	authRepo := auth.NewRepo(db)
	repo := NewRepo(db)

	r := gin.New()
	rg := r.Group("/media")
	rg.Use(auth.AuthMiddleware(tokens, authRepo))
	NewHandler(repo, nil).RegisterRoutes(rg)

	sign := func(userID string) string {
		u, err := authRepo.GetByID(context.Background(), userID)
		require.NoError(t, err)
		token, _, err := tokens.Sign(u)
		require.NoError(t, err)
		return token
	}
	return r, repo, sign
}

func doRequest(t *testing.T, r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListsByUserID(t *testing.T) {
	r, repo, sign := testRouter(t)
	ctx := context.Background()

	_, err := repo.CreateList(ctx, "u2", "Maratona", "")
	require.NoError(t, err)

	// one user can read another's lists by naming them in the body
	w := doRequest(t, r, http.MethodPost, "/media/listas/user/get", sign("u1"), `{"user_id":"u2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var out []models.List
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Maratona", out[0].Name)
	assert.Equal(t, "u2", out[0].UserID)

	// no body means the caller's own collection
	w = doRequest(t, r, http.MethodPost, "/media/listas/user/get", sign("u1"), "")
	require.Equal(t, http.StatusOK, w.Code)
	out = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Empty(t, out)
}

func TestDeleteListRequiresOwnership(t *testing.T) {
	r, repo, sign := testRouter(t)
	ctx := context.Background()

	l, err := repo.CreateList(ctx, "u1", "Favoritos", "")
	require.NoError(t, err)
	body := fmt.Sprintf(`{"lista_id":%d}`, l.ID)

	w := doRequest(t, r, http.MethodDelete, "/media/listas/delete", sign("u2"), body)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "you do not own this list")

	got, err := repo.GetList(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	w = doRequest(t, r, http.MethodDelete, "/media/listas/delete", sign("u1"), body)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAddItemRequiresOwnership(t *testing.T) {
	r, repo, sign := testRouter(t)
	ctx := context.Background()

	l, err := repo.CreateList(ctx, "u1", "Favoritos", "")
	require.NoError(t, err)
	body := fmt.Sprintf(`{"lista_id":%d,"id":603,"type":"movie","title":"Matrix"}`, l.ID)

	w := doRequest(t, r, http.MethodPost, "/media/listas/item/add", sign("u2"), body)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "you do not own this list")

	got, err := repo.GetList(ctx, l.ID)
	require.NoError(t, err)
	assert.Zero(t, got.ItemCount)

	w = doRequest(t, r, http.MethodPost, "/media/listas/item/add", sign("u1"), body)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRemoveItemRequiresOwnership(t *testing.T) {
	r, repo, sign := testRouter(t)
	ctx := context.Background()

	l, err := repo.CreateList(ctx, "u1", "Favoritos", "")
	require.NoError(t, err)
	_, err = repo.AddItem(ctx, l.ID, models.Media{ID: 603, Type: models.TypeMovie, Title: "Matrix"})
	require.NoError(t, err)
	body := fmt.Sprintf(`{"lista_id":%d,"media_id":603,"media_type":"movie"}`, l.ID)

	w := doRequest(t, r, http.MethodDelete, "/media/listas/item/delete", sign("u2"), body)
	require.Equal(t, http.StatusForbidden, w.Code)

	got, err := repo.GetList(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ItemCount)
}
