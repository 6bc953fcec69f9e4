// Package client is the Go SDK for the CineList API: typed operations, an
// error taxonomy decoded from HTTP statuses, and the UI-facing state
// machines for the add-to-list modal and the rating page.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cinelist/pkg/models"
)

// Client talks to one CineList server. Token may be empty for the public
// catalog endpoints.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

// doJSON performs one request and maps failures onto the error taxonomy.
// The server reports problems as {"detail": "..."}; that text is carried
// into the typed errors so the UI can show it verbatim.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		detail := eb.Detail
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		switch resp.StatusCode {
		case http.StatusBadRequest:
			return &ValidationError{Detail: detail}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthorizationError{StatusCode: resp.StatusCode, Detail: detail}
		case http.StatusNotFound:
			return &NotFoundError{Detail: detail}
		default:
			return &APIError{StatusCode: resp.StatusCode, Detail: detail}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// asConflict returns the 409 APIError, if that is what err is.
func asConflict(err error) *APIError {
	if ae, ok := err.(*APIError); ok && ae.StatusCode == http.StatusConflict {
		return ae
	}
	return nil
}

// ---- auth ----

type Session struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expires_at"`
}

// Login authenticates and stores the session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &s)
	if err != nil {
		return nil, err
	}
	c.Token = s.Token
	return &s, nil
}

// Register creates an account and stores the session token on the client.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	var s Session
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &s)
	if err != nil {
		return nil, err
	}
	c.Token = s.Token
	return &s, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateAvatar(ctx context.Context, avatarID int) error {
	return c.doJSON(ctx, http.MethodPut, "/auth/me/avatar", map[string]int{"avatar_id": avatarID}, nil)
}

func (c *Client) UpdateUsername(ctx context.Context, username string) error {
	return c.doJSON(ctx, http.MethodPut, "/auth/me/username", map[string]string{"username": username}, nil)
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/auth/me", nil, nil)
}

// ---- catalog ----

type resultsBody struct {
	Results []models.Media `json:"results"`
}

func (c *Client) PopularMovies(ctx context.Context) ([]models.Media, error) {
	return c.fetchResults(ctx, http.MethodGet, "/movies", nil)
}

func (c *Client) PopularSeries(ctx context.Context) ([]models.Media, error) {
	return c.fetchResults(ctx, http.MethodGet, "/series", nil)
}

func (c *Client) PopularAnime(ctx context.Context) ([]models.Media, error) {
	return c.fetchResults(ctx, http.MethodGet, "/anime", nil)
}

// PopularAll returns the combined deduplicated feed.
func (c *Client) PopularAll(ctx context.Context) ([]models.Media, error) {
	return c.fetchResults(ctx, http.MethodGet, "/media/popular", nil)
}

// SearchAll searches every category by name.
func (c *Client) SearchAll(ctx context.Context, name string) ([]models.Media, error) {
	return c.fetchResults(ctx, http.MethodPost, "/media/search", map[string]string{"name": name})
}

func (c *Client) fetchResults(ctx context.Context, method, path string, payload any) ([]models.Media, error) {
	var rb resultsBody
	if err := c.doJSON(ctx, method, path, payload, &rb); err != nil {
		return nil, err
	}
	if rb.Results == nil {
		rb.Results = []models.Media{}
	}
	return rb.Results, nil
}

// ---- lists ----

func (c *Client) CreateList(ctx context.Context, name, description string) (*models.List, error) {
	var l models.List
	err := c.doJSON(ctx, http.MethodPost, "/media/listas/create", map[string]string{
		"nome":        name,
		"description": description,
	}, &l)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) GetList(ctx context.Context, listID int64) (*models.List, error) {
	var l models.List
	err := c.doJSON(ctx, http.MethodPost, "/media/listas/get", map[string]int64{"lista_id": listID}, &l)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// UserLists returns the caller's own lists.
func (c *Client) UserLists(ctx context.Context) ([]models.List, error) {
	return c.UserListsByID(ctx, "")
}

// UserListsByID returns the named user's lists, for profile pages. An empty
// id means the caller.
func (c *Client) UserListsByID(ctx context.Context, userID string) ([]models.List, error) {
	var payload any
	if userID != "" {
		payload = map[string]string{"user_id": userID}
	}
	var out []models.List
	if err := c.doJSON(ctx, http.MethodPost, "/media/listas/user/get", payload, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.List{}
	}
	return out, nil
}

func (c *Client) DeleteList(ctx context.Context, listID int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/media/listas/delete", map[string]int64{"lista_id": listID}, nil)
}

type addItemPayload struct {
	ListID int64 `json:"lista_id"`
	models.Media
}

// AddListItem snapshots m into the list. A 409 comes back as
// DuplicateItemError.
func (c *Client) AddListItem(ctx context.Context, listID int64, m models.Media) error {
	err := c.doJSON(ctx, http.MethodPost, "/media/listas/item/add", addItemPayload{ListID: listID, Media: m}, nil)
	if ae := asConflict(err); ae != nil {
		return &DuplicateItemError{Detail: ae.Detail}
	}
	return err
}

func (c *Client) RemoveListItem(ctx context.Context, listID int64, key models.MediaKey) error {
	return c.doJSON(ctx, http.MethodDelete, "/media/listas/item/delete", map[string]any{
		"lista_id":   listID,
		"media_id":   key.ID,
		"media_type": key.Type,
	}, nil)
}

// ---- ratings ----

// Rate creates a new rating. A 409 comes back as DuplicateRatingError; the
// caller should switch to update or delete.
func (c *Client) Rate(ctx context.Context, m models.Media, score float64, comment string) (*models.Rating, error) {
	var rt models.Rating
	err := c.doJSON(ctx, http.MethodPost, "/media/rate", map[string]any{
		"media_id":    m.ID,
		"media_type":  m.Type,
		"title":       m.Title,
		"poster_path": m.PosterPath,
		"rating":      score,
		"comment":     comment,
	}, &rt)
	if ae := asConflict(err); ae != nil {
		return nil, &DuplicateRatingError{Detail: ae.Detail}
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (c *Client) UpdateRating(ctx context.Context, key models.MediaKey, score float64, comment string) (*models.Rating, error) {
	var rt models.Rating
	err := c.doJSON(ctx, http.MethodPut, "/media/rate/update", map[string]any{
		"media_id":   key.ID,
		"media_type": key.Type,
		"rating":     score,
		"comment":    comment,
	}, &rt)
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (c *Client) DeleteRating(ctx context.Context, key models.MediaKey) error {
	return c.doJSON(ctx, http.MethodDelete, "/media/rate/delete", map[string]any{
		"media_id":   key.ID,
		"media_type": key.Type,
	}, nil)
}

// UserRatings returns the caller's own ratings.
func (c *Client) UserRatings(ctx context.Context) ([]models.Rating, error) {
	return c.UserRatingsByID(ctx, "")
}

// UserRatingsByID returns the named user's ratings. An empty id means the
// caller.
func (c *Client) UserRatingsByID(ctx context.Context, userID string) ([]models.Rating, error) {
	var payload any
	if userID != "" {
		payload = map[string]string{"user_id": userID}
	}
	var rb struct {
		Results []models.Rating `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/media/rate/user/get", payload, &rb); err != nil {
		return nil, err
	}
	if rb.Results == nil {
		rb.Results = []models.Rating{}
	}
	return rb.Results, nil
}

// ---- users ----

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/get", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.User{}
	}
	return out, nil
}

func (c *Client) User(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+id, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
