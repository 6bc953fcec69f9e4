// Package lists stores user-owned media lists and their item snapshots.
package lists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"cinelist/pkg/models"
)

// ErrDuplicateItem is returned when a (media_type, media_id) pair is added to
// a list that already holds it.
var ErrDuplicateItem = errors.New("item already in this list")

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) CreateList(ctx context.Context, userID, name, description string) (*models.List, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO lists (user_id, nome, description)
		VALUES (?, ?, ?)
	`, userID, name, description)
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create list id: %w", err)
	}
	return r.GetList(ctx, id)
}

// GetList returns a list with its items, or (nil, nil) when no such list
// exists. Items come back in insertion order.
func (r *Repo) GetList(ctx context.Context, listID int64) (*models.List, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, nome, COALESCE(description, ''), created_at
		FROM lists
		WHERE id = ?
	`, listID)

	var l models.List
	if err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.Description, &l.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get list: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, lista_id, media_id, media_type, title, poster_path,
		       backdrop_path, COALESCE(overview, ''), vote_average,
		       release_date, created_at
		FROM list_items
		WHERE lista_id = ?
		ORDER BY id
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	l.Items = make([]models.ListItem, 0)
	for rows.Next() {
		var it models.ListItem
		if err := rows.Scan(&it.ID, &it.ListID, &it.MediaID, &it.MediaType,
			&it.Title, &it.PosterPath, &it.BackdropPath, &it.Overview,
			&it.VoteAverage, &it.ReleaseDate, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan list item: %w", err)
		}
		l.Items = append(l.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	l.ItemCount = len(l.Items)
	return &l, nil
}

// ListByUser returns the user's lists newest first, with item counts but
// without item bodies.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]models.List, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT l.id, l.user_id, l.nome, COALESCE(l.description, ''), l.created_at,
		       (SELECT COUNT(*) FROM list_items li WHERE li.lista_id = l.id)
		FROM lists l
		WHERE l.user_id = ?
		ORDER BY l.created_at DESC, l.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	out := make([]models.List, 0)
	for rows.Next() {
		var l models.List
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.Description,
			&l.CreatedAt, &l.ItemCount); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		l.Items = make([]models.ListItem, 0)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// AddItem snapshots m into the list. Returns ErrDuplicateItem when the list
// already holds this (type, id) pair.
func (r *Repo) AddItem(ctx context.Context, listID int64, m models.Media) (*models.ListItem, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO list_items (lista_id, media_id, media_type, title,
			poster_path, backdrop_path, overview, vote_average, release_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, listID, m.ID, m.Type, m.Title, m.PosterPath, m.BackdropPath,
		m.Overview, m.VoteAverage, m.ReleaseDate)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateItem
		}
		return nil, fmt.Errorf("add list item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add list item id: %w", err)
	}
	return &models.ListItem{
		ID:           id,
		ListID:       listID,
		MediaID:      m.ID,
		MediaType:    m.Type,
		Title:        m.Title,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		Overview:     m.Overview,
		VoteAverage:  m.VoteAverage,
		ReleaseDate:  m.ReleaseDate,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// RemoveItem deletes one snapshot by its media identity. Returns false when
// the list did not hold it.
func (r *Repo) RemoveItem(ctx context.Context, listID, mediaID int64, mediaType models.MediaType) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM list_items
		WHERE lista_id = ? AND media_id = ? AND media_type = ?
	`, listID, mediaID, mediaType)
	if err != nil {
		return false, fmt.Errorf("remove list item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteList removes the list; items go with it via the FK cascade.
func (r *Repo) DeleteList(ctx context.Context, listID int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, listID)
	if err != nil {
		return false, fmt.Errorf("delete list: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
