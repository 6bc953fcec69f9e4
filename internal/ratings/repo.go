// Package ratings stores one score-and-comment per user per media entry.
package ratings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"cinelist/pkg/models"
)

// ErrDuplicateRating is returned when a user rates something they already
// rated; the existing row is left untouched.
var ErrDuplicateRating = errors.New("media already rated")

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, rt models.Rating) (*models.Rating, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO ratings (user_id, media_id, media_type, title, poster_path, rating, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rt.UserID, rt.MediaID, rt.MediaType, rt.Title, rt.PosterPath, rt.Score, rt.Comment)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateRating
		}
		return nil, fmt.Errorf("create rating: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create rating id: %w", err)
	}
	return r.getByID(ctx, id)
}

// Update changes score and comment for the user's existing rating of
// (mediaType, mediaID). Returns (nil, nil) when no such rating exists.
func (r *Repo) Update(ctx context.Context, userID string, mediaID int64, mediaType models.MediaType, score float64, comment string) (*models.Rating, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE ratings
		SET rating = ?, comment = ?, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = ? AND media_id = ? AND media_type = ?
	`, score, comment, userID, mediaID, mediaType)
	if err != nil {
		return nil, fmt.Errorf("update rating: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.Get(ctx, userID, mediaID, mediaType)
}

// Delete removes the user's rating of (mediaType, mediaID). Returns false
// when there was nothing to remove.
func (r *Repo) Delete(ctx context.Context, userID string, mediaID int64, mediaType models.MediaType) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM ratings
		WHERE user_id = ? AND media_id = ? AND media_type = ?
	`, userID, mediaID, mediaType)
	if err != nil {
		return false, fmt.Errorf("delete rating: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Get returns the user's rating of (mediaType, mediaID), or (nil, nil).
func (r *Repo) Get(ctx context.Context, userID string, mediaID int64, mediaType models.MediaType) (*models.Rating, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, media_id, media_type, title, poster_path,
		       rating, COALESCE(comment, ''), created_at, updated_at
		FROM ratings
		WHERE user_id = ? AND media_id = ? AND media_type = ?
	`, userID, mediaID, mediaType)
	return scanRating(row)
}

func (r *Repo) getByID(ctx context.Context, id int64) (*models.Rating, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, media_id, media_type, title, poster_path,
		       rating, COALESCE(comment, ''), created_at, updated_at
		FROM ratings
		WHERE id = ?
	`, id)
	return scanRating(row)
}

// ListByUser returns the user's ratings, most recently updated first.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, media_id, media_type, title, poster_path,
		       rating, COALESCE(comment, ''), created_at, updated_at
		FROM ratings
		WHERE user_id = ?
		ORDER BY updated_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	out := make([]models.Rating, 0)
	for rows.Next() {
		var rt models.Rating
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.MediaID, &rt.MediaType,
			&rt.Title, &rt.PosterPath, &rt.Score, &rt.Comment,
			&rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func scanRating(row *sql.Row) (*models.Rating, error) {
	var rt models.Rating
	if err := row.Scan(&rt.ID, &rt.UserID, &rt.MediaID, &rt.MediaType,
		&rt.Title, &rt.PosterPath, &rt.Score, &rt.Comment,
		&rt.CreatedAt, &rt.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &rt, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
