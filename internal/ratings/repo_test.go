package ratings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinelist/pkg/database"
	"cinelist/pkg/models"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.SetMaxOpenConns(1)
	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	_, err = db.Exec(`INSERT INTO users (id, username, email, password_hash) VALUES ('u1', 'ana', 'ana@example.com', 'x')`)
	require.NoError(t, err)
	return db
}

func TestCreateAndDuplicateLeavesOriginal(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, models.Rating{
		UserID:    "u1",
		MediaID:   603,
		MediaType: models.TypeMovie,
		Title:     "Matrix",
		Score:     8.5,
		Comment:   "great",
	})
	require.NoError(t, err)
	assert.Equal(t, 8.5, first.Score)

	_, err = repo.Create(ctx, models.Rating{
		UserID:    "u1",
		MediaID:   603,
		MediaType: models.TypeMovie,
		Score:     2.0,
		Comment:   "changed my mind",
	})
	assert.ErrorIs(t, err, ErrDuplicateRating)

	// the rejected create must not have touched the stored row
	got, err := repo.Get(ctx, "u1", 603, models.TypeMovie)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 8.5, got.Score)
	assert.Equal(t, "great", got.Comment)
}

func TestRateUpdateFetchRoundTrip(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, models.Rating{
		UserID:    "u1",
		MediaID:   16498,
		MediaType: models.TypeAnime,
		Title:     "Shingeki no Kyojin",
		Score:     8.5,
		Comment:   "great",
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, "u1", 16498, models.TypeAnime, 9.0, "even better on rewatch")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 9.0, updated.Score)

	all, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 9.0, all[0].Score)
	assert.Equal(t, "even better on rewatch", all[0].Comment)
}

func TestUpdateMissingRating(t *testing.T) {
	repo := NewRepo(testDB(t))
	got, err := repo.Update(context.Background(), "u1", 1, models.TypeMovie, 5, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, models.Rating{UserID: "u1", MediaID: 1, MediaType: models.TypeSerie, Score: 7})
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, "u1", 1, models.TypeSerie)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, "u1", 1, models.TypeSerie)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, "u1", 1, models.TypeSerie)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSameMediaDifferentTypes(t *testing.T) {
	repo := NewRepo(testDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, models.Rating{UserID: "u1", MediaID: 42, MediaType: models.TypeMovie, Score: 6})
	require.NoError(t, err)
	_, err = repo.Create(ctx, models.Rating{UserID: "u1", MediaID: 42, MediaType: models.TypeAnime, Score: 9})
	require.NoError(t, err)

	all, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
