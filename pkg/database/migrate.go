package database

import (
	"database/sql"
	"fmt"
)

// Schema is embedded instead of shipped as a loose .sql file so the repos'
// tests can migrate an in-memory database without caring about the working
// directory.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	avatar_id INTEGER NOT NULL DEFAULT 1,
	token_version INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS lists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	nome TEXT NOT NULL,
	description TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS list_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	lista_id INTEGER NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
	media_id INTEGER NOT NULL,
	media_type TEXT NOT NULL,
	title TEXT NOT NULL,
	poster_path TEXT,
	backdrop_path TEXT,
	overview TEXT,
	vote_average REAL NOT NULL DEFAULT 0,
	release_date TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(lista_id, media_type, media_id)
);

CREATE TABLE IF NOT EXISTS ratings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	media_id INTEGER NOT NULL,
	media_type TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	poster_path TEXT,
	rating REAL NOT NULL,
	comment TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(user_id, media_type, media_id)
);

CREATE INDEX IF NOT EXISTS idx_lists_user ON lists(user_id);
CREATE INDEX IF NOT EXISTS idx_list_items_list ON list_items(lista_id);
CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
