package db

import (
	"context"
	"fmt"
)

// schema is applied in order on startup. Statements are idempotent so a
// restart against an existing database is a no-op.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		email        TEXT NOT NULL DEFAULT '',
		country      TEXT NOT NULL DEFAULT '',
		image_url    TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		access_token  TEXT NOT NULL,
		refresh_token TEXT NOT NULL DEFAULT '',
		token_expiry  TIMESTAMPTZ NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS summaries (
		user_id      TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		key          TEXT NOT NULL,
		time_range   TEXT NOT NULL,
		document     JSONB NOT NULL,
		generated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, key)
	)`,
	`CREATE TABLE IF NOT EXISTS artist_minutes (
		user_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		artist_id         TEXT NOT NULL,
		artist_name       TEXT NOT NULL DEFAULT '',
		estimated_minutes INT NOT NULL,
		generated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, artist_id)
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		track_id    TEXT NOT NULL,
		name        TEXT NOT NULL DEFAULT '',
		artist      TEXT NOT NULL DEFAULT '',
		album_image TEXT NOT NULL DEFAULT '',
		preview_url TEXT NOT NULL DEFAULT '',
		spotify_url TEXT NOT NULL DEFAULT '',
		added_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, track_id)
	)`,
	`CREATE TABLE IF NOT EXISTS custom_playlists (
		id          UUID PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS custom_playlist_tracks (
		playlist_id UUID NOT NULL REFERENCES custom_playlists(id) ON DELETE CASCADE,
		track_id    TEXT NOT NULL,
		name        TEXT NOT NULL DEFAULT '',
		artist      TEXT NOT NULL DEFAULT '',
		album_image TEXT NOT NULL DEFAULT '',
		added_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (playlist_id, track_id)
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id         UUID PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS preferences (
		user_id    TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		theme      TEXT NOT NULL DEFAULT 'dark',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates all tables that do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
