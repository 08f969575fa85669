// Package db provides PostgreSQL database access for the recap dashboard.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Common errors.
var (
	ErrNotFound = errors.New("not found")
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Pool returns the underlying connection pool for advanced operations.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Users returns a UserRepository.
func (db *DB) Users() *UserRepository {
	return &UserRepository{pool: db.pool}
}

// Sessions returns a SessionRepository.
func (db *DB) Sessions() *SessionRepository {
	return &SessionRepository{pool: db.pool}
}

// Snapshots returns a SnapshotRepository.
func (db *DB) Snapshots() *SnapshotRepository {
	return &SnapshotRepository{pool: db.pool}
}

// Favorites returns a FavoriteRepository.
func (db *DB) Favorites() *FavoriteRepository {
	return &FavoriteRepository{pool: db.pool}
}

// Playlists returns a PlaylistRepository for user-built playlists.
func (db *DB) Playlists() *PlaylistRepository {
	return &PlaylistRepository{pool: db.pool}
}

// Categories returns a CategoryRepository.
func (db *DB) Categories() *CategoryRepository {
	return &CategoryRepository{pool: db.pool}
}

// Preferences returns a PreferenceRepository.
func (db *DB) Preferences() *PreferenceRepository {
	return &PreferenceRepository{pool: db.pool}
}
