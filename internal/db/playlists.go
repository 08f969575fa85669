package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlaylistRepository handles custom-playlist database operations.
type PlaylistRepository struct {
	pool *pgxpool.Pool
}

// Create inserts a new custom playlist.
func (r *PlaylistRepository) Create(ctx context.Context, playlist *CustomPlaylist) error {
	if playlist.ID == uuid.Nil {
		playlist.ID = uuid.New()
	}
	query := `
		INSERT INTO custom_playlists (id, user_id, name, description, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		playlist.ID,
		playlist.UserID,
		playlist.Name,
		playlist.Description,
		playlist.Category,
	).Scan(&playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting playlist: %w", err)
	}
	return nil
}

// Get retrieves one of the user's playlists by ID.
func (r *PlaylistRepository) Get(ctx context.Context, userID string, id uuid.UUID) (*CustomPlaylist, error) {
	query := `
		SELECT id, user_id, name, description, category, created_at, updated_at
		FROM custom_playlists
		WHERE user_id = $1 AND id = $2
	`
	var playlist CustomPlaylist
	err := r.pool.QueryRow(ctx, query, userID, id).Scan(
		&playlist.ID,
		&playlist.UserID,
		&playlist.Name,
		&playlist.Description,
		&playlist.Category,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying playlist: %w", err)
	}
	return &playlist, nil
}

// List retrieves all of a user's playlists, newest first.
func (r *PlaylistRepository) List(ctx context.Context, userID string) ([]CustomPlaylist, error) {
	query := `
		SELECT id, user_id, name, description, category, created_at, updated_at
		FROM custom_playlists
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying playlists: %w", err)
	}
	defer rows.Close()

	var playlists []CustomPlaylist
	for rows.Next() {
		var playlist CustomPlaylist
		if err := rows.Scan(
			&playlist.ID,
			&playlist.UserID,
			&playlist.Name,
			&playlist.Description,
			&playlist.Category,
			&playlist.CreatedAt,
			&playlist.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	return playlists, rows.Err()
}

// Update renames a playlist and updates its description and category.
func (r *PlaylistRepository) Update(ctx context.Context, playlist *CustomPlaylist) error {
	query := `
		UPDATE custom_playlists
		SET name = $3, description = $4, category = $5, updated_at = NOW()
		WHERE user_id = $1 AND id = $2
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		playlist.UserID,
		playlist.ID,
		playlist.Name,
		playlist.Description,
		playlist.Category,
	).Scan(&playlist.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("updating playlist: %w", err)
	}
	return nil
}

// Delete removes a playlist and its tracks.
func (r *PlaylistRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM custom_playlists WHERE user_id = $1 AND id = $2`
	result, err := r.pool.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddTrack adds a track to a playlist. Adding an existing track refreshes
// its metadata.
func (r *PlaylistRepository) AddTrack(ctx context.Context, track *PlaylistTrack) error {
	query := `
		INSERT INTO custom_playlist_tracks (playlist_id, track_id, name, artist, album_image, added_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (playlist_id, track_id) DO UPDATE SET
			name = EXCLUDED.name,
			artist = EXCLUDED.artist,
			album_image = EXCLUDED.album_image
	`
	_, err := r.pool.Exec(ctx, query,
		track.PlaylistID,
		track.TrackID,
		track.Name,
		track.Artist,
		track.AlbumImage,
	)
	if err != nil {
		return fmt.Errorf("adding playlist track: %w", err)
	}
	return nil
}

// RemoveTrack removes a track from a playlist.
func (r *PlaylistRepository) RemoveTrack(ctx context.Context, playlistID uuid.UUID, trackID string) error {
	query := `DELETE FROM custom_playlist_tracks WHERE playlist_id = $1 AND track_id = $2`
	result, err := r.pool.Exec(ctx, query, playlistID, trackID)
	if err != nil {
		return fmt.Errorf("removing playlist track: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Tracks retrieves all tracks in a playlist in the order they were added.
func (r *PlaylistRepository) Tracks(ctx context.Context, playlistID uuid.UUID) ([]PlaylistTrack, error) {
	query := `
		SELECT playlist_id, track_id, name, artist, album_image, added_at
		FROM custom_playlist_tracks
		WHERE playlist_id = $1
		ORDER BY added_at
	`
	rows, err := r.pool.Query(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("querying playlist tracks: %w", err)
	}
	defer rows.Close()

	var tracks []PlaylistTrack
	for rows.Next() {
		var track PlaylistTrack
		if err := rows.Scan(
			&track.PlaylistID,
			&track.TrackID,
			&track.Name,
			&track.Artist,
			&track.AlbumImage,
			&track.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning playlist track: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}
