package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FavoriteRepository handles favorited-track database operations.
type FavoriteRepository struct {
	pool *pgxpool.Pool
}

// Upsert saves a track to the user's favorites.
func (r *FavoriteRepository) Upsert(ctx context.Context, fav *Favorite) error {
	if fav.AddedAt.IsZero() {
		fav.AddedAt = time.Now()
	}
	query := `
		INSERT INTO favorites (user_id, track_id, name, artist, album_image, preview_url, spotify_url, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, track_id) DO UPDATE SET
			name = EXCLUDED.name,
			artist = EXCLUDED.artist,
			album_image = EXCLUDED.album_image,
			preview_url = EXCLUDED.preview_url,
			spotify_url = EXCLUDED.spotify_url
	`
	_, err := r.pool.Exec(ctx, query,
		fav.UserID,
		fav.TrackID,
		fav.Name,
		fav.Artist,
		fav.AlbumImage,
		fav.PreviewURL,
		fav.SpotifyURL,
		fav.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting favorite: %w", err)
	}
	return nil
}

// List retrieves a user's favorites, most recently added first.
func (r *FavoriteRepository) List(ctx context.Context, userID string) ([]Favorite, error) {
	query := `
		SELECT user_id, track_id, name, artist, album_image, preview_url, spotify_url, added_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY added_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	var favorites []Favorite
	for rows.Next() {
		var fav Favorite
		if err := rows.Scan(
			&fav.UserID,
			&fav.TrackID,
			&fav.Name,
			&fav.Artist,
			&fav.AlbumImage,
			&fav.PreviewURL,
			&fav.SpotifyURL,
			&fav.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		favorites = append(favorites, fav)
	}
	return favorites, rows.Err()
}

// Delete removes a track from the user's favorites.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, trackID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND track_id = $2`
	result, err := r.pool.Exec(ctx, query, userID, trackID)
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
