package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/replaylab/spotify-recap/internal/stats"
)

// SnapshotRepository persists computed aggregation results: summary
// documents keyed by (user, week) and per-artist minute estimates keyed by
// (user, artist). Writes are full overwrites; concurrent runs for the same
// key are not synchronized and the last write wins.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// UpsertSummary writes (or overwrites) the summary snapshot for the
// summary's (user, key) pair.
func (r *SnapshotRepository) UpsertSummary(ctx context.Context, summary *Summary) error {
	doc, err := json.Marshal(summary.Document)
	if err != nil {
		return fmt.Errorf("encoding summary document: %w", err)
	}

	query := `
		INSERT INTO summaries (user_id, key, time_range, document, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, key) DO UPDATE SET
			time_range = EXCLUDED.time_range,
			document = EXCLUDED.document,
			generated_at = EXCLUDED.generated_at
	`
	_, err = r.pool.Exec(ctx, query,
		summary.UserID,
		summary.Key,
		string(summary.Range),
		doc,
		summary.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting summary: %w", err)
	}
	return nil
}

// GetSummary retrieves the summary snapshot for a (user, key) pair.
func (r *SnapshotRepository) GetSummary(ctx context.Context, userID, key string) (*Summary, error) {
	query := `
		SELECT user_id, key, time_range, document, generated_at
		FROM summaries
		WHERE user_id = $1 AND key = $2
	`
	var (
		summary Summary
		rng     string
		doc     []byte
	)
	err := r.pool.QueryRow(ctx, query, userID, key).Scan(
		&summary.UserID,
		&summary.Key,
		&rng,
		&doc,
		&summary.GeneratedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying summary: %w", err)
	}

	summary.Range = stats.Range(rng)
	if err := json.Unmarshal(doc, &summary.Document); err != nil {
		return nil, fmt.Errorf("decoding summary document: %w", err)
	}
	return &summary, nil
}

// LatestSummary retrieves the most recently generated summary for a user.
func (r *SnapshotRepository) LatestSummary(ctx context.Context, userID string) (*Summary, error) {
	query := `
		SELECT key
		FROM summaries
		WHERE user_id = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`
	var key string
	err := r.pool.QueryRow(ctx, query, userID).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest summary: %w", err)
	}
	return r.GetSummary(ctx, userID, key)
}

// UpsertArtistMinutes batch-writes per-artist minute estimates for a user.
func (r *SnapshotRepository) UpsertArtistMinutes(ctx context.Context, userID string, records []ArtistMinutes) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO artist_minutes (user_id, artist_id, artist_name, estimated_minutes, generated_at)
		SELECT $1, * FROM unnest($2::text[], $3::text[], $4::int[], $5::timestamptz[])
		ON CONFLICT (user_id, artist_id) DO UPDATE SET
			artist_name = EXCLUDED.artist_name,
			estimated_minutes = EXCLUDED.estimated_minutes,
			generated_at = EXCLUDED.generated_at
	`

	ids := make([]string, len(records))
	names := make([]string, len(records))
	minutes := make([]int, len(records))
	generated := make([]time.Time, len(records))
	for i, rec := range records {
		ids[i] = rec.ArtistID
		names[i] = rec.ArtistName
		minutes[i] = rec.EstimatedMinutes
		generated[i] = rec.GeneratedAt
	}

	_, err := r.pool.Exec(ctx, query, userID, ids, names, minutes, generated)
	if err != nil {
		return fmt.Errorf("batch upserting artist minutes: %w", err)
	}
	return nil
}

// ListArtistMinutes retrieves a user's saved artist estimates, highest first.
func (r *SnapshotRepository) ListArtistMinutes(ctx context.Context, userID string) ([]ArtistMinutes, error) {
	query := `
		SELECT user_id, artist_id, artist_name, estimated_minutes, generated_at
		FROM artist_minutes
		WHERE user_id = $1
		ORDER BY estimated_minutes DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying artist minutes: %w", err)
	}
	defer rows.Close()

	var records []ArtistMinutes
	for rows.Next() {
		var rec ArtistMinutes
		if err := rows.Scan(
			&rec.UserID,
			&rec.ArtistID,
			&rec.ArtistName,
			&rec.EstimatedMinutes,
			&rec.GeneratedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning artist minutes: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
