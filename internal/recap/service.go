// Package recap provides services for computing and persisting listening
// estimates.
package recap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/replaylab/spotify-recap/internal/db"
	"github.com/replaylab/spotify-recap/internal/stats"
)

// Ranked-list sizes for the summary view.
const (
	summaryTopArtists = 3
	summaryTopTracks  = 4
)

// Fetcher supplies top-track pages from the catalog API.
type Fetcher interface {
	TopTracks(ctx context.Context, rng stats.Range) ([]stats.Track, error)
	TopTracksAllWindows(ctx context.Context) ([]stats.Track, error)
}

// Store persists computed aggregates. Writes are best-effort relative to
// the compute path: the caller always gets the in-memory result.
type Store interface {
	UpsertSummary(ctx context.Context, summary *db.Summary) error
	UpsertArtistMinutes(ctx context.Context, userID string, records []db.ArtistMinutes) error
}

// Service computes listening estimates and persists snapshots.
type Service struct {
	store Store
	log   zerolog.Logger
	now   func() time.Time
}

// New creates a new recap service.
func New(store Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// SummaryResult is a computed summary plus its persistence status.
type SummaryResult struct {
	Key         string      `json:"key"`
	Range       stats.Range `json:"range"`
	GeneratedAt time.Time   `json:"generatedAt"`
	stats.Result
	// Persisted reports whether the snapshot write succeeded. A failed
	// write never invalidates the computed result.
	Persisted bool `json:"persisted"`
}

// Summary fetches the user's top tracks for the range, computes the summary
// aggregates (top artists, track play estimates, most-listened album), and
// writes a snapshot keyed by the current ISO week.
//
// A fetch failure aborts and is returned to the caller. A snapshot-write
// failure is logged and reported through Persisted only.
func (s *Service) Summary(ctx context.Context, fetcher Fetcher, userID string, rng stats.Range) (*SummaryResult, error) {
	var (
		tracks []stats.Track
		err    error
	)
	if rng == stats.RangeAllTime {
		tracks, err = fetcher.TopTracksAllWindows(ctx)
	} else {
		tracks, err = fetcher.TopTracks(ctx, rng)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks: %w", err)
	}

	computed := stats.Estimate(tracks, stats.Options{
		Replays:    stats.RangeReplays(rng),
		TopArtists: summaryTopArtists,
		TopTracks:  summaryTopTracks,
	})

	now := s.now()
	result := &SummaryResult{
		Key:         WeekKey(now),
		Range:       rng,
		GeneratedAt: now,
		Result:      computed,
	}

	snapshot := &db.Summary{
		UserID:      userID,
		Key:         result.Key,
		Range:       rng,
		Document:    computed,
		GeneratedAt: now,
	}
	if err := s.store.UpsertSummary(ctx, snapshot); err != nil {
		s.log.Error().Err(err).
			Str("user_id", userID).
			Str("key", result.Key).
			Msg("saving summary snapshot failed")
	} else {
		result.Persisted = true
	}

	return result, nil
}

// ArtistMinutesResult is the estimated listening time for one artist across
// all provider windows.
type ArtistMinutesResult struct {
	ArtistID         string    `json:"artistId"`
	ArtistName       string    `json:"artistName"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
	TrackCount       int       `json:"trackCount"`
	GeneratedAt      time.Time `json:"generatedAt"`
	Persisted        bool      `json:"persisted"`
}

// ArtistMinutes estimates total minutes listened to one artist, unioning
// the user's top tracks from all three provider windows. The artist is
// selected by id when given; otherwise by the legacy case-insensitive name
// substring match, which keeps working when only a display name is known.
//
// An artist absent from the input yields a zero estimate, not an error.
func (s *Service) ArtistMinutes(ctx context.Context, fetcher Fetcher, userID, artistID, artistName string) (*ArtistMinutesResult, error) {
	tracks, err := fetcher.TopTracksAllWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks: %w", err)
	}

	computed := stats.Estimate(tracks, stats.Options{
		Replays:    stats.RangeReplays(stats.RangeAllTime),
		ArtistID:   artistID,
		ArtistName: artistName,
	})

	now := s.now()
	result := &ArtistMinutesResult{
		ArtistID:    artistID,
		ArtistName:  artistName,
		GeneratedAt: now,
	}
	if len(computed.Artists) == 0 {
		return result, nil
	}

	// With an id filter there is exactly one aggregate; the name filter can
	// match several, in which case the top one is the answer.
	top := computed.Artists[0]
	result.ArtistID = top.ID
	result.ArtistName = top.Name
	result.EstimatedMinutes = top.EstimatedMinutes
	result.TrackCount = len(computed.Tracks)

	record := db.ArtistMinutes{
		UserID:           userID,
		ArtistID:         top.ID,
		ArtistName:       top.Name,
		EstimatedMinutes: top.EstimatedMinutes,
		GeneratedAt:      now,
	}
	if err := s.store.UpsertArtistMinutes(ctx, userID, []db.ArtistMinutes{record}); err != nil {
		s.log.Error().Err(err).
			Str("user_id", userID).
			Str("artist_id", top.ID).
			Msg("saving artist minutes failed")
	} else {
		result.Persisted = true
	}

	return result, nil
}

// SaveAllResult is the outcome of aggregating and persisting estimates for
// every artist in the user's unioned top tracks.
type SaveAllResult struct {
	Artists     []stats.ArtistAggregate `json:"artists"`
	Saved       int                     `json:"saved"`
	GeneratedAt time.Time               `json:"generatedAt"`
}

// SaveAllArtistMinutes aggregates every artist across all provider windows
// and batch-persists one record per artist. Unlike the other operations the
// persistence failure is surfaced as the error here, because saving is the
// point of the call; the computed aggregates are still returned alongside
// it so the caller can show them.
func (s *Service) SaveAllArtistMinutes(ctx context.Context, fetcher Fetcher, userID string) (*SaveAllResult, error) {
	tracks, err := fetcher.TopTracksAllWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks: %w", err)
	}

	computed := stats.Estimate(tracks, stats.Options{
		Replays: stats.RangeReplays(stats.RangeAllTime),
	})

	now := s.now()
	result := &SaveAllResult{
		Artists:     computed.Artists,
		GeneratedAt: now,
	}

	records := make([]db.ArtistMinutes, len(computed.Artists))
	for i, a := range computed.Artists {
		records[i] = db.ArtistMinutes{
			UserID:           userID,
			ArtistID:         a.ID,
			ArtistName:       a.Name,
			EstimatedMinutes: a.EstimatedMinutes,
			GeneratedAt:      now,
		}
	}

	if err := s.store.UpsertArtistMinutes(ctx, userID, records); err != nil {
		s.log.Error().Err(err).
			Str("user_id", userID).
			Int("artists", len(records)).
			Msg("saving artist minutes batch failed")
		return result, fmt.Errorf("saving artist minutes: %w", err)
	}
	result.Saved = len(records)

	return result, nil
}

// WeekKey formats the snapshot key for a point in time, e.g. "2026-W36".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%d", year, week)
}
