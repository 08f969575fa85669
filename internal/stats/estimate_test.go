package stats

import (
	"reflect"
	"testing"
)

func track(id string, durationMs int, album Album, artists ...Artist) Track {
	return Track{
		ID:         id,
		Name:       "track " + id,
		DurationMs: durationMs,
		Artists:    artists,
		Album:      album,
		Window:     WindowShortTerm,
	}
}

func TestEstimateArtistAggregates(t *testing.T) {
	alX := Album{ID: "alX", Name: "Album X"}
	alY := Album{ID: "alY", Name: "Album Y"}
	a1 := Artist{ID: "a1", Name: "X"}
	a2 := Artist{ID: "a2", Name: "Y"}

	tests := []struct {
		name        string
		tracks      []Track
		opts        Options
		wantArtists []ArtistAggregate
	}{
		{
			name:   "single track weekly multiplier",
			tracks: []Track{track("t1", 200000, Album{ID: "al1"}, a1)},
			opts:   Options{Replays: RangeReplays(RangeWeek)},
			wantArtists: []ArtistAggregate{
				{ID: "a1", Name: "X", TotalMs: 2000000, EstimatedMinutes: 33},
			},
		},
		{
			name:   "multi-artist track credits each artist fully",
			tracks: []Track{track("t1", 180000, alX, a1, a2)},
			opts:   Options{Replays: FixedReplays(20)},
			wantArtists: []ArtistAggregate{
				{ID: "a1", Name: "X", TotalMs: 3600000, EstimatedMinutes: 60},
				{ID: "a2", Name: "Y", TotalMs: 3600000, EstimatedMinutes: 60},
			},
		},
		{
			name: "ranked descending with stable ties",
			tracks: []Track{
				track("t1", 60000, alX, a1),
				track("t2", 120000, alY, a2),
				track("t3", 60000, alX, Artist{ID: "a3", Name: "Z"}),
			},
			opts: Options{Replays: FixedReplays(1)},
			wantArtists: []ArtistAggregate{
				{ID: "a2", Name: "Y", TotalMs: 120000, EstimatedMinutes: 2},
				{ID: "a1", Name: "X", TotalMs: 60000, EstimatedMinutes: 1},
				{ID: "a3", Name: "Z", TotalMs: 60000, EstimatedMinutes: 1},
			},
		},
		{
			name: "duplicate artist credit on one track counted once",
			tracks: []Track{
				track("t1", 60000, alX, a1, a1),
			},
			opts: Options{Replays: FixedReplays(10)},
			wantArtists: []ArtistAggregate{
				{ID: "a1", Name: "X", TotalMs: 600000, EstimatedMinutes: 10},
			},
		},
		{
			name: "malformed tracks skipped",
			tracks: []Track{
				track("t1", 0, alX, a1),      // no duration
				{ID: "t2", DurationMs: 60000}, // no artists
				track("t3", 60000, alY, a2),
			},
			opts: Options{Replays: FixedReplays(1)},
			wantArtists: []ArtistAggregate{
				{ID: "a2", Name: "Y", TotalMs: 60000, EstimatedMinutes: 1},
			},
		},
		{
			name: "top artists truncation",
			tracks: []Track{
				track("t1", 180000, alX, a1),
				track("t2", 120000, alY, a2),
				track("t3", 60000, alX, Artist{ID: "a3", Name: "Z"}),
			},
			opts: Options{Replays: FixedReplays(1), TopArtists: 2},
			wantArtists: []ArtistAggregate{
				{ID: "a1", Name: "X", TotalMs: 180000, EstimatedMinutes: 3},
				{ID: "a2", Name: "Y", TotalMs: 120000, EstimatedMinutes: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.tracks, tt.opts)
			if len(got.Artists) != len(tt.wantArtists) {
				t.Fatalf("got %d artist aggregates, want %d", len(got.Artists), len(tt.wantArtists))
			}
			for i, want := range tt.wantArtists {
				gotA := got.Artists[i]
				if gotA.ID != want.ID || gotA.Name != want.Name ||
					gotA.TotalMs != want.TotalMs || gotA.EstimatedMinutes != want.EstimatedMinutes {
					t.Errorf("artist[%d] = %+v, want %+v", i, gotA, want)
				}
			}
		})
	}
}

func TestEstimateEmptyInput(t *testing.T) {
	got := Estimate(nil, Options{Replays: FixedReplays(10)})
	if len(got.Artists) != 0 {
		t.Errorf("got %d artist aggregates, want 0", len(got.Artists))
	}
	if len(got.Tracks) != 0 {
		t.Errorf("got %d track estimates, want 0", len(got.Tracks))
	}
	if got.TopAlbum != nil {
		t.Errorf("got top album %+v, want nil", got.TopAlbum)
	}
}

func TestEstimateIdempotent(t *testing.T) {
	tracks := []Track{
		track("t1", 200000, Album{ID: "al1", Name: "One"}, Artist{ID: "a1", Name: "X"}),
		track("t2", 180000, Album{ID: "al2", Name: "Two"}, Artist{ID: "a2", Name: "Y"}, Artist{ID: "a1", Name: "X"}),
		track("t3", 180000, Album{ID: "al1", Name: "One"}, Artist{ID: "a3", Name: "Z"}),
	}
	opts := Options{Replays: FixedReplays(10), TopArtists: 3, TopTracks: 2}

	first := Estimate(tracks, opts)
	second := Estimate(tracks, opts)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated estimate differs:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestEstimateArtistFilters(t *testing.T) {
	tracks := []Track{
		track("t1", 60000, Album{ID: "al1"}, Artist{ID: "a1", Name: "Glass Animals"}),
		track("t2", 60000, Album{ID: "al2"}, Artist{ID: "a2", Name: "The Animals"}),
		track("t3", 60000, Album{ID: "al3"}, Artist{ID: "a3", Name: "Caribou"}),
	}

	tests := []struct {
		name    string
		opts    Options
		wantIDs []string
	}{
		{
			name:    "id filter selects exactly that artist",
			opts:    Options{ArtistID: "a1"},
			wantIDs: []string{"a1"},
		},
		{
			name:    "id filter with absent artist yields empty",
			opts:    Options{ArtistID: "missing"},
			wantIDs: nil,
		},
		{
			name:    "name substring filter is case-insensitive",
			opts:    Options{ArtistName: "animals"},
			wantIDs: []string{"a1", "a2"},
		},
		{
			name:    "id filter takes precedence over name filter",
			opts:    Options{ArtistID: "a3", ArtistName: "animals"},
			wantIDs: []string{"a3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tracks, tt.opts)
			var ids []string
			for _, a := range got.Artists {
				ids = append(ids, a.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("artist ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestEstimateTrackEstimates(t *testing.T) {
	tracks := []Track{
		track("t1", 60000, Album{ID: "al1", Name: "One"}, Artist{ID: "a1", Name: "X"}),
		track("t2", 60000, Album{ID: "al2", Name: "Two"}, Artist{ID: "a2", Name: "Y"}),
		track("t3", 60000, Album{ID: "al3", Name: "Three"}, Artist{ID: "a3", Name: "Z"}),
	}

	got := Estimate(tracks, Options{Replays: RangeReplays(RangeWeek), TopTracks: 2})
	if len(got.Tracks) != 2 {
		t.Fatalf("got %d track estimates, want 2", len(got.Tracks))
	}
	// Provider order, not aggregate rank.
	if got.Tracks[0].ID != "t1" || got.Tracks[1].ID != "t2" {
		t.Errorf("track estimate order = %s, %s; want t1, t2", got.Tracks[0].ID, got.Tracks[1].ID)
	}
	for _, te := range got.Tracks {
		if te.PlayCount != 10 {
			t.Errorf("track %s play count = %d, want 10", te.ID, te.PlayCount)
		}
	}
}

func TestEstimateTopAlbum(t *testing.T) {
	alX := Album{ID: "alX", Name: "X"}
	alY := Album{ID: "alY", Name: "Y"}
	a1 := Artist{ID: "a1", Name: "A"}

	tests := []struct {
		name      string
		tracks    []Track
		wantID    string
		wantCount int
	}{
		{
			name: "most frequent wins",
			tracks: []Track{
				track("t1", 60000, alX, a1),
				track("t2", 60000, alY, a1),
				track("t3", 60000, alX, a1),
			},
			wantID:    "alX",
			wantCount: 2,
		},
		{
			name: "tie broken by first seen",
			tracks: []Track{
				track("t1", 60000, alY, a1),
				track("t2", 60000, alX, a1),
			},
			wantID:    "alY",
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.tracks, Options{})
			if got.TopAlbum == nil {
				t.Fatal("got nil top album")
			}
			if got.TopAlbum.ID != tt.wantID || got.TopAlbum.Count != tt.wantCount {
				t.Errorf("top album = %s (count %d), want %s (count %d)",
					got.TopAlbum.ID, got.TopAlbum.Count, tt.wantID, tt.wantCount)
			}
		})
	}
}

func TestEstimateWindowProvenance(t *testing.T) {
	// A unioned fetch carries per-track window provenance: each track uses
	// the multiplier of the window that fetched it.
	short := track("t1", 60000, Album{ID: "al1"}, Artist{ID: "a1", Name: "X"})
	short.Window = WindowShortTerm
	long := track("t2", 60000, Album{ID: "al2"}, Artist{ID: "a1", Name: "X"})
	long.Window = WindowLongTerm

	replays := WindowReplays(map[Window]int{
		WindowShortTerm: 2,
		WindowLongTerm:  30,
	}, 1)

	got := Estimate([]Track{short, long}, Options{Replays: replays})
	if len(got.Artists) != 1 {
		t.Fatalf("got %d artist aggregates, want 1", len(got.Artists))
	}
	wantMs := int64(60000*2 + 60000*30)
	if got.Artists[0].TotalMs != wantMs {
		t.Errorf("total ms = %d, want %d", got.Artists[0].TotalMs, wantMs)
	}
	if got.Tracks[0].PlayCount != 2 || got.Tracks[1].PlayCount != 30 {
		t.Errorf("play counts = %d, %d; want 2, 30", got.Tracks[0].PlayCount, got.Tracks[1].PlayCount)
	}
}

func TestEstimateMinuteSum(t *testing.T) {
	// With one artist per track and a fixed multiplier, the per-artist
	// minute sum tracks the whole-batch estimate within rounding.
	tracks := []Track{
		track("t1", 187000, Album{ID: "al1"}, Artist{ID: "a1", Name: "A"}),
		track("t2", 243000, Album{ID: "al2"}, Artist{ID: "a2", Name: "B"}),
		track("t3", 151000, Album{ID: "al3"}, Artist{ID: "a3", Name: "C"}),
	}
	const m = 10

	got := Estimate(tracks, Options{Replays: FixedReplays(m)})

	var sumMinutes, totalMs int
	for _, a := range got.Artists {
		sumMinutes += a.EstimatedMinutes
	}
	for _, tr := range tracks {
		totalMs += tr.DurationMs * m
	}
	whole := roundMinutes(int64(totalMs))

	diff := sumMinutes - whole
	if diff < 0 {
		diff = -diff
	}
	if diff > len(got.Artists) {
		t.Errorf("minute sum %d deviates from whole-batch estimate %d by more than %d",
			sumMinutes, whole, len(got.Artists))
	}
}
