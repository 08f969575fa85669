package stats

import (
	"math"
	"sort"
	"strings"
)

// Artist identifies a credited artist. Identity is by ID; Name is display
// text and the key for the legacy name-matching filter.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album identifies the album a track belongs to.
type Album struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image,omitempty"`
}

// Track is one catalogued track as fetched from the provider.
type Track struct {
	ID         string
	Name       string
	DurationMs int
	Artists    []Artist
	Album      Album
	PreviewURL string

	// Window records which provider window fetched this track. Unioned
	// multi-window fetches must set it so each track's contribution uses
	// the multiplier of the window it came from.
	Window Window
}

// ArtistAggregate is the estimated total listening time for one artist.
type ArtistAggregate struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ImageURL         string `json:"image,omitempty"`
	TotalMs          int64  `json:"totalMs"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

// TrackEstimate is a per-track play-count annotation for the summary view.
type TrackEstimate struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Album      string `json:"album"`
	AlbumImage string `json:"albumImage,omitempty"`
	PlayCount  int    `json:"playCount"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

// AlbumCount is the most-frequent album in a batch of tracks.
type AlbumCount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image,omitempty"`
	Artist   string `json:"artist"`
	Count    int    `json:"count"`
}

// Result holds the computed aggregates for one request.
type Result struct {
	Artists  []ArtistAggregate `json:"artistAggregates"`
	Tracks   []TrackEstimate   `json:"trackEstimates"`
	TopAlbum *AlbumCount       `json:"topAlbum"`
}

// Options parameterizes Estimate.
type Options struct {
	// Replays looks up the assumed replay count per fetching window.
	// Nil counts each track once.
	Replays ReplayFunc

	// ArtistID restricts aggregation to tracks crediting this artist id.
	ArtistID string

	// ArtistName is the legacy filter: case-insensitive substring match
	// against artist display names. Only consulted when ArtistID is empty;
	// id matching is preferred because names are ambiguous.
	ArtistName string

	// TopArtists truncates the ranked artist list when positive.
	TopArtists int

	// TopTracks is the number of leading tracks annotated with a play
	// estimate. Zero or negative annotates all of them.
	TopTracks int
}

// Estimate aggregates a batch of tracks into ranked per-artist minute
// estimates, per-track play estimates, and the most-frequent album.
//
// Every artist credited on a track receives the full duration-based
// contribution; a collaboration is not split between its artists. Malformed
// tracks (no duration or no artists) are skipped. The computation is pure
// and deterministic: identical input yields identical output.
func Estimate(tracks []Track, opts Options) Result {
	replays := opts.Replays
	if replays == nil {
		replays = FixedReplays(1)
	}

	filtered := filter(tracks, opts)

	var (
		artistOrder []string
		artistAggs  = make(map[string]*ArtistAggregate)
		albumOrder  []string
		albumCounts = make(map[string]*AlbumCount)
	)

	for _, t := range filtered {
		contribution := int64(t.DurationMs) * int64(replays(t.Window))

		// Credit each distinct artist with the full contribution.
		seen := make(map[string]bool, len(t.Artists))
		for _, a := range t.Artists {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true

			agg, ok := artistAggs[a.ID]
			if !ok {
				agg = &ArtistAggregate{
					ID:       a.ID,
					Name:     a.Name,
					ImageURL: t.Album.ImageURL,
				}
				artistAggs[a.ID] = agg
				artistOrder = append(artistOrder, a.ID)
			}
			agg.TotalMs += contribution
		}

		count, ok := albumCounts[t.Album.ID]
		if !ok {
			count = &AlbumCount{
				ID:       t.Album.ID,
				Name:     t.Album.Name,
				ImageURL: t.Album.ImageURL,
				Artist:   t.Artists[0].Name,
			}
			albumCounts[t.Album.ID] = count
			albumOrder = append(albumOrder, t.Album.ID)
		}
		count.Count++
	}

	artists := make([]ArtistAggregate, 0, len(artistOrder))
	for _, id := range artistOrder {
		agg := artistAggs[id]
		agg.EstimatedMinutes = roundMinutes(agg.TotalMs)
		artists = append(artists, *agg)
	}

	// Rank by total listening time. The sort is stable so ties keep input
	// order; the upstream data defines no secondary key.
	sort.SliceStable(artists, func(i, j int) bool {
		return artists[i].TotalMs > artists[j].TotalMs
	})
	if opts.TopArtists > 0 && len(artists) > opts.TopArtists {
		artists = artists[:opts.TopArtists]
	}

	return Result{
		Artists:  artists,
		Tracks:   trackEstimates(filtered, opts.TopTracks, replays),
		TopAlbum: topAlbum(albumOrder, albumCounts),
	}
}

// filter drops malformed tracks and applies the artist filter. A record
// missing its duration or artist list is skipped, never fatal.
func filter(tracks []Track, opts Options) []Track {
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if t.DurationMs <= 0 || len(t.Artists) == 0 {
			continue
		}
		if opts.ArtistID != "" {
			if !creditsID(t, opts.ArtistID) {
				continue
			}
		} else if opts.ArtistName != "" {
			if !creditsName(t, opts.ArtistName) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func creditsID(t Track, id string) bool {
	for _, a := range t.Artists {
		if a.ID == id {
			return true
		}
	}
	return false
}

func creditsName(t Track, name string) bool {
	name = strings.ToLower(name)
	for _, a := range t.Artists {
		if strings.Contains(strings.ToLower(a.Name), name) {
			return true
		}
	}
	return false
}

// trackEstimates annotates the first k filtered tracks, in provider order,
// with their assumed play count. This is a display annotation, not a
// further aggregation.
func trackEstimates(tracks []Track, k int, replays ReplayFunc) []TrackEstimate {
	if k <= 0 || k > len(tracks) {
		k = len(tracks)
	}
	out := make([]TrackEstimate, 0, k)
	for _, t := range tracks[:k] {
		out = append(out, TrackEstimate{
			ID:         t.ID,
			Name:       t.Name,
			Album:      t.Album.Name,
			AlbumImage: t.Album.ImageURL,
			PlayCount:  replays(t.Window),
			PreviewURL: t.PreviewURL,
		})
	}
	return out
}

// topAlbum picks the album with the highest occurrence count, ties broken
// by first-seen order. Returns nil for an empty batch.
func topAlbum(order []string, counts map[string]*AlbumCount) *AlbumCount {
	var best *AlbumCount
	for _, id := range order {
		c := counts[id]
		if best == nil || c.Count > best.Count {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	top := *best
	return &top
}

// roundMinutes converts milliseconds to whole minutes, rounding half up.
func roundMinutes(ms int64) int {
	return int(math.Round(float64(ms) / 60000.0))
}
