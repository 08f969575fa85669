package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/sync/errgroup"

	"github.com/replaylab/spotify-recap/internal/stats"
)

// TopTracks fetches the first page of the user's top tracks for the window
// backing the given range.
func (c *Client) TopTracks(ctx context.Context, rng stats.Range) ([]stats.Track, error) {
	return c.topTracksForWindow(ctx, rng.Window())
}

// TopTracksAllWindows fetches the user's top tracks from all three provider
// windows concurrently and unions the results. Any window's failure aborts
// the whole fetch; there is no partial union and no automatic retry.
//
// Each track keeps the window that fetched it, and no de-duplication is
// performed: a track appearing in two windows contributes twice downstream.
func (c *Client) TopTracksAllWindows(ctx context.Context) ([]stats.Track, error) {
	windows := stats.Windows()
	pages := make([][]stats.Track, len(windows))

	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			tracks, err := c.topTracksForWindow(gctx, w)
			if err != nil {
				return err
			}
			pages[i] = tracks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []stats.Track
	for _, page := range pages {
		all = append(all, page...)
	}
	return all, nil
}

func (c *Client) topTracksForWindow(ctx context.Context, w stats.Window) ([]stats.Track, error) {
	page, err := c.api.CurrentUsersTopTracks(ctx,
		spotify.Timerange(timerange(w)), spotify.Limit(pageLimit))
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks (%s): %w", w, err)
	}

	tracks := make([]stats.Track, 0, len(page.Tracks))
	for _, ft := range page.Tracks {
		tracks = append(tracks, convertFullTrack(ft, w))
	}
	return tracks, nil
}

// PlayedTrack is one recently played item with its playback timestamp.
type PlayedTrack struct {
	Track    stats.Track `json:"track"`
	PlayedAt time.Time   `json:"playedAt"`
}

// RecentlyPlayed fetches the user's most recently played tracks.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]PlayedTrack, error) {
	items, err := c.api.PlayerRecentlyPlayedOpt(ctx, &spotify.RecentlyPlayedOptions{Limit: spotify.Numeric(limit)})
	if err != nil {
		return nil, fmt.Errorf("fetching recently played: %w", err)
	}

	played := make([]PlayedTrack, 0, len(items))
	for _, item := range items {
		played = append(played, PlayedTrack{
			Track:    convertSimpleTrack(item.Track),
			PlayedAt: item.PlayedAt,
		})
	}
	return played, nil
}

// SearchTracks searches the catalog for tracks matching the query.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]stats.Track, error) {
	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}

	var tracks []stats.Track
	if result.Tracks != nil {
		tracks = make([]stats.Track, 0, len(result.Tracks.Tracks))
		for _, ft := range result.Tracks.Tracks {
			tracks = append(tracks, convertFullTrack(ft, ""))
		}
	}
	return tracks, nil
}

// timerange maps a stats window onto the zmb3 range constant.
func timerange(w stats.Window) spotify.Range {
	switch w {
	case stats.WindowShortTerm:
		return spotify.ShortTermRange
	case stats.WindowMediumTerm:
		return spotify.MediumTermRange
	default:
		return spotify.LongTermRange
	}
}

// convertFullTrack converts a Spotify FullTrack, tagging it with the window
// that fetched it.
func convertFullTrack(ft spotify.FullTrack, w stats.Window) stats.Track {
	t := convertSimpleTrack(ft.SimpleTrack)
	t.Album = convertAlbum(ft.Album)
	t.Window = w
	return t
}

// convertSimpleTrack converts a Spotify SimpleTrack to a stats.Track.
func convertSimpleTrack(st spotify.SimpleTrack) stats.Track {
	artists := make([]stats.Artist, 0, len(st.Artists))
	for _, a := range st.Artists {
		artists = append(artists, stats.Artist{
			ID:   a.ID.String(),
			Name: a.Name,
		})
	}

	return stats.Track{
		ID:         st.ID.String(),
		Name:       st.Name,
		DurationMs: int(st.Duration),
		Artists:    artists,
		Album:      convertAlbum(st.Album),
		PreviewURL: st.PreviewURL,
	}
}

func convertAlbum(sa spotify.SimpleAlbum) stats.Album {
	album := stats.Album{
		ID:   sa.ID.String(),
		Name: sa.Name,
	}
	if len(sa.Images) > 0 {
		album.ImageURL = sa.Images[0].URL
	}
	return album
}
