package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/replaylab/spotify-recap/internal/stats"
)

// TopArtist is one entry in the user's ranked top-artist list.
type TopArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres,omitempty"`
	ImageURL   string   `json:"image,omitempty"`
	Followers  int      `json:"followers"`
	Popularity int      `json:"popularity"`
}

// TopArtists fetches the user's top artists for the window backing the
// given range.
func (c *Client) TopArtists(ctx context.Context, rng stats.Range, limit int) ([]TopArtist, error) {
	page, err := c.api.CurrentUsersTopArtists(ctx,
		spotify.Timerange(timerange(rng.Window())), spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("fetching top artists: %w", err)
	}

	artists := make([]TopArtist, 0, len(page.Artists))
	for _, fa := range page.Artists {
		a := TopArtist{
			ID:         fa.ID.String(),
			Name:       fa.Name,
			Genres:     fa.Genres,
			Followers:  int(fa.Followers.Count),
			Popularity: int(fa.Popularity),
		}
		if len(fa.Images) > 0 {
			a.ImageURL = fa.Images[0].URL
		}
		artists = append(artists, a)
	}
	return artists, nil
}
