package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

// Playlist is one entry in the user's playlist library.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner,omitempty"`
	ImageURL   string `json:"image,omitempty"`
	TrackCount int    `json:"trackCount"`
}

// Playlists fetches the first page of the user's playlists.
func (c *Client) Playlists(ctx context.Context, limit int) ([]Playlist, error) {
	page, err := c.api.CurrentUsersPlaylists(ctx, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("fetching playlists: %w", err)
	}

	playlists := make([]Playlist, 0, len(page.Playlists))
	for _, sp := range page.Playlists {
		p := Playlist{
			ID:         sp.ID.String(),
			Name:       sp.Name,
			Owner:      sp.Owner.DisplayName,
			TrackCount: int(sp.Tracks.Total),
		}
		if len(sp.Images) > 0 {
			p.ImageURL = sp.Images[0].URL
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}
