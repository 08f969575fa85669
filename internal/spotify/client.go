// Package spotify provides a wrapper around the Spotify Web API.
package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
)

// pageLimit is the fixed page size for every catalog fetch. Only the first
// page is consumed; no pagination cursor is followed.
const pageLimit = 50

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api *spotify.Client
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// UserID returns the current user's Spotify ID.
func (c *Client) UserID(ctx context.Context) (string, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("getting current user: %w", err)
	}
	return user.ID, nil
}

// Profile contains the current user's profile details.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	Country     string `json:"country,omitempty"`
	Followers   int    `json:"followers"`
	ImageURL    string `json:"image,omitempty"`
	ProfileURL  string `json:"profileUrl,omitempty"`
}

// Profile fetches the current user's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting current user: %w", err)
	}

	p := &Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Country:     user.Country,
		Followers:   int(user.Followers.Count),
		ProfileURL:  user.ExternalURLs["spotify"],
	}
	if len(user.Images) > 0 {
		p.ImageURL = user.Images[0].URL
	}
	return p, nil
}
