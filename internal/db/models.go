package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/replaylab/spotify-recap/internal/stats"
)

// User represents a Spotify user profile.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	Country     string    `json:"country,omitempty"`
	ImageURL    string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Session represents an authenticated web session.
type Session struct {
	ID           string
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
	ExpiresAt    time.Time

	// UserName is joined in from users on read; it is not a sessions
	// column and is ignored on write.
	UserName string
}

// Summary is a persisted aggregation snapshot for one user and one summary
// key (the current ISO week). Each run overwrites the record for its key;
// last write wins.
type Summary struct {
	UserID      string       `json:"userId"`
	Key         string       `json:"key"`
	Range       stats.Range  `json:"range"`
	Document    stats.Result `json:"document"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// ArtistMinutes is a persisted per-artist listening estimate.
type ArtistMinutes struct {
	UserID           string    `json:"userId"`
	ArtistID         string    `json:"artistId"`
	ArtistName       string    `json:"artistName"`
	EstimatedMinutes int       `json:"estimatedMinutes"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// Favorite is a track the user has saved to their favorites.
type Favorite struct {
	UserID     string    `json:"userId"`
	TrackID    string    `json:"trackId"`
	Name       string    `json:"name"`
	Artist     string    `json:"artist"`
	AlbumImage string    `json:"albumImage,omitempty"`
	PreviewURL string    `json:"previewUrl,omitempty"`
	SpotifyURL string    `json:"spotifyUrl,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
}

// CustomPlaylist is a user-built playlist stored by the dashboard, distinct
// from the user's Spotify playlists.
type CustomPlaylist struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistTrack is one track inside a custom playlist.
type PlaylistTrack struct {
	PlaylistID uuid.UUID `json:"playlistId"`
	TrackID    string    `json:"trackId"`
	Name       string    `json:"name"`
	Artist     string    `json:"artist"`
	AlbumImage string    `json:"albumImage,omitempty"`
	AddedAt    time.Time `json:"addedAt"`
}

// Category is a user-defined playlist category label.
type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Preferences holds per-user dashboard settings.
type Preferences struct {
	UserID    string    `json:"userId"`
	Theme     string    `json:"theme"`
	UpdatedAt time.Time `json:"updatedAt"`
}
