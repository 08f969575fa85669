package spotify

import (
	"testing"

	"github.com/zmb3/spotify/v2"

	"github.com/replaylab/spotify-recap/internal/stats"
)

func TestConvertFullTrack(t *testing.T) {
	tests := []struct {
		name        string
		track       spotify.FullTrack
		window      stats.Window
		wantID      string
		wantMs      int
		wantArtists []stats.Artist
		wantAlbumID string
		wantImage   string
	}{
		{
			name: "single artist with album art",
			track: spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					ID:       "track123",
					Name:     "Test Song",
					Duration: 200000,
					Artists: []spotify.SimpleArtist{
						{ID: "a1", Name: "Artist One"},
					},
				},
				Album: spotify.SimpleAlbum{
					ID:   "album1",
					Name: "First Album",
					Images: []spotify.Image{
						{URL: "https://img.example/album1.jpg"},
					},
				},
			},
			window:      stats.WindowShortTerm,
			wantID:      "track123",
			wantMs:      200000,
			wantArtists: []stats.Artist{{ID: "a1", Name: "Artist One"}},
			wantAlbumID: "album1",
			wantImage:   "https://img.example/album1.jpg",
		},
		{
			name: "collaboration keeps artist order",
			track: spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					ID:       "track456",
					Name:     "Collab",
					Duration: 180000,
					Artists: []spotify.SimpleArtist{
						{ID: "a1", Name: "Artist A"},
						{ID: "a2", Name: "Artist B"},
					},
				},
				Album: spotify.SimpleAlbum{ID: "album2", Name: "Second"},
			},
			window: stats.WindowLongTerm,
			wantID: "track456",
			wantMs: 180000,
			wantArtists: []stats.Artist{
				{ID: "a1", Name: "Artist A"},
				{ID: "a2", Name: "Artist B"},
			},
			wantAlbumID: "album2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertFullTrack(tt.track, tt.window)

			if got.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", got.ID, tt.wantID)
			}
			if got.DurationMs != tt.wantMs {
				t.Errorf("DurationMs = %d, want %d", got.DurationMs, tt.wantMs)
			}
			if got.Window != tt.window {
				t.Errorf("Window = %q, want %q", got.Window, tt.window)
			}
			if got.Album.ID != tt.wantAlbumID {
				t.Errorf("Album.ID = %q, want %q", got.Album.ID, tt.wantAlbumID)
			}
			if got.Album.ImageURL != tt.wantImage {
				t.Errorf("Album.ImageURL = %q, want %q", got.Album.ImageURL, tt.wantImage)
			}
			if len(got.Artists) != len(tt.wantArtists) {
				t.Fatalf("got %d artists, want %d", len(got.Artists), len(tt.wantArtists))
			}
			for i, want := range tt.wantArtists {
				if got.Artists[i] != want {
					t.Errorf("Artists[%d] = %+v, want %+v", i, got.Artists[i], want)
				}
			}
		})
	}
}

func TestTimerange(t *testing.T) {
	tests := []struct {
		window stats.Window
		want   spotify.Range
	}{
		{stats.WindowShortTerm, spotify.ShortTermRange},
		{stats.WindowMediumTerm, spotify.MediumTermRange},
		{stats.WindowLongTerm, spotify.LongTermRange},
	}
	for _, tt := range tests {
		if got := timerange(tt.window); got != tt.want {
			t.Errorf("timerange(%s) = %s, want %s", tt.window, got, tt.want)
		}
	}
}
