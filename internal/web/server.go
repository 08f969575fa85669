package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	oauthspotify "golang.org/x/oauth2/spotify"

	"github.com/replaylab/spotify-recap/internal/db"
	"github.com/replaylab/spotify-recap/internal/recap"
)

const (
	// DefaultAddr is the default server address.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultRedirectURI must match the Spotify app configuration.
	DefaultRedirectURI = "http://127.0.0.1:8080/callback"

	// sessionCleanupInterval is how often expired sessions are swept.
	sessionCleanupInterval = time.Hour
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr         string
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// SessionStore selects where sessions live: "postgres" (default) or
	// "memory" for local development.
	SessionStore string
}

// Server is the HTTP server for the dashboard API.
type Server struct {
	router   chi.Router
	server   *http.Server
	sessions SessionManager
	handlers *Handlers
	log      zerolog.Logger
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig, database *db.DB, log zerolog.Logger) (*Server, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client credentials are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultRedirectURI
	}

	scopes := []string{
		spotifyauth.ScopeUserTopRead,
		spotifyauth.ScopeUserReadRecentlyPlayed,
		spotifyauth.ScopePlaylistReadPrivate,
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithScopes(scopes...),
	)

	// The plain oauth2 config backs the per-request token sources, which
	// persist refreshed tokens to the session store.
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint:     oauthspotify.Endpoint,
		Scopes:       scopes,
	}

	var sessions SessionManager
	if cfg.SessionStore == "memory" {
		sessions = NewSessionStore()
	} else {
		sessions = NewDBSessionStore(database)
	}

	recapService := recap.New(database.Snapshots(), log)
	handlers := NewHandlers(auth, oauthCfg, sessions, database, recapService, log)

	router := chi.NewRouter()

	s := &Server{
		router:   router,
		sessions: sessions,
		handlers: handlers,
		log:      log,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.log))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	// Auth routes
	s.router.Get("/auth/login", s.handlers.Login)
	s.router.Get("/callback", s.handlers.Callback)
	s.router.Post("/auth/logout", s.handlers.Logout)

	// Authenticated JSON API
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.handlers.requireSession)

		r.Get("/me", s.handlers.Me)
		r.Get("/top-artists", s.handlers.TopArtists)
		r.Get("/top-tracks", s.handlers.TopTracks)
		r.Get("/recently-played", s.handlers.RecentlyPlayed)
		r.Get("/search", s.handlers.SearchTracks)
		r.Get("/spotify-playlists", s.handlers.SpotifyPlaylists)

		r.Route("/recap", func(r chi.Router) {
			r.Post("/summary", s.handlers.GenerateSummary)
			r.Get("/summary", s.handlers.LatestSummary)
			r.Get("/artist-minutes", s.handlers.ArtistMinutes)
			r.Get("/artist-minutes/saved", s.handlers.SavedArtistMinutes)
			r.Post("/artist-minutes/save-all", s.handlers.SaveAllArtistMinutes)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", s.handlers.ListFavorites)
			r.Post("/", s.handlers.AddFavorite)
			r.Delete("/{trackID}", s.handlers.RemoveFavorite)
		})

		r.Route("/playlists", func(r chi.Router) {
			r.Get("/", s.handlers.ListPlaylists)
			r.Post("/", s.handlers.CreatePlaylist)
			r.Get("/{playlistID}", s.handlers.GetPlaylist)
			r.Put("/{playlistID}", s.handlers.UpdatePlaylist)
			r.Delete("/{playlistID}", s.handlers.DeletePlaylist)
			r.Post("/{playlistID}/tracks", s.handlers.AddPlaylistTrack)
			r.Delete("/{playlistID}/tracks/{trackID}", s.handlers.RemovePlaylistTrack)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handlers.ListCategories)
			r.Post("/", s.handlers.CreateCategory)
			r.Put("/{categoryID}", s.handlers.RenameCategory)
			r.Delete("/{categoryID}", s.handlers.DeleteCategory)
		})

		r.Get("/preferences", s.handlers.GetPreferences)
		r.Put("/preferences/theme", s.handlers.SetTheme)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// cleanupSessions sweeps expired sessions once, then every interval until
// the context is cancelled.
func (s *Server) cleanupSessions(ctx context.Context) {
	sweep := func() {
		if removed := s.sessions.DeleteExpired(ctx); removed > 0 {
			s.log.Info().Int("removed", removed).Msg("expired sessions cleaned up")
		}
	}
	sweep()

	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go s.cleanupSessions(cleanupCtx)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.log.Info().Msg("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Info().Msg("server stopped")
	return nil
}
