package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/replaylab/spotify-recap/internal/db"
	"github.com/replaylab/spotify-recap/internal/recap"
	"github.com/replaylab/spotify-recap/internal/spotify"
)

// Handlers contains HTTP handlers for the dashboard.
type Handlers struct {
	auth     *spotifyauth.Authenticator
	oauth    *oauth2.Config
	sessions SessionManager
	database *db.DB
	recap    *recap.Service
	log      zerolog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(auth *spotifyauth.Authenticator, oauth *oauth2.Config, sessions SessionManager, database *db.DB, recapService *recap.Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		auth:     auth,
		oauth:    oauth,
		sessions: sessions,
		database: database,
		recap:    recapService,
		log:      log,
	}
}

// client builds an authenticated catalog client for the session. The token
// source refreshes expired tokens and writes the refreshed token back to the
// session store, so later requests start from the new one.
func (h *Handlers) client(r *http.Request, session *Session) *spotify.Client {
	src := &sessionTokenSource{
		ctx:      r.Context(),
		base:     h.oauth.TokenSource(r.Context(), session.Token),
		sessions: h.sessions,
		session:  session,
	}
	api := spotifyapi.New(oauth2.NewClient(r.Context(), src))
	return spotify.New(api)
}

// sessionTokenSource persists tokens the oauth2 transport refreshes. Without
// it a refresh is repeated on every request once the stored token expires.
type sessionTokenSource struct {
	ctx      context.Context
	base     oauth2.TokenSource
	sessions SessionManager
	session  *Session
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if token.AccessToken != s.session.Token.AccessToken {
		s.sessions.UpdateToken(s.ctx, s.session.ID, token)
		s.session.Token = token
	}
	return token, nil
}

// requireSession rejects unauthenticated requests and stashes the session
// in the request context.
func (h *Handlers) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := h.sessions.GetFromRequest(r)
		if session == nil {
			writeError(w, http.StatusUnauthorized, "not signed in")
			return
		}
		ctx := withSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Login initiates the Spotify OAuth flow (GET /auth/login).
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	state, err := generateOAuthState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start sign-in")
		return
	}

	// State lives in a short-lived cookie for validation on callback.
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})

	http.Redirect(w, r, h.auth.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles the OAuth callback from Spotify (GET /callback).
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing state cookie")
		return
	}

	state := r.URL.Query().Get("state")
	if state != stateCookie.Value {
		writeError(w, http.StatusBadRequest, "state mismatch")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("spotify auth error: %s", errMsg))
		return
	}

	token, err := h.auth.Token(r.Context(), state, r)
	if err != nil {
		h.log.Error().Err(err).Msg("token exchange failed")
		writeError(w, http.StatusInternalServerError, "failed to get token")
		return
	}

	client := spotify.New(spotifyapi.New(h.auth.Client(r.Context(), token)))
	profile, err := client.Profile(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("fetching profile after sign-in failed")
		writeError(w, http.StatusBadGateway, "failed to get user info")
		return
	}

	// Mirror the profile so sessions and snapshots can reference the user.
	user := &db.User{
		ID:          profile.ID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
		Country:     profile.Country,
		ImageURL:    profile.ImageURL,
	}
	if err := h.database.Users().Upsert(r.Context(), user); err != nil {
		h.log.Error().Err(err).Str("user_id", profile.ID).Msg("upserting user failed")
		writeError(w, http.StatusInternalServerError, "failed to save user")
		return
	}

	session, err := h.sessions.Create(r.Context(), token, profile.ID, profile.DisplayName)
	if err != nil {
		h.log.Error().Err(err).Msg("creating session failed")
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.sessions.SetCookie(w, session)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// Logout clears the session (POST /auth/logout).
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if session := h.sessions.GetFromRequest(r); session != nil {
		h.sessions.Delete(r.Context(), session.ID)
	}

	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// generateOAuthState creates a random state string for OAuth.
func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
