package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/replaylab/spotify-recap/internal/db"
	"github.com/replaylab/spotify-recap/internal/stats"
)

const (
	defaultListLimit = 20
	maxListLimit     = 50
)

// limitParam parses the ?limit= query parameter, clamped to the provider's
// page size.
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// rangeParam parses the ?range= query parameter, defaulting to month.
func rangeParam(r *http.Request) (stats.Range, error) {
	raw := r.URL.Query().Get("range")
	if raw == "" {
		return stats.RangeMonth, nil
	}
	return stats.ParseRange(raw)
}

// Me returns the signed-in user's stored profile (GET /api/me).
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	user, err := h.database.Users().Get(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("loading user failed")
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// TopArtists returns the user's top artists for a range (GET /api/top-artists).
func (h *Handlers) TopArtists(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	rng, err := rangeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	artists, err := h.client(r, session).TopArtists(r.Context(), rng, limitParam(r))
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("fetching top artists failed")
		writeError(w, http.StatusBadGateway, "failed to fetch top artists")
		return
	}

	writeJSON(w, http.StatusOK, artists)
}

// TopTracks returns the user's top tracks for a range (GET /api/top-tracks).
func (h *Handlers) TopTracks(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	rng, err := rangeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tracks, err := h.client(r, session).TopTracks(r.Context(), rng)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("fetching top tracks failed")
		writeError(w, http.StatusBadGateway, "failed to fetch top tracks")
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}

// RecentlyPlayed returns the user's recent listening history
// (GET /api/recently-played).
func (h *Handlers) RecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	played, err := h.client(r, session).RecentlyPlayed(r.Context(), limitParam(r))
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("fetching recently played failed")
		writeError(w, http.StatusBadGateway, "failed to fetch recently played")
		return
	}

	writeJSON(w, http.StatusOK, played)
}

// SearchTracks searches the Spotify catalog (GET /api/search?q=).
func (h *Handlers) SearchTracks(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	tracks, err := h.client(r, session).SearchTracks(r.Context(), query, limitParam(r))
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("track search failed")
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}

// SpotifyPlaylists returns the user's Spotify playlists
// (GET /api/spotify-playlists).
func (h *Handlers) SpotifyPlaylists(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	playlists, err := h.client(r, session).Playlists(r.Context(), limitParam(r))
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("fetching playlists failed")
		writeError(w, http.StatusBadGateway, "failed to fetch playlists")
		return
	}

	writeJSON(w, http.StatusOK, playlists)
}

// GenerateSummary computes and snapshots a listening summary
// (POST /api/recap/summary?range=).
func (h *Handlers) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	rng, err := rangeParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.recap.Summary(r.Context(), h.client(r, session), session.UserID, rng)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("summary failed")
		writeError(w, http.StatusBadGateway, "failed to build summary")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// LatestSummary returns the most recently snapshotted summary
// (GET /api/recap/summary).
func (h *Handlers) LatestSummary(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	summary, err := h.database.Snapshots().LatestSummary(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no summary yet")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("loading summary failed")
		writeError(w, http.StatusInternalServerError, "failed to load summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// ArtistMinutes estimates minutes listened for one artist
// (GET /api/recap/artist-minutes?artistId= or ?name=).
func (h *Handlers) ArtistMinutes(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	artistID := r.URL.Query().Get("artistId")
	artistName := r.URL.Query().Get("name")
	if artistID == "" && artistName == "" {
		writeError(w, http.StatusBadRequest, "artistId or name is required")
		return
	}

	result, err := h.recap.ArtistMinutes(r.Context(), h.client(r, session), session.UserID, artistID, artistName)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("artist minutes failed")
		writeError(w, http.StatusBadGateway, "failed to estimate artist minutes")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SavedArtistMinutes lists persisted per-artist estimates
// (GET /api/recap/artist-minutes/saved).
func (h *Handlers) SavedArtistMinutes(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	records, err := h.database.Snapshots().ListArtistMinutes(r.Context(), session.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("listing artist minutes failed")
		writeError(w, http.StatusInternalServerError, "failed to load artist minutes")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// SaveAllArtistMinutes aggregates and persists every artist's estimate
// (POST /api/recap/artist-minutes/save-all).
func (h *Handlers) SaveAllArtistMinutes(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	result, err := h.recap.SaveAllArtistMinutes(r.Context(), h.client(r, session), session.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("save-all artist minutes failed")
		if result != nil {
			// Aggregation worked but the write failed; return the
			// aggregates with the error status.
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":  "failed to save artist minutes",
				"result": result,
			})
			return
		}
		writeError(w, http.StatusBadGateway, "failed to aggregate artist minutes")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
