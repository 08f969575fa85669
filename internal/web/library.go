package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/replaylab/spotify-recap/internal/db"
)

// playlistIDParam parses the {playlistID} URL parameter.
func playlistIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "playlistID"))
}

// ListFavorites returns the user's favorite tracks (GET /api/favorites).
func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	favorites, err := h.database.Favorites().List(r.Context(), session.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("listing favorites failed")
		writeError(w, http.StatusInternalServerError, "failed to load favorites")
		return
	}

	writeJSON(w, http.StatusOK, favorites)
}

// AddFavorite saves a track to the user's favorites (POST /api/favorites).
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var body struct {
		TrackID    string `json:"trackId"`
		Name       string `json:"name"`
		Artist     string `json:"artist"`
		AlbumImage string `json:"albumImage"`
		PreviewURL string `json:"previewUrl"`
		SpotifyURL string `json:"spotifyUrl"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.TrackID == "" || body.Name == "" {
		writeError(w, http.StatusBadRequest, "trackId and name are required")
		return
	}

	fav := &db.Favorite{
		UserID:     session.UserID,
		TrackID:    body.TrackID,
		Name:       body.Name,
		Artist:     body.Artist,
		AlbumImage: body.AlbumImage,
		PreviewURL: body.PreviewURL,
		SpotifyURL: body.SpotifyURL,
	}
	if err := h.database.Favorites().Upsert(r.Context(), fav); err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("saving favorite failed")
		writeError(w, http.StatusInternalServerError, "failed to save favorite")
		return
	}

	writeJSON(w, http.StatusCreated, fav)
}

// RemoveFavorite deletes a favorite (DELETE /api/favorites/{trackID}).
func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())
	trackID := chi.URLParam(r, "trackID")

	if err := h.database.Favorites().Delete(r.Context(), session.UserID, trackID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "favorite not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("deleting favorite failed")
		writeError(w, http.StatusInternalServerError, "failed to delete favorite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPlaylists returns the user's custom playlists (GET /api/playlists).
func (h *Handlers) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	playlists, err := h.database.Playlists().List(r.Context(), session.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("listing playlists failed")
		writeError(w, http.StatusInternalServerError, "failed to load playlists")
		return
	}

	writeJSON(w, http.StatusOK, playlists)
}

// CreatePlaylist creates a custom playlist (POST /api/playlists).
func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	playlist := &db.CustomPlaylist{
		UserID:      session.UserID,
		Name:        strings.TrimSpace(body.Name),
		Description: body.Description,
		Category:    body.Category,
	}
	if err := h.database.Playlists().Create(r.Context(), playlist); err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("creating playlist failed")
		writeError(w, http.StatusInternalServerError, "failed to create playlist")
		return
	}

	writeJSON(w, http.StatusCreated, playlist)
}

// GetPlaylist returns one custom playlist with its tracks
// (GET /api/playlists/{playlistID}).
func (h *Handlers) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	id, err := playlistIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	playlist, err := h.database.Playlists().Get(r.Context(), session.UserID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("loading playlist failed")
		writeError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}

	tracks, err := h.database.Playlists().Tracks(r.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("loading playlist tracks failed")
		writeError(w, http.StatusInternalServerError, "failed to load playlist tracks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"playlist": playlist,
		"tracks":   tracks,
	})
}

// UpdatePlaylist renames or recategorizes a custom playlist
// (PUT /api/playlists/{playlistID}).
func (h *Handlers) UpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	id, err := playlistIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	playlist := &db.CustomPlaylist{
		ID:          id,
		UserID:      session.UserID,
		Name:        strings.TrimSpace(body.Name),
		Description: body.Description,
		Category:    body.Category,
	}
	if err := h.database.Playlists().Update(r.Context(), playlist); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("updating playlist failed")
		writeError(w, http.StatusInternalServerError, "failed to update playlist")
		return
	}

	writeJSON(w, http.StatusOK, playlist)
}

// DeletePlaylist removes a custom playlist (DELETE /api/playlists/{playlistID}).
func (h *Handlers) DeletePlaylist(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	id, err := playlistIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	if err := h.database.Playlists().Delete(r.Context(), session.UserID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("deleting playlist failed")
		writeError(w, http.StatusInternalServerError, "failed to delete playlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddPlaylistTrack adds a track to a custom playlist
// (POST /api/playlists/{playlistID}/tracks).
func (h *Handlers) AddPlaylistTrack(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	id, err := playlistIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	// Ownership check before touching the track table.
	if _, err := h.database.Playlists().Get(r.Context(), session.UserID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("loading playlist failed")
		writeError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}

	var body struct {
		TrackID    string `json:"trackId"`
		Name       string `json:"name"`
		Artist     string `json:"artist"`
		AlbumImage string `json:"albumImage"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.TrackID == "" || body.Name == "" {
		writeError(w, http.StatusBadRequest, "trackId and name are required")
		return
	}

	track := &db.PlaylistTrack{
		PlaylistID: id,
		TrackID:    body.TrackID,
		Name:       body.Name,
		Artist:     body.Artist,
		AlbumImage: body.AlbumImage,
	}
	if err := h.database.Playlists().AddTrack(r.Context(), track); err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("adding playlist track failed")
		writeError(w, http.StatusInternalServerError, "failed to add track")
		return
	}

	writeJSON(w, http.StatusCreated, track)
}

// RemovePlaylistTrack removes a track from a custom playlist
// (DELETE /api/playlists/{playlistID}/tracks/{trackID}).
func (h *Handlers) RemovePlaylistTrack(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	id, err := playlistIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid playlist id")
		return
	}

	if _, err := h.database.Playlists().Get(r.Context(), session.UserID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("loading playlist failed")
		writeError(w, http.StatusInternalServerError, "failed to load playlist")
		return
	}

	trackID := chi.URLParam(r, "trackID")
	if err := h.database.Playlists().RemoveTrack(r.Context(), id, trackID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "track not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("removing playlist track failed")
		writeError(w, http.StatusInternalServerError, "failed to remove track")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCategories returns the user's playlist categories (GET /api/categories).
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	categories, err := h.database.Categories().List(r.Context(), session.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("listing categories failed")
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a playlist category (POST /api/categories).
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	category := &db.Category{
		UserID: session.UserID,
		Name:   strings.TrimSpace(body.Name),
	}
	if err := h.database.Categories().Create(r.Context(), category); err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("creating category failed")
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// RenameCategory renames a category (PUT /api/categories/{categoryID}).
func (h *Handlers) RenameCategory(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.database.Categories().Rename(r.Context(), session.UserID, id, strings.TrimSpace(body.Name)); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("renaming category failed")
		writeError(w, http.StatusInternalServerError, "failed to rename category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCategory deletes a category (DELETE /api/categories/{categoryID}).
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.database.Categories().Delete(r.Context(), session.UserID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("deleting category failed")
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPreferences returns the user's dashboard preferences
// (GET /api/preferences).
func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	prefs, err := h.database.Preferences().Get(r.Context(), session.UserID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("loading preferences failed")
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

// SetTheme updates the dashboard theme (PUT /api/preferences/theme).
func (h *Handlers) SetTheme(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var body struct {
		Theme string `json:"theme"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Theme != "dark" && body.Theme != "light" {
		writeError(w, http.StatusBadRequest, "theme must be dark or light")
		return
	}

	if err := h.database.Preferences().SetTheme(r.Context(), session.UserID, body.Theme); err != nil {
		h.log.Error().Err(err).Str("user_id", session.UserID).Msg("saving theme failed")
		writeError(w, http.StatusInternalServerError, "failed to save theme")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"theme": body.Theme})
}
