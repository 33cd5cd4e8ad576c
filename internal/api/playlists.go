package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tonearc/tonearc/internal/keys"
	"github.com/tonearc/tonearc/internal/model"
)

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)

	playlists, err := s.library.Playlists(r.Context(), userID)
	if err != nil {
		s.respondError(w, "list playlists", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"playlists": playlists})
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		IsPublic    bool   `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	playlist, err := s.store.CreatePlaylist(r.Context(), userID, body.Name, body.Description, body.IsPublic)
	if err != nil {
		s.respondError(w, "create playlist", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Playlist created successfully",
		"playlist": playlist,
	})
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	playlistID := chi.URLParam(r, "id")

	playlist, err := s.store.GetPlaylist(r.Context(), userID, playlistID)
	if err != nil {
		s.respondError(w, "get playlist", err)
		return
	}

	entries, err := s.library.PlaylistSongs(r.Context(), playlistID)
	if err != nil {
		s.respondError(w, "playlist songs", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"playlist": playlist,
		"songs":    entries,
	})
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	playlistID := chi.URLParam(r, "id")

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"is_public"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if body.Name == nil && body.Description == nil && body.IsPublic == nil {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}
	if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
		writeError(w, http.StatusBadRequest, "name must not be empty")
		return
	}

	err := s.store.UpdatePlaylist(r.Context(), userID, playlistID, model.PlaylistUpdate{
		Name:        body.Name,
		Description: body.Description,
		IsPublic:    body.IsPublic,
	})
	if err != nil {
		s.respondError(w, "update playlist", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Playlist updated successfully"})
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	playlistID := chi.URLParam(r, "id")

	if err := s.store.DeletePlaylist(r.Context(), userID, playlistID); err != nil {
		s.respondError(w, "delete playlist", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Playlist deleted successfully"})
}

func (s *Server) handleAddSongToPlaylist(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	playlistID := chi.URLParam(r, "id")

	var body struct {
		SongID   string `json:"song_id"`
		Position *int   `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if body.SongID == "" {
		writeError(w, http.StatusBadRequest, "song_id is required")
		return
	}
	if body.Position != nil && (*body.Position < 0 || *body.Position > keys.MaxPosition) {
		writeError(w, http.StatusBadRequest, "position out of range")
		return
	}

	// Ownership check before touching membership rows.
	if _, err := s.store.GetPlaylist(r.Context(), userID, playlistID); err != nil {
		s.respondError(w, "get playlist", err)
		return
	}

	position := 0
	if body.Position != nil {
		position = *body.Position
	} else {
		current, err := s.store.PlaylistSongs(r.Context(), playlistID)
		if err != nil {
			s.respondError(w, "playlist songs", err)
			return
		}
		position = len(current) + 1
	}
	if position > keys.MaxPosition {
		writeError(w, http.StatusBadRequest, "playlist is full")
		return
	}

	entry, err := s.store.AddSongToPlaylist(r.Context(), playlistID, body.SongID, position)
	if err != nil {
		s.respondError(w, "add song to playlist", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Song added to playlist",
		"entry":   entry,
	})
}
