package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tonearc/tonearc/internal/model"
)

// songSelection is the tagged selection for the song listing: exactly
// one base set applies per call. Artist takes precedence over genre,
// genre over the caller's own library; the filters don't compose.
type songSelection struct {
	mode selectionMode
	term string
}

type selectionMode int

const (
	selectAllForUser selectionMode = iota
	selectByArtist
	selectByGenre
)

// resolveSongSelection fixes the selection once at the boundary so the
// precedence order is explicit and auditable.
func resolveSongSelection(artist, genre string) songSelection {
	switch {
	case artist != "":
		return songSelection{mode: selectByArtist, term: artist}
	case genre != "":
		return songSelection{mode: selectByGenre, term: genre}
	default:
		return songSelection{mode: selectAllForUser}
	}
}

// matchesSearch reports whether a song matches the case-insensitive
// substring search over title, artist, and album.
func matchesSearch(song model.Song, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(song.Title), term) ||
		strings.Contains(strings.ToLower(song.Artist), term) ||
		strings.Contains(strings.ToLower(song.Album), term)
}

func filterSongs(songs []model.Song, term string) []model.Song {
	if term == "" {
		return songs
	}
	filtered := make([]model.Song, 0, len(songs))
	for _, song := range songs {
		if matchesSearch(song, term) {
			filtered = append(filtered, song)
		}
	}
	return filtered
}

func filterLibrarySongs(songs []model.LibrarySong, term string) []model.LibrarySong {
	if term == "" {
		return songs
	}
	filtered := make([]model.LibrarySong, 0, len(songs))
	for _, song := range songs {
		if matchesSearch(song.Song, term) {
			filtered = append(filtered, song)
		}
	}
	return filtered
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	query := r.URL.Query()
	search := query.Get("search")

	sel := resolveSongSelection(query.Get("artist"), query.Get("genre"))

	var result any
	switch sel.mode {
	case selectByArtist:
		songs, err := s.store.SongsByArtist(r.Context(), sel.term)
		if err != nil {
			s.respondError(w, "songs by artist", err)
			return
		}
		result = filterSongs(songs, search)
	case selectByGenre:
		songs, err := s.store.SongsByGenre(r.Context(), sel.term)
		if err != nil {
			s.respondError(w, "songs by genre", err)
			return
		}
		result = filterSongs(songs, search)
	default:
		songs, err := s.library.UserSongs(r.Context(), userID)
		if err != nil {
			s.respondError(w, "user songs", err)
			return
		}
		result = filterLibrarySongs(songs, search)
	}

	writeJSON(w, http.StatusOK, map[string]any{"songs": result})
}

type songRequest struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Album       string  `json:"album"`
	Year        int     `json:"year"`
	Genre       string  `json:"genre"`
	Duration    int     `json:"duration"`
	CoverArtURL string  `json:"cover_art_url"`
	Rating      *int    `json:"rating"`
	Notes       *string `json:"notes"`
}

func validRating(rating *int) bool {
	return rating == nil || (*rating >= 1 && *rating <= 5)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)

	var body songRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if strings.TrimSpace(body.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if strings.TrimSpace(body.Artist) == "" {
		writeError(w, http.StatusBadRequest, "artist is required")
		return
	}
	if !validRating(body.Rating) {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	fields := model.SongFields{
		Title:       body.Title,
		Artist:      body.Artist,
		Album:       body.Album,
		Year:        body.Year,
		Genre:       body.Genre,
		Duration:    body.Duration,
		CoverArtURL: body.CoverArtURL,
		Rating:      body.Rating,
	}
	if body.Notes != nil {
		fields.Notes = *body.Notes
	}

	userSong, err := s.store.AddSongToCollection(r.Context(), userID, uuid.NewString(), fields)
	if err != nil {
		s.respondError(w, "add song to collection", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Song added successfully",
		"song":    userSong,
	})
}

func (s *Server) handleUpdateSong(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	songID := chi.URLParam(r, "id")

	var body struct {
		Rating *int    `json:"rating"`
		Notes  *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !validRating(body.Rating) {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	if body.Rating == nil && body.Notes == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Nothing to update"})
		return
	}

	err := s.store.UpdateUserSong(r.Context(), userID, songID, model.UserSongUpdate{
		Rating: body.Rating,
		Notes:  body.Notes,
	})
	if err != nil {
		s.respondError(w, "update user song", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Song updated successfully"})
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	songID := chi.URLParam(r, "id")

	if err := s.store.RemoveSongFromCollection(r.Context(), userID, songID); err != nil {
		s.respondError(w, "remove song from collection", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Song removed from collection"})
}

func (s *Server) handlePlaySong(w http.ResponseWriter, r *http.Request) {
	userID := currentUser(r)
	songID := chi.URLParam(r, "id")

	if err := s.store.MarkPlayed(r.Context(), userID, songID); err != nil {
		s.respondError(w, "mark played", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Play recorded"})
}
