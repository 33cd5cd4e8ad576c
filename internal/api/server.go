// Package api is the external-facing operation layer: it validates
// incoming commands, resolves the acting user via the identity
// provider, dispatches to the entity store and collection assembler,
// and maps results and error kinds to HTTP responses.
package api

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/tonearc/tonearc/internal/identity"
	"github.com/tonearc/tonearc/internal/model"
)

// Store is the entity-store surface the router dispatches to.
type Store interface {
	CreateUser(ctx context.Context, userID, email, username string) (*model.User, error)
	AddSongToCollection(ctx context.Context, userID, songID string, fields model.SongFields) (*model.UserSong, error)
	UpdateUserSong(ctx context.Context, userID, songID string, upd model.UserSongUpdate) error
	MarkPlayed(ctx context.Context, userID, songID string) error
	RemoveSongFromCollection(ctx context.Context, userID, songID string) error
	SongsByArtist(ctx context.Context, artist string) ([]model.Song, error)
	SongsByGenre(ctx context.Context, genre string) ([]model.Song, error)
	CreatePlaylist(ctx context.Context, userID, name, description string, isPublic bool) (*model.Playlist, error)
	GetPlaylist(ctx context.Context, userID, playlistID string) (*model.Playlist, error)
	UpdatePlaylist(ctx context.Context, userID, playlistID string, upd model.PlaylistUpdate) error
	DeletePlaylist(ctx context.Context, userID, playlistID string) error
	AddSongToPlaylist(ctx context.Context, playlistID, songID string, position int) (*model.PlaylistSong, error)
	PlaylistSongs(ctx context.Context, playlistID string) ([]model.PlaylistSong, error)
}

// Library is the collection-assembler surface the router dispatches to.
type Library interface {
	UserSongs(ctx context.Context, userID string) ([]model.LibrarySong, error)
	PlaylistSongs(ctx context.Context, playlistID string) ([]model.PlaylistEntry, error)
	Playlists(ctx context.Context, userID string) ([]model.PlaylistSummary, error)
}

// Server holds the router's collaborators.
type Server struct {
	store    Store
	library  Library
	identity identity.Provider
	logger   *log.Logger
}

// NewServer creates a new Server. All collaborators are injected.
func NewServer(store Store, library Library, provider identity.Provider, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:    store,
		library:  library,
		identity: provider,
		logger:   logger,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/songs", s.handleListSongs)
		r.Post("/songs", s.handleCreateSong)
		r.Put("/songs/{id}", s.handleUpdateSong)
		r.Delete("/songs/{id}", s.handleDeleteSong)
		r.Post("/songs/{id}/play", s.handlePlaySong)

		r.Get("/playlists", s.handleListPlaylists)
		r.Post("/playlists", s.handleCreatePlaylist)
		r.Get("/playlists/{id}", s.handleGetPlaylist)
		r.Put("/playlists/{id}", s.handleUpdatePlaylist)
		r.Delete("/playlists/{id}", s.handleDeletePlaylist)
		r.Post("/playlists/{id}/songs", s.handleAddSongToPlaylist)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "tonearc",
	})
}
