// Package library assembles denormalized views from the entity store:
// a user's songs with full metadata, a playlist's songs in position
// order, and playlists decorated with membership counts.
package library

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/tonearc/tonearc/internal/model"
	"github.com/tonearc/tonearc/internal/store"
)

// Store is the slice of the entity store the assembler reads from.
type Store interface {
	UserSongs(ctx context.Context, userID string) ([]model.UserSong, error)
	PlaylistSongs(ctx context.Context, playlistID string) ([]model.PlaylistSong, error)
	UserPlaylists(ctx context.Context, userID string) ([]model.Playlist, error)
	GetSong(ctx context.Context, songID string) (*model.Song, error)
}

// Service joins membership records with canonical song records.
type Service struct {
	store Store
}

// New creates a new assembler over the given store.
func New(s Store) *Service {
	return &Service{store: s}
}

// UserSongs returns a user's library with full song metadata merged in,
// membership fields taking precedence. A membership whose canonical
// song record is missing is silently dropped - lossy, not an error.
func (s *Service) UserSongs(ctx context.Context, userID string) ([]model.LibrarySong, error) {
	memberships, err := s.store.UserSongs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user songs: %w", err)
	}

	songs := make([]model.LibrarySong, 0, len(memberships))
	for _, us := range memberships {
		song, err := s.store.GetSong(ctx, us.SongID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("song %s: %w", us.SongID, err)
		}
		songs = append(songs, model.NewLibrarySong(*song, us))
	}
	return songs, nil
}

// PlaylistSongs returns a playlist's songs with full metadata, sorted
// ascending by position. The sort compares the decoded position
// attribute numerically rather than relying on raw sort-key order.
func (s *Service) PlaylistSongs(ctx context.Context, playlistID string) ([]model.PlaylistEntry, error) {
	memberships, err := s.store.PlaylistSongs(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("playlist songs: %w", err)
	}

	entries := make([]model.PlaylistEntry, 0, len(memberships))
	for _, ps := range memberships {
		song, err := s.store.GetSong(ctx, ps.SongID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("song %s: %w", ps.SongID, err)
		}
		entries = append(entries, model.NewPlaylistEntry(*song, ps))
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})
	return entries, nil
}

// Playlists returns a user's playlists, each decorated with its song
// count. This issues one membership query per playlist - an N+1 access
// pattern that is acceptable at small scale.
func (s *Service) Playlists(ctx context.Context, userID string) ([]model.PlaylistSummary, error) {
	playlists, err := s.store.UserPlaylists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user playlists: %w", err)
	}

	summaries := make([]model.PlaylistSummary, 0, len(playlists))
	for _, pl := range playlists {
		memberships, err := s.store.PlaylistSongs(ctx, pl.PlaylistID)
		if err != nil {
			return nil, fmt.Errorf("playlist %s songs: %w", pl.PlaylistID, err)
		}
		summaries = append(summaries, model.PlaylistSummary{
			Playlist:  pl,
			SongCount: len(memberships),
		})
	}
	return summaries, nil
}
