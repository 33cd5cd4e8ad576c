// Package model defines the entity types persisted in the library table
// and the denormalized views assembled from them.
//
// Every persisted record carries the composite PK/SK pair plus an
// entity_type tag; the types here hold only the semantic attributes,
// and the store layer attaches the key attributes on write.
package model

import "fmt"

// Entity type tags stored on every record.
const (
	TypeUser         = "user"
	TypeSong         = "song"
	TypeUserSong     = "user_song"
	TypePlaylist     = "playlist"
	TypePlaylistSong = "playlist_song"
)

// User is the canonical metadata record for a registered user.
type User struct {
	UserID    string `dynamodbav:"user_id" json:"user_id"`
	Email     string `dynamodbav:"email" json:"email"`
	Username  string `dynamodbav:"username" json:"username"`
	CreatedAt string `dynamodbav:"created_at" json:"created_at"`
}

// Song is the canonical, user-independent metadata record for a song.
// It is created lazily the first time any user adds the song to a
// library and is never deleted by user actions.
type Song struct {
	SongID      string `dynamodbav:"song_id" json:"song_id"`
	Title       string `dynamodbav:"title" json:"title"`
	Artist      string `dynamodbav:"artist" json:"artist"`
	Album       string `dynamodbav:"album,omitempty" json:"album,omitempty"`
	Year        int    `dynamodbav:"year,omitempty" json:"year,omitempty"`
	Genre       string `dynamodbav:"genre,omitempty" json:"genre,omitempty"`
	Duration    int    `dynamodbav:"duration,omitempty" json:"duration,omitempty"`
	CoverArtURL string `dynamodbav:"cover_art_url,omitempty" json:"cover_art_url,omitempty"`
}

// UserSong is a library membership record: one user's association with
// one song. Rating is nil when the user has not rated the song.
type UserSong struct {
	UserID     string `dynamodbav:"user_id" json:"user_id"`
	SongID     string `dynamodbav:"song_id" json:"song_id"`
	AddedAt    string `dynamodbav:"added_at" json:"added_at"`
	Rating     *int   `dynamodbav:"rating,omitempty" json:"rating,omitempty"`
	Notes      string `dynamodbav:"notes,omitempty" json:"notes,omitempty"`
	PlayCount  int    `dynamodbav:"play_count" json:"play_count"`
	LastPlayed string `dynamodbav:"last_played,omitempty" json:"last_played,omitempty"`
}

// Playlist is an ordered collection owned by a single user.
type Playlist struct {
	PlaylistID  string `dynamodbav:"playlist_id" json:"playlist_id"`
	UserID      string `dynamodbav:"user_id" json:"user_id"`
	Name        string `dynamodbav:"name" json:"name"`
	Description string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	IsPublic    bool   `dynamodbav:"is_public" json:"is_public"`
	CreatedAt   string `dynamodbav:"created_at" json:"created_at"`
}

// PlaylistSong is a playlist membership record. Position is embedded
// zero-padded in the sort key to keep range queries ordered; it is also
// stored as a plain attribute so readers never have to parse the key.
type PlaylistSong struct {
	PlaylistID string `dynamodbav:"playlist_id" json:"playlist_id"`
	SongID     string `dynamodbav:"song_id" json:"song_id"`
	Position   int    `dynamodbav:"position" json:"position"`
	AddedAt    string `dynamodbav:"added_at" json:"added_at"`
}

// SongFields carries the caller-supplied fields for a library add: the
// canonical song metadata plus the per-user rating and notes.
type SongFields struct {
	Title       string
	Artist      string
	Album       string
	Year        int
	Genre       string
	Duration    int
	CoverArtURL string
	Rating      *int
	Notes       string
}

// UserSongUpdate is a partial update of a library membership record.
// Nil fields are left untouched.
type UserSongUpdate struct {
	Rating *int
	Notes  *string
}

// PlaylistUpdate is a partial update of a playlist record. Nil fields
// are left untouched.
type PlaylistUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// LibrarySong is the denormalized view of a song in a user's library:
// canonical song metadata merged with the membership record, membership
// fields taking precedence on overlap.
type LibrarySong struct {
	Song
	AddedAt         string `json:"added_at"`
	Rating          *int   `json:"rating,omitempty"`
	Notes           string `json:"notes,omitempty"`
	PlayCount       int    `json:"play_count"`
	LastPlayed      string `json:"last_played,omitempty"`
	DurationDisplay string `json:"duration_display"`
}

// PlaylistEntry is the denormalized view of a song inside a playlist.
type PlaylistEntry struct {
	Song
	Position        int    `json:"position"`
	AddedAt         string `json:"added_at"`
	DurationDisplay string `json:"duration_display"`
}

// PlaylistSummary is a playlist decorated with its membership count.
type PlaylistSummary struct {
	Playlist
	SongCount int `json:"song_count"`
}

// NewLibrarySong merges a canonical song record with a membership record.
func NewLibrarySong(song Song, us UserSong) LibrarySong {
	return LibrarySong{
		Song:            song,
		AddedAt:         us.AddedAt,
		Rating:          us.Rating,
		Notes:           us.Notes,
		PlayCount:       us.PlayCount,
		LastPlayed:      us.LastPlayed,
		DurationDisplay: FormatDuration(song.Duration),
	}
}

// NewPlaylistEntry merges a canonical song record with a playlist
// membership record.
func NewPlaylistEntry(song Song, ps PlaylistSong) PlaylistEntry {
	return PlaylistEntry{
		Song:            song,
		Position:        ps.Position,
		AddedAt:         ps.AddedAt,
		DurationDisplay: FormatDuration(song.Duration),
	}
}

// FormatDuration renders a duration in seconds as "m:ss". It is total:
// zero, negative, and absent (zero-valued) durations all render "0:00".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
