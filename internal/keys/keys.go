// Package keys builds the composite partition and sort keys for the
// single-table layout, plus the GSI projections for artist and genre
// lookups. Key formats are part of the on-disk contract and must never
// change.
package keys

import "fmt"

// MetadataSK is the sort key for canonical user and song records.
const MetadataSK = "METADATA"

// SongPrefix and PlaylistPrefix are the sort-key prefixes used by
// begins_with range queries over a partition.
const (
	SongPrefix     = "SONG#"
	PlaylistPrefix = "PLAYLIST#"
)

// MaxPosition is the largest playlist position the 4-digit sort-key
// encoding can represent.
const MaxPosition = 9999

// UserPK returns the partition key grouping a user's records.
func UserPK(userID string) string { return "USER#" + userID }

// SongPK returns the partition key for a song's canonical record.
func SongPK(songID string) string { return "SONG#" + songID }

// PlaylistPK returns the partition key grouping a playlist's membership records.
func PlaylistPK(playlistID string) string { return "PLAYLIST#" + playlistID }

// UserSongSK returns the sort key for a library membership record
// under the owning user's partition.
func UserSongSK(songID string) string { return "SONG#" + songID }

// PlaylistSK returns the sort key for a playlist record under the
// owning user's partition.
func PlaylistSK(playlistID string) string { return "PLAYLIST#" + playlistID }

// PlaylistSongSK returns the sort key for a playlist membership record.
// The position is encoded as a fixed-width zero-padded decimal so that
// lexicographic sort-key order matches numeric position order.
func PlaylistSongSK(songID string, position int) (string, error) {
	if position < 0 || position > MaxPosition {
		return "", fmt.Errorf("keys: position %d out of range [0,%d]", position, MaxPosition)
	}
	return fmt.Sprintf("SONG#%s#%04d", songID, position), nil
}

// ArtistGSI1PK returns the GSI1 partition key for exact-artist lookups.
func ArtistGSI1PK(artist string) string { return "ARTIST#" + artist }

// TitleGSI1SK returns the GSI1 sort key, ordering an artist's songs by title.
func TitleGSI1SK(title string) string { return "TITLE#" + title }

// GenreGSI2PK returns the GSI2 partition key for exact-genre lookups.
func GenreGSI2PK(genre string) string { return "GENRE#" + genre }

// SongGSI2SK returns the GSI2 sort key.
func SongGSI2SK(songID string) string { return "SONG#" + songID }
