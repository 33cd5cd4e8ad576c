package model

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		expected string
	}{
		{"minutes and seconds", 225, "3:45"},
		{"single second", 61, "1:01"},
		{"exact minute", 60, "1:00"},
		{"zero", 0, "0:00"},
		{"negative", -5, "0:00"},
		{"over an hour", 3661, "61:01"},
		{"padded seconds", 65, "1:05"},
		{"seconds only", 7, "0:07"},
		{"two minutes", 120, "2:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.seconds); got != tt.expected {
				t.Errorf("FormatDuration(%d) = %q, expected %q", tt.seconds, got, tt.expected)
			}
		})
	}
}

func TestNewLibrarySongMergePrecedence(t *testing.T) {
	rating := 4
	song := Song{SongID: "s1", Title: "Bohemian Rhapsody", Artist: "Queen", Duration: 354}
	us := UserSong{
		UserID:    "u1",
		SongID:    "s1",
		AddedAt:   "2024-01-01T00:00:00Z",
		Rating:    &rating,
		Notes:     "classic",
		PlayCount: 7,
	}

	merged := NewLibrarySong(song, us)

	if merged.Title != "Bohemian Rhapsody" {
		t.Errorf("expected canonical title, got %q", merged.Title)
	}
	if merged.Rating == nil || *merged.Rating != 4 {
		t.Errorf("expected rating 4, got %v", merged.Rating)
	}
	if merged.PlayCount != 7 {
		t.Errorf("expected play count 7, got %d", merged.PlayCount)
	}
	if merged.DurationDisplay != "5:54" {
		t.Errorf("expected '5:54', got %q", merged.DurationDisplay)
	}
}

func TestNewPlaylistEntry(t *testing.T) {
	song := Song{SongID: "s1", Title: "Test", Artist: "A", Duration: 61}
	ps := PlaylistSong{PlaylistID: "p1", SongID: "s1", Position: 3, AddedAt: "2024-01-01T00:00:00Z"}

	entry := NewPlaylistEntry(song, ps)

	if entry.Position != 3 {
		t.Errorf("expected position 3, got %d", entry.Position)
	}
	if entry.DurationDisplay != "1:01" {
		t.Errorf("expected '1:01', got %q", entry.DurationDisplay)
	}
}
