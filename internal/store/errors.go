package store

import "errors"

var (
	// ErrNotFound is returned when a referenced user, song, playlist,
	// or membership record doesn't exist.
	ErrNotFound = errors.New("store: record not found")

	// ErrConflict is returned when creating a record whose key already exists.
	ErrConflict = errors.New("store: record already exists")
)
