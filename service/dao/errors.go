package dao

import "errors"

// Sentinel errors shared by every snapshot store, checked with errors.Is.
var (
	// ErrNotFound is returned when no snapshot is stored under the ID
	ErrNotFound = errors.New("dao: not found")
	// ErrInvalidID is returned for an empty snapshot ID
	ErrInvalidID = errors.New("dao: invalid id")
	// ErrNilEntity is returned when saving a nil snapshot
	ErrNilEntity = errors.New("dao: nil entity")
)
