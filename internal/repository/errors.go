package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate entity")

	// ErrCapacityExceeded is returned when a participant insert would push a
	// shared ride past its seat capacity.
	ErrCapacityExceeded = errors.New("ride capacity exceeded")
)
