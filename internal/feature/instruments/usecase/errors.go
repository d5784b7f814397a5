package usecase

import "errors"

var (
	// ErrEmptyCatalog is returned when the instrument catalog is missing or has no entries.
	// This is a precondition violation for any collection run.
	ErrEmptyCatalog = errors.New("instrument catalog is empty")

	// ErrTokenNotFound is returned by the HTTP surface when a ticker cannot be resolved.
	ErrTokenNotFound = errors.New("token not found")
)
