package usecase

import "errors"

var (
	// ErrNoSession is returned when no usable broker session could be obtained.
	ErrNoSession = errors.New("no broker session available")
	// ErrSessionNotFound is returned by a SessionStore holding no session.
	ErrSessionNotFound = errors.New("broker session not found")
)
