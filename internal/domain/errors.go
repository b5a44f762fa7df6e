package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrDatabase wraps failures reported by a persistent store. The in-memory
	// repository never returns it.
	ErrDatabase     = errors.New("database error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
