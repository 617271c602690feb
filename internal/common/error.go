package common

import "errors"

var (
	// ErrNotFound is matched by HTTP 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks input rejected client-side, before any request
	// is sent.
	ErrValidation = errors.New("validation error")

	// ErrNotAuthenticated is returned by operations that need a session.
	ErrNotAuthenticated = errors.New("not authenticated")
)
