package session

import "errors"

var (
	// ErrBusy is returned while a login or verification is in flight.
	ErrBusy = errors.New("authentication already in progress")
	// ErrAlreadyAuthenticated rejects a login on top of a live session.
	ErrAlreadyAuthenticated = errors.New("already logged in")
	// ErrNoToken is returned by Verify when there is nothing to verify.
	ErrNoToken = errors.New("no token found")
	// ErrStale means the session changed (logout, new login) while the
	// request was in flight; its result was dropped.
	ErrStale = errors.New("session changed during request")
)
