package session

import "errors"

var (
	// ErrNotAuthenticated indicates the operation requires an authenticated session
	ErrNotAuthenticated = errors.New("session.not_authenticated")

	// ErrSuperseded indicates an async result arrived after the session had
	// already moved on and was discarded instead of applied
	ErrSuperseded = errors.New("session.superseded")
)
