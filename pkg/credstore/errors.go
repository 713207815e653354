package credstore

import "errors"

var (
	// ErrStorageCorrupt indicates a partial credential record was found and
	// cleared; the session must be treated as unauthenticated
	ErrStorageCorrupt = errors.New("credstore.storage_corrupt")
)
