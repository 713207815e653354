package kvstore

import "errors"

var (
	// ErrNotFound indicates the key has no stored value
	ErrNotFound = errors.New("kvstore.not_found")

	// ErrInvalidKey indicates the key is empty or not storable by the backend
	ErrInvalidKey = errors.New("kvstore.invalid_key")

	// ErrWatchUnsupported indicates the backend cannot observe external changes
	ErrWatchUnsupported = errors.New("kvstore.watch_unsupported")

	// ErrFailedToParseRedisConnString indicates an invalid Redis connection URL
	ErrFailedToParseRedisConnString = errors.New("kvstore.invalid_redis_conn_string")

	// ErrRedisNotReady indicates Redis did not become reachable within the configured attempts
	ErrRedisNotReady = errors.New("kvstore.redis_not_ready")
)
