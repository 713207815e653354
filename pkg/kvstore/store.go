package kvstore

import "context"

// Store is a synchronous durable key-value store. Implementations must be
// idempotent: deleting an absent key is not an error.
type Store interface {
	// Get retrieves the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Absent keys are ignored.
	Delete(ctx context.Context, key string) error
}

// Event notifies about a mutation of a single key. The new value is not
// carried; consumers re-read through the Store.
type Event struct {
	Key string
}

// WatchableStore is a Store that can report mutations, including ones made
// by other processes sharing the same backing storage.
type WatchableStore interface {
	Store

	// Watch emits events until ctx is cancelled. The channel is closed on
	// cancellation. Delivery is best-effort.
	Watch(ctx context.Context) (<-chan Event, error)
}
