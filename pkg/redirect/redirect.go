package redirect

import (
	"context"
	"errors"
	"fmt"

	"github.com/cinehub/sessionkit/pkg/kvstore"
)

// KeyRedirectIntent is the storage slot for the pending destination.
const KeyRedirectIntent = "redirectAfterLogin"

// Store is the single-slot holder of a pending navigation intent.
type Store struct {
	kv kvstore.Store
}

// New creates an intent store over the given backend.
func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Defer records the path the user was trying to reach, overwriting any
// previously pending intent. An empty path clears the slot.
func (s *Store) Defer(ctx context.Context, path string) error {
	if path == "" {
		return s.kv.Delete(ctx, KeyRedirectIntent)
	}
	if err := s.kv.Set(ctx, KeyRedirectIntent, []byte(path)); err != nil {
		return fmt.Errorf("redirect: defer %q: %w", path, err)
	}
	return nil
}

// Consume returns the pending destination and deletes it. When nothing is
// pending it returns the empty string.
func (s *Store) Consume(ctx context.Context) (string, error) {
	value, err := s.kv.Get(ctx, KeyRedirectIntent)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redirect: consume: %w", err)
	}

	if err := s.kv.Delete(ctx, KeyRedirectIntent); err != nil {
		return "", fmt.Errorf("redirect: clear consumed intent: %w", err)
	}
	return string(value), nil
}

// Pending reports whether an intent is waiting without consuming it.
func (s *Store) Pending(ctx context.Context) bool {
	_, err := s.kv.Get(ctx, KeyRedirectIntent)
	return err == nil
}
