package kvstore

import (
	"context"
	"sync"
)

// Memory implements WatchableStore using an in-process map. Watch only
// observes local mutations, which is enough for tests and single-process
// clients.
type Memory struct {
	mu       sync.RWMutex
	values   map[string][]byte
	watchers map[int]chan Event
	nextID   int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		values:   make(map[string][]byte),
		watchers: make(map[int]chan Event),
	}
}

// Get retrieves the value for key, or ErrNotFound.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores the value under key.
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrInvalidKey
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	m.values[key] = stored
	m.mu.Unlock()

	m.notify(key)
	return nil
}

// Delete removes the key. Absent keys are ignored.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	m.mu.Lock()
	_, existed := m.values[key]
	delete(m.values, key)
	m.mu.Unlock()

	if existed {
		m.notify(key)
	}
	return nil
}

// Watch emits an event for every local mutation until ctx is cancelled.
func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 16)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = ch
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

func (m *Memory) notify(key string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, ch := range m.watchers {
		select {
		case ch <- Event{Key: key}:
		default:
			// Slow watcher, drop the event. Watching is best-effort.
		}
	}
}
