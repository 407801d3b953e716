// Package memory provides an in-process cart store backend. It backs the
// service in development mode, where running Redis would be overkill, and
// the handler tests. State survives reconnects within the process but not a
// restart.
package memory

import (
	"context"
	"sync"
)

// Backend holds the snapshots of every session in one process-local map.
type Backend struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// NewBackend creates an empty backend.
func NewBackend() *Backend {
	return &Backend{slots: make(map[string][]byte)}
}

// Store returns the store bound to one session's slot.
func (b *Backend) Store(sessionID string) *Store {
	return &Store{backend: b, key: sessionID}
}

// Store is the per-session view of a Backend.
type Store struct {
	backend *Backend
	key     string
}

// Load returns the stored snapshot, or (nil, nil) when none exists.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()

	data, ok := s.backend.slots[s.key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Save overwrites the snapshot with a copy of the given bytes.
func (s *Store) Save(ctx context.Context, snapshot []byte) error {
	stored := make([]byte, len(snapshot))
	copy(stored, snapshot)

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	s.backend.slots[s.key] = stored
	return nil
}
