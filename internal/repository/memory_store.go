package repository

import (
	"context"
	"sync"
)

// MemoryStore is an in-process snapshot store. It backs tests and local runs
// where neither Redis nor Postgres is configured; state does not survive a
// restart.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Load retrieves a snapshot by logical name.
func (s *MemoryStore) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok, nil
}

// Save replaces a single snapshot.
func (s *MemoryStore) Save(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// SaveAll replaces several snapshots under one lock acquisition.
func (s *MemoryStore) SaveAll(_ context.Context, snapshots map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, value := range snapshots {
		s.data[key] = value
	}
	return nil
}

// Delete removes a snapshot.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Health always succeeds.
func (s *MemoryStore) Health(_ context.Context) error {
	return nil
}
