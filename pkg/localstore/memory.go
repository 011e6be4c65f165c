package localstore

import (
	"context"
	"sync"
)

// Memory implements Store using an in-memory map. State does not survive a
// restart; it is intended for tests and ephemeral runs.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]string),
	}
}

// Get retrieves the value stored under key.
func (s *Memory) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	return value, ok, nil
}

// Set stores value under key.
func (s *Memory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}

// Remove deletes the entry under key.
func (s *Memory) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Close is a no-op for the memory store.
func (s *Memory) Close() error {
	return nil
}

// Len reports the number of stored entries.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
