// Package memory implements an in-process SettingsStore. Nothing survives a
// restart; it backs tests and the "memory" storage driver.
package memory

import (
	"context"
	"sync"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SettingsStore = (*Store)(nil)

// Store keeps values in nested maps guarded by a RWMutex.
type Store struct {
	mu   sync.RWMutex
	data map[model.Namespace]map[string][]byte
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: make(map[model.Namespace]map[string][]byte)}
}

// Get returns a copy of the stored value, or (nil, nil) if absent.
func (s *Store) Get(_ context.Context, ns model.Namespace, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[ns][key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (s *Store) Set(_ context.Context, ns model.Namespace, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.data[ns]
	if !ok {
		bucket = make(map[string][]byte)
		s.data[ns] = bucket
	}
	bucket[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key from the namespace.
func (s *Store) Delete(_ context.Context, ns model.Namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[ns], key)
	return nil
}

// Clear drops the namespace.
func (s *Store) Clear(_ context.Context, ns model.Namespace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, ns)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
