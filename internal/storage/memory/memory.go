// Package memory provides an in-process implementation of storage.Store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mmynk/splitledger/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps namespaces in a map. Nothing survives the process.
type Store struct {
	mu       sync.RWMutex
	entries  map[string][]byte
	writeErr error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{entries: make(map[string][]byte)}
}

// FailWrites makes every subsequent Put and Delete return err.
// Pass nil to restore normal behavior.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErr = err
}

// Get returns a copy of the value stored under namespace.
func (s *Store) Get(_ context.Context, namespace string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[namespace]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, namespace)
	}
	return append([]byte(nil), value...), nil
}

// Put stores a copy of value under namespace.
func (s *Store) Put(_ context.Context, namespace string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	s.entries[namespace] = append([]byte(nil), value...)
	return nil
}

// Delete removes namespace.
func (s *Store) Delete(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeErr != nil {
		return s.writeErr
	}
	delete(s.entries, namespace)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
