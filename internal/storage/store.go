// Package storage provides abstractions for durable key-value storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a namespace has never been written.
var ErrNotFound = errors.New("namespace not found")

// Store defines the interface for namespaced snapshot storage.
// Each namespace holds one opaque value that is always rewritten whole.
// This abstraction allows swapping storage backends (SQLite, Redis, memory)
// without changing the ledger or identity layers.
type Store interface {
	// Get returns the value stored under namespace.
	// Returns ErrNotFound if the namespace does not exist.
	Get(ctx context.Context, namespace string) ([]byte, error)

	// Put replaces the value stored under namespace.
	Put(ctx context.Context, namespace string, value []byte) error

	// Delete removes namespace. Deleting a missing namespace is not an error.
	Delete(ctx context.Context, namespace string) error

	// Close releases any resources held by the store.
	Close() error
}
