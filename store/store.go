package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key does not exist.
//
// Implementations must return an error that satisfies
// `errors.Is(err, ErrNotFound)`.
var ErrNotFound = errors.New("store: key not found")

// Store is a persistent key→value store.
// Implementations must be safe for concurrent use within one process.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes the value for key. Writes are atomic per key:
	// a concurrent Get sees either the old value or the new one,
	// never a partial write.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all keys with the given prefix, in unspecified order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Close releases backend resources.
	Close() error
}
