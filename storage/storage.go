// Package storage is the key/value abstraction behind client persisted state.
// Backends live in the subpackages and storage/config picks one from the app config.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Store reads and writes opaque values. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Closer is implemented by stores holding connections.
type Closer interface {
	Close() error
}

// Close releases the store's resources if it holds any.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}

// Unavailable is a Store where every operation fails with the wrapped error.
// It stands in for a backend that could not be reached at startup.
type Unavailable struct {
	Err error
}

func (u Unavailable) Get(context.Context, string) ([]byte, error) {
	return nil, u.Err
}

func (u Unavailable) Set(context.Context, string, []byte) error {
	return u.Err
}
