package memory

import (
	"context"
	"errors"

	"github.com/coocood/freecache"
	"github.com/marphezis/prebid-adapters/storage"
)

// Store keeps values in a freecache ring. Entries may be evicted once the
// cache is full.
type Store struct {
	cache      *freecache.Cache
	ttlSeconds int
}

// NewStore allocates a cache of sizeBytes. A zero ttlSeconds keeps entries
// until they are evicted.
func NewStore(sizeBytes, ttlSeconds int) *Store {
	return &Store{
		cache:      freecache.NewCache(sizeBytes),
		ttlSeconds: ttlSeconds,
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	value, err := s.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, storage.ErrNotFound
	}
	return value, err
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	return s.cache.Set([]byte(key), value, s.ttlSeconds)
}
