package memcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/storage"
)

// Client is the subset of *memcache.Client the store needs.
type Client interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
}

// Store keeps values in memcached. The client has no context support, so a
// context that is already done fails the call before it reaches the network.
type Store struct {
	client Client
}

func NewStore(cfg config.MemcacheStorage) (*Store, error) {
	if len(cfg.Servers) == 0 {
		return nil, errors.New("storage.memcache.servers is required")
	}
	client := memcache.New(cfg.Servers...)
	if cfg.TimeoutMs > 0 {
		client.Timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	return NewStoreWithClient(client), nil
}

func NewStoreWithClient(client Client) *Store {
	return &Store{client: client}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item, err := s.client.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("memcache get failed: %w", err)
	}
	return item.Value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.client.Set(&memcache.Item{Key: key, Value: value}); err != nil {
		return fmt.Errorf("memcache set failed: %w", err)
	}
	return nil
}
