package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/storage"
	redis "github.com/redis/go-redis/v9"
)

const defaultTimeout = 200 * time.Millisecond

// Store keeps values in Redis under an optional key prefix.
type Store struct {
	client    *redis.Client
	timeout   time.Duration
	keyPrefix string
}

// NewStore builds a Redis backed Store. It does not contact the server.
func NewStore(cfg config.RedisStorage) (*Store, error) {
	if cfg.Addr == "" {
		return nil, errors.New("storage.redis.addr is required")
	}

	opts := &redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}

	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return NewStoreWithClient(redis.NewClient(opts), time.Duration(cfg.TimeoutMs)*time.Millisecond, cfg.KeyPrefix), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *redis.Client, timeout time.Duration, keyPrefix string) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{
		client:    client,
		timeout:   timeout,
		keyPrefix: keyPrefix,
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	readCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	val, err := s.client.Get(readCtx, s.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.Set(writeCtx, s.keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Close releases Redis resources.
func (s *Store) Close() error {
	return s.client.Close()
}
