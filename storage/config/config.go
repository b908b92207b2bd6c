package config

import (
	"fmt"

	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/storage"
	"github.com/marphezis/prebid-adapters/storage/memcache"
	"github.com/marphezis/prebid-adapters/storage/memory"
	"github.com/marphezis/prebid-adapters/storage/postgres"
	"github.com/marphezis/prebid-adapters/storage/redis"
)

// NewStore builds the backend named by cfg.Type. It returns nil for "none",
// which disables identity persistence.
func NewStore(cfg config.Storage) (storage.Store, error) {
	switch cfg.Type {
	case config.StorageNone:
		logger.Infof("First-party identity storage disabled")
		return nil, nil
	case config.StorageMemory, "":
		logger.Infof("Using in-memory storage for first-party identity, %d bytes", cfg.Memory.SizeBytes)
		return memory.NewStore(cfg.Memory.SizeBytes, cfg.Memory.TTLSeconds), nil
	case config.StorageRedis:
		logger.Infof("Using redis storage for first-party identity at %s", cfg.Redis.Addr)
		s, err := redis.NewStore(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorageMemcache:
		logger.Infof("Using memcache storage for first-party identity at %v", cfg.Memcache.Servers)
		s, err := memcache.NewStore(cfg.Memcache)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoragePostgres:
		logger.Infof("Using postgres storage for first-party identity, table %s", cfg.Postgres.Table)
		s, err := postgres.NewStore(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
}

