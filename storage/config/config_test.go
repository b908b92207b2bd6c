package config

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/storage"
	"github.com/marphezis/prebid-adapters/storage/memcache"
	"github.com/marphezis/prebid-adapters/storage/memory"
	"github.com/marphezis/prebid-adapters/storage/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	mr := miniredis.RunT(t)

	testCases := []struct {
		name         string
		cfg          config.Storage
		expectedType storage.Store
	}{
		{
			name:         "memory",
			cfg:          config.Storage{Type: config.StorageMemory, Memory: config.MemoryStorage{SizeBytes: 1024 * 1024}},
			expectedType: &memory.Store{},
		},
		{
			name:         "empty-type-is-memory",
			cfg:          config.Storage{Memory: config.MemoryStorage{SizeBytes: 1024 * 1024}},
			expectedType: &memory.Store{},
		},
		{
			name:         "redis",
			cfg:          config.Storage{Type: config.StorageRedis, Redis: config.RedisStorage{Addr: mr.Addr()}},
			expectedType: &redis.Store{},
		},
		{
			name:         "memcache",
			cfg:          config.Storage{Type: config.StorageMemcache, Memcache: config.MemcacheStorage{Servers: []string{"localhost:11211"}}},
			expectedType: &memcache.Store{},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			s, err := NewStore(test.cfg)
			require.NoError(t, err)
			assert.IsType(t, test.expectedType, s)
			assert.NoError(t, storage.Close(s))
		})
	}
}

func TestNewStoreNone(t *testing.T) {
	s, err := NewStore(config.Storage{Type: config.StorageNone})
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestNewStoreErrors(t *testing.T) {
	_, err := NewStore(config.Storage{Type: "cassandra"})
	assert.EqualError(t, err, `unknown storage type "cassandra"`)

	_, err = NewStore(config.Storage{Type: config.StorageRedis})
	assert.Error(t, err)
}
