package config

import (
	"errors"
	"fmt"
)

// Storage backends for the persisted first-party identifier.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageMemcache = "memcache"
	StoragePostgres = "postgres"
	StorageNone     = "none"
)

type Storage struct {
	Type     string          `mapstructure:"type"`
	Memory   MemoryStorage   `mapstructure:"memory"`
	Redis    RedisStorage    `mapstructure:"redis"`
	Memcache MemcacheStorage `mapstructure:"memcache"`
	Postgres PostgresStorage `mapstructure:"postgres"`
}

type MemoryStorage struct {
	SizeBytes  int `mapstructure:"size_bytes"`
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

type RedisStorage struct {
	Addr      string `mapstructure:"addr"`
	DB        int    `mapstructure:"db"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	TLS       bool   `mapstructure:"tls"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type MemcacheStorage struct {
	Servers   []string `mapstructure:"servers"`
	TimeoutMs int      `mapstructure:"timeout_ms"`
}

type PostgresStorage struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Dbname   string `mapstructure:"dbname"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Table    string `mapstructure:"table"`
}

func (s *Storage) validate(errs []error) []error {
	switch s.Type {
	case StorageMemory, StorageNone, "":
		if s.Type == StorageMemory && s.Memory.SizeBytes <= 0 {
			errs = append(errs, errors.New("storage.memory.size_bytes must be positive"))
		}
	case StorageRedis:
		if s.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr is required when storage.type is redis"))
		}
	case StorageMemcache:
		if len(s.Memcache.Servers) == 0 {
			errs = append(errs, errors.New("storage.memcache.servers is required when storage.type is memcache"))
		}
	case StoragePostgres:
		if s.Postgres.Dbname == "" {
			errs = append(errs, errors.New("storage.postgres.dbname is required when storage.type is postgres"))
		}
		if s.Postgres.Table == "" {
			errs = append(errs, errors.New("storage.postgres.table is required when storage.type is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.type %q is not one of memory, redis, memcache, postgres or none", s.Type))
	}
	return errs
}
