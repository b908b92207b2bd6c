package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/storage"
)

// Store keeps values in a two column table:
//
//	CREATE TABLE first_party_data (key TEXT PRIMARY KEY, value BYTEA NOT NULL);
type Store struct {
	db         *sql.DB
	selectStmt string
	upsertStmt string
}

func uri(c config.PostgresStorage) string {
	uri := ""
	if c.Host != "" {
		uri += fmt.Sprintf("host=%s ", c.Host)
	}

	if c.Port > 0 {
		uri += fmt.Sprintf("port=%d ", c.Port)
	}

	if c.User != "" {
		uri += fmt.Sprintf("user=%s ", c.User)
	}

	if c.Password != "" {
		uri += fmt.Sprintf("password=%s ", c.Password)
	}

	if c.Dbname != "" {
		uri += fmt.Sprintf("dbname=%s ", c.Dbname)
	}

	return uri + "sslmode=disable"
}

// NewStore opens the database. A failed ping is logged, the store keeps
// operating and every call reports the connection error.
func NewStore(cfg config.PostgresStorage) (*Store, error) {
	connector, err := pq.NewConnector(uri(cfg))
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(connector)
	if err := db.Ping(); err != nil {
		logger.Errorf("failed to connect to postgres store: %v", err)
	}

	return NewStoreWithDB(db, cfg.Table), nil
}

// NewStoreWithDB uses an open handle.
func NewStoreWithDB(db *sql.DB, table string) *Store {
	table = pq.QuoteIdentifier(table)
	return &Store{
		db:         db,
		selectStmt: "SELECT value FROM " + table + " WHERE key = $1 LIMIT 1",
		upsertStmt: "INSERT INTO " + table + " (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	if err := s.db.QueryRowContext(ctx, s.selectStmt, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("postgres get failed: %w", err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.upsertStmt, key, value); err != nil {
		return fmt.Errorf("postgres set failed: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
