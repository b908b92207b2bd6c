package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectQuery = `SELECT value FROM "first_party_data" WHERE key = $1 LIMIT 1`
	upsertQuery = `INSERT INTO "first_party_data" (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Unexpected error stubbing DB")
	t.Cleanup(func() { db.Close() })
	return NewStoreWithDB(db, "first_party_data"), mock
}

func TestURI(t *testing.T) {
	cfg := config.PostgresStorage{
		Host:     "db.local",
		Port:     5432,
		Dbname:   "mpa",
		User:     "user",
		Password: "secret",
	}
	assert.Equal(t, "host=db.local port=5432 user=user password=secret dbname=mpa sslmode=disable", uri(cfg))
	assert.Equal(t, "sslmode=disable", uri(config.PostgresStorage{}))
}

func TestGet(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("_iiq_fdata").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"pcid":"abc"}`)))

	value, err := s.Get(context.Background(), "_iiq_fdata")

	require.NoError(t, err)
	assert.Equal(t, `{"pcid":"abc"}`, string(value))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissing(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("_iiq_fdata").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := s.Get(context.Background(), "_iiq_fdata")

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFailure(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
		WithArgs("_iiq_fdata").
		WillReturnError(errors.New("connection reset"))

	_, err := s.Get(context.Background(), "_iiq_fdata")

	assert.EqualError(t, err, "postgres get failed: connection reset")
}

func TestSet(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs("_iiq_fdata", []byte(`{"pcid":"abc"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Set(context.Background(), "_iiq_fdata", []byte(`{"pcid":"abc"}`))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFailure(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WillReturnError(errors.New("read only"))

	err := s.Set(context.Background(), "_iiq_fdata", []byte(`{}`))

	assert.EqualError(t, err, "postgres set failed: read only")
}
