package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/marphezis/prebid-adapters/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissing(t *testing.T) {
	s := NewStore(512*1024, 0)

	_, err := s.Get(context.Background(), "_iiq_fdata")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetThenGet(t *testing.T) {
	s := NewStore(512*1024, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "_iiq_fdata", []byte(`{"pcid":"abc"}`)))
	require.NoError(t, s.Set(ctx, "_iiq_fdata", []byte(`{"pcid":"def"}`)))

	value, err := s.Get(ctx, "_iiq_fdata")
	require.NoError(t, err)
	assert.JSONEq(t, `{"pcid":"def"}`, string(value))
}

func TestSetTooLarge(t *testing.T) {
	s := NewStore(512*1024, 0)

	err := s.Set(context.Background(), "big", []byte(strings.Repeat("x", 512*1024)))
	assert.Error(t, err)
}
