package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Stop()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	value := []byte(`[{"responsavel":"Ana"}]`)
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'X'

	got, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"responsavel":"Ana"}]`, string(got))
}

func TestMemoryStore_Expiration(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Stop()
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	now = now.Add(2 * time.Minute)

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	store.purge()
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_StopIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	assert.NotPanics(t, func() {
		store.Stop()
		store.Stop()
	})
}
