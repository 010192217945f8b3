package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	store := NewRedisStoreFromClient(client, ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_SetGet(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "k", []byte(`[{"responsavel":"Ana"}]`)))

	got, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"responsavel":"Ana"}]`, string(got))

	raw, err := mr.Get("taskextract:k")
	require.NoError(t, err)
	assert.Equal(t, `[{"responsavel":"Ana"}]`, raw)
	assert.False(t, mr.Exists("k"))
}

func TestRedisStore_Expires(t *testing.T) {
	store, mr := newRedisStore(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	assert.Equal(t, 30*time.Second, mr.TTL("taskextract:k"))

	mr.FastForward(31 * time.Second)

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := newRedisStore(t, time.Minute)
	mr.Close()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get")
	assert.False(t, found)

	err = store.Set(ctx, "k", []byte("v"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set")
}
