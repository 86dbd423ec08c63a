package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, slot string) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rs := NewRedisStoreFromClient(client, slot, testLogger())
	t.Cleanup(func() { rs.Close() })
	return rs
}

func TestRedisStore_LoadMissing(t *testing.T) {
	rs := newTestRedisStore(t, "default")

	data, ok, err := rs.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestRedisStore_SaveThenLoad(t *testing.T) {
	rs := newTestRedisStore(t, "default")
	ctx := context.Background()

	want := []byte(`{"session_id":"s1"}`)
	require.NoError(t, rs.Save(ctx, want))

	data, ok, err := rs.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, data)
}

func TestRedisStore_SlotsAreIsolated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	a := NewRedisStoreFromClient(client, "alpha", testLogger())
	b := NewRedisStoreFromClient(client, "beta", testLogger())

	require.NoError(t, a.Save(ctx, []byte("alpha-data")))

	_, ok, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "slots must not share saves")
}

func TestRedisStore_NoExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rs := NewRedisStoreFromClient(client, "default", testLogger())
	defer rs.Close()
	ctx := context.Background()

	require.NoError(t, rs.Save(ctx, []byte("data")))

	ttl := client.TTL(ctx, "gamestate:default").Val()
	assert.Less(t, ttl, time.Duration(0), "saved progress must not expire")
}

func TestRedisStore_Ping(t *testing.T) {
	rs := newTestRedisStore(t, "default")
	assert.NoError(t, rs.Ping(context.Background()))
}

func TestRedisStore_DefaultSlot(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rs := NewRedisStoreFromClient(client, "", testLogger())
	defer rs.Close()
	ctx := context.Background()

	require.NoError(t, rs.Save(ctx, []byte("data")))
	assert.True(t, mr.Exists("gamestate:default"))
}
