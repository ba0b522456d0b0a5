package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPatient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, s
}

func TestConnect(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := Connect(context.Background(), "redis://"+s.Addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = Connect(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestCacheRoundTrip(t *testing.T) {
	client, s := newClient(t)
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, client, "PATIENT:1", cachedPatient{Name: "Nimal", Email: "nimal@example.com"}, time.Minute))

	var got cachedPatient
	require.NoError(t, GetCache(ctx, client, "PATIENT:1", &got))
	assert.Equal(t, "Nimal", got.Name)
	assert.Equal(t, time.Minute, s.TTL("PATIENT:1"))

	require.NoError(t, DeleteCache(ctx, client, "PATIENT:1"))
	assert.ErrorIs(t, GetCache(ctx, client, "PATIENT:1", &got), ErrCacheMiss)
}

func TestCacheExpires(t *testing.T) {
	client, s := newClient(t)
	ctx := context.Background()

	require.NoError(t, SetCache(ctx, client, "PATIENT:2", cachedPatient{Name: "Kamal"}, time.Second))
	s.FastForward(2 * time.Second)

	var got cachedPatient
	assert.ErrorIs(t, GetCache(ctx, client, "PATIENT:2", &got), ErrCacheMiss)
}

func TestLocker(t *testing.T) {
	client, s := newClient(t)
	ctx := context.Background()
	locker := NewLocker(client, 10*time.Second)
	key := "SLOT_LOCK:DOC001:2025-03-10:09:00-09:30"

	release, ok, err := locker.Acquire(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.Acquire(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	assert.False(t, s.Exists(key))

	_, ok, err = locker.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_ReleaseKeepsForeignLock(t *testing.T) {
	client, s := newClient(t)
	ctx := context.Background()
	locker := NewLocker(client, time.Second)
	key := "SLOT_LOCK:DOC002:2025-03-10:10:00-10:30"

	release, ok, err := locker.Acquire(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	// our lock expired and someone else took the slot
	s.FastForward(2 * time.Second)
	_, ok, err = locker.Acquire(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	release()
	assert.True(t, s.Exists(key))
}

func TestLocker_RedisDown(t *testing.T) {
	client, s := newClient(t)
	s.Close()

	release, ok, err := NewLocker(client, time.Second).Acquire(context.Background(), "SLOT_LOCK:x")
	assert.Error(t, err)
	assert.False(t, ok)
	release()
}
