package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) RefreshCache {
	t.Helper()

	mr := miniredis.RunT(t)

	c, err := NewRedisCache("redis://"+mr.Addr(), "bm:rt:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestRedisCache_SetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour).Truncate(time.Second).UTC()
	entry := &RefreshEntry{UserID: "u1", ExpiresAt: exp}

	require.NoError(t, c.Set(ctx, "hash-1", entry, time.Hour))

	got, found, err := c.Get(ctx, "hash-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "u1", got.UserID)
	require.Equal(t, exp.Unix(), got.ExpiresAt.Unix())
}

func TestRedisCache_GetMissing(t *testing.T) {
	c := newTestCache(t)

	_, found, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisCache_Delete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	entry := &RefreshEntry{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, c.Set(ctx, "hash-1", entry, time.Hour))

	require.NoError(t, c.Delete(ctx, "hash-1"))

	_, found, err := c.Get(ctx, "hash-1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisCache("redis://"+mr.Addr(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	entry := &RefreshEntry{UserID: "u1", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, c.Set(ctx, "hash-1", entry, time.Minute))

	// miniredis позволяет промотать время без реального ожидания.
	mr.FastForward(2 * time.Minute)

	_, found, err := c.Get(ctx, "hash-1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache("not-a-redis-url", "")
	require.Error(t, err)
}
