package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/hrpanel/internal/cache"
)

type point struct{ X, Y byte }

func (p point) MarshalBinary() ([]byte, error) { return []byte{p.X, p.Y}, nil }

func (p *point) UnmarshalBinary(b []byte) error {
	if len(b) != 2 {
		return errors.New("bad point")
	}
	p.X, p.Y = b[0], b[1]
	return nil
}

func newTestCache(t *testing.T) (*Cache, *time.Time) {
	t.Helper()
	c := New(cache.Options{DefaultTTL: time.Minute, CleanupInterval: time.Hour})
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	t.Cleanup(func() { _ = c.Close() })
	return c, &now
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "s", "hello", 0))
	var s string
	require.NoError(t, c.Get(ctx, "s", &s))
	assert.Equal(t, "hello", s)

	require.NoError(t, c.Set(ctx, "p", point{3, 4}, 0))
	var p point
	require.NoError(t, c.Get(ctx, "p", &p))
	assert.Equal(t, point{3, 4}, p)

	raw := []byte{1, 2}
	require.NoError(t, c.Set(ctx, "b", raw, 0))
	raw[0] = 9
	var b []byte
	require.NoError(t, c.Get(ctx, "b", &b))
	assert.Equal(t, []byte{1, 2}, b)
}

func TestCache_Errors(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.Set(ctx, "", "x", 0), cache.ErrInvalidKey)
	assert.ErrorIs(t, c.Set(ctx, "k", 42, 0), cache.ErrInvalidValue)

	var s string
	assert.ErrorIs(t, c.Get(ctx, "missing", &s), cache.ErrNotFound)

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	var n int
	assert.ErrorIs(t, c.Get(ctx, "k", &n), cache.ErrInvalidValue)
}

func TestCache_Expiry(t *testing.T) {
	c, now := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", "v", time.Second))
	require.NoError(t, c.Set(ctx, "default", "v", 0))

	*now = now.Add(2 * time.Second)
	var s string
	assert.ErrorIs(t, c.Get(ctx, "short", &s), cache.ErrNotFound)
	assert.NoError(t, c.Get(ctx, "default", &s))

	assert.Equal(t, 1, c.DeleteExpired())
	assert.Equal(t, 1, c.Len())

	*now = now.Add(time.Minute)
	assert.Equal(t, 1, c.DeleteExpired())
	assert.Equal(t, 0, c.Len())
}

func TestCache_DeleteClearClose(t *testing.T) {
	c := New(cache.DefaultOptions())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	require.NoError(t, c.Set(ctx, "b", "2", 0))
	require.NoError(t, c.Delete(ctx, "a"))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 0, c.Len())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Set(ctx, "a", "1", 0), cache.ErrClosed)
	var s string
	assert.ErrorIs(t, c.Get(ctx, "a", &s), cache.ErrClosed)
}
