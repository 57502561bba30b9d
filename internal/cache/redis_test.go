package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name  string  `msgpack:"name"`
	Value float64 `msgpack:"value"`
}

func setupRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedis_SetGet(t *testing.T) {
	c, _ := setupRedis(t)
	ctx := context.Background()

	var got []row
	gen, hit, err := c.Get(ctx, "top:wins", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := []row{{"Ana", 3}, {"Bruno", 1.5}}
	require.NoError(t, c.Set(ctx, gen, "top:wins", want, time.Minute))

	_, hit, err = c.Get(ctx, "top:wins", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)
}

func TestRedis_InvalidateHidesOldEntries(t *testing.T) {
	c, _ := setupRedis(t)
	ctx := context.Background()

	var got []row
	gen, _, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, gen, "k", []row{{"Ana", 1}}, time.Minute))
	require.NoError(t, c.Invalidate(ctx))

	next, hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, gen+1, next)

	require.NoError(t, c.Set(ctx, next, "k", []row{{"Ana", 2}}, time.Minute))
	_, hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 2.0, got[0].Value)
}

func TestRedis_SetAfterInvalidateStaysHidden(t *testing.T) {
	c, _ := setupRedis(t)
	ctx := context.Background()

	var got string
	gen, hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.False(t, hit)

	// A write lands while the miss is being computed.
	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Set(ctx, gen, "k", "old", time.Minute))

	_, hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, got)
}

func TestRedis_TTL(t *testing.T) {
	c, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 0, "k", row{"Ana", 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var got row
	_, hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not a url")
	assert.Error(t, err)
}
