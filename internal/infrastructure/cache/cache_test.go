package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetDelIsOneTime(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))

	v, ok, err := store.GetDel(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok, err = store.GetDel(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Expired(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", -time.Second))
	_, ok, err := store.GetDel(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContextCache_TTL(t *testing.T) {
	c, err := NewContextCache(8, time.Minute)
	require.NoError(t, err)

	now := time.Now()
	c.now = func() time.Time { return now }

	user := uuid.New()
	c.Set(user, "RECENT MEETINGS:\n- Sync")

	v, ok := c.Get(user)
	assert.True(t, ok)
	assert.Equal(t, "RECENT MEETINGS:\n- Sync", v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(user)
	assert.False(t, ok)
}

func TestContextCache_InvalidateAndDisabled(t *testing.T) {
	c, err := NewContextCache(8, time.Minute)
	require.NoError(t, err)
	user := uuid.New()
	c.Set(user, "ctx")
	c.Invalidate(user)
	_, ok := c.Get(user)
	assert.False(t, ok)

	disabled, err := NewContextCache(8, 0)
	require.NoError(t, err)
	disabled.Set(user, "ctx")
	_, ok = disabled.Get(user)
	assert.False(t, ok)
}
