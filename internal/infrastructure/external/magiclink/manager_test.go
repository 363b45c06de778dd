package magiclink

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/atlas/internal/infrastructure/cache"
)

func TestManager_IssueAndConsumeOnce(t *testing.T) {
	store := cache.NewMemoryStore()
	defer store.Close()
	m := NewManager(store, time.Minute)
	ctx := context.Background()

	token, err := m.Issue(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	email, ok, err := m.Consume(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "owner@example.com", email)

	_, ok, err = m.Consume(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_UnknownToken(t *testing.T) {
	store := cache.NewMemoryStore()
	defer store.Close()
	m := NewManager(store, 0)

	assert.Equal(t, 15*time.Minute, m.Expiration())

	_, ok, err := m.Consume(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = m.Consume(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKey_DoesNotContainToken(t *testing.T) {
	k := key("secret-token")
	assert.NotContains(t, k, "secret-token")
	assert.Contains(t, k, "auth:magic:")
}
