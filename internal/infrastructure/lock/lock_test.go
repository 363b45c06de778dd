package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	unlock, err := l.TryLock(ctx, "payload:abc", time.Minute)
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "payload:abc", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	_, err = l.TryLock(ctx, "payload:other", time.Minute)
	assert.NoError(t, err)

	unlock()
	_, err = l.TryLock(ctx, "payload:abc", time.Minute)
	assert.NoError(t, err)
}

func TestLocalLocker_Expiry(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	_, err := l.TryLock(ctx, "k", -time.Second)
	require.NoError(t, err)

	_, err = l.TryLock(ctx, "k", time.Minute)
	assert.NoError(t, err)
}

func TestLocalLocker_StaleUnlockKeepsNewHolder(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()
	start := time.Now()
	l.now = func() time.Time { return start }

	unlockFirst, err := l.TryLock(ctx, "payload:abc", 3*time.Minute)
	require.NoError(t, err)

	l.now = func() time.Time { return start.Add(4 * time.Minute) }
	unlockSecond, err := l.TryLock(ctx, "payload:abc", 3*time.Minute)
	require.NoError(t, err)

	unlockFirst()
	_, err = l.TryLock(ctx, "payload:abc", 3*time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	unlockSecond()
	unlockSecond()
	_, err = l.TryLock(ctx, "payload:abc", 3*time.Minute)
	assert.NoError(t, err)
}
