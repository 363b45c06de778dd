package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned when another holder owns the key
var ErrLocked = errors.New("lock is held")

// Locker acquires short-lived exclusive locks by key
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// RedisLocker is a redsync-backed Locker
type RedisLocker struct {
	rs *redsync.Redsync
}

// NewRedisLocker creates a Locker on the given Redis client
func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	pool := goredis.NewPool(client)
	return &RedisLocker{rs: redsync.New(pool)}
}

// TryLock attempts the lock once
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	mutex := l.rs.NewMutex("lock:"+key,
		redsync.WithExpiry(ttl),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return func() {
		_, _ = mutex.UnlockContext(context.Background())
	}, nil
}

// LocalLocker is an in-process Locker used when Redis is disabled.
// Each acquisition gets its own holder id, so a stale unlock after expiry
// cannot release a lock taken over by someone else.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]localHold
	next uint64
	now  func() time.Time
}

type localHold struct {
	holder  uint64
	expires time.Time
}

// NewLocalLocker creates an in-process Locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]localHold), now: time.Now}
}

// TryLock attempts the lock once
func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if h, ok := l.held[key]; ok && now.Before(h.expires) {
		return nil, ErrLocked
	}
	l.next++
	holder := l.next
	l.held[key] = localHold{holder: holder, expires: now.Add(ttl)}

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if h, ok := l.held[key]; ok && h.holder == holder {
			delete(l.held, key)
		}
	}, nil
}
