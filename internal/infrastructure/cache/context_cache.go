package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
)

type contextEntry struct {
	value     string
	expiresAt time.Time
}

// ContextCache keeps the assembled chat context per user for a short TTL
type ContextCache struct {
	cache *lru.Cache
	ttl   time.Duration
	mu    sync.Mutex
	now   func() time.Time
}

// NewContextCache creates an LRU bounded to size users
func NewContextCache(size int, ttl time.Duration) (*ContextCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ContextCache{cache: c, ttl: ttl, now: time.Now}, nil
}

// Get returns the cached context for the user if it has not expired
func (c *ContextCache) Get(userID uuid.UUID) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(userID)
	if !ok {
		return "", false
	}
	entry := v.(contextEntry)
	if c.now().After(entry.expiresAt) {
		c.cache.Remove(userID)
		return "", false
	}
	return entry.value, true
}

// Set stores the context for the user
func (c *ContextCache) Set(userID uuid.UUID, value string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(userID, contextEntry{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Invalidate drops the cached context for the user
func (c *ContextCache) Invalidate(userID uuid.UUID) {
	if c == nil {
		return
	}
	c.cache.Remove(userID)
}
