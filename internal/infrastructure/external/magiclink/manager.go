package magiclink

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
)

// Store is the backing store for pending magic-link tokens
type Store interface {
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	GetDel(ctx context.Context, key string) (string, bool, error)
}

// Manager issues and consumes one-time sign-in tokens.
// Only the sha256 of a token is stored.
type Manager struct {
	store      Store
	expiration time.Duration
}

// NewManager creates a new token manager
func NewManager(store Store, expiration time.Duration) *Manager {
	if expiration <= 0 {
		expiration = 15 * time.Minute
	}
	return &Manager{
		store:      store,
		expiration: expiration,
	}
}

// Issue generates a random token bound to email
func (m *Manager) Issue(ctx context.Context, email string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := base64.RawURLEncoding.EncodeToString(b)
	if err := m.store.Set(ctx, key(token), email, m.expiration); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return token, nil
}

// Consume returns the email bound to token and invalidates it
func (m *Manager) Consume(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	return m.store.GetDel(ctx, key(token))
}

// Expiration returns the token lifetime
func (m *Manager) Expiration() time.Duration {
	return m.expiration
}

func key(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("auth:magic:%s", hex.EncodeToString(h[:]))
}
