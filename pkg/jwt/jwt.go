package jwt

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer is the iss claim of every token minted by Manager
const Issuer = "atlas"

var (
	// ErrExpired is returned for a well formed token past its exp claim
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers every other rejection
	ErrInvalid = errors.New("token invalid")
)

type key struct {
	secret []byte
	ttl    time.Duration
}

// Manager signs and verifies the HS256 tokens of a session. Access and refresh
// tokens use separate secrets and carry their Kind, so neither verifies as the other.
type Manager struct {
	keys map[Kind]key
	now  func() time.Time
}

// NewManager creates a Manager
func NewManager(accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *Manager {
	return &Manager{
		keys: map[Kind]key{
			KindAccess:  {secret: []byte(accessSecret), ttl: accessExpiry},
			KindRefresh: {secret: []byte(refreshSecret), ttl: refreshExpiry},
		},
		now: time.Now,
	}
}

// GenerateAccessToken mints the short lived token sent as Bearer or access_token cookie
func (m *Manager) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return m.sign(KindAccess, userID, email)
}

// GenerateRefreshToken mints a refresh token. Each one has a random jti so
// two sessions opened in the same second still hash differently.
func (m *Manager) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return m.sign(KindRefresh, userID, "")
}

// ValidateAccessToken verifies an access token and returns its claims
func (m *Manager) ValidateAccessToken(token string) (*Claims, error) {
	return m.verify(KindAccess, token)
}

// ValidateRefreshToken verifies a refresh token and returns its user
func (m *Manager) ValidateRefreshToken(token string) (uuid.UUID, error) {
	claims, err := m.verify(KindRefresh, token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID()
}

// GetAccessExpiry returns the access token lifetime
func (m *Manager) GetAccessExpiry() time.Duration { return m.keys[KindAccess].ttl }

// GetRefreshExpiry returns the refresh token lifetime
func (m *Manager) GetRefreshExpiry() time.Duration { return m.keys[KindRefresh].ttl }

// HashToken returns the sha256 hex digest stored on sessions in place of the refresh token
func (m *Manager) HashToken(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalid)
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:]), nil
}

func (m *Manager) sign(kind Kind, userID uuid.UUID, email string) (string, error) {
	k := m.keys[kind]
	issued := m.now()
	claims := &Claims{
		Kind:  kind,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(k.ttl)),
		},
	}
	if kind == KindRefresh {
		claims.ID = uuid.NewString()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.secret)
}

func (m *Manager) verify(kind Kind, token string) (*Claims, error) {
	k := m.keys[kind]
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return k.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpired
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	case claims.Kind != kind:
		return nil, fmt.Errorf("%w: %s token used as %s", ErrInvalid, claims.Kind, kind)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: subject: %v", ErrInvalid, err)
	}
	return claims, nil
}
