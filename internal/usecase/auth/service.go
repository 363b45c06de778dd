package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/mail"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	"github.com/johnquangdev/atlas/internal/infrastructure/metrics"
	"github.com/johnquangdev/atlas/pkg/jwt"
)

// LinkIssuer issues and redeems one-time magic-link tokens
type LinkIssuer interface {
	Issue(ctx context.Context, email string) (string, error)
	Consume(ctx context.Context, token string) (string, bool, error)
}

// LinkSender delivers a magic link to an address
type LinkSender interface {
	SendMagicLink(ctx context.Context, to, link string) error
}

// Service handles magic-link sign-in and sessions
type Service struct {
	userRepo      repositories.UserRepository
	sessionRepo   repositories.SessionRepository
	links         LinkIssuer
	sender        LinkSender
	jwtManager    *jwt.Manager
	callbackURL   string
	allowedEmails map[string]struct{}
	logger        *zap.Logger
}

// NewService creates a new auth service. appBaseURL is the public origin the
// callback link points at; an empty allowedEmails list admits every address.
func NewService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	links LinkIssuer,
	sender LinkSender,
	jwtManager *jwt.Manager,
	appBaseURL string,
	allowedEmails []string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, e := range allowedEmails {
		allowed[entities.NormalizeEmail(e)] = struct{}{}
	}
	return &Service{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		links:         links,
		sender:        sender,
		jwtManager:    jwtManager,
		callbackURL:   appBaseURL + "/v1/auth/callback",
		allowedEmails: allowed,
		logger:        logger,
	}
}

// DeviceInfo describes the client opening a session
type DeviceInfo struct {
	IPAddress string
	UserAgent string
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User         *entities.User `json:"user"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	ExpiresIn    int64          `json:"expires_in"`
	SessionID    string         `json:"session_id,omitempty"`
}

// RequestLink mails a sign-in link to email. Addresses outside the allow-list get
// the same result without any mail being sent.
func (s *Service) RequestLink(ctx context.Context, email string) error {
	email = entities.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return appErrors.ErrInvalidArgument("A valid email is required")
	}

	if len(s.allowedEmails) > 0 {
		if _, ok := s.allowedEmails[email]; !ok {
			metrics.MagicLinksTotal.WithLabelValues("skipped").Inc()
			s.logger.Info("auth.magic_link.skipped", zap.String("email", email))
			return nil
		}
	}

	token, err := s.links.Issue(ctx, email)
	if err != nil {
		metrics.MagicLinksTotal.WithLabelValues("error").Inc()
		return appErrors.ErrMagicLinkFailed(err)
	}

	link := s.callbackURL + "?token=" + url.QueryEscape(token)
	if err := s.sender.SendMagicLink(ctx, email, link); err != nil {
		metrics.MagicLinksTotal.WithLabelValues("error").Inc()
		s.logger.Error("auth.magic_link.send_failed", zap.String("email", email), zap.Error(err))
		return appErrors.ErrMailFailed(err)
	}

	metrics.MagicLinksTotal.WithLabelValues("sent").Inc()
	return nil
}

// Verify redeems a magic-link token and opens a session
func (s *Service) Verify(ctx context.Context, token string, device DeviceInfo) (*AuthResponse, error) {
	if token == "" {
		return nil, appErrors.ErrMagicLinkInvalid()
	}

	email, ok, err := s.links.Consume(ctx, token)
	if err != nil {
		return nil, appErrors.ErrCacheFailed("consume magic link", err)
	}
	if !ok {
		metrics.MagicLinksTotal.WithLabelValues("invalid").Inc()
		return nil, appErrors.ErrMagicLinkInvalid()
	}

	user, err := s.findOrCreateUser(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, appErrors.ErrUnauthenticated()
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("auth.last_login.update_failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	} else {
		user.UpdateLastLogin()
	}

	resp, err := s.openSession(ctx, user, device)
	if err != nil {
		return nil, err
	}

	metrics.MagicLinksTotal.WithLabelValues("verified").Inc()
	s.logger.Info("auth.login.succeeded", zap.String("user_id", user.ID.String()))
	return resp, nil
}

func (s *Service) findOrCreateUser(ctx context.Context, email string) (*entities.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !stdErrors.Is(err, entities.ErrUserNotFound) {
		return nil, appErrors.ErrDBQueryFailed("find user by email", err)
	}

	user = entities.NewUser(email)
	if err := user.Validate(); err != nil {
		return nil, appErrors.ErrInvalidArgument(err.Error())
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, appErrors.ErrDBQueryFailed("create user", err)
	}
	s.logger.Info("auth.user.created", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Service) openSession(ctx context.Context, user *entities.User, device DeviceInfo) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, appErrors.ErrInternal(fmt.Errorf("failed to generate access token: %w", err))
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, appErrors.ErrInternal(fmt.Errorf("failed to generate refresh token: %w", err))
	}

	hash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, appErrors.ErrInternal(err)
	}

	session := entities.NewSession(user.ID, hash, time.Now().Add(s.jwtManager.GetRefreshExpiry())).
		WithDeviceInfo(device.IPAddress, device.UserAgent)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, appErrors.ErrDBQueryFailed("create session", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
		SessionID:    session.ID.String(),
	}, nil
}

// RefreshAccessToken issues a new access token for a live refresh token
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, appErrors.ErrInvalidRefreshToken()
	}

	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, appErrors.ErrInvalidRefreshToken()
	}

	session, err := s.findSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !session.IsValid() || session.UserID != userID {
		return nil, appErrors.ErrInvalidRefreshToken()
	}

	if err := s.sessionRepo.UpdateLastUsed(ctx, session.ID); err != nil {
		s.logger.Warn("auth.session.touch_failed", zap.String("session_id", session.ID.String()), zap.Error(err))
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidRefreshToken()
		}
		return nil, appErrors.ErrDBQueryFailed("find user", err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, appErrors.ErrInternal(fmt.Errorf("failed to generate access token: %w", err))
	}

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.GetAccessExpiry().Seconds()),
		SessionID:   session.ID.String(),
	}, nil
}

// Logout revokes the session bound to refreshToken. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	session, err := s.findSession(ctx, refreshToken)
	if err != nil {
		var appErr appErrors.AppError
		if stdErrors.As(err, &appErr) && appErr.Code == appErrors.ErrorCode_AUTH_INVALID_REFRESH_TOKEN {
			return nil
		}
		return err
	}

	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return appErrors.ErrDBQueryFailed("revoke session", err)
	}
	return nil
}

// LogoutAll revokes every session of a user
func (s *Service) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessionRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return appErrors.ErrDBQueryFailed("revoke sessions", err)
	}
	return nil
}

// ValidateSession resolves an access token to an active user
func (s *Service) ValidateSession(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if stdErrors.Is(err, jwt.ErrExpired) {
		return nil, entities.ErrTokenExpired
	}
	if err != nil {
		return nil, entities.ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, entities.ErrUnauthorized
	}

	return user, nil
}

// RefreshExpiry is the lifetime of refresh tokens and their cookie
func (s *Service) RefreshExpiry() time.Duration {
	return s.jwtManager.GetRefreshExpiry()
}

// AccessExpiry is the lifetime of access tokens and their cookie
func (s *Service) AccessExpiry() time.Duration {
	return s.jwtManager.GetAccessExpiry()
}

func (s *Service) findSession(ctx context.Context, refreshToken string) (*entities.Session, error) {
	hash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, appErrors.ErrInvalidRefreshToken()
	}

	session, err := s.sessionRepo.FindByRefreshToken(ctx, hash)
	if err != nil {
		if stdErrors.Is(err, entities.ErrSessionNotFound) {
			return nil, appErrors.ErrInvalidRefreshToken()
		}
		return nil, appErrors.ErrDBQueryFailed("find session", err)
	}
	return session, nil
}
