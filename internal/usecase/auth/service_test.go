package auth

import (
	"context"
	stdErrors "errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/infrastructure/cache"
	"github.com/johnquangdev/atlas/internal/infrastructure/external/magiclink"
	"github.com/johnquangdev/atlas/internal/usecase/fakes"
	"github.com/johnquangdev/atlas/pkg/jwt"
)

type authFixture struct {
	svc      *Service
	users    *fakes.Users
	sessions *fakes.Sessions
	mailer   *fakes.Mailer
}

func newAuthFixture(t *testing.T, allowed ...string) *authFixture {
	t.Helper()
	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	f := &authFixture{
		users:    &fakes.Users{},
		sessions: &fakes.Sessions{},
		mailer:   &fakes.Mailer{},
	}
	f.svc = NewService(
		f.users,
		f.sessions,
		magiclink.NewManager(store, time.Minute),
		f.mailer,
		jwt.NewManager("access", "refresh", time.Minute, time.Hour),
		"https://atlas.example.com",
		allowed,
		nil,
	)
	return f
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/v1/auth/callback", u.Path)
	return u.Query().Get("token")
}

func appCode(t *testing.T, err error) appErrors.ErrorCode {
	t.Helper()
	var appErr appErrors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestRequestLink_SendsNormalizedEmail(t *testing.T) {
	f := newAuthFixture(t)

	require.NoError(t, f.svc.RequestLink(context.Background(), "  Owner@Example.COM "))

	link, ok := f.mailer.Sent["owner@example.com"]
	require.True(t, ok)
	assert.NotEmpty(t, tokenFromLink(t, link))
}

func TestRequestLink_InvalidEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.RequestLink(context.Background(), "not-an-email")
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, appCode(t, err))
	assert.Empty(t, f.mailer.Sent)
}

func TestRequestLink_AllowListSkipsSilently(t *testing.T) {
	f := newAuthFixture(t, "owner@example.com")

	require.NoError(t, f.svc.RequestLink(context.Background(), "stranger@example.com"))
	assert.Empty(t, f.mailer.Sent)

	require.NoError(t, f.svc.RequestLink(context.Background(), "owner@example.com"))
	assert.Len(t, f.mailer.Sent, 1)
}

func TestRequestLink_MailFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.mailer.Err = stdErrors.New("smtp down")

	err := f.svc.RequestLink(context.Background(), "owner@example.com")
	assert.Equal(t, appErrors.ErrorCode_INTEGRATION_MAIL_FAILED, appCode(t, err))

	var appErr appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPCode)
}

func TestVerify_CreatesUserAndSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestLink(ctx, "owner@example.com"))
	token := tokenFromLink(t, f.mailer.Sent["owner@example.com"])

	resp, err := f.svc.Verify(ctx, token, DeviceInfo{IPAddress: "10.0.0.1", UserAgent: "test"})
	require.NoError(t, err)

	assert.Equal(t, "owner@example.com", resp.User.Email)
	assert.Equal(t, "owner", resp.User.Name)
	assert.NotNil(t, resp.User.LastLoginAt)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(60), resp.ExpiresIn)

	require.Len(t, f.sessions.Items, 1)
	session := f.sessions.Items[0]
	assert.NotEqual(t, resp.RefreshToken, session.RefreshToken)
	assert.Len(t, session.RefreshToken, 64)
	require.NotNil(t, session.IPAddress)
	assert.Equal(t, "10.0.0.1", *session.IPAddress)

	// one-time
	_, err = f.svc.Verify(ctx, token, DeviceInfo{})
	assert.Equal(t, appErrors.ErrorCode_AUTH_MAGIC_LINK_INVALID, appCode(t, err))
}

func TestVerify_ReusesExistingUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	existing := entities.NewUser("owner@example.com")
	existing.Name = "Owner"
	require.NoError(t, f.users.Create(ctx, existing))

	require.NoError(t, f.svc.RequestLink(ctx, "owner@example.com"))
	resp, err := f.svc.Verify(ctx, tokenFromLink(t, f.mailer.Sent["owner@example.com"]), DeviceInfo{})
	require.NoError(t, err)

	assert.Equal(t, existing.ID, resp.User.ID)
	assert.Len(t, f.users.Items, 1)
}

func TestVerify_UnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Verify(context.Background(), "bogus", DeviceInfo{})
	assert.Equal(t, appErrors.ErrorCode_AUTH_MAGIC_LINK_INVALID, appCode(t, err))

	_, err = f.svc.Verify(context.Background(), "", DeviceInfo{})
	assert.Equal(t, appErrors.ErrorCode_AUTH_MAGIC_LINK_INVALID, appCode(t, err))
}

func TestRefreshAndLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.RequestLink(ctx, "owner@example.com"))
	login, err := f.svc.Verify(ctx, tokenFromLink(t, f.mailer.Sent["owner@example.com"]), DeviceInfo{})
	require.NoError(t, err)

	refreshed, err := f.svc.RefreshAccessToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.SessionID, refreshed.SessionID)

	user, err := f.svc.ValidateSession(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, user.ID)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))

	_, err = f.svc.RefreshAccessToken(ctx, login.RefreshToken)
	assert.Equal(t, appErrors.ErrorCode_AUTH_INVALID_REFRESH_TOKEN, appCode(t, err))

	// logging out twice is harmless
	assert.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
}

func TestRefresh_RejectsGarbage(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.RefreshAccessToken(context.Background(), "garbage")
	assert.Equal(t, appErrors.ErrorCode_AUTH_INVALID_REFRESH_TOKEN, appCode(t, err))
}

func TestValidateSession_InactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := entities.NewUser("owner@example.com")
	user.IsActive = false
	require.NoError(t, f.users.Create(ctx, user))

	token, err := jwt.NewManager("access", "refresh", time.Minute, time.Hour).GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)

	_, err = f.svc.ValidateSession(ctx, token)
	assert.ErrorIs(t, err, entities.ErrUnauthorized)

	_, err = f.svc.ValidateSession(ctx, "nope")
	assert.ErrorIs(t, err, entities.ErrInvalidToken)
}

func TestValidateSession_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	user := entities.NewUser("owner@example.com")
	require.NoError(t, f.users.Create(ctx, user))

	token, err := jwt.NewManager("access", "refresh", -time.Minute, time.Hour).GenerateAccessToken(user.ID, user.Email)
	require.NoError(t, err)

	_, err = f.svc.ValidateSession(ctx, token)
	assert.ErrorIs(t, err, entities.ErrTokenExpired)
}
