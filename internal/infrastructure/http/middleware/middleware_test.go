package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

type fakeValidator struct {
	user *entities.User
}

func (f *fakeValidator) ValidateSession(_ context.Context, token string) (*entities.User, error) {
	switch token {
	case "good":
		return f.user, nil
	case "stale":
		return nil, entities.ErrTokenExpired
	}
	return nil, errors.New("invalid")
}

func runAuth(t *testing.T, req *http.Request, v SessionValidator) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := EchoAuth(v)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, c, err
}

func TestEchoAuth_BearerHeader(t *testing.T) {
	user := &entities.User{ID: uuid.New(), Email: "owner@example.com"}
	req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer good")

	rec, c, err := runAuth(t, req, &fakeValidator{user: user})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, c.Get("user_id"))
}

func TestEchoAuth_Cookie(t *testing.T) {
	user := &entities.User{ID: uuid.New()}
	req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "good"})

	_, c, err := runAuth(t, req, &fakeValidator{user: user})
	require.NoError(t, err)
	assert.Equal(t, user.ID, c.Get("user_id"))
}

func TestEchoAuth_Rejects(t *testing.T) {
	for name, header := range map[string]string{"missing": "", "invalid": "Bearer bad"} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			_, _, err := runAuth(t, req, &fakeValidator{})
			var he *echo.HTTPError
			require.ErrorAs(t, err, &he)
			assert.Equal(t, http.StatusUnauthorized, he.Code)
		})
	}
}

func TestEchoAuth_ExpiredToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
	req.Header.Set("Authorization", "Bearer stale")

	_, _, err := runAuth(t, req, &fakeValidator{})
	var appErr appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
	assert.Equal(t, appErrors.ErrorCode_AUTH_TOKEN_EXPIRED, appErr.Code)
}

func TestBearerSecret(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		secret string
		header string
		pass   bool
	}{
		{"", "", true},
		{"s3cret", "Bearer s3cret", true},
		{"s3cret", "Bearer wrong", false},
		{"s3cret", "s3cret", false},
		{"s3cret", "", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/granola", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		c := e.NewContext(req, httptest.NewRecorder())
		err := BearerSecret(tc.secret)(ok)(c)
		if tc.pass {
			assert.NoError(t, err, tc.header)
		} else {
			var appErr appErrors.AppError
			require.ErrorAs(t, err, &appErr, tc.header)
			assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
			assert.Equal(t, appErrors.ErrorCode_WEBHOOK_UNAUTHORIZED, appErr.Code)
		}
	}
}
