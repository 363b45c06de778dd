package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	authDTO "github.com/johnquangdev/atlas/internal/adapter/dto/auth"
	"github.com/johnquangdev/atlas/internal/adapter/dto/common"
	"github.com/johnquangdev/atlas/internal/adapter/presenter"
	"github.com/johnquangdev/atlas/internal/usecase/auth"
	"github.com/johnquangdev/atlas/pkg/config"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// Auth handles authentication HTTP requests
type Auth struct {
	authService *auth.Service
	logger      *zap.Logger
	frontendURL string
	secure      bool
}

// NewAuth creates a new auth handler
func NewAuth(authService *auth.Service, logger *zap.Logger, cfg *config.Config) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
		frontendURL: strings.TrimRight(cfg.Server.FrontendURL, "/"),
		secure:      cfg.IsProduction(),
	}
}

// RequestMagicLink handles POST /auth/magic-link
// @Summary      Request a sign-in link
// @Description  Mails a one-time sign-in link. Addresses outside the allow-list get the same response.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.MagicLinkRequest  true  "Email address"
// @Success      200      {object}  common.MessageResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid email"
// @Failure      500      {object}  map[string]interface{}  "Mail delivery failed"
// @Router       /auth/magic-link [post]
func (h *Auth) RequestMagicLink(c echo.Context) error {
	var req authDTO.MagicLinkRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.authService.RequestLink(c.Request().Context(), req.Email); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, common.MessageResponse{Message: "Magic link sent"})
}

// Callback handles GET /auth/callback, the link mailed to the user
// @Summary      Complete magic-link sign-in
// @Description  Consumes the token, sets session cookies and redirects to the frontend
// @Tags         Auth
// @Param        token  query  string  true  "Magic-link token"
// @Success      302
// @Router       /auth/callback [get]
func (h *Auth) Callback(c echo.Context) error {
	resp, err := h.authService.Verify(c.Request().Context(), c.QueryParam("token"), deviceInfo(c))
	if err != nil {
		h.logger.Warn("auth.callback.failed", zap.String("request_id", getRequestID(c)), zap.Error(err))
		return c.Redirect(http.StatusFound, h.frontendURL+"/login?error=auth_failed")
	}

	h.setAuthCookies(c, resp.AccessToken, resp.RefreshToken)
	return c.Redirect(http.StatusFound, h.frontendURL+"/")
}

// Verify handles POST /auth/verify
// @Summary      Exchange a magic-link token for tokens
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.VerifyRequest  true  "Magic-link token"
// @Success      200      {object}  authDTO.AuthResponse
// @Failure      401      {object}  map[string]interface{}  "Invalid or expired link"
// @Router       /auth/verify [post]
func (h *Auth) Verify(c echo.Context) error {
	var req authDTO.VerifyRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := validate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	resp, err := h.authService.Verify(c.Request().Context(), req.Token, deviceInfo(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToAuthResponse(resp))
}

// RefreshToken refreshes the access token
// @Summary      Refresh the access token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.RefreshTokenRequest  false  "Refresh token; the refresh_token cookie is used when omitted"
// @Success      200      {object}  authDTO.RefreshTokenResponse
// @Failure      401      {object}  map[string]interface{}  "Invalid refresh token"
// @Router       /auth/refresh [post]
func (h *Auth) RefreshToken(c echo.Context) error {
	var req authDTO.RefreshTokenRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	resp, err := h.authService.RefreshAccessToken(c.Request().Context(), h.refreshToken(c, req.RefreshToken))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	h.setCookie(c, accessTokenCookie, resp.AccessToken, h.authService.AccessExpiry())
	return HandleSuccess(h.logger, c, presenter.ToAuthRefreshTokenResponse(resp))
}

// Logout logs out the current session
// @Summary      Log out
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      authDTO.LogoutRequest  false  "Refresh token; the refresh_token cookie is used when omitted"
// @Success      200      {object}  common.MessageResponse
// @Router       /auth/logout [post]
func (h *Auth) Logout(c echo.Context) error {
	var req authDTO.LogoutRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.authService.Logout(c.Request().Context(), h.refreshToken(c, req.RefreshToken)); err != nil {
		return HandleError(h.logger, c, err)
	}

	h.clearAuthCookies(c)
	return HandleSuccess(h.logger, c, common.MessageResponse{Message: "Logged out successfully"})
}

// LogoutAll revokes every session of the current user
// @Summary      Log out everywhere
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.MessageResponse
// @Router       /auth/logout-all [post]
func (h *Auth) LogoutAll(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.authService.LogoutAll(c.Request().Context(), userID); err != nil {
		return HandleError(h.logger, c, err)
	}

	h.clearAuthCookies(c)
	return HandleSuccess(h.logger, c, common.MessageResponse{Message: "All sessions revoked"})
}

// Me returns the current user information
// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authDTO.MeResponse
// @Failure      401  {object}  map[string]interface{}  "Not authenticated"
// @Router       /auth/me [get]
func (h *Auth) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, authDTO.MeResponse{User: presenter.ToUserResponse(user)})
}

func (h *Auth) refreshToken(c echo.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *Auth) setAuthCookies(c echo.Context, accessToken, refreshToken string) {
	h.setCookie(c, accessTokenCookie, accessToken, h.authService.AccessExpiry())
	h.setCookie(c, refreshTokenCookie, refreshToken, h.authService.RefreshExpiry())
}

func (h *Auth) clearAuthCookies(c echo.Context) {
	h.setCookie(c, accessTokenCookie, "", -1)
	h.setCookie(c, refreshTokenCookie, "", -1)
}

// setCookie sets an HttpOnly cookie; a negative ttl deletes it
func (h *Auth) setCookie(c echo.Context, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func deviceInfo(c echo.Context) auth.DeviceInfo {
	return auth.DeviceInfo{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
