package auth

// MagicLinkRequest asks for a sign-in link
type MagicLinkRequest struct {
	Email string `json:"email"`
}

// VerifyRequest exchanges a magic-link token for a session
type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// RefreshTokenRequest represents the request to refresh access token.
// The refresh_token cookie is used when the body omits it.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest represents the request to logout
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
