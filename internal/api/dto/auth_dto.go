package dto

import "github.com/zengest/platform/internal/domain"

// Payloads exchanged over the auth.* bus subjects. The gateway reuses the
// request types for its HTTP bodies, so a field added here is a field added
// to both contracts.

// RegisterRequest creates a new identity. Role is optional; an empty value
// falls back to the customer default.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// LoginRequest authenticates by email and secret.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest rotates a session. The gateway fills it from the refresh
// cookie, never from a request body.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LogoutRequest revokes the identity's refresh binding.
type LogoutRequest struct {
	IdentityID string `json:"identityId"`
}

// VerifyRequest checks an access token.
type VerifyRequest struct {
	AccessToken string `json:"accessToken"`
}

// AuthResponse is the reply to register and login.
type AuthResponse struct {
	Tokens domain.TokenPair     `json:"tokens"`
	User   domain.PublicProfile `json:"user"`
}

// TokensResponse is the reply to refresh: a new pair, nothing else.
type TokensResponse struct {
	Tokens domain.TokenPair `json:"tokens"`
}

// VerifyResponse carries the claims of a valid access token.
type VerifyResponse struct {
	Subject string      `json:"subject"`
	Email   string      `json:"email"`
	Role    domain.Role `json:"role"`
}

// AckResponse acknowledges an idempotent operation.
type AckResponse struct {
	Message string `json:"message"`
}
