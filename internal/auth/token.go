package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zengest/platform/internal/config"
	"github.com/zengest/platform/internal/domain"
)

// ErrTokenInvalid covers bad signature, malformed structure and expiry.
// Verification never says which one failed.
var ErrTokenInvalid = errors.New("token invalid or expired")

// AccessClaims is the payload of the short-lived access token. Possession of
// a valid, unexpired token is sufficient proof of identity for its TTL; no
// store lookup happens at verification time.
type AccessClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the subject id. Deliberately minimal so a
// logged or leaked refresh token exposes nothing else.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and verifies the access/refresh token pair. The two
// token classes are signed with distinct secrets and distinct TTLs.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenManager builds a manager from the injected auth configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL(),
		refreshTTL:    cfg.RefreshTTL(),
	}
}

// Issue builds and signs a fresh token pair for the identity. The two
// signing operations are independent of each other.
func (tm *TokenManager) Issue(identity *domain.Identity) (domain.TokenPair, error) {
	now := time.Now()

	// A fresh jti per token keeps two rotations distinguishable even when
	// they fall in the same second.
	accessClaims := &AccessClaims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(tm.accessSecret)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refreshClaims := &RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(tm.refreshSecret)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess validates signature and expiry of an access token and returns
// its claims. Purely cryptographic, no store access.
func (tm *TokenManager) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := tm.verify(tokenStr, claims, tm.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh validates signature and expiry of a refresh token.
func (tm *TokenManager) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := tm.verify(tokenStr, claims, tm.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (tm *TokenManager) verify(tokenStr string, claims jwt.Claims, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return ErrTokenInvalid
	}
	return nil
}
