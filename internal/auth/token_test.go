package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/zengest/platform/internal/config"
	"github.com/zengest/platform/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:     "test-access-secret",
		RefreshSecret:    "test-refresh-secret",
		AccessTTLMinutes: 15,
		RefreshTTLDays:   7,
		BcryptCost:       4,
	}
}

func testIdentity() *domain.Identity {
	return &domain.Identity{
		ID:    "id-123",
		Email: "a@x.com",
		Role:  domain.RoleCustomer,
	}
}

func TestIssueAndVerifyRoundtrip(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	pair, err := tm.Issue(testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := tm.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "id-123", access.Subject)
	require.Equal(t, "a@x.com", access.Email)
	require.Equal(t, domain.RoleCustomer, access.Role)

	refresh, err := tm.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, "id-123", refresh.Subject)
}

func TestRefreshClaimsCarryOnlySubject(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	pair, err := tm.Issue(testIdentity())
	require.NoError(t, err)

	// Verifying the refresh token with the access verifier must fail: the
	// two classes never share a secret.
	_, err = tm.VerifyAccess(pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenInvalid)
	_, err = tm.VerifyRefresh(pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestConsecutivePairsDiffer(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	identity := testIdentity()

	first, err := tm.Issue(identity)
	require.NoError(t, err)
	second, err := tm.Issue(identity)
	require.NoError(t, err)

	require.NotEqual(t, first.AccessToken, second.AccessToken)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())
	other := NewTokenManager(config.AuthConfig{
		AccessSecret:     "other-access-secret",
		RefreshSecret:    "other-refresh-secret",
		AccessTTLMinutes: 15,
		RefreshTTLDays:   7,
	})

	pair, err := other.Issue(testIdentity())
	require.NoError(t, err)

	_, err = tm.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenInvalid)
	_, err = tm.VerifyRefresh(pair.RefreshToken)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsExpired(t *testing.T) {
	cfg := testAuthConfig()
	tm := NewTokenManager(cfg)

	claims := &AccessClaims{
		Email: "a@x.com",
		Role:  domain.RoleCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "id-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-16 * time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
	require.NoError(t, err)

	_, err = tm.VerifyAccess(expired)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	tm := NewTokenManager(testAuthConfig())

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := tm.VerifyAccess(token)
		require.ErrorIs(t, err, ErrTokenInvalid)
		_, err = tm.VerifyRefresh(token)
		require.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestVerifyRejectsUnexpectedSigningMethod(t *testing.T) {
	cfg := testAuthConfig()
	tm := NewTokenManager(cfg)

	// alg=none with an empty signature must never verify.
	claims := &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "id-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.VerifyAccess(unsigned)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
