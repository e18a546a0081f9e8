package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompareSecret(t *testing.T) {
	hash, err := HashSecret("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "Abcdef1!", hash)

	require.NoError(t, CompareSecret(hash, "Abcdef1!"))
	require.Error(t, CompareSecret(hash, "abcdef1!"))
	require.Error(t, CompareSecret(hash, ""))
}

func TestBindingHashAcceptsFullLengthTokens(t *testing.T) {
	// A signed refresh token is far beyond bcrypt's 72-byte input limit;
	// the binding path must still round-trip it.
	token := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 12)
	require.Greater(t, len(token), 72)

	_, err := HashSecret(token, bcrypt.MinCost)
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)

	hash, err := HashBinding(token, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, CompareBinding(hash, token))
	require.Error(t, CompareBinding(hash, token+"x"))
	require.Error(t, CompareBinding(hash, ""))
}

func TestHashSecretSalts(t *testing.T) {
	first, err := HashSecret("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashSecret("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)

	// Salted: two hashes of the same secret differ, both still verify.
	require.NotEqual(t, first, second)
	require.NoError(t, CompareSecret(first, "Abcdef1!"))
	require.NoError(t, CompareSecret(second, "Abcdef1!"))
}
