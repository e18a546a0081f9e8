package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentitySerializationStripsHashes(t *testing.T) {
	binding := "bcrypt-of-refresh-token"
	identity := Identity{
		ID:                 "id-123",
		FirstName:          "Ada",
		LastName:           "Lovelace",
		Email:              "a@x.com",
		SecretHash:         "bcrypt-of-password",
		Role:               RoleCustomer,
		Active:             true,
		RefreshBindingHash: &binding,
	}

	raw, err := json.Marshal(identity)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "bcrypt-of-password")
	require.NotContains(t, string(raw), "bcrypt-of-refresh-token")
	require.NotContains(t, string(raw), "secretHash")
	require.NotContains(t, string(raw), "refreshBindingHash")

	profile, err := json.Marshal(identity.Profile())
	require.NoError(t, err)
	require.NotContains(t, string(profile), "bcrypt")
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("manager")
	require.True(t, ok)
	require.Equal(t, RoleManager, role)

	role, ok = ParseRole("BAR_STAFF")
	require.True(t, ok)
	require.Equal(t, RoleBarStaff, role)

	_, ok = ParseRole("superuser")
	require.False(t, ok)
	_, ok = ParseRole("")
	require.False(t, ok)
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "a@x.com", NormalizeEmail("  A@X.COM "))
	require.Equal(t, "a@x.com", NormalizeEmail("a@x.com"))
}
