package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaxonomyStatuses(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewDuplicateIdentity(), CodeDuplicateIdentity, http.StatusConflict},
		{NewInvalidCredentials(), CodeInvalidCredentials, http.StatusUnauthorized},
		{NewAccountDisabled(), CodeAccountDisabled, http.StatusUnauthorized},
		{NewRefreshInvalid(), CodeRefreshInvalid, http.StatusUnauthorized},
		{NewTokenInvalid(), CodeTokenInvalid, http.StatusUnauthorized},
		{NewUnauthenticated("missing token"), CodeUnauthenticated, http.StatusUnauthorized},
		{NewForbidden("insufficient role"), CodeForbidden, http.StatusForbidden},
		{NewTimeout("auth.verify"), CodeTimeout, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		domainErr := ToDomainError(tc.err)
		require.Equal(t, tc.code, domainErr.Code)
		require.Equal(t, tc.status, domainErr.HTTPStatus)
		require.True(t, IsCode(tc.err, tc.code))
	}
}

func TestInvalidCredentialsNeverDistinguishes(t *testing.T) {
	unknownEmail := NewInvalidCredentials()
	wrongSecret := NewInvalidCredentials()
	require.Equal(t, unknownEmail.Error(), wrongSecret.Error())
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("connection reset")
	domainErr := ToDomainError(fmt.Errorf("query identities: %w", cause))
	require.Equal(t, CodeInternal, domainErr.Code)
	require.Equal(t, http.StatusInternalServerError, domainErr.HTTPStatus)
	// The caller-visible message never carries the underlying cause.
	require.Equal(t, "internal server error", domainErr.Message)
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewForbidden("insufficient role")
	require.Same(t, ToDomainError(original), ToDomainError(original))
	require.Equal(t, CodeForbidden, ToDomainError(original).Code)
}
