package gate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/zengest/platform/internal/api/dto"
	"github.com/zengest/platform/internal/domain"
	apperrors "github.com/zengest/platform/pkg/util"
)

// fakeVerifier stands in for the cross-process verify call.
type fakeVerifier struct {
	claims *dto.VerifyResponse
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*dto.VerifyResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func newTestApp(verifier AccessVerifier) *fiber.App {
	app := fiber.New()
	// Minimal error conversion so status codes match production behavior.
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		}
		return nil
	})

	handler := func(c *fiber.Ctx) error {
		if claims, ok := ClaimsFromContext(c); ok {
			return c.JSON(fiber.Map{"subject": claims.Subject, "role": claims.Role})
		}
		return c.JSON(fiber.Map{"subject": ""})
	}

	New(verifier).Apply(app, []Route{
		{Method: fiber.MethodGet, Path: "/public", Public: true, Handler: handler},
		{Method: fiber.MethodGet, Path: "/any", Handler: handler},
		{Method: fiber.MethodGet, Path: "/staff", Roles: []domain.Role{
			domain.RoleManager, domain.RoleOwner, domain.RoleAdministrator,
		}, Handler: handler},
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func customerClaims() *dto.VerifyResponse {
	return &dto.VerifyResponse{Subject: "id-123", Email: "a@x.com", Role: domain.RoleCustomer}
}

func TestPublicRouteSkipsVerification(t *testing.T) {
	verifier := &fakeVerifier{err: apperrors.NewTokenInvalid()}
	app := newTestApp(verifier)

	resp, _ := doRequest(t, app, "/public", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Zero(t, verifier.calls)
}

func TestMissingBearerFailsClosed(t *testing.T) {
	verifier := &fakeVerifier{claims: customerClaims()}
	app := newTestApp(verifier)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer "} {
		resp, body := doRequest(t, app, "/any", header)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Contains(t, body, apperrors.CodeUnauthenticated)
	}
	require.Zero(t, verifier.calls)
}

func TestVerifierRejectionFailsClosed(t *testing.T) {
	app := newTestApp(&fakeVerifier{err: apperrors.NewTokenInvalid()})

	resp, body := doRequest(t, app, "/any", "Bearer some-token")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, body, apperrors.CodeUnauthenticated)
}

func TestVerifierTimeoutFailsClosed(t *testing.T) {
	// A timeout is treated exactly like an explicit rejection.
	app := newTestApp(&fakeVerifier{err: apperrors.NewTimeout("auth.verify")})

	resp, body := doRequest(t, app, "/any", "Bearer some-token")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, body, apperrors.CodeUnauthenticated)
}

func TestEmptyWhitelistAdmitsAnyAuthenticated(t *testing.T) {
	app := newTestApp(&fakeVerifier{claims: customerClaims()})

	resp, body := doRequest(t, app, "/any", "Bearer some-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "id-123")
}

func TestRoleWhitelistIsLiteral(t *testing.T) {
	// Membership is literal, not hierarchical: a customer stays out of a
	// staff route regardless of any informal seniority ordering.
	app := newTestApp(&fakeVerifier{claims: customerClaims()})

	resp, body := doRequest(t, app, "/staff", "Bearer some-token")
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Contains(t, body, apperrors.CodeForbidden)
}

func TestWhitelistedRolePasses(t *testing.T) {
	app := newTestApp(&fakeVerifier{claims: &dto.VerifyResponse{
		Subject: "id-456", Email: "m@x.com", Role: domain.RoleManager,
	}})

	resp, body := doRequest(t, app, "/staff", "Bearer some-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "id-456")
	require.Contains(t, body, string(domain.RoleManager))
}

func TestClaimsAttachedForHandlers(t *testing.T) {
	app := newTestApp(&fakeVerifier{claims: customerClaims()})

	resp, body := doRequest(t, app, "/any", "Bearer some-token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "id-123")
	require.Contains(t, body, string(domain.RoleCustomer))
}
