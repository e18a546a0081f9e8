package gate

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/zengest/platform/internal/api/dto"
	"github.com/zengest/platform/internal/domain"
	apperrors "github.com/zengest/platform/pkg/util"
)

const claimsKey = "auth_claims"

// AccessVerifier validates an access token across the process boundary.
// The bus-backed implementation lives in verifier.go; tests substitute an
// in-process fake. A timeout is indistinguishable from a rejection.
type AccessVerifier interface {
	Verify(ctx context.Context, accessToken string) (*dto.VerifyResponse, error)
}

// Route is one entry of the declarative route table the gate consults:
// public routes skip authentication entirely, and Roles is a literal
// whitelist — no role implies another, whatever the seniority ordering
// suggests. An empty whitelist admits any authenticated identity.
type Route struct {
	Method  string
	Path    string
	Public  bool
	Roles   []domain.Role
	Handler fiber.Handler
}

// Gate runs the two-stage check (authenticate, then authorize) in front of
// every protected route.
type Gate struct {
	verifier AccessVerifier
}

// New constructs a gate.
func New(verifier AccessVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Apply registers the route table on the app, inserting the gate in front
// of every non-public handler.
func (g *Gate) Apply(app *fiber.App, routes []Route) {
	for _, route := range routes {
		if route.Public {
			app.Add(route.Method, route.Path, route.Handler)
			continue
		}
		app.Add(route.Method, route.Path, g.middleware(route.Roles), route.Handler)
	}
}

func (g *Gate) middleware(allowed []domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		// Stage 1: authentication. Absence of proof is denial; so is any
		// failure of the cross-process verify, timeouts included.
		token, ok := bearerToken(c)
		if !ok {
			return apperrors.NewUnauthenticated("missing or malformed authorization header")
		}

		claims, err := g.verifier.Verify(c.UserContext(), token)
		if err != nil || claims == nil {
			return apperrors.NewUnauthenticated("token invalid or expired")
		}

		// Stage 2: authorization. Literal membership in the whitelist;
		// an empty whitelist admits any authenticated identity.
		if len(allowedSet) > 0 {
			if _, exists := allowedSet[claims.Role]; !exists {
				return apperrors.NewForbidden("insufficient role")
			}
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// ClaimsFromContext retrieves the claims the gate attached for downstream
// handlers.
func ClaimsFromContext(c *fiber.Ctx) (*dto.VerifyResponse, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*dto.VerifyResponse)
	return claims, ok
}
