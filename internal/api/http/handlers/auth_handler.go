package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/zengest/platform/internal/api/dto"
	"github.com/zengest/platform/internal/bus"
	"github.com/zengest/platform/internal/config"
	"github.com/zengest/platform/internal/gate"
	apperrors "github.com/zengest/platform/pkg/util"
)

// AuthHandler fronts the identity authority. The gateway itself holds no
// credentials: every operation is forwarded over the bus, and the only
// state it touches is the refresh cookie.
type AuthHandler struct {
	client     *bus.Client
	cookie     config.CookieConfig
	refreshTTL int // seconds
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(client *bus.Client, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		client:     client,
		cookie:     cfg.Cookie,
		refreshTTL: int(cfg.Auth.RefreshTTL().Seconds()),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("firstName, lastName, email, password required", nil)
	}

	var result dto.AuthResponse
	if err := h.client.RequestInto(c.UserContext(), bus.SubjectRegister, req, &result); err != nil {
		return err
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"accessToken": result.Tokens.AccessToken,
		"user":        result.User,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	var result dto.AuthResponse
	if err := h.client.RequestInto(c.UserContext(), bus.SubjectLogin, req, &result); err != nil {
		return err
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	return c.JSON(fiber.Map{
		"accessToken": result.Tokens.AccessToken,
		"user":        result.User,
	})
}

// Refresh handles POST /auth/refresh. The refresh token comes from the
// HTTP-only cookie, never from the body.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(h.cookie.Name)
	if refreshToken == "" {
		return apperrors.NewUnauthenticated("missing refresh token")
	}

	var result dto.TokensResponse
	if err := h.client.RequestInto(c.UserContext(), bus.SubjectRefresh, dto.RefreshRequest{RefreshToken: refreshToken}, &result); err != nil {
		return err
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	return c.JSON(fiber.Map{"accessToken": result.Tokens.AccessToken})
}

// Logout handles POST /auth/logout. Requires prior authentication; the
// identity id comes from the verified claims, not from the caller.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := gate.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	var ack dto.AckResponse
	if err := h.client.RequestInto(c.UserContext(), bus.SubjectLogout, dto.LogoutRequest{IdentityID: claims.Subject}, &ack); err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return c.JSON(fiber.Map{"message": ack.Message})
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		MaxAge:   h.refreshTTL,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}
