package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/zengest/platform/internal/api/dto"
	"github.com/zengest/platform/internal/bus"
	apperrors "github.com/zengest/platform/pkg/util"
)

// IdentitiesHandler exposes administrative identity operations.
type IdentitiesHandler struct {
	client *bus.Client
}

// NewIdentitiesHandler constructs the handler.
func NewIdentitiesHandler(client *bus.Client) *IdentitiesHandler {
	return &IdentitiesHandler{client: client}
}

// List handles GET /identities?role=&active=.
func (h *IdentitiesHandler) List(c *fiber.Ctx) error {
	var req dto.ListIdentitiesRequest
	if role := c.Query("role"); role != "" {
		req.Role = &role
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			return apperrors.NewValidationError("active must be a boolean", nil)
		}
		req.Active = &active
	}

	var result dto.ListIdentitiesResponse
	if err := h.client.RequestInto(c.UserContext(), bus.SubjectIdentitiesList, req, &result); err != nil {
		return err
	}
	return c.JSON(result)
}

// SetActive handles PATCH /identities/:id/active.
func (h *IdentitiesHandler) SetActive(c *fiber.Ctx) error {
	var body struct {
		Active *bool `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil || body.Active == nil {
		return apperrors.NewValidationError("active required", nil)
	}

	req := dto.SetIdentityActiveRequest{IdentityID: c.Params("id"), Active: *body.Active}
	var ack dto.AckResponse
	if err := h.client.RequestInto(c.UserContext(), bus.SubjectIdentityActive, req, &ack); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": ack.Message})
}
