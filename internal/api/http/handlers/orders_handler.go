package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/zengest/platform/internal/bus"
	apperrors "github.com/zengest/platform/pkg/util"
)

// OrdersHandler proxies order operations to the external order service over
// the bus. The payloads are opaque to the gateway; the order service owns
// their shape.
type OrdersHandler struct {
	client *bus.Client
}

// NewOrdersHandler constructs the handler.
func NewOrdersHandler(client *bus.Client) *OrdersHandler {
	return &OrdersHandler{client: client}
}

// Create handles POST /orders.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	payload, err := bodyAsMap(c)
	if err != nil {
		return err
	}
	return h.forward(c, bus.SubjectOrdersCreate, payload)
}

// FindAll handles GET /orders?limit=&skip=.
func (h *OrdersHandler) FindAll(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	skip, _ := strconv.Atoi(c.Query("skip", "0"))
	return h.forward(c, bus.SubjectOrdersFindAll, fiber.Map{"limit": limit, "skip": skip})
}

// FindByCustomer handles GET /orders/customer/:customerId.
func (h *OrdersHandler) FindByCustomer(c *fiber.Ctx) error {
	return h.forward(c, bus.SubjectOrdersFindCustomer, fiber.Map{"customerId": c.Params("customerId")})
}

// FindByOrderNumber handles GET /orders/:orderNumber.
func (h *OrdersHandler) FindByOrderNumber(c *fiber.Ctx) error {
	return h.forward(c, bus.SubjectOrdersFindNumber, fiber.Map{"orderNumber": c.Params("orderNumber")})
}

// UpdateStatus handles PATCH /orders/:orderNumber/status.
func (h *OrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	payload, err := bodyAsMap(c)
	if err != nil {
		return err
	}
	payload["orderNumber"] = c.Params("orderNumber")
	return h.forward(c, bus.SubjectOrdersUpdateStatus, payload)
}

func (h *OrdersHandler) forward(c *fiber.Ctx, subject string, payload any) error {
	data, err := h.client.Request(c.UserContext(), subject, payload)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

func bodyAsMap(c *fiber.Ctx) (map[string]any, error) {
	payload := map[string]any{}
	if len(c.Body()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	return payload, nil
}
