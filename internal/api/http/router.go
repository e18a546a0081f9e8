package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/zengest/platform/internal/api/http/handlers"
	"github.com/zengest/platform/internal/domain"
	"github.com/zengest/platform/internal/gate"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Identities *handlers.IdentitiesHandler
	Orders     *handlers.OrdersHandler
	Gate       *gate.Gate
}

// Routes returns the declarative route table the gate consults. Whitelists
// are literal: listing identities is for administrators and owners only,
// and a customer stays out of staff routes no matter how the seniority
// ordering reads.
func Routes(cfg RouteConfig) []gate.Route {
	return []gate.Route{
		{Method: fiber.MethodGet, Path: "/health/live", Public: true, Handler: cfg.Health.Live},
		{Method: fiber.MethodGet, Path: "/health/ready", Public: true, Handler: cfg.Health.Ready},

		{Method: fiber.MethodPost, Path: "/auth/register", Public: true, Handler: cfg.Auth.Register},
		{Method: fiber.MethodPost, Path: "/auth/login", Public: true, Handler: cfg.Auth.Login},
		{Method: fiber.MethodPost, Path: "/auth/refresh", Public: true, Handler: cfg.Auth.Refresh},
		{Method: fiber.MethodPost, Path: "/auth/logout", Handler: cfg.Auth.Logout},

		{Method: fiber.MethodGet, Path: "/identities",
			Roles:   []domain.Role{domain.RoleAdministrator, domain.RoleOwner},
			Handler: cfg.Identities.List},
		{Method: fiber.MethodPatch, Path: "/identities/:id/active",
			Roles:   []domain.Role{domain.RoleAdministrator, domain.RoleOwner},
			Handler: cfg.Identities.SetActive},

		{Method: fiber.MethodPost, Path: "/orders", Handler: cfg.Orders.Create},
		{Method: fiber.MethodGet, Path: "/orders",
			Roles:   []domain.Role{domain.RoleAdministrator, domain.RoleOwner, domain.RoleManager},
			Handler: cfg.Orders.FindAll},
		{Method: fiber.MethodGet, Path: "/orders/customer/:customerId", Handler: cfg.Orders.FindByCustomer},
		{Method: fiber.MethodGet, Path: "/orders/:orderNumber", Handler: cfg.Orders.FindByOrderNumber},
		{Method: fiber.MethodPatch, Path: "/orders/:orderNumber/status",
			Roles: []domain.Role{
				domain.RoleManager, domain.RoleKitchen, domain.RoleBarStaff, domain.RoleFloorStaff,
			},
			Handler: cfg.Orders.UpdateStatus},
	}
}

// RegisterRoutes wires the route table through the gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	cfg.Gate.Apply(app, Routes(cfg))
}
