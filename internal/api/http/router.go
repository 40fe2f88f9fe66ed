package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/donor-connect/internal/api/http/handlers"
	"github.com/spec-kit/donor-connect/internal/auth"
	"github.com/spec-kit/donor-connect/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Donors         *handlers.DonorsHandler
	Admin          *handlers.AdminHandler
	Requests       *handlers.RequestsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/users", cfg.Users.Register)
	app.Post("/sessions", cfg.Users.Login)

	authed := app.Group("", cfg.AuthMiddleware.Handle)

	authed.Get("/donors", auth.RequireRole(domain.RoleRecipient, domain.RoleAdmin), cfg.Donors.Search)
	authed.Patch("/users/:id/availability", auth.RequireRole(domain.RoleDonor), cfg.Donors.UpdateAvailability)

	authed.Get("/users", auth.RequireRole(domain.RoleAdmin), cfg.Admin.ListUsers)
	authed.Patch("/users/:id/verify", auth.RequireRole(domain.RoleAdmin), cfg.Admin.VerifyDonor)
	authed.Get("/admin/stats", auth.RequireRole(domain.RoleAdmin), cfg.Admin.Stats)

	authed.Post("/requests", auth.RequireRole(domain.RoleRecipient), cfg.Requests.Create)
	authed.Get("/requests", auth.RequireAnyRole(), cfg.Requests.List)
	authed.Patch("/requests/:id/status", auth.RequireRole(domain.RoleDonor, domain.RoleRecipient), cfg.Requests.UpdateStatus)
	authed.Get("/donations", auth.RequireAnyRole(), cfg.Requests.ListDonations)
}
