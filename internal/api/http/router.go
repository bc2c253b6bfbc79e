package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aryaminakshi71/helpdesk/internal/api/http/handlers"
	"github.com/aryaminakshi71/helpdesk/internal/auth"
	"github.com/aryaminakshi71/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireMember())
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireMember())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/assign", cfg.Tickets.AssignTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Get("/:id/comments", cfg.Tickets.ListComments)
	tickets.Post("/:id/attachments", cfg.Tickets.AddAttachment)
	tickets.Delete("/:id", auth.RequireRole(domain.RoleOwner, domain.RoleAdmin), cfg.Tickets.DeleteTicket)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle, auth.RequireMember())
	dashboard.Get("/metrics", cfg.Dashboard.Metrics)
}
