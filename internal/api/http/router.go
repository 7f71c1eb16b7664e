package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Search         *handlers.SearchHandler
	Stats          *handlers.StatsHandler
	Reference      *handlers.ReferenceHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/challenge/:id/begin", cfg.Auth.BeginChallenge)
	authGroup.Post("/challenge/:id/verify", cfg.Auth.VerifyChallenge)
	authGroup.Delete("/challenge/:id", cfg.Auth.CancelChallenge)
	authGroup.Post("/logout", cfg.Auth.Logout)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Auth.Me)

	tickets := protected.Group("/tickets")
	tickets.Post("", auth.RequireRole(domain.RoleEndUser), cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Get("/:id/sla", cfg.Tickets.SLA)
	tickets.Patch("/:id/status", auth.RequireRole(domain.RoleSupport, domain.RoleVendor), cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/reassign", auth.RequireRole(domain.RoleSupport), cfg.Tickets.Reassign)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Put("/:id/resolution-notes", auth.RequireRole(domain.RoleSupport, domain.RoleVendor), cfg.Tickets.UpdateResolutionNotes)

	search := protected.Group("/search")
	search.Get("/tickets", cfg.Search.Tickets)
	search.Get("/kb", cfg.Search.KB)

	stats := protected.Group("/stats")
	stats.Get("", cfg.Stats.Overview)
	stats.Get("/team", auth.RequireRole(domain.RoleSupport), cfg.Stats.Team)

	reference := protected.Group("/reference")
	reference.Get("/categories", cfg.Reference.Categories)
	reference.Get("/assignment-groups", cfg.Reference.AssignmentGroups)
}
