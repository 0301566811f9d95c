package handler

import (
	"github.com/AnthoniusHendriyanto/blog-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/blog-service/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
)

// Limiters holds the per-route limiter instances. Each has its own scope so
// budgets never interfere.
type Limiters struct {
	Global   *ratelimit.Limiter
	Login    *ratelimit.Limiter
	Register *ratelimit.Limiter
}

func RegisterRoutes(app *fiber.App, h *AuthHandler, health *HealthHandler, limiters Limiters) {
	if limiters.Global != nil {
		app.Use(h.RateLimit(limiters.Global))
	}

	app.Post("/api/v1/register", h.RateLimit(limiters.Register), h.Register)
	app.Post("/api/v1/login", h.RateLimit(limiters.Login), h.Login)
	app.Post("/api/v1/refresh", h.Refresh)
	app.Get("/api/v1/me", h.RequireAuth(), h.Me)

	// Admin-only endpoints
	admin := app.Group("/api/v1/admin", h.RequireAuth(), h.RequireRole(domain.RoleAdmin))
	admin.Get("/users", h.GetAllUsers)
	admin.Patch("/users/:id/role", h.UpdateUserRole)
	admin.Patch("/users/:id/active", h.SetUserActive)

	app.Get("/health/db", health.DB)
	app.Get("/health/redis", health.Redis)
	app.Get("/health/full", health.Full)
}
