package routes

import (
	"github.com/Sylgau-exe/gapanalysis/internal/auth"
	"github.com/Sylgau-exe/gapanalysis/internal/config"
	"github.com/Sylgau-exe/gapanalysis/internal/handlers"
	"github.com/Sylgau-exe/gapanalysis/internal/metrics"
	"github.com/Sylgau-exe/gapanalysis/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Assessment *handlers.AssessmentHandler
	Admin      *handlers.AdminHandler
	Health     *handlers.HealthHandler
}

// Setup mounts every route. limiterStorage may be nil for in-memory
// counters.
func Setup(app *fiber.App, cfg *config.Config, guard *auth.Guard, h Handlers, m *metrics.Metrics, limiterStorage fiber.Storage) {
	app.Get("/metrics", m.Handler())

	api := app.Group("/api", middleware.RateLimit("api", cfg.APIRateLimit, limiterStorage))

	api.Get("/health", h.Health.Check)

	// Auth: public endpoints carry a stricter per-IP limit
	authLimit := middleware.RateLimit("auth", cfg.AuthRateLimit, limiterStorage)
	api.Post("/auth/register", authLimit, h.Auth.Register)
	api.Post("/auth/login", authLimit, h.Auth.Login)

	// Protected routes take the guard per route so a wrong method still
	// resolves to 405 before authentication.
	requireAuth := middleware.RequireAuth(guard)
	api.Get("/auth/me", requireAuth, h.Auth.Me)
	api.Post("/assessment/save", requireAuth, h.Assessment.Save)
	api.Get("/assessment/history", requireAuth, h.Assessment.History)
	api.Post("/assessment/track-lead", requireAuth, h.Assessment.TrackLead)

	// Admin (JWT + admin flag)
	api.Get("/admin/stats", middleware.RequireAdmin(guard), h.Admin.Stats)
}
