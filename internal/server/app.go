// Package server assembles the Fiber application from its dependencies.
package server

import (
	"errors"
	"log/slog"

	"github.com/Sylgau-exe/gapanalysis/internal/auth"
	"github.com/Sylgau-exe/gapanalysis/internal/config"
	"github.com/Sylgau-exe/gapanalysis/internal/dto"
	"github.com/Sylgau-exe/gapanalysis/internal/handlers"
	"github.com/Sylgau-exe/gapanalysis/internal/metrics"
	"github.com/Sylgau-exe/gapanalysis/internal/middleware"
	"github.com/Sylgau-exe/gapanalysis/internal/routes"
	"github.com/Sylgau-exe/gapanalysis/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Options carries the optional collaborators of New.
type Options struct {
	// Metrics defaults to a fresh registry.
	Metrics *metrics.Metrics
	// LimiterStorage shares rate-limit counters; nil keeps them in memory.
	LimiterStorage fiber.Storage
	// Mailer overrides the Resend client built from the config.
	Mailer services.WelcomeMailer
	// Sentry enables the Sentry middleware. sentry.Init must already have run.
	Sentry bool
	// AccessLog enables the per-request access log line.
	AccessLog bool
}

// New wires services, handlers and middleware into a ready-to-listen app.
func New(cfg *config.Config, db *gorm.DB, opts Options) *fiber.App {
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	mailer := opts.Mailer
	if mailer == nil && cfg.EmailEnabled() {
		mailer = services.NewEmailService(cfg)
	}

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(db, issuer, cfg.BcryptCost, mailer)
	guard := auth.NewGuard(issuer, authService)

	h := routes.Handlers{
		Auth: handlers.NewAuthHandler(authService, m),
		Assessment: handlers.NewAssessmentHandler(
			services.NewAssessmentService(db),
			services.NewLeadService(db),
			m,
		),
		Admin:  handlers.NewAdminHandler(services.NewStatsService(db)),
		Health: handlers.NewHealthHandler(db),
	}

	app := fiber.New(fiber.Config{
		AppName:      "gapanalysis",
		BodyLimit:    1 * 1024 * 1024,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})

	if opts.Sentry {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	}
	app.Use(m.Middleware())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, guard, h, m, opts.LimiterStorage)
	return app
}

var statusMessages = map[int]string{
	fiber.StatusNotFound:              "Not found",
	fiber.StatusMethodNotAllowed:      "Method not allowed",
	fiber.StatusRequestEntityTooLarge: "Request body too large",
	fiber.StatusTooManyRequests:       "Too many requests",
}

// errorHandler renders errors that escape handlers in the API's error shape.
// Server error details are logged, never returned.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
		if m, ok := statusMessages[code]; ok {
			message = m
		}
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}
