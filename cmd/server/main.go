package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/Sylgau-exe/gapanalysis/internal/cache"
	"github.com/Sylgau-exe/gapanalysis/internal/config"
	"github.com/Sylgau-exe/gapanalysis/internal/database"
	"github.com/Sylgau-exe/gapanalysis/internal/logging"
	"github.com/Sylgau-exe/gapanalysis/internal/metrics"
	"github.com/Sylgau-exe/gapanalysis/internal/server"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	cfg := config.Load()

	// Structured logging (JSON to stdout, optional rotated file)
	rootHandler, logFile := logging.Setup(cfg.LogFile)
	defer logFile.Close()

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db, 5*time.Second)
	logging.Attach(rootHandler, pgLogHandler)

	// Log cleanup
	cleanup := logging.StartCleanup(db, cfg.LogRetentionDays)

	// Sentry error tracking
	sentryEnabled := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			sentryEnabled = true
		}
	}

	// Shared rate-limit storage
	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		storage, err := cache.NewRedisStorage(context.Background(), cfg.RedisURL, "gapanalysis:limiter:")
		if err != nil {
			slog.Warn("redis unavailable, using in-memory rate limits", "error", err)
		} else {
			limiterStorage = storage
			defer storage.Close()
		}
	}

	if !cfg.EmailEnabled() {
		slog.Warn("RESEND_API_KEY not set, welcome emails disabled")
	}

	app := server.New(cfg, db, server.Options{
		Metrics:        metrics.New(),
		LimiterStorage: limiterStorage,
		Sentry:         sentryEnabled,
		AccessLog:      true,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	<-cleanup.Stop().Done()
	pgLogHandler.Stop()
	if sentryEnabled {
		sentry.Flush(2 * time.Second)
	}

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
