package middleware

import (
	"github.com/Sylgau-exe/gapanalysis/internal/config"
	"github.com/gofiber/fiber/v2"
)

const (
	corsMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsHeaders = "Origin, Content-Type, Authorization, Accept, X-Requested-With"
)

// CORS sets the cross-origin headers on every response and answers
// preflight requests with an empty 200.
func CORS(cfg *config.Config) fiber.Handler {
	origin := cfg.CORSOrigins
	if origin == "" {
		origin = "*"
	}

	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		c.Set(fiber.HeaderAccessControlAllowMethods, corsMethods)
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsHeaders)

		if c.Method() == fiber.MethodOptions {
			c.Status(fiber.StatusOK)
			return nil
		}
		return c.Next()
	}
}

// SecurityHeaders adds the standard hardening headers.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	}
}
