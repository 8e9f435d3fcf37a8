package middleware

import (
	"log/slog"

	"github.com/Sylgau-exe/gapanalysis/internal/auth"
	"github.com/Sylgau-exe/gapanalysis/internal/dto"
	"github.com/gofiber/fiber/v2"
)

const claimsKey = "claims"

// RequireAuth rejects requests without a valid bearer token and stores the
// verified claims for handlers.
func RequireAuth(guard *auth.Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return admit(c, guard.RequireAuth(c.Get(fiber.HeaderAuthorization)))
	}
}

// RequireAdmin is RequireAuth plus a lookup of the user's admin flag.
func RequireAdmin(guard *auth.Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return admit(c, guard.RequireAdmin(c.UserContext(), c.Get(fiber.HeaderAuthorization)))
	}
}

func admit(c *fiber.Ctx, res auth.Result) error {
	if res.OK() {
		c.Locals(claimsKey, res.Claims)
		return c.Next()
	}

	if res.Failure == auth.FailureLookupFailed {
		slog.Error("admin lookup failed",
			"request_id", requestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", res.Err,
		)
	}
	return c.Status(res.Failure.Status()).JSON(dto.ErrorResponse{Error: res.Failure.Message()})
}

// ClaimsFrom returns the claims stored by RequireAuth or RequireAdmin.
func ClaimsFrom(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
