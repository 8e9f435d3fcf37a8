package handlers

import (
	"log/slog"

	"github.com/Sylgau-exe/gapanalysis/internal/dto"
	"github.com/Sylgau-exe/gapanalysis/internal/middleware"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: message})
}

// internalError logs err with request context, reports it to Sentry when
// enabled and answers with a generic message.
func internalError(c *fiber.Ctx, message string, err error) error {
	attrs := []any{
		"request_id", c.Locals("requestid"),
		"method", c.Method(),
		"path", c.Path(),
		"error", err,
	}
	if claims, ok := middleware.ClaimsFrom(c); ok {
		attrs = append(attrs, "user_id", claims.UserID.String())
	}
	slog.Error(message, attrs...)

	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return fail(c, fiber.StatusInternalServerError, message)
}
