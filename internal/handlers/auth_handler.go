package handlers

import (
	"errors"

	"github.com/Sylgau-exe/gapanalysis/internal/dto"
	"github.com/Sylgau-exe/gapanalysis/internal/metrics"
	"github.com/Sylgau-exe/gapanalysis/internal/middleware"
	"github.com/Sylgau-exe/gapanalysis/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService *services.AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: m}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			return fail(c, fiber.StatusBadRequest, "Email and password required")
		case errors.Is(err, services.ErrPasswordTooShort):
			return fail(c, fiber.StatusBadRequest, "Password must be at least 8 characters")
		case errors.Is(err, services.ErrInvalidEmail):
			return fail(c, fiber.StatusBadRequest, "Invalid email format")
		case errors.Is(err, services.ErrEmailTaken):
			return fail(c, fiber.StatusConflict, "Email already registered")
		}
		return internalError(c, "Registration failed. Please try again.", err)
	}

	h.metrics.Registered()
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingCredentials):
			h.metrics.Login("invalid_request")
			return fail(c, fiber.StatusBadRequest, "Email and password required")
		case errors.Is(err, services.ErrInvalidCredentials):
			h.metrics.Login("invalid_credentials")
			return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		h.metrics.Login("error")
		return internalError(c, "Login failed. Please try again.", err)
	}

	h.metrics.Login("success")
	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	resp, err := h.authService.Me(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return fail(c, fiber.StatusNotFound, "User not found")
		}
		return internalError(c, "Failed to fetch user data", err)
	}
	return c.JSON(resp)
}
