package handlers

import (
	"errors"

	"github.com/Sylgau-exe/gapanalysis/internal/dto"
	"github.com/Sylgau-exe/gapanalysis/internal/metrics"
	"github.com/Sylgau-exe/gapanalysis/internal/middleware"
	"github.com/Sylgau-exe/gapanalysis/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AssessmentHandler struct {
	assessments *services.AssessmentService
	leads       *services.LeadService
	metrics     *metrics.Metrics
}

func NewAssessmentHandler(assessments *services.AssessmentService, leads *services.LeadService, m *metrics.Metrics) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments, leads: leads, metrics: m}
}

func (h *AssessmentHandler) Save(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var req dto.SaveAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.assessments.Save(c.UserContext(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingAssessmentData):
			return fail(c, fiber.StatusBadRequest, "Missing required assessment data")
		case errors.Is(err, services.ErrScoreOutOfRange):
			return fail(c, fiber.StatusBadRequest, "Scores must be between 0 and 5")
		}
		return internalError(c, "Failed to save assessment", err)
	}

	h.metrics.AssessmentSaved(req.Objectives.Goal)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AssessmentHandler) History(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	items, err := h.assessments.History(c.UserContext(), claims.UserID)
	if err != nil {
		return internalError(c, "Failed to fetch assessment history", err)
	}
	return c.JSON(dto.HistoryResponse{Assessments: items})
}

func (h *AssessmentHandler) TrackLead(c *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Authentication required")
	}

	var req dto.TrackLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	lead, err := h.leads.Track(c.UserContext(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingTrackingData):
			return fail(c, fiber.StatusBadRequest, "Missing required tracking data")
		case errors.Is(err, services.ErrInvalidAssessmentID):
			return fail(c, fiber.StatusBadRequest, "Invalid assessment ID")
		}
		return internalError(c, "Failed to track lead", err)
	}

	h.metrics.LeadTracked(lead.PartnerCode)
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{Success: true})
}
