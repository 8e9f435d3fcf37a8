package handlers

import (
	"github.com/Sylgau-exe/gapanalysis/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	stats *services.StatsService
}

func NewAdminHandler(stats *services.StatsService) *AdminHandler {
	return &AdminHandler{stats: stats}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	resp, err := h.stats.Stats(c.UserContext())
	if err != nil {
		return internalError(c, "Failed to fetch stats", err)
	}
	return c.JSON(resp)
}
