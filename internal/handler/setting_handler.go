package handler

import (
	"encoding/json"

	"go-erp-docs/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingHandler struct {
	service service.SettingService
}

func NewSettingHandler(s service.SettingService) *SettingHandler {
	return &SettingHandler{service: s}
}

type SettingRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// GET /api/v1/settings
func (h *SettingHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetAll()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

// POST /api/v1/settings
func (h *SettingHandler) UpsertSetting(c *fiber.Ctx) error {
	var req SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Upsert(req.Key, req.Value); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Setting saved"})
}
