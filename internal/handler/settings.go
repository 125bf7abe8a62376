package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/GermanDelima/verdeScan/internal/middleware"
	"github.com/GermanDelima/verdeScan/internal/service"
)

// Tunable settings an admin may change at runtime
var editableSettings = map[string]bool{
	service.SettingWeightThresholdGrams: true,
	service.SettingWeightBonusPerKg:     true,
	service.SettingSubeEnvasesPoints:    true,
	service.SettingSubeEnvasesTickets:   true,
	service.SettingSubeAVUPoints:        true,
	service.SettingSubeAVUTickets:       true,
}

type SetSettingRequest struct {
	Key   string `json:"key"`
	Value int64  `json:"value"`
}

func (h *Handler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.repo.GetAllSettings(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo obtener la configuración",
		})
	}
	return c.JSON(fiber.Map{
		"settings":   settings,
		"sube_rates": h.exchangeSvc.Rates(c.Context()),
	})
}

func (h *Handler) SetSetting(c *fiber.Ctx) error {
	var req SetSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}
	if !editableSettings[req.Key] {
		return badRequest(c, "Configuración desconocida")
	}
	if req.Value <= 0 {
		return badRequest(c, "El valor debe ser positivo")
	}

	if err := h.repo.SetSetting(c.Context(), req.Key, strconv.FormatInt(req.Value, 10)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "No se pudo guardar la configuración",
		})
	}

	zap.L().Info("setting updated",
		zap.String("key", req.Key),
		zap.Int64("value", req.Value),
		zap.String("admin_id", middleware.GetAdminID(c).String()),
	)
	return c.JSON(fiber.Map{
		"success": true,
		"key":     req.Key,
		"value":   req.Value,
	})
}
