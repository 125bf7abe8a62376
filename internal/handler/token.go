package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GermanDelima/verdeScan/internal/middleware"
	"github.com/GermanDelima/verdeScan/internal/model"
)

type GenerateTokenRequest struct {
	MaterialType model.MaterialType `json:"material_type"`
	Quantity     *int64             `json:"quantity"`
}

type ValidateTokenRequest struct {
	TokenCode string `json:"token_code"`
}

// GenerateToken issues a pending token for part of the user's virtual bin
func (h *Handler) GenerateToken(c *fiber.Ctx) error {
	var req GenerateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}

	quantity := int64(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	token, err := h.tokenSvc.Issue(c.Context(), middleware.GetUserID(c), req.MaterialType, quantity)
	if err != nil {
		return fail(c, err, "Error al crear el token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
	})
}

// ValidateToken redeems a token on behalf of the logged in staff member
func (h *Handler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}

	redemption, err := h.tokenSvc.Redeem(c.Context(), req.TokenCode, middleware.GetStaffID(c))
	if err != nil {
		return fail(c, err, "Error interno del servidor")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Token validado y puntos acreditados exitosamente",
		"validation": redemption,
	})
}

// CancelToken withdraws one of the user's pending tokens
func (h *Handler) CancelToken(c *fiber.Ctx) error {
	if err := h.tokenSvc.Cancel(c.Context(), middleware.GetUserID(c), c.Params("code")); err != nil {
		return fail(c, err, "Error al cancelar el token")
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// ListTokens returns the user's recent tokens
func (h *Handler) ListTokens(c *fiber.Ctx) error {
	tokens, err := h.tokenSvc.ListForUser(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err, "Error al buscar el token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tokens":  tokens,
	})
}

// TokenStats aggregates the validations of the logged in staff member
func (h *Handler) TokenStats(c *fiber.Ctx) error {
	staffID := middleware.GetStaffID(c)
	if _, err := h.staffSvc.Authorize(c.Context(), staffID); err != nil {
		return fail(c, err, "Error al obtener estadísticas")
	}

	stats, err := h.tokenSvc.StaffStats(c.Context(), staffID)
	if err != nil {
		return fail(c, err, "Error al obtener estadísticas")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// DepleteBins retries the virtual bin step of past redemptions
func (h *Handler) DepleteBins(c *fiber.Ctx) error {
	n, err := h.tokenSvc.DepletePendingBins(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"depleted": n,
	})
}

