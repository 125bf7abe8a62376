package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/GermanDelima/verdeScan/internal/middleware"
)

type UpdateNeighborhoodRequest struct {
	Neighborhood string `json:"neighborhood"`
}

// GetMe returns the profile and point balances of the current user
func (h *Handler) GetMe(c *fiber.Ctx) error {
	user, err := h.userSvc.GetUser(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err, "No se pudo obtener información del usuario")
	}

	bin, err := h.binSvc.Read(c.Context(), user.ID)
	if err != nil {
		return fail(c, err, "Error al cargar el tacho virtual")
	}

	return c.JSON(fiber.Map{
		"user":        user,
		"virtual_bin": bin,
	})
}

func (h *Handler) UpdateNeighborhood(c *fiber.Ctx) error {
	var req UpdateNeighborhoodRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}

	user, err := h.userSvc.SetNeighborhood(c.Context(), middleware.GetUserID(c), req.Neighborhood)
	if err != nil {
		return fail(c, err, "No se pudo actualizar el barrio")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// GetPointTransactions returns the point history of the current user
func (h *Handler) GetPointTransactions(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	transactions, err := h.pointSvc.History(c.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		return fail(c, err, "No se pudo obtener el historial de puntos")
	}

	return c.JSON(fiber.Map{
		"transactions": transactions,
	})
}

// GetLeaderboard ranks barrios by lifetime recycled points
func (h *Handler) GetLeaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	rankings, err := h.userSvc.Leaderboard(c.Context(), limit)
	if err != nil {
		return fail(c, err, "No se pudo obtener el ranking")
	}

	return c.JSON(fiber.Map{
		"rankings": rankings,
	})
}
