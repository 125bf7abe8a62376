package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/GermanDelima/verdeScan/internal/middleware"
	"github.com/GermanDelima/verdeScan/internal/model"
)

type BuyTicketsRequest struct {
	Count int `json:"count"`
}

type SubeExchangeRequest struct {
	Type      model.SubeExchangeType `json:"type"`
	SubeAlias string                 `json:"sube_alias"`
}

func (h *Handler) ListRaffles(c *fiber.Ctx) error {
	raffles, err := h.raffleSvc.ListActive(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err, "No se pudieron cargar los sorteos")
	}
	return c.JSON(fiber.Map{
		"raffles": raffles,
	})
}

// BuyRaffleTickets spends points on tickets for one raffle
func (h *Handler) BuyRaffleTickets(c *fiber.Ctx) error {
	raffleID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "ID de sorteo inválido")
	}

	req := BuyTicketsRequest{Count: 1}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Formato de solicitud inválido")
		}
	}

	purchase, err := h.raffleSvc.BuyTickets(c.Context(), middleware.GetUserID(c), raffleID, req.Count)
	if err != nil {
		return fail(c, err, "No se pudo comprar el boleto")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"purchase": purchase,
	})
}

// GetSubeRates returns the points needed for each SUBE exchange
func (h *Handler) GetSubeRates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"rates": h.exchangeSvc.Rates(c.Context()),
	})
}

// ExchangeSube spends points on SUBE transit credit
func (h *Handler) ExchangeSube(c *fiber.Ctx) error {
	var req SubeExchangeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}

	result, err := h.exchangeSvc.ExchangeSube(c.Context(), middleware.GetUserID(c), req.Type, req.SubeAlias)
	if err != nil {
		return fail(c, err, "No se pudo realizar el canje")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"exchange":   result.Exchange,
		"new_points": result.NewPoints,
	})
}
