package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GermanDelima/verdeScan/internal/middleware"
	"github.com/GermanDelima/verdeScan/internal/model"
)

type AddToBinRequest struct {
	MaterialType model.MaterialType `json:"material_type"`
	Quantity     *int64             `json:"quantity"`
}

// GetVirtualBin returns the un-redeemed material of the user
func (h *Handler) GetVirtualBin(c *fiber.Ctx) error {
	return h.writeVirtualBin(c, "Error al cargar el tacho virtual", nil)
}

// AddToVirtualBin adds scanned material to the user's bin
func (h *Handler) AddToVirtualBin(c *fiber.Ctx) error {
	var req AddToBinRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}

	quantity := int64(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if _, err := h.binSvc.Add(c.Context(), middleware.GetUserID(c), req.MaterialType, quantity); err != nil {
		return fail(c, err, "Error al agregar material al tacho")
	}

	return h.writeVirtualBin(c, "Error al cargar el tacho virtual", fiber.Map{
		"message": "Material agregado al tacho virtual",
	})
}

func (h *Handler) writeVirtualBin(c *fiber.Ctx, fallback string, extra fiber.Map) error {
	entries, err := h.binSvc.Entries(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err, fallback)
	}

	var bin model.VirtualBin
	for m, q := range entries {
		bin.Set(m, q)
	}

	resp := fiber.Map{
		"success":    true,
		"virtualBin": entries,
		"materials":  bin,
	}
	for k, v := range extra {
		resp[k] = v
	}
	return c.JSON(resp)
}
