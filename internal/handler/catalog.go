package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GermanDelima/verdeScan/internal/middleware"
	"github.com/GermanDelima/verdeScan/internal/service"
)

type ScanRequest struct {
	Barcode string `json:"barcode"`
}

// GetMaterials lists the point rate of each material
func (h *Handler) GetMaterials(c *fiber.Ctx) error {
	configs, err := h.catalogSvc.PointsConfig(c.Context())
	if err != nil {
		return fail(c, err, "No se pudo obtener la configuración de puntos")
	}

	return c.JSON(fiber.Map{
		"materials": configs,
	})
}

func (h *Handler) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalogSvc.LookupProduct(c.Context(), c.Params("barcode"))
	if err != nil {
		return fail(c, err, "Error al buscar el producto")
	}

	return c.JSON(fiber.Map{
		"product": product,
	})
}

// Scan registers one scanned product for the current user
func (h *Handler) Scan(c *fiber.Ctx) error {
	var req ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}

	result, err := h.scanSvc.Scan(c.Context(), middleware.GetUserID(c), req.Barcode)
	if err != nil {
		return fail(c, err, "Error al agregar material al tacho")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "✓ " + result.Product.Name + " escaneado",
		"scan":    result,
	})
}

// ClaimWeightBonus converts accumulated scan weight into points
func (h *Handler) ClaimWeightBonus(c *fiber.Ctx) error {
	bonus, err := h.scanSvc.ClaimBonus(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return fail(c, err, "Error al acreditar puntos")
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"kilograms":        bonus.Kilograms,
		"points_credited":  bonus.Points,
		"remaining_weight": bonus.RemainingGrams,
		"new_points":       bonus.Transaction.PointsAfter,
	})
}

// Admin product management

func (h *Handler) ListProducts(c *fiber.Ctx) error {
	products, err := h.catalogSvc.ListProducts(c.Context())
	if err != nil {
		return fail(c, err, "Error interno del servidor")
	}
	return c.JSON(fiber.Map{
		"products": products,
	})
}

func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}

	product, err := h.catalogSvc.CreateProduct(c.Context(), req)
	if err != nil {
		return fail(c, err, "Error interno del servidor")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Producto creado exitosamente",
		"product": product,
	})
}

func (h *Handler) UpdateProduct(c *fiber.Ctx) error {
	var req service.ProductUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}

	product, err := h.catalogSvc.UpdateProduct(c.Context(), c.Params("barcode"), req)
	if err != nil {
		return fail(c, err, "Error interno del servidor")
	}

	return c.JSON(fiber.Map{
		"message": "Producto actualizado exitosamente",
		"product": product,
	})
}

func (h *Handler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.catalogSvc.DeleteProduct(c.Context(), c.Params("barcode")); err != nil {
		return fail(c, err, "Error interno del servidor")
	}
	return c.JSON(fiber.Map{
		"message": "Producto eliminado exitosamente",
	})
}
