package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/GermanDelima/verdeScan/internal/middleware"
	"github.com/GermanDelima/verdeScan/internal/service"
)

type StaffLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StaffLogin authenticates a promotor or ecopunto account
func (h *Handler) StaffLogin(c *fiber.Ctx) error {
	var req StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}

	session, err := h.staffSvc.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return fail(c, err, "Error al buscar cuenta")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"staff": fiber.Map{
			"id":           session.Staff.ID,
			"username":     session.Staff.Username,
			"account_type": session.Staff.AccountType,
		},
	})
}

func (h *Handler) ListStaff(c *fiber.Ctx) error {
	accounts, err := h.staffSvc.List(c.Context())
	if err != nil {
		return fail(c, err, "Error interno del servidor")
	}
	return c.JSON(fiber.Map{
		"accounts": accounts,
	})
}

func (h *Handler) CreateStaff(c *fiber.Ctx) error {
	var req service.NewStaffInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Formato de solicitud inválido")
	}

	account, err := h.staffSvc.Create(c.Context(), req, middleware.GetAdminID(c))
	if err != nil {
		return fail(c, err, "Error interno del servidor")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Cuenta creada exitosamente",
		"account": account,
	})
}

func (h *Handler) DeactivateStaff(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "ID de cuenta no proporcionado")
	}

	if err := h.staffSvc.Deactivate(c.Context(), id); err != nil {
		return fail(c, err, "Error interno del servidor")
	}
	return c.JSON(fiber.Map{
		"message": "Cuenta desactivada exitosamente",
	})
}

func (h *Handler) DeleteStaff(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "ID de cuenta no proporcionado")
	}

	if err := h.staffSvc.Delete(c.Context(), id); err != nil {
		return fail(c, err, "Error interno del servidor")
	}
	return c.JSON(fiber.Map{
		"message": "Cuenta eliminada exitosamente",
	})
}
