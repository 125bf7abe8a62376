package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const AdminIDKey = "admin_id"

// AdminAuth requires the authenticated user to have the admin role.
// It must run after UserAuth.
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No autenticado",
			})
		}

		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "No tienes permisos de administrador",
			})
		}

		c.Locals(AdminIDKey, user.ID)

		return c.Next()
	}
}

// GetAdminID returns the admin user ID from context
func GetAdminID(c *fiber.Ctx) uuid.UUID {
	adminID, ok := c.Locals(AdminIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return adminID
}
