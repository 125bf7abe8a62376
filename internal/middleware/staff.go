package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/GermanDelima/verdeScan/internal/service"
)

const (
	StaffClaimsKey = "staff_claims"
	StaffIDKey     = "staff_id"
)

// StaffAuth verifies a staff session token. Whether the account is still
// active is checked by the operations that need it.
func StaffAuth(authSvc *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "ID de staff requerido",
			})
		}

		claims, err := authSvc.VerifyStaffSession(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": service.ErrInvalidSession.Error(),
			})
		}
		staffID, _ := claims.StaffID()

		c.Locals(StaffClaimsKey, claims)
		c.Locals(StaffIDKey, staffID)

		return c.Next()
	}
}

func GetStaffID(c *fiber.Ctx) uuid.UUID {
	staffID, ok := c.Locals(StaffIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return staffID
}

// InternalAuth guards the /internal endpoints with a shared key. An empty
// key disables them.
func InternalAuth(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		given := c.Get("X-Internal-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(given), []byte(key)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}
		return c.Next()
	}
}
