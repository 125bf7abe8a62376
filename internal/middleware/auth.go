package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GermanDelima/verdeScan/internal/model"
	"github.com/GermanDelima/verdeScan/internal/service"
)

const (
	UserKey   = "user"
	UserIDKey = "user_id"
)

// UserAuth verifies the identity provider's bearer token and loads the
// matching user row, creating it on first sight.
func UserAuth(authSvc *service.AuthService, userSvc *service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No autenticado",
			})
		}

		identity, err := authSvc.VerifyUserToken(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No autenticado",
			})
		}

		user, err := userSvc.GetOrCreate(c.Context(), identity)
		if err != nil {
			zap.L().Error("failed to load user", zap.String("user_id", identity.ID.String()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "No se pudo obtener información del usuario",
			})
		}

		c.Locals(UserKey, user)
		c.Locals(UserIDKey, user.ID)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	userID, ok := c.Locals(UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return userID
}

func GetUser(c *fiber.Ctx) *model.User {
	user, ok := c.Locals(UserKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}
