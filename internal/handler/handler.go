package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/GermanDelima/verdeScan/internal/config"
	"github.com/GermanDelima/verdeScan/internal/repository"
	"github.com/GermanDelima/verdeScan/internal/service"
)

type Handler struct {
	cfg         *config.Config
	repo        *repository.Repository
	userSvc     *service.UserService
	binSvc      *service.VirtualBinService
	tokenSvc    *service.TokenService
	pointSvc    *service.PointService
	catalogSvc  *service.CatalogService
	scanSvc     *service.ScanService
	staffSvc    *service.StaffService
	raffleSvc   *service.RaffleService
	exchangeSvc *service.ExchangeService
}

func New(
	cfg *config.Config,
	repo *repository.Repository,
	userSvc *service.UserService,
	binSvc *service.VirtualBinService,
	tokenSvc *service.TokenService,
	pointSvc *service.PointService,
	catalogSvc *service.CatalogService,
	scanSvc *service.ScanService,
	staffSvc *service.StaffService,
	raffleSvc *service.RaffleService,
	exchangeSvc *service.ExchangeService,
) *Handler {
	return &Handler{
		cfg:         cfg,
		repo:        repo,
		userSvc:     userSvc,
		binSvc:      binSvc,
		tokenSvc:    tokenSvc,
		pointSvc:    pointSvc,
		catalogSvc:  catalogSvc,
		scanSvc:     scanSvc,
		staffSvc:    staffSvc,
		raffleSvc:   raffleSvc,
		exchangeSvc: exchangeSvc,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.repo.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "database unavailable",
		})
	}
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

var statusByError = []struct {
	err    error
	status int
}{
	{service.ErrInvalidMaterial, fiber.StatusBadRequest},
	{service.ErrInvalidQuantity, fiber.StatusBadRequest},
	{service.ErrMissingRedeemParams, fiber.StatusBadRequest},
	{service.ErrAlreadyValidated, fiber.StatusBadRequest},
	{service.ErrTokenExpired, fiber.StatusBadRequest},
	{service.ErrTokenCancelled, fiber.StatusBadRequest},
	{service.ErrInsufficientPoints, fiber.StatusBadRequest},
	{service.ErrInvalidAmount, fiber.StatusBadRequest},
	{service.ErrInvalidBarcode, fiber.StatusBadRequest},
	{service.ErrMissingProduct, fiber.StatusBadRequest},
	{service.ErrInvalidWeight, fiber.StatusBadRequest},
	{service.ErrInvalidPointsPerKg, fiber.StatusBadRequest},
	{service.ErrNoProductFields, fiber.StatusBadRequest},
	{service.ErrNoBonusAvailable, fiber.StatusBadRequest},
	{service.ErrMissingCredentials, fiber.StatusBadRequest},
	{service.ErrMissingStaffFields, fiber.StatusBadRequest},
	{service.ErrInvalidAccountType, fiber.StatusBadRequest},
	{service.ErrPasswordTooShort, fiber.StatusBadRequest},
	{service.ErrInvalidTicketCount, fiber.StatusBadRequest},
	{service.ErrRaffleClosed, fiber.StatusBadRequest},
	{service.ErrInvalidExchangeType, fiber.StatusBadRequest},
	{service.ErrMissingSubeAlias, fiber.StatusBadRequest},
	{service.ErrInvalidNeighborhood, fiber.StatusBadRequest},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{service.ErrInvalidSession, fiber.StatusUnauthorized},
	{service.ErrUnauthorizedStaff, fiber.StatusForbidden},
	{service.ErrTokenNotFound, fiber.StatusNotFound},
	{service.ErrUserNotFound, fiber.StatusNotFound},
	{service.ErrProductNotFound, fiber.StatusNotFound},
	{service.ErrStaffNotFound, fiber.StatusNotFound},
	{service.ErrRaffleNotFound, fiber.StatusNotFound},
	{service.ErrUsernameTaken, fiber.StatusConflict},
	{service.ErrDuplicateBarcode, fiber.StatusConflict},
	{service.ErrConfigMissing, fiber.StatusInternalServerError},
	{service.ErrCodeGenerationExhausted, fiber.StatusInternalServerError},
}

// statusFor maps a service error onto an HTTP status. The second result is
// false for errors whose message must not reach the client.
func statusFor(err error) (int, bool) {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status, true
		}
	}
	return fiber.StatusInternalServerError, false
}

// fail writes the JSON error body for err. Unexpected errors are logged and
// replaced by fallback.
func fail(c *fiber.Ctx, err error, fallback string) error {
	status, known := statusFor(err)
	if !known {
		zap.L().Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(status).JSON(fiber.Map{
			"error": fallback,
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}
