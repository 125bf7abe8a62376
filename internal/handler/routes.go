package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GermanDelima/verdeScan/internal/middleware"
	"github.com/GermanDelima/verdeScan/internal/service"
)

// Register mounts every API route on app. Public and staff routes are
// registered before the /api group so the user middleware does not run
// for them.
func (h *Handler) Register(app *fiber.App, authSvc *service.AuthService) {
	// Health check
	app.Get("/health", h.Health)

	// Public API (no auth required)
	app.Get("/api/materials", h.GetMaterials)
	app.Get("/api/leaderboard", h.GetLeaderboard)
	app.Get("/api/exchange/sube/rates", h.GetSubeRates)
	app.Post("/api/promotor/auth", h.StaffLogin)

	// Staff routes
	staffAuth := middleware.StaffAuth(authSvc)
	app.Post("/api/tokens/validate", staffAuth, h.ValidateToken)
	app.Get("/api/tokens/stats", staffAuth, h.TokenStats)

	// API routes with user authentication
	api := app.Group("/api", middleware.UserAuth(authSvc, h.userSvc))

	// User
	api.Get("/user/me", h.GetMe)
	api.Put("/user/neighborhood", h.UpdateNeighborhood)
	api.Get("/user/virtual-bin", h.GetVirtualBin)
	api.Post("/user/virtual-bin/add", h.AddToVirtualBin)

	// Tokens
	api.Post("/tokens/generate", h.GenerateToken)
	api.Get("/tokens", h.ListTokens)
	api.Post("/tokens/:code/cancel", h.CancelToken)

	// Points
	api.Get("/points/transactions", h.GetPointTransactions)

	// Scanning
	api.Get("/products/:barcode", h.GetProduct)
	api.Post("/scan", h.Scan)
	api.Post("/scan/bonus", h.ClaimWeightBonus)

	// Spending points
	api.Get("/raffles", h.ListRaffles)
	api.Post("/raffles/:id/tickets", h.BuyRaffleTickets)
	api.Post("/exchange/sube", h.ExchangeSube)

	// Admin panel routes (user auth + admin role)
	admin := api.Group("/admin", middleware.AdminAuth())

	// Admin - Staff accounts
	admin.Get("/staff", h.ListStaff)
	admin.Post("/staff", h.CreateStaff)
	admin.Post("/staff/:id/deactivate", h.DeactivateStaff)
	admin.Delete("/staff/:id", h.DeleteStaff)

	// Admin - Product catalog
	admin.Get("/products", h.ListProducts)
	admin.Post("/products", h.CreateProduct)
	admin.Put("/products/:barcode", h.UpdateProduct)
	admin.Delete("/products/:barcode", h.DeleteProduct)

	// Admin - Settings
	admin.Get("/settings", h.GetSettings)
	admin.Post("/settings", h.SetSetting)

	// Internal endpoints (for cron jobs)
	internal := app.Group("/internal", middleware.InternalAuth(h.cfg.Server.InternalKey))
	internal.Post("/cron/deplete-bins", h.DepleteBins)
}
