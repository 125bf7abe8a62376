package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GermanDelima/verdeScan/internal/config"
	"github.com/GermanDelima/verdeScan/internal/handler"
	"github.com/GermanDelima/verdeScan/internal/repository"
	"github.com/GermanDelima/verdeScan/internal/service"
	"github.com/GermanDelima/verdeScan/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := newLogger(cfg)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	// Connect to database
	repo, err := repository.New(cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer repo.Close()

	// Create services
	authSvc := service.NewAuthService(cfg)
	userSvc := service.NewUserService(repo)
	binSvc := service.NewVirtualBinService(repo)
	tokenSvc := service.NewTokenService(repo, cfg)
	pointSvc := service.NewPointService(repo)
	catalogSvc := service.NewCatalogService(repo)
	scanSvc := service.NewScanService(repo, cfg, catalogSvc, binSvc)
	staffSvc := service.NewStaffService(repo, authSvc)
	raffleSvc := service.NewRaffleService(repo)
	exchangeSvc := service.NewExchangeService(repo, cfg)

	// Create Telegram bot for the operations chat
	var bot *telegram.Bot
	if cfg.Telegram.BotToken != "" {
		bot, err = telegram.NewBot(cfg, tokenSvc)
		if err != nil {
			log.Warn("Failed to create Telegram bot", zap.Error(err))
		} else {
			tokenSvc.SetNotifier(bot)
			log.Info("Telegram bot initialized", zap.Int64("ops_chat_id", cfg.Telegram.OpsChatID))
		}
	}

	// Create handlers
	h := handler.New(cfg, repo, userSvc, binSvc, tokenSvc, pointSvc, catalogSvc, scanSvc, staffSvc, raffleSvc, exchangeSvc)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	h.Register(app, authSvc)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start Telegram bot long polling
	if bot != nil {
		go bot.StartPolling(ctx)
		log.Info("Telegram bot started with long polling")
	}

	// Start virtual bin reconciliation
	reconcileWorker := service.NewReconcileWorker(tokenSvc, config.BinReconcileInterval)
	go reconcileWorker.Start(ctx)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("Shutting down server...")
		cancel()
		_ = app.Shutdown()
	}()

	// Start server
	log.Info("Server starting", zap.String("port", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if cfg.Server.Environment == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return log
}
