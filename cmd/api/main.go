package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/application/service"
	"github.com/sangkips/receipts-api/internal/config"
	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/internal/infrastructure/cache"
	"github.com/sangkips/receipts-api/internal/infrastructure/database"
	"github.com/sangkips/receipts-api/internal/infrastructure/repository"
	"github.com/sangkips/receipts-api/internal/presentation/http/dto/request"
	"github.com/sangkips/receipts-api/internal/presentation/http/handler"
	"github.com/sangkips/receipts-api/internal/presentation/http/routes"
	"github.com/sangkips/receipts-api/pkg/logger"
	"github.com/sangkips/receipts-api/pkg/printer"
	"github.com/sangkips/receipts-api/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.Must(cfg.App.Env, cfg.App.Debug)
	defer func() { _ = log.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := request.RegisterValidators(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Rendered views are cached in redis when it is configured
	var textCache domainRepo.ReceiptTextCache = cache.NewNoopReceiptTextCache()
	if cfg.Redis.Addr != "" {
		redisClient := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unavailable, receipt views will not be cached", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			textCache = cache.NewRedisReceiptTextCache(redisClient, cfg.Redis.CacheTTL)
		}
		cancel()
	}

	// Initialize services
	renderer := service.NewTextRenderer(cfg.Receipt.MerchantName, cfg.Receipt.ThankYou, cfg.App.Location())
	authService := service.NewAuthService(userRepo, jwtManager, log)
	receiptService := service.NewReceiptService(receiptRepo, renderer, textCache, log)
	idempotencyService := service.NewIdempotencyService(idempotencyRepo, log)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Warn("failed to initialize printer, printing disabled", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, receiptRepo, renderer, log)

	scheduler, err := idempotencyService.StartCleanup(cfg.Idempotency.CleanupInterval, cfg.App.Location())
	if err != nil {
		log.Fatal("failed to schedule idempotency cleanup", zap.Error(err))
	}
	defer scheduler.Stop()

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Receipt: handler.NewReceiptHandler(receiptService, cfg.Receipt.DefaultLineWidth),
		Printer: handler.NewPrinterHandler(printerService, cfg.Receipt.DefaultLineWidth),
	}

	rateLimiter := routes.NewRateLimiter(&cfg.RateLimit)
	defer rateLimiter.Stop()

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		Logger:          log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("app", cfg.App.Name), zap.String("port", port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
}
