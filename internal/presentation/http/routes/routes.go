package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/receipts-api/internal/config"
	domainRepo "github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/internal/presentation/http/handler"
	"github.com/sangkips/receipts-api/internal/presentation/http/middleware"
	"github.com/sangkips/receipts-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Receipt *handler.ReceiptHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Logger          *zap.Logger
}

// NewRateLimiter builds the shared limiter from the RATE_LIMIT_* settings.
func NewRateLimiter(cfg *config.RateLimitConfig) *middleware.RateLimiter {
	duration := cfg.Duration
	if duration <= 0 {
		duration = 60
	}
	return middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.Requests) / float64(duration),
		BurstSize:         cfg.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.PrometheusMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		// the public view is rate limited per client IP
		public := v1.Group("")
		public.Use(deps.RateLimiter.Middleware())
		public.GET("/receipts/:id/view", h.Receipt.View)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.RateLimiter.Middleware())

		registerReceiptRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/signin", h.Auth.Signin)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	receipts := protected.Group("/receipts")
	{
		receipts.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo:   deps.IdempotencyRepo,
			TTL:    deps.Cfg.Idempotency.TTL,
			Logger: deps.Logger,
		}), h.Receipt.Create)
		receipts.GET("", h.Receipt.List)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.POST("/:id/print", h.Printer.PrintReceipt)
	}

	protected.GET("/printer/status", h.Printer.GetStatus)
}
