package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receipts-api/internal/config"
)

var (
	defaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	defaultCORSMethods = []string{"GET", "POST", "OPTIONS"}
	defaultCORSHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", RequestIDHeader, IdempotencyKeyHeader}
)

// CORSMiddleware creates a CORS middleware with the provided configuration
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     orDefault(cfg.AllowedOrigins, defaultCORSOrigins),
		AllowMethods:     orDefault(cfg.AllowedMethods, defaultCORSMethods),
		AllowHeaders:     withHeader(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), IdempotencyKeyHeader),
		ExposeHeaders:    []string{"Content-Length", "Content-Type", RequestIDHeader, IdempotencyReplayedHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	return cors.New(corsConfig)
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// withHeader makes sure header is allowed, since clients must be able to send it
func withHeader(headers []string, header string) []string {
	for _, h := range headers {
		if h == header {
			return headers
		}
	}
	return append(append([]string(nil), headers...), header)
}
