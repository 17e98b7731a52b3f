package middleware

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing/internal/config"
)

// headers the billing counter UI must be able to send and read
var (
	billingRequestHeaders = []string{IdempotencyKeyHeader, "X-Request-ID"}
	billingExposedHeaders = []string{"Content-Length", "Content-Type", "X-Request-ID", "X-Idempotency-Replayed"}
	defaultAllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin"}
	defaultAllowedMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	defaultAllowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
)

// CORSMiddleware creates a CORS middleware with the provided configuration
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(corsConfig(cfg))
}

func corsConfig(cfg *config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     slices.Clone(cfg.AllowedHeaders),
		ExposeHeaders:    billingExposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = defaultAllowedOrigins
	}
	// credentials cannot be combined with a wildcard origin
	if slices.Contains(c.AllowOrigins, "*") {
		c.AllowOrigins = nil
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	}
	if len(c.AllowMethods) == 0 {
		c.AllowMethods = defaultAllowedMethods
	}
	if len(c.AllowHeaders) == 0 {
		c.AllowHeaders = slices.Clone(defaultAllowedHeaders)
	}
	for _, h := range billingRequestHeaders {
		if !slices.Contains(c.AllowHeaders, h) {
			c.AllowHeaders = append(c.AllowHeaders, h)
		}
	}
	return c
}
