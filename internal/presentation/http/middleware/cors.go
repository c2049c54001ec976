package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/youcode/tricol-fournisseurs/internal/config"
)

var (
	defaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:4200", "http://127.0.0.1:3000"}
	defaultCORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	defaultCORSHeaders = []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Request-ID"}

	// Headers a browser client may read from responses
	corsExposedHeaders = []string{
		"Content-Length",
		"X-Request-ID",
		"X-RateLimit-Limit",
		"X-RateLimit-Remaining",
		"Retry-After",
		IdempotencyReplayedHeader,
	}
)

// CORSMiddleware builds the CORS policy from config, falling back to local
// development defaults. Idempotency-Key is always an allowed request header.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     orDefault(cfg.AllowedOrigins, defaultCORSOrigins),
		AllowMethods:     orDefault(cfg.AllowedMethods, defaultCORSMethods),
		AllowHeaders:     withHeader(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), IdempotencyKeyHeader),
		ExposeHeaders:    corsExposedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

func withHeader(headers []string, header string) []string {
	for _, h := range headers {
		if http.CanonicalHeaderKey(h) == header {
			return headers
		}
	}
	out := make([]string, 0, len(headers)+1)
	out = append(out, headers...)
	return append(out, header)
}
