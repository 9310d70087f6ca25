// Package middleware provides the HTTP middleware chain.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"intersect_api/internal/config"
	"intersect_api/internal/models"
	"intersect_api/internal/services"
)

// Logger logs one line per request with method, path, status, latency
// and client IP.
func Logger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// Recovery converts panics into a logged generic 500. The panic value
// and stack stay in the log, never in the response body.
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err interface{}) {
		logger.Error().
			Interface("panic", err).
			Str("path", c.Request.URL.Path).
			Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	})
}

// CORS restricts cross-origin access to the configured origins. An
// empty origin list allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimSpace(origin)] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case len(allowed) == 0:
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Auth enforces a bearer token. An empty key disables auth entirely.
func Auth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid or missing API key"})
			return
		}

		c.Next()
	}
}

// Stats counts every request and every error outcome.
func Stats(stats *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats.RecordRequest()
		c.Next()
		if c.Writer.Status() >= http.StatusBadRequest {
			stats.RecordError()
		}
	}
}

// Setup registers the full middleware chain on the engine.
func Setup(r *gin.Engine, cfg *config.Config, logger zerolog.Logger, limiter *RateLimiter, stats *services.StatsService) {
	r.Use(Logger(logger))
	r.Use(Recovery(logger))
	r.Use(CORS(cfg.Security.AllowedOrigins))
	r.Use(Stats(stats))
	r.Use(limiter.Middleware())
	r.Use(Auth(cfg.Security.APIKey))
}
