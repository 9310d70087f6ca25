package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"intersect_api/internal/clients/ollama"
	"intersect_api/internal/dataset"
	"intersect_api/internal/models"
	"intersect_api/internal/services"
)

// probeTimeout bounds the health check's reachability probe.
const probeTimeout = 5 * time.Second

// HealthHandler serves the health, stats and root endpoints.
type HealthHandler struct {
	client  *ollama.Client
	dataset *dataset.Manager
	stats   *services.StatsService
	chat    models.ChatService
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(client *ollama.Client, ds *dataset.Manager, stats *services.StatsService, chat models.ChatService) *HealthHandler {
	return &HealthHandler{
		client:  client,
		dataset: ds,
		stats:   stats,
		chat:    chat,
	}
}

// HandleRoot serves GET / with the service banner.
func (h *HealthHandler) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "The Intersect - Portfolio Chatbot API",
		"description": "Secure API for Brenda Hensley's AI knowledge database",
		"version":     "1.0.0",
		"endpoints": gin.H{
			"chat":   "/api/v1/chat",
			"health": "/api/v1/health",
			"stats":  "/api/v1/stats",
			"ws":     "/api/v1/ws",
		},
	})
}

// HandleHealth serves GET /api/v1/health. Status is healthy when the
// inference server answers the reachability probe, degraded otherwise.
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	status := "healthy"
	if err := h.client.Ping(ctx); err != nil {
		status = "degraded"
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:      status,
		Model:       h.client.Model(),
		DatasetSize: h.dataset.Size(),
		Uptime:      h.stats.Uptime().Seconds(),
	})
}

// HandleStats serves GET /api/v1/stats.
func (h *HealthHandler) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatsResponse{
		TotalRequests:         h.stats.TotalRequests(),
		TotalErrors:           h.stats.TotalErrors(),
		AverageProcessingTime: h.stats.AverageProcessingTime(),
		ActiveConversations:   h.chat.ActiveConversations(),
		DatasetCategories:     len(h.dataset.Categories()),
		Uptime:                h.stats.Uptime().Seconds(),
	})
}
