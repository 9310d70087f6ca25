package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"intersect_api/internal/models"
	"intersect_api/internal/services"
)

// ChatHandler serves the chat endpoints.
type ChatHandler struct {
	chat   models.ChatService
	stats  *services.StatsService
	logger zerolog.Logger
}

// NewChatHandler creates the chat handler.
func NewChatHandler(chat models.ChatService, stats *services.StatsService, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		stats:  stats,
		logger: logger.With().Str("component", "chat_handler").Logger(),
	}
}

// HandleChat serves POST /api/v1/chat.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrEmptyMessage.Error()})
		return
	}
	if len(message) > models.MaxMessageLength {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrMessageTooLong.Error()})
		return
	}

	start := time.Now()
	result, err := h.chat.ProcessMessage(c.Request.Context(), req.ConversationID, message)
	if err != nil {
		status, msg := models.HTTPError(err)
		h.logger.Warn().Err(err).Int("status", status).Str("client_ip", c.ClientIP()).Msg("chat request failed")
		c.JSON(status, models.ErrorResponse{Error: msg})
		return
	}
	elapsed := time.Since(start)
	h.stats.RecordLatency(elapsed)

	h.logger.Info().
		Str("conversation_id", result.ConversationID).
		Dur("processing_time", elapsed).
		Str("client_ip", c.ClientIP()).
		Msg("chat response generated")

	c.JSON(http.StatusOK, models.ChatResponse{
		Response:       result.Response,
		ConversationID: result.ConversationID,
		Timestamp:      float64(time.Now().UnixNano()) / 1e9,
		ProcessingTime: elapsed.Seconds(),
	})
}

// HandleDelete serves DELETE /api/v1/chat/:conversation_id.
func (h *ChatHandler) HandleDelete(c *gin.Context) {
	conversationID := c.Param("conversation_id")

	if err := h.chat.DeleteConversation(conversationID); err != nil {
		status, msg := models.HTTPError(err)
		c.JSON(status, models.ErrorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "conversation " + conversationID + " cleared",
	})
}
