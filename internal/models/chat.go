package models

import (
	"context"
	"time"
)

// MaxMessageLength is the longest user message the gateway accepts,
// measured after whitespace trimming.
const MaxMessageLength = 500

// Message is one turn within a conversation.
type Message struct {
	Role      string    `json:"role"`      // user or assistant
	Content   string    `json:"content"`   // raw message text
	Timestamp time.Time `json:"timestamp"` // when the turn was appended
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id"`
}

// ChatResponse is the success body of POST /api/v1/chat.
type ChatResponse struct {
	Response       string  `json:"response"`
	ConversationID string  `json:"conversation_id"`
	Timestamp      float64 `json:"timestamp"`       // unix seconds
	ProcessingTime float64 `json:"processing_time"` // seconds spent handling the message
}

// ChatResult is the outcome of one processed message.
type ChatResult struct {
	Response       string
	ConversationID string
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status      string  `json:"status"` // healthy or degraded
	Model       string  `json:"model"`
	DatasetSize int     `json:"dataset_size"`
	Uptime      float64 `json:"uptime"` // seconds since process start
}

// StatsResponse is the body of GET /api/v1/stats.
type StatsResponse struct {
	TotalRequests         int64   `json:"total_requests"`
	TotalErrors           int64   `json:"total_errors"`
	AverageProcessingTime float64 `json:"average_processing_time"`
	ActiveConversations   int     `json:"active_conversations"`
	DatasetCategories     int     `json:"dataset_categories"`
	Uptime                float64 `json:"uptime"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChatService is the conversation routing contract consumed by the
// HTTP and WebSocket handlers.
type ChatService interface {
	// ProcessMessage resolves or creates the conversation, asks the model
	// for a reply and appends both turns to the transcript.
	ProcessMessage(ctx context.Context, conversationID string, text string) (*ChatResult, error)

	// DeleteConversation removes a transcript.
	DeleteConversation(conversationID string) error

	// ActiveConversations reports how many transcripts are held in memory.
	ActiveConversations() int
}
