package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"intersect_api/internal/models"
)

// WSHandler serves interactive chat over a WebSocket, one conversation
// per connection unless the client supplies its own conversation ID.
type WSHandler struct {
	chat     models.ChatService
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// wsRequest is one inbound chat frame.
type wsRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id"`
}

// wsReply is one outbound frame.
type wsReply struct {
	Type           string  `json:"type"` // message or error
	Response       string  `json:"response,omitempty"`
	Error          string  `json:"error,omitempty"`
	ConversationID string  `json:"conversation_id,omitempty"`
	Timestamp      float64 `json:"timestamp"`
}

// NewWSHandler creates the WebSocket chat handler.
func NewWSHandler(chat models.ChatService, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		chat: chat,
		upgrader: websocket.Upgrader{
			// Cross-origin policy is enforced by the CORS middleware
			// on the upgrade request.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With().Str("component", "ws_handler").Logger(),
	}
}

// HandleWebSocket serves GET /api/v1/ws.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.Close()

	// The connection keeps one conversation for its lifetime; the
	// first reply carries the ID for the client to reuse.
	conversationID := c.Query("conversation_id")

	for {
		var req wsRequest
		if err := ws.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}

		if req.ConversationID != "" {
			conversationID = req.ConversationID
		}

		message := strings.TrimSpace(req.Message)
		if message == "" || len(message) > models.MaxMessageLength {
			h.writeError(ws, "message must be between 1 and 500 characters")
			continue
		}

		result, err := h.chat.ProcessMessage(c.Request.Context(), conversationID, message)
		if err != nil {
			_, msg := models.HTTPError(err)
			h.writeError(ws, msg)
			continue
		}
		conversationID = result.ConversationID

		reply := wsReply{
			Type:           "message",
			Response:       result.Response,
			ConversationID: result.ConversationID,
			Timestamp:      float64(time.Now().UnixNano()) / 1e9,
		}
		if err := ws.WriteJSON(reply); err != nil {
			h.logger.Warn().Err(err).Msg("websocket write failed")
			return
		}
	}
}

func (h *WSHandler) writeError(ws *websocket.Conn, msg string) {
	reply := wsReply{
		Type:      "error",
		Error:     msg,
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
	}
	if err := ws.WriteJSON(reply); err != nil {
		h.logger.Warn().Err(err).Msg("websocket write failed")
	}
}
