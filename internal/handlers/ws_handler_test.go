package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intersect_api/internal/models"
)

func dialWS(t *testing.T, stub *stubChatService) (*websocket.Conn, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewWSHandler(stub, zerolog.Nop())
	r := gin.New()
	r.GET("/api/v1/ws", h.HandleWebSocket)

	server := httptest.NewServer(r)
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/ws"

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	return ws, func() {
		ws.Close()
		server.Close()
	}
}

func TestHandleWebSocketChat(t *testing.T) {
	stub := &stubChatService{result: &models.ChatResult{
		Response:       "hello there",
		ConversationID: "conv-ws",
	}}
	ws, cleanup := dialWS(t, stub)
	defer cleanup()

	require.NoError(t, ws.WriteJSON(wsRequest{Message: "Tell me about Brenda"}))

	var reply wsReply
	require.NoError(t, ws.ReadJSON(&reply))
	assert.Equal(t, "message", reply.Type)
	assert.Equal(t, "hello there", reply.Response)
	assert.Equal(t, "conv-ws", reply.ConversationID)
	assert.Greater(t, reply.Timestamp, 0.0)

	// The connection sticks to the conversation the service minted.
	require.NoError(t, ws.WriteJSON(wsRequest{Message: "And her certifications?"}))
	require.NoError(t, ws.ReadJSON(&reply))
	assert.Equal(t, "conv-ws", stub.lastConversationID)
}

func TestHandleWebSocketValidation(t *testing.T) {
	stub := &stubChatService{result: &models.ChatResult{Response: "ok", ConversationID: "c"}}
	ws, cleanup := dialWS(t, stub)
	defer cleanup()

	require.NoError(t, ws.WriteJSON(wsRequest{Message: "   "}))

	var reply wsReply
	require.NoError(t, ws.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)
	assert.NotEmpty(t, reply.Error)
}

func TestHandleWebSocketUpstreamError(t *testing.T) {
	stub := &stubChatService{err: models.ErrUpstreamUnavailable}
	ws, cleanup := dialWS(t, stub)
	defer cleanup()

	require.NoError(t, ws.WriteJSON(wsRequest{Message: "hello"}))

	var reply wsReply
	require.NoError(t, ws.ReadJSON(&reply))
	assert.Equal(t, "error", reply.Type)
	assert.Equal(t, models.ErrUpstreamUnavailable.Error(), reply.Error)
}
