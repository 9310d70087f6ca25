package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intersect_api/internal/models"
)

func newChatServer(t *testing.T, reply string, capture *ChatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}

		resp := ChatResponse{
			Model:     "test-model",
			CreatedAt: time.Now().Format(time.RFC3339),
			Message:   ChatMessage{Role: "assistant", Content: reply},
			Done:      true,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_Chat(t *testing.T) {
	var captured ChatRequest
	server := newChatServer(t, "hello from the model", &captured)
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Model: "test-model"})

	messages := []ChatMessage{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "hi"},
	}
	reply, err := client.Chat(context.Background(), messages, Options{Temperature: 0.7, NumPredict: 100})
	require.NoError(t, err)

	assert.Equal(t, "hello from the model", reply)
	assert.Equal(t, "test-model", captured.Model)
	assert.False(t, captured.Stream)
	assert.Equal(t, messages, captured.Messages)
}

func TestClient_ChatServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model exploded"))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Model: "test-model"})
	_, err := client.Chat(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestClient_ChatMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Model: "test-model"})
	_, err := client.Chat(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, models.ErrUpstreamProtocol)
}

func TestClient_ChatConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewClient(Config{URL: server.URL, Model: "test-model"})
	_, err := client.Chat(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestClient_ChatTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Model: "test-model"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Chat(ctx, nil, Options{})
	assert.ErrorIs(t, err, models.ErrUpstreamTimeout)
}

func TestClient_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"models": []map[string]string{
				{"name": "llama3.1:8b"},
				{"name": "mistral:latest"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Model: "llama3.1"})
	assert.NoError(t, client.Ping(context.Background()))

	missing := NewClient(Config{URL: server.URL, Model: "codellama"})
	err := missing.Ping(context.Background())
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestClient_PingUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(Config{URL: server.URL, Model: "llama3.1"})
	err := client.Ping(context.Background())
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}
