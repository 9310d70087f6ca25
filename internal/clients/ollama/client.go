// Package ollama implements a client for the Ollama chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"intersect_api/internal/models"
)

// Config holds the client configuration.
type Config struct {
	URL   string // base URL of the Ollama server
	Model string // model name
}

// Client talks to an Ollama server.
type Client struct {
	config Config
	client *http.Client
}

// ChatMessage is one message in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"` // system, user or assistant
	Content string `json:"content"`
}

// Options are generation parameters.
type Options struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // max tokens to generate
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  Options       `json:"options,omitempty"`
}

// ChatResponse is the non-streaming body of POST /api/chat.
type ChatResponse struct {
	Model         string      `json:"model"`
	CreatedAt     string      `json:"created_at"`
	Message       ChatMessage `json:"message"`
	Done          bool        `json:"done"`
	TotalDuration int64       `json:"total_duration"` // nanoseconds
	EvalCount     int         `json:"eval_count"`
}

// tagsResponse is the body of GET /api/tags.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// NewClient creates a new Ollama client.
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		client: &http.Client{},
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// Chat sends the message sequence to the model and returns the
// completion text. The caller bounds the call through ctx; expiry maps
// to ErrUpstreamTimeout, connection failures to ErrUpstreamUnavailable
// and unparseable payloads to ErrUpstreamProtocol.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage, options Options) (string, error) {
	reqBody := ChatRequest{
		Model:    c.config.Model,
		Messages: messages,
		Stream:   false,
		Options:  options,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "marshaling chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", errors.Wrap(err, "creating chat request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", errors.Wrap(models.ErrUpstreamTimeout, err.Error())
		}
		return "", errors.Wrap(models.ErrUpstreamUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.Wrapf(models.ErrUpstreamUnavailable, "server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", errors.Wrap(models.ErrUpstreamProtocol, err.Error())
	}
	if !response.Done {
		return "", errors.Wrap(models.ErrUpstreamProtocol, "incomplete completion")
	}

	return response.Message.Content, nil
}

// Ping checks the server is reachable and the configured model is
// available. Used by the health probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL+"/api/tags", nil)
	if err != nil {
		return errors.Wrap(err, "creating tags request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return errors.Wrap(models.ErrUpstreamTimeout, err.Error())
		}
		return errors.Wrap(models.ErrUpstreamUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(models.ErrUpstreamUnavailable, "server returned %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return errors.Wrap(models.ErrUpstreamProtocol, err.Error())
	}

	for _, m := range tags.Models {
		if strings.Contains(m.Name, c.config.Model) {
			return nil
		}
	}
	return errors.Wrapf(models.ErrUpstreamUnavailable, "model %q not found", c.config.Model)
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
