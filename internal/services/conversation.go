package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"intersect_api/internal/clients/ollama"
	"intersect_api/internal/config"
	"intersect_api/internal/dataset"
	"intersect_api/internal/hints"
	"intersect_api/internal/models"
)

// Conversation is one in-memory transcript. The embedded mutex
// serializes mutations so at most one message per conversation is in
// flight at a time.
type Conversation struct {
	ID           string
	History      []models.Message
	HintProgress map[string]hints.Stage // hint category -> next stage
	LastActivity time.Time
	mu           sync.Mutex
}

// ConversationService routes messages to transcripts and the model.
type ConversationService struct {
	client        *ollama.Client
	overlay       *hints.Overlay
	systemPrompt  string
	historyWindow int
	idleTimeout   time.Duration
	timeout       time.Duration
	options       ollama.Options
	fallback      bool
	logger        zerolog.Logger

	sessions map[string]*Conversation
	mu       sync.RWMutex
}

// NewConversationService creates the conversation router.
func NewConversationService(cfg *config.Config, client *ollama.Client, ds *dataset.Manager, overlay *hints.Overlay, logger zerolog.Logger) *ConversationService {
	return &ConversationService{
		client:        client,
		overlay:       overlay,
		systemPrompt:  ds.SystemPrompt(),
		historyWindow: cfg.Chat.HistoryWindow,
		idleTimeout:   cfg.Chat.IdleTimeout(),
		timeout:       cfg.Ollama.Timeout(),
		options: ollama.Options{
			Temperature: cfg.Ollama.Temperature,
			NumPredict:  cfg.Ollama.MaxTokens,
		},
		fallback: cfg.Chat.FallbackEnabled,
		logger:   logger.With().Str("component", "conversation").Logger(),
		sessions: make(map[string]*Conversation),
	}
}

// getOrCreate resolves an existing conversation or registers a new one.
func (s *ConversationService) getOrCreate(conversationID string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, exists := s.sessions[conversationID]; exists {
		return conv
	}

	conv := &Conversation{
		ID:           conversationID,
		History:      make([]models.Message, 0),
		HintProgress: make(map[string]hints.Stage),
		LastActivity: time.Now(),
	}
	s.sessions[conversationID] = conv
	return conv
}

// ProcessMessage appends the user turn, asks the model for a reply
// using the bounded recent history as context, applies the hint
// overlay and appends the assistant turn. A missing conversation ID
// creates a fresh transcript under a new UUID.
func (s *ConversationService) ProcessMessage(ctx context.Context, conversationID string, text string) (*models.ChatResult, error) {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	conv := s.getOrCreate(conversationID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	messages := s.buildMessages(conv.History, text)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.client.Chat(callCtx, messages, s.options)
	if err != nil {
		if s.fallback {
			s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("model unavailable, serving fallback reply")
			reply = FallbackReply(text)
		} else {
			return nil, err
		}
	}

	if category, ok := s.overlay.Match(text); ok {
		stage := conv.HintProgress[category]
		if hint, ok := s.overlay.Hint(category, stage); ok {
			conv.HintProgress[category] = stage.Advance()
			reply = reply + "\n\n" + hint
		}
	}

	now := time.Now()
	conv.History = append(conv.History,
		models.Message{Role: "user", Content: text, Timestamp: now},
		models.Message{Role: "assistant", Content: reply, Timestamp: now},
	)
	if len(conv.History) > s.historyWindow {
		conv.History = conv.History[len(conv.History)-s.historyWindow:]
	}
	conv.LastActivity = now

	return &models.ChatResult{
		Response:       reply,
		ConversationID: conversationID,
	}, nil
}

// buildMessages assembles the prompt: system persona, the last
// historyWindow turns in original order, then the new user message.
func (s *ConversationService) buildMessages(history []models.Message, text string) []ollama.ChatMessage {
	messages := make([]ollama.ChatMessage, 0, len(history)+2)
	messages = append(messages, ollama.ChatMessage{Role: "system", Content: s.systemPrompt})

	window := history
	if len(window) > s.historyWindow {
		window = window[len(window)-s.historyWindow:]
	}
	for _, msg := range window {
		messages = append(messages, ollama.ChatMessage{Role: msg.Role, Content: msg.Content})
	}

	messages = append(messages, ollama.ChatMessage{Role: "user", Content: strings.TrimSpace(text)})
	return messages
}

// History returns a copy of a conversation's transcript.
func (s *ConversationService) History(conversationID string) ([]models.Message, error) {
	s.mu.RLock()
	conv, exists := s.sessions[conversationID]
	s.mu.RUnlock()
	if !exists {
		return nil, models.ErrConversationNotFound
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()
	history := make([]models.Message, len(conv.History))
	copy(history, conv.History)
	return history, nil
}

// DeleteConversation removes a transcript.
func (s *ConversationService) DeleteConversation(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[conversationID]; !exists {
		return models.ErrConversationNotFound
	}
	delete(s.sessions, conversationID)
	return nil
}

// ActiveConversations reports how many transcripts are held in memory.
func (s *ConversationService) ActiveConversations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartEviction runs the idle sweep until ctx is canceled.
func (s *ConversationService) StartEviction(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle()
			}
		}
	}()
}

// evictIdle drops conversations idle longer than the configured
// timeout.
func (s *ConversationService) evictIdle() {
	cutoff := time.Now().Add(-s.idleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, conv := range s.sessions {
		if conv.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Debug().Str("conversation_id", id).Msg("evicted idle conversation")
		}
	}
}
