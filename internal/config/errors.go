package config

import "errors"

// Configuration validation errors.
var (
	ErrInvalidPort          = errors.New("server port must be between 1 and 65535")
	ErrEmptyOllamaURL       = errors.New("ollama URL must not be empty")
	ErrEmptyModel           = errors.New("ollama model must not be empty")
	ErrInvalidTimeout       = errors.New("ollama timeout must be greater than zero")
	ErrInvalidHistoryWindow = errors.New("chat history window must be greater than zero")
	ErrInvalidRateLimit     = errors.New("rate limit requests and window must be greater than zero")
	ErrEmptyDatasetPath     = errors.New("dataset path must not be empty")
)
