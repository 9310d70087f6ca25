// Package config provides configuration loading and management.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	Chat      ChatConfig      `yaml:"chat"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Security  SecurityConfig  `yaml:"security"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host string `yaml:"host"` // listen address
	Port int    `yaml:"port"` // listen port
}

// OllamaConfig configures the inference server connection.
type OllamaConfig struct {
	URL            string  `yaml:"url"`             // base URL of the Ollama server
	Model          string  `yaml:"model"`           // model name to generate with
	TimeoutSeconds int     `yaml:"timeout_seconds"` // per-request timeout
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
}

// ChatConfig configures conversation handling.
type ChatConfig struct {
	HistoryWindow      int  `yaml:"history_window"`       // turns kept and sent as context
	IdleTimeoutSeconds int  `yaml:"idle_timeout_seconds"` // conversation eviction threshold
	FallbackEnabled    bool `yaml:"fallback_enabled"`     // serve canned replies when the model is down
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	Requests      int `yaml:"requests"`       // allowed requests per window
	WindowSeconds int `yaml:"window_seconds"` // rolling window length
}

// SecurityConfig configures auth and CORS.
type SecurityConfig struct {
	APIKey         string   `yaml:"api_key"`         // bearer token; empty disables auth
	AllowedOrigins []string `yaml:"allowed_origins"` // CORS origins; empty allows any
}

// DatasetConfig configures the knowledge dataset.
type DatasetConfig struct {
	Path string `yaml:"path"` // path to the portfolio dataset JSON file
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // zerolog level name
	Pretty bool   `yaml:"pretty"` // human-readable console output
}

// Timeout returns the inference request timeout as a duration.
func (c OllamaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IdleTimeout returns the conversation eviction threshold as a duration.
func (c ChatConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSeconds) * time.Second
}

// Window returns the rate limit window as a duration.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// Load reads configuration from a YAML file, applies environment
// overrides and defaults, and validates the result. A missing file is
// not an error; the environment plus defaults alone can configure the
// service.
func Load(filename string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.Wrap(err, "parsing config file")
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "reading config file")
	}

	applyEnv(&config)
	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyEnv overrides file values from the environment. The variable
// names match the deployment surface of the hosted widget.
func applyEnv(config *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		config.Ollama.URL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		config.Ollama.Model = v
	}
	if v := os.Getenv("INTERSECT_API_KEY"); v != "" {
		config.Security.APIKey = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		config.Security.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.RateLimit.Requests = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.RateLimit.WindowSeconds = n
		}
	}
	if v := os.Getenv("DATASET_PATH"); v != "" {
		config.Dataset.Path = v
	}
}

// applyDefaults fills unset values.
func applyDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Ollama.URL == "" {
		config.Ollama.URL = "http://localhost:11434"
	}
	if config.Ollama.Model == "" {
		config.Ollama.Model = "llama3.1"
	}
	if config.Ollama.TimeoutSeconds == 0 {
		config.Ollama.TimeoutSeconds = 30
	}
	if config.Ollama.Temperature == 0 {
		config.Ollama.Temperature = 0.7
	}
	if config.Ollama.MaxTokens == 0 {
		config.Ollama.MaxTokens = 1000
	}
	if config.Chat.HistoryWindow == 0 {
		config.Chat.HistoryWindow = 20 // 10 exchanges
	}
	if config.Chat.IdleTimeoutSeconds == 0 {
		config.Chat.IdleTimeoutSeconds = 1800
	}
	if config.RateLimit.Requests == 0 {
		config.RateLimit.Requests = 10
	}
	if config.RateLimit.WindowSeconds == 0 {
		config.RateLimit.WindowSeconds = 60
	}
	if config.Dataset.Path == "" {
		config.Dataset.Path = "data/portfolio_dataset.json"
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
}

// validate checks the configuration is usable.
func validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return ErrInvalidPort
	}
	if config.Ollama.URL == "" {
		return ErrEmptyOllamaURL
	}
	if config.Ollama.Model == "" {
		return ErrEmptyModel
	}
	if config.Ollama.TimeoutSeconds <= 0 {
		return ErrInvalidTimeout
	}
	if config.Chat.HistoryWindow <= 0 {
		return ErrInvalidHistoryWindow
	}
	if config.RateLimit.Requests <= 0 || config.RateLimit.WindowSeconds <= 0 {
		return ErrInvalidRateLimit
	}
	if config.Dataset.Path == "" {
		return ErrEmptyDatasetPath
	}
	return nil
}
