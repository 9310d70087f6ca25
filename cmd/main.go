package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"intersect_api/internal/clients/ollama"
	"intersect_api/internal/config"
	"intersect_api/internal/dataset"
	"intersect_api/internal/handlers"
	"intersect_api/internal/hints"
	"intersect_api/internal/middleware"
	"intersect_api/internal/routes"
	"intersect_api/internal/services"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading configuration")
	}
	logger = newLogger(cfg.Log)

	ds, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Dataset.Path).Msg("loading dataset")
	}
	logger.Info().Int("entries", ds.Size()).Int("categories", len(ds.Categories())).Msg("loaded knowledge dataset")

	client := ollama.NewClient(ollama.Config{
		URL:   cfg.Ollama.URL,
		Model: cfg.Ollama.Model,
	})

	// The service boots even when the model server is down; health
	// reports degraded until it comes back.
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := client.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("inference server unreachable, starting degraded")
	} else {
		logger.Info().Str("model", cfg.Ollama.Model).Msg("connected to inference server")
	}
	cancelPing()

	overlay := hints.New(ds.HintRules())
	stats := services.NewStatsService()
	conversations := services.NewConversationService(cfg, client, ds, overlay, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	conversations.StartEviction(ctx)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window())
	middleware.Setup(r, cfg, logger, limiter, stats)

	chatHandler := handlers.NewChatHandler(conversations, stats, logger)
	healthHandler := handlers.NewHealthHandler(client, ds, stats, conversations)
	wsHandler := handlers.NewWSHandler(conversations, logger)
	routes.RegisterRoutes(r, chatHandler, healthHandler, wsHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("The Intersect API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
