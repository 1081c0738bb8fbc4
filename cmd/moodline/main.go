package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundscope/moodline/internal/api"
	"github.com/soundscope/moodline/internal/config"
	"github.com/soundscope/moodline/internal/events"
	"github.com/soundscope/moodline/internal/llm"
	"github.com/soundscope/moodline/internal/pipeline"
	"github.com/soundscope/moodline/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("moodline starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// Anthropic client (optional — without it moodline generates prompts
	// but does not run block analysis itself)
	var completer llm.Completer
	if cfg.AnthropicAPIKey != "" {
		completer = llm.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		slog.Info("anthropic client ready", "model", cfg.AnthropicModel)
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set — running in prompt-only mode")
	}

	// NATS
	eventsClient, err := events.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventsClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// Pipeline
	pipe := pipeline.New(pipeline.Options{
		Transcripts:  db,
		Enrichments:  db,
		Profiles:     db,
		Sink:         db,
		Publisher:    eventsClient,
		Completer:    completer,
		FetchTimeout: cfg.FetchTimeout,
		Concurrency:  cfg.FetchConcurrency,
		Logger:       slog.Default(),
	})

	// Subscribe to stored-transcript events
	if err := eventsClient.Subscribe(events.SubjectTranscriptStored, pipe.HandleTranscriptStored); err != nil {
		slog.Error("failed to subscribe to transcript events", "error", err)
		os.Exit(1)
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, pipe)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("moodline ready", "port", cfg.Port,
		"analysis", completer != nil,
		"fetch_timeout", cfg.FetchTimeout,
		"fetch_concurrency", cfg.FetchConcurrency,
		"started_at", time.Now().UTC().Format(time.RFC3339),
	)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("moodline stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
