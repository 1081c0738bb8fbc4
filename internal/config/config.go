package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             int
	DatabaseURL      string
	NatsURL          string
	NatsToken        string
	LogLevel         string
	APIToken         string
	AnthropicAPIKey  string
	AnthropicModel   string
	FetchTimeout     time.Duration
	FetchConcurrency int
}

func Load() Config {
	return Config{
		Port:             envInt("MOODLINE_PORT", 8761),
		DatabaseURL:      envStr("DATABASE_URL", ""),
		NatsURL:          envStr("NATS_URL", "nats://localhost:4222"),
		NatsToken:        envStr("NATS_TOKEN", ""),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		APIToken:         envStr("MOODLINE_API_TOKEN", ""),
		AnthropicAPIKey:  envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   envStr("MOODLINE_MODEL", "claude-sonnet-4-20250514"),
		FetchTimeout:     time.Duration(envInt("FETCH_TIMEOUT_MS", 10000)) * time.Millisecond,
		FetchConcurrency: envInt("FETCH_CONCURRENCY", 8),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
