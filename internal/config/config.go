package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// LLMProvider selects the generative model backend: gemini or openai.
	LLMProvider  string
	GeminiAPIKey string
	OpenAIAPIKey string
	ModelName    string

	// RedisURL is the pub/sub backend for progress events.
	RedisURL string

	// MaxUploadBytes caps how much of an uploaded document is scanned.
	MaxUploadBytes int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LLMProvider:  getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		ModelName:    getEnv("MODEL_NAME", "gemini-2.0-flash"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
	}

	maxUpload := getEnv("MAX_UPLOAD_BYTES", "524288")
	n, err := strconv.ParseInt(maxUpload, 10, 64)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %q", maxUpload)
	}
	cfg.MaxUploadBytes = n

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
