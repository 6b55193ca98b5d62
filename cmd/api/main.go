package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nsharkey/classquest/internal/config"
	"github.com/nsharkey/classquest/internal/generator"
	"github.com/nsharkey/classquest/internal/handlers"
	"github.com/nsharkey/classquest/internal/logger"
	"github.com/nsharkey/classquest/internal/middleware"
	"github.com/nsharkey/classquest/internal/services"
	"github.com/nsharkey/classquest/internal/services/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting ClassQuest API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Error("Gemini API key is required when using gemini provider")
			os.Exit(1)
		}
		llmService = services.NewGeminiService(cfg.GeminiAPIKey, cfg.ModelName, log)
		log.Info("Using Gemini LLM provider")
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Error("OpenAI API key is required when using openai provider")
			os.Exit(1)
		}
		llmService = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.ModelName, log)
		log.Info("Using OpenAI LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"gemini", "openai"})
		os.Exit(1)
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer initCancel()
	if err := llmService.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Error("Invalid redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer pingCancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established successfully")

	broadcaster := events.NewBroadcaster(redisClient, log)
	gameGenerator := generator.New(llmService, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(redisClient, cfg.LLMProvider, log)
	mux.Handle("/health", healthHandler)

	gamesHandler := handlers.NewGamesHandler(gameGenerator, broadcaster, log)
	mux.Handle("/v1/games", gamesHandler)

	uploadsHandler := handlers.NewUploadsHandler(cfg.MaxUploadBytes, log)
	mux.Handle("/v1/uploads", uploadsHandler)

	eventsHandler := handlers.NewEventsHandler(redisClient, log)
	mux.Handle("/v1/games/events", eventsHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout stays unset so the SSE endpoint can stream; it
		// manages its own lifecycle
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing redis connection", "error", err)
	}

	log.Info("Server exited")
}
