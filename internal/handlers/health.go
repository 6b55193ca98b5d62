package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

type HealthResponse struct {
	Status     string         `json:"status"`
	Timestamp  time.Time      `json:"timestamp"`
	Service    string         `json:"service"`
	Components map[string]any `json:"components"`
}

type HealthHandler struct {
	redisClient *redis.Client
	llmProvider string
	logger      *slog.Logger
}

func NewHealthHandler(redisClient *redis.Client, llmProvider string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		redisClient: redisClient,
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]any)
	overallStatus := "healthy"

	// The model is verified at startup via InitModel; report which
	// provider is serving without a per-request round trip.
	components["llm"] = h.llmProvider

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.logger.Warn("Redis health check failed", "error", err)
		components["events"] = "unhealthy"
		overallStatus = "degraded"
	} else {
		components["events"] = "healthy"
	}

	response := HealthResponse{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Service:    "classquest-api",
		Components: components,
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding health response",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
