package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/nsharkey/classquest/internal/generator"
	"github.com/nsharkey/classquest/internal/services/events"
	"github.com/nsharkey/classquest/pkg/game"
)

// ErrorResponse is the JSON error body shared by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GameGenerator runs the content-to-game pipeline. Satisfied by
// *generator.Generator; mocked in tests.
type GameGenerator interface {
	Generate(ctx context.Context, opts game.GenerationOptions, onProgress generator.ProgressFunc) (*game.GameData, error)
}

// GenerateGameRequest is the request body for POST /v1/games.
type GenerateGameRequest struct {
	Content            string   `json:"content"`
	Objective          string   `json:"objective"`
	Taxonomy           string   `json:"taxonomy,omitempty"`
	Mode               string   `json:"mode,omitempty"`
	PreferredGenre     string   `json:"preferred_genre,omitempty"`
	MechanicsToInclude []string `json:"mechanics_to_include,omitempty"`
	MechanicsToAvoid   []string `json:"mechanics_to_avoid,omitempty"`
}

// GamesHandler handles game generation requests.
type GamesHandler struct {
	generator   GameGenerator
	broadcaster *events.Broadcaster
	logger      *slog.Logger
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(gen GameGenerator, broadcaster *events.Broadcaster, logger *slog.Logger) *GamesHandler {
	return &GamesHandler{
		generator:   gen,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// ServeHTTP handles POST /v1/games. The generated game is returned to
// the caller and not stored server-side; the play client owns it for the
// duration of the session.
func (h *GamesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for games endpoint",
			"method", r.Method,
			"path", r.URL.Path)
		w.WriteHeader(http.StatusMethodNotAllowed)
		h.encode(w, ErrorResponse{Error: "Method not allowed. Only POST is supported."})
		return
	}

	var request GenerateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		h.encode(w, ErrorResponse{Error: "Invalid request body. Expected JSON with 'content' and 'objective' fields."})
		return
	}

	opts, err := h.buildOptions(request)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.encode(w, ErrorResponse{Error: err.Error()})
		return
	}

	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}
	w.Header().Set("X-Request-ID", requestID)

	log := h.logger.With("request_id", requestID)
	log.Info("Game generation requested",
		"content_chars", len(opts.Content),
		"mode", string(opts.Mode),
		"taxonomy", string(opts.Taxonomy))

	ctx := r.Context()
	onProgress := func(stage string) {
		if err := h.broadcaster.PublishStage(ctx, requestID, stage); err != nil {
			log.Warn("Failed to publish progress", "error", err)
		}
	}

	gd, err := h.generator.Generate(ctx, opts, onProgress)
	if err != nil {
		h.handleGenerationError(w, log, requestID, err)
		return
	}

	if err := h.broadcaster.PublishCompleted(context.WithoutCancel(ctx), requestID, gd.Code); err != nil {
		log.Warn("Failed to publish completion", "error", err)
	}

	log.Info("Game generation succeeded", "code", gd.Code)
	h.encode(w, gd)
}

func (h *GamesHandler) buildOptions(request GenerateGameRequest) (game.GenerationOptions, error) {
	taxonomy, err := game.ParseTaxonomyLevel(request.Taxonomy)
	if err != nil {
		return game.GenerationOptions{}, err
	}
	mode, err := game.ParseMode(request.Mode)
	if err != nil {
		return game.GenerationOptions{}, err
	}

	opts := game.GenerationOptions{
		Content:            request.Content,
		Objective:          request.Objective,
		Taxonomy:           taxonomy,
		Mode:               mode,
		PreferredGenre:     game.Theme(request.PreferredGenre),
		MechanicsToInclude: request.MechanicsToInclude,
		MechanicsToAvoid:   request.MechanicsToAvoid,
	}
	if err := opts.Validate(); err != nil {
		return game.GenerationOptions{}, err
	}
	return opts, nil
}

func (h *GamesHandler) handleGenerationError(w http.ResponseWriter, log *slog.Logger, requestID string, err error) {
	if errors.Is(err, generator.ErrCancelled) {
		// The caller went away; there is nobody to answer.
		log.Info("Game generation cancelled by caller")
		return
	}

	var exhausted *generator.ExhaustionError
	if errors.As(err, &exhausted) {
		log.Warn("Game generation exhausted all strategies", "attempts", exhausted.Attempts)
		if err := h.broadcaster.PublishFailed(context.Background(), requestID, generator.ExhaustedMessage); err != nil {
			log.Warn("Failed to publish failure", "error", err)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		h.encode(w, ErrorResponse{Error: generator.ExhaustedMessage})
		return
	}

	// Anything else is a bad request the orchestrator refused up front.
	log.Warn("Game generation rejected", "error", err)
	w.WriteHeader(http.StatusBadRequest)
	h.encode(w, ErrorResponse{Error: err.Error()})
}

func (h *GamesHandler) encode(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", "error", err)
	}
}
