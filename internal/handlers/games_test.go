package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/nsharkey/classquest/internal/generator"
	"github.com/nsharkey/classquest/internal/services"
	"github.com/nsharkey/classquest/internal/services/events"
	"github.com/nsharkey/classquest/pkg/game"
)

// MockGenerator implements GameGenerator for testing.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, opts game.GenerationOptions, onProgress generator.ProgressFunc) (*game.GameData, error)
	Calls        []game.GenerationOptions
}

func (m *MockGenerator) Generate(ctx context.Context, opts game.GenerationOptions, onProgress generator.ProgressFunc) (*game.GameData, error) {
	m.Calls = append(m.Calls, opts)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, opts, onProgress)
	}
	return sampleGame(), nil
}

func sampleGame() *game.GameData {
	var payload struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Theme       game.Theme      `json:"theme"`
		Questions   []game.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(services.MockGameJSON), &payload); err != nil {
		panic(err)
	}
	return &game.GameData{
		Code:        "QZT42K",
		IsEngine:    true,
		Title:       payload.Title,
		Description: payload.Description,
		Theme:       payload.Theme,
		Questions:   payload.Questions,
	}
}

func setupGamesTest(t *testing.T) (*events.Broadcaster, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return events.NewBroadcaster(client, logger), func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestGamesHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	validBody := GenerateGameRequest{
		Content:   "The water cycle moves water between land, sea, and sky.",
		Objective: "Describe the stages of the water cycle",
		Taxonomy:  "understand",
		Mode:      "engine",
	}

	tests := []struct {
		name           string
		method         string
		body           any
		mockSetup      func(*MockGenerator)
		expectedStatus int
		expectedError  string
		checkGame      func(*testing.T, *game.GameData)
	}{
		{
			name:           "successful generation",
			method:         http.MethodPost,
			body:           validBody,
			expectedStatus: http.StatusOK,
			checkGame: func(t *testing.T, gd *game.GameData) {
				assert.Equal(t, "QZT42K", gd.Code)
				assert.True(t, gd.IsEngine)
				assert.Len(t, gd.Questions, game.QuestionCount)
			},
		},
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			body:           nil,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed",
		},
		{
			name:           "invalid json body",
			method:         http.MethodPost,
			body:           "{not json",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:   "missing objective",
			method: http.MethodPost,
			body: GenerateGameRequest{
				Content: "some material",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "objective",
		},
		{
			name:   "unknown taxonomy level",
			method: http.MethodPost,
			body: GenerateGameRequest{
				Content:   "some material",
				Objective: "learn something",
				Taxonomy:  "memorize",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "taxonomy",
		},
		{
			name:   "exhaustion surfaces one consolidated message",
			method: http.MethodPost,
			body:   validBody,
			mockSetup: func(m *MockGenerator) {
				m.GenerateFunc = func(ctx context.Context, opts game.GenerationOptions, onProgress generator.ProgressFunc) (*game.GameData, error) {
					return nil, &generator.ExhaustionError{Attempts: 3}
				}
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  generator.ExhaustedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broadcaster, cleanup := setupGamesTest(t)
			defer cleanup()

			mockGen := &MockGenerator{}
			if tt.mockSetup != nil {
				tt.mockSetup(mockGen)
			}
			handler := NewGamesHandler(mockGen, broadcaster, logger)

			var bodyBytes []byte
			switch b := tt.body.(type) {
			case string:
				bodyBytes = []byte(b)
			case nil:
			default:
				var err error
				bodyBytes, err = json.Marshal(b)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(tt.method, "/v1/games", bytes.NewReader(bodyBytes))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedError != "" {
				var errResp ErrorResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Contains(t, errResp.Error, tt.expectedError)
				return
			}

			var gd game.GameData
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gd))
			if tt.checkGame != nil {
				tt.checkGame(t, &gd)
			}
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestGamesHandlerPreservesRequestID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	broadcaster, cleanup := setupGamesTest(t)
	defer cleanup()

	handler := NewGamesHandler(&MockGenerator{}, broadcaster, logger)

	body, _ := json.Marshal(GenerateGameRequest{
		Content:   "material",
		Objective: "objective",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/games", bytes.NewReader(body))
	req.Header.Set("X-Request-ID", "11111111-2222-3333-4444-555555555555")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", rec.Header().Get("X-Request-ID"))
}
