package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	DefaultGeminiTemperature = 0.7
	DefaultGeminiMaxTokens   = 4096
)

// GeminiService implements LLMService for Google Gemini.
type GeminiService struct {
	apiKey     string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

type GeminiPart struct {
	Text string `json:"text"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiGenerationConfig struct {
	Temperature      *float64       `json:"temperature,omitempty"`
	MaxOutputTokens  int            `json:"maxOutputTokens,omitempty"`
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type GeminiGenerateRequest struct {
	Contents          []GeminiContent        `json:"contents"`
	SystemInstruction *GeminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  GeminiGenerationConfig `json:"generationConfig"`
}

type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type GeminiGenerateResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewGeminiService creates a new Gemini service.
func NewGeminiService(apiKey string, modelName string, logger *slog.Logger) *GeminiService {
	return &GeminiService{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			// Generous client-level cap; callers race their own
			// shorter timer against each request.
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// InitModel verifies the model exists and the key is valid.
func (g *GeminiService) InitModel(ctx context.Context, modelName string) error {
	url := fmt.Sprintf("%s/models/%s", geminiBaseURL, modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach Gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("model check failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// GenerateStructured issues one generation call with structured output
// enabled and returns the raw response text.
func (g *GeminiService) GenerateStructured(ctx context.Context, genReq GenerationRequest) (string, error) {
	temperature := genReq.Temperature
	maxTokens := genReq.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultGeminiMaxTokens
	}

	geminiReq := GeminiGenerateRequest{
		Contents: []GeminiContent{
			{Role: "user", Parts: []GeminiPart{{Text: genReq.Prompt}}},
		},
		GenerationConfig: GeminiGenerationConfig{
			Temperature:     &temperature,
			MaxOutputTokens: maxTokens,
		},
	}
	if genReq.SystemInstructions != "" {
		geminiReq.SystemInstruction = &GeminiContent{
			Parts: []GeminiPart{{Text: genReq.SystemInstructions}},
		}
	}
	if genReq.ResponseSchema != nil {
		geminiReq.GenerationConfig.ResponseMIMEType = "application/json"
		geminiReq.GenerationConfig.ResponseSchema = genReq.ResponseSchema
	}

	reqBody, err := json.Marshal(geminiReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", geminiBaseURL, g.modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var geminiResp GeminiGenerateResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if geminiResp.Error != nil {
		return "", fmt.Errorf("API error: %s", geminiResp.Error.Message)
	}

	var responseText string
	for _, candidate := range geminiResp.Candidates {
		for _, part := range candidate.Content.Parts {
			responseText += part.Text
		}
		break
	}

	if responseText == "" {
		g.logger.Warn("Gemini response carried no text",
			"model", g.modelName,
			"candidates", len(geminiResp.Candidates))
		return "", ErrNoResponseText
	}

	g.logger.Debug("Gemini generation complete",
		"model", g.modelName,
		"prompt_tokens", geminiResp.UsageMetadata.PromptTokenCount,
		"response_tokens", geminiResp.UsageMetadata.CandidatesTokenCount)

	return responseText, nil
}
