package services

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewGeminiService(t *testing.T) {
	apiKey := "test-api-key"
	modelName := "test-model"

	service := NewGeminiService(apiKey, modelName, testLogger())

	if service.apiKey != apiKey {
		t.Errorf("Expected apiKey %s, got %s", apiKey, service.apiKey)
	}
	if service.modelName != modelName {
		t.Errorf("Expected modelName %s, got %s", modelName, service.modelName)
	}
	if service.httpClient == nil {
		t.Error("Expected httpClient to be initialized")
	}
}

func TestGeminiRequestStructure(t *testing.T) {
	temperature := 0.8
	req := GeminiGenerateRequest{
		Contents: []GeminiContent{
			{Role: "user", Parts: []GeminiPart{{Text: "Generate a quiz"}}},
		},
		SystemInstruction: &GeminiContent{
			Parts: []GeminiPart{{Text: "You are a quiz writer"}},
		},
		GenerationConfig: GeminiGenerationConfig{
			Temperature:      &temperature,
			MaxOutputTokens:  1024,
			ResponseMIMEType: "application/json",
			ResponseSchema:   map[string]any{"type": "object"},
		},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal request: %v", err)
	}

	if _, ok := decoded["systemInstruction"]; !ok {
		t.Error("Expected systemInstruction in request")
	}
	cfg, ok := decoded["generationConfig"].(map[string]any)
	if !ok {
		t.Fatal("Expected generationConfig object")
	}
	if cfg["responseMimeType"] != "application/json" {
		t.Errorf("Expected application/json mime type, got %v", cfg["responseMimeType"])
	}
	if _, ok := cfg["responseSchema"]; !ok {
		t.Error("Expected responseSchema in generation config")
	}
}

func TestGeminiResponseParsing(t *testing.T) {
	body := `{
		"candidates": [
			{"content": {"role": "model", "parts": [{"text": "{\"title\":\"T\"}"}]}, "finishReason": "STOP"}
		],
		"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
	}`

	var resp GeminiGenerateResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if len(resp.Candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(resp.Candidates))
	}
	if resp.Candidates[0].Content.Parts[0].Text != `{"title":"T"}` {
		t.Errorf("Unexpected candidate text: %s", resp.Candidates[0].Content.Parts[0].Text)
	}
	if resp.UsageMetadata.TotalTokenCount != 15 {
		t.Errorf("Expected 15 total tokens, got %d", resp.UsageMetadata.TotalTokenCount)
	}
}
