package services

import (
	"context"
	"errors"
)

// ErrNoResponseText indicates the provider answered but carried no usable
// text payload. Callers treat it like a timeout for retry purposes.
var ErrNoResponseText = errors.New("model response carried no text")

// GenerationRequest is one structured-output generation call.
type GenerationRequest struct {
	// SystemInstructions sets the model's role for the request.
	SystemInstructions string
	// Prompt is the user-facing generation prompt.
	Prompt string
	// Temperature is the sampling temperature for this attempt.
	Temperature float64
	// MaxTokens bounds the response size. Zero means provider default.
	MaxTokens int
	// ResponseSchema constrains output structure when the provider
	// supports a structured-output response mode.
	ResponseSchema map[string]any
}

// LLMService defines the interface for interacting with a generative
// model provider. Each call is independent: no session, no history.
type LLMService interface {
	// InitModel verifies the configured model is usable on startup.
	InitModel(ctx context.Context, modelName string) error

	// GenerateStructured issues exactly one generation call and returns
	// the raw text output. Callers enforce their own deadline
	// independently of provider-side timeouts.
	GenerateStructured(ctx context.Context, req GenerationRequest) (string, error)
}
