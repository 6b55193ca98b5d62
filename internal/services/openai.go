package services

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultOpenAIMaxTokens = 4096

// OpenAIService implements LLMService for OpenAI chat models.
type OpenAIService struct {
	client    *openai.Client
	modelName string
	logger    *slog.Logger
}

// NewOpenAIService creates a new OpenAI service.
func NewOpenAIService(apiKey string, modelName string, logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		client:    openai.NewClient(apiKey),
		modelName: modelName,
		logger:    logger,
	}
}

// InitModel verifies the key works and the model is listed.
func (o *OpenAIService) InitModel(ctx context.Context, modelName string) error {
	models, err := o.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	for _, m := range models.Models {
		if m.ID == modelName {
			return nil
		}
	}
	// Some deployments alias model names; warn rather than fail hard.
	o.logger.Warn("Model not present in models list", "model", modelName)
	return nil
}

// GenerateStructured issues one chat completion in JSON mode and returns
// the raw response text. OpenAI's JSON mode does not take a schema
// directly, so the schema travels in the prompt and output is still
// validated locally.
func (o *OpenAIService) GenerateStructured(ctx context.Context, genReq GenerationRequest) (string, error) {
	maxTokens := genReq.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultOpenAIMaxTokens
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: genReq.SystemInstructions},
		{Role: openai.ChatMessageRoleUser, Content: genReq.Prompt},
	}

	req := openai.ChatCompletionRequest{
		Model:       o.modelName,
		Messages:    messages,
		Temperature: float32(genReq.Temperature),
		MaxTokens:   maxTokens,
	}
	if genReq.ResponseSchema != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoResponseText
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", ErrNoResponseText
	}

	o.logger.Debug("OpenAI generation complete",
		"model", o.modelName,
		"prompt_tokens", resp.Usage.PromptTokens,
		"response_tokens", resp.Usage.CompletionTokens)

	return content, nil
}
