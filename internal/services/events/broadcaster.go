package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeGenerationStage     EventType = "generation.stage"
	EventTypeGenerationCompleted EventType = "generation.completed"
	EventTypeGenerationFailed    EventType = "generation.failed"
)

// Event is one progress notification for a generation request.
type Event struct {
	Type      EventType      `json:"type"`
	RequestID string         `json:"request_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// ChannelName returns the pub/sub channel for a generation request.
func ChannelName(requestID string) string {
	return fmt.Sprintf("generation:%s", requestID)
}

// Broadcaster publishes generation progress to Redis Pub/Sub for SSE
// distribution. Progress is one-way: subscribers cannot use it to alter
// in-flight behavior.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster.
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishStage publishes a user-facing stage description before an attempt.
func (b *Broadcaster) PublishStage(ctx context.Context, requestID string, stage string) error {
	return b.publish(ctx, Event{
		Type:      EventTypeGenerationStage,
		RequestID: requestID,
		Data: map[string]any{
			"stage": stage,
		},
	})
}

// PublishCompleted publishes the terminal success event.
func (b *Broadcaster) PublishCompleted(ctx context.Context, requestID string, gameCode string) error {
	return b.publish(ctx, Event{
		Type:      EventTypeGenerationCompleted,
		RequestID: requestID,
		Data: map[string]any{
			"code": gameCode,
		},
	})
}

// PublishFailed publishes the terminal failure event with the single
// consolidated user-facing message.
func (b *Broadcaster) PublishFailed(ctx context.Context, requestID string, message string) error {
	return b.publish(ctx, Event{
		Type:      EventTypeGenerationFailed,
		RequestID: requestID,
		Data: map[string]any{
			"message": message,
		},
	})
}

func (b *Broadcaster) publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := ChannelName(event.RequestID)
	if err := b.redisClient.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", channel, err)
	}

	b.logger.Debug("Published event",
		"channel", channel,
		"type", string(event.Type))
	return nil
}
