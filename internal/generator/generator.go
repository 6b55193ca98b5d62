package generator

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/nsharkey/classquest/internal/services"
	"github.com/nsharkey/classquest/pkg/game"
)

// ProgressFunc receives a user-facing stage description before each
// attempt. It is a one-way notification: callers cannot use it to alter
// in-flight behavior. It stops firing once the caller's context is
// cancelled.
type ProgressFunc func(stage string)

// Generator drives the content-to-game pipeline: preprocess, prompt,
// bounded model call, validate, and retry down the strategy ladder.
// Attempts are strictly sequential; exactly one is in flight at a time.
type Generator struct {
	llm    services.LLMService
	logger *slog.Logger
	filter *game.TextFilter

	mu  sync.Mutex // protects rnd; the generator is shared across requests
	rnd *rand.Rand

	// Strategies is the ordered retry ladder. Tests substitute their own.
	Strategies []Strategy
	// BackoffBase scales the wait between attempts by attempt index.
	BackoffBase time.Duration
}

// New creates a generator with the production strategy ladder.
func New(llm services.LLMService, logger *slog.Logger) *Generator {
	return &Generator{
		llm:         llm,
		logger:      logger,
		filter:      game.NewTextFilter(),
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		Strategies:  DefaultStrategies(),
		BackoffBase: 2 * time.Second,
	}
}

// Generate runs the retry ladder until one strategy yields a valid game
// or every strategy is exhausted. Per-attempt failures are logged, never
// surfaced; after exhaustion the caller sees one consolidated error.
// Cancellation is cooperative: a cancelled context stops progress
// notifications and suppresses the result, but an in-flight provider
// call is left to finish or time out on its own.
func (g *Generator) Generate(ctx context.Context, opts game.GenerationOptions, onProgress ProgressFunc) (*game.GameData, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	for i, strategy := range g.Strategies {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		if onProgress != nil {
			onProgress(strategy.Stage(i))
		}

		gd, err := g.attempt(ctx, opts, strategy)
		if err == nil {
			if ctx.Err() != nil {
				return nil, ErrCancelled
			}
			g.logger.Info("Game generated",
				"strategy", strategy.Label,
				"attempt", i+1,
				"code", gd.Code)
			return gd, nil
		}
		if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
			return nil, ErrCancelled
		}

		g.logger.Warn("Generation attempt failed",
			"strategy", strategy.Label,
			"attempt", i+1,
			"error", err)

		if i == len(g.Strategies)-1 {
			break
		}

		// Back off before the next rung in case the failure is
		// load-related on the provider side.
		select {
		case <-ctx.Done():
			return nil, ErrCancelled
		case <-time.After(g.BackoffBase * time.Duration(i+1)):
		}
	}

	return nil, &ExhaustionError{Attempts: len(g.Strategies)}
}

// attempt runs the full pipeline once under a single strategy.
func (g *Generator) attempt(ctx context.Context, opts game.GenerationOptions, strategy Strategy) (*game.GameData, error) {
	content := PrepareContent(opts.Content, strategy.ContentLimit)

	req := services.GenerationRequest{
		SystemInstructions: game.GenerationSystemPrompt,
		Prompt:             game.BuildGenerationPrompt(opts, content),
		Temperature:        strategy.Temperature,
		ResponseSchema:     game.ResponseSchema(),
	}

	raw, err := g.timedCall(ctx, req, strategy.Timeout)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return ParseGame(raw, opts, g.rnd, g.filter)
}

// timedCall races one provider call against a local timer. The local
// timer is authoritative: provider timeouts are not guaranteed to fire
// promptly or at all. Whichever side settles first wins; the buffered
// result channel lets the losing goroutine finish without leaking, and
// the timer is stopped on every path.
func (g *Generator) timedCall(ctx context.Context, req services.GenerationRequest, timeout time.Duration) (string, error) {
	type callResult struct {
		text string
		err  error
	}
	resultCh := make(chan callResult, 1)

	go func() {
		text, err := g.llm.GenerateStructured(ctx, req)
		resultCh <- callResult{text: text, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		if res.err != nil {
			if errors.Is(res.err, services.ErrNoResponseText) {
				return "", ErrEmptyResponse
			}
			return "", res.err
		}
		if strings.TrimSpace(res.text) == "" {
			return "", ErrEmptyResponse
		}
		return res.text, nil
	case <-timer.C:
		return "", ErrTimeout
	case <-ctx.Done():
		return "", ErrCancelled
	}
}
