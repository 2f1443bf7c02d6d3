package adapter

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/fpt/go-llmgate/pkg/llm"
	"github.com/fpt/go-llmgate/pkg/logger"
)

// breakerAdapter wraps an adapter's network operations in a circuit breaker
// so a persistently failing vendor trips open instead of absorbing every
// call's timeout. Diagnostic and metadata operations pass through.
type breakerAdapter struct {
	llm.Adapter
	breaker *gobreaker.CircuitBreaker
}

func wrapWithBreaker(inner llm.Adapter) llm.Adapter {
	log := logger.NewComponentLogger("breaker").WithProvider(inner.Provider())
	settings := gobreaker.Settings{
		Name:        inner.Provider(),
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// Validation errors are the caller's fault, not the vendor's.
			return err == nil || llm.IsValidationError(err)
		},
	}
	return &breakerAdapter{
		Adapter: inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *breakerAdapter) Complete(ctx context.Context, messages []llm.ChatMessage, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.Adapter.Complete(ctx, messages, opts)
	})
	if err != nil {
		return nil, err
	}
	return result.(*llm.CompletionResponse), nil
}

func (b *breakerAdapter) Embed(ctx context.Context, texts []string, opts llm.EmbeddingOptions) (*llm.EmbeddingResponse, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.Adapter.Embed(ctx, texts, opts)
	})
	if err != nil {
		return nil, err
	}
	return result.(*llm.EmbeddingResponse), nil
}

func (b *breakerAdapter) Vision(ctx context.Context, parts []llm.ContentPart, opts llm.VisionOptions) (*llm.VisionResponse, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.Adapter.Vision(ctx, parts, opts)
	})
	if err != nil {
		return nil, err
	}
	return result.(*llm.VisionResponse), nil
}
