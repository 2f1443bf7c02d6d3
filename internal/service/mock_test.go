package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fpt/go-llmgate/pkg/llm"
)

// MockDispatcher replaces the Manager in feature-service tests.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Chat(ctx context.Context, messages []llm.ChatMessage, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	args := m.Called(ctx, messages, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.CompletionResponse), args.Error(1)
}

func (m *MockDispatcher) Complete(ctx context.Context, prompt string, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	args := m.Called(ctx, prompt, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.CompletionResponse), args.Error(1)
}

func (m *MockDispatcher) Embed(ctx context.Context, texts []string, opts llm.EmbeddingOptions) (*llm.EmbeddingResponse, error) {
	args := m.Called(ctx, texts, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.EmbeddingResponse), args.Error(1)
}

func (m *MockDispatcher) Vision(ctx context.Context, parts []llm.ContentPart, opts llm.VisionOptions) (*llm.VisionResponse, error) {
	args := m.Called(ctx, parts, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.VisionResponse), args.Error(1)
}

func completionResponse(content, finishReason string) *llm.CompletionResponse {
	return &llm.CompletionResponse{
		Content:      content,
		Model:        "test-model",
		Usage:        llm.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		FinishReason: finishReason,
		Provider:     "test",
	}
}
