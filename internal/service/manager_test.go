package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fpt/go-llmgate/internal/config"
	"github.com/fpt/go-llmgate/pkg/adapter"
	"github.com/fpt/go-llmgate/pkg/llm"
)

func TestChatRejectsInvalidOptions(t *testing.T) {
	m := NewManager(adapter.NewRegistry(nil), nil, nil)

	_, err := m.Chat(context.Background(), []llm.ChatMessage{llm.NewUserMessage("hi")}, llm.ChatOptions{
		Temperature: llm.Float(3.5),
	})
	assert.True(t, llm.IsValidationError(err))
}

func TestChatNoProviderAvailable(t *testing.T) {
	m := NewManager(adapter.NewRegistry(nil), nil, nil)

	_, err := m.Chat(context.Background(), []llm.ChatMessage{llm.NewUserMessage("hi")}, llm.ChatOptions{})
	assert.ErrorIs(t, err, llm.ErrNoProvider)
}

func TestChatUnknownProvider(t *testing.T) {
	registry := adapter.NewRegistry([]llm.Provider{
		{Name: "local", Type: llm.ProviderOllama, Endpoint: "http://localhost:11434"},
	})
	m := NewManager(registry, nil, nil)

	_, err := m.Chat(context.Background(), []llm.ChatMessage{llm.NewUserMessage("hi")}, llm.ChatOptions{
		Provider: "nope",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestCompleteWithConfigurationQuotaRejection(t *testing.T) {
	registry := adapter.NewRegistry([]llm.Provider{
		{Name: "local", Type: llm.ProviderOllama, Endpoint: "http://localhost:11434"},
	})
	cfg := llm.Configuration{
		ID:                "limited",
		ProviderName:      "local",
		MaxRequestsPerDay: 1,
	}
	accounting := NewMemoryAccounting([]llm.Configuration{cfg})
	// Exhaust the single allowed request up front.
	assert.NoError(t, accounting.RecordUsage(context.Background(), "limited", 100, 0.01))

	m := NewManager(registry, &config.Settings{}, accounting)

	_, err := m.CompleteWithConfiguration(context.Background(), "hello", cfg)
	assert.True(t, llm.IsQuotaError(err))
	assert.False(t, llm.IsProviderError(err))
	assert.Contains(t, err.Error(), "limited")
}

func TestBuildMessages(t *testing.T) {
	messages := buildMessages("hello", "")
	if assert.Len(t, messages, 1) {
		assert.Equal(t, llm.RoleUser, messages[0].Role)
	}

	messages = buildMessages("hello", "be terse")
	if assert.Len(t, messages, 2) {
		assert.Equal(t, llm.RoleSystem, messages[0].Role)
		assert.Equal(t, "be terse", messages[0].Content)
		assert.Equal(t, llm.RoleUser, messages[1].Role)
	}
}
