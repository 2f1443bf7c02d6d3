// Package service contains the orchestration layer: the Manager that resolves
// adapters and enforces quotas, and the feature services built on top of it.
package service

import (
	"context"

	"github.com/fpt/go-llmgate/internal/config"
	"github.com/fpt/go-llmgate/pkg/adapter"
	"github.com/fpt/go-llmgate/pkg/llm"
	"github.com/fpt/go-llmgate/pkg/logger"
)

// QuotaStatus is the answer to a quota check.
type QuotaStatus struct {
	WithinLimits bool
	Reason       string
}

// Accounting is the external usage-counter contract. Implementations must
// increment counters atomically per configuration.
type Accounting interface {
	CheckQuota(ctx context.Context, configurationID string) (QuotaStatus, error)
	RecordUsage(ctx context.Context, configurationID string, tokensUsed int, cost float64) error
}

// Dispatcher is the slice of the Manager the feature services depend on.
type Dispatcher interface {
	Chat(ctx context.Context, messages []llm.ChatMessage, opts llm.ChatOptions) (*llm.CompletionResponse, error)
	Complete(ctx context.Context, prompt string, opts llm.ChatOptions) (*llm.CompletionResponse, error)
	Embed(ctx context.Context, texts []string, opts llm.EmbeddingOptions) (*llm.EmbeddingResponse, error)
	Vision(ctx context.Context, parts []llm.ContentPart, opts llm.VisionOptions) (*llm.VisionResponse, error)
}

// Manager is the single entry point feature services call. It resolves the
// target adapter, applies configuration defaults, enforces quota ceilings and
// reports usage.
type Manager struct {
	registry   *adapter.Registry
	settings   *config.Settings
	accounting Accounting
	log        *logger.Logger
}

// NewManager creates a manager. accounting may be nil, in which case no quota
// is enforced and no usage is recorded.
func NewManager(registry *adapter.Registry, settings *config.Settings, accounting Accounting) *Manager {
	return &Manager{
		registry:   registry,
		settings:   settings,
		accounting: accounting,
		log:        logger.NewComponentLogger("manager"),
	}
}

// Registry exposes the underlying adapter registry for discovery and
// connection testing.
func (m *Manager) Registry() *adapter.Registry { return m.registry }

// Chat validates the options, resolves an adapter and dispatches a chat
// conversation.
func (m *Manager) Chat(ctx context.Context, messages []llm.ChatMessage, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a, err := m.resolveAdapter(opts.Provider)
	if err != nil {
		return nil, err
	}
	m.log.Debug("dispatching chat", "provider", a.Provider(), "messages", len(messages))
	return a.Complete(ctx, messages, opts)
}

// Complete builds a message list from a single prompt (optional system
// message first, then one user message) and dispatches it.
func (m *Manager) Complete(ctx context.Context, prompt string, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	return m.Chat(ctx, buildMessages(prompt, opts.SystemPrompt), opts)
}

// Embed validates the options, resolves an adapter and dispatches an
// embedding request.
func (m *Manager) Embed(ctx context.Context, texts []string, opts llm.EmbeddingOptions) (*llm.EmbeddingResponse, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a, err := m.resolveAdapter(opts.Provider)
	if err != nil {
		return nil, err
	}
	m.log.Debug("dispatching embed", "provider", a.Provider(), "texts", len(texts))
	return a.Embed(ctx, texts, opts)
}

// Vision validates the options, resolves an adapter and dispatches an
// image-analysis request.
func (m *Manager) Vision(ctx context.Context, parts []llm.ContentPart, opts llm.VisionOptions) (*llm.VisionResponse, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a, err := m.resolveAdapter(opts.Provider)
	if err != nil {
		return nil, err
	}
	m.log.Debug("dispatching vision", "provider", a.Provider())
	return a.Vision(ctx, parts, opts)
}

// CompleteWithConfiguration completes a prompt under a stored configuration:
// the configuration's defaults fill unset option fields, its model binds the
// adapter, quota ceilings are checked before dispatch and usage is reported
// after success.
func (m *Manager) CompleteWithConfiguration(ctx context.Context, prompt string, cfg llm.Configuration) (*llm.CompletionResponse, error) {
	opts := cfg.Defaults

	var model llm.Model
	var haveModel bool
	if cfg.ModelID != "" && m.settings != nil {
		model, haveModel = m.settings.FindModel(cfg.ModelID)
	}

	a, err := m.resolveConfiguredAdapter(cfg, model, haveModel)
	if err != nil {
		return nil, err
	}
	if opts.Model == "" && haveModel {
		opts.Model = model.Name
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if cfg.HasLimits() && m.accounting != nil {
		status, err := m.accounting.CheckQuota(ctx, cfg.ID)
		if err != nil {
			return nil, err
		}
		if !status.WithinLimits {
			return nil, &llm.QuotaError{ConfigurationID: cfg.ID, Reason: status.Reason}
		}
	}

	resp, err := a.Complete(ctx, buildMessages(prompt, opts.SystemPrompt), opts)
	if err != nil {
		return nil, err
	}

	if m.accounting != nil && cfg.ID != "" {
		cost := 0.0
		if haveModel {
			cost = float64(resp.Usage.PromptTokens)*model.CostInputPerToken +
				float64(resp.Usage.CompletionTokens)*model.CostOutputPerToken
		}
		if err := m.accounting.RecordUsage(ctx, cfg.ID, resp.Usage.TotalTokens, cost); err != nil {
			m.log.Warn("failed to record usage", "configuration", cfg.ID, "error", err)
		}
	}
	return resp, nil
}

// resolveAdapter picks an adapter for an explicit provider name, falling back
// to the registry default.
func (m *Manager) resolveAdapter(provider string) (llm.Adapter, error) {
	if provider != "" {
		return m.registry.AdapterFor(provider)
	}
	return m.registry.DefaultProvider()
}

// resolveConfiguredAdapter resolves through a configuration: its model's
// parent provider first, then its provider name, then the registry default.
func (m *Manager) resolveConfiguredAdapter(cfg llm.Configuration, model llm.Model, haveModel bool) (llm.Adapter, error) {
	if haveModel {
		return m.registry.AdapterFromModel(model)
	}
	if cfg.ProviderName != "" {
		return m.registry.AdapterFor(cfg.ProviderName)
	}
	return m.registry.DefaultProvider()
}

// buildMessages constructs the canonical message list for a single prompt.
func buildMessages(prompt, systemPrompt string) []llm.ChatMessage {
	var messages []llm.ChatMessage
	if systemPrompt != "" {
		messages = append(messages, llm.NewSystemMessage(systemPrompt))
	}
	return append(messages, llm.NewUserMessage(prompt))
}
