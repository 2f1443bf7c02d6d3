// Package adapter constructs and caches provider adapters. It is the single
// place that knows which concrete adapter serves which provider type.
package adapter

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/fpt/go-llmgate/pkg/adapter/anthropic"
	"github.com/fpt/go-llmgate/pkg/adapter/gemini"
	"github.com/fpt/go-llmgate/pkg/adapter/ollama"
	"github.com/fpt/go-llmgate/pkg/adapter/openai"
	"github.com/fpt/go-llmgate/pkg/llm"
	"github.com/fpt/go-llmgate/pkg/logger"
)

// ProviderStatus describes one configured provider and whether an adapter
// can currently be built for it.
type ProviderStatus struct {
	Provider  llm.Provider `json:"provider"`
	Available bool         `json:"available"`
	Reason    string       `json:"reason,omitempty"`
}

// Registry resolves provider records to ready adapters. Adapter instances
// are cached per provider name; the registry also owns the process-wide
// default provider.
type Registry struct {
	mu          sync.RWMutex
	providers   map[string]llm.Provider
	adapters    map[string]llm.Adapter
	defaultName string
	withBreaker bool
	log         *logger.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithCircuitBreaker wraps every constructed adapter in a per-provider
// circuit breaker so a failing vendor is cut off instead of hammered.
func WithCircuitBreaker() Option {
	return func(r *Registry) { r.withBreaker = true }
}

// NewRegistry builds a registry from the configured provider records. The
// first record flagged default (or the first record) becomes the default
// provider.
func NewRegistry(providers []llm.Provider, opts ...Option) *Registry {
	r := &Registry{
		providers: make(map[string]llm.Provider, len(providers)),
		adapters:  make(map[string]llm.Adapter),
		log:       logger.NewComponentLogger("registry"),
	}
	for _, p := range providers {
		r.providers[p.Name] = p
		if r.defaultName == "" || p.Default {
			r.defaultName = p.Name
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AdapterFor returns a ready adapter for the named provider, constructing
// and caching it on first use.
func (r *Registry) AdapterFor(name string) (llm.Adapter, error) {
	r.mu.RLock()
	if a, ok := r.adapters[name]; ok {
		r.mu.RUnlock()
		return a, nil
	}
	provider, ok := r.providers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}

	a, err := r.newAdapter(provider)
	if err != nil {
		return nil, err
	}
	if r.withBreaker {
		a = wrapWithBreaker(a)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another goroutine may have raced us here; keep the first instance.
	if existing, ok := r.adapters[name]; ok {
		return existing, nil
	}
	r.adapters[name] = a
	r.log.Debug("adapter constructed", "provider", name, "type", provider.Type)
	return a, nil
}

// newAdapter dispatches on the provider type tag.
func (r *Registry) newAdapter(provider llm.Provider) (llm.Adapter, error) {
	switch provider.Type {
	case llm.ProviderOpenAI:
		return openai.New(provider)
	case llm.ProviderAnthropic:
		return anthropic.New(provider)
	case llm.ProviderGemini:
		return gemini.New(provider)
	case llm.ProviderOllama:
		return ollama.New(provider)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", provider.Type)
	}
}

// DefaultProvider returns the adapter for the registry's default provider.
func (r *Registry) DefaultProvider() (llm.Adapter, error) {
	r.mu.RLock()
	name := r.defaultName
	r.mu.RUnlock()
	if name == "" {
		return nil, llm.ErrNoProvider
	}
	return r.AdapterFor(name)
}

// DefaultProviderName returns the configured default provider's name.
func (r *Registry) DefaultProviderName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName
}

// SetDefaultProvider changes the registry default.
func (r *Registry) SetDefaultProvider(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("unknown provider: %s", name)
	}
	r.defaultName = name
	return nil
}

// AvailableProviders lists the names of providers that carry the credentials
// required to build an adapter.
func (r *Registry) AvailableProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for name, p := range r.providers {
		if hasCredentials(p) {
			names = append(names, name)
		}
	}
	return names
}

// ProviderList reports every configured provider, flagging those that are
// configured but not credentialed as unavailable.
func (r *Registry) ProviderList() []ProviderStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	statuses := make([]ProviderStatus, 0, len(r.providers))
	for _, p := range r.providers {
		status := ProviderStatus{Provider: p, Available: hasCredentials(p)}
		if !status.Available {
			status.Reason = "missing credentials"
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// AdapterFromModel resolves the model's parent provider and returns a ready
// adapter bound to that provider's endpoint and credentials. Configuration
// driven calls use this path so the correct vendor endpoint is always hit.
func (r *Registry) AdapterFromModel(model llm.Model) (llm.Adapter, error) {
	if model.ProviderName == "" {
		return nil, fmt.Errorf("model %s has no provider", model.ID)
	}
	return r.AdapterFor(model.ProviderName)
}

// TestProvider runs a diagnostic connection test against one provider.
// Failures are reported in the result, never propagated.
func (r *Registry) TestProvider(ctx context.Context, name string) llm.ConnectionTestResult {
	a, err := r.AdapterFor(name)
	if err != nil {
		return llm.ConnectionTestResult{Success: false, Message: err.Error()}
	}
	return a.TestConnection(ctx)
}

// hasCredentials reports whether enough configuration exists to build an
// adapter without erroring. Ollama needs no credential.
func hasCredentials(p llm.Provider) bool {
	if p.APIKey != "" {
		return true
	}
	switch p.Type {
	case llm.ProviderOllama:
		return true
	case llm.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY") != ""
	case llm.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY") != ""
	case llm.ProviderGemini:
		return os.Getenv("GEMINI_API_KEY") != ""
	default:
		return false
	}
}
