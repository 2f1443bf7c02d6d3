package adapter

import (
	"context"

	"github.com/fpt/go-llmgate/pkg/adapter/ollama"
	"github.com/fpt/go-llmgate/pkg/adapter/openai"
	"github.com/fpt/go-llmgate/pkg/llm"
)

// Discovery queries a provider's API for its model catalog. Setup tooling
// uses it to seed model records; the registry uses it for connection tests.
type Discovery struct {
	registry *Registry
}

// NewDiscovery creates a Discovery backed by the given registry.
func NewDiscovery(registry *Registry) *Discovery {
	return &Discovery{registry: registry}
}

// Discover lists the provider's models and annotates them with capability
// and limit metadata from the static per-vendor tables. Unknown models get
// conservative defaults.
func (d *Discovery) Discover(ctx context.Context, provider llm.Provider) ([]llm.DiscoveredModel, error) {
	a, err := d.registry.AdapterFor(provider.Name)
	if err != nil {
		return nil, err
	}

	ids, err := a.AvailableModels(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]llm.DiscoveredModel, 0, len(ids))
	for _, id := range ids {
		models = append(models, describeModel(provider.Type, id, a))
	}
	return models, nil
}

// TestConnection probes the provider's API and returns a structured result.
func (d *Discovery) TestConnection(ctx context.Context, provider llm.Provider) llm.ConnectionTestResult {
	return d.registry.TestProvider(ctx, provider.Name)
}

// describeModel assembles a DiscoveredModel from the adapter's capability
// flags plus the vendor's static model spec table where one exists.
func describeModel(providerType, id string, a llm.Adapter) llm.DiscoveredModel {
	model := llm.DiscoveredModel{
		ModelID: id,
		Name:    id,
	}

	for _, f := range []llm.Feature{
		llm.FeatureChat, llm.FeatureEmbeddings, llm.FeatureVision,
		llm.FeatureStreaming, llm.FeatureTools, llm.FeatureJSONMode, llm.FeatureAudio,
	} {
		if a.SupportsFeature(f) {
			model.Capabilities = append(model.Capabilities, f)
		}
	}

	switch providerType {
	case llm.ProviderOpenAI:
		spec := openai.GetModelSpec(id)
		model.ContextLength = spec.ContextLength
		model.MaxOutputTokens = spec.MaxOutputTokens
		model.CostInput = spec.CostInput
		model.CostOutput = spec.CostOutput
	case llm.ProviderOllama:
		// Local models are free; context length depends on the pull.
		model.ContextLength = 8192
		if ollama.IsVisionCapableModel(id) {
			model.Description = "local model with vision support"
		}
	default:
		model.ContextLength = 8192
		model.MaxOutputTokens = 4096
	}
	return model
}
