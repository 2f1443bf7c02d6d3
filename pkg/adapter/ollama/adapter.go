// Package ollama implements the canonical adapter contract against a local
// or remote Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/fpt/go-llmgate/pkg/llm"
)

// Adapter holds a configured Ollama API client bound to one provider record.
type Adapter struct {
	client   *api.Client
	provider llm.Provider
}

// New creates an Ollama adapter from a provider record. Without an endpoint
// the client is built from OLLAMA_HOST / the default local address.
func New(provider llm.Provider) (*Adapter, error) {
	var client *api.Client
	if provider.Endpoint != "" {
		base, err := url.Parse(provider.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid Ollama endpoint %q: %w", provider.Endpoint, err)
		}
		httpClient := &http.Client{}
		if provider.TimeoutSeconds > 0 {
			httpClient.Timeout = time.Duration(provider.TimeoutSeconds) * time.Second
		}
		client = api.NewClient(base, httpClient)
	} else {
		var err error
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
	}

	return &Adapter{client: client, provider: provider}, nil
}

// Provider implements llm.Adapter.
func (a *Adapter) Provider() string { return a.provider.Name }

// DefaultModel implements llm.Adapter.
func (a *Adapter) DefaultModel() string {
	if a.provider.DefaultModel != "" {
		return a.provider.DefaultModel
	}
	return defaultChatModel
}

// SupportsFeature implements llm.Adapter. Vision depends on which model is
// pulled, so the adapter reports the server capability and the per-model
// check happens at call time.
func (a *Adapter) SupportsFeature(feature llm.Feature) bool {
	switch feature {
	case llm.FeatureChat, llm.FeatureEmbeddings, llm.FeatureVision, llm.FeatureJSONMode:
		return true
	default:
		return false
	}
}

// Complete implements llm.Adapter.
func (a *Adapter) Complete(ctx context.Context, messages []llm.ChatMessage, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	model := opts.Model
	if model == "" {
		model = a.DefaultModel()
	}

	stream := false
	req := &api.ChatRequest{
		Model:    model,
		Messages: toOllamaMessages(messages),
		Stream:   &stream,
		Options:  toOllamaOptions(opts),
	}
	if opts.ResponseFormat == llm.ResponseFormatJSON {
		req.Format = []byte(`"json"`)
	}

	var last api.ChatResponse
	err := a.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		last = resp
		return nil
	})
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "chat request failed", err)
	}

	return &llm.CompletionResponse{
		Content:      last.Message.Content,
		Model:        model,
		Usage:        toUsage(last.Metrics),
		FinishReason: mapDoneReason(last.DoneReason),
		Provider:     a.provider.Name,
	}, nil
}

// Embed implements llm.Adapter.
func (a *Adapter) Embed(ctx context.Context, texts []string, opts llm.EmbeddingOptions) (*llm.EmbeddingResponse, error) {
	model := opts.Model
	if model == "" {
		model = defaultEmbeddingModel
	}

	resp, err := a.client.Embed(ctx, &api.EmbedRequest{Model: model, Input: texts})
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "embedding request failed", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, llm.NewProviderError(a.provider.Name, "no embeddings in response", nil)
	}

	embeddings := make([][]float64, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		vec := make([]float64, len(e))
		for j, v := range e {
			vec[j] = float64(v)
		}
		embeddings[i] = vec
	}

	return &llm.EmbeddingResponse{
		Embeddings: embeddings,
		Model:      model,
		Usage: llm.Usage{
			PromptTokens: resp.PromptEvalCount,
			TotalTokens:  resp.PromptEvalCount,
		},
		Provider: a.provider.Name,
	}, nil
}

// Vision implements llm.Adapter. Ollama accepts raw image bytes, so only
// base64 data URIs can be forwarded; remote URLs would require the gateway
// to download content on the vendor's behalf.
func (a *Adapter) Vision(ctx context.Context, parts []llm.ContentPart, opts llm.VisionOptions) (*llm.VisionResponse, error) {
	model := opts.Model
	if model == "" {
		model = a.DefaultModel()
	}
	if !IsVisionCapableModel(model) {
		return nil, llm.NewProviderError(a.provider.Name, fmt.Sprintf("model %s does not support vision", model), nil)
	}

	var prompt string
	var images []api.ImageData
	for _, p := range parts {
		switch p.Type {
		case "text":
			prompt += p.Text
		case "image_url":
			if p.ImageURL == nil {
				return nil, llm.NewValidationError("content", "image_url part without image reference")
			}
			data, err := decodeDataURI(p.ImageURL.URL)
			if err != nil {
				return nil, err
			}
			images = append(images, data)
		}
	}

	stream := false
	req := &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt, Images: images},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": floatOrDefault(opts.Temperature, 0.7),
			"num_predict": intOrDefault(opts.MaxTokens, defaultNumPredict),
		},
	}

	var last api.ChatResponse
	err := a.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		last = resp
		return nil
	})
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "vision request failed", err)
	}

	return &llm.VisionResponse{
		Description: last.Message.Content,
		Model:       model,
		Usage:       toUsage(last.Metrics),
		Provider:    a.provider.Name,
	}, nil
}

// TestConnection implements llm.Adapter.
func (a *Adapter) TestConnection(ctx context.Context) llm.ConnectionTestResult {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.client.Heartbeat(ctx); err != nil {
		return llm.ConnectionTestResult{Success: false, Message: err.Error()}
	}
	return llm.ConnectionTestResult{Success: true, Message: "Ollama server is reachable"}
}

// AvailableModels implements llm.Adapter. It lists locally pulled models.
func (a *Adapter) AvailableModels(ctx context.Context) ([]string, error) {
	resp, err := a.client.List(ctx)
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "model listing failed", err)
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
