// Package gemini implements the canonical adapter contract against the
// Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"

	"github.com/fpt/go-llmgate/pkg/llm"
)

// Adapter holds a configured Gemini client bound to one provider record.
type Adapter struct {
	client   *genai.Client
	provider llm.Provider
}

// New creates a Gemini adapter from a provider record. The credential falls
// back to GEMINI_API_KEY when the record carries none.
func New(provider llm.Provider) (*Adapter, error) {
	apiKey := provider.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured (provider %q, GEMINI_API_KEY unset)", provider.Name)
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
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

// SupportsFeature implements llm.Adapter.
func (a *Adapter) SupportsFeature(feature llm.Feature) bool {
	switch feature {
	case llm.FeatureChat, llm.FeatureEmbeddings, llm.FeatureVision,
		llm.FeatureStreaming, llm.FeatureTools, llm.FeatureJSONMode:
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

	contents, systemInstruction := toGeminiContents(messages)

	config := &genai.GenerateContentConfig{}
	if systemInstruction != nil {
		config.SystemInstruction = systemInstruction
	}
	if opts.MaxTokens != nil {
		config.MaxOutputTokens = int32(*opts.MaxTokens)
	}
	if opts.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*opts.Temperature))
	}
	if opts.TopP != nil {
		config.TopP = genai.Ptr(float32(*opts.TopP))
	}
	if len(opts.StopSequences) > 0 {
		config.StopSequences = opts.StopSequences
	}
	if opts.ResponseFormat == llm.ResponseFormatJSON {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := a.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "content generation failed", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, llm.NewProviderError(a.provider.Name, "no candidates in response", nil)
	}

	return &llm.CompletionResponse{
		Content:      resp.Text(),
		Model:        model,
		Usage:        toUsage(resp.UsageMetadata),
		FinishReason: mapFinishReason(resp.Candidates[0].FinishReason),
		Provider:     a.provider.Name,
	}, nil
}

// Embed implements llm.Adapter.
func (a *Adapter) Embed(ctx context.Context, texts []string, opts llm.EmbeddingOptions) (*llm.EmbeddingResponse, error) {
	model := opts.Model
	if model == "" {
		model = defaultEmbeddingModel
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	config := &genai.EmbedContentConfig{}
	if opts.Dimensions != nil {
		config.OutputDimensionality = genai.Ptr(int32(*opts.Dimensions))
	}

	resp, err := a.client.Models.EmbedContent(ctx, model, contents, config)
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "embedding request failed", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, llm.NewProviderError(a.provider.Name, "no embeddings in response", nil)
	}

	embeddings := make([][]float64, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		vec := make([]float64, len(e.Values))
		for j, v := range e.Values {
			vec[j] = float64(v)
		}
		embeddings[i] = vec
	}

	// The embeddings endpoint reports no token usage.
	return &llm.EmbeddingResponse{
		Embeddings: embeddings,
		Model:      model,
		Provider:   a.provider.Name,
	}, nil
}

// Vision implements llm.Adapter. Data URIs become inline blobs; http(s) URLs
// are passed as file references.
func (a *Adapter) Vision(ctx context.Context, parts []llm.ContentPart, opts llm.VisionOptions) (*llm.VisionResponse, error) {
	model := opts.Model
	if model == "" {
		model = a.DefaultModel()
	}

	geminiParts := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		switch p.Type {
		case "text":
			geminiParts = append(geminiParts, &genai.Part{Text: p.Text})
		case "image_url":
			if p.ImageURL == nil {
				return nil, llm.NewValidationError("content", "image_url part without image reference")
			}
			part, err := toImagePart(p.ImageURL.URL)
			if err != nil {
				return nil, err
			}
			geminiParts = append(geminiParts, part)
		}
	}

	config := &genai.GenerateContentConfig{}
	if opts.MaxTokens != nil {
		config.MaxOutputTokens = int32(*opts.MaxTokens)
	}
	if opts.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*opts.Temperature))
	}

	contents := []*genai.Content{genai.NewContentFromParts(geminiParts, genai.RoleUser)}
	resp, err := a.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "vision request failed", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, llm.NewProviderError(a.provider.Name, "no candidates in response", nil)
	}

	return &llm.VisionResponse{
		Description: resp.Text(),
		Model:       model,
		Usage:       toUsage(resp.UsageMetadata),
		Provider:    a.provider.Name,
	}, nil
}

// TestConnection implements llm.Adapter.
func (a *Adapter) TestConnection(ctx context.Context) llm.ConnectionTestResult {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	models, err := a.AvailableModels(ctx)
	if err != nil {
		return llm.ConnectionTestResult{Success: false, Message: err.Error()}
	}
	return llm.ConnectionTestResult{
		Success: true,
		Message: fmt.Sprintf("connected to Gemini API (%d models visible)", len(models)),
	}
}

// AvailableModels implements llm.Adapter.
func (a *Adapter) AvailableModels(ctx context.Context) ([]string, error) {
	page, err := a.client.Models.List(ctx, &genai.ListModelsConfig{})
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "model listing failed", err)
	}
	ids := make([]string, 0, len(page.Items))
	for _, m := range page.Items {
		ids = append(ids, m.Name)
	}
	return ids, nil
}
