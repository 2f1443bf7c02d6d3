// Package anthropic implements the canonical adapter contract against the
// Anthropic Messages API. Anthropic offers no embeddings endpoint, so the
// embeddings capability is absent.
package anthropic

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/fpt/go-llmgate/pkg/llm"
)

const defaultMaxTokens = 4096

// Adapter holds a configured Anthropic client bound to one provider record.
type Adapter struct {
	client   *anthropic.Client
	provider llm.Provider
}

// New creates an Anthropic adapter from a provider record. The credential
// falls back to ANTHROPIC_API_KEY when the record carries none.
func New(provider llm.Provider) (*Adapter, error) {
	apiKey := provider.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key not configured (provider %q, ANTHROPIC_API_KEY unset)", provider.Name)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if provider.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(provider.Endpoint))
	}
	if provider.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(provider.MaxRetries))
	}
	if provider.TimeoutSeconds > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(provider.TimeoutSeconds)*time.Second))
	}

	client := anthropic.NewClient(opts...)
	return &Adapter{client: &client, provider: provider}, nil
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
	case llm.FeatureChat, llm.FeatureVision, llm.FeatureStreaming, llm.FeatureTools:
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

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(defaultMaxTokens),
		Messages:  toAnthropicMessages(messages),
	}
	if system := systemPrompt(messages); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if opts.MaxTokens != nil {
		params.MaxTokens = int64(*opts.MaxTokens)
	}
	if opts.Temperature != nil {
		params.Temperature = anthropic.Float(*opts.Temperature)
	}
	if opts.TopP != nil {
		params.TopP = anthropic.Float(*opts.TopP)
	}
	if len(opts.StopSequences) > 0 {
		params.StopSequences = opts.StopSequences
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "message request failed", err)
	}
	if len(msg.Content) == 0 {
		return nil, llm.NewProviderError(a.provider.Name, "no content in response", nil)
	}

	return &llm.CompletionResponse{
		Content:      textContent(msg),
		Model:        string(msg.Model),
		Usage:        toUsage(msg.Usage),
		FinishReason: mapStopReason(string(msg.StopReason)),
		Provider:     a.provider.Name,
	}, nil
}

// Embed implements llm.Adapter. Anthropic has no embeddings endpoint.
func (a *Adapter) Embed(ctx context.Context, texts []string, opts llm.EmbeddingOptions) (*llm.EmbeddingResponse, error) {
	return nil, llm.ErrNotSupported
}

// Vision implements llm.Adapter. Every Claude model accepts image blocks.
func (a *Adapter) Vision(ctx context.Context, parts []llm.ContentPart, opts llm.VisionOptions) (*llm.VisionResponse, error) {
	model := opts.Model
	if model == "" {
		model = a.DefaultModel()
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(parts))
	for _, p := range parts {
		switch p.Type {
		case "text":
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
		case "image_url":
			if p.ImageURL == nil {
				return nil, llm.NewValidationError("content", "image_url part without image reference")
			}
			block, err := toImageBlock(p.ImageURL.URL)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, block)
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(defaultMaxTokens),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	}
	if opts.MaxTokens != nil {
		params.MaxTokens = int64(*opts.MaxTokens)
	}
	if opts.Temperature != nil {
		params.Temperature = anthropic.Float(*opts.Temperature)
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "vision request failed", err)
	}
	if len(msg.Content) == 0 {
		return nil, llm.NewProviderError(a.provider.Name, "no content in response", nil)
	}

	return &llm.VisionResponse{
		Description: textContent(msg),
		Model:       string(msg.Model),
		Usage:       toUsage(msg.Usage),
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
		Message: fmt.Sprintf("connected to Anthropic API (%d models visible)", len(models)),
	}
}

// AvailableModels implements llm.Adapter.
func (a *Adapter) AvailableModels(ctx context.Context) ([]string, error) {
	page, err := a.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "model listing failed", err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// textContent concatenates the text blocks of a message, skipping thinking
// and tool-use blocks.
func textContent(msg *anthropic.Message) string {
	var content string
	for _, block := range msg.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += text.Text
		}
	}
	return content
}

func toUsage(u anthropic.Usage) llm.Usage {
	return llm.Usage{
		PromptTokens:     int(u.InputTokens),
		CompletionTokens: int(u.OutputTokens),
		TotalTokens:      int(u.InputTokens + u.OutputTokens),
	}
}
