// Package openai implements the canonical adapter contract against the
// OpenAI chat-completions and embeddings API.
package openai

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/fpt/go-llmgate/pkg/llm"
)

// Adapter holds a configured OpenAI client bound to one provider record.
type Adapter struct {
	client   *openai.Client
	provider llm.Provider
}

// New creates an OpenAI adapter from a provider record. The credential falls
// back to OPENAI_API_KEY when the record carries none.
func New(provider llm.Provider) (*Adapter, error) {
	apiKey := provider.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not configured (provider %q, OPENAI_API_KEY unset)", provider.Name)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}

	// Support custom base URL (for Azure OpenAI, proxies, etc.)
	if provider.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(provider.Endpoint))
	}
	if provider.Organization != "" {
		opts = append(opts, option.WithOrganization(provider.Organization))
	}
	if provider.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(provider.MaxRetries))
	}
	if provider.TimeoutSeconds > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(provider.TimeoutSeconds)*time.Second))
	}

	client := openai.NewClient(opts...)
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
	case llm.FeatureChat, llm.FeatureEmbeddings, llm.FeatureVision,
		llm.FeatureStreaming, llm.FeatureTools, llm.FeatureJSONMode:
		return true
	default:
		return false
	}
}

// Complete implements llm.Adapter.
func (a *Adapter) Complete(ctx context.Context, messages []llm.ChatMessage, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	model := getOpenAIModel(opts.Model, a.DefaultModel())

	params := openai.ChatCompletionNewParams{
		Messages: toOpenAIMessages(messages),
		Model:    shared.ChatModel(model),
	}
	applyChatOptions(&params, opts)

	completion, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "chat completion failed", err)
	}
	if len(completion.Choices) == 0 {
		return nil, llm.NewProviderError(a.provider.Name, "no choices in response", nil)
	}

	choice := completion.Choices[0]
	return &llm.CompletionResponse{
		Content:      choice.Message.Content,
		Model:        completion.Model,
		Usage:        toUsage(completion.Usage),
		FinishReason: mapFinishReason(string(choice.FinishReason)),
		Provider:     a.provider.Name,
	}, nil
}

// Embed implements llm.Adapter.
func (a *Adapter) Embed(ctx context.Context, texts []string, opts llm.EmbeddingOptions) (*llm.EmbeddingResponse, error) {
	model := opts.Model
	if model == "" {
		model = defaultEmbeddingModel
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(model),
	}
	if opts.Dimensions != nil {
		params.Dimensions = openai.Int(int64(*opts.Dimensions))
	}

	resp, err := a.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "embedding request failed", err)
	}
	if len(resp.Data) == 0 {
		return nil, llm.NewProviderError(a.provider.Name, "no embeddings in response", nil)
	}

	embeddings := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float64, len(d.Embedding))
		copy(vec, d.Embedding)
		embeddings[i] = vec
	}

	return &llm.EmbeddingResponse{
		Embeddings: embeddings,
		Model:      resp.Model,
		Usage: llm.Usage{
			PromptTokens: int(resp.Usage.PromptTokens),
			TotalTokens:  int(resp.Usage.TotalTokens),
		},
		Provider: a.provider.Name,
	}, nil
}

// Vision implements llm.Adapter. Content parts map directly onto OpenAI's
// multimodal user message shape.
func (a *Adapter) Vision(ctx context.Context, parts []llm.ContentPart, opts llm.VisionOptions) (*llm.VisionResponse, error) {
	model := getOpenAIModel(opts.Model, a.DefaultModel())

	openaiParts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, p := range parts {
		switch p.Type {
		case "text":
			openaiParts = append(openaiParts, openai.TextContentPart(p.Text))
		case "image_url":
			if p.ImageURL == nil {
				return nil, llm.NewValidationError("content", "image_url part without image reference")
			}
			openaiParts = append(openaiParts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL:    p.ImageURL.URL,
				Detail: p.ImageURL.Detail,
			}))
		}
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(openaiParts)},
		Model:    shared.ChatModel(model),
	}
	if opts.MaxTokens != nil {
		params.MaxCompletionTokens = openai.Int(int64(*opts.MaxTokens))
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}

	completion, err := a.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "vision request failed", err)
	}
	if len(completion.Choices) == 0 {
		return nil, llm.NewProviderError(a.provider.Name, "no choices in response", nil)
	}

	return &llm.VisionResponse{
		Description: completion.Choices[0].Message.Content,
		Model:       completion.Model,
		Usage:       toUsage(completion.Usage),
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
		Message: fmt.Sprintf("connected to OpenAI API (%d models visible)", len(models)),
	}
}

// AvailableModels implements llm.Adapter.
func (a *Adapter) AvailableModels(ctx context.Context) ([]string, error) {
	page, err := a.client.Models.List(ctx)
	if err != nil {
		return nil, llm.NewProviderError(a.provider.Name, "model listing failed", err)
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// applyChatOptions copies set option fields into the request params without
// touching unset ones.
func applyChatOptions(params *openai.ChatCompletionNewParams, opts llm.ChatOptions) {
	if opts.MaxTokens != nil {
		params.MaxCompletionTokens = openai.Int(int64(*opts.MaxTokens))
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	if opts.TopP != nil {
		params.TopP = openai.Float(*opts.TopP)
	}
	if opts.PresencePenalty != nil {
		params.PresencePenalty = openai.Float(*opts.PresencePenalty)
	}
	if opts.FrequencyPenalty != nil {
		params.FrequencyPenalty = openai.Float(*opts.FrequencyPenalty)
	}
	if len(opts.StopSequences) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: opts.StopSequences}
	}
	if opts.ResponseFormat == llm.ResponseFormatJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
}

func toUsage(u openai.CompletionUsage) llm.Usage {
	return llm.Usage{
		PromptTokens:     int(u.PromptTokens),
		CompletionTokens: int(u.CompletionTokens),
		TotalTokens:      int(u.TotalTokens),
	}
}

// toOpenAIMessages converts canonical messages to the OpenAI union shape.
func toOpenAIMessages(messages []llm.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case llm.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}
