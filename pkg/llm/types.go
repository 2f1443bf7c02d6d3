// Package llm defines the canonical, vendor-agnostic types shared by every
// component of the gateway: chat messages, responses, usage statistics, the
// adapter contract, and the option objects that govern each call.
package llm

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single turn in a conversation.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewSystemMessage creates a system-role message.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user-role message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant-role message.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

// Usage reports token consumption for a single adapter call.
// TotalTokens equals PromptTokens+CompletionTokens for adapter-produced
// responses; cached responses may report zeros.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Finish reasons an adapter may report after mapping the vendor vocabulary.
const (
	FinishReasonStop      = "stop"
	FinishReasonLength    = "length"
	FinishReasonToolCalls = "tool_calls"
	FinishReasonFilter    = "content_filter"
)

// CompletionResponse is the canonical chat/completion result.
type CompletionResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	Usage        Usage  `json:"usage"`
	FinishReason string `json:"finish_reason"`
	Provider     string `json:"provider"`
}

// Truncated reports whether the response was cut off by the output token limit.
func (r *CompletionResponse) Truncated() bool {
	return r.FinishReason == FinishReasonLength
}

// Complete reports whether the response terminated naturally.
func (r *CompletionResponse) Complete() bool {
	return !r.Truncated()
}

// EmbeddingResponse is the canonical embedding result. Vectors within one
// response share dimensionality.
type EmbeddingResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Model      string      `json:"model"`
	Usage      Usage       `json:"usage"`
	Provider   string      `json:"provider"`
}

// VisionResponse is the canonical image-analysis result.
type VisionResponse struct {
	Description string `json:"description"`
	Model       string `json:"model"`
	Usage       Usage  `json:"usage"`
	Provider    string `json:"provider"`
}

// TranslationResult is produced by any registered translator backend,
// LLM-backed or third-party.
type TranslationResult struct {
	TranslatedText string  `json:"translated_text"`
	SourceLanguage string  `json:"source_language"`
	TargetLanguage string  `json:"target_language"`
	Translator     string  `json:"translator"`
	Confidence     float64 `json:"confidence"`
}

// ContentPart is one element of a multimodal message payload.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL references an image by http(s) URL or data URI, with an optional
// vendor detail hint.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// TextPart creates a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// ImagePart creates an image content part.
func ImagePart(url, detail string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url, Detail: detail}}
}

// ConnectionTestResult is the structured outcome of a diagnostic connection
// test. Test operations return this instead of propagating errors.
type ConnectionTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DiscoveredModel describes one model found in a provider's catalog.
type DiscoveredModel struct {
	ModelID         string    `json:"model_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Capabilities    []Feature `json:"capabilities"`
	ContextLength   int       `json:"context_length"`
	MaxOutputTokens int       `json:"max_output_tokens"`
	CostInput       float64   `json:"cost_input"`
	CostOutput      float64   `json:"cost_output"`
}

// Float returns a pointer to v, for optional option fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for optional option fields.
func Int(v int) *int { return &v }
