package llm

import "context"

// Feature is a capability flag an adapter may advertise.
type Feature string

const (
	FeatureChat       Feature = "chat"
	FeatureEmbeddings Feature = "embeddings"
	FeatureVision     Feature = "vision"
	FeatureStreaming  Feature = "streaming"
	FeatureTools      Feature = "tools"
	FeatureJSONMode   Feature = "json_mode"
	FeatureAudio      Feature = "audio"
)

// Adapter is the canonical LLM call contract. One implementation exists per
// vendor; each owns exactly one vendor wire protocol and translates between
// the vendor's request/response shapes and the canonical types.
//
// Adapters perform network I/O only; they never persist anything. Network
// errors, non-2xx responses and unparsable payloads surface as *ProviderError.
type Adapter interface {
	// Complete sends a chat conversation and returns the completion.
	Complete(ctx context.Context, messages []ChatMessage, opts ChatOptions) (*CompletionResponse, error)

	// Embed returns one embedding vector per input text, in input order.
	Embed(ctx context.Context, texts []string, opts EmbeddingOptions) (*EmbeddingResponse, error)

	// Vision analyzes multimodal content parts and returns a description.
	Vision(ctx context.Context, parts []ContentPart, opts VisionOptions) (*VisionResponse, error)

	// TestConnection probes the vendor API. Failures are reported in the
	// result, never propagated, since the operation is diagnostic.
	TestConnection(ctx context.Context) ConnectionTestResult

	// AvailableModels lists model identifiers from the vendor's catalog.
	AvailableModels(ctx context.Context) ([]string, error)

	// DefaultModel returns the model used when the caller names none.
	DefaultModel() string

	// SupportsFeature reports whether the adapter implements a capability.
	SupportsFeature(feature Feature) bool

	// Provider returns the provider name this adapter is bound to.
	Provider() string
}
