package openai

import "github.com/fpt/go-llmgate/pkg/llm"

const (
	defaultChatModel      = "gpt-4o"
	defaultEmbeddingModel = "text-embedding-3-small"
)

// getOpenAIModel resolves the model to request: explicit option, then the
// adapter default.
func getOpenAIModel(model, fallback string) string {
	if model != "" {
		return model
	}
	return fallback
}

// mapFinishReason translates OpenAI finish reasons into the canonical
// vocabulary. OpenAI's values already match; unknown values pass through.
func mapFinishReason(reason string) string {
	switch reason {
	case "stop":
		return llm.FinishReasonStop
	case "length":
		return llm.FinishReasonLength
	case "tool_calls", "function_call":
		return llm.FinishReasonToolCalls
	case "content_filter":
		return llm.FinishReasonFilter
	default:
		return reason
	}
}

// ModelSpec captures the static limits and pricing for a known model, used
// to annotate discovery results.
type ModelSpec struct {
	ContextLength   int
	MaxOutputTokens int
	Vision          bool
	CostInput       float64 // USD per input token
	CostOutput      float64 // USD per output token
}

// knownModels is the static capability table for common OpenAI models.
// Models missing here get conservative defaults.
var knownModels = map[string]ModelSpec{
	"gpt-4o": {
		ContextLength:   128000,
		MaxOutputTokens: 16384,
		Vision:          true,
		CostInput:       0.0000025,
		CostOutput:      0.00001,
	},
	"gpt-4o-mini": {
		ContextLength:   128000,
		MaxOutputTokens: 16384,
		Vision:          true,
		CostInput:       0.00000015,
		CostOutput:      0.0000006,
	},
	"gpt-4-turbo": {
		ContextLength:   128000,
		MaxOutputTokens: 4096,
		Vision:          true,
		CostInput:       0.00001,
		CostOutput:      0.00003,
	},
	"text-embedding-3-small": {
		ContextLength: 8191,
		CostInput:     0.00000002,
	},
	"text-embedding-3-large": {
		ContextLength: 8191,
		CostInput:     0.00000013,
	},
}

// GetModelSpec returns the static spec for a model, or defaults for unknown
// models.
func GetModelSpec(model string) ModelSpec {
	if spec, ok := knownModels[model]; ok {
		return spec
	}
	return ModelSpec{ContextLength: 8192, MaxOutputTokens: 4096}
}
