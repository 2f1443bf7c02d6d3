package ollama

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/fpt/go-llmgate/pkg/llm"
)

const (
	defaultChatModel      = "llama3.2"
	defaultEmbeddingModel = "nomic-embed-text"
	defaultNumPredict     = 4096
)

// visionModelPrefixes lists model families known to accept image input.
var visionModelPrefixes = []string{
	"llava",
	"llama3.2-vision",
	"bakllava",
	"moondream",
	"minicpm-v",
	"qwen2.5vl",
	"gemma3",
}

// IsVisionCapableModel reports whether a model family is known to accept
// images. Ollama exposes no capability metadata, so this is heuristic.
func IsVisionCapableModel(model string) bool {
	name := strings.ToLower(model)
	for _, prefix := range visionModelPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// toOllamaMessages converts canonical messages to the Ollama message shape.
func toOllamaMessages(messages []llm.ChatMessage) []api.Message {
	out := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		out = append(out, api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}

// toOllamaOptions builds the model options map. Ollama takes sampling
// parameters as loosely typed options rather than request fields.
func toOllamaOptions(opts llm.ChatOptions) map[string]any {
	options := map[string]any{
		"num_predict": intOrDefault(opts.MaxTokens, defaultNumPredict),
	}
	if opts.Temperature != nil {
		options["temperature"] = *opts.Temperature
	}
	if opts.TopP != nil {
		options["top_p"] = *opts.TopP
	}
	if opts.PresencePenalty != nil {
		options["presence_penalty"] = *opts.PresencePenalty
	}
	if opts.FrequencyPenalty != nil {
		options["frequency_penalty"] = *opts.FrequencyPenalty
	}
	if len(opts.StopSequences) > 0 {
		options["stop"] = opts.StopSequences
	}
	return options
}

// mapDoneReason translates Ollama done reasons into the canonical finish
// reason vocabulary.
func mapDoneReason(reason string) string {
	switch reason {
	case "stop":
		return llm.FinishReasonStop
	case "length":
		return llm.FinishReasonLength
	case "":
		return llm.FinishReasonStop
	default:
		return reason
	}
}

func toUsage(m api.Metrics) llm.Usage {
	return llm.Usage{
		PromptTokens:     m.PromptEvalCount,
		CompletionTokens: m.EvalCount,
		TotalTokens:      m.PromptEvalCount + m.EvalCount,
	}
}

// decodeDataURI extracts raw image bytes from a base64 data URI.
func decodeDataURI(ref string) (api.ImageData, error) {
	if !strings.HasPrefix(ref, "data:") {
		return nil, llm.NewValidationError("image", "Ollama vision requires base64 data URIs, not remote URLs")
	}
	idx := strings.Index(ref, ";base64,")
	if idx < 0 {
		return nil, llm.NewValidationError("image", fmt.Sprintf("unsupported data URI encoding: %.32s", ref))
	}
	data, err := base64.StdEncoding.DecodeString(ref[idx+len(";base64,"):])
	if err != nil {
		return nil, llm.NewValidationError("image", "invalid base64 image data")
	}
	return api.ImageData(data), nil
}

func floatOrDefault(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func intOrDefault(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}
