package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	"github.com/fpt/go-llmgate/pkg/llm"
	"github.com/fpt/go-llmgate/pkg/logger"
)

// markdownInstruction is appended to the system prompt for markdown output.
const markdownInstruction = "Format your entire response as valid Markdown. Use headings, lists and code blocks where appropriate."

// CompletionService offers prompt-completion helpers on top of the Manager:
// plain, JSON-decoded, markdown, factual and creative presets, and
// schema-guided structured output.
type CompletionService struct {
	dispatcher Dispatcher
	log        *logger.Logger
}

// NewCompletionService creates a completion service.
func NewCompletionService(dispatcher Dispatcher) *CompletionService {
	return &CompletionService{
		dispatcher: dispatcher,
		log:        logger.NewComponentLogger("completion"),
	}
}

// Complete sends a single prompt and returns the completion.
func (s *CompletionService) Complete(ctx context.Context, prompt string, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	if prompt == "" {
		return nil, llm.NewValidationError("prompt", "prompt must not be empty")
	}
	return s.dispatcher.Complete(ctx, prompt, opts)
}

// CompleteJSON requests a JSON response and decodes it into a map. The decoded
// value must be a JSON object; arrays, scalars and malformed payloads are
// rejected after the call with a validation error.
func (s *CompletionService) CompleteJSON(ctx context.Context, prompt string, opts llm.ChatOptions) (map[string]any, error) {
	opts.ResponseFormat = llm.ResponseFormatJSON
	resp, err := s.Complete(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal([]byte(resp.Content), &decoded); err != nil {
		return nil, llm.NewValidationError("content", "failed to decode JSON response")
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, llm.NewValidationError("content", "JSON response must be an object")
	}
	return obj, nil
}

// CompleteMarkdown requests markdown output. The formatting instruction is
// appended to any existing system prompt rather than replacing it.
func (s *CompletionService) CompleteMarkdown(ctx context.Context, prompt string, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	if opts.SystemPrompt != "" {
		opts.SystemPrompt = opts.SystemPrompt + "\n\n" + markdownInstruction
	} else {
		opts.SystemPrompt = markdownInstruction
	}
	opts.ResponseFormat = llm.ResponseFormatMarkdown
	return s.Complete(ctx, prompt, opts)
}

// CompleteFactual biases the sampling toward deterministic answers. Defaults
// (temperature 0.2, topP 0.9) apply only to fields the caller left unset.
func (s *CompletionService) CompleteFactual(ctx context.Context, prompt string, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	if opts.Temperature == nil {
		opts.Temperature = llm.Float(0.2)
	}
	if opts.TopP == nil {
		opts.TopP = llm.Float(0.9)
	}
	return s.Complete(ctx, prompt, opts)
}

// CompleteCreative biases the sampling toward varied output. Defaults
// (temperature 1.2, topP 1.0, presencePenalty 0.6) apply only to fields the
// caller left unset.
func (s *CompletionService) CompleteCreative(ctx context.Context, prompt string, opts llm.ChatOptions) (*llm.CompletionResponse, error) {
	if opts.Temperature == nil {
		opts.Temperature = llm.Float(1.2)
	}
	if opts.TopP == nil {
		opts.TopP = llm.Float(1.0)
	}
	if opts.PresencePenalty == nil {
		opts.PresencePenalty = llm.Float(0.6)
	}
	return s.Complete(ctx, prompt, opts)
}

// CompleteStructured requests a response conforming to the JSON schema
// reflected from T and decodes the reply into it. The schema is embedded in
// the system prompt and JSON mode is requested from the vendor.
func CompleteStructured[T any](ctx context.Context, s *CompletionService, prompt string, opts llm.ChatOptions) (T, error) {
	var out T

	schemaJSON, err := reflectSchema(out)
	if err != nil {
		return out, errors.Wrap(err, "failed to build response schema")
	}

	instruction := fmt.Sprintf(
		"Respond with a single JSON object conforming to this JSON Schema. Output only the JSON object, no prose.\n\n%s",
		schemaJSON)
	if opts.SystemPrompt != "" {
		opts.SystemPrompt = opts.SystemPrompt + "\n\n" + instruction
	} else {
		opts.SystemPrompt = instruction
	}
	opts.ResponseFormat = llm.ResponseFormatJSON

	resp, err := s.Complete(ctx, prompt, opts)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(resp.Content), &out); err != nil {
		return out, llm.NewValidationError("content", "failed to decode JSON response")
	}
	return out, nil
}

// reflectSchema produces the JSON Schema for a value's type.
func reflectSchema(v any) (string, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(v)
	data, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
