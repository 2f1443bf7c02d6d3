package anthropic

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/fpt/go-llmgate/pkg/llm"
)

const defaultChatModel = "claude-sonnet-4-20250514"

// toAnthropicMessages converts canonical messages to Anthropic's alternating
// user/assistant shape. System messages are carried separately in the request
// params, so they are skipped here.
func toAnthropicMessages(messages []llm.ChatMessage) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case llm.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return out
}

// systemPrompt returns the last system message, which Anthropic takes as a
// top-level parameter instead of a conversation turn.
func systemPrompt(messages []llm.ChatMessage) string {
	var system string
	for _, msg := range messages {
		if msg.Role == llm.RoleSystem {
			system = msg.Content
		}
	}
	return system
}

// mapStopReason translates Anthropic stop reasons into the canonical finish
// reason vocabulary.
func mapStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop_sequence":
		return llm.FinishReasonStop
	case "max_tokens":
		return llm.FinishReasonLength
	case "tool_use":
		return llm.FinishReasonToolCalls
	case "refusal":
		return llm.FinishReasonFilter
	default:
		return reason
	}
}

// toImageBlock builds an Anthropic image block from an http(s) URL or a
// data:image/...;base64 URI.
func toImageBlock(ref string) (anthropic.ContentBlockParamUnion, error) {
	if strings.HasPrefix(ref, "data:") {
		mediaType, data, err := splitDataURI(ref)
		if err != nil {
			return anthropic.ContentBlockParamUnion{}, err
		}
		return anthropic.NewImageBlockBase64(mediaType, data), nil
	}
	return anthropic.ContentBlockParamUnion{
		OfImage: &anthropic.ImageBlockParam{
			Source: anthropic.ImageBlockParamSourceUnion{
				OfURL: &anthropic.URLImageSourceParam{URL: ref},
			},
		},
	}, nil
}

// splitDataURI separates a data URI into its media type and base64 payload.
func splitDataURI(uri string) (mediaType, data string, err error) {
	rest := strings.TrimPrefix(uri, "data:")
	idx := strings.Index(rest, ";base64,")
	if idx < 0 {
		return "", "", llm.NewValidationError("image", fmt.Sprintf("unsupported data URI encoding: %.32s", uri))
	}
	return rest[:idx], rest[idx+len(";base64,"):], nil
}
