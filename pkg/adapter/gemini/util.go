package gemini

import (
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/fpt/go-llmgate/pkg/llm"
)

const (
	defaultChatModel      = "gemini-2.0-flash"
	defaultEmbeddingModel = "text-embedding-004"
)

// toGeminiContents converts canonical messages to Gemini contents. The last
// system message becomes the system instruction.
func toGeminiContents(messages []llm.ChatMessage) ([]*genai.Content, *genai.Content) {
	contents := make([]*genai.Content, 0, len(messages))
	var systemInstruction *genai.Content

	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		case llm.RoleSystem:
			systemInstruction = genai.NewContentFromText(msg.Content, genai.RoleUser)
		}
	}
	return contents, systemInstruction
}

// mapFinishReason translates Gemini finish reasons into the canonical
// vocabulary.
func mapFinishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonStop:
		return llm.FinishReasonStop
	case genai.FinishReasonMaxTokens:
		return llm.FinishReasonLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return llm.FinishReasonFilter
	default:
		return string(reason)
	}
}

func toUsage(meta *genai.GenerateContentResponseUsageMetadata) llm.Usage {
	if meta == nil {
		return llm.Usage{}
	}
	return llm.Usage{
		PromptTokens:     int(meta.PromptTokenCount),
		CompletionTokens: int(meta.CandidatesTokenCount),
		TotalTokens:      int(meta.TotalTokenCount),
	}
}

// toImagePart builds a Gemini part from an http(s) URL or a base64 data URI.
func toImagePart(ref string) (*genai.Part, error) {
	if strings.HasPrefix(ref, "data:") {
		rest := strings.TrimPrefix(ref, "data:")
		idx := strings.Index(rest, ";base64,")
		if idx < 0 {
			return nil, llm.NewValidationError("image", fmt.Sprintf("unsupported data URI encoding: %.32s", ref))
		}
		mimeType := rest[:idx]
		data, err := base64.StdEncoding.DecodeString(rest[idx+len(";base64,"):])
		if err != nil {
			return nil, llm.NewValidationError("image", "invalid base64 image data")
		}
		return &genai.Part{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}}, nil
	}
	return &genai.Part{FileData: &genai.FileData{FileURI: ref, MIMEType: "image/jpeg"}}, nil
}
