package gemini

import (
	"encoding/base64"
	"testing"

	"google.golang.org/genai"

	"github.com/fpt/go-llmgate/pkg/llm"
)

func TestToGeminiContents(t *testing.T) {
	contents, system := toGeminiContents([]llm.ChatMessage{
		llm.NewSystemMessage("rules"),
		llm.NewUserMessage("question"),
		llm.NewAssistantMessage("answer"),
	})

	if len(contents) != 2 {
		t.Fatalf("len(contents) = %d, expected 2", len(contents))
	}
	if contents[0].Role != genai.RoleUser {
		t.Errorf("first content role = %q, expected user", contents[0].Role)
	}
	if contents[1].Role != genai.RoleModel {
		t.Errorf("second content role = %q, expected model", contents[1].Role)
	}
	if system == nil {
		t.Fatal("system instruction missing")
	}
}

func TestMapFinishReason(t *testing.T) {
	testCases := []struct {
		input    genai.FinishReason
		expected string
	}{
		{genai.FinishReasonStop, llm.FinishReasonStop},
		{genai.FinishReasonMaxTokens, llm.FinishReasonLength},
		{genai.FinishReasonSafety, llm.FinishReasonFilter},
		{genai.FinishReasonRecitation, llm.FinishReasonFilter},
	}

	for _, tc := range testCases {
		result := mapFinishReason(tc.input)
		if result != tc.expected {
			t.Errorf("mapFinishReason(%q) = %q, expected %q", tc.input, result, tc.expected)
		}
	}
}

func TestToUsage(t *testing.T) {
	if got := toUsage(nil); got != (llm.Usage{}) {
		t.Errorf("nil metadata should yield zero usage, got %+v", got)
	}

	got := toUsage(&genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:     12,
		CandidatesTokenCount: 8,
		TotalTokenCount:      20,
	})
	if got.PromptTokens != 12 || got.CompletionTokens != 8 || got.TotalTokens != 20 {
		t.Errorf("unexpected usage: %+v", got)
	}
}

func TestToImagePart(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("img"))
	part, err := toImagePart("data:image/png;base64," + payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if part.InlineData == nil || part.InlineData.MIMEType != "image/png" {
		t.Errorf("unexpected inline data: %+v", part.InlineData)
	}

	part, err = toImagePart("https://example.com/a.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if part.FileData == nil || part.FileData.FileURI != "https://example.com/a.jpg" {
		t.Errorf("unexpected file data: %+v", part.FileData)
	}

	if _, err := toImagePart("data:image/png,raw"); !llm.IsValidationError(err) {
		t.Errorf("non-base64 data URI should be a validation error, got %v", err)
	}
}
