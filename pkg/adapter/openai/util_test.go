package openai

import (
	"testing"

	"github.com/fpt/go-llmgate/pkg/llm"
)

func TestGetOpenAIModel(t *testing.T) {
	testCases := []struct {
		input    string
		fallback string
		expected string
	}{
		{"gpt-4o-mini", defaultChatModel, "gpt-4o-mini"},
		{"", defaultChatModel, "gpt-4o"},
		{"", defaultEmbeddingModel, "text-embedding-3-small"},
	}

	for _, tc := range testCases {
		result := getOpenAIModel(tc.input, tc.fallback)
		if result != tc.expected {
			t.Errorf("getOpenAIModel(%q, %q) = %q, expected %q", tc.input, tc.fallback, result, tc.expected)
		}
	}
}

func TestMapFinishReason(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"stop", llm.FinishReasonStop},
		{"length", llm.FinishReasonLength},
		{"tool_calls", llm.FinishReasonToolCalls},
		{"function_call", llm.FinishReasonToolCalls},
		{"content_filter", llm.FinishReasonFilter},
		{"weird", "weird"}, // unknown values pass through
	}

	for _, tc := range testCases {
		result := mapFinishReason(tc.input)
		if result != tc.expected {
			t.Errorf("mapFinishReason(%q) = %q, expected %q", tc.input, result, tc.expected)
		}
	}
}

func TestGetModelSpec(t *testing.T) {
	spec := GetModelSpec("gpt-4o")
	if !spec.Vision {
		t.Error("gpt-4o should support vision")
	}
	if spec.ContextLength != 128000 {
		t.Errorf("gpt-4o context length = %d, expected 128000", spec.ContextLength)
	}
	if spec.CostInput <= 0 || spec.CostOutput <= 0 {
		t.Error("gpt-4o should carry pricing")
	}

	unknown := GetModelSpec("some-future-model")
	if unknown.Vision {
		t.Error("unknown models should default to no vision")
	}
	if unknown.ContextLength != 8192 {
		t.Errorf("unknown model context length = %d, expected 8192", unknown.ContextLength)
	}
}
