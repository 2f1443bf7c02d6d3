package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fpt/go-llmgate/pkg/llm"
)

const testImageURL = "https://example.com/cat.png"

func visionResponse(description string) *llm.VisionResponse {
	return &llm.VisionResponse{
		Description: description,
		Model:       "test-vision",
		Usage:       llm.Usage{PromptTokens: 20, CompletionTokens: 10, TotalTokens: 30},
		Provider:    "test",
	}
}

func TestValidImageRef(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://example.com/a.png", true},
		{"http://example.com/a.jpg", true},
		{"data:image/png;base64,iVBORw0KGgo=", true},
		{"data:image/jpeg;base64,/9j/4AAQ", true},
		{"data:image/webp;base64,UklGR", true},
		{"", false},
		{"ftp://example.com/a.png", false},
		{"not a url", false},
		{"data:image/png;base64,", false},
		{"data:image/tiff;base64,SUkq", false},
		{"data:text/plain;base64,aGVsbG8=", false},
		{"data:image/png,rawdata", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidImageRef(tt.ref))
		})
	}
}

func TestAnalyzeImageRejectsInvalidRef(t *testing.T) {
	dispatcher := new(MockDispatcher)
	svc := NewVisionService(dispatcher)

	_, err := svc.AnalyzeImage(context.Background(), "not-an-image", "what is this?", llm.VisionOptions{})
	assert.True(t, llm.IsValidationError(err))
	assert.Contains(t, err.Error(), "invalid image URL or base64 data URI")
	dispatcher.AssertNotCalled(t, "Vision")
}

func TestAnalyzeImagePayloadShape(t *testing.T) {
	var parts []llm.ContentPart
	dispatcher := new(MockDispatcher)
	dispatcher.On("Vision", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { parts = args.Get(1).([]llm.ContentPart) }).
		Return(visionResponse("a cat"), nil)
	svc := NewVisionService(dispatcher)

	got, err := svc.AnalyzeImage(context.Background(), testImageURL, "what is this?", llm.VisionOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "a cat", got)

	if assert.Len(t, parts, 2) {
		assert.Equal(t, "text", parts[0].Type)
		assert.Equal(t, "what is this?", parts[0].Text)
		assert.Equal(t, "image_url", parts[1].Type)
		assert.Equal(t, testImageURL, parts[1].ImageURL.URL)
	}
}

func TestGenerateAltTextDefaults(t *testing.T) {
	var captured llm.VisionOptions
	dispatcher := new(MockDispatcher)
	dispatcher.On("Vision", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).(llm.VisionOptions) }).
		Return(visionResponse("  a cat on a sofa  "), nil)
	svc := NewVisionService(dispatcher)

	text, err := svc.GenerateAltText(context.Background(), testImageURL, llm.VisionOptions{})
	assert.NoError(t, err)
	assert.Equal(t, "a cat on a sofa", text)
	assert.Equal(t, 100, *captured.MaxTokens)
	assert.Equal(t, 0.5, *captured.Temperature)
	assert.Equal(t, llm.DetailAuto, captured.DetailLevel)
}

func TestGenerateTitleDefaults(t *testing.T) {
	var captured llm.VisionOptions
	dispatcher := new(MockDispatcher)
	dispatcher.On("Vision", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).(llm.VisionOptions) }).
		Return(visionResponse("Cat Nap"), nil)
	svc := NewVisionService(dispatcher)

	_, err := svc.GenerateTitle(context.Background(), testImageURL, llm.VisionOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 50, *captured.MaxTokens)
	assert.Equal(t, 0.7, *captured.Temperature)
}

func TestGenerateDescriptionKeepsCallerValues(t *testing.T) {
	var captured llm.VisionOptions
	dispatcher := new(MockDispatcher)
	dispatcher.On("Vision", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(2).(llm.VisionOptions) }).
		Return(visionResponse("detailed"), nil)
	svc := NewVisionService(dispatcher)

	_, err := svc.GenerateDescription(context.Background(), testImageURL, llm.VisionOptions{
		MaxTokens: llm.Int(250),
	})
	assert.NoError(t, err)
	assert.Equal(t, 250, *captured.MaxTokens)
	assert.Equal(t, 0.7, *captured.Temperature)
}

func TestGenerateAltTextBatchPreservesOrder(t *testing.T) {
	dispatcher := new(MockDispatcher)
	dispatcher.On("Vision", mock.Anything, mock.MatchedBy(func(parts []llm.ContentPart) bool {
		return parts[1].ImageURL.URL == "https://example.com/1.png"
	}), mock.Anything).Return(visionResponse("first"), nil)
	dispatcher.On("Vision", mock.Anything, mock.MatchedBy(func(parts []llm.ContentPart) bool {
		return parts[1].ImageURL.URL == "https://example.com/2.png"
	}), mock.Anything).Return(visionResponse("second"), nil)
	svc := NewVisionService(dispatcher)

	texts, err := svc.GenerateAltTextBatch(context.Background(), []string{
		"https://example.com/1.png",
		"https://example.com/2.png",
	}, llm.VisionOptions{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, texts)
	dispatcher.AssertNumberOfCalls(t, "Vision", 2)
}

func TestGenerateDescriptionBatchPreservesOrder(t *testing.T) {
	dispatcher := new(MockDispatcher)
	dispatcher.On("Vision", mock.Anything, mock.MatchedBy(func(parts []llm.ContentPart) bool {
		return parts[1].ImageURL.URL == "https://example.com/1.png"
	}), mock.Anything).Return(visionResponse("first scene"), nil)
	dispatcher.On("Vision", mock.Anything, mock.MatchedBy(func(parts []llm.ContentPart) bool {
		return parts[1].ImageURL.URL == "https://example.com/2.png"
	}), mock.Anything).Return(visionResponse("second scene"), nil)
	svc := NewVisionService(dispatcher)

	descriptions, err := svc.GenerateDescriptionBatch(context.Background(), []string{
		"https://example.com/1.png",
		"https://example.com/2.png",
	}, llm.VisionOptions{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"first scene", "second scene"}, descriptions)
	dispatcher.AssertNumberOfCalls(t, "Vision", 2)
}

func TestAnalyzeImageBatchPreservesOrder(t *testing.T) {
	dispatcher := new(MockDispatcher)
	dispatcher.On("Vision", mock.Anything, mock.MatchedBy(func(parts []llm.ContentPart) bool {
		return parts[1].ImageURL.URL == "https://example.com/1.png"
	}), mock.Anything).Return(visionResponse("one dog"), nil)
	dispatcher.On("Vision", mock.Anything, mock.MatchedBy(func(parts []llm.ContentPart) bool {
		return parts[1].ImageURL.URL == "https://example.com/2.png"
	}), mock.Anything).Return(visionResponse("two dogs"), nil)
	svc := NewVisionService(dispatcher)

	answers, err := svc.AnalyzeImageBatch(context.Background(), []string{
		"https://example.com/1.png",
		"https://example.com/2.png",
	}, "how many dogs?", llm.VisionOptions{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"one dog", "two dogs"}, answers)
	dispatcher.AssertNumberOfCalls(t, "Vision", 2)

	// The shared question travels with every image.
	for _, call := range dispatcher.Calls {
		parts := call.Arguments.Get(1).([]llm.ContentPart)
		assert.Equal(t, "how many dogs?", parts[0].Text)
	}
}

func TestAnalyzeImageBatchStopsOnInvalidRef(t *testing.T) {
	dispatcher := new(MockDispatcher)
	svc := NewVisionService(dispatcher)

	_, err := svc.AnalyzeImageBatch(context.Background(), []string{"bogus"}, "what is this?", llm.VisionOptions{})
	assert.True(t, llm.IsValidationError(err))
	dispatcher.AssertNotCalled(t, "Vision")
}
