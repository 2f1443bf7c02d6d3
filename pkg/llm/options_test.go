package llm

import (
	"strings"
	"testing"
)

func TestChatOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    ChatOptions
		wantErr string
	}{
		{
			name: "zero options are valid",
			opts: ChatOptions{},
		},
		{
			name: "all fields in range",
			opts: ChatOptions{
				Temperature:      Float(0.7),
				TopP:             Float(0.9),
				MaxTokens:        Int(256),
				PresencePenalty:  Float(-1.5),
				FrequencyPenalty: Float(1.5),
				ResponseFormat:   ResponseFormatJSON,
			},
		},
		{
			name: "boundary temperatures",
			opts: ChatOptions{Temperature: Float(2.0), TopP: Float(0)},
		},
		{
			name:    "temperature too high",
			opts:    ChatOptions{Temperature: Float(2.1)},
			wantErr: "temperature must be between 0 and 2",
		},
		{
			name:    "temperature negative",
			opts:    ChatOptions{Temperature: Float(-0.1)},
			wantErr: "temperature must be between 0 and 2",
		},
		{
			name:    "topP too high",
			opts:    ChatOptions{TopP: Float(1.5)},
			wantErr: "topP must be between 0 and 1",
		},
		{
			name:    "maxTokens zero",
			opts:    ChatOptions{MaxTokens: Int(0)},
			wantErr: "maxTokens must be a positive integer",
		},
		{
			name:    "maxTokens negative",
			opts:    ChatOptions{MaxTokens: Int(-5)},
			wantErr: "maxTokens must be a positive integer",
		},
		{
			name:    "presencePenalty out of range",
			opts:    ChatOptions{PresencePenalty: Float(2.5)},
			wantErr: "presencePenalty must be between -2 and 2",
		},
		{
			name:    "unknown response format",
			opts:    ChatOptions{ResponseFormat: "xml"},
			wantErr: "responseFormat must be one of text, json, markdown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			checkValidation(t, err, tt.wantErr)
		})
	}
}

func TestEmbeddingOptionsValidate(t *testing.T) {
	if err := (EmbeddingOptions{}).Validate(); err != nil {
		t.Errorf("zero options: unexpected error %v", err)
	}
	if err := (EmbeddingOptions{Dimensions: Int(1536)}).Validate(); err != nil {
		t.Errorf("dimensions 1536: unexpected error %v", err)
	}
	err := (EmbeddingOptions{Dimensions: Int(0)}).Validate()
	checkValidation(t, err, "dimensions must be a positive integer")
}

func TestVisionOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    VisionOptions
		wantErr string
	}{
		{name: "zero options", opts: VisionOptions{}},
		{name: "detail auto", opts: VisionOptions{DetailLevel: DetailAuto}},
		{name: "detail high", opts: VisionOptions{DetailLevel: DetailHigh}},
		{
			name:    "unknown detail",
			opts:    VisionOptions{DetailLevel: "ultra"},
			wantErr: "detailLevel must be one of auto, low, high",
		},
		{
			name:    "temperature out of range",
			opts:    VisionOptions{Temperature: Float(5)},
			wantErr: "temperature must be between 0 and 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkValidation(t, tt.opts.Validate(), tt.wantErr)
		})
	}
}

func TestTranslationOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    TranslationOptions
		wantErr string
	}{
		{name: "zero options", opts: TranslationOptions{}},
		{name: "formal technical", opts: TranslationOptions{Formality: "formal", Domain: "technical"}},
		{
			name:    "unknown formality",
			opts:    TranslationOptions{Formality: "casual"},
			wantErr: "formality must be one of default, formal, informal",
		},
		{
			name:    "unknown domain",
			opts:    TranslationOptions{Domain: "poetry"},
			wantErr: "domain must be one of general, technical, medical, legal, financial",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkValidation(t, tt.opts.Validate(), tt.wantErr)
		})
	}
}

func TestValidLanguageCode(t *testing.T) {
	valid := []string{"en", "de", "fra", "en-US", "pt-BR"}
	for _, code := range valid {
		if !ValidLanguageCode(code) {
			t.Errorf("ValidLanguageCode(%q) = false, want true", code)
		}
	}

	invalid := []string{"", "e", "english", "EN", "en-us", "en_US", "1234"}
	for _, code := range invalid {
		if ValidLanguageCode(code) {
			t.Errorf("ValidLanguageCode(%q) = true, want false", code)
		}
	}
}

func TestStringGlossary(t *testing.T) {
	opts := TranslationOptions{Glossary: map[string]any{
		"cloud":  "Cloud",
		"server": "Server",
		"count":  3,
		"flag":   true,
	}}

	got := opts.StringGlossary()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got["cloud"] != "Cloud" || got["server"] != "Server" {
		t.Errorf("unexpected glossary: %v", got)
	}

	if (TranslationOptions{}).StringGlossary() != nil {
		t.Error("empty glossary should yield nil")
	}
}

func checkValidation(t *testing.T, err error, wantErr string) {
	t.Helper()
	if wantErr == "" {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", wantErr)
	}
	if !IsValidationError(err) {
		t.Errorf("error %v is not a ValidationError", err)
	}
	if !strings.Contains(err.Error(), wantErr) {
		t.Errorf("error %q does not contain %q", err.Error(), wantErr)
	}
}
