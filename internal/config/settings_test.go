package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fpt/go-llmgate/pkg/llm"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if len(settings.Providers) != 1 || settings.Providers[0].Type != llm.ProviderOllama {
		t.Errorf("expected default ollama provider, got %+v", settings.Providers)
	}
	if settings.Cache.TTLSeconds != 86400 {
		t.Errorf("Cache.TTLSeconds = %d, want 86400", settings.Cache.TTLSeconds)
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	content := `
providers:
  - name: openai
    type: openai
    default: true
  - name: local
    type: ollama
    endpoint: http://localhost:11434
models:
  - id: gpt-4o
    provider: openai
    capabilities: [chat, vision]
configurations:
  - id: summarizer
    provider: openai
    model_id: gpt-4o
    max_requests_per_day: 100
`
	path := filepath.Join(t.TempDir(), "llmgate.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if len(settings.Providers) != 2 {
		t.Fatalf("len(Providers) = %d, want 2", len(settings.Providers))
	}
	if err := ValidateSettings(settings); err != nil {
		t.Errorf("ValidateSettings() error = %v", err)
	}

	model, ok := settings.FindModel("gpt-4o")
	if !ok {
		t.Fatal("FindModel(gpt-4o) not found")
	}
	if !model.HasCapability("vision") {
		t.Error("model should have vision capability")
	}

	cfg, ok := settings.FindConfiguration("summarizer")
	if !ok {
		t.Fatal("FindConfiguration(summarizer) not found")
	}
	if !cfg.HasLimits() {
		t.Error("configuration with max_requests_per_day should report limits")
	}
}

func TestValidateSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		wantErr  bool
	}{
		{
			name:     "no providers",
			settings: Settings{},
			wantErr:  true,
		},
		{
			name: "duplicate names",
			settings: Settings{Providers: []llm.Provider{
				{Name: "a", Type: llm.ProviderOpenAI},
				{Name: "a", Type: llm.ProviderOllama},
			}},
			wantErr: true,
		},
		{
			name: "unknown type",
			settings: Settings{Providers: []llm.Provider{
				{Name: "a", Type: "mystery"},
			}},
			wantErr: true,
		},
		{
			name: "model with unknown provider",
			settings: Settings{
				Providers: []llm.Provider{{Name: "a", Type: llm.ProviderOpenAI}},
				Models:    []llm.Model{{ID: "m", ProviderName: "b"}},
			},
			wantErr: true,
		},
		{
			name: "valid",
			settings: Settings{
				Providers: []llm.Provider{{Name: "a", Type: llm.ProviderOpenAI}},
				Models:    []llm.Model{{ID: "m", ProviderName: "a"}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSettings(&tt.settings)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSettings() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
