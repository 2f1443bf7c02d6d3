// Package config loads the gateway settings file: configured providers,
// model records, named configurations and ambient options.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fpt/go-llmgate/pkg/llm"
)

// Settings represents the main gateway settings.
type Settings struct {
	Providers      []llm.Provider      `yaml:"providers"`
	Models         []llm.Model         `yaml:"models,omitempty"`
	Configurations []llm.Configuration `yaml:"configurations,omitempty"`
	Cache          CacheSettings       `yaml:"cache,omitempty"`
	LogLevel       string              `yaml:"log_level,omitempty"`
	CircuitBreaker bool                `yaml:"circuit_breaker,omitempty"`
}

// CacheSettings controls the embedding cache.
type CacheSettings struct {
	Size       int `yaml:"size,omitempty"`
	TTLSeconds int `yaml:"ttl_seconds,omitempty"`
}

// LoadSettings loads settings from a YAML file. An empty path searches the
// usual locations; a missing file yields defaults.
func LoadSettings(configPath string) (*Settings, error) {
	if configPath == "" {
		configPath = findSettingsFile()
		if configPath == "" {
			return GetDefaultSettings(), nil
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return GetDefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	applyDefaults(&settings)
	return &settings, nil
}

// GetDefaultSettings returns settings suitable for a local Ollama setup, the
// only backend that needs no credential.
func GetDefaultSettings() *Settings {
	return &Settings{
		Providers: []llm.Provider{
			{
				Name:     "ollama",
				Type:     llm.ProviderOllama,
				Endpoint: "http://localhost:11434",
				Default:  true,
			},
		},
		Cache:    CacheSettings{Size: 1024, TTLSeconds: 86400},
		LogLevel: "info",
	}
}

// applyDefaults fills in missing fields with default values.
func applyDefaults(settings *Settings) {
	defaults := GetDefaultSettings()

	if len(settings.Providers) == 0 {
		settings.Providers = defaults.Providers
	}
	if settings.Cache.Size == 0 {
		settings.Cache.Size = defaults.Cache.Size
	}
	if settings.Cache.TTLSeconds == 0 {
		settings.Cache.TTLSeconds = defaults.Cache.TTLSeconds
	}
	if settings.LogLevel == "" {
		settings.LogLevel = defaults.LogLevel
	}
}

// ValidateSettings validates the settings.
func ValidateSettings(settings *Settings) error {
	if len(settings.Providers) == 0 {
		return fmt.Errorf("at least one provider is required")
	}

	seen := make(map[string]bool, len(settings.Providers))
	for _, p := range settings.Providers {
		if p.Name == "" {
			return fmt.Errorf("provider name is required")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate provider name: %s", p.Name)
		}
		seen[p.Name] = true

		switch p.Type {
		case llm.ProviderOpenAI, llm.ProviderAnthropic, llm.ProviderGemini, llm.ProviderOllama:
		default:
			return fmt.Errorf("unsupported provider type for %s: %s (must be 'openai', 'anthropic', 'gemini', or 'ollama')", p.Name, p.Type)
		}
	}

	for _, m := range settings.Models {
		if m.ProviderName == "" {
			return fmt.Errorf("model %s has no provider", m.ID)
		}
		if !seen[m.ProviderName] {
			return fmt.Errorf("model %s references unknown provider %s", m.ID, m.ProviderName)
		}
	}

	for _, c := range settings.Configurations {
		if c.ID == "" {
			return fmt.Errorf("configuration id is required")
		}
		if c.ProviderName != "" && !seen[c.ProviderName] {
			return fmt.Errorf("configuration %s references unknown provider %s", c.ID, c.ProviderName)
		}
		if err := c.Defaults.Validate(); err != nil {
			return fmt.Errorf("invalid defaults for configuration %s: %w", c.ID, err)
		}
	}

	return nil
}

// FindModel looks up a model record by its id.
func (s *Settings) FindModel(id string) (llm.Model, bool) {
	for _, m := range s.Models {
		if m.ID == id {
			return m, true
		}
	}
	return llm.Model{}, false
}

// FindConfiguration looks up a configuration by its id.
func (s *Settings) FindConfiguration(id string) (llm.Configuration, bool) {
	for _, c := range s.Configurations {
		if c.ID == id {
			return c, true
		}
	}
	return llm.Configuration{}, false
}

// findSettingsFile searches for llmgate.yaml in order of preference:
// 1. .llmgate/llmgate.yaml in the current directory
// 2. $HOME/.llmgate/llmgate.yaml
// Returns empty string if none found.
func findSettingsFile() string {
	currentDirPath := filepath.Join(".llmgate", "llmgate.yaml")
	if _, err := os.Stat(currentDirPath); err == nil {
		return currentDirPath
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		homeDirPath := filepath.Join(homeDir, ".llmgate", "llmgate.yaml")
		if _, err := os.Stat(homeDirPath); err == nil {
			return homeDirPath
		}
	}

	return ""
}
