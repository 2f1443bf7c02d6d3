package llm

// The entities below are owned by the host application's persistence layer.
// The gateway reads them to construct adapters and apply defaults; it never
// writes them back.

// Provider types the registry knows how to construct adapters for.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// Provider describes one configured vendor account.
type Provider struct {
	Name           string `yaml:"name" json:"name"`
	Type           string `yaml:"type" json:"type"` // openai, anthropic, gemini, ollama
	Endpoint       string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	APIKey         string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	Organization   string `yaml:"organization,omitempty" json:"organization,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
	MaxRetries     int    `yaml:"max_retries,omitempty" json:"max_retries,omitempty"`
	DefaultModel   string `yaml:"default_model,omitempty" json:"default_model,omitempty"`
	Default        bool   `yaml:"default,omitempty" json:"default,omitempty"`
}

// Model describes one model record from the host catalog.
type Model struct {
	ID                 string    `yaml:"id" json:"id"`
	Name               string    `yaml:"name" json:"name"` // vendor model id
	ProviderName       string    `yaml:"provider" json:"provider"`
	ContextLength      int       `yaml:"context_length,omitempty" json:"context_length,omitempty"`
	MaxOutputTokens    int       `yaml:"max_output_tokens,omitempty" json:"max_output_tokens,omitempty"`
	Capabilities       []Feature `yaml:"capabilities,omitempty" json:"capabilities,omitempty"`
	CostInputPerToken  float64   `yaml:"cost_input_per_token,omitempty" json:"cost_input_per_token,omitempty"`
	CostOutputPerToken float64   `yaml:"cost_output_per_token,omitempty" json:"cost_output_per_token,omitempty"`
	Active             bool      `yaml:"active" json:"active"`
	Default            bool      `yaml:"default,omitempty" json:"default,omitempty"`
}

// HasCapability reports whether the model record lists a capability.
func (m *Model) HasCapability(f Feature) bool {
	for _, c := range m.Capabilities {
		if c == f {
			return true
		}
	}
	return false
}

// Configuration bundles a model reference, default chat options and daily
// quota ceilings. Zero-valued ceilings mean unlimited.
type Configuration struct {
	ID                string      `yaml:"id" json:"id"`
	Name              string      `yaml:"name,omitempty" json:"name,omitempty"`
	ModelID           string      `yaml:"model_id,omitempty" json:"model_id,omitempty"`
	ProviderName      string      `yaml:"provider,omitempty" json:"provider,omitempty"`
	Defaults          ChatOptions `yaml:"defaults,omitempty" json:"defaults,omitempty"`
	MaxRequestsPerDay int         `yaml:"max_requests_per_day,omitempty" json:"max_requests_per_day,omitempty"`
	MaxTokensPerDay   int         `yaml:"max_tokens_per_day,omitempty" json:"max_tokens_per_day,omitempty"`
	MaxCostPerDay     float64     `yaml:"max_cost_per_day,omitempty" json:"max_cost_per_day,omitempty"`
}

// HasLimits reports whether any quota ceiling is set.
func (c *Configuration) HasLimits() bool {
	return c.MaxRequestsPerDay > 0 || c.MaxTokensPerDay > 0 || c.MaxCostPerDay > 0
}
