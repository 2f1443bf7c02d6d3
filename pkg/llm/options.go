package llm

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Response formats accepted by ChatOptions.
const (
	ResponseFormatText     = "text"
	ResponseFormatJSON     = "json"
	ResponseFormatMarkdown = "markdown"
)

// Vision detail levels.
const (
	DetailAuto = "auto"
	DetailLow  = "low"
	DetailHigh = "high"
)

// langCodePattern matches ISO-639-like codes, optionally with a region
// suffix: "de", "en-US".
var langCodePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Z]{2})?$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// "langcode" accepts an empty value; non-empty values must match the
	// basic locale pattern.
	_ = v.RegisterValidation("langcode", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || langCodePattern.MatchString(s)
	})
	return v
}

// ValidLanguageCode reports whether code matches the basic locale pattern
// ("xx" or "xx-XX").
func ValidLanguageCode(code string) bool {
	return langCodePattern.MatchString(code)
}

// ChatOptions configures a chat/completion call. Optional numeric fields are
// pointers so that "unset" is distinguishable from zero: defaults applied by
// services never override caller-supplied values.
type ChatOptions struct {
	Provider         string   `validate:"omitempty"`
	Model            string   `validate:"omitempty"`
	Temperature      *float64 `validate:"omitempty,gte=0,lte=2"`
	TopP             *float64 `validate:"omitempty,gte=0,lte=1"`
	MaxTokens        *int     `validate:"omitempty,gt=0"`
	PresencePenalty  *float64 `validate:"omitempty,gte=-2,lte=2"`
	FrequencyPenalty *float64 `validate:"omitempty,gte=-2,lte=2"`
	ResponseFormat   string   `validate:"omitempty,oneof=text json markdown"`
	SystemPrompt     string   `validate:"omitempty"`
	StopSequences    []string `validate:"omitempty"`
}

// Validate checks the option invariants. It fails fast with a
// ValidationError before any network call.
func (o ChatOptions) Validate() error {
	return translateValidation(validate.Struct(o), map[string]string{
		"Temperature":      "temperature must be between 0 and 2",
		"TopP":             "topP must be between 0 and 1",
		"MaxTokens":        "maxTokens must be a positive integer",
		"PresencePenalty":  "presencePenalty must be between -2 and 2",
		"FrequencyPenalty": "frequencyPenalty must be between -2 and 2",
		"ResponseFormat":   "responseFormat must be one of text, json, markdown",
	})
}

// EmbeddingOptions configures an embedding call.
type EmbeddingOptions struct {
	Provider   string `validate:"omitempty"`
	Model      string `validate:"omitempty"`
	Dimensions *int   `validate:"omitempty,gt=0"`
}

// Validate checks the option invariants.
func (o EmbeddingOptions) Validate() error {
	return translateValidation(validate.Struct(o), map[string]string{
		"Dimensions": "dimensions must be a positive integer",
	})
}

// VisionOptions configures an image-analysis call.
type VisionOptions struct {
	Provider    string   `validate:"omitempty"`
	Model       string   `validate:"omitempty"`
	Temperature *float64 `validate:"omitempty,gte=0,lte=2"`
	MaxTokens   *int     `validate:"omitempty,gt=0"`
	DetailLevel string   `validate:"omitempty,oneof=auto low high"`
}

// Validate checks the option invariants.
func (o VisionOptions) Validate() error {
	return translateValidation(validate.Struct(o), map[string]string{
		"Temperature": "temperature must be between 0 and 2",
		"MaxTokens":   "maxTokens must be a positive integer",
		"DetailLevel": "detailLevel must be one of auto, low, high",
	})
}

// TranslationOptions configures a translation call. Glossary values that are
// not strings are dropped silently, not rejected.
type TranslationOptions struct {
	Provider    string         `validate:"omitempty"`
	Model       string         `validate:"omitempty"`
	Translator  string         `validate:"omitempty"`
	Formality   string         `validate:"omitempty,oneof=default formal informal"`
	Domain      string         `validate:"omitempty,oneof=general technical medical legal financial"`
	Temperature *float64       `validate:"omitempty,gte=0,lte=2"`
	MaxTokens   *int           `validate:"omitempty,gt=0"`
	Glossary    map[string]any `validate:"omitempty"`
}

// Validate checks the option invariants.
func (o TranslationOptions) Validate() error {
	return translateValidation(validate.Struct(o), map[string]string{
		"Formality":   "formality must be one of default, formal, informal",
		"Domain":      "domain must be one of general, technical, medical, legal, financial",
		"Temperature": "temperature must be between 0 and 2",
		"MaxTokens":   "maxTokens must be a positive integer",
	})
}

// StringGlossary filters the glossary to string-valued pairs only.
func (o TranslationOptions) StringGlossary() map[string]string {
	if len(o.Glossary) == 0 {
		return nil
	}
	out := make(map[string]string, len(o.Glossary))
	for k, v := range o.Glossary {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// translateValidation converts validator errors into the canonical
// ValidationError using per-field messages.
func translateValidation(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return NewValidationError("", err.Error())
	}
	first := verrs[0]
	if msg, ok := messages[first.Field()]; ok {
		return NewValidationError(first.Field(), msg)
	}
	return NewValidationError(first.Field(), "invalid value")
}
