package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/fpt/go-llmgate/pkg/llm"
	"github.com/fpt/go-llmgate/pkg/logger"
)

// LLMTranslatorName is the name of the built-in LLM-backed translator.
const LLMTranslatorName = "llm"

// fallbackLanguage is returned when language detection yields no usable code.
const fallbackLanguage = "en"

// Translator is one translation backend. Backends are registered by name on
// the TranslationService; the LLM-backed one is always present.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string, opts llm.TranslationOptions) (*llm.TranslationResult, error)
}

// TranslationService translates text through pluggable backends, detecting
// the source language via the LLM when the caller omits it.
type TranslationService struct {
	dispatcher  Dispatcher
	mu          sync.RWMutex
	translators map[string]Translator
	log         *logger.Logger
}

// NewTranslationService creates a translation service with the LLM backend
// registered.
func NewTranslationService(dispatcher Dispatcher) *TranslationService {
	s := &TranslationService{
		dispatcher:  dispatcher,
		translators: make(map[string]Translator),
		log:         logger.NewComponentLogger("translation"),
	}
	s.RegisterTranslator(&llmTranslator{dispatcher: dispatcher})
	return s
}

// RegisterTranslator adds or replaces a backend under its name.
func (s *TranslationService) RegisterTranslator(t Translator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translators[t.Name()] = t
}

// Translators lists the registered backend names.
func (s *TranslationService) Translators() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.translators))
	for name := range s.translators {
		names = append(names, name)
	}
	return names
}

// Translate translates text into targetLang. An empty sourceLang triggers
// language detection first, costing a second round trip. The backend is
// chosen by opts.Translator, defaulting to the LLM one.
func (s *TranslationService) Translate(ctx context.Context, text, sourceLang, targetLang string, opts llm.TranslationOptions) (*llm.TranslationResult, error) {
	if text == "" {
		return nil, llm.NewValidationError("text", "text must not be empty")
	}
	if !llm.ValidLanguageCode(targetLang) {
		return nil, llm.NewValidationError("targetLanguage", "invalid language code")
	}
	if sourceLang != "" && !llm.ValidLanguageCode(sourceLang) {
		return nil, llm.NewValidationError("sourceLanguage", "invalid language code")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	t, err := s.translator(opts.Translator)
	if err != nil {
		return nil, err
	}

	if sourceLang == "" {
		detected, err := s.DetectLanguage(ctx, text, opts)
		if err != nil {
			return nil, errors.Wrap(err, "language detection failed")
		}
		sourceLang = detected
	}

	return t.Translate(ctx, text, sourceLang, targetLang, opts)
}

// TranslateBatch translates each text, one backend call per item (plus one
// shared detection call when sourceLang is empty), preserving input order.
// The detected language of the first text applies to the whole batch.
func (s *TranslationService) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string, opts llm.TranslationOptions) ([]*llm.TranslationResult, error) {
	if sourceLang == "" && len(texts) > 0 {
		if !llm.ValidLanguageCode(targetLang) {
			return nil, llm.NewValidationError("targetLanguage", "invalid language code")
		}
		detected, err := s.DetectLanguage(ctx, texts[0], opts)
		if err != nil {
			return nil, errors.Wrap(err, "language detection failed")
		}
		sourceLang = detected
	}

	results := make([]*llm.TranslationResult, 0, len(texts))
	for _, text := range texts {
		result, err := s.Translate(ctx, text, sourceLang, targetLang, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// DetectLanguage asks the model for the ISO 639-1 code of the text's
// language. Answers that are not valid codes fall back to "en".
func (s *TranslationService) DetectLanguage(ctx context.Context, text string, opts llm.TranslationOptions) (string, error) {
	if text == "" {
		return "", llm.NewValidationError("text", "text must not be empty")
	}

	prompt := fmt.Sprintf("Identify the language of the following text. Respond with the ISO 639-1 code only (for example \"en\" or \"de\").\n\nText: %s", text)
	resp, err := s.dispatcher.Complete(ctx, prompt, llm.ChatOptions{
		Provider:    opts.Provider,
		Model:       opts.Model,
		Temperature: llm.Float(0),
		MaxTokens:   llm.Int(10),
	})
	if err != nil {
		return "", err
	}

	code := strings.ToLower(strings.TrimSpace(resp.Content))
	code = strings.Trim(code, "\"'.`")
	if !llm.ValidLanguageCode(code) {
		s.log.Debug("language detection produced no code, using fallback", "answer", resp.Content)
		return fallbackLanguage, nil
	}
	return code, nil
}

// ScoreTranslationQuality asks the model to rate a translation between 0 and
// 1. The parsed score is clamped to [0,1]; unparsable answers are an error.
func (s *TranslationService) ScoreTranslationQuality(ctx context.Context, source, translation, sourceLang, targetLang string, opts llm.TranslationOptions) (float64, error) {
	if source == "" || translation == "" {
		return 0, llm.NewValidationError("text", "text must not be empty")
	}

	prompt := fmt.Sprintf(
		"Rate the quality of this translation from %s to %s on a scale from 0.0 (unusable) to 1.0 (perfect). Respond with the number only.\n\nSource: %s\n\nTranslation: %s",
		sourceLang, targetLang, source, translation)
	resp, err := s.dispatcher.Complete(ctx, prompt, llm.ChatOptions{
		Provider:    opts.Provider,
		Model:       opts.Model,
		Temperature: llm.Float(0),
		MaxTokens:   llm.Int(10),
	})
	if err != nil {
		return 0, err
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(resp.Content), 64)
	if err != nil {
		return 0, llm.NewValidationError("content", "failed to parse quality score")
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}

// translator resolves a backend by name; an empty name means the LLM backend.
func (s *TranslationService) translator(name string) (Translator, error) {
	if name == "" {
		name = LLMTranslatorName
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.translators[name]
	if !ok {
		return nil, llm.NewValidationError("translator", fmt.Sprintf("unknown translator: %s", name))
	}
	return t, nil
}

// llmTranslator translates through the chat completion path.
type llmTranslator struct {
	dispatcher Dispatcher
}

func (t *llmTranslator) Name() string { return LLMTranslatorName }

func (t *llmTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string, opts llm.TranslationOptions) (*llm.TranslationResult, error) {
	resp, err := t.dispatcher.Chat(ctx, []llm.ChatMessage{
		llm.NewSystemMessage(translationSystemPrompt(sourceLang, targetLang, opts)),
		llm.NewUserMessage(text),
	}, llm.ChatOptions{
		Provider:    opts.Provider,
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	return &llm.TranslationResult{
		TranslatedText: strings.TrimSpace(resp.Content),
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Translator:     LLMTranslatorName,
		Confidence:     confidenceFromFinishReason(resp.FinishReason),
	}, nil
}

// translationSystemPrompt builds the instruction honoring formality, domain
// and the string-valued glossary entries.
func translationSystemPrompt(sourceLang, targetLang string, opts llm.TranslationOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the user's text from %s to %s. Output only the translation, no explanations.", sourceLang, targetLang)

	if opts.Formality != "" && opts.Formality != "default" {
		fmt.Fprintf(&b, " Use a %s register.", opts.Formality)
	}
	if opts.Domain != "" && opts.Domain != "general" {
		fmt.Fprintf(&b, " The text is from the %s domain; use its terminology.", opts.Domain)
	}
	if glossary := opts.StringGlossary(); len(glossary) > 0 {
		terms := make([]string, 0, len(glossary))
		for term := range glossary {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		b.WriteString(" Use these exact translations for the following terms:")
		for _, term := range terms {
			fmt.Fprintf(&b, " %q -> %q;", term, glossary[term])
		}
	}
	return b.String()
}

// confidenceFromFinishReason maps the completion finish reason to a coarse
// confidence: a clean stop is trustworthy, a truncated answer much less so.
func confidenceFromFinishReason(reason string) float64 {
	switch reason {
	case llm.FinishReasonStop:
		return 0.9
	case llm.FinishReasonLength:
		return 0.6
	default:
		return 0.5
	}
}
