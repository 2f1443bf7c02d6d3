package service

import (
	"context"
	"net/url"
	"strings"

	"github.com/fpt/go-llmgate/pkg/llm"
	"github.com/fpt/go-llmgate/pkg/logger"
)

// Prompts and sampling presets for the image helpers.
const (
	altTextPrompt     = "Generate a concise alt text for this image. Describe the essential content for a visually impaired reader. Respond with the alt text only."
	titlePrompt       = "Generate a short, descriptive title for this image. Respond with the title only."
	descriptionPrompt = "Describe this image in detail: subjects, setting, colors, composition and any visible text."

	altTextMaxTokens     = 100
	altTextTemperature   = 0.5
	titleMaxTokens       = 50
	titleTemperature     = 0.7
	descriptionMaxTokens = 500
	descriptionTemp      = 0.7
)

// dataURIMediaTypes are the image media types accepted in data URIs.
var dataURIMediaTypes = []string{"png", "jpeg", "jpg", "gif", "webp"}

// VisionService analyzes images through the Manager: alt text, titles and
// descriptions with tuned presets, plus free-form analysis.
type VisionService struct {
	dispatcher Dispatcher
	log        *logger.Logger
}

// NewVisionService creates a vision service.
func NewVisionService(dispatcher Dispatcher) *VisionService {
	return &VisionService{
		dispatcher: dispatcher,
		log:        logger.NewComponentLogger("vision"),
	}
}

// GenerateAltText produces accessibility alt text for an image.
func (s *VisionService) GenerateAltText(ctx context.Context, imageRef string, opts llm.VisionOptions) (string, error) {
	applyVisionDefaults(&opts, altTextMaxTokens, altTextTemperature)
	resp, err := s.analyze(ctx, imageRef, altTextPrompt, opts)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Description), nil
}

// GenerateTitle produces a short title for an image.
func (s *VisionService) GenerateTitle(ctx context.Context, imageRef string, opts llm.VisionOptions) (string, error) {
	applyVisionDefaults(&opts, titleMaxTokens, titleTemperature)
	resp, err := s.analyze(ctx, imageRef, titlePrompt, opts)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Description), nil
}

// GenerateDescription produces a detailed description of an image.
func (s *VisionService) GenerateDescription(ctx context.Context, imageRef string, opts llm.VisionOptions) (string, error) {
	applyVisionDefaults(&opts, descriptionMaxTokens, descriptionTemp)
	resp, err := s.analyze(ctx, imageRef, descriptionPrompt, opts)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Description), nil
}

// AnalyzeImage answers a free-form question about an image.
func (s *VisionService) AnalyzeImage(ctx context.Context, imageRef, prompt string, opts llm.VisionOptions) (string, error) {
	resp, err := s.AnalyzeImageFull(ctx, imageRef, prompt, opts)
	if err != nil {
		return "", err
	}
	return resp.Description, nil
}

// AnalyzeImageFull answers a free-form question about an image and returns
// the full response including usage.
func (s *VisionService) AnalyzeImageFull(ctx context.Context, imageRef, prompt string, opts llm.VisionOptions) (*llm.VisionResponse, error) {
	if prompt == "" {
		return nil, llm.NewValidationError("prompt", "prompt must not be empty")
	}
	return s.analyze(ctx, imageRef, prompt, opts)
}

// GenerateAltTextBatch produces alt text for each image, one provider call
// per image, preserving input order.
func (s *VisionService) GenerateAltTextBatch(ctx context.Context, imageRefs []string, opts llm.VisionOptions) ([]string, error) {
	results := make([]string, 0, len(imageRefs))
	for _, ref := range imageRefs {
		text, err := s.GenerateAltText(ctx, ref, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, text)
	}
	return results, nil
}

// GenerateTitleBatch produces a title for each image, preserving input order.
func (s *VisionService) GenerateTitleBatch(ctx context.Context, imageRefs []string, opts llm.VisionOptions) ([]string, error) {
	results := make([]string, 0, len(imageRefs))
	for _, ref := range imageRefs {
		title, err := s.GenerateTitle(ctx, ref, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, title)
	}
	return results, nil
}

// GenerateDescriptionBatch produces a detailed description for each image,
// preserving input order.
func (s *VisionService) GenerateDescriptionBatch(ctx context.Context, imageRefs []string, opts llm.VisionOptions) ([]string, error) {
	results := make([]string, 0, len(imageRefs))
	for _, ref := range imageRefs {
		description, err := s.GenerateDescription(ctx, ref, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, description)
	}
	return results, nil
}

// AnalyzeImageBatch answers the same question about each image, one provider
// call per image, preserving input order.
func (s *VisionService) AnalyzeImageBatch(ctx context.Context, imageRefs []string, prompt string, opts llm.VisionOptions) ([]string, error) {
	results := make([]string, 0, len(imageRefs))
	for _, ref := range imageRefs {
		answer, err := s.AnalyzeImage(ctx, ref, prompt, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, answer)
	}
	return results, nil
}

// analyze validates the image reference and dispatches the canonical
// two-part payload: the instruction text first, then the image.
func (s *VisionService) analyze(ctx context.Context, imageRef, prompt string, opts llm.VisionOptions) (*llm.VisionResponse, error) {
	if !ValidImageRef(imageRef) {
		return nil, llm.NewValidationError("image", "invalid image URL or base64 data URI")
	}
	if opts.DetailLevel == "" {
		opts.DetailLevel = llm.DetailAuto
	}
	parts := []llm.ContentPart{
		llm.TextPart(prompt),
		llm.ImagePart(imageRef, opts.DetailLevel),
	}
	return s.dispatcher.Vision(ctx, parts, opts)
}

// applyVisionDefaults fills preset values into fields the caller left unset.
func applyVisionDefaults(opts *llm.VisionOptions, maxTokens int, temperature float64) {
	if opts.MaxTokens == nil {
		opts.MaxTokens = llm.Int(maxTokens)
	}
	if opts.Temperature == nil {
		opts.Temperature = llm.Float(temperature)
	}
}

// ValidImageRef reports whether an image reference is an http(s) URL or a
// base64 image data URI.
func ValidImageRef(ref string) bool {
	if ref == "" {
		return false
	}
	if strings.HasPrefix(ref, "data:image/") {
		rest := strings.TrimPrefix(ref, "data:image/")
		semi := strings.Index(rest, ";")
		if semi < 0 {
			return false
		}
		mediaType := rest[:semi]
		for _, t := range dataURIMediaTypes {
			if mediaType == t {
				return strings.HasPrefix(rest[semi:], ";base64,") && len(rest) > semi+len(";base64,")
			}
		}
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
