package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fpt/go-llmgate/internal/cache"
	"github.com/fpt/go-llmgate/pkg/llm"
	"github.com/fpt/go-llmgate/pkg/logger"
	"github.com/fpt/go-llmgate/pkg/vectormath"
)

// defaultTopK is used by MostSimilar when the caller passes k <= 0.
const defaultTopK = 5

// EmbeddingService computes text embeddings with a content-addressed cache in
// front of the provider, and exposes the vector operations built on them.
type EmbeddingService struct {
	dispatcher Dispatcher
	cache      *cache.Manager
	ttl        time.Duration
	log        *logger.Logger
}

// NewEmbeddingService creates an embedding service. cacheManager may be nil
// to disable caching; ttl <= 0 uses the cache default of 24 hours.
func NewEmbeddingService(dispatcher Dispatcher, cacheManager *cache.Manager, ttl time.Duration) *EmbeddingService {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &EmbeddingService{
		dispatcher: dispatcher,
		cache:      cacheManager,
		ttl:        ttl,
		log:        logger.NewComponentLogger("embedding"),
	}
}

// Embed returns the embedding vector for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string, opts llm.EmbeddingOptions) ([]float64, error) {
	resp, err := s.EmbedFull(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, llm.NewProviderError(resp.Provider, "provider returned no embeddings", nil)
	}
	return resp.Embeddings[0], nil
}

// EmbedFull returns the full embedding response for a single text, consulting
// the cache first. A hit returns without any provider call; usage fields on
// cached responses default to zero when absent.
func (s *EmbeddingService) EmbedFull(ctx context.Context, text string, opts llm.EmbeddingOptions) (*llm.EmbeddingResponse, error) {
	if text == "" {
		return nil, llm.NewValidationError("text", "text must not be empty")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	key := s.cacheKey(text, opts)
	if s.cache != nil {
		if entry, ok := s.cache.Get(key); ok {
			s.log.Debug("embedding cache hit", "model", entry.Model)
			return &llm.EmbeddingResponse{
				Embeddings: entry.Embeddings,
				Model:      entry.Model,
				Usage:      entry.Usage,
				Provider:   opts.Provider,
			}, nil
		}
	}

	resp, err := s.dispatcher.Embed(ctx, []string{text}, opts)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Put(key, cache.Entry{
			Embeddings: resp.Embeddings,
			Model:      resp.Model,
			Usage:      resp.Usage,
		}, s.ttl)
	}
	return resp, nil
}

// EmbedBatch embeds a list of texts in one provider call, preserving input
// order. Batch results are not cached individually.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string, opts llm.EmbeddingOptions) (*llm.EmbeddingResponse, error) {
	if len(texts) == 0 {
		return nil, llm.NewValidationError("texts", "texts must not be empty")
	}
	for i, t := range texts {
		if t == "" {
			return nil, llm.NewValidationError("texts", fmt.Sprintf("text at index %d must not be empty", i))
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return s.dispatcher.Embed(ctx, texts, opts)
}

// Similarity embeds both texts and returns their cosine similarity.
func (s *EmbeddingService) Similarity(ctx context.Context, a, b string, opts llm.EmbeddingOptions) (float64, error) {
	va, err := s.Embed(ctx, a, opts)
	if err != nil {
		return 0, err
	}
	vb, err := s.Embed(ctx, b, opts)
	if err != nil {
		return 0, err
	}
	return vectormath.CosineSimilarity(va, vb)
}

// CosineSimilarity computes the cosine similarity of two precomputed vectors.
func (s *EmbeddingService) CosineSimilarity(a, b []float64) (float64, error) {
	return vectormath.CosineSimilarity(a, b)
}

// Normalize scales a vector to unit length. Zero vectors are returned as is.
func (s *EmbeddingService) Normalize(v []float64) []float64 {
	return vectormath.Normalize(v)
}

// PairwiseSimilarities computes the symmetric similarity matrix of a vector set.
func (s *EmbeddingService) PairwiseSimilarities(vectors [][]float64) ([][]float64, error) {
	return vectormath.PairwiseSimilarities(vectors)
}

// MostSimilar returns the top-k candidates most similar to query, in
// descending similarity order. k <= 0 uses a default of 5.
func (s *EmbeddingService) MostSimilar(query []float64, candidates [][]float64, topK int) ([]vectormath.Match, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	return vectormath.FindMostSimilar(query, candidates, topK)
}

// cacheKey fingerprints a request: text, model and every option that changes
// the resulting vector.
func (s *EmbeddingService) cacheKey(text string, opts llm.EmbeddingOptions) string {
	dims := ""
	if opts.Dimensions != nil {
		dims = fmt.Sprintf("%d", *opts.Dimensions)
	}
	return cache.Key(text, opts.Model, opts.Provider, dims)
}
