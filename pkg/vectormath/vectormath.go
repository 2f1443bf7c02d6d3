// Package vectormath provides pure vector operations over embedding vectors:
// cosine similarity, normalization, pairwise similarity matrices and top-k
// nearest-neighbor search.
package vectormath

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// CosineSimilarity returns dot(a,b)/(|a|*|b|), the cosine of the angle
// between a and b: 1 for identical direction, -1 for opposite, 0 for
// orthogonal. Vectors must share dimensionality; degenerate (zero-magnitude)
// vectors yield 0.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions do not match: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("vectors must not be empty")
	}
	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return floats.Dot(a, b) / (normA * normB), nil
}

// Normalize returns v scaled to unit magnitude. The zero vector maps to
// itself rather than erroring.
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	norm := floats.Norm(v, 2)
	if norm == 0 {
		copy(out, v)
		return out
	}
	copy(out, v)
	floats.Scale(1/norm, out)
	return out
}

// PairwiseSimilarities returns the N×N cosine-similarity matrix for the
// given vectors. The matrix is symmetric and its diagonal is exactly 1.0 for
// any non-degenerate vector.
func PairwiseSimilarities(vectors [][]float64) ([][]float64, error) {
	n := len(vectors)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		if floats.Norm(vectors[i], 2) != 0 {
			matrix[i][i] = 1.0
		}
		for j := i + 1; j < n; j++ {
			sim, err := CosineSimilarity(vectors[i], vectors[j])
			if err != nil {
				return nil, fmt.Errorf("pairwise similarity [%d][%d]: %w", i, j, err)
			}
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}
	return matrix, nil
}

// Match is one result of a top-k similarity search, carrying the candidate's
// original index.
type Match struct {
	Index      int     `json:"index"`
	Similarity float64 `json:"similarity"`
}

// FindMostSimilar scores query against every candidate and returns at most
// topK matches ordered by descending similarity. Fewer candidates than topK
// returns them all; no candidates returns an empty slice, not an error.
func FindMostSimilar(query []float64, candidates [][]float64, topK int) ([]Match, error) {
	if len(candidates) == 0 {
		return []Match{}, nil
	}
	matches := make([]Match, 0, len(candidates))
	for i, candidate := range candidates {
		sim, err := CosineSimilarity(query, candidate)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		matches = append(matches, Match{Index: i, Similarity: sim})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
