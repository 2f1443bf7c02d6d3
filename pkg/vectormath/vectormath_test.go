package vectormath

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"identical", []float64{1, 0}, []float64{1, 0}, 1.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"scaled identical", []float64{2, 0}, []float64{5, 0}, 1.0},
		{"zero vector", []float64{0, 0}, []float64{1, 0}, 0.0},
	}

	for _, tc := range testCases {
		sim, err := CosineSimilarity(tc.a, tc.b)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if math.Abs(sim-tc.expected) > 1e-9 {
			t.Errorf("%s: got %v, expected %v", tc.name, sim, tc.expected)
		}
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	if _, err := CosineSimilarity([]float64{1, 0}, []float64{1, 0, 0}); err == nil {
		t.Error("expected error for mismatched dimensions")
	}
	if _, err := CosineSimilarity(nil, nil); err == nil {
		t.Error("expected error for empty vectors")
	}
}

func TestNormalize(t *testing.T) {
	result := Normalize([]float64{3, 4})

	var magnitude float64
	for _, v := range result {
		magnitude += v * v
	}
	magnitude = math.Sqrt(magnitude)
	if math.Abs(magnitude-1.0) > 1e-4 {
		t.Errorf("normalized magnitude = %v, expected 1.0", magnitude)
	}

	if math.Abs(result[0]-0.6) > 1e-9 || math.Abs(result[1]-0.8) > 1e-9 {
		t.Errorf("Normalize([3,4]) = %v, expected [0.6, 0.8]", result)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	result := Normalize([]float64{0, 0, 0})
	for i, v := range result {
		if v != 0 {
			t.Errorf("Normalize zero vector: index %d = %v, expected 0", i, v)
		}
	}
}

func TestPairwiseSimilarities(t *testing.T) {
	vectors := [][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
		{-1, 0},
	}

	matrix, err := PairwiseSimilarities(vectors)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(matrix) != len(vectors) {
		t.Fatalf("matrix size = %d, expected %d", len(matrix), len(vectors))
	}
	for i := range matrix {
		if matrix[i][i] != 1.0 {
			t.Errorf("diagonal [%d][%d] = %v, expected exactly 1.0", i, i, matrix[i][i])
		}
		for j := range matrix[i] {
			if matrix[i][j] != matrix[j][i] {
				t.Errorf("matrix not symmetric at [%d][%d]: %v vs %v", i, j, matrix[i][j], matrix[j][i])
			}
		}
	}

	if math.Abs(matrix[0][3]+1.0) > 1e-9 {
		t.Errorf("similarity of opposite vectors = %v, expected -1.0", matrix[0][3])
	}
}

func TestFindMostSimilar(t *testing.T) {
	query := []float64{1, 0}
	candidates := [][]float64{
		{0, 1},
		{1, 0},
		{0.5, 0.5},
	}

	matches, err := FindMostSimilar(query, candidates, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("got %d matches, expected 3", len(matches))
	}
	if matches[0].Index != 1 {
		t.Errorf("best match index = %d, expected 1 (identical vector)", matches[0].Index)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Similarity > matches[i-1].Similarity {
			t.Errorf("matches not in descending order at %d", i)
		}
	}
}

func TestFindMostSimilar_TopKLimit(t *testing.T) {
	query := []float64{1, 0}
	candidates := [][]float64{{1, 0}, {0, 1}, {1, 1}, {-1, 0}}

	matches, err := FindMostSimilar(query, candidates, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("got %d matches, expected 2", len(matches))
	}
}

func TestFindMostSimilar_FewerCandidatesThanK(t *testing.T) {
	matches, err := FindMostSimilar([]float64{1, 0}, [][]float64{{1, 0}}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("got %d matches, expected 1", len(matches))
	}
}

func TestFindMostSimilar_EmptyCandidates(t *testing.T) {
	matches, err := FindMostSimilar([]float64{1, 0}, nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("got %d matches, expected 0", len(matches))
	}
}
