package catalog

import (
	"math"
	"testing"
)

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.07}
	if got := CosineSimilarity(v, v); math.Abs(got-1.0) > 1e-9 {
		t.Fatalf("cosine(v, v) = %v, want 1.0", got)
	}
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	v := []float32{1, 2, 3}
	zero := []float32{0, 0, 0}
	if got := CosineSimilarity(v, zero); got != 0 {
		t.Fatalf("cosine(v, 0) = %v, want 0", got)
	}
	if got := CosineSimilarity(zero, zero); got != 0 {
		t.Fatalf("cosine(0, 0) = %v, want 0", got)
	}
}

func TestCosineSimilarity_MismatchedOrEmpty(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}); got != 0 {
		t.Fatalf("mismatched lengths = %v, want 0", got)
	}
	if got := CosineSimilarity(nil, nil); got != 0 {
		t.Fatalf("empty vectors = %v, want 0", got)
	}
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := CosineSimilarity(a, b); math.Abs(got) > 1e-9 {
		t.Fatalf("orthogonal = %v, want 0", got)
	}
}
