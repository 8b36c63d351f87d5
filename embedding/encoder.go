// Package embedding defines the embedding-model boundary: encode text
// into vectors and compare them.
package embedding

import (
	"context"
	"errors"
	"math"
)

// Encoder maps text into a shared embedding space
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float64, error)
	EncodeBatch(ctx context.Context, texts []string) ([][]float64, error)
}

var ErrEmbeddingFailed = errors.New("failed to generate embedding")

// CosineSimilarity computes the cosine of the angle between two
// vectors. Returns 0 for mismatched or zero-length inputs.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Normalize scales a vector to unit length in place
func Normalize(v []float64) {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range v {
			v[i] /= norm
		}
	}
}
