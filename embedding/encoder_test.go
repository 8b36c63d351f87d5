package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 0}, []float64{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 0}, []float64{-1, 0}), 1e-9)
	// Magnitude does not matter
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{2, 0}, []float64{0.5, 0}), 1e-9)
}

func TestCosineSimilarityDegenerateInputs(t *testing.T) {
	assert.Zero(t, CosineSimilarity(nil, nil))
	assert.Zero(t, CosineSimilarity([]float64{1}, []float64{1, 2}))
	assert.Zero(t, CosineSimilarity([]float64{0, 0}, []float64{1, 0}))
}

func TestNormalize(t *testing.T) {
	v := []float64{3, 4}
	Normalize(v)
	assert.InDelta(t, 0.6, v[0], 1e-9)
	assert.InDelta(t, 0.8, v[1], 1e-9)

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestNormalizeZeroVector(t *testing.T) {
	v := []float64{0, 0}
	Normalize(v)
	assert.Equal(t, []float64{0, 0}, v)
}
