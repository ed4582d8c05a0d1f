package embedder

import (
	"context"
	"hash/fnv"
	"math"
)

// Hash derives a deterministic unit vector from the FNV-64a hash of the input.
// Identical inputs always produce identical vectors; it carries no semantic meaning.
type Hash struct {
	dimensions int
}

// NewHash creates a hash embedder producing vectors of the given length.
func NewHash(dimensions int) *Hash {
	return &Hash{dimensions: dimensions}
}

func (h *Hash) Embed(ctx context.Context, data []byte) ([]float32, error) {
	f := fnv.New64a()
	f.Write(data)
	seed := f.Sum64()

	vec := make([]float32, h.dimensions)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(vec), nil
}

func (h *Hash) Dimensions() int {
	return h.dimensions
}

func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}

	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
