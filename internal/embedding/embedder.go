// internal/embedding/embedder.go
package embedding

import (
	"context"
	"math"
)

// Embedder turns text into fixed-size normalized vectors.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	ModelID() string
	Close() error
}

// l2Normalize scales v to unit length in place. Zero vectors are left as-is
// so cosine against them stays zero instead of producing NaN.
func l2Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
