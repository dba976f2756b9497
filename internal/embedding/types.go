// Package embedding provides the embedding-model collaborator the
// graph store depends on (spec section 6): a pure function from text
// to a fixed-dimension, ideally unit-normalized vector. The model
// itself is explicitly out of scope for the core (spec section 1);
// this package supplies concrete, swappable implementations so the
// rest of the engine is runnable without an external service.
package embedding

import (
	"context"
	"math"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float64, error)
	// EmbedTexts embeds a batch of texts, preserving order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
	// Dimensions returns the fixed embedding dimension this embedder
	// produces. Used at schema-creation time to size vector columns
	// (spec section 3: "Embedding dimension is fixed per store").
	Dimensions() int
}

// Normalize returns a unit-length copy of v (Euclidean norm), the
// ingress normalization spec section 4.2 requires of every embedding
// before it reaches the MMR helper. A zero vector is returned as-is.
func Normalize(v []float64) []float64 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += x * x
	}
	if sumSquares == 0 {
		return v
	}
	norm := math.Sqrt(sumSquares)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
