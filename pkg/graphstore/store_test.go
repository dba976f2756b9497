package graphstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amancerp/graphweave/internal/backend"
	"github.com/amancerp/graphweave/internal/embedding"
)

// axisEmbedder assigns each distinct text a one-hot vector along an
// axis of its first appearance, giving tests exact control over
// similarity without depending on StaticEmbedder's hashing.
type axisEmbedder struct {
	dims int
	axes map[string]int
	next int
}

func newAxisEmbedder(dims int) *axisEmbedder {
	return &axisEmbedder{dims: dims, axes: make(map[string]int)}
}

func (e *axisEmbedder) vectorFor(text string) []float64 {
	axis, ok := e.axes[text]
	if !ok {
		axis = e.next % e.dims
		e.axes[text] = axis
		e.next++
	}
	v := make([]float64, e.dims)
	v[axis] = 1
	return v
}

func (e *axisEmbedder) EmbedQuery(_ context.Context, text string) ([]float64, error) {
	return e.vectorFor(text), nil
}

func (e *axisEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = e.vectorFor(t)
	}
	return out, nil
}

func (e *axisEmbedder) Dimensions() int { return e.dims }

var _ embedding.Embedder = (*axisEmbedder)(nil)

func newTestStore(t *testing.T, embedder embedding.Embedder) *GraphStore {
	t.Helper()
	session, err := backend.Open(context.Background(), ":memory:", embedder.Dimensions(), backend.SetupSync)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	store, err := New(embedder, session, Options{})
	require.NoError(t, err)
	return store
}
