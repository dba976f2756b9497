package mmr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopBest_OrdersBySimilarityWhenNoRedundancy(t *testing.T) {
	h := New(Config{
		QueryEmbedding: []float64{1, 0},
		LambdaMult:     1.0, // pure relevance, no diversity penalty
		K:              3,
		ScoreThreshold: math.Inf(-1),
	})
	h.AddCandidates(map[string][]float64{
		"low":  {0.1, 0.99},
		"high": {0.99, 0.1},
		"mid":  {0.5, 0.5},
	})

	first, ok := h.PopBest()
	require.True(t, ok)
	assert.Equal(t, "high", first)
}

func TestPopBest_TieBreaksOnLexicographicallySmallerID(t *testing.T) {
	// S5: identical embeddings and query similarity; smaller id wins.
	h := New(Config{
		QueryEmbedding: []float64{1, 0},
		LambdaMult:     0.5,
		K:              2,
		ScoreThreshold: math.Inf(-1),
	})
	h.AddCandidates(map[string][]float64{
		"zzz": {1, 0},
		"aaa": {1, 0},
	})

	first, ok := h.PopBest()
	require.True(t, ok)
	assert.Equal(t, "aaa", first)
}

func TestPopBest_PenalizesRedundancyAfterSelection(t *testing.T) {
	h := New(Config{
		QueryEmbedding: []float64{1, 0},
		LambdaMult:     0.3, // weight diversity more than relevance
		K:              2,
		ScoreThreshold: math.Inf(-1),
	})
	h.AddCandidates(map[string][]float64{
		"dup":     {1, 0},
		"diverse": {0, 1},
	})

	first, ok := h.PopBest()
	require.True(t, ok)
	assert.Equal(t, "dup", first)

	// "diverse" should now win over any further near-duplicate of
	// "dup" because its redundancy against the selected set is low.
	h.AddCandidates(map[string][]float64{"dup2": {0.999, 0.045}})
	second, ok := h.PopBest()
	require.True(t, ok)
	assert.Equal(t, "diverse", second)
}

func TestPopBest_ReturnsFalseBelowThreshold(t *testing.T) {
	h := New(Config{
		QueryEmbedding: []float64{1, 0},
		LambdaMult:     1.0,
		K:              1,
		ScoreThreshold: 0.5,
	})
	h.AddCandidates(map[string][]float64{"low": {0.1, 0.99}})

	_, ok := h.PopBest()
	assert.False(t, ok)
}

func TestPopBest_ReturnsFalseWhenEmpty(t *testing.T) {
	h := New(Config{QueryEmbedding: []float64{1, 0}, LambdaMult: 0.5, K: 1, ScoreThreshold: math.Inf(-1)})
	_, ok := h.PopBest()
	assert.False(t, ok)
}

func TestSelectedIDs_PreservesSelectionOrder(t *testing.T) {
	h := New(Config{QueryEmbedding: []float64{1, 0}, LambdaMult: 1.0, K: 3, ScoreThreshold: math.Inf(-1)})
	h.AddCandidates(map[string][]float64{
		"c": {0.3, 0.1},
		"a": {0.9, 0.1},
		"b": {0.6, 0.1},
	})
	for i := 0; i < 3; i++ {
		_, ok := h.PopBest()
		require.True(t, ok)
	}
	assert.Equal(t, []string{"a", "b", "c"}, h.SelectedIDs())
}

func TestAddCandidates_IgnoresAlreadySelectedID(t *testing.T) {
	h := New(Config{QueryEmbedding: []float64{1, 0}, LambdaMult: 1.0, K: 2, ScoreThreshold: math.Inf(-1)})
	h.AddCandidates(map[string][]float64{"a": {1, 0}})
	_, ok := h.PopBest()
	require.True(t, ok)

	h.AddCandidates(map[string][]float64{"a": {1, 0}})
	assert.NotContains(t, h.CandidateIDs(), "a")
}
