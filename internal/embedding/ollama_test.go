package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, embedding []float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embed", r.URL.Path)
		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: embedding})
	}))
}

func TestOllamaEmbedder_EmbedQuery_NormalizesResult(t *testing.T) {
	srv := newTestServer(t, []float64{3, 4})
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaConfig{Host: srv.URL, Dimensions: 2}, nil)
	vec, err := e.EmbedQuery(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.6, vec[0], 1e-9)
	assert.InDelta(t, 0.8, vec[1], 1e-9)
}

func TestOllamaEmbedder_EmbedTexts_PreservesOrder(t *testing.T) {
	srv := newTestServer(t, []float64{1, 0})
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaConfig{Host: srv.URL}, nil)
	vecs, err := e.EmbedTexts(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	for _, v := range vecs {
		assert.InDelta(t, 1.0, math.Hypot(v[0], v[1]), 1e-9)
	}
}

func TestOllamaEmbedder_EmbedQuery_RetriesThenFails(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaConfig{Host: srv.URL, MaxRetries: 2}, nil)
	_, err := e.EmbedQuery(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestOllamaEmbedder_EmbedQuery_EmptyEmbeddingIsError(t *testing.T) {
	srv := newTestServer(t, []float64{})
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaConfig{Host: srv.URL, MaxRetries: 0}, nil)
	_, err := e.EmbedQuery(context.Background(), "hello")
	require.Error(t, err)
}

func TestOllamaEmbedder_Dimensions(t *testing.T) {
	e := NewOllamaEmbedder(OllamaConfig{Dimensions: 768}, nil)
	assert.Equal(t, 768, e.Dimensions())
}

func TestNewOllamaEmbedder_AppliesDefaults(t *testing.T) {
	e := NewOllamaEmbedder(OllamaConfig{}, nil)
	assert.Equal(t, DefaultOllamaHost, e.cfg.Host)
	assert.Equal(t, DefaultOllamaModel, e.cfg.Model)
	assert.Equal(t, DefaultTimeout, e.cfg.Timeout)
	assert.Equal(t, DefaultMaxRetries, e.cfg.MaxRetries)
}
