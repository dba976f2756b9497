package embedding

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of distinct query strings whose
// embeddings CachedEmbedder keeps in memory.
const DefaultCacheSize = 1024

// CachedEmbedder decorates an Embedder with an LRU cache keyed by
// exact query text, avoiding a repeat network round-trip (or repeat
// hashing work) for a query seen before within the process lifetime —
// queries fired during traversal/MMR expansion frequently repeat the
// same seed text across adjacent calls.
type CachedEmbedder struct {
	inner Embedder
	cache *lru.Cache[string, []float64]
}

var _ Embedder = (*CachedEmbedder)(nil)

// NewCachedEmbedder wraps inner with an LRU cache of the given size
// (DefaultCacheSize if size <= 0).
func NewCachedEmbedder(inner Embedder, size int) (*CachedEmbedder, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []float64](size)
	if err != nil {
		return nil, err
	}
	return &CachedEmbedder{inner: inner, cache: cache}, nil
}

// EmbedQuery implements Embedder, serving from cache when possible.
func (c *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	if v, ok := c.cache.Get(text); ok {
		return v, nil
	}
	v, err := c.inner.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, v)
	return v, nil
}

// EmbedTexts implements Embedder. Batch embedding calls are not cached
// per-element (the underlying provider's batch call is typically more
// efficient as a single round trip); only EmbedQuery benefits from the
// cache, matching how the graph store uses it (EmbedQuery at read
// time, EmbedTexts once at write time).
func (c *CachedEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	return c.inner.EmbedTexts(ctx, texts)
}

// Dimensions implements Embedder.
func (c *CachedEmbedder) Dimensions() int { return c.inner.Dimensions() }
