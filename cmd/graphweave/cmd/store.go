package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amancerp/graphweave/internal/backend"
	"github.com/amancerp/graphweave/internal/config"
	"github.com/amancerp/graphweave/internal/embedding"
	"github.com/amancerp/graphweave/pkg/graphstore"
)

// buildEmbedder constructs the embedder named by cfg.Embeddings.Provider.
// An empty provider defaults to the static, network-free embedder —
// unlike an auto-detecting factory that probes a running service, this
// keeps the CLI usable with zero setup; set embeddings.provider to
// "ollama" in .graphweave.yaml (or GRAPHWEAVE_EMBEDDINGS_PROVIDER=ollama)
// to opt into network-backed embeddings.
func buildEmbedder(cfg *config.Config, logger *slog.Logger) (embedding.Embedder, error) {
	var base embedding.Embedder

	switch strings.ToLower(cfg.Embeddings.Provider) {
	case "", "static":
		base = embedding.NewStaticEmbedder()
	case "ollama":
		base = embedding.NewOllamaEmbedder(embedding.OllamaConfig{
			Host:       cfg.Embeddings.OllamaHost,
			Model:      cfg.Embeddings.Model,
			Dimensions: cfg.Embeddings.Dimensions,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", cfg.Embeddings.Provider)
	}

	cached, err := embedding.NewCachedEmbedder(base, cfg.Embeddings.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("build embedding cache: %w", err)
	}
	return cached, nil
}

// openGraphStore opens the backend session and wraps it in a GraphStore
// using cfg's settings. The returned closer must be called to release
// the backend session.
func openGraphStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*graphstore.GraphStore, func() error, error) {
	embedder, err := buildEmbedder(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	setupMode, err := cfg.SetupMode()
	if err != nil {
		return nil, nil, err
	}

	session, err := backend.Open(ctx, cfg.Backend.Path, embedder.Dimensions(), setupMode)
	if err != nil {
		return nil, nil, fmt.Errorf("open backend: %w", err)
	}

	store, err := graphstore.New(embedder, session, graphstore.Options{
		MaxInFlight: cfg.Performance.MaxInFlight,
		Logger:      logger,
	})
	if err != nil {
		_ = session.Close()
		return nil, nil, fmt.Errorf("build graph store: %w", err)
	}

	return store, session.Close, nil
}
