// Package graphstore implements the hybrid vector-and-graph retrieval
// engine: nodes with embeddings and typed links into a tag graph,
// searchable by similarity, by bounded-depth graph traversal, and by
// a traversal that diversifies its selection with maximal marginal
// relevance.
package graphstore

import (
	"context"
	"log/slog"

	"github.com/amancerp/graphweave/internal/apperr"
	"github.com/amancerp/graphweave/internal/backend"
	"github.com/amancerp/graphweave/internal/concurrency"
	"github.com/amancerp/graphweave/internal/embedding"
)

// DefaultMaxInFlight bounds the number of backend queries a single
// GraphStore operation keeps outstanding at once.
const DefaultMaxInFlight = concurrency.DefaultMaxInFlight

// Options configures a GraphStore beyond its required collaborators.
type Options struct {
	// MaxInFlight bounds concurrent backend queries per operation.
	// DefaultMaxInFlight is used when zero.
	MaxInFlight int
	// Logger receives structured diagnostics. slog.Default() is used
	// when nil.
	Logger *slog.Logger
}

// GraphStore is a hybrid vector-and-graph store backed by a Session.
// Nodes support vector-similarity search as well as edges linking them
// based on shared (kind, tag) membership.
type GraphStore struct {
	embedder    embedding.Embedder
	session     backend.Session
	logger      *slog.Logger
	maxInFlight int
}

// New constructs a GraphStore over an already-open Session. Schema
// creation is the Session's responsibility (see backend.Open's
// SetupMode), not the GraphStore's — by the time a GraphStore exists,
// the backend is ready to accept queries.
func New(embedder embedding.Embedder, session backend.Session, opts Options) (*GraphStore, error) {
	if embedder == nil {
		return nil, apperr.New(apperr.Configuration, "embedder is required", nil)
	}
	if session == nil {
		return nil, apperr.New(apperr.Configuration, "session is required", nil)
	}

	maxInFlight := opts.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GraphStore{
		embedder:    embedder,
		session:     session,
		logger:      logger,
		maxInFlight: maxInFlight,
	}, nil
}

func (s *GraphStore) runScope(ctx context.Context, body func(scope *concurrency.Scope) error) error {
	return concurrency.Run(ctx, s.maxInFlight, s.logger, body)
}
