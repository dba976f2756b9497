package graphstore

import (
	"context"

	"github.com/amancerp/graphweave/internal/apperr"
	"github.com/amancerp/graphweave/pkg/graph"
)

// SimilaritySearch retrieves up to k nodes most similar to embedding,
// ANN-ordered by the backend.
func (s *GraphStore) SimilaritySearch(ctx context.Context, embedding []float64, k int) ([]graph.Node, error) {
	rows, err := s.session.NodesByEmbedding(ctx, embedding, k)
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "similarity search", err)
	}

	nodes := make([]graph.Node, 0, len(rows))
	for _, row := range rows {
		node, err := rowToNode(row)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// SimilaritySearchByQuery embeds query and delegates to SimilaritySearch.
func (s *GraphStore) SimilaritySearchByQuery(ctx context.Context, query string, k int) ([]graph.Node, error) {
	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "embed query", err)
	}
	return s.SimilaritySearch(ctx, vec, k)
}
