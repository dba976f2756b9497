package graphstore

import (
	"context"

	"github.com/amancerp/graphweave/internal/apperr"
	"github.com/amancerp/graphweave/pkg/graph"
)

// Neighbors returns the nodes directly adjacent to nodeID through its
// outgoing (kind, tag) links. From each tag's partition it fetches the
// k targets nearest to an embedding of nodeID's text; the order of the
// returned nodes is not defined. It is a single-node, single-hop convenience built on the
// same getAdjacent/nodesWithIDs machinery TraversalSearch uses
// internally, intended for callers that want to expand one node at a
// time rather than run a full bounded-depth traversal — the
// interactive browser being the only caller today.
func (s *GraphStore) Neighbors(ctx context.Context, nodeID string, k int) ([]graph.Node, error) {
	if nodeID == "" {
		return nil, apperr.New(apperr.Input, "node id is required", nil)
	}

	nodes, err := s.nodesWithIDs(ctx, []string{nodeID})
	if err != nil {
		return nil, err
	}
	origin := nodes[0]

	// getAdjacent ranks each (kind, tag) partition's targets against a
	// query vector; the Session has no lookup of a node's stored
	// embedding by ID, so we re-derive it the same way a fresh query
	// would be embedded.
	originEmbedding, err := s.embedder.EmbedQuery(ctx, origin.Text)
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "embed origin node", err)
	}

	visitedTags := make(map[[2]string]bool)
	edges, err := s.getAdjacent(ctx, []string{nodeID}, visitedTags, originEmbedding, k)
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "fetch neighbors", err)
	}
	if len(edges) == 0 {
		return nil, nil
	}

	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.targetID
	}
	return s.nodesWithIDs(ctx, ids)
}
