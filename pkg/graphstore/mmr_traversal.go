package graphstore

import (
	"context"
	"math"

	"github.com/amancerp/graphweave/internal/apperr"
	"github.com/amancerp/graphweave/internal/mmr"
	"github.com/amancerp/graphweave/pkg/graph"
)

// MMRTraversalOptions configures MMRTraversalSearch.
type MMRTraversalOptions struct {
	// K is the number of nodes to return. Defaults to 4.
	K int
	// Depth bounds expansion: a selected node is expanded only if its
	// neighbors would lie fewer than Depth edges from a node found by
	// the initial similarity fetch, so with Depth 2 only those initial
	// nodes are expanded. Defaults to 2.
	Depth int
	// FetchK is the number of candidates fetched by the initial
	// similarity search. Defaults to 100.
	FetchK int
	// AdjacentK is the number of adjacent nodes fetched per expanded
	// tag. Defaults to 10.
	AdjacentK int
	// LambdaMult trades off relevance (1) against diversity (0).
	// Defaults to 0.5.
	LambdaMult float64
	// ScoreThreshold excludes candidates scoring below it. Defaults
	// to -Inf (no threshold).
	ScoreThreshold float64
}

const (
	defaultMMRK          = 4
	defaultMMRDepth      = 2
	defaultMMRFetchK     = 100
	defaultMMRAdjacentK  = 10
	defaultMMRLambdaMult = 0.5
)

// defaultMMRScoreThreshold is -Inf: no candidate is excluded by
// default. math.Inf isn't a compile-time constant, so this must be a
// var rather than joining the const block above.
var defaultMMRScoreThreshold = math.Inf(-1)

// MMRTraversalSearch retrieves nodes using MMR-traversal: it first
// fetches FetchK nodes by similarity to query, then repeatedly picks
// the highest-scoring remaining candidate (balancing similarity
// against redundancy with already-picked nodes, per LambdaMult) until
// K nodes are picked or no candidate clears ScoreThreshold. After each
// pick, nodes adjacent to it in the tag graph are pulled in as further
// candidates, as long as they lie fewer than Depth edges from the
// nearest node the initial similarity fetch found.
func (s *GraphStore) MMRTraversalSearch(ctx context.Context, query string, opts MMRTraversalOptions) ([]graph.Node, error) {
	k := opts.K
	if k <= 0 {
		k = defaultMMRK
	}
	depth := opts.Depth
	if depth <= 0 {
		depth = defaultMMRDepth
	}
	fetchK := opts.FetchK
	if fetchK <= 0 {
		fetchK = defaultMMRFetchK
	}
	adjacentK := opts.AdjacentK
	if adjacentK <= 0 {
		adjacentK = defaultMMRAdjacentK
	}
	lambdaMult := opts.LambdaMult
	if lambdaMult == 0 {
		lambdaMult = defaultMMRLambdaMult
	}
	scoreThreshold := opts.ScoreThreshold
	if scoreThreshold == 0 {
		scoreThreshold = defaultMMRScoreThreshold
	}

	queryEmbedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "embed mmr query", err)
	}

	helper := mmr.New(mmr.Config{
		QueryEmbedding: queryEmbedding,
		LambdaMult:     lambdaMult,
		K:              k,
		ScoreThreshold: scoreThreshold,
	})

	fetched, err := s.session.IDsAndEmbeddingByEmbedding(ctx, queryEmbedding, fetchK)
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "fetch mmr candidates", err)
	}
	candidates := make(map[string][]float64, len(fetched))
	for _, row := range fetched {
		candidates[row.ContentID] = row.Embedding
	}
	helper.AddCandidates(candidates)

	depths := make(map[string]int, len(helper.CandidateIDs()))
	for _, id := range helper.CandidateIDs() {
		depths[id] = 0
	}
	visitedTags := make(map[[2]string]bool)

	for i := 0; i < k; i++ {
		selectedID, ok := helper.PopBest()
		if !ok {
			break
		}

		nextDepth := depths[selectedID] + 1
		if nextDepth < depth {
			edges, err := s.getAdjacent(ctx, []string{selectedID}, visitedTags, queryEmbedding, adjacentK)
			if err != nil {
				return nil, apperr.Wrap(apperr.Backend, "fetch adjacent nodes", err)
			}

			newCandidates := make(map[string][]float64, len(edges))
			for _, e := range edges {
				newCandidates[e.targetID] = e.embedding
				if existing, ok := depths[e.targetID]; !ok || nextDepth < existing {
					depths[e.targetID] = nextDepth
				}
			}
			helper.AddCandidates(newCandidates)
		}
	}

	return s.nodesWithIDs(ctx, helper.SelectedIDs())
}
