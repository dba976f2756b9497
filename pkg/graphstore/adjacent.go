package graphstore

import (
	"context"
	"sync"

	"github.com/amancerp/graphweave/internal/backend"
	"github.com/amancerp/graphweave/internal/concurrency"
)

// edge is a target node reachable from one of the source IDs passed
// to getAdjacent, carrying the embedding MMR traversal needs to score
// it without a second round trip.
type edge struct {
	targetID  string
	embedding []float64
}

// defaultAdjacentK is used when a caller doesn't specify how many
// target nodes to fetch per outgoing tag.
const defaultAdjacentK = 10

// getAdjacent returns the nodes adjacent to any of sourceIDs: for each
// source, its outgoing (kind, tag) pairs are looked up, and for each
// tag not already in visitedTags, the kPerTag nearest target nodes
// (by similarity to queryEmbedding) in that tag's partition are
// fetched. visitedTags is mutated in place so repeat callers don't
// re-issue a query for a tag already expanded.
func (s *GraphStore) getAdjacent(ctx context.Context, sourceIDs []string, visitedTags map[[2]string]bool, queryEmbedding []float64, kPerTag int) ([]edge, error) {
	if kPerTag <= 0 {
		kPerTag = defaultAdjacentK
	}

	var mu sync.Mutex
	targets := make(map[string][]float64)

	err := s.runScope(ctx, func(scope *concurrency.Scope) error {
		addTargets := func(rows concurrency.Rows) {
			mu.Lock()
			defer mu.Unlock()
			for _, r := range rows {
				row := r.(backend.TargetEmbeddingRow)
				if _, ok := targets[row.TargetContentID]; !ok {
					targets[row.TargetContentID] = row.Embedding
				}
			}
		}

		addSources := func(rows concurrency.Rows) {
			for _, r := range rows {
				pair := r.([2]string)
				mu.Lock()
				already := visitedTags[pair]
				if !already {
					visitedTags[pair] = true
				}
				mu.Unlock()
				if already {
					continue
				}

				kind, tag := pair[0], pair[1]
				scope.Execute(func(ctx context.Context) (concurrency.Rows, error) {
					rows, err := s.session.TargetsEmbeddingsByKindTagEmbedding(ctx, kind, tag, queryEmbedding, kPerTag)
					if err != nil {
						return nil, err
					}
					out := make(concurrency.Rows, len(rows))
					for i, row := range rows {
						out[i] = row
					}
					return out, nil
				}, addTargets)
			}
		}

		for _, sourceID := range sourceIDs {
			sourceID := sourceID
			scope.Execute(func(ctx context.Context) (concurrency.Rows, error) {
				pairs, err := s.session.SourceTagsByID(ctx, sourceID)
				if err != nil {
					return nil, err
				}
				out := make(concurrency.Rows, len(pairs))
				for i, p := range pairs {
					out[i] = p
				}
				return out, nil
			}, addSources)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]edge, 0, len(targets))
	for id, vec := range targets {
		out = append(out, edge{targetID: id, embedding: vec})
	}
	return out, nil
}
