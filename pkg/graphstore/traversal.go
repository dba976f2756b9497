package graphstore

import (
	"context"
	"sync"

	"github.com/amancerp/graphweave/internal/apperr"
	"github.com/amancerp/graphweave/internal/backend"
	"github.com/amancerp/graphweave/internal/concurrency"
	"github.com/amancerp/graphweave/pkg/graph"
)

// TraversalOptions configures TraversalSearch.
type TraversalOptions struct {
	// K is the number of nodes retrieved by the initial similarity
	// search. Defaults to 4.
	K int
	// Depth is the maximum number of edges traversed from a node
	// found by that initial search. Defaults to 1.
	Depth int
}

const (
	defaultTraversalK     = 4
	defaultTraversalDepth = 1
)

// TraversalSearch retrieves query's K nearest nodes by similarity,
// then breadth-first expands through the tag graph up to Depth edges
// away, returning every node visited. Expansion interleaves two kinds
// of steps — visiting a batch of nodes to discover their outgoing
// tags, and visiting a tag's partition to discover the nodes it leads
// to — each firing further steps from its own backend-query callback,
// so the whole traversal runs as one scope whose Close blocks until
// the frontier stops growing.
func (s *GraphStore) TraversalSearch(ctx context.Context, query string, opts TraversalOptions) ([]graph.Node, error) {
	k := opts.K
	if k <= 0 {
		k = defaultTraversalK
	}
	depth := opts.Depth
	if depth <= 0 {
		depth = defaultTraversalDepth
	}

	queryEmbedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "embed traversal query", err)
	}

	var mu sync.Mutex
	visitedIDs := make(map[string]int)
	visitedTags := make(map[[2]string]int)

	err = s.runScope(ctx, func(scope *concurrency.Scope) error {
		var visitNodes func(d int, nodes []backend.IDLinkToTagsRow)
		var visitTargets func(d int, targets []backend.TargetRow)

		visitNodes = func(d int, nodes []backend.IDLinkToTagsRow) {
			type tagAtDepth struct {
				kind, tag string
			}
			var outgoing []tagAtDepth

			mu.Lock()
			for _, node := range nodes {
				if d <= getOrDefault(visitedIDs, node.ContentID, depth) {
					visitedIDs[node.ContentID] = d

					if d < depth {
						for _, pair := range node.LinkToTags {
							kind, tag := pair[0], pair[1]
							key := [2]string{kind, tag}
							if d <= getOrDefaultTag(visitedTags, key, depth) {
								visitedTags[key] = d
								outgoing = append(outgoing, tagAtDepth{kind, tag})
							}
						}
					}
				}
			}
			mu.Unlock()

			for _, t := range outgoing {
				d := d
				kind, tag := t.kind, t.tag
				scope.Execute(func(ctx context.Context) (concurrency.Rows, error) {
					rows, err := s.session.TargetsByKindAndValue(ctx, kind, tag)
					if err != nil {
						return nil, err
					}
					out := make(concurrency.Rows, len(rows))
					for i, r := range rows {
						out[i] = r
					}
					return out, nil
				}, func(rows concurrency.Rows) {
					targets := make([]backend.TargetRow, len(rows))
					for i, r := range rows {
						targets[i] = r.(backend.TargetRow)
					}
					visitTargets(d, targets)
				})
			}
		}

		visitTargets = func(d int, targets []backend.TargetRow) {
			var newIDs []string

			mu.Lock()
			seen := make(map[string]bool)
			for _, t := range targets {
				if seen[t.TargetContentID] {
					continue
				}
				if d < getOrDefault(visitedIDs, t.TargetContentID, depth) {
					seen[t.TargetContentID] = true
					newIDs = append(newIDs, t.TargetContentID)
				}
			}
			mu.Unlock()

			for _, nodeID := range newIDs {
				d := d
				nodeID := nodeID
				scope.Execute(func(ctx context.Context) (concurrency.Rows, error) {
					rows, err := s.session.IDsAndLinkToTagsByID(ctx, nodeID)
					if err != nil {
						return nil, err
					}
					out := make(concurrency.Rows, len(rows))
					for i, r := range rows {
						out[i] = r
					}
					return out, nil
				}, func(rows concurrency.Rows) {
					nodes := make([]backend.IDLinkToTagsRow, len(rows))
					for i, r := range rows {
						nodes[i] = r.(backend.IDLinkToTagsRow)
					}
					visitNodes(d+1, nodes)
				})
			}
		}

		scope.Execute(func(ctx context.Context) (concurrency.Rows, error) {
			rows, err := s.session.IDsAndLinkToTagsByEmbedding(ctx, queryEmbedding, k)
			if err != nil {
				return nil, err
			}
			out := make(concurrency.Rows, len(rows))
			for i, r := range rows {
				out[i] = r
			}
			return out, nil
		}, func(rows concurrency.Rows) {
			nodes := make([]backend.IDLinkToTagsRow, len(rows))
			for i, r := range rows {
				nodes[i] = r.(backend.IDLinkToTagsRow)
			}
			visitNodes(0, nodes)
		})
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "traversal search", err)
	}

	ids := make([]string, 0, len(visitedIDs))
	for id := range visitedIDs {
		ids = append(ids, id)
	}
	return s.nodesWithIDs(ctx, ids)
}

func getOrDefault(m map[string]int, key string, def int) int {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

func getOrDefaultTag(m map[[2]string]int, key [2]string, def int) int {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}
