package graphstore

import (
	"context"
	"sync"

	"github.com/amancerp/graphweave/internal/apperr"
	"github.com/amancerp/graphweave/internal/backend"
	"github.com/amancerp/graphweave/internal/concurrency"
	"github.com/amancerp/graphweave/pkg/graph"
)

// nodesWithIDs fetches the full Node for each of ids, in input order,
// deduplicating repeated IDs into a single backend round trip. It
// returns an Integrity error naming any ID that doesn't resolve to a
// stored node — a dangling reference a caller should never be able to
// produce through normal traversal, but which a corrupted or
// concurrently-modified store could surface. A row that decodes with a
// Shape error (corrupted metadata_blob/links_blob) is reported as that
// Shape error, not folded into the Integrity "no node with id" case.
func (s *GraphStore) nodesWithIDs(ctx context.Context, ids []string) ([]graph.Node, error) {
	var mu sync.Mutex
	results := make(map[string]*graph.Node, len(ids))
	var decodeErr error

	err := s.runScope(ctx, func(scope *concurrency.Scope) error {
		for _, id := range ids {
			mu.Lock()
			_, seen := results[id]
			if !seen {
				results[id] = nil
			}
			mu.Unlock()
			if seen {
				continue
			}

			id := id
			scope.Execute(func(ctx context.Context) (concurrency.Rows, error) {
				row, ok, err := s.session.NodeByID(ctx, id)
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, nil
				}
				return concurrency.Rows{row}, nil
			}, func(rows concurrency.Rows) {
				if len(rows) == 0 {
					return
				}
				row := rows[0].(backend.NodeRow)
				node, err := rowToNode(row)
				mu.Lock()
				if err != nil {
					if decodeErr == nil {
						decodeErr = err
					}
				} else {
					results[id] = &node
				}
				mu.Unlock()
			})
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "fetch nodes by id", err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	out := make([]graph.Node, 0, len(ids))
	for _, id := range ids {
		node := results[id]
		if node == nil {
			return nil, apperr.New(apperr.Integrity, "no node with id '"+id+"'", nil)
		}
		out = append(out, *node)
	}
	return out, nil
}
