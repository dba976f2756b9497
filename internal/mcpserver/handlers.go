package mcpserver

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/amancerp/graphweave/pkg/graph"
)

func (s *Server) handleAddNodes(ctx context.Context, _ *mcp.CallToolRequest, input AddNodesInput) (
	*mcp.CallToolResult, AddNodesOutput, error,
) {
	if len(input.Nodes) == 0 {
		return nil, AddNodesOutput{}, NewInvalidParamsError("nodes must be non-empty")
	}

	requestID := generateRequestID()
	start := time.Now()

	nodes := make([]graph.Node, 0, len(input.Nodes))
	for _, n := range input.Nodes {
		node := graph.New(n.Text)
		if n.ID != "" {
			node.ID = n.ID
		}
		if n.Metadata != nil {
			node.Metadata = n.Metadata
		}
		node.Links = toGraphLinks(n.Links)
		nodes = append(nodes, node)
	}

	ids, err := s.store.AddNodes(ctx, nodes)
	if err != nil {
		s.logger.Error("add_nodes failed", slog.String("request_id", requestID), slog.String("error", err.Error()))
		return nil, AddNodesOutput{}, MapError(err)
	}

	s.logger.Info("add_nodes completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
		slog.Int("count", len(ids)))

	return nil, AddNodesOutput{IDs: ids}, nil
}

func (s *Server) handleSimilaritySearch(ctx context.Context, _ *mcp.CallToolRequest, input SimilaritySearchInput) (
	*mcp.CallToolResult, NodesOutput, error,
) {
	if input.Query == "" {
		return nil, NodesOutput{}, NewInvalidParamsError("query is required")
	}

	k := input.K
	if k <= 0 {
		k = 4
	}

	nodes, err := s.store.SimilaritySearchByQuery(ctx, input.Query, k)
	if err != nil {
		return nil, NodesOutput{}, MapError(err)
	}
	return nil, NodesOutput{Nodes: toNodeOutputs(nodes)}, nil
}

func (s *Server) handleTraversalSearch(ctx context.Context, _ *mcp.CallToolRequest, input TraversalSearchInput) (
	*mcp.CallToolResult, NodesOutput, error,
) {
	if input.Query == "" {
		return nil, NodesOutput{}, NewInvalidParamsError("query is required")
	}

	nodes, err := s.store.TraversalSearch(ctx, input.Query, graphstoreTraversalOptions(input))
	if err != nil {
		return nil, NodesOutput{}, MapError(err)
	}
	return nil, NodesOutput{Nodes: toNodeOutputs(nodes)}, nil
}

func (s *Server) handleMMRTraversalSearch(ctx context.Context, _ *mcp.CallToolRequest, input MMRTraversalSearchInput) (
	*mcp.CallToolResult, NodesOutput, error,
) {
	if input.Query == "" {
		return nil, NodesOutput{}, NewInvalidParamsError("query is required")
	}

	nodes, err := s.store.MMRTraversalSearch(ctx, input.Query, graphstoreMMROptions(input))
	if err != nil {
		return nil, NodesOutput{}, MapError(err)
	}
	return nil, NodesOutput{Nodes: toNodeOutputs(nodes)}, nil
}
