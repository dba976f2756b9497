// Package mcpserver exposes pkg/graphstore's operations as MCP tools.
package mcpserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/amancerp/graphweave/pkg/graph"
	"github.com/amancerp/graphweave/pkg/graphstore"
)

// Server is the MCP server bridging AI clients to the graph store.
type Server struct {
	mcp    *mcp.Server
	store  *graphstore.GraphStore
	logger *slog.Logger
}

// NewServer creates a Server wrapping store, registering all tools.
func NewServer(store *graphstore.GraphStore, logger *slog.Logger) (*Server, error) {
	if store == nil {
		return nil, errors.New("graph store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:  store,
		logger: logger,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "graphweave",
			Version: "0.1.0",
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// MCPServer returns the underlying MCP SDK server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Serve runs the server until ctx is canceled.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("starting MCP server", slog.String("transport", transport))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("MCP server stopped with error", slog.String("error", err.Error()))
		} else {
			s.logger.Info("MCP server stopped gracefully")
		}
		return err
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_nodes",
		Description: "Add one or more nodes, with optional typed links to tag vertices, to the graph. Missing node ids are generated.",
	}, s.handleAddNodes)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "similarity_search",
		Description: "Find the nodes whose embeddings are most similar to the query text, ignoring graph structure.",
	}, s.handleSimilaritySearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "traversal_search",
		Description: "Find nodes similar to the query text, then expand outward through shared tags up to a bounded depth.",
	}, s.handleTraversalSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "mmr_traversal_search",
		Description: "Like traversal_search, but selects nodes by maximal marginal relevance to balance similarity against redundancy.",
	}, s.handleMMRTraversalSearch)

	s.logger.Debug("registered MCP tools", slog.Int("count", 4))
}

func toGraphLinks(links []LinkInput) []graph.Link {
	out := make([]graph.Link, 0, len(links))
	for _, l := range links {
		out = append(out, graph.Link{
			Kind:      l.Kind,
			Tag:       l.Tag,
			Direction: graph.Direction(l.Direction),
		})
	}
	return out
}

func toLinkInputs(links []graph.Link) []LinkInput {
	out := make([]LinkInput, 0, len(links))
	for _, l := range links {
		out = append(out, LinkInput{Kind: l.Kind, Tag: l.Tag, Direction: string(l.Direction)})
	}
	return out
}

func toNodeOutputs(nodes []graph.Node) []NodeOutput {
	out := make([]NodeOutput, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NodeOutput{
			ID:       n.ID,
			Text:     n.Text,
			Metadata: n.Metadata,
			Links:    toLinkInputs(n.Links),
		})
	}
	return out
}

func generateRequestID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
