package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amancerp/graphweave/internal/config"
	"github.com/amancerp/graphweave/internal/output"
	"github.com/amancerp/graphweave/pkg/graph"
	"github.com/amancerp/graphweave/pkg/graphstore"
)

type searchOptions struct {
	mode      string
	k         int
	depth     int
	fetchK    int
	adjacentK int
	lambda    float64
	threshold float64
	format    string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Query the graph store",
		Long: `Query the graph store by similarity, by bounded-depth traversal, or
by MMR traversal.

Examples:
  graphweave search "rate limiting"
  graphweave search "rate limiting" --mode traversal --depth 2
  graphweave search "rate limiting" --mode mmr --lambda 0.3 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd, query, opts)
		},
	}

	cmd.Flags().StringVar(&opts.mode, "mode", "similarity", "Search mode: similarity, traversal, mmr")
	cmd.Flags().IntVar(&opts.k, "k", 0, "Number of results (default: store default)")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "Traversal/MMR max depth (default: store default)")
	cmd.Flags().IntVar(&opts.fetchK, "fetch-k", 0, "MMR candidate pool size (default: store default)")
	cmd.Flags().IntVar(&opts.adjacentK, "adjacent-k", 0, "MMR neighbors fetched per tag (default: store default)")
	cmd.Flags().Float64Var(&opts.lambda, "lambda", 0, "MMR relevance/diversity tradeoff, 0..1 (default: store default)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "MMR minimum similarity score (default: store default)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	ctx := cmd.Context()

	root, err := config.FindProjectRoot(".")
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, closeStore, err := openGraphStore(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	nodes, err := runOneSearch(ctx, store, cfg, query, opts)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		return formatNodesJSON(cmd, nodes)
	}
	return formatNodesText(cmd, query, nodes)
}

func runOneSearch(ctx context.Context, store *graphstore.GraphStore, cfg *config.Config, query string, opts searchOptions) ([]graph.Node, error) {
	k := opts.k
	if k <= 0 {
		k = cfg.Retrieval.K
	}

	switch strings.ToLower(opts.mode) {
	case "similarity":
		return store.SimilaritySearchByQuery(ctx, query, k)

	case "traversal":
		depth := opts.depth
		if depth <= 0 {
			depth = cfg.Retrieval.Depth
		}
		return store.TraversalSearch(ctx, query, graphstore.TraversalOptions{K: k, Depth: depth})

	case "mmr":
		depth := opts.depth
		if depth <= 0 {
			depth = cfg.Retrieval.Depth
		}
		fetchK := opts.fetchK
		if fetchK <= 0 {
			fetchK = cfg.Retrieval.FetchK
		}
		adjacentK := opts.adjacentK
		if adjacentK <= 0 {
			adjacentK = cfg.Retrieval.AdjacentK
		}
		lambda := opts.lambda
		if lambda <= 0 {
			lambda = cfg.Retrieval.LambdaMult
		}
		threshold := opts.threshold
		if threshold <= 0 {
			threshold = cfg.Retrieval.ScoreThreshold
		}
		return store.MMRTraversalSearch(ctx, query, graphstore.MMRTraversalOptions{
			K:              k,
			Depth:          depth,
			FetchK:         fetchK,
			AdjacentK:      adjacentK,
			LambdaMult:     lambda,
			ScoreThreshold: threshold,
		})

	default:
		return nil, fmt.Errorf("unknown search mode %q (use: similarity, traversal, mmr)", opts.mode)
	}
}

func formatNodesText(cmd *cobra.Command, query string, nodes []graph.Node) error {
	out := output.New(cmd.OutOrStdout())

	if len(nodes) == 0 {
		out.Status("", fmt.Sprintf("No results found for %q", query))
		return nil
	}

	out.Statusf("🔍", "Found %d results for %q:", len(nodes), query)
	out.Newline()

	for i, n := range nodes {
		text := strings.ReplaceAll(n.Text, "\n", " ")
		if len(text) > 100 {
			text = text[:97] + "..."
		}
		out.Statusf("", "%d. [%s] %s", i+1, n.ID, text)
	}
	return nil
}

type jsonNode struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func formatNodesJSON(cmd *cobra.Command, nodes []graph.Node) error {
	out := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, jsonNode{ID: n.ID, Text: n.Text, Metadata: n.Metadata})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
