package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amancerp/graphweave/internal/browse"
	"github.com/amancerp/graphweave/internal/config"
)

func newBrowseCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "browse <query>",
		Short: "Interactively browse a similarity search outward through the graph",
		Long: `Open an interactive terminal browser seeded with the query's top
matches. Press enter on a node to expand its neighbors one hop at a
time, backspace to go back, and q to quit.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runBrowse(cmd, query, k)
		},
	}

	cmd.Flags().IntVar(&k, "k", 0, "Number of seed results (default: store default)")

	return cmd
}

func runBrowse(cmd *cobra.Command, query string, k int) error {
	ctx := cmd.Context()

	if !browse.IsTTY(cmd.OutOrStdout()) {
		return fmt.Errorf("browse requires an interactive terminal")
	}

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

	if k <= 0 {
		k = cfg.Retrieval.K
	}
	seed, err := store.SimilaritySearchByQuery(ctx, query, k)
	if err != nil {
		return fmt.Errorf("seed search: %w", err)
	}
	if len(seed) == 0 {
		return fmt.Errorf("no results found for %q", query)
	}

	return browse.Run(ctx, store, seed, false)
}
