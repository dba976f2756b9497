package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/amancerp/graphweave/internal/config"
	"github.com/amancerp/graphweave/internal/mcpserver"
)

func newServeCmd() *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server, exposing add_nodes, similarity_search,
traversal_search, and mmr_traversal_search as tools an AI client can
call.

The stdio transport requires stdout be reserved exclusively for the
MCP protocol; all diagnostics go to the debug log file instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, transport)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "", "Transport to serve on (overrides config; stdio or sse, but only stdio is served)")

	return cmd
}

func runServe(cmd *cobra.Command, transportOverride string) error {
	ctx := cmd.Context()

	root, err := config.FindProjectRoot(".")
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if transportOverride != "" {
		cfg.Server.Transport = transportOverride
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	logger := slog.Default()

	store, closeStore, err := openGraphStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	srv, err := mcpserver.NewServer(store, logger)
	if err != nil {
		return fmt.Errorf("build MCP server: %w", err)
	}

	return srv.Serve(ctx, cfg.Server.Transport)
}
