// Package cmd provides the CLI commands for graphweave.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/amancerp/graphweave/internal/logging"
	"github.com/amancerp/graphweave/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the graphweave CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphweave",
		Short: "Hybrid vector-and-graph retrieval engine",
		Long: `graphweave stores text nodes with embeddings and typed links into a
tag graph, searchable by similarity, by bounded-depth graph traversal,
and by a traversal that diversifies its selection with maximal
marginal relevance.

Run 'graphweave serve' to expose these operations over MCP, or
'graphweave search'/'graphweave browse' to query a store directly.`,
		Version:           version.Version,
		PersistentPreRunE: startLogging,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			stopLogging()
			return nil
		},
	}

	cmd.SetVersionTemplate("graphweave version {{.Version}}\n")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.graphweave/logs/")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newBrowseCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func startLogging(cmd *cobra.Command, _ []string) error {
	logCfg := logging.DefaultConfig()
	logCfg.WriteToStderr = false
	if debugMode {
		logCfg.Level = "debug"
	}

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	return nil
}

func stopLogging() {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
