// Trakt-mcp exposes the Trakt API to MCP clients.
//
// Usage:
//
//	# Serve over stdio (default)
//	trakt-mcp serve
//
//	# Serve streamable HTTP on server.host:server.port
//	trakt-mcp serve --transport http
//
//	# Inspect or clear the stored token
//	trakt-mcp auth status
//	trakt-mcp auth logout
//
// Credentials come from TRAKT_CLIENT_ID and TRAKT_CLIENT_SECRET or from
// ~/.config/trakt-mcp/config.yaml.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "trakt-mcp",
		Short: "MCP server for the Trakt API",
		Long: `trakt-mcp serves Trakt shows, movies, search, comments and user history
to MCP clients over stdio or streamable HTTP.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(versionString() + "\n")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/trakt-mcp/config.yaml)")

	root.AddCommand(
		newServeCmd(&configPath),
		newAuthCmd(&configPath),
		newToolsCmd(&configPath),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	}
}

func versionString() string {
	return fmt.Sprintf("trakt-mcp %s (commit %s, built %s)", version, gitCommit, buildDate)
}
