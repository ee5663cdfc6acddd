package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newToolsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tools [query]",
		Short: "List the MCP tools, optionally filtered by a search query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(configPath, func(_ context.Context, cmd *cobra.Command, a *app) error {
				srv, err := a.newMCPServer()
				if err != nil {
					return err
				}
				registry := srv.Registry()

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				if len(args) == 0 {
					for _, tool := range registry.List() {
						fmt.Fprintf(w, "%s\t%s\t%s\n", tool.Name, tool.Category, authLabel(tool.RequiresAuth))
					}
					return w.Flush()
				}

				results := registry.Search(args[0])
				if len(results) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No tools match %q.\n", args[0])
					return nil
				}
				for _, r := range results {
					fmt.Fprintf(w, "%s\t%s\t%s\n", r.Tool.Name, r.Tool.Category, r.MatchReason)
				}
				return w.Flush()
			})(cmd, args)
		},
	}
}

func authLabel(requiresAuth bool) string {
	if requiresAuth {
		return "auth"
	}
	return "public"
}
