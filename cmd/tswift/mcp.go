package main

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tswift/pkg/mcp"
	"github.com/Sumatoshi-tech/tswift/pkg/metrics"
	"github.com/Sumatoshi-tech/tswift/pkg/observability"
)

func mcpCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

Tools:
  - swift_transpile: translate Swift source to TypeScript
  - swift_parse: print the Swift concrete syntax tree

Logs go to stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := root.open(observability.ModeMCP, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer sess.close()

			opts := sess.cfg.TranspileOptions()

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  sess.providers.Logger,
				Tracer:  sess.providers.Tracer,
				Metrics: metrics.NewRecorder(),
				Options: &opts,
			})

			return srv.Run(cmd.Context())
		},
	}
}
