package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/region-clip-mcp/internal/logger"
	"github.com/ironsheep/region-clip-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdin/stdout",
	Long: `Start the Model Context Protocol server. Requests are read from stdin one
JSON-RPC message per line and responses are written to stdout.

MCP client configuration:
  {
    "mcpServers": {
      "region-clip": {
        "command": "/path/to/region-clip-mcp",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv, err := server.New(cfg, Version)
	if err != nil {
		return err
	}
	logger.Debug("region-clip-mcp %s (built %s, commit %s)", Version, BuildTime, GitCommit)
	return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
}
