package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scanlog/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can read and
prune the scan history.

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve the streamable HTTP transport at /mcp instead.

Examples:
  # Stdio mode (default)
  scanlog mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  scanlog mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "scanlog": {
        "command": "/path/to/scanlog",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		History:      historyService,
		Connectivity: connectivityService,
	}

	server, err := mcp.NewServer(ports, version)
	if err != nil {
		return err
	}
	startConnectivity(cmd)

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s%s\n", addr, mcp.Endpoint)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
