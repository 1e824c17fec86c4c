package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/simple-storage/internal/adapters/driving/mcp"
	"github.com/custodia-labs/simple-storage/internal/core/domain"
	"github.com/custodia-labs/simple-storage/internal/logger"
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
write storage tables.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Tools: storage_get, storage_set, storage_has, storage_remove, storage_keys.
Calls are rate limited by mcp.requests_per_second and mcp.burst; changes
to config.toml apply while the server runs.

Examples:
  # Stdio mode
  simplestorage mcp serve

  # HTTP mode
  simplestorage mcp serve --port 8080`,
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
	if storageService == nil {
		return errors.New("storage service not configured")
	}

	ports := &mcp.Ports{Storage: storageService}
	if limits, ok := currentMCPLimits(); ok {
		ports.Limits = limits
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	watchConfig(cmd.Context(), func() {
		applyLogSettings()
		if limits, ok := currentMCPLimits(); ok {
			server.SetLimits(limits.RequestsPerSecond, limits.Burst)
		}
	})

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

func currentMCPLimits() (domain.MCPSettings, bool) {
	if settingsService == nil {
		return domain.MCPSettings{}, false
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("reading settings: %v", err)
		return domain.MCPSettings{}, false
	}
	return settings.MCP, true
}
