package cmd

import (
	"github.com/huangsam/adviz/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the adviz MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents fetch series, missing data,
heatmaps and entity combinations from the configured result source.

The root flags become the defaults of every tool call.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, resultSource)
	},
}
