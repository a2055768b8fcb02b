package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/insight/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Insight MCP server",
	Long: `Launch an MCP server over stdio that allows AI agents to run analyses,
generate reports, ask questions and assess attrition risk via standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, services)
	},
}
