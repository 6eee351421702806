package cmd

import (
	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [dir]",
	Short: "Start the quality gate MCP server",
	Long:  `Launch an MCP server that allows AI agents to run the quality gate and render reports via standard tools.`,
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Nothing may be printed to stdout in MCP mode since stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, contract.NewLocalCommandRunner())
	},
}
