package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

// newMCPServeCmd creates the Cobra command for serving the demo toolkit
// directly over stdio, without going through the driver's re-entrant
// self-launch path. Useful for pointing a standalone MCP client (or manual
// stdio testing) at this harness's toolkit without spawning an agent CLI
// at all.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcpserve",
		Short:  "Serve the demo TaskSummary toolkit over stdio",
		Hidden: true,
		Long: `mcpserve runs the same "example"/"validate_json"/"submit" toolkit the
extract command drives an agent against, but serves it directly over this
process's own stdio instead of being launched re-entrantly by a spawned
agent CLI. Intended for manually exercising a toolkit with an MCP client
during development.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Println("[mcpserve] serving TaskSummary toolkit over stdio")
			return RunDefaultMCPServer()
		},
	}
}
