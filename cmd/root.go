package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/giantswarm/agentharness/pkg/project"
)

// rootCmd represents the base command for the agentharness CLI.
var rootCmd = &cobra.Command{
	Use:   "agentharness",
	Short: "Drive AI coding-agent CLIs as managed subprocesses",
	Long: `agentharness drives interactive AI coding-agent CLIs (Claude Code, Codex,
OpenCode) as managed subprocesses, bridges their tool calls through an
in-process MCP server, and coerces their output into schema-validated
structured data.

This binary is mostly a thin demonstration shell around the pkg/agent,
pkg/mcpbridge, and pkg/extraction libraries -- see 'run' and 'extract'.`,
	SilenceUsage: true,
}

// SetVersion propagates build-time version metadata (set via -ldflags in
// main) to both the cobra root command and pkg/project.
func SetVersion(version, commit, date string) {
	rootCmd.Version = version
	project.SetBuildInfo(version, commit, date)
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "agentharness version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newMCPServeCmd())
}
