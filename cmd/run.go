package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/agentharness/pkg/agent"
)

// newRunCmd creates the Cobra command for a single adapter invocation, with
// no MCP tool bridge involved -- the thinnest possible demonstration of
// pkg/agent's subprocess runner.
func newRunCmd() *cobra.Command {
	var (
		adapterName string
		prompt      string
		binPath     string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one adapter CLI invocation and print its output",
		Long: `run spawns the chosen agent CLI (claudecode, codex, or opencode) with
the given prompt, waits for it to finish or time out, and prints its
captured stdout.

Binary discovery order per adapter: --bin flag -> per-adapter env var
(CC_ADAPTER_CLAUDE_BIN, CODEX_ADAPTER_BIN, OPENCODE_ADAPTER_BIN) -> PATH.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := parseAdapter(adapterName)
			if err != nil {
				return err
			}
			if prompt == "" {
				return fmt.Errorf("--prompt is required")
			}

			path, err := agent.Discover(adapter, binPath)
			if err != nil {
				return fmt.Errorf("discover %s: %w", adapter, err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			runner := agent.NewRunner(adapter, path)
			cfg := agent.RunConfig{
				OutputFormat: agent.OutputFormatText,
				Timeout:      timeout,
			}

			log.Printf("[run] invoking %s at %s", adapter, path)
			result, err := runner.Run(ctx, prompt, cfg, nil)
			if err != nil {
				return fmt.Errorf("run %s: %w", adapter, err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Stdout)
			return nil
		},
	}

	cmd.Flags().StringVar(&adapterName, "adapter", "claudecode", "Adapter to run: claudecode, codex, or opencode")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt to send to the agent (required)")
	cmd.Flags().StringVar(&binPath, "bin", "", "Explicit path to the adapter binary (overrides env/PATH discovery)")
	cmd.Flags().DurationVar(&timeout, "timeout", agent.DefaultTimeout, "Wall-clock timeout for the invocation")

	return cmd
}

func parseAdapter(name string) (agent.Adapter, error) {
	switch name {
	case "claudecode", "claude-code", "claude":
		return agent.AdapterClaudeCode, nil
	case "codex":
		return agent.AdapterCodex, nil
	case "opencode":
		return agent.AdapterOpenCode, nil
	default:
		return "", fmt.Errorf("unknown adapter %q (want claudecode, codex, or opencode)", name)
	}
}
