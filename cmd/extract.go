package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/giantswarm/agentharness/pkg/extraction"
	"github.com/giantswarm/agentharness/pkg/mcpbridge"
)

// newExtractCmd creates the Cobra command demonstrating the full MCP tool
// agent driver + extraction orchestrator stack: an agent CLI is driven to
// produce a TaskSummary, with bounded retry on validation failure.
func newExtractCmd() *cobra.Command {
	var (
		adapterName string
		prompt      string
		binPath     string
		maxAttempts int
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Drive an agent to produce schema-validated structured output",
		Long: `extract asks an agent CLI to summarize a task as a TaskSummary JSON
value, exposing "example", "validate_json", and "submit" tools through
this harness's re-entrant MCP bridge, and retries with machine-readable
validation feedback up to --max-attempts times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := parseAdapter(adapterName)
			if err != nil {
				return err
			}
			if prompt == "" {
				return fmt.Errorf("--prompt is required")
			}

			runID := uuid.NewString()
			log.Printf("[extract] run=%s adapter=%s starting", runID, adapter)

			trio, err := mcpbridge.NewToolkitBuilder(demoSchema(), demoExample()).Build()
			if err != nil {
				return fmt.Errorf("build toolkit: %w", err)
			}

			toolNames := []string{trio.Example.Tool.Name, trio.Validate.Tool.Name, trio.Submit.Tool.Name}

			agentFn := func(ctx context.Context, p string) (string, error) {
				builder := mcpbridge.NewToolAgentBuilder(adapter, p, toolNames)
				builder.ExplicitPath = binPath
				builder.Timeout = timeout
				result, err := builder.Run(ctx)
				if err != nil {
					return "", err
				}
				return result.Stdout, nil
			}

			orchestrator, err := extraction.NewOrchestratorWithConfig(demoSchema(), extraction.DefaultConfig().WithMaxAttempts(maxAttempts))
			if err != nil {
				return fmt.Errorf("build orchestrator: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout*time.Duration(maxAttempts))
			defer cancel()

			value, metrics, err := orchestrator.Extract(ctx, agentFn, prompt)
			if err != nil {
				var maxRetries *extraction.MaxRetriesExceededError
				if errors.As(err, &maxRetries) {
					log.Printf("[extract] run=%s exhausted %d attempts after %s",
						runID, maxRetries.Attempts, maxRetries.Metrics.WallTime)
				}
				return fmt.Errorf("extraction failed: %w", err)
			}

			log.Printf("[extract] run=%s succeeded in %d attempt(s), %s, ~%d input / ~%d output tokens",
				runID, metrics.TotalAttempts, metrics.WallTime, metrics.EstimatedInputTokens, metrics.EstimatedOutputTokens)

			out, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal result: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&adapterName, "adapter", "claudecode", "Adapter to run: claudecode, codex, or opencode")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Task description to summarize (required)")
	cmd.Flags().StringVar(&binPath, "bin", "", "Explicit path to the adapter binary (overrides env/PATH discovery)")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", extraction.DefaultConfig().MaxAttempts, "Maximum extraction attempts before giving up")
	cmd.Flags().DurationVar(&timeout, "timeout", 300*time.Second, "Wall-clock timeout per agent invocation")

	return cmd
}

// RunDefaultMCPServer serves the extract command's TaskSummary toolkit over
// stdio. It is what main invokes when mcpbridge.IsMCPServerMode() is true --
// a spawned agent CLI reconnecting to its own launching process (§4.4, §9).
// The toolkit served here must match the one newExtractCmd builds, since
// the re-launched process shares no in-memory state with its parent.
func RunDefaultMCPServer() error {
	trio, err := mcpbridge.NewToolkitBuilder(demoSchema(), demoExample()).Build()
	if err != nil {
		return fmt.Errorf("build toolkit: %w", err)
	}
	return mcpbridge.RunSelfServer(trio)
}
