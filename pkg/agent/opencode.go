package agent

import "strconv"

// OpenCode-style adapter: grounded on original_source/opencode-adapter/src/cmd.rs.
// Subcommand is fixed "run"; no sandbox, no tool-restriction, no
// system-prompt flag at all -- system prompts are prepended to the message,
// and MCP config is delivered out-of-band via env var (see
// pkg/mcpbridge/descriptor.go).

const (
	OpenCodeBinaryName = "opencode"
	OpenCodeBinEnvVar  = "OPENCODE_ADAPTER_BIN"

	// OpenCodeMCPConfigEnv is the env var OpenCode reads its MCP server
	// config path from (original_source/opencode-adapter/src/lib.rs:
	// "passed as OPENCODE_CONFIG env var").
	OpenCodeMCPConfigEnv = "OPENCODE_CONFIG"
)

// BuildOpenCodeArgs lowers cfg into the argv for the OpenCode-style adapter.
func BuildOpenCodeArgs(message string, cfg RunConfig) []string {
	var args []string

	args = append(args, "run")

	if cfg.Model != "" {
		args = append(args, "--model", cfg.Model)
	}

	// print-logs / log-level / port / hostname are surfaced via Overrides
	// entries keyed by their flag name, since OpenCode has no generic
	// --config override mechanism of its own.
	for _, kv := range cfg.Overrides {
		switch kv.Name {
		case "print-logs":
			if b, err := strconv.ParseBool(kv.Value); err == nil && b {
				args = append(args, "--print-logs")
			}
		case "log-level":
			args = append(args, "--log-level", kv.Value)
		case "port":
			args = append(args, "--port", kv.Value)
		case "hostname":
			args = append(args, "--hostname", kv.Value)
		}
	}

	effectiveMessage := message
	if cfg.SystemPrompt.Kind == SystemPromptAppend || cfg.SystemPrompt.Kind == SystemPromptReplace {
		effectiveMessage = cfg.SystemPrompt.Text + "\n\n" + message
	}
	args = append(args, effectiveMessage)

	return args
}
