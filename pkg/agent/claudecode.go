package agent

// Claude-style adapter: grounded on original_source/claudecode-adapter/src/cmd.rs.
// Subcommand is fixed --print; supports output-format, system-prompt variants,
// MCP config files, tools/allowed/disallowed, json-schema.

const (
	ClaudeCodeBinaryName = "claude"
	ClaudeCodeBinEnvVar  = "CC_ADAPTER_CLAUDE_BIN"
)

// BuildClaudeCodeArgs lowers cfg into the argv for the Claude-style adapter.
// Pure function: identical inputs produce bit-identical output (§4.1, §8
// Argv determinism).
func BuildClaudeCodeArgs(prompt string, cfg RunConfig) []string {
	var args []string

	args = append(args, "--print")

	if cfg.Model != "" {
		args = append(args, "--model", cfg.Model)
	}

	switch cfg.OutputFormat {
	case OutputFormatText:
		args = append(args, "--output-format", "text")
	case OutputFormatJSON:
		args = append(args, "--output-format", "json")
	case OutputFormatStreamJSON:
		args = append(args, "--output-format", "stream-json")
	}

	switch cfg.SystemPrompt.Kind {
	case SystemPromptAppend:
		args = append(args, "--append-system-prompt", cfg.SystemPrompt.Text)
	case SystemPromptReplace:
		args = append(args, "--system-prompt", cfg.SystemPrompt.Text)
	}

	if cfg.MCP != nil {
		for _, path := range cfg.MCP.Configs {
			args = append(args, "--mcp-config", path)
		}
		if cfg.MCP.Strict {
			args = append(args, "--strict-mcp-config")
		}
	}

	switch cfg.Tools.Builtin.Kind {
	case BuiltinToolSetNone:
		args = append(args, "--tools", "")
	case BuiltinToolSetExplicit:
		args = append(args, "--tools", joinComma(cfg.Tools.Builtin.Names))
	}

	if len(cfg.Tools.Allowed) > 0 {
		args = append(args, "--allowed-tools", joinComma(cfg.Tools.Allowed))
	}

	if len(cfg.Tools.Disallowed) > 0 {
		args = append(args, "--disallowed-tools", joinComma(cfg.Tools.Disallowed))
	}

	if cfg.Tools.DisableSlashCommands {
		args = append(args, "--disable-slash-commands")
	}

	switch cfg.OutputSchema.Kind {
	case OutputSchemaInline:
		args = append(args, "--json-schema", cfg.OutputSchema.Text)
	case OutputSchemaValue:
		args = append(args, "--json-schema", mustMarshalJSON(cfg.OutputSchema.Value))
	}

	args = append(args, prompt)

	return args
}
