package agent

import "fmt"

// Codex-style adapter: grounded on original_source/codex-adapter/src/cmd.rs.
// Subcommand is fixed "exec"; sandbox/approval/full-auto/search/cd/add-dir
// and free-form --config k=v overrides. No system-prompt flag -- prepend to
// the user prompt instead.
//
// NOTE: MCP tools invoked under this adapter bypass its own sandbox
// enforcement (a known upstream Codex bug, not specific to this harness).
// Callers relying on --sandbox for MCP-tool containment should not.

const (
	CodexBinaryName = "codex"
	CodexBinEnvVar  = "CODEX_ADAPTER_BIN"
)

// BuildCodexArgs lowers cfg into the argv for the Codex-style adapter.
func BuildCodexArgs(prompt string, cfg RunConfig) []string {
	var args []string

	args = append(args, "exec")

	if cfg.Model != "" {
		args = append(args, "--model", cfg.Model)
	}

	if cfg.Sandbox != "" {
		args = append(args, "--sandbox", sandboxFlagValue(cfg.Sandbox))
	}

	if cfg.Approval != "" {
		args = append(args, "--ask-for-approval", approvalFlagValue(cfg.Approval))
	}

	if cfg.FullAuto {
		args = append(args, "--full-auto")
	}

	if cfg.Search {
		args = append(args, "--search")
	}

	if cfg.Cwd != "" {
		args = append(args, "--cd", cfg.Cwd)
	}

	for _, dir := range cfg.AddDirs {
		args = append(args, "--add-dir", dir)
	}

	for _, kv := range cfg.Overrides {
		args = append(args, "--config", fmt.Sprintf("%s=%s", kv.Name, kv.Value))
	}

	// Codex has no --system-prompt flag; prepend to the user prompt.
	effectivePrompt := prompt
	if cfg.SystemPrompt.Kind == SystemPromptAppend || cfg.SystemPrompt.Kind == SystemPromptReplace {
		effectivePrompt = cfg.SystemPrompt.Text + "\n\n" + prompt
	}
	args = append(args, effectivePrompt)

	return args
}

func sandboxFlagValue(mode SandboxMode) string {
	switch mode {
	case SandboxReadOnly:
		return "read-only"
	case SandboxWorkspaceWrite:
		return "workspace-write"
	case SandboxDangerFullAccess:
		return "danger-full-access"
	default:
		return string(mode)
	}
}

func approvalFlagValue(policy ApprovalPolicy) string {
	switch policy {
	case ApprovalUntrusted:
		return "untrusted"
	case ApprovalOnFailure:
		return "on-failure"
	case ApprovalOnRequest:
		return "on-request"
	case ApprovalNever:
		return "never"
	default:
		return string(policy)
	}
}
