package agent

import "testing"

// NOTE: Codex Issue #4152 -- MCP tools bypass sandbox restrictions, so the
// sandbox mode asserted here does not actually contain mcp__*__* tool
// calls. A known upstream Codex bug, not something this adapter works
// around.

func TestBuildCodexArgsSandboxReadOnlyFlag(t *testing.T) {
	args := BuildCodexArgs("test prompt", RunConfig{Sandbox: SandboxReadOnly})
	if !containsSubsequence(args, []string{"--sandbox", "read-only"}) {
		t.Errorf("argv %v missing [--sandbox read-only]", args)
	}
}

func TestBuildCodexArgsSandboxWorkspaceWriteFlag(t *testing.T) {
	args := BuildCodexArgs("test prompt", RunConfig{Sandbox: SandboxWorkspaceWrite})
	if !containsSubsequence(args, []string{"--sandbox", "workspace-write"}) {
		t.Errorf("argv %v missing [--sandbox workspace-write]", args)
	}
}

func TestBuildCodexArgsApprovalNeverFlag(t *testing.T) {
	args := BuildCodexArgs("test prompt", RunConfig{Approval: ApprovalNever})
	if !containsSubsequence(args, []string{"--ask-for-approval", "never"}) {
		t.Errorf("argv %v missing [--ask-for-approval never]", args)
	}
}

func TestBuildCodexArgsCdFlag(t *testing.T) {
	args := BuildCodexArgs("test prompt", RunConfig{Cwd: "/tmp/sandbox"})
	if !containsSubsequence(args, []string{"--cd", "/tmp/sandbox"}) {
		t.Errorf("argv %v missing [--cd /tmp/sandbox]", args)
	}
}

func TestBuildCodexArgsFullAutoNotSetByDefault(t *testing.T) {
	args := BuildCodexArgs("test prompt", RunConfig{})
	for _, a := range args {
		if a == "--full-auto" {
			t.Error("--full-auto should not be present by default")
		}
	}
}

func TestBuildCodexArgsFullContainmentConfig(t *testing.T) {
	cfg := RunConfig{
		Sandbox:  SandboxReadOnly,
		Approval: ApprovalNever,
		Cwd:      "/tmp/isolated",
	}
	args := BuildCodexArgs("test prompt", cfg)

	if !containsSubsequence(args, []string{"--sandbox", "read-only"}) {
		t.Errorf("argv %v missing sandbox flag", args)
	}
	if !containsSubsequence(args, []string{"--ask-for-approval", "never"}) {
		t.Errorf("argv %v missing approval flag", args)
	}
	if !containsSubsequence(args, []string{"--cd", "/tmp/isolated"}) {
		t.Errorf("argv %v missing cd flag", args)
	}
}

func TestBuildCodexArgsSystemPromptPrependedNotFlagged(t *testing.T) {
	args := BuildCodexArgs("do the task", RunConfig{SystemPrompt: AppendSystemPrompt("be terse")})
	for _, a := range args {
		if a == "--system-prompt" || a == "--append-system-prompt" {
			t.Error("codex has no system-prompt flag; it must be prepended to the prompt instead")
		}
	}
	last := args[len(args)-1]
	if last != "be terse\n\ndo the task" {
		t.Errorf("last argv = %q, want system prompt prepended to the user prompt", last)
	}
}

func TestBuildCodexArgsOverridesOrderedAndRepeated(t *testing.T) {
	cfg := RunConfig{
		Overrides: []KV{
			{Name: "mcp_servers.x.command", Value: "/bin/agentharness"},
			{Name: "mcp_servers.x.env.FOO", Value: "bar"},
		},
	}
	args := BuildCodexArgs("p", cfg)
	want := []string{"--config", "mcp_servers.x.command=/bin/agentharness", "--config", "mcp_servers.x.env.FOO=bar"}
	if !containsSubsequence(args, want) {
		t.Errorf("argv %v missing ordered --config overrides %v", args, want)
	}
}
