package agent

import "testing"

func TestBuildOpenCodeArgsSubcommandAndModel(t *testing.T) {
	args := BuildOpenCodeArgs("hello", RunConfig{Model: "opencode/big-pickle"})
	if args[0] != "run" {
		t.Errorf("args[0] = %q, want \"run\"", args[0])
	}
	if !containsSubsequence(args, []string{"--model", "opencode/big-pickle"}) {
		t.Errorf("argv %v missing [--model opencode/big-pickle]", args)
	}
}

func TestBuildOpenCodeArgsOverridesMapToFlags(t *testing.T) {
	cfg := RunConfig{
		Overrides: []KV{
			{Name: "print-logs", Value: "true"},
			{Name: "log-level", Value: "debug"},
			{Name: "port", Value: "4096"},
			{Name: "hostname", Value: "127.0.0.1"},
		},
	}
	args := BuildOpenCodeArgs("hello", cfg)

	for _, want := range [][]string{
		{"--print-logs"},
		{"--log-level", "debug"},
		{"--port", "4096"},
		{"--hostname", "127.0.0.1"},
	} {
		if !containsSubsequence(args, want) {
			t.Errorf("argv %v missing %v", args, want)
		}
	}
}

func TestBuildOpenCodeArgsSystemPromptPrependedToMessage(t *testing.T) {
	args := BuildOpenCodeArgs("do the task", RunConfig{SystemPrompt: AppendSystemPrompt("be terse")})
	last := args[len(args)-1]
	if last != "be terse\n\ndo the task" {
		t.Errorf("last argv = %q, want system prompt prepended to message", last)
	}
}

func TestBuildOpenCodeArgsNoSandboxOrToolFlags(t *testing.T) {
	cfg := RunConfig{
		Sandbox: SandboxReadOnly,
		Tools:   ToolPolicy{Allowed: []string{"Read"}},
	}
	args := BuildOpenCodeArgs("hello", cfg)
	for _, a := range args {
		if a == "--sandbox" || a == "--allowed-tools" {
			t.Errorf("OpenCode adapter has no sandbox or tool-restriction flags; found %q in argv %v", a, args)
		}
	}
}
