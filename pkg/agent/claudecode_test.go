package agent

import (
	"reflect"
	"testing"
)

func TestBuildClaudeCodeArgsDeterministic(t *testing.T) {
	cfg := RunConfig{
		Model:        "claude-opus",
		OutputFormat: OutputFormatJSON,
		SystemPrompt: AppendSystemPrompt("be terse"),
		Tools: ToolPolicy{
			Allowed:              []string{"Read", "Write"},
			DisableSlashCommands: true,
		},
	}

	first := BuildClaudeCodeArgs("do the thing", cfg)
	second := BuildClaudeCodeArgs("do the thing", cfg)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("BuildClaudeCodeArgs is not deterministic:\n%v\n%v", first, second)
	}

	want := []string{
		"--print",
		"--model", "claude-opus",
		"--output-format", "json",
		"--append-system-prompt", "be terse",
		"--allowed-tools", "Read,Write",
		"--disable-slash-commands",
		"do the thing",
	}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("argv = %v, want %v", first, want)
	}
}

func TestBuildClaudeCodeArgsToolsAllowNone(t *testing.T) {
	cases := []ToolPolicy{
		{Builtin: BuiltinToolSet{Kind: BuiltinToolSetNone}},
		{Builtin: BuiltinToolSet{Kind: BuiltinToolSetExplicit, Names: []string{}}},
	}

	for _, tools := range cases {
		args := BuildClaudeCodeArgs("p", RunConfig{Tools: tools})
		if !containsSubsequence(args, []string{"--tools", ""}) {
			t.Errorf("argv %v does not contain the [--tools \"\"] subsequence", args)
		}
	}
}

func TestBuildClaudeCodeArgsPromptIsLast(t *testing.T) {
	args := BuildClaudeCodeArgs("final prompt text", RunConfig{
		OutputSchema: OutputSchema{Kind: OutputSchemaInline, Text: `{"type":"object"}`},
	})
	if args[len(args)-1] != "final prompt text" {
		t.Errorf("last argv element = %q, want prompt last", args[len(args)-1])
	}
}

func containsSubsequence(haystack, needle []string) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, n := range needle {
			if haystack[i+j] != n {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
