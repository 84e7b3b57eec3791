package mcpbridge

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/giantswarm/agentharness/pkg/agent"

	"github.com/mark3labs/mcp-go/server"
)

// MCPServerSentinelEnv, when set to "1" in a process's environment, tells
// main to skip the normal CLI entry point and instead serve this harness's
// own MCP bridge over stdio (§9 "re-entrant serving"). The original Rust
// source illustrates this with RIG_MCP_SERVER=1; this harness uses its own
// name, since §9 calls that name illustrative rather than load-bearing.
const MCPServerSentinelEnv = "AGENTHARNESS_MCP_SERVER"

// DefaultServerName is the MCP server name used in generated config and in
// the mcp__<server>__<tool> prefix, absent an explicit override.
const DefaultServerName = "agentharness_mcp"

// ToolAgentResult is the uniform result of one MCP tool agent invocation,
// regardless of which adapter executed it.
type ToolAgentResult struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMs int64
}

// ToolAgentBuilder configures and runs one MCP tool agent invocation: it
// launches itself over stdio as the tool source (via MCPServerSentinelEnv),
// points the chosen adapter CLI at it as an MCP server, and tells the CLI
// to use exactly those tools to complete Prompt. Grounded on
// original_source/rig-provider/src/mcp_agent.rs's McpToolAgentBuilder.
type ToolAgentBuilder struct {
	Adapter      agent.Adapter
	Prompt       string
	ServerName   string
	SystemPrompt string
	Timeout      time.Duration

	// ExplicitPath overrides CLI discovery (§4.2), mainly for tests.
	ExplicitPath string

	// ToolNames are the bare (non-prefixed) MCP tool names this server
	// exposes -- normally trio.Example.Tool.Name, trio.Validate.Tool.Name,
	// trio.Submit.Tool.Name from a ToolkitTrio.
	ToolNames []string
}

// NewToolAgentBuilder returns a builder with spec defaults (server name,
// 300s timeout) for running adapter against a set of tool names exposed by
// this harness's own re-entrant MCP server.
func NewToolAgentBuilder(adapter agent.Adapter, prompt string, toolNames []string) *ToolAgentBuilder {
	return &ToolAgentBuilder{
		Adapter:    adapter,
		Prompt:     prompt,
		ServerName: DefaultServerName,
		Timeout:    agent.DefaultTimeout,
		ToolNames:  toolNames,
	}
}

// AllowedToolNames returns the fully-qualified mcp__<server>__<tool> names
// the CLI must be told it may use (§4.8 "compute_tool_names").
func (b *ToolAgentBuilder) AllowedToolNames() []string {
	names := make([]string, len(b.ToolNames))
	for i, n := range b.ToolNames {
		names[i] = AllowedToolName(b.ServerName, n)
	}
	return names
}

// Run executes the configured CLI adapter against this harness's own
// re-entrant MCP server and returns its output. Temp config files (Claude,
// OpenCode) are removed before returning, success or failure.
func (b *ToolAgentBuilder) Run(ctx context.Context) (*ToolAgentResult, error) {
	if len(b.ToolNames) == 0 {
		return nil, fmt.Errorf("mcpbridge: at least one tool name is required")
	}
	if b.Prompt == "" {
		return nil, fmt.Errorf("mcpbridge: prompt is required")
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("mcpbridge: resolve current executable: %w", err)
	}

	descriptor := ServerDescriptor{
		Name:    b.ServerName,
		Command: exe,
		Args:    nil,
		Env:     map[string]string{MCPServerSentinelEnv: "1"},
	}

	allowedTools := b.AllowedToolNames()
	instruction := fmt.Sprintf(
		"You MUST use the MCP tools to complete this task. Available tools: %s. "+
			"Do NOT output raw JSON text as your response -- use the tools.",
		strings.Join(allowedTools, ", "),
	)
	systemPrompt := instruction
	if b.SystemPrompt != "" {
		systemPrompt = b.SystemPrompt + "\n\n" + instruction
	}

	timeout := b.Timeout
	if timeout <= 0 {
		timeout = agent.DefaultTimeout
	}

	switch b.Adapter {
	case agent.AdapterCodex:
		return b.runCodex(ctx, descriptor, systemPrompt, timeout)
	case agent.AdapterOpenCode:
		return b.runOpenCode(ctx, descriptor, systemPrompt, timeout)
	default:
		return b.runClaudeCode(ctx, descriptor, allowedTools, systemPrompt, timeout)
	}
}

func (b *ToolAgentBuilder) runClaudeCode(ctx context.Context, descriptor ServerDescriptor, allowedTools []string, systemPrompt string, timeout time.Duration) (*ToolAgentResult, error) {
	configJSON, err := descriptor.ToClaudeJSON()
	if err != nil {
		return nil, fmt.Errorf("mcpbridge: serialize claude mcp config: %w", err)
	}

	configPath, cleanup, err := writeTempConfig("agentharness-mcp-*.json", configJSON)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	path, err := agent.Discover(agent.AdapterClaudeCode, b.ExplicitPath)
	if err != nil {
		return nil, err
	}

	cfg := agent.RunConfig{
		OutputFormat: agent.OutputFormatText,
		SystemPrompt: agent.AppendSystemPrompt(systemPrompt),
		MCP: &agent.MCPPolicy{
			Configs: []string{configPath},
			Strict:  false,
		},
		Tools: agent.ToolPolicy{
			Builtin:              agent.BuiltinToolSet{Kind: agent.BuiltinToolSetDefault},
			Allowed:              allowedTools,
			DisableSlashCommands: true,
		},
		Timeout: timeout,
	}

	return run(ctx, agent.AdapterClaudeCode, path, b.Prompt, cfg)
}

func (b *ToolAgentBuilder) runCodex(ctx context.Context, descriptor ServerDescriptor, systemPrompt string, timeout time.Duration) (*ToolAgentResult, error) {
	path, err := agent.Discover(agent.AdapterCodex, b.ExplicitPath)
	if err != nil {
		return nil, err
	}

	cfg := agent.RunConfig{
		FullAuto:     true,
		SystemPrompt: agent.AppendSystemPrompt(systemPrompt),
		Overrides:    codexOverridesAsKV(descriptor),
		Timeout:      timeout,
	}

	return run(ctx, agent.AdapterCodex, path, b.Prompt, cfg)
}

func codexOverridesAsKV(descriptor ServerDescriptor) []agent.KV {
	return descriptor.ToCodexOverrides()
}

func (b *ToolAgentBuilder) runOpenCode(ctx context.Context, descriptor ServerDescriptor, systemPrompt string, timeout time.Duration) (*ToolAgentResult, error) {
	configJSON, err := descriptor.ToOpenCodeJSON()
	if err != nil {
		return nil, fmt.Errorf("mcpbridge: serialize opencode mcp config: %w", err)
	}

	configPath, cleanup, err := writeTempConfig("agentharness-mcp-*.json", configJSON)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	path, err := agent.Discover(agent.AdapterOpenCode, b.ExplicitPath)
	if err != nil {
		return nil, err
	}

	cfg := agent.RunConfig{
		SystemPrompt: agent.AppendSystemPrompt(systemPrompt),
		Timeout:      timeout,
		Env: []agent.KV{
			{Name: agent.OpenCodeMCPConfigEnv, Value: configPath},
		},
	}

	return run(ctx, agent.AdapterOpenCode, path, b.Prompt, cfg)
}

// run spawns one adapter invocation via agent.Runner and flattens the
// result into the uniform ToolAgentResult shape.
func run(ctx context.Context, adapter agent.Adapter, path, prompt string, cfg agent.RunConfig) (*ToolAgentResult, error) {
	runner := agent.NewRunner(adapter, path)
	result, err := runner.Run(ctx, prompt, cfg, nil)
	if err != nil {
		return nil, err
	}
	return &ToolAgentResult{
		Stdout:     result.Stdout,
		Stderr:     result.Stderr,
		ExitCode:   result.ExitCode,
		DurationMs: int64(result.Duration),
	}, nil
}

// writeTempConfig writes data to a new temp file matching pattern and
// returns its path plus a cleanup func that removes it. Go's equivalent of
// the Rust source's tempfile::NamedTempFile RAII guard, made explicit since
// Go has no destructor to rely on.
func writeTempConfig(pattern string, data []byte) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("mcpbridge: create temp config file: %w", err)
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", nil, fmt.Errorf("mcpbridge: write temp config file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", nil, fmt.Errorf("mcpbridge: close temp config file: %w", err)
	}
	return name, func() { os.Remove(name) }, nil
}

// RunSelfServer is what a process launched with MCPServerSentinelEnv=1 runs
// instead of its usual entry point: it serves trio (plus any extra tools)
// over stdio until the client disconnects.
func RunSelfServer(trio ToolkitTrio, extra ...server.ServerTool) error {
	return Serve(NewServer(trio, extra...))
}

// IsMCPServerMode reports whether the current process was launched as the
// re-entrant MCP tool source (§9).
func IsMCPServerMode() bool {
	return os.Getenv(MCPServerSentinelEnv) == "1"
}
