// Package mcpbridge is the in-process MCP tool-bridge server that a spawned
// agent CLI reconnects to over its own stdio to discover and invoke
// caller-supplied tools, plus the driver that wires it into a one-shot CLI
// invocation.
package mcpbridge

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/giantswarm/agentharness/pkg/agent"
)

// ServerDescriptor is {name, command, args, env-map}, serializable into
// three different on-disk config shapes (§6). It describes how to launch
// this harness's own MCP server (the re-entrant trick, §4.8/§9).
type ServerDescriptor struct {
	Name    string
	Command string
	Args    []string
	Env     map[string]string
}

// ToClaudeJSON renders JSON form A:
// { "mcpServers": { "<name>": { "command": "<path>", "args": [...], "env": {...} } } }
func (d ServerDescriptor) ToClaudeJSON() ([]byte, error) {
	doc := map[string]any{
		"mcpServers": map[string]any{
			d.Name: map[string]any{
				"command": d.Command,
				"args":    d.Args,
				"env":     d.Env,
			},
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ToCodexOverrides renders the descriptor as a sequence of --config k=v
// overrides for the Codex-style adapter's mcp_servers.<name>.* keys, used
// instead of an on-disk config file (§4.8 step 5, Adapter B).
func (d ServerDescriptor) ToCodexOverrides() []agent.KV {
	var overrides []agent.KV
	prefix := fmt.Sprintf("mcp_servers.%s", d.Name)

	overrides = append(overrides, agent.KV{Name: prefix + ".command", Value: d.Command})
	if len(d.Args) > 0 {
		overrides = append(overrides, agent.KV{Name: prefix + ".args", Value: tomlStringArray(d.Args)})
	}

	envNames := make([]string, 0, len(d.Env))
	for k := range d.Env {
		envNames = append(envNames, k)
	}
	sort.Strings(envNames)
	for _, k := range envNames {
		overrides = append(overrides, agent.KV{
			Name:  fmt.Sprintf("%s.env.%s", prefix, k),
			Value: d.Env[k],
		})
	}
	return overrides
}

// ToOpenCodeJSON renders JSON form B, the authoritative OpenCode MCP config
// shape (grounded on the inline construction in
// original_source/rig-provider/src/mcp_agent.rs's run_opencode, not the
// stale duplicate in mcp/src/server.rs's to_opencode_json):
// { "$schema": "https://opencode.ai/config.json",
//   "mcp": { "<name>": { "type":"local", "command":[path, ...args], "environment":{...} } } }
func (d ServerDescriptor) ToOpenCodeJSON() ([]byte, error) {
	command := append([]string{d.Command}, d.Args...)
	doc := map[string]any{
		"$schema": "https://opencode.ai/config.json",
		"mcp": map[string]any{
			d.Name: map[string]any{
				"type":        "local",
				"command":     command,
				"environment": d.Env,
			},
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ToTOML renders the TOML form used when persisting config and as the shape
// the Codex overrides mirror key-for-key:
// [mcp_servers.<name>]
// command = "<path>"
// args = [...]
// [mcp_servers.<name>.env]
// K = "V"
func (d ServerDescriptor) ToTOML() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[mcp_servers.%s]\n", d.Name)
	fmt.Fprintf(&b, "command = %q\n", d.Command)
	fmt.Fprintf(&b, "args = %s\n", tomlStringArray(d.Args))
	if len(d.Env) > 0 {
		fmt.Fprintf(&b, "[mcp_servers.%s.env]\n", d.Name)
		names := make([]string, 0, len(d.Env))
		for k := range d.Env {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(&b, "%s = %q\n", k, d.Env[k])
		}
	}
	return b.String()
}

func tomlStringArray(vals []string) string {
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// AllowedToolName returns the fully-qualified MCP tool name of the form
// mcp__<server>__<tool> (§6 "Tool-name wire format").
func AllowedToolName(serverName, toolName string) string {
	return fmt.Sprintf("mcp__%s__%s", serverName, toolName)
}
