package mcpbridge

import (
	"encoding/json"
	"strings"
	"testing"
)

func exampleDescriptor() ServerDescriptor {
	return ServerDescriptor{
		Name:    "agentharness_mcp",
		Command: "/usr/local/bin/agentharness",
		Args:    nil,
		Env:     map[string]string{"AGENTHARNESS_MCP_SERVER": "1"},
	}
}

func TestToClaudeJSONShape(t *testing.T) {
	data, err := exampleDescriptor().ToClaudeJSON()
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	servers, ok := doc["mcpServers"].(map[string]any)
	if !ok {
		t.Fatalf("expected top-level mcpServers object, got %v", doc)
	}
	entry, ok := servers["agentharness_mcp"].(map[string]any)
	if !ok {
		t.Fatalf("expected mcpServers.agentharness_mcp object, got %v", servers)
	}
	if entry["command"] != "/usr/local/bin/agentharness" {
		t.Errorf("command = %v, want the binary path", entry["command"])
	}
}

func TestToOpenCodeJSONShape(t *testing.T) {
	data, err := exampleDescriptor().ToOpenCodeJSON()
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	if doc["$schema"] != "https://opencode.ai/config.json" {
		t.Errorf("$schema = %v, want the opencode config schema url", doc["$schema"])
	}
	mcpObj, ok := doc["mcp"].(map[string]any)
	if !ok {
		t.Fatalf("expected top-level mcp object, got %v", doc)
	}
	entry, ok := mcpObj["agentharness_mcp"].(map[string]any)
	if !ok {
		t.Fatalf("expected mcp.agentharness_mcp object, got %v", mcpObj)
	}
	if entry["type"] != "local" {
		t.Errorf("type = %v, want \"local\"", entry["type"])
	}
	command, ok := entry["command"].([]any)
	if !ok || len(command) != 1 || command[0] != "/usr/local/bin/agentharness" {
		t.Errorf("command = %v, want a one-element array with the binary path", entry["command"])
	}
}

func TestToCodexOverridesProducesSortedEnvKeys(t *testing.T) {
	descriptor := exampleDescriptor()
	descriptor.Env = map[string]string{"Z": "1", "A": "2"}

	overrides := descriptor.ToCodexOverrides()

	var envOverrides []string
	for _, kv := range overrides {
		if strings.Contains(kv.Name, ".env.") {
			envOverrides = append(envOverrides, kv.Name)
		}
	}
	if len(envOverrides) != 2 || envOverrides[0] > envOverrides[1] {
		t.Errorf("expected env overrides sorted by key, got %v", envOverrides)
	}
}

func TestAllowedToolNameFormat(t *testing.T) {
	got := AllowedToolName("agentharness_mcp", "submit")
	want := "mcp__agentharness_mcp__submit"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
