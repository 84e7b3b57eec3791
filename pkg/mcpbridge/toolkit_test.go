package mcpbridge

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func personSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"age":  map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []any{"name", "age"},
	}
}

func TestBuildProducesDefaultNames(t *testing.T) {
	trio, err := NewToolkitBuilder(personSchema(), map[string]any{"name": "Ada", "age": 30}).Build()
	if err != nil {
		t.Fatal(err)
	}
	if trio.Example.Tool.Name != "example" {
		t.Errorf("example tool name = %q, want %q", trio.Example.Tool.Name, "example")
	}
	if trio.Validate.Tool.Name != "validate_json" {
		t.Errorf("validate tool name = %q, want %q", trio.Validate.Tool.Name, "validate_json")
	}
	if trio.Submit.Tool.Name != "submit" {
		t.Errorf("submit tool name = %q, want %q", trio.Submit.Tool.Name, "submit")
	}
}

func TestValidatorCompleteness(t *testing.T) {
	trio, err := NewToolkitBuilder(personSchema(), map[string]any{"name": "Ada", "age": 30}).Build()
	if err != nil {
		t.Fatal(err)
	}

	request := newCallToolRequest(trio.Validate.Tool.Name, map[string]any{
		"json": map[string]any{"age": -5},
	})

	result, err := trio.Validate.Handler(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}

	text := resultText(result)
	if !strings.Contains(text, "name") {
		t.Errorf("expected a message mentioning the missing 'name' property, got: %s", text)
	}
	if !strings.Contains(text, "age") {
		t.Errorf("expected a message mentioning 'age', got: %s", text)
	}
}

func TestValidatorAcceptsValidInstance(t *testing.T) {
	trio, err := NewToolkitBuilder(personSchema(), map[string]any{"name": "Ada", "age": 30}).Build()
	if err != nil {
		t.Fatal(err)
	}

	request := newCallToolRequest(trio.Validate.Tool.Name, map[string]any{
		"json": map[string]any{"name": "Ada", "age": 30},
	})

	result, err := trio.Validate.Handler(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if !strings.Contains(resultText(result), "valid") {
		t.Errorf("expected a success message, got: %s", resultText(result))
	}
}

func TestSubmitInvokesCallback(t *testing.T) {
	var received any
	builder := NewToolkitBuilder(personSchema(), map[string]any{"name": "Ada", "age": 30})
	builder.OnSubmit = func(value any) string {
		received = value
		return "got it"
	}
	trio, err := builder.Build()
	if err != nil {
		t.Fatal(err)
	}

	request := newCallToolRequest(trio.Submit.Tool.Name, map[string]any{"name": "Ada", "age": 30})

	result, err := trio.Submit.Handler(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if resultText(result) != "got it" {
		t.Errorf("result = %q, want %q", resultText(result), "got it")
	}
	if received == nil {
		t.Error("expected OnSubmit to receive the submitted value")
	}
}

func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(result *mcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}
