package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ToolkitTrio is the three tool descriptors synthesized from a TargetSchema
// (§3, §4.5): example (no-arg, returns the example), validate (argument
// {json: any}, returns a human-readable validation report), and submit
// (argument schema built from the target schema's properties and required
// list; validates against the full target schema, then invokes a callback).
//
// Default names are literal "example", "validate_json", "submit" (spec.md
// is authoritative here; the original Rust source's stale "json_example"
// default is not carried forward -- see DESIGN.md).
type ToolkitTrio struct {
	Example  server.ServerTool
	Validate server.ServerTool
	Submit   server.ServerTool
}

// SubmitCallback is invoked with the schema-validated, deserialized value
// when the submit tool is called. Its return value becomes the tool's
// success message. If nil, builder.SuccessMessage is used verbatim.
type SubmitCallback func(value any) string

// ToolkitBuilder configures a ToolkitTrio for one TargetSchema.
type ToolkitBuilder struct {
	Schema  map[string]any
	Example any

	OnSubmit       SubmitCallback
	SuccessMessage string

	ExampleName        string
	ExampleDescription  string
	ValidateName        string
	ValidateDescription string
	SubmitName          string
	SubmitDescription   string
}

// NewToolkitBuilder returns a builder with spec-default names, descriptions,
// and success message, for the given schema and example value.
func NewToolkitBuilder(schema map[string]any, example any) *ToolkitBuilder {
	return &ToolkitBuilder{
		Schema:  schema,
		Example: example,

		SuccessMessage: "Successfully submitted.",

		ExampleName:         "example",
		ExampleDescription:  "Get an example of the expected JSON format.",
		ValidateName:        "validate_json",
		ValidateDescription: "Validate JSON against the configured schema. Use this to check your format before submitting.",
		SubmitName:          "submit",
		SubmitDescription:   "Submit the structured data. This will perform final validation and processing.",
	}
}

// Build compiles the schema once and returns the three configured tools.
func (b *ToolkitBuilder) Build() (ToolkitTrio, error) {
	compiled, err := compileSchema(b.Schema)
	if err != nil {
		return ToolkitTrio{}, fmt.Errorf("schema-error: %w", err)
	}

	exampleJSON, err := json.MarshalIndent(b.Example, "", "  ")
	if err != nil {
		return ToolkitTrio{}, fmt.Errorf("schema-error: failed to marshal example: %w", err)
	}

	return ToolkitTrio{
		Example:  b.buildExampleTool(string(exampleJSON)),
		Validate: b.buildValidateTool(compiled),
		Submit:   b.buildSubmitTool(compiled),
	}, nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("toolkit-schema.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("toolkit-schema.json")
}

func (b *ToolkitBuilder) buildExampleTool(exampleText string) server.ServerTool {
	tool := mcp.NewTool(b.ExampleName, mcp.WithDescription(b.ExampleDescription))
	handler := func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(exampleText), nil
	}
	return server.ServerTool{Tool: tool, Handler: handler}
}

func (b *ToolkitBuilder) buildValidateTool(compiled *jsonschema.Schema) server.ServerTool {
	tool := mcp.Tool{
		Name:        b.ValidateName,
		Description: b.ValidateDescription,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"json": map[string]any{
					"description": "The JSON data to validate",
				},
			},
			Required: []string{"json"},
		},
	}

	handler := func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		instance, ok := args["json"]
		if !ok {
			return mcp.NewToolResultError(`missing required parameter "json"`), nil
		}

		if err := compiled.Validate(instance); err != nil {
			messages := collectValidationErrors(err)
			return mcp.NewToolResultText(fmt.Sprintf(
				"JSON is invalid. Please fix the following errors before submitting:\n%s",
				strings.Join(messages, "\n"),
			)), nil
		}

		return mcp.NewToolResultText("JSON is valid. You may now call the submit tool."), nil
	}

	return server.ServerTool{Tool: tool, Handler: handler}
}

func (b *ToolkitBuilder) buildSubmitTool(compiled *jsonschema.Schema) server.ServerTool {
	// The submit tool's input schema is built from the target schema's
	// top-level "properties" and "required" (see rawInputSchema); other
	// top-level keywords of the target schema are not carried into it. The
	// handler still validates each submission against the full compiled
	// schema. Built as a literal rather than via mcp.NewTool's WithX
	// functional options, since those build a schema from declared
	// parameters rather than from an existing schema document.
	tool := mcp.Tool{
		Name:        b.SubmitName,
		Description: b.SubmitDescription,
		InputSchema: rawInputSchema(b.Schema),
	}

	handler := func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if err := compiled.Validate(map[string]any(args)); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf(
				"JSON is invalid. Please fix the following errors and submit again:\n%s",
				strings.Join(collectValidationErrors(err), "\n"),
			)), nil
		}
		if b.OnSubmit == nil {
			return mcp.NewToolResultText(b.SuccessMessage), nil
		}
		return mcp.NewToolResultText(b.OnSubmit(map[string]any(args))), nil
	}

	return server.ServerTool{Tool: tool, Handler: handler}
}

// collectValidationErrors flattens a jsonschema validation error into one
// message per constraint failure, each prefixed by its instance path, in
// the order the validator produced them (not sorted) -- §4.6 "Ordering &
// tie-breaks". jsonschema.(*ValidationError).Error() already renders a
// multi-line report of the form "- at '<pointer>': <message>" per leaf
// failure; this reshapes each such line into the "At path '<pointer>':
// <message>" wording §4.6 specifies.
func collectValidationErrors(err error) []string {
	full := err.Error()

	var messages []string
	for _, line := range strings.Split(full, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		if !strings.HasPrefix(line, "at '") {
			continue
		}
		messages = append(messages, "At path "+strings.TrimPrefix(line, "at "))
	}

	if len(messages) == 0 {
		messages = append(messages, full)
	}
	return messages
}

// rawInputSchema converts the caller-supplied target schema into the submit
// tool's mcp.ToolInputSchema. It keeps only "type": "object", the top-level
// "properties" map, and the top-level "required" list; any other keyword
// (additionalProperties, $defs, enum, ...) is dropped.
func rawInputSchema(schema map[string]any) mcp.ToolInputSchema {
	result := mcp.ToolInputSchema{Type: "object"}
	if props, ok := schema["properties"].(map[string]any); ok {
		result.Properties = props
	}
	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			if s, ok := r.(string); ok {
				result.Required = append(result.Required, s)
			}
		}
	} else if required, ok := schema["required"].([]string); ok {
		result.Required = required
	}
	return result
}
