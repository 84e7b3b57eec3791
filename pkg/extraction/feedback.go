package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// BuildValidationFeedback renders the retry message sent back to the agent
// after schema validation fails: attempt counter, every validation error
// with its instance path, the full expected schema, the agent's own
// submission echoed back, and an instruction to fix and resubmit (§4.6).
func BuildValidationFeedback(schema map[string]any, instance any, errors []string, attempt, maxAttempts int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attempt %d/%d: JSON validation failed.\n\n", attempt, maxAttempts)

	b.WriteString("Errors:\n")
	for _, e := range errors {
		b.WriteString("  - ")
		b.WriteString(e)
		b.WriteByte('\n')
	}

	b.WriteString("\nExpected schema:\n")
	b.WriteString(prettyJSON(schema))

	b.WriteString("\n\nYour submission:\n")
	b.WriteString(prettyJSON(instance))

	b.WriteString("\n\nPlease fix all errors and resubmit.")

	return b.String()
}

// BuildParseErrorFeedback renders the retry message sent back to the agent
// when its output could not be parsed as JSON at all: attempt counter, the
// parse error, the first 500 characters of the raw response, the expected
// schema, and an instruction to respond with valid JSON (§4.6).
func BuildParseErrorFeedback(rawText, parseError string, attempt, maxAttempts int, schema map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attempt %d/%d: Could not parse your response as JSON.\n\n", attempt, maxAttempts)

	b.WriteString("Parse error: ")
	b.WriteString(parseError)
	b.WriteString("\n\n")

	b.WriteString("Your response (first 500 chars):\n")
	b.WriteString(truncate500(rawText))

	b.WriteString("\n\nExpected schema:\n")
	b.WriteString(prettyJSON(schema))

	b.WriteString("\n\nPlease respond with valid JSON matching the schema above.")

	return b.String()
}

func truncate500(s string) string {
	runes := []rune(s)
	if len(runes) <= 500 {
		return s
	}
	return string(runes[:500]) + "..."
}

func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// CollectValidationErrors compiles schema fresh and validates instance
// against it, returning one "At path '<pointer>': <message>" string per
// constraint failure so every failure is reported, not just the first
// (§4.6 "Ordering & tie-breaks": validator order, not sorted).
//
// Compiling on every call mirrors the extraction loop's original behavior
// of recompiling per attempt rather than once up front; Orchestrator.Extract
// instead compiles once via compileSchema and reuses it across attempts,
// matching how mcpbridge's toolkit does it, not duplicating this function's
// per-call cost in the orchestrator's hot path.
func CollectValidationErrors(schema map[string]any, instance any) []string {
	compiled, err := compileSchema(schema)
	if err != nil {
		return []string{fmt.Sprintf("schema compilation error: %s", err)}
	}
	return validationErrorStrings(compiled, instance)
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
	if err := compiler.AddResource("extraction-schema.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("extraction-schema.json")
}

// validationErrorStrings flattens *jsonschema.Validate's error into one
// message per constraint failure. The library renders a multi-line report
// of the form "- at '<pointer>': <message>" per leaf failure on Error();
// this reshapes each such line into the "At path '<pointer>': <message>"
// wording §4.6 specifies, falling back to the unparsed error string if the
// rendering ever changes shape.
func validationErrorStrings(compiled *jsonschema.Schema, instance any) []string {
	err := compiled.Validate(instance)
	if err == nil {
		return nil
	}

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
