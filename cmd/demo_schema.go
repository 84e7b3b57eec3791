package cmd

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// TaskSummary is the structured result the extract command asks an agent to
// produce: a short summary of whatever task it was given. It exists purely
// as a demonstration target type for the extraction orchestrator -- real
// callers of pkg/extraction define their own.
type TaskSummary struct {
	Title      string   `json:"title" jsonschema:"required,description=One-line title for the completed task"`
	Bullets    []string `json:"bullets" jsonschema:"required,description=Key points, as short bullet strings"`
	Confidence float64  `json:"confidence" jsonschema:"required,minimum=0,maximum=1,description=Self-reported confidence in the summary"`
}

// demoSchema reflects TaskSummary into a JSON Schema document, the same
// input shape pkg/extraction.NewOrchestrator and pkg/mcpbridge.NewToolkitBuilder
// expect (map[string]any rather than the invopop typed *jsonschema.Schema).
func demoSchema() map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&TaskSummary{})

	data, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		panic(err)
	}
	return doc
}

// demoExample is a valid TaskSummary instance, shown to the agent by the
// toolkit's "example" tool before it attempts a submission.
func demoExample() map[string]any {
	return map[string]any{
		"title":      "Renamed the config loader",
		"bullets":    []any{"Split env parsing into its own function", "Added a unit test for the empty-string case"},
		"confidence": 0.9,
	}
}
