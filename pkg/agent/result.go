package agent

import "encoding/json"

// RunResult is the output of every spawn.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int // -1 sentinel if the OS reports none (killed by signal)
	Duration Duration

	// JSON is populated only when OutputFormat == OutputFormatJSON and the
	// captured stdout parses as a single JSON value. A parse failure here is
	// not an error -- the field is simply left nil, per §4.3 step 5.
	JSON any

	// StreamEvents is populated only when OutputFormat == OutputFormatStreamJSON.
	StreamEvents []StreamEvent
}

// Duration wraps time.Duration in milliseconds for JSON marshaling fidelity
// with callers that expect a duration_ms integer field.
type Duration int64

// parseJSONStdout attempts to parse s as a single JSON value. Trailing bytes
// after a valid document (e.g. logs appended after the JSON) make this fail,
// yielding a nil result rather than an error -- see SPEC_FULL.md §9 Open
// Question 2. This is documented current behavior, not inferred intent.
func parseJSONStdout(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil
	}
	return v
}
