package agent

import "encoding/json"

// StreamEventKind tags a StreamEvent's payload.
type StreamEventKind string

const (
	StreamEventText       StreamEventKind = "text"
	StreamEventToolCall   StreamEventKind = "tool_call"
	StreamEventToolResult StreamEventKind = "tool_result"
	StreamEventError      StreamEventKind = "error"
	StreamEventUnknown    StreamEventKind = "unknown"
)

// StreamEvent is the tagged union emitted while output_format = stream_json:
// text{text}, tool_call{name, input}, tool_result{name, output}, error{message}, unknown<raw>.
type StreamEvent struct {
	Kind StreamEventKind

	// Kind == StreamEventText
	Text string

	// Kind == StreamEventToolCall
	ToolName  string
	ToolInput json.RawMessage

	// Kind == StreamEventToolResult
	ToolOutput json.RawMessage

	// Kind == StreamEventError
	Message string

	// Kind == StreamEventUnknown
	Raw json.RawMessage
}

// rawStreamLine mirrors the on-wire JSON shape of one stdout line under
// stream_json. Unrecognized "type" values fall back to StreamEventUnknown.
type rawStreamLine struct {
	Type   string          `json:"type"`
	Text   string          `json:"text"`
	Name   string          `json:"name"`
	Input  json.RawMessage `json:"input"`
	Output json.RawMessage `json:"output"`
	Message string         `json:"message"`
}

// ParseStreamLine parses one stdout line emitted under output_format =
// stream_json into a typed StreamEvent. A line that fails to parse as JSON
// at all falls back to a StreamEventText carrying the raw line; a line that
// does parse but carries an unrecognized "type" becomes StreamEventUnknown.
// Neither case is an error — see §4.3.
func ParseStreamLine(line []byte) StreamEvent {
	var raw rawStreamLine
	if err := json.Unmarshal(line, &raw); err != nil {
		return StreamEvent{Kind: StreamEventText, Text: string(line) + "\n"}
	}

	switch raw.Type {
	case string(StreamEventText):
		return StreamEvent{Kind: StreamEventText, Text: raw.Text}
	case string(StreamEventToolCall):
		return StreamEvent{Kind: StreamEventToolCall, ToolName: raw.Name, ToolInput: raw.Input}
	case string(StreamEventToolResult):
		return StreamEvent{Kind: StreamEventToolResult, ToolName: raw.Name, ToolOutput: raw.Output}
	case string(StreamEventError):
		return StreamEvent{Kind: StreamEventError, Message: raw.Message}
	default:
		return StreamEvent{Kind: StreamEventUnknown, Raw: append(json.RawMessage(nil), line...)}
	}
}
