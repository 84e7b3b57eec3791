package extraction

import (
	"fmt"
	"time"
)

// AttemptRecord is one attempt's submission and its validation outcome,
// kept for the final error report when all attempts are exhausted.
type AttemptRecord struct {
	AttemptNumber    int
	SubmittedJSON    any
	ValidationErrors []string
	RawAgentOutput   string
	Elapsed          time.Duration
}

// MaxRetriesExceededError is returned when every attempt failed validation
// (or parsing) and none remained.
type MaxRetriesExceededError struct {
	Attempts    int
	MaxAttempts int
	History     []AttemptRecord
	RawOutput   string
	Metrics     Metrics
}

func (e *MaxRetriesExceededError) Error() string {
	return fmt.Sprintf("extraction failed after %d attempts (max: %d)", e.Attempts, e.MaxAttempts)
}

// ParseError is returned by ExtractTyped when schema-valid JSON cannot be
// deserialized into the caller's target type. Distinct from a parse
// failure of the agent's raw text, which Orchestrator.Extract absorbs
// internally as a retry trigger, not a terminal error.
type ParseError struct {
	Message string
	RawText string
	Attempt int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("JSON parsing failed at attempt %d: %s", e.Attempt, e.Message)
}

// SchemaError is returned when the target schema itself fails to compile.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: %s", e.Detail)
}

// AgentError wraps a failure returned by the caller-supplied agent
// function (CLI error, timeout, spawn failure -- §7's agent.Runner errors
// surface here).
type AgentError struct {
	Detail string
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent execution failed: %s", e.Detail)
}

// CallbackRejectionError is returned when schema-valid JSON is rejected by
// caller business logic (the submit tool's OnSubmit callback, in the MCP
// tool-bridge path).
type CallbackRejectionError struct {
	Reason  string
	Attempt int
}

func (e *CallbackRejectionError) Error() string {
	return fmt.Sprintf("callback rejected submission at attempt %d: %s", e.Attempt, e.Reason)
}
