package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v6"

	promMetrics "github.com/giantswarm/agentharness/pkg/metrics"
)

// AgentFunc sends prompt to an agent and returns its raw text output. It
// abstracts over which CLI adapter produced the text -- the orchestrator
// only ever sees strings in and out (§4.7 "agent_fn abstraction").
type AgentFunc func(ctx context.Context, prompt string) (string, error)

// Orchestrator runs bounded retry loops with validation feedback against
// one target schema. Grounded on
// original_source/mcp/src/extraction/orchestrator.rs's ExtractionOrchestrator.
type Orchestrator struct {
	schema   map[string]any
	config   Config
	compiled *jsonschema.Schema
}

// NewOrchestrator compiles schema and returns an Orchestrator with
// DefaultConfig(). Returns a SchemaError if schema fails to compile, the
// same early-validation behavior as the source this was distilled from.
func NewOrchestrator(schema map[string]any) (*Orchestrator, error) {
	return NewOrchestratorWithConfig(schema, DefaultConfig())
}

// NewOrchestratorWithConfig is NewOrchestrator with an explicit Config.
func NewOrchestratorWithConfig(schema map[string]any, config Config) (*Orchestrator, error) {
	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, &SchemaError{Detail: err.Error()}
	}
	return &Orchestrator{schema: schema, config: config, compiled: compiled}, nil
}

// MaxAttempts overrides o.config.MaxAttempts, fluent-builder style.
func (o *Orchestrator) MaxAttempts(max int) *Orchestrator {
	o.config.MaxAttempts = max
	return o
}

// Extract runs the bounded retry loop: call agentFn with the current
// prompt, try to parse its output as JSON, validate against the schema,
// and on failure append machine-readable feedback to the prompt and retry,
// up to config.MaxAttempts times. Returns the validated value and metrics
// on success, or a MaxRetriesExceededError / AgentError on failure (§4.7);
// a parse failure on the last attempt ends in MaxRetriesExceededError.
func (o *Orchestrator) Extract(ctx context.Context, agentFn AgentFunc, initialPrompt string) (any, Metrics, error) {
	start := time.Now()
	var history []AttemptRecord
	var totalInputChars, totalOutputChars int
	currentPrompt := initialPrompt

	for attempt := 1; attempt <= o.config.MaxAttempts; attempt++ {
		totalInputChars += utf8.RuneCountInString(currentPrompt)

		agentOutput, err := agentFn(ctx, currentPrompt)
		if err != nil {
			promMetrics.ExtractionsTotal.WithLabelValues("agent_error").Inc()
			return nil, Metrics{}, &AgentError{Detail: err.Error()}
		}
		totalOutputChars += utf8.RuneCountInString(agentOutput)

		var parsed any
		if jsonErr := json.Unmarshal([]byte(agentOutput), &parsed); jsonErr != nil {
			history = append(history, AttemptRecord{
				AttemptNumber:    attempt,
				SubmittedJSON:    nil,
				ValidationErrors: []string{fmt.Sprintf("JSON parse error: %s", jsonErr)},
				RawAgentOutput:   agentOutput,
				Elapsed:          time.Since(start),
			})
			promMetrics.ExtractionAttemptsTotal.WithLabelValues("parse_error").Inc()

			if attempt < o.config.MaxAttempts {
				feedback := BuildParseErrorFeedback(agentOutput, jsonErr.Error(), attempt, o.config.MaxAttempts, o.schemaForFeedback())
				currentPrompt = currentPrompt + "\n\n" + feedback
				continue
			}
			break
		}

		errs := validationErrorStrings(o.compiled, parsed)
		if len(errs) == 0 {
			promMetrics.ExtractionAttemptsTotal.WithLabelValues("success").Inc()
			promMetrics.ExtractionsTotal.WithLabelValues("success").Inc()
			promMetrics.ExtractionAttemptsPerRun.Observe(float64(attempt))
			promMetrics.EstimatedTokensTotal.WithLabelValues("input").Add(float64(EstimateTokens(currentPrompt)))
			promMetrics.EstimatedTokensTotal.WithLabelValues("output").Add(float64(EstimateTokens(agentOutput)))
			return parsed, Metrics{
				TotalAttempts:         attempt,
				WallTime:              time.Since(start),
				EstimatedInputTokens:  EstimateTokens(currentPrompt),
				EstimatedOutputTokens: EstimateTokens(agentOutput),
			}, nil
		}

		history = append(history, AttemptRecord{
			AttemptNumber:    attempt,
			SubmittedJSON:    parsed,
			ValidationErrors: errs,
			RawAgentOutput:   agentOutput,
			Elapsed:          time.Since(start),
		})
		promMetrics.ExtractionAttemptsTotal.WithLabelValues("validation_error").Inc()

		if attempt < o.config.MaxAttempts {
			feedback := BuildValidationFeedback(o.schemaForFeedback(), parsed, errs, attempt, o.config.MaxAttempts)
			currentPrompt = currentPrompt + "\n\n" + feedback
		}
	}

	// Max attempts exhausted. The failure-path token estimate deliberately
	// differs from the success path: floor division over the full
	// accumulated input/output character counts across every attempt,
	// rather than ceil division over just the final iteration (§4.7) -- an
	// asymmetry carried forward from the source this was distilled from,
	// not smoothed into consistency with EstimateTokens.
	metrics := Metrics{
		TotalAttempts:         o.config.MaxAttempts,
		WallTime:              time.Since(start),
		EstimatedInputTokens:  totalInputChars / 4,
		EstimatedOutputTokens: totalOutputChars / 4,
	}
	promMetrics.ExtractionsTotal.WithLabelValues("max_retries_exceeded").Inc()
	promMetrics.ExtractionAttemptsPerRun.Observe(float64(o.config.MaxAttempts))
	promMetrics.EstimatedTokensTotal.WithLabelValues("input").Add(float64(metrics.EstimatedInputTokens))
	promMetrics.EstimatedTokensTotal.WithLabelValues("output").Add(float64(metrics.EstimatedOutputTokens))

	return nil, metrics, &MaxRetriesExceededError{
		Attempts:    o.config.MaxAttempts,
		MaxAttempts: o.config.MaxAttempts,
		History:     history,
		RawOutput:   currentPrompt,
		Metrics:     metrics,
	}
}

// schemaForFeedback returns o.schema, or an empty map (rendered as "{}") if
// the config asks for feedback without the schema echoed back (§4.6's
// configurable verbosity).
func (o *Orchestrator) schemaForFeedback() map[string]any {
	if !o.config.IncludeSchemaInFeedback {
		return map[string]any{}
	}
	return o.schema
}

// ExtractTyped calls Extract and then deserializes the validated value into
// T, returning a ParseError if that deserialization fails (schema-valid
// JSON does not guarantee it matches T's Go field set exactly).
func ExtractTyped[T any](ctx context.Context, o *Orchestrator, agentFn AgentFunc, initialPrompt string) (T, Metrics, error) {
	var zero T
	value, metrics, err := o.Extract(ctx, agentFn, initialPrompt)
	if err != nil {
		return zero, metrics, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return zero, metrics, &ParseError{
			Message: fmt.Sprintf("deserialization to target type failed: %s", err),
			RawText: fmt.Sprintf("%v", value),
			Attempt: metrics.TotalAttempts,
		}
	}

	var typed T
	if err := json.Unmarshal(data, &typed); err != nil {
		return zero, metrics, &ParseError{
			Message: fmt.Sprintf("deserialization to target type failed: %s", err),
			RawText: string(data),
			Attempt: metrics.TotalAttempts,
		}
	}

	return typed, metrics, nil
}
