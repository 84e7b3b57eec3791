// Package metrics provides Prometheus metrics for the agent runner and
// extraction orchestrator.
//
// These metrics cover subprocess lifecycle (spawn, timeout, exit) and
// extraction-loop behavior (attempts, token estimates) in the
// agentharness_* namespace.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agentharness"

// RunsTotal counts subprocess runs by adapter and outcome.
var RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "runs_total",
	Help:      "Total number of agent CLI invocations.",
}, []string{"adapter", "outcome"})

// RunDurationSeconds tracks the end-to-end duration of one subprocess run.
var RunDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "run_duration_seconds",
	Help:      "Duration of one agent CLI invocation in seconds.",
	Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~8.5m
}, []string{"adapter", "outcome"})

// CapturedBytesTotal tracks how much stdout/stderr a run produced, by
// stream, for sizing the bounded capture buffers (§4.3).
var CapturedBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "captured_bytes_total",
	Help:      "Total bytes captured from a subprocess stream.",
}, []string{"adapter", "stream"})

// StreamEventsDroppedTotal counts events dropped from a full event channel
// under the drop-newest overflow policy (§4.3, §4.9).
var StreamEventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "stream_events_dropped_total",
	Help:      "Total number of stream events dropped due to a full event channel.",
})

// ExtractionAttemptsTotal counts extraction attempts by outcome
// (success, validation_error, parse_error).
var ExtractionAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "extraction_attempts_total",
	Help:      "Total number of extraction attempts by outcome.",
}, []string{"outcome"})

// ExtractionsTotal counts completed extraction runs by final outcome
// (success, max_retries_exceeded, agent_error).
var ExtractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "extractions_total",
	Help:      "Total number of extraction runs by final outcome.",
}, []string{"outcome"})

// ExtractionAttemptsPerRun tracks how many attempts a completed extraction
// run consumed, whichever way it ended.
var ExtractionAttemptsPerRun = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: namespace,
	Name:      "extraction_attempts_per_run",
	Help:      "Number of attempts consumed by a completed extraction run.",
	Buckets:   prometheus.LinearBuckets(1, 1, 10), // 1..10 attempts
})

// EstimatedTokensTotal accumulates estimated input/output tokens across all
// runs, by direction, for rough cost accounting.
var EstimatedTokensTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "estimated_tokens_total",
	Help:      "Cumulative estimated token count, by direction.",
}, []string{"direction"})
