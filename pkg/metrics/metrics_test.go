package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsRegistered(t *testing.T) {
	// Initialise at least one series per metric so they appear in the gather
	// output (counters/histograms without observations are not reported).
	RunsTotal.WithLabelValues("claude-code", "success")
	RunDurationSeconds.WithLabelValues("claude-code", "success").Observe(1.0)
	CapturedBytesTotal.WithLabelValues("claude-code", "stdout").Add(1)
	StreamEventsDroppedTotal.Add(0)
	ExtractionAttemptsTotal.WithLabelValues("success")
	ExtractionsTotal.WithLabelValues("success")
	ExtractionAttemptsPerRun.Observe(1.0)
	EstimatedTokensTotal.WithLabelValues("input").Add(0)

	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	wantNames := map[string]bool{
		"agentharness_runs_total":                  false,
		"agentharness_run_duration_seconds":        false,
		"agentharness_captured_bytes_total":        false,
		"agentharness_stream_events_dropped_total": false,
		"agentharness_extraction_attempts_total":   false,
		"agentharness_extractions_total":           false,
		"agentharness_extraction_attempts_per_run": false,
		"agentharness_estimated_tokens_total":      false,
	}

	for _, mf := range metricFamilies {
		if _, ok := wantNames[mf.GetName()]; ok {
			wantNames[mf.GetName()] = true
		}
	}

	for name, found := range wantNames {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

func TestRunsTotalCountsByAdapterAndOutcome(t *testing.T) {
	before := readCounterVec(t, RunsTotal, "codex", "timeout")

	RunsTotal.WithLabelValues("codex", "timeout").Inc()

	after := readCounterVec(t, RunsTotal, "codex", "timeout")
	if after != before+1 {
		t.Errorf("RunsTotal{codex,timeout} = %f, want %f", after, before+1)
	}
}

func TestExtractionAttemptsPerRunRecordsSampleCount(t *testing.T) {
	ExtractionAttemptsPerRun.Observe(3.0)
	ExtractionAttemptsPerRun.Observe(1.0)

	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	var found bool
	for _, mf := range metricFamilies {
		if mf.GetName() != "agentharness_extraction_attempts_per_run" {
			continue
		}
		found = true
		for _, m := range mf.GetMetric() {
			if m.GetHistogram().GetSampleCount() < 2 {
				t.Errorf("expected at least 2 observations, got %d", m.GetHistogram().GetSampleCount())
			}
		}
	}
	if !found {
		t.Error("agentharness_extraction_attempts_per_run not found in gathered metrics")
	}
}

func readCounterVec(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	c, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("failed to get counter for labels %v: %v", labels, err)
	}
	var m dto.Metric
	if err := c.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
