package extraction

import (
	"time"
	"unicode/utf8"
)

// Metrics is what one extraction run reports on success or failure.
type Metrics struct {
	TotalAttempts         int
	WallTime              time.Duration
	EstimatedInputTokens  int
	EstimatedOutputTokens int
}

// EstimateTokens estimates a token count from text using the standard
// 4-chars-per-token heuristic, counting Unicode code points (not bytes) and
// rounding up. Used on the success path, applied only to the final
// iteration's prompt and output (§4.7's success-path formula -- the
// aggregate failure-path formula in Orchestrator.Extract uses floor
// division over total accumulated characters instead; this asymmetry is
// carried forward from the source this was distilled from, not smoothed
// over).
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}
