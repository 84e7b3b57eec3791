// Package extraction runs bounded retry/validation-feedback loops that
// coerce free-text agent output into schema-validated structured data
// (§4.6, §4.7).
package extraction

// Config controls retry behavior for one extraction run.
type Config struct {
	// MaxAttempts is the number of attempts before giving up.
	MaxAttempts int
	// IncludeSchemaInFeedback controls whether the full schema is echoed
	// back in validation and parse-error feedback.
	IncludeSchemaInFeedback bool
}

// DefaultConfig returns {MaxAttempts: 3, IncludeSchemaInFeedback: true}.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:             3,
		IncludeSchemaInFeedback: true,
	}
}

// WithMaxAttempts returns a copy of cfg with MaxAttempts set.
func (cfg Config) WithMaxAttempts(max int) Config {
	cfg.MaxAttempts = max
	return cfg
}

// WithSchemaInFeedback returns a copy of cfg with IncludeSchemaInFeedback set.
func (cfg Config) WithSchemaInFeedback(include bool) Config {
	cfg.IncludeSchemaInFeedback = include
	return cfg
}
