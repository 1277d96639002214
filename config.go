package automata

import "log/slog"

// Config controls compilation limits, prefiltering and logging.
//
// Example:
//
//	config := automata.DefaultConfig()
//	config.CaseInsensitive = true
//	re, err := automata.CompileWithConfig("hello", config)
type Config struct {
	// EnablePrefilter enables literal-based input rejection.
	// When false, every search runs the VM.
	// Default: true
	EnablePrefilter bool

	// MinLiteralLen is the shortest required literal worth searching for.
	// Default: 1
	MinLiteralLen int

	// MaxLiterals limits the number of literals in the required set.
	// Default: 64
	MaxLiterals int

	// MaxProgramLen caps the number of compiled instructions.
	// Default: 100000
	MaxProgramLen int

	// MaxRecursionDepth limits the nesting depth of the pattern.
	// Default: 1000
	MaxRecursionDepth int

	// CaseInsensitive matches letters regardless of case, like (?i).
	// Default: false
	CaseInsensitive bool

	// Logger receives a Debug record per compiled pattern. Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter:   true,
		MinLiteralLen:     1,
		MaxLiterals:       64,
		MaxProgramLen:     100_000,
		MaxRecursionDepth: 1_000,
	}
}

// Validate checks that every limit lies in its accepted range.
//
// Returns a *ConfigError naming the first offending field.
func (c Config) Validate() error {
	if c.EnablePrefilter {
		if c.MinLiteralLen < 1 || c.MinLiteralLen > 64 {
			return &ConfigError{
				Field:   "MinLiteralLen",
				Message: "must be between 1 and 64",
			}
		}
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	if c.MaxProgramLen < 16 || c.MaxProgramLen > 1_000_000 {
		return &ConfigError{
			Field:   "MaxProgramLen",
			Message: "must be between 16 and 1,000,000",
		}
	}

	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 10_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 10,000",
		}
	}

	return nil
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// ConfigError represents an invalid configuration.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexp: invalid config: " + e.Field + ": " + e.Message
}
