package bytefsm

import "github.com/bytefsm/bytefsm/dfa"

// Config controls compilation limits and which optional fast paths are
// enabled. The zero value is not meaningful; start from DefaultConfig.
type Config struct {
	// MaxRecursionDepth bounds how deeply nested a pattern's grouping and
	// quantifiers may be, both while parsing and while translating the AST
	// into an NFA.
	// Default: 1000
	MaxRecursionDepth int

	// MaxDFAStates caps the number of states eager subset construction may
	// create before compilation fails. Patterns with many nested bounded
	// quantifiers can otherwise blow the reachable-state count up
	// combinatorially.
	// Default: 65536
	MaxDFAStates int

	// EnableLiteralPrefilter turns on the Aho-Corasick-backed reject-only
	// prefilter for patterns that are a pure alternation of byte literals.
	// Default: true
	EnableLiteralPrefilter bool
}

// DefaultConfig returns the configuration used by Compile.
func DefaultConfig() Config {
	return Config{
		MaxRecursionDepth:      1000,
		MaxDFAStates:           dfa.DefaultMaxStates,
		EnableLiteralPrefilter: true,
	}
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "bytefsm: invalid config: " + e.Field + ": " + e.Message
}

func (c Config) validate() error {
	if c.MaxRecursionDepth <= 0 {
		return &ConfigError{Field: "MaxRecursionDepth", Message: "must be positive"}
	}
	if c.MaxDFAStates <= 0 {
		return &ConfigError{Field: "MaxDFAStates", Message: "must be positive"}
	}
	return nil
}
