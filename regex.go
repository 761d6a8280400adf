// Package bytefsm compiles byte-level regular expressions into a
// deterministic finite automaton and matches whole strings against them.
//
// A pattern is matched only as a complete string: Match reports whether the
// entire input, from its first byte to its last, is accepted, never whether
// a match occurs somewhere inside it. There is no capture support beyond
// plain grouping, no case-insensitivity, and no Unicode-aware matching —
// everything operates on raw bytes.
//
// Basic usage:
//
//	re, err := bytefsm.Compile(`[a-z]+[0-9]*`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.Match([]byte("abc123")) {
//	    fmt.Println("matched")
//	}
package bytefsm

import (
	"github.com/bytefsm/bytefsm/ast"
	"github.com/bytefsm/bytefsm/dfa"
	"github.com/bytefsm/bytefsm/literal"
	"github.com/bytefsm/bytefsm/nfa"
	"github.com/bytefsm/bytefsm/token"
)

// Regex is a compiled pattern, safe for concurrent use by multiple
// goroutines: matching only ever reads the automaton.
type Regex struct {
	automaton *dfa.DFA
	prefilter *literal.Prefilter
	pattern   string
}

// Compile compiles pattern using DefaultConfig.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles pattern and panics if it fails. Intended for
// patterns that are known-valid at init time.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("bytefsm: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles pattern through the tokenizer, parser,
// Thompson construction, and subset construction in turn, stopping at the
// first stage that rejects it.
func CompileWithConfig(pattern string, cfg Config) (*Regex, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	root, err := ast.ParseWithLimit(pattern, cfg.MaxRecursionDepth)
	if err != nil {
		stage := "ast"
		if _, ok := err.(*token.LexError); ok {
			stage = "token"
		}
		return nil, &CompileError{Pattern: pattern, Stage: stage, Err: err}
	}

	n, err := nfa.CompileWithLimit(root, cfg.MaxRecursionDepth)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Stage: "nfa", Err: err}
	}

	d, err := dfa.Build(n, cfg.MaxDFAStates)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Stage: "dfa", Err: err}
	}

	re := &Regex{automaton: d, pattern: pattern}
	if cfg.EnableLiteralPrefilter {
		if pf, ok := literal.Build(root); ok {
			re.prefilter = pf
		}
	}
	return re, nil
}

// Match reports whether input, as a whole, matches the compiled pattern.
func (r *Regex) Match(input []byte) bool {
	if r.prefilter != nil && !r.prefilter.CanMatch(input) {
		return false
	}
	return r.automaton.Match(input)
}

// MatchString is Match for a string argument.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// String returns the source pattern the Regex was compiled from.
func (r *Regex) String() string {
	return r.pattern
}
