// Package literal extracts a pure-literal alternation from a pattern's AST
// and builds a multi-pattern Aho-Corasick automaton over its branches.
//
// Because matching is always anchored at both ends, an occurrence of a
// literal somewhere inside the input does not by itself prove a full match
// (the occurrence might not span the whole string). But the converse does
// hold: if NONE of the alternation's literal branches occurs anywhere in the
// input, the input cannot equal any of them, so it cannot be a full match
// either. That makes the automaton a sound reject-only prefilter: it can
// short-circuit a certain non-match, but a hit still has to be confirmed by
// the DFA.
package literal

import (
	"github.com/coregx/ahocorasick"

	"github.com/bytefsm/bytefsm/ast"
)

// Prefilter wraps an Aho-Corasick automaton built from a pattern's literal
// branches.
type Prefilter struct {
	automaton *ahocorasick.Automaton
}

// Build inspects root and, if it is a pure alternation of byte literals (or
// a single literal run with no alternation at all), returns a Prefilter for
// it. The second return value is false if root contains any construct other
// than Literal, Escaped, Concatenation, or Group wrapping those — classes,
// ranges, quantifiers, and nested alternations all disqualify a branch,
// since none of those can be reduced to a fixed byte string.
func Build(root ast.Node) (*Prefilter, bool) {
	var literals [][]byte

	switch node := root.(type) {
	case *ast.Alternation:
		for _, child := range node.Children {
			bs, ok := literalBytes(child)
			if !ok {
				return nil, false
			}
			literals = append(literals, bs)
		}
	default:
		bs, ok := literalBytes(root)
		if !ok {
			return nil, false
		}
		literals = append(literals, bs)
	}

	if len(literals) == 0 {
		return nil, false
	}
	for _, lit := range literals {
		if len(lit) == 0 {
			// An empty-string branch matches everything; a prefilter built
			// over it could never reject anything, so it isn't worth
			// building.
			return nil, false
		}
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return &Prefilter{automaton: auto}, true
}

// CanMatch reports whether input could possibly be a full match of the
// pattern the Prefilter was built from. False is a definite rejection; true
// is inconclusive and the caller must still run the DFA.
func (p *Prefilter) CanMatch(input []byte) bool {
	return p.automaton.IsMatch(input)
}

// literalBytes flattens a node into a fixed byte string, or reports false if
// it contains anything that isn't a fixed sequence of bytes.
func literalBytes(n ast.Node) ([]byte, bool) {
	switch node := n.(type) {
	case *ast.Literal:
		return []byte{node.Value}, true

	case *ast.Escaped:
		switch node.Value {
		case 'd', 'w', 's':
			return nil, false
		default:
			return []byte{node.Value}, true
		}

	case *ast.Group:
		return literalBytes(node.Child)

	case *ast.Concatenation:
		var out []byte
		for _, child := range node.Children {
			bs, ok := literalBytes(child)
			if !ok {
				return nil, false
			}
			out = append(out, bs...)
		}
		return out, true

	default:
		return nil, false
	}
}
