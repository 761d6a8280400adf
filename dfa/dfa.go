// Package dfa implements subset construction from an NFA (package nfa) to a
// deterministic finite automaton, and the linear-time matcher over the
// result.
//
// Unlike a lazy, search-time DFA that discovers states on demand and evicts
// them under cache pressure, this package builds the complete DFA eagerly at
// compile time: every reachable state is materialized once, up front, and
// the matcher never has to fall back to the NFA.
package dfa

import (
	"fmt"

	"github.com/bytefsm/bytefsm/asciiopt"
)

// StateID indexes into a DFA's state table.
type StateID uint32

// StartState is always the first state built (the start closure).
const StartState StateID = 0

// noASCIITransition marks the absence of a transition in asciiTable.
const noASCIITransition StateID = 0xFFFFFFFF

// State is one DFA state: a transition table from input byte to next state,
// plus whether it accepts.
type State struct {
	id          StateID
	transitions map[byte]StateID
	isMatch     bool
}

// ID returns the state's identifier.
func (s *State) ID() StateID { return s.id }

// IsMatch reports whether this state accepts (is reachable by a string that
// fully matches the compiled pattern).
func (s *State) IsMatch() bool { return s.isMatch }

// Transition returns the next state on input byte b, or (0, false) if no
// transition exists (the byte can never appear here in a matching string).
func (s *State) Transition(b byte) (StateID, bool) {
	next, ok := s.transitions[b]
	return next, ok
}

// TransitionCount reports how many distinct bytes have an outgoing
// transition from this state.
func (s *State) TransitionCount() int { return len(s.transitions) }

func (s *State) String() string {
	return fmt.Sprintf("DFAState(id=%d, isMatch=%v, transitions=%d)", s.id, s.isMatch, len(s.transitions))
}

// DFA is an immutable, fully determinized automaton built by Build.
type DFA struct {
	states []*State
	start  StateID

	// asciiOnly is true if every transition in the DFA is on a byte < 0x80.
	// When true, asciiTable gives a dense array lookup for inputs that are
	// themselves all-ASCII, avoiding the map lookup in the general matcher.
	asciiOnly  bool
	asciiTable [][128]StateID
}

// Start returns the DFA's start state.
func (d *DFA) Start() StateID { return d.start }

// State returns the state at id.
func (d *DFA) State(id StateID) *State { return d.states[id] }

// Len returns the number of states in the DFA.
func (d *DFA) Len() int { return len(d.states) }

// Match reports whether input, taken as a whole, is accepted: matching is
// always anchored at both ends, so partial or substring matches never
// succeed.
func (d *DFA) Match(input []byte) bool {
	if d.asciiOnly && asciiopt.IsASCII(input) {
		return d.matchASCII(input)
	}
	return d.matchGeneric(input)
}

func (d *DFA) matchGeneric(input []byte) bool {
	cur := d.states[d.start]
	for _, b := range input {
		next, ok := cur.Transition(b)
		if !ok {
			return false
		}
		cur = d.states[next]
	}
	return cur.isMatch
}

// matchASCII walks the dense per-state transition table instead of the
// map-based one, which is worthwhile only because the caller has already
// confirmed both the DFA and the input never leave the ASCII range.
func (d *DFA) matchASCII(input []byte) bool {
	cur := d.start
	for _, b := range input {
		next := d.asciiTable[cur][b]
		if next == noASCIITransition {
			return false
		}
		cur = next
	}
	return d.states[cur].isMatch
}

// BuildError reports a problem encountered while determinizing an NFA.
type BuildError struct {
	Message string
}

func (e *BuildError) Error() string { return "dfa: " + e.Message }
