package nfa

import "github.com/bytefsm/bytefsm/internal/conv"

// Builder constructs an NFA's state arena incrementally. It is the
// low-level counterpart to Compile: Compile walks an ast.Node and drives
// Builder to emit fragments; Builder itself knows nothing about the AST.
type Builder struct {
	states []State
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{states: make([]State, 0, 16)}
}

// AddByteRange appends a state that consumes one byte in [lo, hi] and
// transitions to next (InvalidState if not yet known; patch later).
func (b *Builder) AddByteRange(lo, hi byte, next StateID) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{Kind: KindByteRange, Lo: lo, Hi: hi, Next: next})
	return id
}

// AddSplit appends an epsilon-split state with two targets.
func (b *Builder) AddSplit(left, right StateID) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{Kind: KindSplit, Left: left, Right: right})
	return id
}

// AddEpsilon appends a single epsilon-transition state.
func (b *Builder) AddEpsilon(next StateID) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{Kind: KindEpsilon, Next: next})
	return id
}

// AddMatch appends the accepting state.
func (b *Builder) AddMatch() StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{Kind: KindMatch})
	return id
}

// Patch rewrites the Next target of a ByteRange or Epsilon state. Used to
// close forward references created while building fragments, including the
// loops of * and +.
func (b *Builder) Patch(id, target StateID) error {
	if int(id) >= len(b.states) {
		return &BuildError{Message: "patch target out of bounds"}
	}
	s := &b.states[id]
	switch s.Kind {
	case KindByteRange, KindEpsilon:
		s.Next = target
		return nil
	default:
		return &BuildError{Message: "cannot patch a state of this kind"}
	}
}

// PatchSplit rewrites both targets of a Split state.
func (b *Builder) PatchSplit(id StateID, left, right StateID) error {
	if int(id) >= len(b.states) {
		return &BuildError{Message: "patch target out of bounds"}
	}
	s := &b.states[id]
	if s.Kind != KindSplit {
		return &BuildError{Message: "expected a Split state"}
	}
	s.Left, s.Right = left, right
	return nil
}

// Len returns the current number of states in the arena.
func (b *Builder) Len() int { return len(b.states) }

// Build finalizes the arena into an immutable NFA rooted at start.
func (b *Builder) Build(start StateID) (*NFA, error) {
	if int(start) >= len(b.states) {
		return nil, &BuildError{Message: "start state out of bounds"}
	}
	return &NFA{states: b.states, start: start}, nil
}
