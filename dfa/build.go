package dfa

import (
	"encoding/binary"
	"sort"

	"github.com/bytefsm/bytefsm/internal/conv"
	"github.com/bytefsm/bytefsm/internal/sparse"
	"github.com/bytefsm/bytefsm/nfa"
)

// DefaultMaxStates bounds eager subset construction: a handful of nested
// bounded quantifiers can blow up the reachable-state count combinatorially,
// and an eager builder has no lazy eviction to fall back on, so Build must
// refuse to keep going past a limit instead of exhausting memory.
const DefaultMaxStates = 1 << 16

// Build determinizes n into a DFA via subset construction: each DFA state is
// the epsilon-closure of a set of NFA states, and transitions are computed
// by taking the move-set for each byte and closing it again.
//
// maxStates caps the number of DFA states that may be created; pass <= 0 to
// use DefaultMaxStates.
func Build(n *nfa.NFA, maxStates int) (*DFA, error) {
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}

	b := &builder{
		nfa:     n,
		byKey:   make(map[stateKey]StateID),
		closure: sparse.NewSparseSet(uint32(n.Len())),
	}

	startID, err := b.stateFor([]nfa.StateID{n.Start()}, maxStates)
	if err != nil {
		return nil, err
	}

	// BFS over the worklist of states whose transitions haven't been
	// computed yet; b.states grows while this loop runs.
	for i := 0; i < len(b.states); i++ {
		if err := b.expand(StateID(i), maxStates); err != nil {
			return nil, err
		}
	}

	d := &DFA{states: b.states, start: startID}
	buildASCIITable(d)
	return d, nil
}

// buildASCIITable checks whether every transition in d stays within the
// ASCII range and, if so, materializes the dense lookup table Match uses
// for all-ASCII inputs.
func buildASCIITable(d *DFA) {
	asciiOnly := true
outer:
	for _, s := range d.states {
		for b := range s.transitions {
			if b >= 128 {
				asciiOnly = false
				break outer
			}
		}
	}
	if !asciiOnly {
		return
	}

	table := make([][128]StateID, len(d.states))
	for i, s := range d.states {
		for b := 0; b < 128; b++ {
			table[i][b] = noASCIITransition
		}
		for b, next := range s.transitions {
			table[i][b] = next
		}
	}

	d.asciiOnly = true
	d.asciiTable = table
}

// stateKey canonically identifies a DFA state by the exact (not hashed) set
// of NFA states in its epsilon-closure: the values are sorted for order
// independence and packed into a string so it can key a Go map. An eager,
// unbounded builder keeps every state forever, so a hash collision here
// would silently merge two distinct states; the exact key avoids that at
// the cost of a few more bytes per lookup.
type stateKey string

func canonicalKey(set *sparse.SparseSet) stateKey {
	vals := append([]uint32(nil), set.Values()...)
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })

	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return stateKey(buf)
}

type builder struct {
	nfa    *nfa.NFA
	states []*State
	byKey  map[stateKey]StateID

	// nfaSets[i] holds the epsilon-closure backing states[i], kept around
	// so expand can recompute move-sets without rebuilding the closure.
	nfaSets [][]uint32

	closure *sparse.SparseSet // scratch, reused across calls
}

// stateFor returns the DFA state for the epsilon-closure of seeds, creating
// it if it has not been seen before.
func (b *builder) stateFor(seeds []nfa.StateID, maxStates int) (StateID, error) {
	epsilonClosure(b.nfa, seeds, b.closure)
	key := canonicalKey(b.closure)

	if id, ok := b.byKey[key]; ok {
		return id, nil
	}

	if len(b.states) >= maxStates {
		return 0, &BuildError{Message: "exceeded maximum DFA state count"}
	}

	isMatch := false
	vals := append([]uint32(nil), b.closure.Values()...)
	for _, v := range vals {
		if b.nfa.State(nfa.StateID(v)).Kind == nfa.KindMatch {
			isMatch = true
			break
		}
	}

	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, &State{id: id, transitions: make(map[byte]StateID, 8), isMatch: isMatch})
	b.nfaSets = append(b.nfaSets, vals)
	b.byKey[key] = id
	return id, nil
}

// expand computes every outgoing transition for the state at id by trying
// each of the 256 possible input bytes against its NFA-state-set.
func (b *builder) expand(id StateID, maxStates int) error {
	nfaSet := b.nfaSets[id]

	var seeds []nfa.StateID
	for bVal := 0; bVal < 256; bVal++ {
		target := byte(bVal)
		seeds = seeds[:0]
		for _, v := range nfaSet {
			st := b.nfa.State(nfa.StateID(v))
			if st.Kind == nfa.KindByteRange && target >= st.Lo && target <= st.Hi {
				seeds = append(seeds, st.Next)
			}
		}
		if len(seeds) == 0 {
			continue
		}

		nextID, err := b.stateFor(seeds, maxStates)
		if err != nil {
			return err
		}
		b.states[id].transitions[target] = nextID
	}

	return nil
}

// epsilonClosure computes the set of NFA states reachable from seeds via
// epsilon and split transitions (inclusive of the seeds themselves and of
// any byte-range/match states encountered, which terminate expansion along
// that branch).
func epsilonClosure(n *nfa.NFA, seeds []nfa.StateID, out *sparse.SparseSet) {
	out.Clear()
	stack := make([]nfa.StateID, 0, len(seeds))
	for _, s := range seeds {
		if out.Insert(uint32(s)) {
			stack = append(stack, s)
		}
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		st := n.State(id)
		switch st.Kind {
		case nfa.KindEpsilon:
			if out.Insert(uint32(st.Next)) {
				stack = append(stack, st.Next)
			}
		case nfa.KindSplit:
			if out.Insert(uint32(st.Left)) {
				stack = append(stack, st.Left)
			}
			if out.Insert(uint32(st.Right)) {
				stack = append(stack, st.Right)
			}
		case nfa.KindByteRange, nfa.KindMatch:
			// Frontier: no outgoing epsilon edges to follow.
		}
	}
}
