package nfa

import "github.com/bytefsm/bytefsm/ast"

// fragment is an NFA fragment with a real entry state and a dangling exit:
// exit is always an Epsilon state whose Next is still InvalidState, ready
// for the caller to Patch once the next fragment in sequence is known.
//
// This is the arena analogue of the classic McNaughton-Yamada-Thompson
// "patch list" technique: instead of mutable pointer fields on heap nodes,
// the unresolved edge is a specific (already-allocated) epsilon state's
// Next field.
type fragment struct {
	entry StateID
	exit  StateID
}

// digitRanges, wordRanges, and spaceRanges implement the \d, \w, \s escape
// shorthands from spec.md: \d is a single byte range, \w and \s are unions
// of several.
var digitRanges = [][2]byte{{'0', '9'}}
var wordRanges = [][2]byte{{'a', 'z'}, {'A', 'Z'}, {'0', '9'}, {'_', '_'}}
var spaceRanges = [][2]byte{{' ', ' '}, {'\t', '\t'}, {'\n', '\n'}, {'\r', '\r'}, {'\f', '\f'}, {'\v', '\v'}}

// MaxRecursionDepth bounds Thompson-construction recursion on AST depth so
// a deeply nested pattern fails cleanly instead of overflowing the stack.
const MaxRecursionDepth = 1000

type compiler struct {
	b        *Builder
	depth    int
	maxDepth int
}

// Compile translates an AST into a Thompson NFA with a single accepting
// state reachable from the root fragment's exit.
func Compile(root ast.Node) (*NFA, error) {
	return CompileWithLimit(root, MaxRecursionDepth)
}

// CompileWithLimit compiles root like Compile, but fails once recursion
// exceeds maxDepth instead of the package default.
func CompileWithLimit(root ast.Node, maxDepth int) (*NFA, error) {
	c := &compiler{b: NewBuilder(), maxDepth: maxDepth}
	frag, err := c.compile(root)
	if err != nil {
		return nil, err
	}
	match := c.b.AddMatch()
	if err := c.b.Patch(frag.exit, match); err != nil {
		return nil, err
	}
	return c.b.Build(frag.entry)
}

func (c *compiler) compile(n ast.Node) (fragment, error) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.maxDepth {
		return fragment{}, &BuildError{Message: "pattern nested too deeply for NFA construction"}
	}

	switch node := n.(type) {
	case *ast.Literal:
		return c.compileByteRange(node.Value, node.Value), nil

	case *ast.Escaped:
		switch node.Value {
		case 'd':
			return c.compileByteSet(digitRanges), nil
		case 'w':
			return c.compileByteSet(wordRanges), nil
		case 's':
			return c.compileByteSet(spaceRanges), nil
		default:
			return c.compileByteRange(node.Value, node.Value), nil
		}

	case *ast.Range:
		if node.Start == ast.WildcardByte && node.End == ast.WildcardByte {
			return c.compileByteRange(0, 255), nil
		}
		return c.compileByteRange(byte(node.Start), byte(node.End)), nil

	case *ast.Class:
		ranges := make([][2]byte, len(node.Ranges))
		for i, r := range node.Ranges {
			lo, hi := r.Start, r.End
			if lo == ast.WildcardByte && hi == ast.WildcardByte {
				ranges[i] = [2]byte{0, 255}
				continue
			}
			ranges[i] = [2]byte{byte(lo), byte(hi)}
		}
		return c.compileByteSet(ranges), nil

	case *ast.Concatenation:
		return c.compileConcatenation(node.Children)

	case *ast.Alternation:
		return c.compileAlternation(node.Children)

	case *ast.Group:
		return c.compile(node.Child)

	case *ast.ZeroOrMore:
		return c.compileZeroOrMore(node.Child)

	case *ast.OneOrMore:
		return c.compileOneOrMore(node.Child)

	case *ast.ZeroOrOne:
		return c.compileZeroOrOne(node.Child)

	case *ast.SpecificQuantifier:
		return c.compileSpecificQuantifier(node.Child, node.Min, node.Max)

	default:
		return fragment{}, &BuildError{Message: "unknown AST node type"}
	}
}

// compileByteRange builds entry --[lo,hi]--> exit.
func (c *compiler) compileByteRange(lo, hi byte) fragment {
	exit := c.b.AddEpsilon(InvalidState)
	entry := c.b.AddByteRange(lo, hi, exit)
	return fragment{entry: entry, exit: exit}
}

// compileByteSet builds the union of several byte ranges: for a single
// range this is just compileByteRange; for several, each range fragment's
// entry hangs off a chain of Split states and each exit is patched to a
// shared final exit (spec.md §4.3 "Class").
func (c *compiler) compileByteSet(ranges [][2]byte) fragment {
	if len(ranges) == 1 {
		return c.compileByteRange(ranges[0][0], ranges[0][1])
	}

	exit := c.b.AddEpsilon(InvalidState)
	entries := make([]StateID, len(ranges))
	for i, r := range ranges {
		sub := c.compileByteRange(r[0], r[1])
		_ = c.b.Patch(sub.exit, exit)
		entries[i] = sub.entry
	}
	return fragment{entry: chainSplits(c.b, entries), exit: exit}
}

// chainSplits builds a right-leaning tree of Split states over entries,
// giving epsilon access to every entry from a single root state.
func chainSplits(b *Builder, entries []StateID) StateID {
	if len(entries) == 1 {
		return entries[0]
	}
	rest := chainSplits(b, entries[1:])
	return b.AddSplit(entries[0], rest)
}

func (c *compiler) compileConcatenation(children []ast.Node) (fragment, error) {
	first, err := c.compile(children[0])
	if err != nil {
		return fragment{}, err
	}
	entry, prevExit := first.entry, first.exit

	for _, child := range children[1:] {
		next, err := c.compile(child)
		if err != nil {
			return fragment{}, err
		}
		if err := c.b.Patch(prevExit, next.entry); err != nil {
			return fragment{}, err
		}
		prevExit = next.exit
	}

	return fragment{entry: entry, exit: prevExit}, nil
}

func (c *compiler) compileAlternation(children []ast.Node) (fragment, error) {
	exit := c.b.AddEpsilon(InvalidState)
	entries := make([]StateID, len(children))
	for i, child := range children {
		sub, err := c.compile(child)
		if err != nil {
			return fragment{}, err
		}
		if err := c.b.Patch(sub.exit, exit); err != nil {
			return fragment{}, err
		}
		entries[i] = sub.entry
	}
	return fragment{entry: chainSplits(c.b, entries), exit: exit}, nil
}

// compileZeroOrMore implements spec.md's construction for '*':
// ε(entry→loop) [merged: entry IS the loop state], ε(loop→exit),
// child built with entry=loop producing end, ε(end→loop).
func (c *compiler) compileZeroOrMore(child ast.Node) (fragment, error) {
	sub, err := c.compile(child)
	if err != nil {
		return fragment{}, err
	}
	exit := c.b.AddEpsilon(InvalidState)
	entry := c.b.AddSplit(sub.entry, exit)
	if err := c.b.Patch(sub.exit, entry); err != nil {
		return fragment{}, err
	}
	return fragment{entry: entry, exit: exit}, nil
}

// compileOneOrMore implements spec.md's construction for '+': entry feeds
// directly into the child (at least one repetition is mandatory), and the
// child's end either loops back or exits.
func (c *compiler) compileOneOrMore(child ast.Node) (fragment, error) {
	sub, err := c.compile(child)
	if err != nil {
		return fragment{}, err
	}
	exit := c.b.AddEpsilon(InvalidState)
	loopOrExit := c.b.AddSplit(sub.entry, exit)
	if err := c.b.Patch(sub.exit, loopOrExit); err != nil {
		return fragment{}, err
	}
	return fragment{entry: sub.entry, exit: exit}, nil
}

// compileZeroOrOne implements spec.md's construction for '?': ε(entry→exit)
// alongside ε(entry→child), and the child's end always exits (no loop).
func (c *compiler) compileZeroOrOne(child ast.Node) (fragment, error) {
	sub, err := c.compile(child)
	if err != nil {
		return fragment{}, err
	}
	exit := c.b.AddEpsilon(InvalidState)
	entry := c.b.AddSplit(sub.entry, exit)
	if err := c.b.Patch(sub.exit, exit); err != nil {
		return fragment{}, err
	}
	return fragment{entry: entry, exit: exit}, nil
}

// compileSpecificQuantifier implements spec.md's construction for
// '{min,max}': min mandatory copies in series, followed by either a single
// optional copy plus an ε skip (max unbounded — the reference
// implementation's documented non-looping behavior, reproduced here
// verbatim per DESIGN.md's Open Question decision) or max-min optional
// copies each with its own ε skip to the exit (max finite).
func (c *compiler) compileSpecificQuantifier(child ast.Node, min, max int) (fragment, error) {
	// entry is the fragment's first real state; current is the exit of
	// whatever has been built so far, to be patched as we go.
	var entry StateID
	haveEntry := false
	current := InvalidState

	chainOne := func() (StateID, StateID, error) {
		sub, err := c.compile(child)
		if err != nil {
			return 0, 0, err
		}
		return sub.entry, sub.exit, nil
	}

	for i := 0; i < min; i++ {
		childEntry, childExit, err := chainOne()
		if err != nil {
			return fragment{}, err
		}
		if !haveEntry {
			entry = childEntry
			haveEntry = true
		} else {
			if err := c.b.Patch(current, childEntry); err != nil {
				return fragment{}, err
			}
		}
		current = childExit
	}

	if !haveEntry {
		// min == 0: the fragment needs a zero-width lead-in so there is
		// always a real entry state, even if the optional part below
		// never runs (e.g. "{0,0}").
		entry = c.b.AddEpsilon(InvalidState)
		current = entry
	}

	exit := c.b.AddEpsilon(InvalidState)

	if max < 0 {
		// Unbounded: exactly one optional extra copy plus an ε skip.
		// Deliberately NOT a loop — see DESIGN.md Open Question decision.
		childEntry, childExit, err := chainOne()
		if err != nil {
			return fragment{}, err
		}
		split := c.b.AddSplit(childEntry, exit)
		if err := c.b.Patch(current, split); err != nil {
			return fragment{}, err
		}
		if err := c.b.Patch(childExit, exit); err != nil {
			return fragment{}, err
		}
		return fragment{entry: entry, exit: exit}, nil
	}

	for i := 0; i < max-min; i++ {
		childEntry, childExit, err := chainOne()
		if err != nil {
			return fragment{}, err
		}
		split := c.b.AddSplit(childEntry, exit)
		if err := c.b.Patch(current, split); err != nil {
			return fragment{}, err
		}
		current = childExit
	}
	if err := c.b.Patch(current, exit); err != nil {
		return fragment{}, err
	}

	return fragment{entry: entry, exit: exit}, nil
}
