package dfa

import (
	"testing"

	"github.com/bytefsm/bytefsm/ast"
	"github.com/bytefsm/bytefsm/nfa"
)

func buildDFA(t *testing.T, pattern string) *DFA {
	t.Helper()
	root, err := ast.Parse(pattern)
	if err != nil {
		t.Fatalf("ast.Parse(%q) error = %v", pattern, err)
	}
	n, err := nfa.Compile(root)
	if err != nil {
		t.Fatalf("nfa.Compile(%q) error = %v", pattern, err)
	}
	d, err := Build(n, 0)
	if err != nil {
		t.Fatalf("Build(%q) error = %v", pattern, err)
	}
	return d
}

// TestScenarioTable runs the canonical pattern/input table this engine is
// expected to agree on: a byte-level, full-match-only DFA.
func TestScenarioTable(t *testing.T) {
	tests := []struct {
		pattern string
		cases   map[string]bool
	}{
		{"a", map[string]bool{"a": true, "": false, "aa": false, "b": false}},
		{"(ab)*", map[string]bool{"": true, "ab": true, "abab": true, "aba": false, "a": false}},
		{"[a-z]+", map[string]bool{"a": true, "abc": true, "": false, "Abc": false}},
		{"a?b+c*", map[string]bool{"b": true, "ab": true, "abcc": true, "": false, "a": false}},
		{"(a|b)c", map[string]bool{"ac": true, "bc": true, "c": false, "abc": false}},
		{`\d{2,4}`, map[string]bool{"12": true, "1234": true, "1": false, "12345": false}},
	}

	for _, tc := range tests {
		t.Run(tc.pattern, func(t *testing.T) {
			d := buildDFA(t, tc.pattern)
			for input, want := range tc.cases {
				if got := d.Match([]byte(input)); got != want {
					t.Errorf("Match(%q) = %v, want %v", input, got, want)
				}
			}
		})
	}
}

func TestEmptyInput(t *testing.T) {
	d := buildDFA(t, "a*")
	if !d.Match([]byte("")) {
		t.Error("a* should match the empty string")
	}

	d = buildDFA(t, "a")
	if d.Match([]byte("")) {
		t.Error("\"a\" should not match the empty string")
	}
}

func TestWildcardMatchesNewline(t *testing.T) {
	d := buildDFA(t, ".")
	if !d.Match([]byte("\n")) {
		t.Error("'.' should match \\n in a byte-level engine")
	}
}

func TestReversedClassNeverCompilesToAMatch(t *testing.T) {
	d := buildDFA(t, "[z-a]")
	for _, in := range []string{"a", "z", "m", ""} {
		if d.Match([]byte(in)) {
			t.Errorf("Match(%q) = true, want false for an always-empty reversed class", in)
		}
	}
}

func TestDeterminismDedupesEquivalentStates(t *testing.T) {
	// (a|a) should determinize to exactly as many states as "a" alone: the
	// two alternation branches lead to an equivalent NFA-state-set.
	single := buildDFA(t, "a")
	dup := buildDFA(t, "a|a")
	if dup.Len() != single.Len() {
		t.Errorf("Len() = %d for \"a|a\", want %d (same as \"a\")", dup.Len(), single.Len())
	}
}

func TestBuildRespectsMaxStates(t *testing.T) {
	root, err := ast.Parse(`\d{1,50}`)
	if err != nil {
		t.Fatalf("ast.Parse error = %v", err)
	}
	n, err := nfa.Compile(root)
	if err != nil {
		t.Fatalf("nfa.Compile error = %v", err)
	}
	if _, err := Build(n, 3); err == nil {
		t.Fatal("expected a state-limit error, got none")
	}
}

func TestASCIIAndGenericPathsAgree(t *testing.T) {
	d := buildDFA(t, "[a-z]+")
	if !d.asciiOnly {
		t.Fatal("expected [a-z]+ to compile to an ASCII-only DFA")
	}
	if !d.Match([]byte("hello")) {
		t.Error("ASCII fast path: Match(\"hello\") = false, want true")
	}
	if d.Match([]byte("hello\xff")) {
		t.Error("non-ASCII input should fall back to the generic matcher and still reject correctly")
	}
}
