package ast

import "testing"

func TestParseCollapsesSingleChild(t *testing.T) {
	n, err := Parse("a")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	lit, ok := n.(*Literal)
	if !ok {
		t.Fatalf("node type = %T, want *Literal", n)
	}
	if lit.Value != 'a' {
		t.Errorf("Value = %q, want 'a'", lit.Value)
	}
}

func TestParseConcatenation(t *testing.T) {
	n, err := Parse("abc")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	concat, ok := n.(*Concatenation)
	if !ok {
		t.Fatalf("node type = %T, want *Concatenation", n)
	}
	if len(concat.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(concat.Children))
	}
}

func TestParseAlternation(t *testing.T) {
	n, err := Parse("a|b|c")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	alt, ok := n.(*Alternation)
	if !ok {
		t.Fatalf("node type = %T, want *Alternation", n)
	}
	if len(alt.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(alt.Children))
	}
}

func TestParseGroupAndQuantifiers(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		check   func(t *testing.T, n Node)
	}{
		{"group", "(ab)", func(t *testing.T, n Node) {
			g, ok := n.(*Group)
			if !ok {
				t.Fatalf("node type = %T, want *Group", n)
			}
			if _, ok := g.Child.(*Concatenation); !ok {
				t.Errorf("group child type = %T, want *Concatenation", g.Child)
			}
		}},
		{"star", "a*", func(t *testing.T, n Node) {
			if _, ok := n.(*ZeroOrMore); !ok {
				t.Fatalf("node type = %T, want *ZeroOrMore", n)
			}
		}},
		{"plus", "a+", func(t *testing.T, n Node) {
			if _, ok := n.(*OneOrMore); !ok {
				t.Fatalf("node type = %T, want *OneOrMore", n)
			}
		}},
		{"optional", "a?", func(t *testing.T, n Node) {
			if _, ok := n.(*ZeroOrOne); !ok {
				t.Fatalf("node type = %T, want *ZeroOrOne", n)
			}
		}},
		{"wildcard", ".", func(t *testing.T, n Node) {
			r, ok := n.(*Range)
			if !ok || r.Start != WildcardByte || r.End != WildcardByte {
				t.Fatalf("node = %#v, want wildcard Range", n)
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Parse(tc.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tc.pattern, err)
			}
			tc.check(t, n)
		})
	}
}

// TestQuantifierRangeSemantics pins the deliberately reproduced
// reference-implementation quirk: a bare count means unbounded max, not an
// exact repetition count.
func TestQuantifierRangeSemantics(t *testing.T) {
	tests := []struct {
		pattern string
		min     int
		max     int
	}{
		{"a{3}", 3, -1},
		{"a{3,}", 3, -1},
		{"a{2,5}", 2, 5},
		{"a{,5}", 0, 5},
	}

	for _, tc := range tests {
		t.Run(tc.pattern, func(t *testing.T) {
			n, err := Parse(tc.pattern)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tc.pattern, err)
			}
			sq, ok := n.(*SpecificQuantifier)
			if !ok {
				t.Fatalf("node type = %T, want *SpecificQuantifier", n)
			}
			if sq.Min != tc.min || sq.Max != tc.max {
				t.Errorf("got min=%d max=%d, want min=%d max=%d", sq.Min, sq.Max, tc.min, tc.max)
			}
		})
	}
}

func TestParseClass(t *testing.T) {
	n, err := Parse("[a-z0-9_]")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	class, ok := n.(*Class)
	if !ok {
		t.Fatalf("node type = %T, want *Class", n)
	}
	if len(class.Ranges) != 3 {
		t.Fatalf("len(Ranges) = %d, want 3", len(class.Ranges))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"(a",
		"a|",
		"[a-z",
		"[]",
		"a{5,2}",
	}
	for _, pattern := range tests {
		t.Run(pattern, func(t *testing.T) {
			if _, err := Parse(pattern); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", pattern)
			}
		})
	}
}

func TestParseWithLimitRejectsDeepNesting(t *testing.T) {
	pattern := ""
	for i := 0; i < 20; i++ {
		pattern += "("
	}
	pattern += "a"
	for i := 0; i < 20; i++ {
		pattern += ")"
	}

	if _, err := ParseWithLimit(pattern, 10); err == nil {
		t.Fatal("expected a depth error, got none")
	}
}

// TestRoundTrip checks that printing a parsed AST and re-parsing it produces
// a structurally equivalent tree (up to single-child collapsing).
func TestRoundTrip(t *testing.T) {
	patterns := []string{
		"a",
		"ab",
		"a|b",
		"(ab)*",
		"[a-z]+",
		"a?b+c*",
		"(a|b)c",
		`\d{2,4}`,
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			first, err := Parse(pattern)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", pattern, err)
			}
			printed := first.String()
			second, err := Parse(printed)
			if err != nil {
				t.Fatalf("Parse(%q) (re-parse of %q) error = %v", printed, pattern, err)
			}
			if second.String() != printed {
				t.Errorf("re-parse printed %q, want %q", second.String(), printed)
			}
		})
	}
}
