package literal

import (
	"testing"

	"github.com/bytefsm/bytefsm/ast"
)

func TestBuildAcceptsPureLiteralAlternation(t *testing.T) {
	root, err := ast.Parse("cat|dog|bird")
	if err != nil {
		t.Fatalf("ast.Parse error = %v", err)
	}
	pf, ok := Build(root)
	if !ok {
		t.Fatal("Build() ok = false, want true for a pure literal alternation")
	}

	if pf.CanMatch([]byte("I have a cat")) != true {
		t.Error("CanMatch should be true when a literal occurs in the input")
	}
	if pf.CanMatch([]byte("I have a fish")) != false {
		t.Error("CanMatch should be false when no literal occurs anywhere in the input")
	}
}

func TestBuildAcceptsSingleLiteralRun(t *testing.T) {
	root, err := ast.Parse("hello")
	if err != nil {
		t.Fatalf("ast.Parse error = %v", err)
	}
	pf, ok := Build(root)
	if !ok {
		t.Fatal("Build() ok = false, want true for a single literal run")
	}
	if pf.CanMatch([]byte("say hello there")) != true {
		t.Error("CanMatch should be true: \"hello\" occurs in the input")
	}
	if pf.CanMatch([]byte("goodbye")) != false {
		t.Error("CanMatch should be false: \"hello\" does not occur")
	}
}

func TestBuildRejectsNonLiteralConstructs(t *testing.T) {
	patterns := []string{
		"a*",
		"[a-z]",
		".",
		`\d`,
		"a|b*",
		"(a|b)c", // not a top-level pure alternation of literals
	}
	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			root, err := ast.Parse(pattern)
			if err != nil {
				t.Fatalf("ast.Parse(%q) error = %v", pattern, err)
			}
			if _, ok := Build(root); ok {
				t.Errorf("Build(%q) ok = true, want false", pattern)
			}
		})
	}
}
