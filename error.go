package bytefsm

import "fmt"

// CompileError wraps whichever stage first rejected a pattern, naming the
// pattern and the stage ("token", "ast", "nfa", or "dfa") so callers can
// tell a syntax error from a construction limit without parsing the message.
type CompileError struct {
	Pattern string
	Stage   string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("bytefsm: compiling %q: %s", e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
