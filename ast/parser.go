package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytefsm/bytefsm/token"
)

// MaxRecursionDepth bounds parser recursion so a deeply nested pattern
// fails with a ParseError instead of overflowing the call stack.
const MaxRecursionDepth = 1000

// Parser is a recursive-descent parser over a token.Tokenizer.
type Parser struct {
	tok      *token.Tokenizer
	cur      token.Token
	have     bool // whether cur holds a valid lookahead token
	depth    int
	maxDepth int
}

// Parse parses pattern and returns its AST root, or a *ParseError / *token.LexError.
func Parse(pattern string) (Node, error) {
	return ParseWithLimit(pattern, MaxRecursionDepth)
}

// ParseWithLimit parses pattern like Parse, but fails once parser recursion
// exceeds maxDepth instead of the package default. The top level and each
// group nesting level each use two levels of recursion.
func ParseWithLimit(pattern string, maxDepth int) (Node, error) {
	p := &Parser{tok: token.New(pattern), maxDepth: maxDepth}
	if err := p.advance(); err != nil {
		return nil, err
	}

	n, err := p.parseRegex()
	if err != nil {
		return nil, err
	}
	if p.have {
		return nil, &ParseError{Offset: p.tok.Pos(), Message: fmt.Sprintf("unexpected %s", p.cur.Kind)}
	}
	return n, nil
}

func (p *Parser) advance() error {
	if p.tok.Done() {
		p.have = false
		return nil
	}
	t, err := p.tok.Next()
	if err != nil {
		return err
	}
	p.cur = t
	p.have = true
	return nil
}

func (p *Parser) atEnd() bool { return !p.have }

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return &ParseError{Offset: p.tok.Pos(), Message: "pattern nested too deeply"}
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// Regex = Concatenation ( '|' Concatenation )*
func (p *Parser) parseRegex() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	first, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}

	children := []Node{first}
	for !p.atEnd() && p.cur.Kind == token.Or {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		children = append(children, next)
	}

	if len(children) == 1 {
		return children[0], nil
	}
	return &Alternation{Children: children}, nil
}

// Concatenation = Unit+ (until '|', ')', or EOF)
func (p *Parser) parseConcatenation() (Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.atEnd() || p.cur.Kind == token.Or || p.cur.Kind == token.GroupEnd {
		return nil, &ParseError{Offset: p.tok.Pos(), Message: "expected a pattern unit, found none"}
	}

	var units []Node
	for !p.atEnd() && p.cur.Kind != token.Or && p.cur.Kind != token.GroupEnd {
		u, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}

	if len(units) == 1 {
		return units[0], nil
	}
	return &Concatenation{Children: units}, nil
}

// Unit = Basic Quantifier?
func (p *Parser) parseUnit() (Node, error) {
	basic, err := p.parseBasic()
	if err != nil {
		return nil, err
	}
	return p.parseQuantifier(basic)
}

// Basic = Literal | Escaped | Wildcard | Range(bare '-') | '[' CharRange+ ']' | '(' Regex ')'
func (p *Parser) parseBasic() (Node, error) {
	if p.atEnd() {
		return nil, &ParseError{Offset: p.tok.Pos(), Message: "expected a pattern unit, found end of pattern"}
	}

	t := p.cur
	switch t.Kind {
	case token.Literal:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Value: t.Byte}, nil

	case token.Escaped:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Escaped{Value: t.Byte}, nil

	case token.Wildcard:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Range{Start: WildcardByte, End: WildcardByte}, nil

	case token.Range:
		// A bare '-' outside a class is a literal '-'.
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Literal{Value: '-'}, nil

	case token.ClassStart:
		return p.parseClass()

	case token.GroupStart:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseRegex()
		if err != nil {
			return nil, err
		}
		if p.atEnd() || p.cur.Kind != token.GroupEnd {
			return nil, &ParseError{Offset: p.tok.Pos(), Message: "missing ')'"}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Group{Child: inner}, nil

	default:
		return nil, &ParseError{Offset: p.tok.Pos(), Message: fmt.Sprintf("unexpected %s", t.Kind)}
	}
}

// Quantifier = '*' | '+' | '?' | SpecificQuantifier
func (p *Parser) parseQuantifier(unit Node) (Node, error) {
	if p.atEnd() {
		return unit, nil
	}

	switch p.cur.Kind {
	case token.ZeroInf:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ZeroOrMore{Child: unit}, nil

	case token.OneInf:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &OneOrMore{Child: unit}, nil

	case token.ZeroOne:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ZeroOrOne{Child: unit}, nil

	case token.SpecificQuantifier:
		raw := p.cur.Raw
		offset := p.tok.Pos()
		if err := p.advance(); err != nil {
			return nil, err
		}
		min, max, err := parseQuantifierRange(raw, offset)
		if err != nil {
			return nil, err
		}
		return &SpecificQuantifier{Child: unit, Min: min, Max: max}, nil

	default:
		return unit, nil
	}
}

// parseQuantifierRange parses the lexeme between '{' and '}'.
//
// "n"    -> min=n, max=unbounded (reproduces the reference implementation's
//
//	documented ambiguity: a bare count is NOT treated as an exact
//	repetition count).
//
// "n,"   -> min=n, max=unbounded
// "n,m"  -> min=n, max=m
// ",m"   -> min=0, max=m
func parseQuantifierRange(raw string, offset int) (min, max int, err error) {
	parts := strings.SplitN(raw, ",", 2)

	parseNum := func(s string) (int, error) {
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, &ParseError{Offset: offset, Message: fmt.Sprintf("invalid quantifier count %q", s)}
		}
		return n, nil
	}

	min, err = parseNum(parts[0])
	if err != nil {
		return 0, 0, err
	}

	if len(parts) == 1 {
		// "n" -- treated as unbounded per the reference implementation.
		return min, -1, nil
	}

	if parts[1] == "" {
		// "n," -- explicitly unbounded.
		return min, -1, nil
	}

	max, err = parseNum(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if max < min {
		return 0, 0, &ParseError{Offset: offset, Message: fmt.Sprintf("quantifier min %d exceeds max %d", min, max)}
	}
	return min, max, nil
}

// parseClass parses '[' CharRange+ ']'. The leading '[' (ClassStart) is
// still current when this is called.
func (p *Parser) parseClass() (Node, error) {
	if err := p.advance(); err != nil { // consume '['
		return nil, err
	}

	var ranges []*Range
	for {
		if p.atEnd() {
			return nil, &ParseError{Offset: p.tok.Pos(), Message: "missing ']'"}
		}
		if p.cur.Kind == token.ClassEnd {
			if err := p.advance(); err != nil {
				return nil, err
			}
			break
		}

		start, err := p.parseClassChar()
		if err != nil {
			return nil, err
		}

		if !p.atEnd() && p.cur.Kind == token.Range {
			if err := p.advance(); err != nil {
				return nil, err
			}
			end, err := p.parseClassChar()
			if err != nil {
				return nil, err
			}
			ranges = append(ranges, &Range{Start: start, End: end})
		} else {
			ranges = append(ranges, &Range{Start: start, End: start})
		}
	}

	if len(ranges) == 0 {
		return nil, &ParseError{Offset: p.tok.Pos(), Message: "empty character class"}
	}
	return &Class{Ranges: ranges}, nil
}

// parseClassChar parses a single Char = Literal | Escaped | Wildcard inside
// a character class, returning its byte value (or WildcardByte).
func (p *Parser) parseClassChar() (int, error) {
	if p.atEnd() {
		return 0, &ParseError{Offset: p.tok.Pos(), Message: "missing ']'"}
	}

	t := p.cur
	switch t.Kind {
	case token.Literal:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return int(t.Byte), nil
	case token.Escaped:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return int(t.Byte), nil
	case token.Wildcard:
		if err := p.advance(); err != nil {
			return 0, err
		}
		return WildcardByte, nil
	default:
		return 0, &ParseError{Offset: p.tok.Pos(), Message: fmt.Sprintf("unexpected %s inside character class", t.Kind)}
	}
}
