// Package read implements the parser step of spec.md 4.3: tokens to an
// arena-interned s-expression tree. It expands reader abbreviations,
// builds dotted pairs and vectors, and reports the three parse error
// kinds spec.md 7 names.
package read

import (
	"fmt"

	"github.com/jcorbin/scm/internal/arena"
	"github.com/jcorbin/scm/internal/lex"
	"github.com/jcorbin/scm/internal/value"
)

// Error is a parse failure, spec.md 7's "Parse error" kind.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("parse error (%s): %s", e.Kind, e.Msg) }

const (
	kindUnexpectedClose = "unexpected close-paren"
	kindPrematureEOF    = "premature EOF"
	kindMalformedDotted = "malformed dotted pair"
)

// Parser consumes one token stream and builds values into an arena.
type Parser struct {
	a    *arena.Arena
	toks []lex.Token
	pos  int
}

// New returns a parser over toks that interns into a.
func New(a *arena.Arena, toks []lex.Token) *Parser {
	return &Parser{a: a, toks: toks}
}

// Parse consumes exactly one complete form from toks and interns it,
// spec.md 4.3's parse(tokens) -> value.
func Parse(a *arena.Arena, toks []lex.Token) (value.Index, error) {
	p := New(a, toks)
	v, err := p.parseOne()
	if err != nil {
		return value.Invalid, err
	}
	if p.pos != len(p.toks) {
		return value.Invalid, &Error{Kind: kindUnexpectedClose, Msg: fmt.Sprintf("trailing tokens after form: %q", p.toks[p.pos].Text)}
	}
	return v, nil
}

// ParseMany parses a flat token stream (as produced by concatenating every
// segment read from a file) into a slice of top-level forms, spec.md 6's
// file-mode read_many.
func ParseMany(a *arena.Arena, toks []lex.Token) ([]value.Index, error) {
	p := New(a, toks)
	var forms []value.Index
	for p.pos < len(p.toks) {
		v, err := p.parseOne()
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
	}
	return forms, nil
}

func (p *Parser) peek() (lex.Token, bool) {
	if p.pos >= len(p.toks) {
		return lex.Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *Parser) next() (lex.Token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

func (p *Parser) parseOne() (value.Index, error) {
	t, ok := p.next()
	if !ok {
		return value.Invalid, &Error{Kind: kindPrematureEOF, Msg: "expected a form, found end of input"}
	}
	switch t.Kind {
	case lex.KindLParen:
		return p.parseList()
	case lex.KindVectorOpen:
		return p.parseVector()
	case lex.KindRParen:
		return value.Invalid, &Error{Kind: kindUnexpectedClose, Msg: "unexpected )"}
	case lex.KindQuote:
		return p.parseAbbrev("quote")
	case lex.KindQuasiquote:
		return p.parseAbbrev("quasiquote")
	case lex.KindUnquote:
		return p.parseAbbrev("unquote")
	case lex.KindUnquoteSplicing:
		return p.parseAbbrev("unquote-splicing")
	case lex.KindDot:
		return value.Invalid, &Error{Kind: kindMalformedDotted, Msg: "unexpected . outside of a list"}
	case lex.KindBoolean:
		return p.a.Bool(t.Bool), nil
	case lex.KindInteger:
		return p.a.NewInteger(t.Int), nil
	case lex.KindReal:
		return p.a.NewReal(t.Real), nil
	case lex.KindCharacter:
		return p.a.NewCharacter(t.Char), nil
	case lex.KindString:
		return p.a.NewString([]rune(t.Str)), nil
	case lex.KindSymbol:
		return p.a.Symbolicate(t.Text), nil
	default:
		return value.Invalid, &Error{Kind: kindPrematureEOF, Msg: fmt.Sprintf("unrecognised token %q", t.Text)}
	}
}

// parseAbbrev expands 'x, `x, ,x and ,@x into (name x) per spec.md 4.3.
func (p *Parser) parseAbbrev(name string) (value.Index, error) {
	v, err := p.parseOne()
	if err != nil {
		return value.Invalid, err
	}
	sym := p.a.Symbolicate(name)
	return p.a.SliceToList([]value.Index{sym, v}), nil
}

func (p *Parser) parseList() (value.Index, error) {
	var items []value.Index
	for {
		t, ok := p.peek()
		if !ok {
			return value.Invalid, &Error{Kind: kindPrematureEOF, Msg: "unterminated list"}
		}
		if t.Kind == lex.KindRParen {
			p.pos++
			return p.a.SliceToList(items), nil
		}
		if t.Kind == lex.KindDot {
			p.pos++
			tail, err := p.parseOne()
			if err != nil {
				return value.Invalid, err
			}
			closeTok, ok := p.next()
			if !ok || closeTok.Kind != lex.KindRParen {
				return value.Invalid, &Error{Kind: kindMalformedDotted, Msg: "expected ) after dotted tail"}
			}
			list := tail
			for i := len(items) - 1; i >= 0; i-- {
				list = p.a.NewPair(items[i], list)
			}
			return list, nil
		}
		v, err := p.parseOne()
		if err != nil {
			return value.Invalid, err
		}
		items = append(items, v)
	}
}

func (p *Parser) parseVector() (value.Index, error) {
	var items []value.Index
	for {
		t, ok := p.peek()
		if !ok {
			return value.Invalid, &Error{Kind: kindPrematureEOF, Msg: "unterminated vector"}
		}
		if t.Kind == lex.KindRParen {
			p.pos++
			v := p.a.NewVector(len(items), p.a.Unspecified())
			for i, item := range items {
				p.a.SetVectorItem(v, i, item)
			}
			return v, nil
		}
		v, err := p.parseOne()
		if err != nil {
			return value.Invalid, err
		}
		items = append(items, v)
	}
}
