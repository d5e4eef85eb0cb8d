// Package ast lowers a parsed s-expression value into the typed syntax
// tree spec.md 4.4 describes, recognising special forms positionally and
// resolving references against a compile-time environment.
package ast

import (
	"fmt"

	"github.com/jcorbin/scm/internal/arena"
	"github.com/jcorbin/scm/internal/environment"
	"github.com/jcorbin/scm/internal/value"
)

// Kind tags which syntax-tree node a Node represents.
type Kind uint8

const (
	KindQuote Kind = iota
	KindIf
	KindBegin
	KindLambda
	KindSet
	KindDefine
	KindReference
	KindApplication
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindQuote:
		return "quote"
	case KindIf:
		return "if"
	case KindBegin:
		return "begin"
	case KindLambda:
		return "lambda"
	case KindSet:
		return "set!"
	case KindDefine:
		return "define"
	case KindReference:
		return "reference"
	case KindApplication:
		return "application"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Coordinate identifies a resolved binding: either a local (altitude,
// index) pair reached by walking the activation-frame chain, or a pending
// global slot when the VM back-end has not yet seen the name defined.
type Coordinate struct {
	Global   bool
	Altitude int
	Index    int
	Name     string
}

// Formals is a lowered lambda parameter list, covering the three shapes
// spec.md 4.4 allows.
type Formals struct {
	Fixed []string
	Rest  string // "" if the formals are a proper list (no rest parameter)
}

// Arity reports the minimum argument count and whether extra arguments are
// collected into Rest.
func (f Formals) Arity() value.Arity {
	return value.Arity{Min: len(f.Fixed), Rest: f.Rest != ""}
}

// Node is one typed syntax-tree node. Only the fields documented for Kind
// are meaningful.
type Node struct {
	Kind Kind
	Tail bool // not set by lowering or the compiler, which passes tail position as an argument

	QuoteValue value.Index // Quote

	IfCond, IfThen, IfElse *Node // If; IfElse is synthesized as unspecified when the 2-operand form was used
	IfHasElse              bool

	BeginBody []*Node // Begin

	LambdaFormals Formals // Lambda
	LambdaBody    []*Node
	LambdaName    string

	SetName  string // Set, Define
	SetCoord Coordinate
	SetValue *Node

	RefName  string // Reference
	RefCoord Coordinate

	AppHead *Node // Application
	AppArgs []*Node

	LiteralValue value.Index // Literal
}

// Error is a syntax error, spec.md 7's "Syntax error" kind: ill-formed
// special forms, a non-symbol where a name is required, empty
// application.
type Error struct {
	Form string
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("syntax error in %s: %s", e.Form, e.Msg) }

// Lower is a reusable lowering context bound to one arena; the
// compile-time environment is passed to each ToSyntaxElement call.
type Lower struct {
	a *arena.Arena
}

// New returns a lowering context over a.
func New(a *arena.Arena) *Lower { return &Lower{a: a} }

// ToSyntaxElement lowers one parsed form under env, spec.md 4.4's
// to_syntax_element.
func (l *Lower) ToSyntaxElement(env *environment.Env, form value.Index) (*Node, error) {
	c := l.a.Get(form)
	switch c.Kind {
	case value.KindSymbol:
		return l.lowerReference(env, c.Text)
	case value.KindPair:
		return l.lowerPair(env, form)
	case value.KindEmptyList:
		return nil, &Error{Form: "application", Msg: "empty application ()"}
	default:
		return &Node{Kind: KindLiteral, LiteralValue: form}, nil
	}
}

func (l *Lower) lowerReference(env *environment.Env, name string) (*Node, error) {
	coord := l.resolve(env, name)
	return &Node{Kind: KindReference, RefName: name, RefCoord: coord}, nil
}

// resolve looks name up in env; an unresolved name becomes a pending
// global slot, reserved immediately in the global frame so that forward
// references among top-level defines (mutual recursion) still compile.
func (l *Lower) resolve(env *environment.Env, name string) Coordinate {
	if alt, idx, _, global, ok := env.LookupFull(name); ok {
		if global {
			return Coordinate{Global: true, Index: idx, Name: name}
		}
		return Coordinate{Altitude: alt, Index: idx, Name: name}
	}
	idx := env.Global().Define(name, true)
	return Coordinate{Global: true, Index: idx, Name: name}
}

func (l *Lower) lowerPair(env *environment.Env, form value.Index) (*Node, error) {
	items, proper := l.a.ListToSlice(form)
	if !proper || len(items) == 0 {
		return nil, &Error{Form: "application", Msg: "improper or empty form"}
	}
	if head := l.a.Get(items[0]); head.Kind == value.KindSymbol {
		switch head.Text {
		case "quote":
			return l.lowerQuote(items)
		case "if":
			return l.lowerIf(env, items)
		case "begin":
			return l.lowerBegin(env, items[1:])
		case "lambda":
			return l.lowerLambda(env, items, "")
		case "set!":
			return l.lowerSet(env, items)
		case "define":
			return l.lowerDefine(env, items)
		}
	}
	return l.lowerApplication(env, items)
}

func (l *Lower) lowerQuote(items []value.Index) (*Node, error) {
	if len(items) != 2 {
		return nil, &Error{Form: "quote", Msg: "expected exactly one operand"}
	}
	return &Node{Kind: KindQuote, QuoteValue: items[1]}, nil
}

func (l *Lower) lowerIf(env *environment.Env, items []value.Index) (*Node, error) {
	if len(items) != 3 && len(items) != 4 {
		return nil, &Error{Form: "if", Msg: "expected (if cond then) or (if cond then else)"}
	}
	cond, err := l.ToSyntaxElement(env, items[1])
	if err != nil {
		return nil, err
	}
	then, err := l.ToSyntaxElement(env, items[2])
	if err != nil {
		return nil, err
	}
	n := &Node{Kind: KindIf, IfCond: cond, IfThen: then}
	if len(items) == 4 {
		els, err := l.ToSyntaxElement(env, items[3])
		if err != nil {
			return nil, err
		}
		n.IfElse = els
		n.IfHasElse = true
	} else {
		// Two-operand if: no else clause, so the compiler still needs
		// something to emit for the false branch. Resolve the original's
		// open TODO in favor of unspecified rather than rejecting it.
		n.IfElse = &Node{Kind: KindLiteral, LiteralValue: l.a.Unspecified()}
	}
	return n, nil
}

func (l *Lower) lowerBegin(env *environment.Env, body []value.Index) (*Node, error) {
	nodes, err := l.lowerBody(env, body)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindBegin, BeginBody: nodes}, nil
}

func (l *Lower) lowerBody(env *environment.Env, body []value.Index) ([]*Node, error) {
	nodes := make([]*Node, 0, len(body))
	for _, form := range body {
		n, err := l.ToSyntaxElement(env, form)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (l *Lower) lowerLambda(env *environment.Env, items []value.Index, name string) (*Node, error) {
	if len(items) < 3 {
		return nil, &Error{Form: "lambda", Msg: "expected (lambda formals body...)"}
	}
	formals, err := l.lowerFormals(items[1])
	if err != nil {
		return nil, err
	}
	inner := env.Push()
	for _, f := range formals.Fixed {
		inner.Define(f, true)
	}
	if formals.Rest != "" {
		inner.Define(formals.Rest, true)
	}
	body, err := l.lowerBody(inner, items[2:])
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindLambda, LambdaFormals: formals, LambdaBody: body, LambdaName: name}, nil
}

// lowerFormals accepts the three shapes spec.md 4.4 names: a proper list
// of symbols (fixed arity), a dotted list (fixed minimum, rest variable),
// or a bare symbol (fully variadic).
func (l *Lower) lowerFormals(formalsForm value.Index) (Formals, error) {
	c := l.a.Get(formalsForm)
	if c.Kind == value.KindSymbol {
		return Formals{Rest: c.Text}, nil
	}
	var fixed []string
	cur := formalsForm
	for {
		c := l.a.Get(cur)
		switch c.Kind {
		case value.KindEmptyList:
			return Formals{Fixed: fixed}, nil
		case value.KindPair:
			carSym := l.a.Get(c.Pair.Car)
			if carSym.Kind != value.KindSymbol {
				return Formals{}, &Error{Form: "lambda", Msg: "formal parameter must be a symbol"}
			}
			fixed = append(fixed, carSym.Text)
			cur = c.Pair.Cdr
		case value.KindSymbol:
			return Formals{Fixed: fixed, Rest: c.Text}, nil
		default:
			return Formals{}, &Error{Form: "lambda", Msg: "malformed formals list"}
		}
	}
}

func (l *Lower) lowerSet(env *environment.Env, items []value.Index) (*Node, error) {
	if len(items) != 3 {
		return nil, &Error{Form: "set!", Msg: "expected (set! name value)"}
	}
	nameCell := l.a.Get(items[1])
	if nameCell.Kind != value.KindSymbol {
		return nil, &Error{Form: "set!", Msg: "name must be a symbol"}
	}
	val, err := l.ToSyntaxElement(env, items[2])
	if err != nil {
		return nil, err
	}
	coord := l.resolve(env, nameCell.Text)
	return &Node{Kind: KindSet, SetName: nameCell.Text, SetCoord: coord, SetValue: val}, nil
}

func (l *Lower) lowerDefine(env *environment.Env, items []value.Index) (*Node, error) {
	if len(items) < 2 {
		return nil, &Error{Form: "define", Msg: "expected (define name value) or (define (name . formals) body...)"}
	}
	target := l.a.Get(items[1])
	switch target.Kind {
	case value.KindSymbol:
		var val *Node
		var err error
		if len(items) == 2 {
			val = &Node{Kind: KindLiteral, LiteralValue: l.a.Unspecified()}
		} else if len(items) == 3 {
			val, err = l.ToSyntaxElement(env, items[2])
			if err != nil {
				return nil, err
			}
		} else {
			return nil, &Error{Form: "define", Msg: "expected (define name value)"}
		}
		idx := env.Define(target.Text, true)
		coord := Coordinate{Name: target.Text, Index: idx, Global: env.IsGlobal()}
		return &Node{Kind: KindDefine, SetName: target.Text, SetCoord: coord, SetValue: val}, nil
	case value.KindPair:
		headSym := l.a.Get(target.Pair.Car)
		if headSym.Kind != value.KindSymbol {
			return nil, &Error{Form: "define", Msg: "procedure name must be a symbol"}
		}
		lambdaItems := append([]value.Index{value.Invalid, target.Pair.Cdr}, items[2:]...)
		idx := env.Define(headSym.Text, true)
		lambdaNode, err := l.lowerLambda(env, lambdaItems, headSym.Text)
		if err != nil {
			return nil, err
		}
		coord := Coordinate{Name: headSym.Text, Index: idx, Global: env.IsGlobal()}
		return &Node{Kind: KindDefine, SetName: headSym.Text, SetCoord: coord, SetValue: lambdaNode}, nil
	default:
		return nil, &Error{Form: "define", Msg: "expected a symbol or (name . formals)"}
	}
}

func (l *Lower) lowerApplication(env *environment.Env, items []value.Index) (*Node, error) {
	head, err := l.ToSyntaxElement(env, items[0])
	if err != nil {
		return nil, err
	}
	args, err := l.lowerBody(env, items[1:])
	if err != nil {
		return nil, err
	}
	return &Node{Kind: KindApplication, AppHead: head, AppArgs: args}, nil
}
