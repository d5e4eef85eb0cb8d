package eval

import (
	"fmt"

	"github.com/jcorbin/scm/internal/value"
)

// evaluateIf accepts both the three-operand and two-operand forms: the
// REDESIGN decision recorded in the design ledger resolves the original's
// three-operand-only TODO in favor of also allowing the else-less form,
// which yields unspecified on a false test.
func (e *Evaluator) evaluateIf(items []value.Index, env, cont value.Index) (bounce, error) {
	if len(items) != 3 && len(items) != 4 {
		return bounce{}, fmt.Errorf("syntax error: if expects (if cond then) or (if cond then else)")
	}
	ifCont := e.a.NewContinuation(value.Continuation{
		Kind: value.ContIf, Next: cont, Env: env,
		IfTrue: items[2],
	})
	c := e.a.Continuation(ifCont)
	if len(items) == 4 {
		c.IfFalse = items[3]
		c.IfHasElse = true
	}
	return evalB(items[1], env, ifCont), nil
}

func (e *Evaluator) evalBegin(body value.Index, env, cont value.Index) (bounce, error) {
	items, proper := e.a.ListToSlice(body)
	if !proper {
		return bounce{}, fmt.Errorf("syntax error: malformed begin body")
	}
	if len(items) == 0 {
		return resumeB(cont, e.a.Unspecified()), nil
	}
	if len(items) == 1 {
		// The last form runs directly under cont: its value is the value of
		// the whole body, and a call there is a proper tail call.
		return evalB(items[0], env, cont), nil
	}
	rest := e.a.SliceToList(items[1:])
	beginCont := e.a.NewContinuation(value.Continuation{Kind: value.ContBegin, Next: cont, Env: env, BeginBody: rest})
	return evalB(items[0], env, beginCont), nil
}

func (e *Evaluator) evaluateLambda(items []value.Index, env, cont value.Index, name string) (bounce, error) {
	if len(items) < 3 {
		return bounce{}, fmt.Errorf("syntax error: lambda expects (lambda formals body...)")
	}
	l := value.Lambda{Env: env, Formals: items[1], Body: e.a.SliceToList(items[2:]), Name: name}
	return resumeB(cont, e.a.NewLambda(l)), nil
}

func (e *Evaluator) evaluateSet(items []value.Index, env, cont value.Index, define bool) (bounce, error) {
	if len(items) != 3 {
		return bounce{}, fmt.Errorf("syntax error: set! expects (set! name value)")
	}
	nameCell := e.a.Get(items[1])
	if nameCell.Kind != value.KindSymbol {
		return bounce{}, fmt.Errorf("syntax error: set! name must be a symbol")
	}
	setCont := e.a.NewContinuation(value.Continuation{
		Kind: value.ContSet, Next: cont, Env: env,
		SetName: nameCell.Text, SetDefine: define,
	})
	return evalB(items[2], env, setCont), nil
}

// evaluateDefine treats (define name value) and the (define (name .
// formals) body...) procedure sugar uniformly as a Set continuation with
// define=true, matching how evaluate_set in the original source shares one
// implementation between the two forms.
func (e *Evaluator) evaluateDefine(items []value.Index, env, cont value.Index) (bounce, error) {
	if len(items) < 2 {
		return bounce{}, fmt.Errorf("syntax error: define expects (define name value) or (define (name . formals) body...)")
	}
	target := e.a.Get(items[1])
	switch target.Kind {
	case value.KindSymbol:
		switch len(items) {
		case 2:
			setCont := e.a.NewContinuation(value.Continuation{Kind: value.ContSet, Next: cont, Env: env, SetName: target.Text, SetDefine: true})
			return resumeB(setCont, e.a.Unspecified()), nil
		case 3:
			return e.evaluateSet(items, env, cont, true)
		default:
			return bounce{}, fmt.Errorf("syntax error: define expects (define name value)")
		}
	case value.KindPair:
		headSym := e.a.Get(target.Pair.Car)
		if headSym.Kind != value.KindSymbol {
			return bounce{}, fmt.Errorf("syntax error: define procedure name must be a symbol")
		}
		if len(items) < 3 {
			return bounce{}, fmt.Errorf("syntax error: define expects a body")
		}
		l := value.Lambda{Env: env, Formals: target.Pair.Cdr, Body: e.a.SliceToList(items[2:]), Name: headSym.Text}
		setCont := e.a.NewContinuation(value.Continuation{Kind: value.ContSet, Next: cont, Env: env, SetName: headSym.Text, SetDefine: true})
		return resumeB(setCont, e.a.NewLambda(l)), nil
	default:
		return bounce{}, fmt.Errorf("syntax error: define expects a symbol or (name . formals)")
	}
}

func (e *Evaluator) evaluateApplication(items []value.Index, env, cont value.Index) (bounce, error) {
	evfunCont := e.a.NewContinuation(value.Continuation{
		Kind: value.ContEvFun, Next: cont, Env: env,
		EvFunArgs: e.a.SliceToList(items[1:]),
	})
	return evalB(items[0], env, evfunCont), nil
}
