package eval

import (
	"fmt"

	"github.com/jcorbin/scm/internal/arena"
	"github.com/jcorbin/scm/internal/value"
)

// Evaluator runs the CPS trampoline against one arena and one global
// environment frame.
type Evaluator struct {
	a      *arena.Arena
	global value.Index
}

// New returns an Evaluator with a fresh, empty global environment frame.
func New(a *arena.Arena) *Evaluator {
	return &Evaluator{a: a, global: a.NewRuntimeEnv(value.Invalid)}
}

// GlobalEnv returns the root run-time environment, for primitive
// registration.
func (e *Evaluator) GlobalEnv() value.Index { return e.global }

// DefineGlobal binds name directly in the global frame, used to seed
// primitives and reserved slots before any user code runs.
func (e *Evaluator) DefineGlobal(name string, v value.Index) {
	e.a.Env(e.global).Bindings[name] = value.Binding{Value: v, Mutable: true}
}

// Run evaluates form under env to completion and returns its value, or the
// first error raised during evaluation (spec.md 7: errors unwind the
// trampoline to its driver).
func (e *Evaluator) Run(form, env value.Index) (value.Index, error) {
	top := e.a.NewContinuation(value.Continuation{Kind: value.ContTopLevel, Next: value.Invalid})
	b := bounce{kind: bounceEvaluate, form: form, env: env, cont: top}
	for {
		next, err := e.step(b)
		if err != nil {
			return value.Invalid, err
		}
		if next.kind == bounceDone {
			return next.value, nil
		}
		b = next
	}
}

// RunTopLevel evaluates form in the global environment, the shape file
// mode and the REPL both want.
func (e *Evaluator) RunTopLevel(form value.Index) (value.Index, error) {
	return e.Run(form, e.global)
}

func (e *Evaluator) step(b bounce) (bounce, error) {
	switch b.kind {
	case bounceEvaluate:
		return e.evaluate(b.form, b.env, b.cont)
	case bounceResume:
		return e.resume(b.cont, b.value)
	default:
		panic("eval: step called on a Done bounce")
	}
}

func done(v value.Index) bounce       { return bounce{kind: bounceDone, value: v} }
func resumeB(cont, v value.Index) bounce { return bounce{kind: bounceResume, cont: cont, value: v} }
func evalB(form, env, cont value.Index) bounce {
	return bounce{kind: bounceEvaluate, form: form, env: env, cont: cont}
}

func (e *Evaluator) evaluate(form, env, cont value.Index) (bounce, error) {
	c := e.a.Get(form)
	switch c.Kind {
	case value.KindSymbol:
		v, ok := e.lookupVar(env, c.Text)
		if !ok {
			return bounce{}, fmt.Errorf("undefined variable: %s", c.Text)
		}
		return resumeB(cont, v), nil
	case value.KindPair:
		return e.evaluatePair(form, env, cont)
	case value.KindEmptyList:
		return bounce{}, fmt.Errorf("empty-list application: ()")
	default:
		return resumeB(cont, form), nil
	}
}

func (e *Evaluator) evaluatePair(form, env, cont value.Index) (bounce, error) {
	items, proper := e.a.ListToSlice(form)
	if !proper || len(items) == 0 {
		return bounce{}, fmt.Errorf("syntax error: improper or empty combination")
	}
	if head := e.a.Get(items[0]); head.Kind == value.KindSymbol {
		switch head.Text {
		case "quote":
			return e.evaluateQuote(items, cont)
		case "if":
			return e.evaluateIf(items, env, cont)
		case "begin":
			return e.evalBegin(e.a.SliceToList(items[1:]), env, cont)
		case "lambda":
			return e.evaluateLambda(items, env, cont, "")
		case "set!":
			return e.evaluateSet(items, env, cont, false)
		case "define":
			return e.evaluateDefine(items, env, cont)
		}
	}
	return e.evaluateApplication(items, env, cont)
}

func (e *Evaluator) evaluateQuote(items []value.Index, cont value.Index) (bounce, error) {
	if len(items) != 2 {
		return bounce{}, fmt.Errorf("syntax error: quote expects exactly one operand")
	}
	return resumeB(cont, items[1]), nil
}
