package eval

import (
	"fmt"

	"github.com/jcorbin/scm/internal/value"
)

// resume delivers v into the continuation at cont, per the table in
// spec.md 4.6.
func (e *Evaluator) resume(cont, v value.Index) (bounce, error) {
	c := e.a.Continuation(cont)
	switch c.Kind {
	case value.ContTopLevel:
		return done(v), nil
	case value.ContIf:
		if e.a.IsTruthy(v) {
			return evalB(c.IfTrue, c.Env, c.Next), nil
		}
		if c.IfHasElse {
			return evalB(c.IfFalse, c.Env, c.Next), nil
		}
		return resumeB(c.Next, e.a.Unspecified()), nil
	case value.ContBegin:
		return e.evalBegin(c.BeginBody, c.Env, c.Next)
	case value.ContSet:
		if c.SetDefine {
			e.define(c.Env, c.SetName, v)
		} else if !e.setVar(c.Env, c.SetName, v) {
			return bounce{}, fmt.Errorf("undefined variable: %s", c.SetName)
		}
		return resumeB(c.Next, e.a.Unspecified()), nil
	case value.ContEvFun:
		return e.resumeEvFun(c, v)
	case value.ContArgument:
		return e.resumeArgument(c, v)
	case value.ContApply:
		items, proper := e.a.ListToSlice(v)
		if !proper {
			return bounce{}, fmt.Errorf("eval: malformed accumulated argument list")
		}
		return e.apply(c.ApplyFun, items, c.Env, c.Next)
	default:
		panic(fmt.Sprintf("eval: resume on unknown continuation kind %v", c.Kind))
	}
}

func (e *Evaluator) resumeEvFun(c *value.Continuation, fun value.Index) (bounce, error) {
	args, proper := e.a.ListToSlice(c.EvFunArgs)
	if !proper {
		return bounce{}, fmt.Errorf("eval: malformed operand list")
	}
	applyCont := e.a.NewContinuation(value.Continuation{Kind: value.ContApply, Next: c.Next, Env: c.Env, ApplyFun: fun})
	if len(args) == 0 {
		return resumeB(applyCont, e.a.EmptyList()), nil
	}
	argCont := e.a.NewContinuation(value.Continuation{
		Kind: value.ContArgument, Next: applyCont, Env: c.Env,
		ArgRemaining: e.a.SliceToList(args[1:]),
	})
	return evalB(args[0], c.Env, argCont), nil
}

func (e *Evaluator) resumeArgument(c *value.Continuation, v value.Index) (bounce, error) {
	evaluated := append(append([]value.Index(nil), c.ArgEvaluated...), v)
	remaining, proper := e.a.ListToSlice(c.ArgRemaining)
	if !proper {
		return bounce{}, fmt.Errorf("eval: malformed operand list")
	}
	if len(remaining) == 0 {
		return resumeB(c.Next, e.a.SliceToList(evaluated)), nil
	}
	nextCont := e.a.NewContinuation(value.Continuation{
		Kind: value.ContArgument, Next: c.Next, Env: c.Env,
		ArgRemaining: e.a.SliceToList(remaining[1:]),
		ArgEvaluated: evaluated,
	})
	return evalB(remaining[0], c.Env, nextCont), nil
}

// apply invokes fun on already-evaluated args, spec.md 4.6's Apply
// continuation semantics.
func (e *Evaluator) apply(fun value.Index, args []value.Index, env, cont value.Index) (bounce, error) {
	f := e.a.Get(fun)
	switch f.Kind {
	case value.KindPrimitive:
		return e.applyPrimitive(f.Prim, args, env, cont)
	case value.KindLambda:
		return e.applyLambda(f.Lambda, args, cont)
	case value.KindContinuation:
		if len(args) != 1 {
			return bounce{}, fmt.Errorf("continuation: expected exactly 1 argument, got %d", len(args))
		}
		return resumeB(fun, args[0]), nil
	default:
		return bounce{}, fmt.Errorf("not a procedure: %s", e.a.String(fun))
	}
}

func (e *Evaluator) applyPrimitive(p *value.Primitive, args []value.Index, env, cont value.Index) (bounce, error) {
	switch p.Kind {
	case value.PrimSimple:
		result, err := p.Fn(e.a, args)
		if err != nil {
			return bounce{}, err
		}
		return resumeB(cont, result), nil
	case value.PrimApply:
		if len(args) < 2 {
			return bounce{}, fmt.Errorf("apply: expected at least 2 arguments, got %d", len(args))
		}
		rest, proper := e.a.ListToSlice(args[len(args)-1])
		if !proper {
			return bounce{}, fmt.Errorf("apply: last argument must be a proper list")
		}
		combined := append(append([]value.Index(nil), args[1:len(args)-1]...), rest...)
		return e.apply(args[0], combined, env, cont)
	case value.PrimCallCC:
		if len(args) != 1 {
			return bounce{}, fmt.Errorf("call/cc: expected exactly 1 argument, got %d", len(args))
		}
		return e.apply(args[0], []value.Index{cont}, env, cont)
	case value.PrimEval:
		if len(args) != 1 {
			return bounce{}, fmt.Errorf("eval: expected exactly 1 argument, got %d", len(args))
		}
		return evalB(args[0], e.global, cont), nil
	default:
		return bounce{}, fmt.Errorf("eval: unknown primitive implementation kind for %s", p.Name)
	}
}

func (e *Evaluator) applyLambda(l *value.Lambda, args []value.Index, cont value.Index) (bounce, error) {
	frame := e.a.NewRuntimeEnv(l.Env)
	bindings := e.a.Env(frame).Bindings
	name := l.Name
	if name == "" {
		name = "#<procedure>"
	}
	cur := l.Formals
	i := 0
	for {
		fc := e.a.Get(cur)
		switch fc.Kind {
		case value.KindEmptyList:
			if i != len(args) {
				return bounce{}, fmt.Errorf("%s: expected %d argument(s), got %d", name, i, len(args))
			}
			return e.evalBegin(l.Body, frame, cont)
		case value.KindPair:
			if i >= len(args) {
				return bounce{}, fmt.Errorf("%s: too few arguments", name)
			}
			paramSym := e.a.Get(fc.Pair.Car)
			bindings[paramSym.Text] = value.Binding{Value: args[i], Mutable: true}
			i++
			cur = fc.Pair.Cdr
		case value.KindSymbol:
			bindings[fc.Text] = value.Binding{Value: e.a.SliceToList(args[i:]), Mutable: true}
			return e.evalBegin(l.Body, frame, cont)
		default:
			return bounce{}, fmt.Errorf("%s: malformed formals", name)
		}
	}
}

func (e *Evaluator) define(env value.Index, name string, v value.Index) {
	e.a.Env(env).Bindings[name] = value.Binding{Value: v, Mutable: true}
}

func (e *Evaluator) setVar(env value.Index, name string, v value.Index) bool {
	for cur := env; cur != value.Invalid; {
		re := e.a.Env(cur)
		if b, ok := re.Bindings[name]; ok {
			re.Bindings[name] = value.Binding{Value: v, Mutable: b.Mutable}
			return true
		}
		cur = re.Parent
	}
	return false
}

func (e *Evaluator) lookupVar(env value.Index, name string) (value.Index, bool) {
	for cur := env; cur != value.Invalid; {
		re := e.a.Env(cur)
		if b, ok := re.Bindings[name]; ok {
			return b.Value, true
		}
		cur = re.Parent
	}
	return value.Invalid, false
}
