package vm

import (
	"github.com/pkg/errors"

	"github.com/jcorbin/scm/internal/value"
)

// dispatchCall implements Call(n)/TailCall(n): pop n arguments and the
// operator, then resolve the operator, looping to re-resolve when Apply or
// CallCC substitute a new operator/argument list (spec.md 4.9).
func (m *Machine) dispatchCall(argc int, tail bool) error {
	args := make([]value.Index, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i] = m.pop()
	}
	fn := m.pop()
	for {
		c := m.a.Get(fn)
		switch c.Kind {
		case value.KindClosure:
			return m.enterClosure(c.Closure, args, tail)
		case value.KindPrimitive:
			switch c.Prim.Kind {
			case value.PrimSimple:
				result, err := c.Prim.Fn(m.a, args)
				if err != nil {
					return err
				}
				return m.completeCall(tail, result)
			case value.PrimApply:
				if len(args) < 2 {
					return errors.Errorf("apply: expected at least 2 arguments, got %d", len(args))
				}
				rest, ok := m.a.ListToSlice(args[len(args)-1])
				if !ok {
					return errors.Errorf("apply: last argument must be a proper list")
				}
				next := append(append([]value.Index(nil), args[1:len(args)-1]...), rest...)
				fn, args = args[0], next
			case value.PrimCallCC:
				if len(args) != 1 {
					return errors.Errorf("call/cc: expected exactly 1 argument, got %d", len(args))
				}
				k := m.captureContinuation(tail)
				fn, args = args[0], []value.Index{k}
			case value.PrimEval:
				if len(args) != 1 {
					return errors.Errorf("eval: expected exactly 1 argument, got %d", len(args))
				}
				result, err := m.evalForm(args[0])
				if err != nil {
					return err
				}
				return m.completeCall(tail, result)
			default:
				return errors.Errorf("vm: unknown primitive implementation kind for %s", c.Prim.Name)
			}
		case value.KindVMContinuation:
			if len(args) != 1 {
				return errors.Errorf("continuation: expected exactly 1 argument, got %d", len(args))
			}
			m.frames = append([]value.VMFrame(nil), c.VMCont.Frames...)
			m.push(args[0])
			return nil
		default:
			return errors.Errorf("not a procedure: %s", m.a.String(fn))
		}
	}
}

// enterClosure pushes (Call) or replaces (TailCall) the current frame with
// a new one executing cl's code block, per spec.md 4.8.
func (m *Machine) enterClosure(cl *value.Closure, args []value.Index, tail bool) error {
	cb := m.a.CodeBlock(cl.CodeBlock)
	act, err := m.bindArgs(cb, cl.Frame, args)
	if err != nil {
		return err
	}
	if tail {
		m.frames[len(m.frames)-1] = value.VMFrame{CodeBlock: cl.CodeBlock, PC: 0, ActFrame: act}
		return nil
	}
	m.frames[len(m.frames)-1].PC++
	m.frames = append(m.frames, value.VMFrame{CodeBlock: cl.CodeBlock, PC: 0, ActFrame: act})
	return nil
}

// completeCall finishes a call that was satisfied immediately (a
// primitive result, with no new frame pushed): for a plain Call it resumes
// the caller in place; for a TailCall it performs the same frame-pop a
// Return would, since a primitive in tail position still has to unwind the
// current frame.
func (m *Machine) completeCall(tail bool, result value.Index) error {
	if !tail {
		m.frames[len(m.frames)-1].PC++
		m.push(result)
		return nil
	}
	m.frames = m.frames[:len(m.frames)-1]
	m.push(result)
	return nil
}

func closureName(cb *value.CodeBlock) string {
	if cb.Name != "" {
		return cb.Name
	}
	return "#<procedure>"
}

// bindArgs checks arity and builds the callee's activation frame, parented
// on the closure's captured frame (spec invariant I4).
func (m *Machine) bindArgs(cb *value.CodeBlock, parent value.Index, args []value.Index) (value.Index, error) {
	min := cb.Arity.Min
	if cb.Arity.Rest {
		if len(args) < min {
			return value.Invalid, errors.Errorf("%s: expected at least %d argument(s), got %d", closureName(cb), min, len(args))
		}
	} else if len(args) != min {
		return value.Invalid, errors.Errorf("%s: expected %d argument(s), got %d", closureName(cb), min, len(args))
	}
	values := make([]value.Index, min, min+1)
	copy(values, args[:min])
	if cb.Arity.Rest {
		values = append(values, m.a.SliceToList(args[min:]))
	}
	return m.a.NewActivationFrame(parent, values), nil
}

// captureContinuation snapshots the call stack such that invoking the
// resulting continuation later reproduces exactly what would have happened
// had this call/cc invocation itself returned the supplied value
// (spec.md 4.8's "captured copies of the return-descriptor stack").
func (m *Machine) captureContinuation(tail bool) value.Index {
	frames := append([]value.VMFrame(nil), m.frames...)
	if tail {
		frames = frames[:len(frames)-1]
	} else {
		frames[len(frames)-1].PC++
	}
	return m.a.NewVMContinuation(value.VMContinuation{Frames: frames})
}
