// Package vm implements the register/stack virtual machine spec.md 4.8
// describes: back-end B's run loop over compiled CodeBlocks, with an
// explicit value stack and call-frame chain rather than a recursive Go
// evaluator, the same "flatten control flow into data" idiom
// db47h/ngaro's vm.Instance.Run uses for FIRST's opcode loop.
package vm

import (
	"github.com/pkg/errors"

	"github.com/jcorbin/scm/internal/arena"
	"github.com/jcorbin/scm/internal/environment"
	"github.com/jcorbin/scm/internal/mem"
	"github.com/jcorbin/scm/internal/value"
)

// Machine holds everything one VM run needs beyond the shared arena: the
// value stack, the call-frame chain, and the global slot table addressed
// by GlobalRef/GlobalSet. The value stack is backed by mem.Ints, the same
// paged growable memory FIRST addressed as its whole machine image,
// addressed here purely upward from 0 the way a return-stack pointer
// addresses FIRST's address stack.
type Machine struct {
	a       *arena.Arena
	globals []value.Index
	data    mem.Ints
	sp      uint
	frames  []value.VMFrame

	compileEnv *environment.Env // non-nil once EnableEval has been called
	logf       func(string, ...interface{})
}

// SetLogf installs a --trace sink, called once per fetched instruction
// with its code block and program counter; nil (the default) disables
// tracing.
func (m *Machine) SetLogf(logf func(string, ...interface{})) { m.logf = logf }

// New returns a machine sharing a's heap. globals is the slot table to
// start from (typically the one internal/primitives.Register populated);
// the machine grows it lazily as GlobalSet addresses new slots.
func New(a *arena.Arena, globals []value.Index) *Machine {
	m := &Machine{a: a, globals: append([]value.Index(nil), globals...)}
	m.data.PageSize = mem.DefaultIntsPageSize
	return m
}

// Globals exposes the current slot table, e.g. for --dump output.
func (m *Machine) Globals() []value.Index { return m.globals }

// SetMemLimit caps the operand stack's paged memory the way --mem-limit
// capped FIRST's single address space; zero (the default) leaves it
// unbounded. Exceeding it surfaces as a mem.LimitError out of Run.
func (m *Machine) SetMemLimit(n uint) { m.data.Limit = n }

func (m *Machine) push(v value.Index) {
	if err := m.data.Stor(m.sp, int(v)); err != nil {
		panic(err)
	}
	m.sp++
}

func (m *Machine) pop() value.Index {
	m.sp--
	v, err := m.data.Load(m.sp)
	if err != nil {
		panic(err)
	}
	return value.Index(v)
}

func (m *Machine) ensureGlobalSlot(slot int) {
	for slot >= len(m.globals) {
		m.globals = append(m.globals, m.a.Unspecified())
	}
}

// Run executes block to completion (its Finish instruction), starting
// with no activation frame (the top level has no locals), and returns the
// value that Finish produced.
func (m *Machine) Run(block value.Index) (v value.Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = errors.Errorf("%v", r)
			}
		}
	}()
	m.frames = append(m.frames, value.VMFrame{CodeBlock: block, PC: 0, ActFrame: value.Invalid})
	base := len(m.frames) - 1
	return m.run(base)
}

// run drives the fetch-execute loop until the frame stack unwinds below
// base, i.e. until the call that pushed frame base returns or Finishes.
func (m *Machine) run(base int) (value.Index, error) {
	for {
		fi := len(m.frames) - 1
		f := &m.frames[fi]
		cb := m.a.CodeBlock(f.CodeBlock)
		if f.PC >= len(cb.Instructions) {
			return value.Invalid, errors.Errorf("vm: fell off the end of code block %q", cb.Name)
		}
		ins := cb.Instructions[f.PC]
		if m.logf != nil {
			m.logf("%s:%d %s", cb.Name, f.PC, ins.Op)
		}
		switch ins.Op {
		case value.OpConstant:
			m.push(value.Index(ins.A))
			f.PC++
		case value.OpLocalRef:
			m.push(m.localSlot(f.ActFrame, ins.A, ins.B))
			f.PC++
		case value.OpLocalSet:
			v := m.pop()
			m.setLocalSlot(f.ActFrame, ins.A, ins.B, v)
			m.push(m.a.Unspecified())
			f.PC++
		case value.OpGlobalRef:
			if ins.A >= len(m.globals) {
				return value.Invalid, errors.Errorf("unbound global slot %d", ins.A)
			}
			m.push(m.globals[ins.A])
			f.PC++
		case value.OpGlobalSet:
			v := m.pop()
			m.ensureGlobalSlot(ins.A)
			m.globals[ins.A] = v
			m.push(m.a.Unspecified())
			f.PC++
		case value.OpJump:
			f.PC = ins.A
		case value.OpJumpFalse:
			v := m.pop()
			if m.a.IsTruthy(v) {
				f.PC++
			} else {
				f.PC = ins.A
			}
		case value.OpPop:
			m.pop()
			f.PC++
		case value.OpCreateClosure:
			blockIdx := cb.CodeBlocks[ins.A]
			cl := value.Closure{CodeBlock: blockIdx, Frame: f.ActFrame, Name: m.a.CodeBlock(blockIdx).Name}
			m.push(m.a.NewClosure(cl))
			f.PC++
		case value.OpCall, value.OpTailCall:
			if err := m.dispatchCall(ins.A, ins.Op == value.OpTailCall); err != nil {
				return value.Invalid, err
			}
			if len(m.frames)-1 < base {
				return m.pop(), nil
			}
		case value.OpReturn:
			result := m.pop()
			m.frames = m.frames[:fi]
			if fi-1 < base {
				return result, nil
			}
			m.push(result)
		case value.OpFinish:
			result := m.pop()
			m.frames = m.frames[:fi]
			return result, nil
		default:
			return value.Invalid, errors.Errorf("vm: unknown opcode %v", ins.Op)
		}
	}
}

func (m *Machine) localSlot(frame value.Index, altitude, index int) value.Index {
	for ; altitude > 0; altitude-- {
		frame = m.a.Frame(frame).Parent
	}
	return m.a.Frame(frame).Values[index]
}

func (m *Machine) setLocalSlot(frame value.Index, altitude, index int, v value.Index) {
	for ; altitude > 0; altitude-- {
		frame = m.a.Frame(frame).Parent
	}
	m.a.Frame(frame).Values[index] = v
}
