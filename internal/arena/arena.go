// Package arena implements the growable, one-way heap that owns every
// runtime value in the interpreter (spec.md 3-4.1). Handles are stable
// value.Index integers rather than pointers: the value graph is cyclic (a
// closure holds an environment that can hold that very closure; a
// continuation holds its predecessor), and indirection through indices
// dissolves those cycles at the ownership layer the way the teacher's
// internal/mem package dissolves Forth's dictionary-and-return-stack
// aliasing into plain integer addresses into one growable []int.
package arena

import (
	"fmt"

	"github.com/jcorbin/scm/internal/value"
)

// cellChunk rounds cell-storage growth up to fixed-size chunks, the same
// amortization internals.go's vm.grow used for FIRST's main memory.
const cellChunk = 256

// Arena is the single heap of runtime values for one interpreter session.
// It never shrinks and never reuses an index (spec invariant I1): growth is
// monotonic for the life of the session, matching the explicit Non-goal of
// a compacting collector.
type Arena struct {
	cells   []value.Cell
	symbols map[string]value.Index
	roots   map[value.Index]int

	t, f, empty, unspec value.Index
}

// New creates an arena with the well-known singletons (spec invariant I2)
// already interned at fixed indices.
func New() *Arena {
	a := &Arena{symbols: make(map[string]value.Index), roots: make(map[value.Index]int)}
	a.t = a.intern(value.Cell{Kind: value.KindBoolean, Bool: true})
	a.f = a.intern(value.Cell{Kind: value.KindBoolean, Bool: false})
	a.empty = a.intern(value.Cell{Kind: value.KindEmptyList})
	a.unspec = a.intern(value.Cell{Kind: value.KindUnspecified})
	return a
}

// True, False, EmptyList and Unspecified are the fixed indices published by
// the arena per spec invariant I2.
func (a *Arena) True() value.Index       { return a.t }
func (a *Arena) False() value.Index      { return a.f }
func (a *Arena) EmptyList() value.Index  { return a.empty }
func (a *Arena) Unspecified() value.Index { return a.unspec }

// Bool returns True() or False() for the given host bool.
func (a *Arena) Bool(b bool) value.Index {
	if b {
		return a.t
	}
	return a.f
}

// IsTruthy implements Scheme's truthiness rule: everything except #f is
// true (spec.md 4.6, the If continuation).
func (a *Arena) IsTruthy(i value.Index) bool {
	c := a.Get(i)
	return c.Kind != value.KindBoolean || c.Bool
}

func (a *Arena) grow(n int) {
	if need := n - cap(a.cells); need > 0 {
		chunked := (n + cellChunk - 1) / cellChunk * cellChunk
		grown := make([]value.Cell, len(a.cells), chunked)
		copy(grown, a.cells)
		a.cells = grown
	}
}

// Intern appends a new cell to the arena and returns its stable index. No
// existing index is ever invalidated by a later Intern call.
func (a *Arena) Intern(c value.Cell) value.Index { return a.intern(c) }

func (a *Arena) intern(c value.Cell) value.Index {
	a.grow(len(a.cells) + 1)
	a.cells = append(a.cells, c)
	return value.Index(len(a.cells) - 1)
}

// Get returns the cell at index. Panics on an out-of-range index, which
// spec.md 7 treats as an implementation bug rather than a user-visible
// error: a valid index is never fabricated outside this package.
func (a *Arena) Get(i value.Index) value.Cell {
	if i < 0 || int(i) >= len(a.cells) {
		panic(fmt.Sprintf("arena: index %d out of range (size %d)", i, len(a.cells)))
	}
	return a.cells[i]
}

// Len reports the number of cells ever interned, for dump/debug output.
func (a *Arena) Len() int { return len(a.cells) }

// Symbolicate interns the symbol named name exactly once: repeated calls
// with equal text return the same index (spec invariant #2), which is what
// makes eq? on symbols an index comparison.
func (a *Arena) Symbolicate(name string) value.Index {
	if i, ok := a.symbols[name]; ok {
		return i
	}
	i := a.intern(value.Cell{Kind: value.KindSymbol, Text: name})
	a.symbols[name] = i
	return i
}

// SymbolText returns the text of a symbol cell; it panics if i is not a
// symbol, since callers are expected to have already checked the kind.
func (a *Arena) SymbolText(i value.Index) string {
	c := a.Get(i)
	if c.Kind != value.KindSymbol {
		panic(fmt.Sprintf("arena: SymbolText on non-symbol kind %v", c.Kind))
	}
	return c.Text
}

// NewInteger, NewReal and NewCharacter intern immutable scalar values.
func (a *Arena) NewInteger(n int64) value.Index  { return a.intern(value.Cell{Kind: value.KindInteger, Int: n}) }
func (a *Arena) NewReal(f float64) value.Index   { return a.intern(value.Cell{Kind: value.KindReal, Real: f}) }
func (a *Arena) NewCharacter(r rune) value.Index { return a.intern(value.Cell{Kind: value.KindCharacter, Char: r}) }

// NewString interns a fresh mutable string cell from the given runes.
func (a *Arena) NewString(runes []rune) value.Index {
	cp := make([]rune, len(runes))
	copy(cp, runes)
	return a.intern(value.Cell{Kind: value.KindString, Str: &value.StringData{Runes: cp}})
}

// NewPair interns a fresh mutable cons cell.
func (a *Arena) NewPair(car, cdr value.Index) value.Index {
	return a.intern(value.Cell{Kind: value.KindPair, Pair: &value.PairData{Car: car, Cdr: cdr}})
}

// NewVector interns a fresh mutable vector of n elements, all initialized
// to fill.
func (a *Arena) NewVector(n int, fill value.Index) value.Index {
	items := make([]value.Index, n)
	for i := range items {
		items[i] = fill
	}
	return a.intern(value.Cell{Kind: value.KindVector, Vector: &value.VectorData{Items: items}})
}

// StringLen, StringRef and StringSet access a string's interior.
func (a *Arena) StringLen(s value.Index) int {
	c := a.Get(s)
	if c.Kind != value.KindString {
		panic(fmt.Sprintf("arena: expected string, got %v", c.Kind))
	}
	return len(c.Str.Runes)
}

func (a *Arena) StringRef(s value.Index, i int) rune {
	c := a.Get(s)
	if c.Kind != value.KindString {
		panic(fmt.Sprintf("arena: expected string, got %v", c.Kind))
	}
	return c.Str.Runes[i]
}

func (a *Arena) StringSet(s value.Index, i int, r rune) {
	c := a.Get(s)
	if c.Kind != value.KindString {
		panic(fmt.Sprintf("arena: expected string, got %v", c.Kind))
	}
	c.Str.Runes[i] = r
}

// SetVectorItem mutates one element of a vector's interior.
func (a *Arena) SetVectorItem(vec value.Index, i int, item value.Index) {
	c := a.Get(vec)
	if c.Kind != value.KindVector {
		panic(fmt.Sprintf("arena: expected vector, got %v", c.Kind))
	}
	c.Vector.Items[i] = item
}

// VectorLen and VectorItem read a vector's interior.
func (a *Arena) VectorLen(vec value.Index) int {
	c := a.Get(vec)
	if c.Kind != value.KindVector {
		panic(fmt.Sprintf("arena: expected vector, got %v", c.Kind))
	}
	return len(c.Vector.Items)
}

func (a *Arena) VectorItem(vec value.Index, i int) value.Index {
	c := a.Get(vec)
	if c.Kind != value.KindVector {
		panic(fmt.Sprintf("arena: expected vector, got %v", c.Kind))
	}
	return c.Vector.Items[i]
}

// SetCar and SetCdr mutate a pair's interior, as spec invariant I3 allows.
func (a *Arena) SetCar(pair, car value.Index) { a.pairOf(pair).Car = car }
func (a *Arena) SetCdr(pair, cdr value.Index) { a.pairOf(pair).Cdr = cdr }

func (a *Arena) pairOf(i value.Index) *value.PairData {
	c := a.Get(i)
	if c.Kind != value.KindPair {
		panic(fmt.Sprintf("arena: expected pair, got %v", c.Kind))
	}
	return c.Pair
}

// Car and Cdr read a pair's interior.
func (a *Arena) Car(i value.Index) value.Index { return a.pairOf(i).Car }
func (a *Arena) Cdr(i value.Index) value.Index { return a.pairOf(i).Cdr }

// NewLambda interns a closure value.
func (a *Arena) NewLambda(l value.Lambda) value.Index {
	cp := l
	return a.intern(value.Cell{Kind: value.KindLambda, Lambda: &cp})
}

// NewPrimitive interns a primitive descriptor value.
func (a *Arena) NewPrimitive(p value.Primitive) value.Index {
	cp := p
	return a.intern(value.Cell{Kind: value.KindPrimitive, Prim: &cp})
}

// NewActivationFrame interns a fresh run-time activation frame.
func (a *Arena) NewActivationFrame(parent value.Index, values []value.Index) value.Index {
	return a.intern(value.Cell{Kind: value.KindActivationFrame, Frame: &value.ActivationFrame{Parent: parent, Values: values}})
}

// NewRuntimeEnv interns a fresh CPS run-time environment frame.
func (a *Arena) NewRuntimeEnv(parent value.Index) value.Index {
	return a.intern(value.Cell{Kind: value.KindEnvironment, Env: &value.RuntimeEnv{Parent: parent, Bindings: make(map[string]value.Binding)}})
}

// NewCodeBlock interns a compiled procedure body.
func (a *Arena) NewCodeBlock(cb value.CodeBlock) value.Index {
	cp := cb
	return a.intern(value.Cell{Kind: value.KindCodeBlock, Code: &cp})
}

// NewContinuation interns a continuation value, the convenience mentioned
// in spec.md 4.1.
func (a *Arena) NewContinuation(c value.Continuation) value.Index {
	cp := c
	return a.intern(value.Cell{Kind: value.KindContinuation, Cont: &cp})
}

// NewClosure interns a VM closure value.
func (a *Arena) NewClosure(c value.Closure) value.Index {
	cp := c
	return a.intern(value.Cell{Kind: value.KindClosure, Closure: &cp})
}

// Closure returns the closure record at i.
func (a *Arena) Closure(i value.Index) *value.Closure {
	c := a.Get(i)
	if c.Kind != value.KindClosure {
		panic(fmt.Sprintf("arena: expected closure, got %v", c.Kind))
	}
	return c.Closure
}

// NewVMContinuation interns a VM back-end escape continuation snapshot.
func (a *Arena) NewVMContinuation(c value.VMContinuation) value.Index {
	cp := c
	return a.intern(value.Cell{Kind: value.KindVMContinuation, VMCont: &cp})
}

// VMContinuation returns the VM continuation record at i.
func (a *Arena) VMContinuation(i value.Index) *value.VMContinuation {
	c := a.Get(i)
	if c.Kind != value.KindVMContinuation {
		panic(fmt.Sprintf("arena: expected vm-continuation, got %v", c.Kind))
	}
	return c.VMCont
}

// Frame returns the mutable activation frame record at i.
func (a *Arena) Frame(i value.Index) *value.ActivationFrame {
	c := a.Get(i)
	if c.Kind != value.KindActivationFrame {
		panic(fmt.Sprintf("arena: expected activation frame, got %v", c.Kind))
	}
	return c.Frame
}

// Env returns the mutable CPS environment record at i.
func (a *Arena) Env(i value.Index) *value.RuntimeEnv {
	c := a.Get(i)
	if c.Kind != value.KindEnvironment {
		panic(fmt.Sprintf("arena: expected environment, got %v", c.Kind))
	}
	return c.Env
}

// CodeBlock returns the code block record at i.
func (a *Arena) CodeBlock(i value.Index) *value.CodeBlock {
	c := a.Get(i)
	if c.Kind != value.KindCodeBlock {
		panic(fmt.Sprintf("arena: expected code block, got %v", c.Kind))
	}
	return c.Code
}

// Continuation returns the continuation record at i.
func (a *Arena) Continuation(i value.Index) *value.Continuation {
	c := a.Get(i)
	if c.Kind != value.KindContinuation {
		panic(fmt.Sprintf("arena: expected continuation, got %v", c.Kind))
	}
	return c.Cont
}

// Eq implements eq? per the per-variant rule table in spec.md 3: booleans
// compare by value (they are singletons anyway), numbers compare by value
// for Integer/Character but by identity for Real (matching the table), and
// everything else compares by index identity.
func (a *Arena) Eq(x, y value.Index) bool {
	if x == y {
		return true
	}
	cx, cy := a.Get(x), a.Get(y)
	if cx.Kind != cy.Kind {
		return false
	}
	switch cx.Kind {
	case value.KindBoolean:
		return cx.Bool == cy.Bool
	case value.KindInteger:
		return cx.Int == cy.Int
	case value.KindCharacter:
		return cx.Char == cy.Char
	default:
		return false
	}
}
