// Package environment implements the compile-time name resolution of
// spec.md 4.5: a chain of lexical frames mapping names to (altitude,
// index) coordinates. It is deliberately separate from value.RuntimeEnv
// and value.ActivationFrame, which hold the run-time counterparts the two
// back-ends actually bind values into -- this package only ever runs
// during AST lowering and compilation.
package environment

// Binding is what a name resolves to within one frame: its slot index and
// whether set! is permitted on it.
type Binding struct {
	Index   int
	Mutable bool
}

// Env is one lexical frame, chained to its parent. The top-level Env
// returned by NewGlobal has no parent and holds the reserved slots and
// primitives.
type Env struct {
	parent   *Env
	bindings map[string]Binding
	order    []string
}

// NewGlobal returns a fresh top-level frame with no bindings.
func NewGlobal() *Env {
	return &Env{bindings: make(map[string]Binding)}
}

// Push returns a new child frame nested one altitude inside e, as entering
// a lambda body does.
func (e *Env) Push() *Env {
	return &Env{parent: e, bindings: make(map[string]Binding)}
}

// Parent returns the enclosing frame, or nil for the global frame.
func (e *Env) Parent() *Env { return e.parent }

// Define binds name to the next free slot in this frame and returns its
// index. Redefining a name already bound at this altitude is idempotent:
// it returns the existing index rather than allocating a new slot (spec.md
// 4.5).
func (e *Env) Define(name string, mutable bool) int {
	if b, ok := e.bindings[name]; ok {
		return b.Index
	}
	idx := len(e.order)
	e.bindings[name] = Binding{Index: idx, Mutable: mutable}
	e.order = append(e.order, name)
	return idx
}

// Size reports how many slots this frame has allocated, the width an
// ActivationFrame for it must have.
func (e *Env) Size() int { return len(e.order) }

// Names returns the bound names in definition order, used to size and
// grow the global activation frame as top-level defines accumulate.
func (e *Env) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Lookup walks the frame chain outward from e looking for name, returning
// the lexical depth (altitude) and slot index at which it was found.
func (e *Env) Lookup(name string) (altitude, index int, mutable, ok bool) {
	alt, idx, mut, _, found := e.LookupFull(name)
	return alt, idx, mut, found
}

// LookupFull is Lookup plus whether the binding lives in the global frame,
// which the VM back-end addresses directly by slot rather than by walking
// the activation-frame chain.
func (e *Env) LookupFull(name string) (altitude, index int, mutable, global, ok bool) {
	alt := 0
	for cur := e; cur != nil; cur = cur.parent {
		if b, found := cur.bindings[name]; found {
			return alt, b.Index, b.Mutable, cur.IsGlobal(), true
		}
		alt++
	}
	return 0, 0, false, false, false
}

// IsGlobal reports whether e is the top-level frame.
func (e *Env) IsGlobal() bool { return e.parent == nil }

// Global walks out to the top-level frame.
func (e *Env) Global() *Env {
	cur := e
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}
