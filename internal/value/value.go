// Package value defines the tagged union of runtime values that the arena
// owns, plus the record types (pairs, lambdas, activation frames,
// continuations, code blocks) those values carry. Nothing here allocates or
// mutates an arena; it is pure data, the same way the teacher's internal/mem
// package is pure storage with no opinion about what addresses mean.
package value

// Index is a stable handle into the arena. It is never reused and never
// invalidated for the lifetime of the arena (spec invariant I1).
type Index int

// Invalid is the placeholder for "no index" (-1, never a real arena index;
// it is not Index's zero value), used by fields such as a continuation's
// Next when there is no successor.
const Invalid Index = -1

// Kind tags which variant a Cell holds.
type Kind uint8

const (
	KindBoolean Kind = iota
	KindInteger
	KindReal
	KindCharacter
	KindSymbol
	KindString
	KindPair
	KindVector
	KindEmptyList
	KindUnspecified
	KindLambda
	KindPrimitive
	KindContinuation
	KindEnvironment
	KindActivationFrame
	KindCodeBlock
	KindClosure
	KindVMContinuation
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindCharacter:
		return "character"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindPair:
		return "pair"
	case KindVector:
		return "vector"
	case KindEmptyList:
		return "empty-list"
	case KindUnspecified:
		return "unspecified"
	case KindLambda:
		return "lambda"
	case KindPrimitive:
		return "primitive"
	case KindContinuation:
		return "continuation"
	case KindEnvironment:
		return "environment"
	case KindActivationFrame:
		return "activation-frame"
	case KindCodeBlock:
		return "code-block"
	case KindClosure:
		return "closure"
	case KindVMContinuation:
		return "vm-continuation"
	default:
		return "unknown"
	}
}

// Cell is one arena-owned cell. Only one of the payload fields is
// meaningful, selected by Kind (each field is named after the kind it
// serves; Text holds a Symbol's name). The
// scalar fields (Bool, Int, Real, Char, Text) are copied by value since
// those variants are immutable and equal-by-value (or by symbol identity,
// which is handled by the arena's interning, not by this struct). The
// pointer fields mark the mutable-container kinds called out by spec
// invariant I3: Pair, String, Vector, Lambda's closed-over frame,
// ActivationFrame, Environment and Continuation.
type Cell struct {
	Kind Kind

	Bool bool
	Int  int64
	Real float64
	Char rune
	Text string // Symbol's interned text

	Str    *StringData
	Pair   *PairData
	Vector *VectorData
	Lambda *Lambda
	Prim   *Primitive
	Cont   *Continuation
	Env     *RuntimeEnv
	Frame   *ActivationFrame
	Code    *CodeBlock
	Closure *Closure
	VMCont  *VMContinuation
}

// StringData is the mutable backing store of a String value.
type StringData struct {
	Runes []rune
}

// PairData is the mutable car/cdr pair of a Pair value.
type PairData struct {
	Car, Cdr Index
}

// VectorData is the mutable element sequence of a Vector value.
type VectorData struct {
	Items []Index
}

// Lambda is a closure: the environment it closed over, its formals list
// (proper, dotted, or a bare symbol), and its body (a list of forms).
type Lambda struct {
	Env     Index
	Formals Index
	Body    Index
	Name    string // best-effort, set by (define (name ...) ...) for error messages
}

// ActivationFrame is the VM back-end's run-time record of one procedure
// invocation's local bindings, chained by Parent to the frame the
// procedure's closure captured. Spec invariant I4 governs it: for every
// compile-time coordinate (altitude, index) ever emitted, walking Parent
// `altitude` times from the current frame yields a frame whose Values has
// length at least index+1.
type ActivationFrame struct {
	Parent Index // Invalid if this is the top-level frame
	Values []Index
}

// RuntimeEnv is the CPS back-end's run-time environment: a linked chain of
// name-to-value bindings, resolved by walking Parent at evaluation time
// (the CPS back-end, unlike the VM back-end, defers name resolution to run
// time -- see spec.md 4.4).
type RuntimeEnv struct {
	Parent   Index
	Bindings map[string]Binding
}

// Binding is one entry of a RuntimeEnv.
type Binding struct {
	Value   Index
	Mutable bool
}

// Closure is the VM back-end's run-time procedure value: a reference to a
// compiled CodeBlock plus the activation frame it closed over, the VM
// analogue of Lambda's (Env, Formals, Body) triple (spec.md 4.8).
type Closure struct {
	CodeBlock Index
	Frame     Index // Invalid if the code block closes over no frame (top-level)
	Name      string
}

// VMFrame is one entry of the VM back-end's call stack: the point to
// resume at (CodeBlock, PC) once the callee returns, and the activation
// frame that was active there.
type VMFrame struct {
	CodeBlock Index
	PC        int
	ActFrame  Index
}

// VMContinuation is the VM back-end's reified current continuation,
// spec.md 4.8's "captured copies of the return-descriptor stack plus
// current frame". Invoking it restores the snapshotted call stack and
// resumes with the supplied value. It is an escape continuation: it can
// only be invoked while the captured call stack is still a suffix of
// reality (see DESIGN.md), unlike the CPS back-end's fully general
// Continuation.
type VMContinuation struct {
	Frames []VMFrame
}
