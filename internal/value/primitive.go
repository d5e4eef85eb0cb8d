package value

// Heap is the surface a primitive implementation needs from the arena:
// enough to read, allocate and mutate values, so internal/primitives
// depends on this interface rather than importing internal/arena.
// internal/arena.Arena satisfies this.
type Heap interface {
	Get(Index) Cell
	Intern(Cell) Index
	True() Index
	False() Index
	EmptyList() Index
	Unspecified() Index
	Bool(bool) Index // True() or False() depending on the argument
	IsTruthy(Index) bool
	Eq(x, y Index) bool

	NewInteger(int64) Index
	NewReal(float64) Index
	NewCharacter(rune) Index
	NewString([]rune) Index
	NewPair(car, cdr Index) Index
	NewVector(n int, fill Index) Index

	Car(Index) Index
	Cdr(Index) Index
	SetCar(pair, car Index)
	SetCdr(pair, cdr Index)

	VectorLen(Index) int
	VectorItem(Index, int) Index
	SetVectorItem(vec Index, i int, item Index)

	StringLen(Index) int
	StringRef(Index, int) rune
	StringSet(s Index, i int, r rune)

	Symbolicate(name string) Index
	SymbolText(Index) string

	ListToSlice(Index) ([]Index, bool)
	SliceToList([]Index) Index
	ListLength(Index) (int, bool)

	String(Index) string
}

// PrimitiveKind selects one of the four call shapes spec.md 4.9 allows.
type PrimitiveKind uint8

const (
	// PrimSimple primitives see their arguments as an already-evaluated
	// slice of arena indices and return a single result index.
	PrimSimple PrimitiveKind = iota
	// PrimEval evaluates its single argument as a form in the global
	// environment.
	PrimEval
	// PrimApply rearranges its last argument, a list, into the call frame
	// of its first argument.
	PrimApply
	// PrimCallCC reifies the current continuation and passes it as the
	// one argument to its receiver.
	PrimCallCC
)

// SimpleFunc is the implementation signature for PrimSimple primitives.
type SimpleFunc func(h Heap, args []Index) (Index, error)

// Primitive is {name, implementation} from spec.md 4.9: a uniform call
// shape for built-ins, including APPLY and CALL/CC by tag rather than by
// open extension (spec.md 9, "Dynamic dispatch on value variant").
type Primitive struct {
	Name string
	Kind PrimitiveKind
	Fn   SimpleFunc // meaningful only when Kind == PrimSimple
}
