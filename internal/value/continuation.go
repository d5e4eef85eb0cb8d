package value

// ContinuationKind tags which pending-work variant a Continuation holds.
// These are exactly the seven cases of spec.md 4.6: each additionally
// carries its successor continuation in Next (Invalid for TopLevel, which
// has none).
type ContinuationKind uint8

const (
	ContTopLevel ContinuationKind = iota
	ContIf
	ContBegin
	ContSet
	ContEvFun
	ContArgument
	ContApply
)

// Continuation reifies one step of pending evaluation work as heap data, so
// continuations compose like any other value (spec.md 3, "Continuation
// (first-class)"). Only the fields relevant to Kind are meaningful; see the
// table in spec.md 4.6 for the semantics of each.
type Continuation struct {
	Kind ContinuationKind
	Next Index

	Env Index // environment in scope when this continuation was captured

	// ContIf. IfHasElse distinguishes the two-operand form (no else,
	// false branch yields unspecified) from the three-operand form.
	IfTrue, IfFalse Index
	IfHasElse       bool

	// ContBegin
	BeginBody Index // remaining forms, a list

	// ContSet
	SetName   string
	SetDefine bool

	// ContEvFun
	EvFunArgs Index // unevaluated operand forms, a list

	// ContArgument: ArgRemaining holds the operand forms not yet evaluated,
	// and ArgEvaluated accumulates results left to right. When
	// ArgRemaining is exhausted, ArgEvaluated (consed back into a list) is
	// delivered as the resume value of the ContApply continuation reached
	// via Next.
	ArgRemaining Index
	ArgEvaluated []Index

	// ContApply: Fun has been evaluated, and the value resumed into this
	// continuation is the complete, already-evaluated argument list.
	ApplyFun Index
}
