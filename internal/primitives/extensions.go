package primitives

import "github.com/jcorbin/scm/internal/value"

// makeSyntacticClosure and identifierEqualP are carried over from the
// original roster as the minimal syntactic-closure primitive spec.md 1
// allows beyond full macro hygiene. No macro expander in this interpreter
// consumes the environment a syntactic closure would normally capture, so
// make-syntactic-closure degrades to returning its form argument
// unchanged, and identifier=? degrades to symbol-name equality; both are
// still useful to user code building its own expansion-time bookkeeping
// on top of quote and eval.
func makeSyntacticClosure(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 3 {
		return value.Invalid, arityError("make-syntactic-closure", args, "3")
	}
	return args[2], nil
}

func identifierEqualP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 4 {
		return value.Invalid, arityError("identifier=?", args, "4")
	}
	a, b := h.Get(args[1]), h.Get(args[3])
	if a.Kind != value.KindSymbol || b.Kind != value.KindSymbol {
		return value.Invalid, typeError("identifier=?", 1, "symbol", a.Kind)
	}
	return h.Bool(args[1] == args[3]), nil
}
