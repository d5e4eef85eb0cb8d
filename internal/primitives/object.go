package primitives

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/scm/internal/value"
)

// eqP implements eq? per the per-variant rule table in spec.md 3, which
// value.Heap's own Eq already encodes.
func eqP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 2 {
		return value.Invalid, arityError("eq?", args, "2")
	}
	return h.Bool(h.Eq(args[0], args[1])), nil
}

// eqvP is eq? extended to compare Real by value rather than identity.
func eqvP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 2 {
		return value.Invalid, arityError("eqv?", args, "2")
	}
	if h.Eq(args[0], args[1]) {
		return h.True(), nil
	}
	ca, cb := h.Get(args[0]), h.Get(args[1])
	if ca.Kind == value.KindReal && cb.Kind == value.KindReal {
		return h.Bool(ca.Real == cb.Real), nil
	}
	return h.False(), nil
}

// equalP recursively compares pairs, strings and vectors by structure, and
// falls back to eqv? for everything else.
func equalP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 2 {
		return value.Invalid, arityError("equal?", args, "2")
	}
	return h.Bool(deepEqual(h, args[0], args[1])), nil
}

func deepEqual(h value.Heap, x, y value.Index) bool {
	cx, cy := h.Get(x), h.Get(y)
	if cx.Kind != cy.Kind {
		return false
	}
	switch cx.Kind {
	case value.KindPair:
		return deepEqual(h, h.Car(x), h.Car(y)) && deepEqual(h, h.Cdr(x), h.Cdr(y))
	case value.KindString:
		return h.String(x) == h.String(y)
	case value.KindVector:
		if h.VectorLen(x) != h.VectorLen(y) {
			return false
		}
		for i := 0; i < h.VectorLen(x); i++ {
			if !deepEqual(h, h.VectorItem(x, i), h.VectorItem(y, i)) {
				return false
			}
		}
		return true
	default:
		v, _ := eqvP(h, []value.Index{x, y})
		return v == h.True()
	}
}

func procedureP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("procedure?", args, "1")
	}
	switch h.Get(args[0]).Kind {
	case value.KindLambda, value.KindPrimitive, value.KindContinuation, value.KindClosure, value.KindVMContinuation:
		return h.True(), nil
	default:
		return h.False(), nil
	}
}

func errorPrim(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) == 0 {
		return value.Invalid, fmt.Errorf("error")
	}
	msg := h.String(args[0])
	if h.Get(args[0]).Kind == value.KindString {
		msg = string([]rune(msg)[1 : len([]rune(msg))-1]) // strip the quotes Write adds
	}
	parts := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		parts = append(parts, h.String(a))
	}
	if len(parts) > 0 {
		msg = msg + ": " + strings.Join(parts, " ")
	}
	return value.Invalid, fmt.Errorf("%s", msg)
}

// display writes v's external representation to out, bound at
// registration time the way the teacher's io.go binds a term's output
// writer via a functional option rather than a global.
func display(out io.Writer) value.SimpleFunc {
	return func(h value.Heap, args []value.Index) (value.Index, error) {
		if len(args) < 1 || len(args) > 2 {
			return value.Invalid, arityError("display", args, "1 or 2")
		}
		s := h.String(args[0])
		if h.Get(args[0]).Kind == value.KindString {
			s = string([]rune(s)[1 : len([]rune(s))-1])
		}
		io.WriteString(out, s)
		return h.Unspecified(), nil
	}
}
