package primitives

import (
	"fmt"

	"github.com/jcorbin/scm/internal/value"
)

// number reads a cell as a float64 plus whether it was exact (Integer) so
// arithmetic can decide the result's kind: the result is Integer only if
// every operand was Integer.
func number(h value.Heap, name string, i int, idx value.Index) (float64, bool, error) {
	c := h.Get(idx)
	switch c.Kind {
	case value.KindInteger:
		return float64(c.Int), true, nil
	case value.KindReal:
		return c.Real, false, nil
	default:
		return 0, false, typeError(name, i, "number", c.Kind)
	}
}

func numAdd(h value.Heap, args []value.Index) (value.Index, error) {
	return fold(h, "+", args, 0, func(a, b float64) float64 { return a + b })
}
func numMul(h value.Heap, args []value.Index) (value.Index, error) {
	return fold(h, "*", args, 1, func(a, b float64) float64 { return a * b })
}

func numSub(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) == 0 {
		return value.Invalid, arityError("-", args, "at least 1")
	}
	first, exact, err := number(h, "-", 0, args[0])
	if err != nil {
		return value.Invalid, err
	}
	if len(args) == 1 {
		return makeNumber(h, -first, exact), nil
	}
	for i, a := range args[1:] {
		v, ex, err := number(h, "-", i+1, a)
		if err != nil {
			return value.Invalid, err
		}
		first -= v
		exact = exact && ex
	}
	return makeNumber(h, first, exact), nil
}

func numDiv(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) == 0 {
		return value.Invalid, arityError("/", args, "at least 1")
	}
	if len(args) == 1 {
		v, _, err := number(h, "/", 0, args[0])
		if err != nil {
			return value.Invalid, err
		}
		if v == 0 {
			return value.Invalid, fmt.Errorf("/: division by zero")
		}
		return h.NewReal(1 / v), nil
	}
	acc, _, err := number(h, "/", 0, args[0])
	if err != nil {
		return value.Invalid, err
	}
	for i, a := range args[1:] {
		v, _, err := number(h, "/", i+1, a)
		if err != nil {
			return value.Invalid, err
		}
		if v == 0 {
			return value.Invalid, fmt.Errorf("/: division by zero")
		}
		acc /= v
	}
	return h.NewReal(acc), nil
}

func fold(h value.Heap, name string, args []value.Index, seed float64, op func(a, b float64) float64) (value.Index, error) {
	acc := seed
	exact := true
	for i, a := range args {
		v, ex, err := number(h, name, i, a)
		if err != nil {
			return value.Invalid, err
		}
		acc = op(acc, v)
		exact = exact && ex
	}
	return makeNumber(h, acc, exact), nil
}

func makeNumber(h value.Heap, v float64, exact bool) value.Index {
	if exact {
		return h.NewInteger(int64(v))
	}
	return h.NewReal(v)
}

func numCompare(h value.Heap, name string, args []value.Index, ok func(a, b float64) bool) (value.Index, error) {
	if len(args) < 2 {
		return value.Invalid, arityError(name, args, "at least 2")
	}
	prev, _, err := number(h, name, 0, args[0])
	if err != nil {
		return value.Invalid, err
	}
	for i, a := range args[1:] {
		cur, _, err := number(h, name, i+1, a)
		if err != nil {
			return value.Invalid, err
		}
		if !ok(prev, cur) {
			return h.False(), nil
		}
		prev = cur
	}
	return h.True(), nil
}

func numEqual(h value.Heap, args []value.Index) (value.Index, error) {
	return numCompare(h, "=", args, func(a, b float64) bool { return a == b })
}
func numLess(h value.Heap, args []value.Index) (value.Index, error) {
	return numCompare(h, "<", args, func(a, b float64) bool { return a < b })
}
func numGreater(h value.Heap, args []value.Index) (value.Index, error) {
	return numCompare(h, ">", args, func(a, b float64) bool { return a > b })
}
func numLessEqual(h value.Heap, args []value.Index) (value.Index, error) {
	return numCompare(h, "<=", args, func(a, b float64) bool { return a <= b })
}
func numGreaterEqual(h value.Heap, args []value.Index) (value.Index, error) {
	return numCompare(h, ">=", args, func(a, b float64) bool { return a >= b })
}

func integerP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("integer?", args, "1")
	}
	return h.Bool(h.Get(args[0]).Kind == value.KindInteger), nil
}

func realP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("real?", args, "1")
	}
	k := h.Get(args[0]).Kind
	return h.Bool(k == value.KindReal || k == value.KindInteger), nil
}
