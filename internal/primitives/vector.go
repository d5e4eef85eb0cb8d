package primitives

import "github.com/jcorbin/scm/internal/value"

func vectorP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("vector?", args, "1")
	}
	return h.Bool(h.Get(args[0]).Kind == value.KindVector), nil
}

func makeVector(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 && len(args) != 2 {
		return value.Invalid, arityError("make-vector", args, "1 or 2")
	}
	n := h.Get(args[0])
	if n.Kind != value.KindInteger || n.Int < 0 {
		return value.Invalid, typeError("make-vector", 0, "non-negative integer", n.Kind)
	}
	fill := h.Unspecified()
	if len(args) == 2 {
		fill = args[1]
	}
	return h.NewVector(int(n.Int), fill), nil
}

func vectorLength(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("vector-length", args, "1")
	}
	if h.Get(args[0]).Kind != value.KindVector {
		return value.Invalid, typeError("vector-length", 0, "vector", h.Get(args[0]).Kind)
	}
	return h.NewInteger(int64(h.VectorLen(args[0]))), nil
}

func vectorRef(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 2 {
		return value.Invalid, arityError("vector-ref", args, "2")
	}
	v, idx := h.Get(args[0]), h.Get(args[1])
	if v.Kind != value.KindVector {
		return value.Invalid, typeError("vector-ref", 0, "vector", v.Kind)
	}
	if idx.Kind != value.KindInteger || idx.Int < 0 || int(idx.Int) >= h.VectorLen(args[0]) {
		return value.Invalid, typeError("vector-ref", 1, "valid index", idx.Kind)
	}
	return h.VectorItem(args[0], int(idx.Int)), nil
}

func vectorSetB(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 3 {
		return value.Invalid, arityError("vector-set!", args, "3")
	}
	v, idx := h.Get(args[0]), h.Get(args[1])
	if v.Kind != value.KindVector {
		return value.Invalid, typeError("vector-set!", 0, "vector", v.Kind)
	}
	if idx.Kind != value.KindInteger || idx.Int < 0 || int(idx.Int) >= h.VectorLen(args[0]) {
		return value.Invalid, typeError("vector-set!", 1, "valid index", idx.Kind)
	}
	h.SetVectorItem(args[0], int(idx.Int), args[2])
	return h.Unspecified(), nil
}
