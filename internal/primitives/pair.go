package primitives

import "github.com/jcorbin/scm/internal/value"

func pairP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("pair?", args, "1")
	}
	return h.Bool(h.Get(args[0]).Kind == value.KindPair), nil
}

func cons(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 2 {
		return value.Invalid, arityError("cons", args, "2")
	}
	return h.NewPair(args[0], args[1]), nil
}

func car(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("car", args, "1")
	}
	if h.Get(args[0]).Kind != value.KindPair {
		return value.Invalid, typeError("car", 0, "pair", h.Get(args[0]).Kind)
	}
	return h.Car(args[0]), nil
}

func cdr(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("cdr", args, "1")
	}
	if h.Get(args[0]).Kind != value.KindPair {
		return value.Invalid, typeError("cdr", 0, "pair", h.Get(args[0]).Kind)
	}
	return h.Cdr(args[0]), nil
}

func setCarB(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 2 {
		return value.Invalid, arityError("set-car!", args, "2")
	}
	if h.Get(args[0]).Kind != value.KindPair {
		return value.Invalid, typeError("set-car!", 0, "pair", h.Get(args[0]).Kind)
	}
	h.SetCar(args[0], args[1])
	return h.Unspecified(), nil
}

func setCdrB(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 2 {
		return value.Invalid, arityError("set-cdr!", args, "2")
	}
	if h.Get(args[0]).Kind != value.KindPair {
		return value.Invalid, typeError("set-cdr!", 0, "pair", h.Get(args[0]).Kind)
	}
	h.SetCdr(args[0], args[1])
	return h.Unspecified(), nil
}
