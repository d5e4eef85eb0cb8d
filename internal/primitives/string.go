package primitives

import "github.com/jcorbin/scm/internal/value"

func stringP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("string?", args, "1")
	}
	return h.Bool(h.Get(args[0]).Kind == value.KindString), nil
}

func makeString(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 && len(args) != 2 {
		return value.Invalid, arityError("make-string", args, "1 or 2")
	}
	n := h.Get(args[0])
	if n.Kind != value.KindInteger || n.Int < 0 {
		return value.Invalid, typeError("make-string", 0, "non-negative integer", n.Kind)
	}
	fill := ' '
	if len(args) == 2 {
		c := h.Get(args[1])
		if c.Kind != value.KindCharacter {
			return value.Invalid, typeError("make-string", 1, "char", c.Kind)
		}
		fill = c.Char
	}
	runes := make([]rune, n.Int)
	for i := range runes {
		runes[i] = fill
	}
	return h.NewString(runes), nil
}

func stringLength(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("string-length", args, "1")
	}
	if h.Get(args[0]).Kind != value.KindString {
		return value.Invalid, typeError("string-length", 0, "string", h.Get(args[0]).Kind)
	}
	return h.NewInteger(int64(h.StringLen(args[0]))), nil
}

func stringRef(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 2 {
		return value.Invalid, arityError("string-ref", args, "2")
	}
	s, idx := h.Get(args[0]), h.Get(args[1])
	if s.Kind != value.KindString {
		return value.Invalid, typeError("string-ref", 0, "string", s.Kind)
	}
	if idx.Kind != value.KindInteger || idx.Int < 0 || int(idx.Int) >= h.StringLen(args[0]) {
		return value.Invalid, typeError("string-ref", 1, "valid index", idx.Kind)
	}
	return h.NewCharacter(h.StringRef(args[0], int(idx.Int))), nil
}

func stringSetB(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 3 {
		return value.Invalid, arityError("string-set!", args, "3")
	}
	s, idx, c := h.Get(args[0]), h.Get(args[1]), h.Get(args[2])
	if s.Kind != value.KindString {
		return value.Invalid, typeError("string-set!", 0, "string", s.Kind)
	}
	if idx.Kind != value.KindInteger || idx.Int < 0 || int(idx.Int) >= h.StringLen(args[0]) {
		return value.Invalid, typeError("string-set!", 1, "valid index", idx.Kind)
	}
	if c.Kind != value.KindCharacter {
		return value.Invalid, typeError("string-set!", 2, "char", c.Kind)
	}
	h.StringSet(args[0], int(idx.Int), c.Char)
	return h.Unspecified(), nil
}

func symbolToString(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("symbol->string", args, "1")
	}
	c := h.Get(args[0])
	if c.Kind != value.KindSymbol {
		return value.Invalid, typeError("symbol->string", 0, "symbol", c.Kind)
	}
	return h.NewString([]rune(h.SymbolText(args[0]))), nil
}

func stringToSymbol(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("string->symbol", args, "1")
	}
	c := h.Get(args[0])
	if c.Kind != value.KindString {
		return value.Invalid, typeError("string->symbol", 0, "string", c.Kind)
	}
	runes := make([]rune, h.StringLen(args[0]))
	for i := range runes {
		runes[i] = h.StringRef(args[0], i)
	}
	return h.Symbolicate(string(runes)), nil
}

func symbolP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("symbol?", args, "1")
	}
	return h.Bool(h.Get(args[0]).Kind == value.KindSymbol), nil
}
