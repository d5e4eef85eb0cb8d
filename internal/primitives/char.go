package primitives

import (
	"unicode"

	"github.com/jcorbin/scm/internal/value"
)

func char(h value.Heap, name string, args []value.Index, want int) (rune, error) {
	if len(args) != want {
		return 0, arityError(name, args, "1")
	}
	c := h.Get(args[0])
	if c.Kind != value.KindCharacter {
		return 0, typeError(name, 0, "char", c.Kind)
	}
	return c.Char, nil
}

func charP(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("char?", args, "1")
	}
	return h.Bool(h.Get(args[0]).Kind == value.KindCharacter), nil
}

func charToInteger(h value.Heap, args []value.Index) (value.Index, error) {
	r, err := char(h, "char->integer", args, 1)
	if err != nil {
		return value.Invalid, err
	}
	return h.NewInteger(int64(r)), nil
}

func integerToChar(h value.Heap, args []value.Index) (value.Index, error) {
	if len(args) != 1 {
		return value.Invalid, arityError("integer->char", args, "1")
	}
	c := h.Get(args[0])
	if c.Kind != value.KindInteger {
		return value.Invalid, typeError("integer->char", 0, "integer", c.Kind)
	}
	if c.Int < 0 || c.Int > 0x10FFFF {
		return value.Invalid, typeError("integer->char", 0, "valid character code", c.Kind)
	}
	return h.NewCharacter(rune(c.Int)), nil
}

func charPred(name string, pred func(rune) bool) value.SimpleFunc {
	return func(h value.Heap, args []value.Index) (value.Index, error) {
		r, err := char(h, name, args, 1)
		if err != nil {
			return value.Invalid, err
		}
		return h.Bool(pred(r)), nil
	}
}

func charMap(name string, fn func(rune) rune) value.SimpleFunc {
	return func(h value.Heap, args []value.Index) (value.Index, error) {
		r, err := char(h, name, args, 1)
		if err != nil {
			return value.Invalid, err
		}
		return h.NewCharacter(fn(r)), nil
	}
}

var charAlphabeticP = charPred("char-alphabetic?", unicode.IsLetter)
var charNumericP = charPred("char-numeric?", unicode.IsDigit)
var charWhitespaceP = charPred("char-whitespace?", unicode.IsSpace)
var charLowerCaseP = charPred("char-lower-case?", unicode.IsLower)
var charUpperCaseP = charPred("char-upper-case?", unicode.IsUpper)
var charUpcase = charMap("char-upcase", unicode.ToUpper)
var charDowncase = charMap("char-downcase", unicode.ToLower)
