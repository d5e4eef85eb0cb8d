package lex

// charNames maps the character escape names spec.md 4.2 recognises to the
// rune each denotes, the mirror image of the arena's print-side table. It
// is built once at init time the way the teacher's internal/runeio builds
// ControlWords from its control-character tables.
var charNames map[string]rune

func init() {
	charNames = map[string]rune{
		"alarm":     '\a',
		"backspace": '\b',
		"delete":    127,
		"escape":    27,
		"newline":   '\n',
		"null":      0,
		"return":    '\r',
		"space":     ' ',
		"tab":       '\t',
	}
}
