package lex

import (
	"fmt"
	"strconv"
	"strings"
)

// Error reports a lex failure at a rune offset into the line that produced
// it, spec.md 7's "Lex error" kind.
type Error struct {
	Pos int
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("lex error at %d: %s", e.Pos, e.Msg) }

func errAt(pos int, format string, args ...interface{}) error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func isDelim(r rune) bool {
	switch r {
	case '(', ')', '\'', '`', ',', ';', '"', ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// Lex recognises the token kinds of spec.md 4.2 in a line of source text.
// A line need not be one complete form; Segmenter groups tokens from one or
// more calls to Lex into complete top-level forms.
func Lex(line string) ([]Token, error) {
	runes := []rune(line)
	var toks []Token
	i := 0
	n := len(runes)
	for i < n {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			i++
		case r == ';':
			i = n // line comment: rest of the line is ignored
		case r == '(':
			toks = append(toks, Token{Kind: KindLParen, Text: "("})
			i++
		case r == ')':
			toks = append(toks, Token{Kind: KindRParen, Text: ")"})
			i++
		case r == '\'':
			toks = append(toks, Token{Kind: KindQuote, Text: "'"})
			i++
		case r == '`':
			toks = append(toks, Token{Kind: KindQuasiquote, Text: "`"})
			i++
		case r == ',':
			if i+1 < n && runes[i+1] == '@' {
				toks = append(toks, Token{Kind: KindUnquoteSplicing, Text: ",@"})
				i += 2
			} else {
				toks = append(toks, Token{Kind: KindUnquote, Text: ","})
				i++
			}
		case r == '"':
			tok, next, err := lexString(runes, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next
		case r == '#':
			tok, next, err := lexHash(runes, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next
		default:
			tok, next := lexAtom(runes, i)
			toks = append(toks, tok)
			i = next
		}
	}
	return toks, nil
}

func lexString(runes []rune, start int) (Token, int, error) {
	i := start + 1
	n := len(runes)
	var sb strings.Builder
	for {
		if i >= n {
			return Token{}, i, errAt(start, "unterminated string")
		}
		r := runes[i]
		if r == '"' {
			i++
			break
		}
		if r == '\\' {
			if i+1 >= n {
				return Token{}, i, errAt(start, "unterminated string escape")
			}
			esc := runes[i+1]
			switch esc {
			case 'a':
				sb.WriteRune('\a')
			case 'b':
				sb.WriteRune('\b')
			case 't':
				sb.WriteRune('\t')
			case 'n':
				sb.WriteRune('\n')
			case 'r':
				sb.WriteRune('\r')
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			case '|':
				sb.WriteRune('|')
			default:
				return Token{}, i, errAt(i, "illegal string escape \\%c", esc)
			}
			i += 2
			continue
		}
		sb.WriteRune(r)
		i++
	}
	text := string(runes[start:i])
	return Token{Kind: KindString, Text: text, Str: sb.String()}, i, nil
}

func lexHash(runes []rune, start int) (Token, int, error) {
	n := len(runes)
	if start+1 >= n {
		return Token{}, start, errAt(start, "illegal character after #")
	}
	switch runes[start+1] {
	case 't':
		return Token{Kind: KindBoolean, Text: "#t", Bool: true}, start + 2, nil
	case 'f':
		return Token{Kind: KindBoolean, Text: "#f", Bool: false}, start + 2, nil
	case '(':
		return Token{Kind: KindVectorOpen, Text: "#("}, start + 2, nil
	case '\\':
		return lexCharacter(runes, start)
	case 'b', 'o', 'd', 'x':
		return lexRadixInteger(runes, start)
	default:
		return Token{}, start, errAt(start, "illegal character after #: %c", runes[start+1])
	}
}

func lexCharacter(runes []rune, start int) (Token, int, error) {
	i := start + 2
	n := len(runes)
	if i >= n {
		return Token{}, i, errAt(start, "unterminated character literal")
	}
	j := i + 1
	for j < n && !isDelim(runes[j]) {
		j++
	}
	name := string(runes[i:j])
	if j == i+1 {
		// A single character always stands for itself, even if it
		// happens to also be a delimiter (e.g. #\( or #\space's s).
		r := runes[i]
		return Token{Kind: KindCharacter, Text: string(runes[start:j]), Char: r}, j, nil
	}
	if r, ok := charNames[strings.ToLower(name)]; ok {
		return Token{Kind: KindCharacter, Text: string(runes[start:j]), Char: r}, j, nil
	}
	return Token{}, i, errAt(i, "unknown character name %q", name)
}

func lexRadixInteger(runes []rune, start int) (Token, int, error) {
	prefix := runes[start+1]
	base := map[rune]int{'b': 2, 'o': 8, 'd': 10, 'x': 16}[prefix]
	i := start + 2
	n := len(runes)
	j := i
	for j < n && !isDelim(runes[j]) {
		j++
	}
	digits := string(runes[i:j])
	val, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return Token{}, i, errAt(i, "malformed base-%d integer literal %q", base, digits)
	}
	return Token{Kind: KindInteger, Text: string(runes[start:j]), Int: val}, j, nil
}

func lexAtom(runes []rune, start int) (Token, int) {
	i := start
	n := len(runes)
	for i < n && !isDelim(runes[i]) {
		i++
	}
	text := string(runes[start:i])
	if text == "." {
		return Token{Kind: KindDot, Text: text}, i
	}
	if iv, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Token{Kind: KindInteger, Text: text, Int: iv}, i
	}
	if looksReal(text) {
		if fv, err := strconv.ParseFloat(text, 64); err == nil {
			return Token{Kind: KindReal, Text: text, Real: fv}, i
		}
	}
	return Token{Kind: KindSymbol, Text: text}, i
}

// looksReal reports whether text has the shape of a real-number literal
// per spec.md 4.2: it contains a decimal point or an exponent marker, with
// an optional leading sign.
func looksReal(text string) bool {
	body := text
	if len(body) > 0 && (body[0] == '+' || body[0] == '-') {
		body = body[1:]
	}
	if body == "" {
		return false
	}
	return strings.ContainsAny(body, ".eE")
}
