package arena

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcorbin/scm/internal/value"
)

// Write renders i in Scheme external representation, the form read back by
// internal/read. It is used by the REPL to print results and by --dump to
// render heap contents.
func (a *Arena) Write(w io.Writer, i value.Index) {
	a.write(w, i, make(map[value.Index]bool))
}

// String is the Write form captured to a string, used by error messages
// and tests.
func (a *Arena) String(i value.Index) string {
	var sb strings.Builder
	a.Write(&sb, i)
	return sb.String()
}

func (a *Arena) write(w io.Writer, i value.Index, seen map[value.Index]bool) {
	c := a.Get(i)
	switch c.Kind {
	case value.KindBoolean:
		if c.Bool {
			io.WriteString(w, "#t")
		} else {
			io.WriteString(w, "#f")
		}
	case value.KindInteger:
		io.WriteString(w, strconv.FormatInt(c.Int, 10))
	case value.KindReal:
		s := strconv.FormatFloat(c.Real, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0" // an integral real still reads back as a real
		}
		io.WriteString(w, s)
	case value.KindCharacter:
		fmt.Fprintf(w, "#\\%s", charName(c.Char))
	case value.KindSymbol:
		io.WriteString(w, c.Text)
	case value.KindString:
		fmt.Fprintf(w, "%q", string(c.Str.Runes))
	case value.KindEmptyList:
		io.WriteString(w, "()")
	case value.KindUnspecified:
		io.WriteString(w, "")
	case value.KindPair:
		a.writePair(w, i, seen)
	case value.KindVector:
		io.WriteString(w, "#(")
		for n, el := range c.Vector.Items {
			if n > 0 {
				io.WriteString(w, " ")
			}
			a.write(w, el, seen)
		}
		io.WriteString(w, ")")
	case value.KindLambda:
		if c.Lambda.Name != "" {
			fmt.Fprintf(w, "#<procedure %s>", c.Lambda.Name)
		} else {
			io.WriteString(w, "#<procedure>")
		}
	case value.KindPrimitive:
		fmt.Fprintf(w, "#<primitive %s>", c.Prim.Name)
	case value.KindContinuation:
		io.WriteString(w, "#<continuation>")
	case value.KindEnvironment:
		io.WriteString(w, "#<environment>")
	case value.KindActivationFrame:
		io.WriteString(w, "#<activation-frame>")
	case value.KindCodeBlock:
		fmt.Fprintf(w, "#<code-block %s>", c.Code.Name)
	case value.KindClosure:
		if c.Closure.Name != "" {
			fmt.Fprintf(w, "#<procedure %s>", c.Closure.Name)
		} else {
			io.WriteString(w, "#<procedure>")
		}
	case value.KindVMContinuation:
		io.WriteString(w, "#<continuation>")
	default:
		io.WriteString(w, "#<unknown>")
	}
}

func (a *Arena) writePair(w io.Writer, i value.Index, seen map[value.Index]bool) {
	if seen[i] {
		io.WriteString(w, "...")
		return
	}
	seen[i] = true
	io.WriteString(w, "(")
	first := true
	for {
		c := a.Get(i)
		if !first {
			io.WriteString(w, " ")
		}
		first = false
		a.write(w, c.Pair.Car, seen)
		switch next := a.Get(c.Pair.Cdr); next.Kind {
		case value.KindEmptyList:
			io.WriteString(w, ")")
			return
		case value.KindPair:
			if seen[c.Pair.Cdr] {
				io.WriteString(w, " . ...)")
				return
			}
			i = c.Pair.Cdr
		default:
			io.WriteString(w, " . ")
			a.write(w, c.Pair.Cdr, seen)
			io.WriteString(w, ")")
			return
		}
	}
}

// charName renders a character per the reader's escape-name table in
// spec.md 4.2, falling back to the literal rune.
func charName(r rune) string {
	switch r {
	case '\a':
		return "alarm"
	case '\b':
		return "backspace"
	case 127:
		return "delete"
	case 27:
		return "escape"
	case '\n':
		return "newline"
	case 0:
		return "null"
	case '\r':
		return "return"
	case ' ':
		return "space"
	case '\t':
		return "tab"
	default:
		return string(r)
	}
}
