package repl

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"

	"github.com/jcorbin/scm/internal/lex"
	"github.com/jcorbin/scm/internal/read"
)

// FileRepl implements spec.md 6's file mode, restored in full per
// SPEC_FULL.md's supplemented-features section from the original
// driver's parse_compile_run/initialize pipeline: read the entire file,
// parse it with read_many into a sequence of top-level forms, then run
// parse-compile-run (VM back-end) or parse-evaluate (CPS back-end) on
// each in order, halting at the first error.
type FileRepl struct {
	it   *Interpreter
	name string
	r    io.Reader
}

// NewFileRepl returns a FileRepl reading source from r, named for error
// messages.
func NewFileRepl(it *Interpreter, name string, r io.Reader) *FileRepl {
	return &FileRepl{it: it, name: name, r: r}
}

// Run reads, parses and evaluates every top-level form in the file,
// stopping at the first error (spec.md 6: "halting on the first error
// with a message").
func (r *FileRepl) Run(ctx context.Context) error {
	src, err := ioutil.ReadAll(r.r)
	if err != nil {
		return fmt.Errorf("%s: %w", r.name, err)
	}

	toks, err := lex.Lex(string(src))
	if err != nil {
		return fmt.Errorf("%s: %s", r.name, formatError(err))
	}

	forms, err := read.ParseMany(r.it.a, toks)
	if err != nil {
		return fmt.Errorf("%s: %s", r.name, formatError(err))
	}

	for _, form := range forms {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := r.it.EvalTopLevel(form); err != nil {
			return fmt.Errorf("%s: %s", r.name, formatError(err))
		}
	}
	return nil
}
