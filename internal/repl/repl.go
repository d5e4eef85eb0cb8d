package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/scm/internal/lex"
	"github.com/jcorbin/scm/internal/read"
	"github.com/jcorbin/scm/internal/value"
)

// Repl drives an Interpreter against some input source until that source
// is exhausted or ctx is cancelled, spec.md 6's external interface.
type Repl interface {
	Run(ctx context.Context) error
}

// LineRepl is the line-oriented evaluation core StdIoRepl builds on
// (FileRepl reads and parses its whole input at once instead): it segments an input stream into complete top-level
// forms (spec.md 4.2's segment) and evaluates each through an
// Interpreter, without emitting any prompt of its own.
type LineRepl struct {
	it   *Interpreter
	scan *bufio.Scanner
	seg  lex.Segmenter
}

// NewLineRepl returns a LineRepl reading lines from it's configured input.
func NewLineRepl(it *Interpreter) *LineRepl {
	return &LineRepl{it: it, scan: bufio.NewScanner(it.in)}
}

// Depth reports the current open-paren continuation depth, for a wrapping
// prompt to indent by depth*2 (spec.md 6).
func (r *LineRepl) Depth() int { return r.seg.Depth() }

// ReadLine reads one line of input, folds it into the pending segment, and
// evaluates every newly-completed top-level form in order. ok is false
// once the input is exhausted; err, when non-nil, is the first lex, parse
// or evaluation failure encountered on this line (results already
// produced before the failing form are still returned).
func (r *LineRepl) ReadLine() (results []value.Index, err error, ok bool) {
	if !r.scan.Scan() {
		return nil, r.scan.Err(), false
	}
	segments, err := r.seg.Feed(r.scan.Text())
	if err != nil {
		return nil, err, true
	}
	for _, toks := range segments {
		form, perr := read.Parse(r.it.a, toks)
		if perr != nil {
			return results, perr, true
		}
		v, eerr := r.it.EvalTopLevel(form)
		if eerr != nil {
			return results, eerr, true
		}
		results = append(results, v)
	}
	return results, nil, true
}

// Run evaluates lines until EOF or ctx is cancelled, printing each result
// and any error to the interpreter's output stream with no prompts.
func (r *LineRepl) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		results, err, ok := r.ReadLine()
		r.printResults(results)
		if err != nil {
			fmt.Fprintln(r.it.out, formatError(err))
		}
		if !ok {
			return err
		}
	}
	return nil
}

func (r *LineRepl) printResults(results []value.Index) {
	for _, v := range results {
		r.it.WriteValue(v)
		fmt.Fprintln(r.it.out)
	}
}

// StdIoRepl is the interactive REPL: `>>> `/`... ` prompts, continuation
// lines indented by depth*2 spaces, clean termination on EOF (spec.md 6).
// Real line-editing is out of scope -- no library in the reference pack
// supplies it -- so --no-readline (handled by cmd/scm) only controls
// whether a history file path is configured (Interpreter.HistoryFile);
// no history file is read or written, and input is read the same way
// either way.
type StdIoRepl struct {
	line   *LineRepl
	prompt io.Writer
}

// NewStdIoRepl returns a StdIoRepl writing prompts to prompt (typically
// the same stream as the interpreter's output, or stderr to keep prompts
// out of a redirected transcript).
func NewStdIoRepl(it *Interpreter, prompt io.Writer) *StdIoRepl {
	return &StdIoRepl{line: NewLineRepl(it), prompt: prompt}
}

// Run prompts for and evaluates forms until EOF or ctx is cancelled.
func (r *StdIoRepl) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		r.writePrompt()
		results, err, ok := r.line.ReadLine()
		r.line.printResults(results)
		if err != nil {
			fmt.Fprintln(r.prompt, formatError(err))
		}
		if !ok {
			return err
		}
	}
	return nil
}

func (r *StdIoRepl) writePrompt() {
	if d := r.line.Depth(); d == 0 {
		io.WriteString(r.prompt, ">>> ")
	} else {
		io.WriteString(r.prompt, strings.Repeat(" ", d*2)+"... ")
	}
}
