// Package repl implements the REPL/file-mode driver spec.md 6 describes:
// the prompt/continuation protocol, file-mode's parse-compile-run
// pipeline, and the error-kind prefixing of spec.md 7. An Interpreter is
// constructed with the functional-options pattern api.go/options.go use
// for the teacher's VM (VMOption/VMOptions/noption), adapted to select
// between the two execution back-ends instead of memory layout.
package repl

import (
	"bytes"
	"io"
	"io/ioutil"
)

// Option configures an Interpreter.
type Option interface{ apply(it *Interpreter) }

// Options flattens opts into one Option, dropping nils and noption{} and
// splicing any nested options slices -- VMOptions's composition rule.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

var defaultOptions = Options(
	withInput(bytes.NewReader(nil)),
	withOutput(ioutil.Discard),
	withBackend(BackendVM),
	withHistoryFile("history.txt"),
)

type noption struct{}

func (noption) apply(*Interpreter) {}

type options []Option

func (opts options) apply(it *Interpreter) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(it)
		}
	}
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type memLimitOption uint
type logfOption func(string, ...interface{})
type backendOption Backend
type historyFileOption string

func withInput(r io.Reader) inputOption                   { return inputOption{r} }
func withOutput(w io.Writer) outputOption                 { return outputOption{w} }
func withMemLimit(n uint) memLimitOption                   { return memLimitOption(n) }
func withLogf(f func(string, ...interface{})) logfOption   { return logfOption(f) }
func withBackend(b Backend) backendOption                  { return backendOption(b) }
func withHistoryFile(path string) historyFileOption        { return historyFileOption(path) }

func (o inputOption) apply(it *Interpreter)       { it.in = o.Reader }
func (o outputOption) apply(it *Interpreter)      { it.out = o.Writer }
func (n memLimitOption) apply(it *Interpreter)    { it.memLimit = uint(n) }
func (f logfOption) apply(it *Interpreter)        { it.logf = f }
func (b backendOption) apply(it *Interpreter)     { it.backend = Backend(b) }
func (p historyFileOption) apply(it *Interpreter) { it.historyFile = string(p) }

// WithInput sets the interpreter's input stream. cmd/scm supplies
// os.Stdin; the zero value reads nothing.
func WithInput(r io.Reader) Option { return withInput(r) }

// WithOutput sets the stream display and the REPL's printed results write
// to. cmd/scm supplies os.Stdout; the zero value discards output.
func WithOutput(w io.Writer) Option { return withOutput(w) }

// WithMemLimit caps the VM back-end's operand-stack paged memory (see
// internal/mem.Ints.Limit); zero (the default) means unlimited. Ignored by
// the CPS back-end, which holds no comparable flat memory.
func WithMemLimit(n uint) Option { return withMemLimit(n) }

// WithLogf installs a trace/diagnostic sink, silent by default.
func WithLogf(logf func(string, ...interface{})) Option { return withLogf(logf) }

// WithBackend selects the CPS trampoline or the compile+run VM.
func WithBackend(b Backend) Option { return withBackend(b) }

// WithHistoryFile names the readline history file path, "history.txt" by
// default (spec.md 6).
func WithHistoryFile(path string) Option { return withHistoryFile(path) }
