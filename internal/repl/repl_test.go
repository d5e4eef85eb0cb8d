package repl_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/scm/internal/repl"
)

// promptFor builds the prompt StdIoRepl writes for a given continuation
// depth, mirroring writePrompt exactly: top level is ">>> ", continuation
// lines are indented by depth*2 spaces before "... ".
func promptFor(depth int) string {
	if depth == 0 {
		return ">>> "
	}
	return strings.Repeat(" ", depth*2) + "... "
}

func TestStdIoReplPromptsTopLevelAndContinuation(t *testing.T) {
	var out bytes.Buffer
	it := repl.New(repl.WithInput(strings.NewReader("(+ 1\n 2)\n")), repl.WithOutput(&out))

	var prompts bytes.Buffer
	r := repl.NewStdIoRepl(it, &prompts)
	require.NoError(t, r.Run(context.Background()))

	// depth sequence observed before each ReadLine: 0 (first line), 1 (the
	// open paren from line 1), then 0 (after the completed form), the
	// top-level prompt written before EOF is discovered.
	want := promptFor(0) + promptFor(1) + promptFor(0)
	assert.Equal(t, want, prompts.String())
	assert.Equal(t, "3\n", out.String())
}

func TestStdIoReplDeepContinuationIndent(t *testing.T) {
	var out bytes.Buffer
	it := repl.New(repl.WithInput(strings.NewReader("(+ 1 (+ 2\n 3)\n)\n")), repl.WithOutput(&out))

	var prompts bytes.Buffer
	r := repl.NewStdIoRepl(it, &prompts)
	require.NoError(t, r.Run(context.Background()))

	// after line 1 two parens are open (depth 2); after line 2 one remains
	// open (depth 1); line 3 closes the form.
	want := promptFor(0) + promptFor(2) + promptFor(1) + promptFor(0)
	assert.Equal(t, want, prompts.String())
	assert.Equal(t, "6\n", out.String())
}

func TestLineReplReportsRuntimeError(t *testing.T) {
	var out bytes.Buffer
	it := repl.New(repl.WithInput(strings.NewReader("(undefined-name)\n")), repl.WithOutput(&out))
	r := repl.NewLineRepl(it)

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "runtime error:")
}

func TestFileReplHaltsOnFirstError(t *testing.T) {
	it := repl.New()
	src := strings.NewReader("(define x 1)\n(undefined-name)\n(define y 2)\n")
	r := repl.NewFileRepl(it, "script.scm", src)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script.scm")
	assert.Contains(t, err.Error(), "runtime error:")
}

func TestFileReplRunsAllFormsOnSuccess(t *testing.T) {
	var out bytes.Buffer
	it := repl.New(repl.WithOutput(&out))
	src := strings.NewReader("(define x 1) (define y 2)\n")
	r := repl.NewFileRepl(it, "script.scm", src)

	require.NoError(t, r.Run(context.Background()))
	assert.Empty(t, out.String(), "file mode prints nothing but errors; forms with no side effects produce no output")
}

func TestFileReplLexError(t *testing.T) {
	it := repl.New()
	src := strings.NewReader("(+ 1 \"unterminated\n")
	r := repl.NewFileRepl(it, "bad.scm", src)

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.scm")
	assert.Contains(t, err.Error(), "Error:")
}

func TestBothBackendsAgreeOnFileMode(t *testing.T) {
	var outputs []string
	for _, backend := range []repl.Backend{repl.BackendVM, repl.BackendEval} {
		var out bytes.Buffer
		it := repl.New(repl.WithBackend(backend), repl.WithOutput(&out))
		src := strings.NewReader("(define (square x) (* x x)) (display (square 6))\n")
		r := repl.NewFileRepl(it, "script.scm", src)
		require.NoError(t, r.Run(context.Background()))
		outputs = append(outputs, out.String())
	}
	assert.Equal(t, outputs[0], outputs[1], "VM and CPS back-ends print the same output")
	assert.Equal(t, "36", outputs[0])
}
