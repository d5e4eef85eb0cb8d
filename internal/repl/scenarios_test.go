package repl_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcorbin/scm/internal/lex"
	"github.com/jcorbin/scm/internal/read"
	"github.com/jcorbin/scm/internal/repl"
	"github.com/jcorbin/scm/internal/value"
)

// scenario is one row of spec.md 8's testable-properties table: source
// text evaluated as a sequence of top-level forms, and the external
// representation the last form's value must print as. This table is
// written by hand; scripts/gen_scenarios.go emits rows of the same type
// into a separate generatedScenarios slice from a plain-text file, which
// TestScenarios does not read.
type scenario struct {
	Expr string
	Want string
}

var scenarios = []scenario{
	{Expr: `(+ 1 2 3)`, Want: `6`},
	{Expr: `((lambda (x) (* x x)) 7)`, Want: `49`},
	{Expr: `(define (fact n) (if (= n 0) 1 (* n (fact (- n 1))))) (fact 5)`, Want: `120`},
	{Expr: `(define x 10) (set! x (+ x 5)) x`, Want: `15`},
	{Expr: `(if #f 'a 'b)`, Want: `b`},
	{
		Expr: `(define (loop i acc) (if (= i 101) acc (loop (+ i 1) (+ acc i)))) (loop 1 0)`,
		Want: `5050`,
	},
	{Expr: `(call/cc (lambda (k) (+ 1 (k 42))))`, Want: `42`},
}

func evalScenario(t *testing.T, backend repl.Backend, src string) string {
	t.Helper()
	it := repl.New(repl.WithBackend(backend))

	toks, err := lex.Lex(src)
	require.NoError(t, err)
	forms, err := read.ParseMany(it.Arena(), toks)
	require.NoError(t, err)
	require.NotEmpty(t, forms)

	var last value.Index
	for _, form := range forms {
		v, err := it.EvalTopLevel(form)
		require.NoError(t, err)
		last = v
	}
	return it.Arena().String(last)
}

// TestScenarios runs every spec.md 8 scenario against both back-ends and
// checks they agree with each other and with the table.
func TestScenarios(t *testing.T) {
	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.Expr, func(t *testing.T) {
			require.Equal(t, sc.Want, evalScenario(t, repl.BackendVM, sc.Expr), "VM back-end")
			require.Equal(t, sc.Want, evalScenario(t, repl.BackendEval, sc.Expr), "CPS back-end")
		})
	}
}
