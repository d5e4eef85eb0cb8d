package repl

import (
	"fmt"

	"github.com/jcorbin/scm/internal/ast"
	"github.com/jcorbin/scm/internal/lex"
	"github.com/jcorbin/scm/internal/read"
)

// formatError prefixes err the way the original driver's do_main did
// ("Error: {}", "syntax error: {}", "runtime error: {}"), restoring the
// exact three-prefix convention spec.md 7 names: a lex or parse failure
// (occurring before any name resolution) gets the generic prefix, an
// *ast.Error (spec.md 7's "Syntax error" kind) gets its own prefix, and
// everything surfacing from compilation or either back-end's evaluation
// -- unbound variable, type, arity, runtime -- is reported as a runtime
// error.
func formatError(err error) string {
	switch err.(type) {
	case *lex.Error, *read.Error:
		return fmt.Sprintf("Error: %s", err)
	case *ast.Error:
		return fmt.Sprintf("syntax error: %s", err)
	default:
		return fmt.Sprintf("runtime error: %s", err)
	}
}
