package vm

import (
	"github.com/pkg/errors"

	"github.com/jcorbin/scm/internal/ast"
	"github.com/jcorbin/scm/internal/compile"
	"github.com/jcorbin/scm/internal/environment"
	"github.com/jcorbin/scm/internal/value"
)

// EnableEval wires the eval primitive into the VM back-end: compiling and
// running the given form requires the same compile-time environment the
// top-level driver is lowering against, since eval and the program it runs
// alongside must agree on global slot numbering.
func (m *Machine) EnableEval(compileEnv *environment.Env) { m.compileEnv = compileEnv }

// evalForm compiles form against the shared compile-time environment and
// runs it to completion, nested within the current Run call.
func (m *Machine) evalForm(form value.Index) (value.Index, error) {
	if m.compileEnv == nil {
		return value.Invalid, errors.New("eval: VM back-end eval support not enabled")
	}
	node, err := ast.New(m.a).ToSyntaxElement(m.compileEnv, form)
	if err != nil {
		return value.Invalid, err
	}
	block, err := compile.New(m.a).CompileTopLevel(node)
	if err != nil {
		return value.Invalid, err
	}
	return m.Run(block)
}
