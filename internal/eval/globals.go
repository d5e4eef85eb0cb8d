package eval

import (
	"io"

	"github.com/jcorbin/scm/internal/environment"
	"github.com/jcorbin/scm/internal/primitives"
)

// RegisterPrimitives seeds the reserved slots and the primitive roster
// into the evaluator's global frame. The environment.Env passed in is used
// only to run the registration bookkeeping (slot assignment order); the
// CPS back-end itself resolves names at run time against the RuntimeEnv
// map, per spec.md 4.4's "The CPS back-end defers name resolution to run
// time."
func (e *Evaluator) RegisterPrimitives(globalEnv *environment.Env, out io.Writer) {
	reserved := primitives.DefineReserved(globalEnv, e.a)
	names := [3]string{"%error-handler", "%current-input-port", "%current-output-port"}
	for i, name := range names {
		e.DefineGlobal(name, reserved[i])
	}
	for _, reg := range primitives.Register(e.a, globalEnv, out) {
		e.DefineGlobal(reg.Name, reg.Value)
	}
}
