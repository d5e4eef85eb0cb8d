// Package eval implements the CPS trampoline evaluator, back-end A of
// spec.md 4.6: a tree-walking interpreter whose entire control state lives
// in heap-allocated continuations rather than the host call stack, so
// every tail call is a proper tail call by construction.
package eval

import "github.com/jcorbin/scm/internal/value"

type bounceKind uint8

const (
	bounceEvaluate bounceKind = iota
	bounceResume
	bounceDone
)

// bounce is one trampoline step, spec.md 4.6's Bounce: Evaluate{form, env,
// cont}, Resume{cont, value} or Done{value}.
type bounce struct {
	kind  bounceKind
	form  value.Index
	env   value.Index
	cont  value.Index
	value value.Index
}
