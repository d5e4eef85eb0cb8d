package repl

import (
	"fmt"
	"io"

	"github.com/jcorbin/scm/internal/arena"
	"github.com/jcorbin/scm/internal/ast"
	"github.com/jcorbin/scm/internal/compile"
	"github.com/jcorbin/scm/internal/environment"
	"github.com/jcorbin/scm/internal/eval"
	"github.com/jcorbin/scm/internal/primitives"
	"github.com/jcorbin/scm/internal/value"
	"github.com/jcorbin/scm/internal/vm"
)

// Backend selects which of spec.md 4's two execution strategies an
// Interpreter drives.
type Backend int

const (
	// BackendVM compiles each top-level form to an instruction sequence
	// and runs it on the register/stack VM (back-end B).
	BackendVM Backend = iota
	// BackendEval walks each top-level form directly with the CPS
	// trampoline (back-end A).
	BackendEval
)

// Interpreter owns one arena and global environment and drives whichever
// back-end was selected against it.
type Interpreter struct {
	a          *arena.Arena
	compileEnv *environment.Env

	backend   Backend
	evaluator *eval.Evaluator
	compiler  *compile.Compiler
	machine   *vm.Machine

	in          io.Reader
	out         io.Writer
	logf        func(string, ...interface{})
	memLimit    uint
	historyFile string
}

// New constructs an Interpreter, builds its arena and global frame, and
// registers the primitive roster (spec.md 4.5, 4.9) against the selected
// back-end.
func New(opts ...Option) *Interpreter {
	it := &Interpreter{}
	Options(defaultOptions, Options(opts...)).apply(it)

	it.a = arena.New()
	it.compileEnv = environment.NewGlobal()

	switch it.backend {
	case BackendEval:
		ev := eval.New(it.a)
		ev.RegisterPrimitives(it.compileEnv, it.out)
		it.evaluator = ev
	default:
		it.machine, it.compiler = newVMBackend(it)
	}
	return it
}

// newVMBackend registers reserved slots and the primitive roster into the
// compile-time environment, then mirrors the resulting slot assignment
// into the VM's runtime global frame (spec.md 4.5: "primitive slot indices
// are assigned in registration order").
func newVMBackend(it *Interpreter) (*vm.Machine, *compile.Compiler) {
	reserved := primitives.DefineReserved(it.compileEnv, it.a)
	regs := primitives.Register(it.a, it.compileEnv, it.out)

	globals := append([]value.Index(nil), reserved...)
	for _, r := range regs {
		for len(globals) <= r.Slot {
			globals = append(globals, it.a.Unspecified())
		}
		globals[r.Slot] = r.Value
	}

	m := vm.New(it.a, globals)
	m.EnableEval(it.compileEnv)
	if it.memLimit != 0 {
		m.SetMemLimit(it.memLimit)
	}
	if it.logf != nil {
		m.SetLogf(it.logf)
	}
	return m, compile.New(it.a)
}

// Arena exposes the shared heap, e.g. for --dump output.
func (it *Interpreter) Arena() *arena.Arena { return it.a }

// Backend reports which back-end this Interpreter drives.
func (it *Interpreter) Backend() Backend { return it.backend }

// HistoryFile reports the configured readline history file path.
func (it *Interpreter) HistoryFile() string { return it.historyFile }

// EvalTopLevel runs one already-parsed form to completion, spec.md 6's
// "parse -> compile -> run" (VM back-end) or "parse -> evaluate" (CPS
// back-end) step.
func (it *Interpreter) EvalTopLevel(form value.Index) (value.Index, error) {
	switch it.backend {
	case BackendEval:
		return it.evaluator.RunTopLevel(form)
	default:
		node, err := ast.New(it.a).ToSyntaxElement(it.compileEnv, form)
		if err != nil {
			return value.Invalid, err
		}
		block, err := it.compiler.CompileTopLevel(node)
		if err != nil {
			return value.Invalid, err
		}
		return it.machine.Run(block)
	}
}

// DumpGlobals writes one line per occupied slot of the VM back-end's
// global frame to w, the --dump counterpart to main.go's vmDumper. It is
// a no-op for the CPS back-end, whose global frame has no flat slot
// table to walk.
func (it *Interpreter) DumpGlobals(w io.Writer) {
	if it.machine == nil {
		return
	}
	for slot, idx := range it.machine.Globals() {
		fmt.Fprintf(w, "%4d: %s\n", slot, it.a.String(idx))
	}
}

// WriteValue renders v in external representation to the interpreter's
// configured output stream (spec.md 6's "pretty-printing is the
// round-trip inverse").
func (it *Interpreter) WriteValue(v value.Index) {
	it.a.Write(it.out, v)
}
