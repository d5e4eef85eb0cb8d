// Package compile lowers an ast.Node tree into the flat instruction vector
// and nested CodeBlock table spec.md 4.7 describes: back-end B's
// syntax-directed compiler. Tail position is tracked so a final call emits
// TailCall instead of Call+Return.
package compile

import (
	"fmt"

	"github.com/jcorbin/scm/internal/arena"
	"github.com/jcorbin/scm/internal/ast"
	"github.com/jcorbin/scm/internal/value"
)

// Compiler lowers syntax trees into code blocks within one arena.
type Compiler struct {
	a *arena.Arena
}

// New returns a Compiler that interns code blocks into a.
func New(a *arena.Arena) *Compiler { return &Compiler{a: a} }

// unit accumulates one code block's instructions and nested blocks while
// it is being compiled.
type unit struct {
	instrs []value.Instruction
	blocks []value.Index
}

func (u *unit) emit(ins value.Instruction) int {
	u.instrs = append(u.instrs, ins)
	return len(u.instrs) - 1
}

// CompileTopLevel compiles one top-level form in non-tail position (a
// final call emits Call, not TailCall), terminated by Finish, the shape
// the VM's top-level driver runs per form.
func (c *Compiler) CompileTopLevel(n *ast.Node) (value.Index, error) {
	u := &unit{}
	if err := c.compileNode(n, u, false); err != nil {
		return value.Invalid, err
	}
	u.emit(value.Instruction{Op: value.OpFinish})
	return c.a.NewCodeBlock(value.CodeBlock{Instructions: u.instrs, CodeBlocks: u.blocks, Name: "<toplevel>"}), nil
}

func (c *Compiler) compileNode(n *ast.Node, u *unit, tail bool) error {
	switch n.Kind {
	case ast.KindLiteral:
		u.emit(value.Instruction{Op: value.OpConstant, A: int(n.LiteralValue)})
		return nil
	case ast.KindQuote:
		u.emit(value.Instruction{Op: value.OpConstant, A: int(n.QuoteValue)})
		return nil
	case ast.KindReference:
		return c.compileReference(n, u)
	case ast.KindSet:
		return c.compileAssign(n, u)
	case ast.KindDefine:
		return c.compileAssign(n, u)
	case ast.KindIf:
		return c.compileIf(n, u, tail)
	case ast.KindBegin:
		return c.compileBegin(n.BeginBody, u, tail)
	case ast.KindLambda:
		return c.compileLambda(n, u)
	case ast.KindApplication:
		return c.compileApplication(n, u, tail)
	default:
		return fmt.Errorf("compile: unhandled syntax node kind %v", n.Kind)
	}
}

func (c *Compiler) compileReference(n *ast.Node, u *unit) error {
	if n.RefCoord.Global {
		u.emit(value.Instruction{Op: value.OpGlobalRef, A: n.RefCoord.Index})
	} else {
		u.emit(value.Instruction{Op: value.OpLocalRef, A: n.RefCoord.Altitude, B: n.RefCoord.Index})
	}
	return nil
}

func (c *Compiler) compileAssign(n *ast.Node, u *unit) error {
	if err := c.compileNode(n.SetValue, u, false); err != nil {
		return err
	}
	if n.SetCoord.Global {
		u.emit(value.Instruction{Op: value.OpGlobalSet, A: n.SetCoord.Index})
	} else {
		u.emit(value.Instruction{Op: value.OpLocalSet, A: n.SetCoord.Altitude, B: n.SetCoord.Index})
	}
	// set!/define evaluate to unspecified; the VM's GlobalSet/LocalSet push
	// it onto the stack themselves (see internal/vm), so nothing more to
	// emit here.
	return nil
}

func (c *Compiler) compileIf(n *ast.Node, u *unit, tail bool) error {
	if err := c.compileNode(n.IfCond, u, false); err != nil {
		return err
	}
	jf := u.emit(value.Instruction{Op: value.OpJumpFalse})
	if err := c.compileNode(n.IfThen, u, tail); err != nil {
		return err
	}
	j := u.emit(value.Instruction{Op: value.OpJump})
	u.instrs[jf].A = len(u.instrs)
	if err := c.compileNode(n.IfElse, u, tail); err != nil {
		return err
	}
	u.instrs[j].A = len(u.instrs)
	return nil
}

func (c *Compiler) compileBegin(body []*ast.Node, u *unit, tail bool) error {
	if len(body) == 0 {
		u.emit(value.Instruction{Op: value.OpConstant, A: int(c.a.Unspecified())})
		return nil
	}
	for i, form := range body {
		last := i == len(body)-1
		if err := c.compileNode(form, u, tail && last); err != nil {
			return err
		}
		if !last {
			u.emit(value.Instruction{Op: value.OpPop})
		}
	}
	return nil
}

func (c *Compiler) compileLambda(n *ast.Node, u *unit) error {
	inner := &unit{}
	if err := c.compileBegin(n.LambdaBody, inner, true); err != nil {
		return err
	}
	inner.emit(value.Instruction{Op: value.OpReturn})
	cb := c.a.NewCodeBlock(value.CodeBlock{
		Instructions: inner.instrs,
		CodeBlocks:   inner.blocks,
		Arity:        n.LambdaFormals.Arity(),
		Name:         n.LambdaName,
	})
	blockRef := len(u.blocks)
	u.blocks = append(u.blocks, cb)
	u.emit(value.Instruction{Op: value.OpCreateClosure, A: blockRef})
	return nil
}

func (c *Compiler) compileApplication(n *ast.Node, u *unit, tail bool) error {
	if err := c.compileNode(n.AppHead, u, false); err != nil {
		return err
	}
	for _, arg := range n.AppArgs {
		if err := c.compileNode(arg, u, false); err != nil {
			return err
		}
	}
	op := value.OpCall
	if tail {
		op = value.OpTailCall
	}
	u.emit(value.Instruction{Op: op, A: len(n.AppArgs)})
	return nil
}
