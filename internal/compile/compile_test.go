package compile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/scm/internal/arena"
	"github.com/jcorbin/scm/internal/ast"
	"github.com/jcorbin/scm/internal/compile"
	"github.com/jcorbin/scm/internal/value"
)

func compileTop(t *testing.T, a *arena.Arena, n *ast.Node) *value.CodeBlock {
	t.Helper()
	c := compile.New(a)
	idx, err := c.CompileTopLevel(n)
	require.NoError(t, err)
	return a.CodeBlock(idx)
}

func ops(cb *value.CodeBlock) []value.Opcode {
	out := make([]value.Opcode, len(cb.Instructions))
	for i, ins := range cb.Instructions {
		out[i] = ins.Op
	}
	return out
}

func TestCompileLiteral(t *testing.T) {
	a := arena.New()
	n := &ast.Node{Kind: ast.KindLiteral, LiteralValue: a.NewInteger(42)}
	cb := compileTop(t, a, n)

	assert.Equal(t, []value.Opcode{value.OpConstant, value.OpFinish}, ops(cb))
	assert.Equal(t, int(n.LiteralValue), cb.Instructions[0].A)
}

func TestCompileGlobalReference(t *testing.T) {
	a := arena.New()
	n := &ast.Node{Kind: ast.KindReference, RefName: "x", RefCoord: ast.Coordinate{Global: true, Index: 7}}
	cb := compileTop(t, a, n)

	assert.Equal(t, []value.Opcode{value.OpGlobalRef, value.OpFinish}, ops(cb))
	assert.Equal(t, 7, cb.Instructions[0].A)
}

func TestCompileLocalReference(t *testing.T) {
	a := arena.New()
	n := &ast.Node{Kind: ast.KindReference, RefName: "x", RefCoord: ast.Coordinate{Altitude: 1, Index: 2}}
	cb := compileTop(t, a, n)

	require.Equal(t, []value.Opcode{value.OpLocalRef, value.OpFinish}, ops(cb))
	assert.Equal(t, 1, cb.Instructions[0].A)
	assert.Equal(t, 2, cb.Instructions[0].B)
}

func TestCompileGlobalSet(t *testing.T) {
	a := arena.New()
	n := &ast.Node{
		Kind:     ast.KindSet,
		SetName:  "x",
		SetCoord: ast.Coordinate{Global: true, Index: 3},
		SetValue: &ast.Node{Kind: ast.KindLiteral, LiteralValue: a.NewInteger(1)},
	}
	cb := compileTop(t, a, n)

	require.Equal(t, []value.Opcode{value.OpConstant, value.OpGlobalSet, value.OpFinish}, ops(cb))
	assert.Equal(t, 3, cb.Instructions[1].A)
}

// TestCompileIfThreeOperand checks the jump targets of a full (if c t e),
// patched by compileIf once each branch's length is known.
func TestCompileIfThreeOperand(t *testing.T) {
	a := arena.New()
	n := &ast.Node{
		Kind:      ast.KindIf,
		IfCond:    &ast.Node{Kind: ast.KindLiteral, LiteralValue: a.True()},
		IfThen:    &ast.Node{Kind: ast.KindLiteral, LiteralValue: a.NewInteger(1)},
		IfElse:    &ast.Node{Kind: ast.KindLiteral, LiteralValue: a.NewInteger(2)},
		IfHasElse: true,
	}
	cb := compileTop(t, a, n)

	// cond, jump-false -> else, then, jump -> end, else, finish
	require.Equal(t, []value.Opcode{
		value.OpConstant, value.OpJumpFalse, value.OpConstant, value.OpJump, value.OpConstant, value.OpFinish,
	}, ops(cb))
	assert.Equal(t, 4, cb.Instructions[1].A, "jump-false targets the else branch")
	assert.Equal(t, 5, cb.Instructions[3].A, "jump targets the instruction after else")
}

// TestCompileIfTwoOperand checks that the synthesized unspecified else
// branch (ast.lowerIf) still compiles as an ordinary literal, spec.md 4.4's
// two-operand if.
func TestCompileIfTwoOperand(t *testing.T) {
	a := arena.New()
	n := &ast.Node{
		Kind:   ast.KindIf,
		IfCond: &ast.Node{Kind: ast.KindLiteral, LiteralValue: a.False()},
		IfThen: &ast.Node{Kind: ast.KindLiteral, LiteralValue: a.NewInteger(1)},
		IfElse: &ast.Node{Kind: ast.KindLiteral, LiteralValue: a.Unspecified()},
	}
	cb := compileTop(t, a, n)

	require.Equal(t, []value.Opcode{
		value.OpConstant, value.OpJumpFalse, value.OpConstant, value.OpJump, value.OpConstant, value.OpFinish,
	}, ops(cb))
	assert.Equal(t, int(a.Unspecified()), cb.Instructions[4].A)
}

func TestCompileBeginPopsAllButLast(t *testing.T) {
	a := arena.New()
	n := &ast.Node{
		Kind: ast.KindBegin,
		BeginBody: []*ast.Node{
			{Kind: ast.KindLiteral, LiteralValue: a.NewInteger(1)},
			{Kind: ast.KindLiteral, LiteralValue: a.NewInteger(2)},
			{Kind: ast.KindLiteral, LiteralValue: a.NewInteger(3)},
		},
	}
	cb := compileTop(t, a, n)

	assert.Equal(t, []value.Opcode{
		value.OpConstant, value.OpPop, value.OpConstant, value.OpPop, value.OpConstant, value.OpFinish,
	}, ops(cb))
}

func TestCompileEmptyBeginYieldsUnspecified(t *testing.T) {
	a := arena.New()
	cb := compileTop(t, a, &ast.Node{Kind: ast.KindBegin})

	require.Equal(t, []value.Opcode{value.OpConstant, value.OpFinish}, ops(cb))
	assert.Equal(t, int(a.Unspecified()), cb.Instructions[0].A)
}

// TestCompileApplicationNonTail checks a non-tail call emits Call, not
// TailCall, and pushes the callee before its arguments.
func TestCompileApplicationNonTail(t *testing.T) {
	a := arena.New()
	n := &ast.Node{
		Kind:    ast.KindApplication,
		AppHead: &ast.Node{Kind: ast.KindReference, RefCoord: ast.Coordinate{Global: true, Index: 0}},
		AppArgs: []*ast.Node{
			{Kind: ast.KindLiteral, LiteralValue: a.NewInteger(1)},
			{Kind: ast.KindLiteral, LiteralValue: a.NewInteger(2)},
		},
	}
	cb := compileTop(t, a, n)

	require.Equal(t, []value.Opcode{
		value.OpGlobalRef, value.OpConstant, value.OpConstant, value.OpCall, value.OpFinish,
	}, ops(cb))
	assert.Equal(t, 2, cb.Instructions[3].A, "call argument count")
}

// TestCompileLambdaTailCall checks that a call in the tail position of a
// lambda body emits TailCall and that the lambda's own body ends in Return,
// not Finish (only CompileTopLevel emits Finish).
func TestCompileLambdaTailCall(t *testing.T) {
	a := arena.New()
	n := &ast.Node{
		Kind:          ast.KindLambda,
		LambdaFormals: ast.Formals{Fixed: []string{"n"}},
		LambdaName:    "f",
		LambdaBody: []*ast.Node{
			{
				Kind:    ast.KindApplication,
				AppHead: &ast.Node{Kind: ast.KindReference, RefCoord: ast.Coordinate{Global: true, Index: 0}},
				AppArgs: []*ast.Node{
					{Kind: ast.KindReference, RefCoord: ast.Coordinate{Index: 0}},
				},
			},
		},
	}
	top := compileTop(t, a, n)

	require.Equal(t, []value.Opcode{value.OpCreateClosure, value.OpFinish}, ops(top))
	require.Len(t, top.CodeBlocks, 1)

	body := a.CodeBlock(top.CodeBlocks[0])
	assert.Equal(t, "f", body.Name)
	assert.Equal(t, value.Arity{Min: 1}, body.Arity)
	assert.Equal(t, []value.Opcode{
		value.OpGlobalRef, value.OpLocalRef, value.OpTailCall, value.OpReturn,
	}, ops(body))
}
