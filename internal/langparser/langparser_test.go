package langparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pklc/internal/ast"
)

func TestParseExpressionBinaryPrecedence(t *testing.T) {
	n, err := ParseExpression("<test>", "1 + 2 * 3")
	require.NoError(t, err)
	b, ok := n.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, b.Op)
	rhs, ok := b.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, rhs.Op)
}

func TestParseExpressionTernary(t *testing.T) {
	n, err := ParseExpression("<test>", "1 ? 2 : 3")
	require.NoError(t, err)
	c, ok := n.(*ast.Conditional)
	require.True(t, ok)
	_, ok = c.Then.(*ast.IntegerLiteral)
	assert.True(t, ok)
}

func TestParseExpressionCastDisambiguatesFromParenExpr(t *testing.T) {
	n, err := ParseExpression("<test>", "(int<32>) x")
	require.NoError(t, err)
	cast, ok := n.(*ast.Cast)
	require.True(t, ok)
	_, ok = cast.Target.(*ast.TypeIntegral)
	assert.True(t, ok)
}

func TestParseExpressionParenGroupingIsNotMistakenForCast(t *testing.T) {
	n, err := ParseExpression("<test>", "(1 + 2) * 3")
	require.NoError(t, err)
	b, ok := n.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.OpMul, b.Op)
	_, ok = b.Left.(*ast.Binary)
	assert.True(t, ok, "left operand should be the parenthesized addition, not a cast")
}

func TestParseExpressionMapOperator(t *testing.T) {
	n, err := ParseExpression("<test>", "x @ fd : 8#B")
	require.NoError(t, err)
	m, ok := n.(*ast.MapExpr)
	require.True(t, ok)
	_, ok = m.Target.(*ast.Identifier)
	assert.True(t, ok)
}

func TestParseExpressionStructConsNamedAndAnonymous(t *testing.T) {
	n, err := ParseExpression("<test>", "Point{ x: 1, y: 2 }")
	require.NoError(t, err)
	sc, ok := n.(*ast.StructCons)
	require.True(t, ok)
	assert.Len(t, sc.Fields, 2)

	n2, err := ParseExpression("<test>", "struct { x: int<32>; } { x: 1 }")
	require.NoError(t, err)
	_, ok = n2.(*ast.StructCons)
	assert.True(t, ok)
}

func TestParseExpressionFuncCall(t *testing.T) {
	n, err := ParseExpression("<test>", "foo(1, 2)")
	require.NoError(t, err)
	call, ok := n.(*ast.FuncCall)
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
}

func TestParseExpressionRejectsTrailingInput(t *testing.T) {
	_, err := ParseExpression("<test>", "1 + 2 foo")
	assert.Error(t, err)
}

func TestParseStatementVarDecl(t *testing.T) {
	n, err := ParseStatement("<test>", "var x: int<32> = 1;")
	require.NoError(t, err)
	vd, ok := n.(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", vd.Name)
}

func TestParseStatementIfWhileFor(t *testing.T) {
	_, err := ParseStatement("<test>", "if (1) { print(1); } else { print(2); }")
	require.NoError(t, err)
	_, err = ParseStatement("<test>", "while (1) { break; }")
	require.NoError(t, err)
}

func TestParseProgramFunctionDeclaration(t *testing.T) {
	n, err := Parse("<test>", "fun add(a: int<32>, b: int<32>): int<32> { return a + b; }")
	require.NoError(t, err)
	prog, ok := n.(*ast.Program)
	require.True(t, ok)
	require.Len(t, prog.Decls, 1)
	fd, ok := prog.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fd.Name)
	assert.Len(t, fd.Params, 2)
}

func TestParseTypeArrayAndOffsetSuffixCompose(t *testing.T) {
	n, err := ParseStatement("<test>", "var x: int<32>[10]<bytes>;")
	require.NoError(t, err)
	vd, ok := n.(*ast.VarDecl)
	require.True(t, ok)
	off, ok := vd.TypeSpec.(*ast.TypeOffset)
	require.True(t, ok)
	_, ok = off.BaseType.(*ast.TypeArray)
	assert.True(t, ok)
}

func TestParseTypeNamedStructReference(t *testing.T) {
	n, err := ParseStatement("<test>", "var p: Point;")
	require.NoError(t, err)
	vd, ok := n.(*ast.VarDecl)
	require.True(t, ok)
	ts, ok := vd.TypeSpec.(*ast.TypeStruct)
	require.True(t, ok)
	assert.Equal(t, "Point", ts.Name)
}
