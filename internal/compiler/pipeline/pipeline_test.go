package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/langparser"
	"pklc/internal/value"
	"pklc/internal/vm"
)

func compileAndRun(t *testing.T, src string) value.Value {
	t.Helper()
	n, err := langparser.Parse("<test>", src)
	require.NoError(t, err)
	prog, ok := n.(*ast.Program)
	require.True(t, ok)

	ctx := compiler.NewContext(false)
	bp, err := Compile(ctx, prog)
	require.NoError(t, err)
	defer bp.Destroy()

	m := vm.New(bp, nil, nil)
	result, err := m.Run()
	require.NoError(t, err)
	return result
}

func TestPipelineConstantFoldsArithmeticExpression(t *testing.T) {
	result := compileAndRun(t, "1 + 2 * 3;")
	assert.Equal(t, int64(7), result.(value.Integer).Int64())
}

func TestPipelineVarDeclAndReference(t *testing.T) {
	result := compileAndRun(t, "var x: int<32> = 10; x + 5;")
	assert.Equal(t, int64(15), result.(value.Integer).Int64())
}

func TestPipelineFunctionCallWithinSameUnit(t *testing.T) {
	result := compileAndRun(t, `
		fun add(a: int<32>, b: int<32>): int<32> { return a + b; }
		add(2, 3);
	`)
	assert.Equal(t, int64(5), result.(value.Integer).Int64())
}

func TestPipelineIfElseSelectsBranch(t *testing.T) {
	result := compileAndRun(t, `
		var x: int<32> = 0;
		if (1) { x = 111; } else { x = 222; }
		x;
	`)
	assert.Equal(t, int64(111), result.(value.Integer).Int64())
}

func TestPipelineWhileLoopAccumulates(t *testing.T) {
	result := compileAndRun(t, `
		var i: int<32> = 0;
		var sum: int<32> = 0;
		while (i < 5) {
			sum = sum + i;
			i = i + 1;
		}
		sum;
	`)
	assert.Equal(t, int64(10), result.(value.Integer).Int64())
}

func TestPipelineRejectsTypeMismatchAssignment(t *testing.T) {
	n, err := langparser.Parse("<test>", `var x: int<32> = "not an int";`)
	require.NoError(t, err)
	prog := n.(*ast.Program)
	ctx := compiler.NewContext(false)
	_, err = Compile(ctx, prog)
	assert.Error(t, err)
	assert.True(t, ctx.Diags.HasErrors())
}
