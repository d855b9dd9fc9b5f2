package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pklc/internal/diag"
	"pklc/internal/value"
)

func newTestCompiler(t *testing.T) *Compiler {
	t.Helper()
	c, err := New(nil, nil)
	require.NoError(t, err)
	return c
}

func TestNewBootstraps(t *testing.T) {
	c := newTestCompiler(t)
	assert.True(t, c.Bootstrapped())
}

func TestCompileStatementReturnsExpressionValue(t *testing.T) {
	c := newTestCompiler(t)
	v, err := c.CompileStatement("1 + 2;", "<test>")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(3), v.(value.Integer).Int64())
}

func TestCompileStatementDeclarationHasNoValue(t *testing.T) {
	c := newTestCompiler(t)
	v, err := c.CompileStatement("var x: int<32> = 7;", "<test>")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCompileProgramDeclarationPersistsAcrossCalls(t *testing.T) {
	c := newTestCompiler(t)
	require.NoError(t, c.CompileProgram("var x: int<32> = 7;", "<test>"))
	v, err := c.CompileStatement("x + 1;", "<test>")
	require.NoError(t, err)
	assert.Equal(t, int64(8), v.(value.Integer).Int64())
}

func TestCompileStatementRollsBackFailedInputWithoutClobberingEnvironment(t *testing.T) {
	c := newTestCompiler(t)
	require.NoError(t, c.CompileProgram("var x: int<32> = 7;", "<test>"))

	_, err := c.CompileStatement(`var x: int<32> = "oops";`, "<test>")
	require.Error(t, err)

	v, err := c.CompileStatement("x;", "<test>")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.(value.Integer).Int64())
}

func TestCompileExpressionReturnsProgramWithoutRunningIt(t *testing.T) {
	c := newTestCompiler(t)
	bp, err := c.CompileExpression("2 * 21", "<test>")
	require.NoError(t, err)
	defer bp.Destroy()
	assert.NotNil(t, bp)
}

func TestDiagnosticsSurviveUntilNextCompileCall(t *testing.T) {
	c := newTestCompiler(t)
	_, err := c.CompileStatement(`var x: int<32> = "oops";`, "<test>")
	require.Error(t, err)
	assert.NotEmpty(t, c.Diagnostics())

	_, err = c.CompileStatement("1;", "<test>")
	require.NoError(t, err)
	assert.Empty(t, c.Diagnostics())
}

func TestDefVarMakesNameVisibleToSubsequentCompiles(t *testing.T) {
	c := newTestCompiler(t)
	c.DefVar("answer", value.NewInteger(42, 32, true))
	v, err := c.CompileStatement("answer;", "<test>")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.(value.Integer).Int64())
}

func TestDeclPAndDeclMapReflectDeclaredNames(t *testing.T) {
	c := newTestCompiler(t)
	require.NoError(t, c.CompileProgram("var x: int<32> = 1; fun f(a: int<32>): int<32> { return a; }", "<test>"))

	assert.True(t, c.DeclP("x", DeclVar))
	assert.True(t, c.DeclP("f", DeclFunc))
	assert.False(t, c.DeclP("nope", DeclVar))

	var names []string
	c.DeclMap(DeclVar, func(n string) { names = append(names, n) })
	assert.Contains(t, names, "x")
}

func TestCompletionFiltersByPrefix(t *testing.T) {
	c := newTestCompiler(t)
	require.NoError(t, c.CompileProgram("var foobar: int<32> = 1; var fizz: int<32> = 2;", "<test>"))
	got := c.Completion("foo")
	assert.Contains(t, got, "foobar")
	assert.NotContains(t, got, "fizz")
}

func TestSetErrorOnWarningPromotesWarningsToErrors(t *testing.T) {
	c := newTestCompiler(t)
	c.SetErrorOnWarning(true)
	assert.True(t, c.ErrorOnWarning())
	c.ctx.Diags.Add(diag.NewWarning("test", diag.Location{}, "w"))
	assert.True(t, c.ctx.Diags.HasErrors())
}
