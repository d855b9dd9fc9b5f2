package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/compiler/promote"
	"pklc/internal/compiler/transform"
	"pklc/internal/compiler/typify"
	"pklc/internal/langparser"
	"pklc/internal/pass"
	"pklc/internal/value"
)

// unitPreamble declares the byte/bit units the offset-literal tests
// exercise (spec §3.3's unit namespace has no builtins; "B"/"b" are
// ordinary user declarations).
const unitPreamble = "unit B = 8; unit b = 1;\n"

// foldLastExpr runs the phases that precede and include fold (C8) over
// src's statements and returns the final statement's folded constant,
// if any.
func foldLastExpr(t *testing.T, src string) (value.Value, bool) {
	t.Helper()
	n, err := langparser.Parse("<test>", src)
	require.NoError(t, err)
	prog := n.(*ast.Program)
	require.NotEmpty(t, prog.Decls)

	ctx := compiler.NewContext(false)
	driver := pass.NewDriver(pass.SkipTypes,
		transform.NewTrans1(ctx),
		typify.NewTypify1(ctx),
		promote.NewPromote(ctx),
		transform.NewTrans2(ctx),
		NewFold(ctx),
	)
	require.Nil(t, driver.Run(prog))

	stmt := prog.Decls[len(prog.Decls)-1].(*ast.ExprStmt)
	v, ok := ctx.ConstVal[stmt.Expr]
	return v, ok
}

func TestFoldOffsetAddRenormalizesToResultUnit(t *testing.T) {
	// end-to-end scenario 2: 1#B + 8#b folds to magnitude 2, unit 8.
	v, ok := foldLastExpr(t, unitPreamble+"1#B + 8#b;")
	require.True(t, ok)
	off := v.(*value.Offset)
	assert.Equal(t, int64(2), off.Magnitude.Int64())
	assert.Equal(t, uint64(8), off.Unit)
}

func TestFoldOffsetSubtractAndMultiply(t *testing.T) {
	v, ok := foldLastExpr(t, unitPreamble+"10#B - 16#b;")
	require.True(t, ok)
	off := v.(*value.Offset)
	assert.Equal(t, int64(8), off.Magnitude.Int64())
	assert.Equal(t, uint64(8), off.Unit)

	v, ok = foldLastExpr(t, unitPreamble+"2#B * 3#B;")
	require.True(t, ok)
	off = v.(*value.Offset)
	assert.Equal(t, int64(6), off.Magnitude.Int64())
}

func TestFoldOffsetRelationalComparesNormalizedBits(t *testing.T) {
	v, ok := foldLastExpr(t, unitPreamble+"1#B == 8#b;")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.(value.Integer).Int64())

	v, ok = foldLastExpr(t, unitPreamble+"1#B < 2#B;")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.(value.Integer).Int64())
}

func TestFoldIntegerArithmeticStillFolds(t *testing.T) {
	v, ok := foldLastExpr(t, "1 + 2 * 3;")
	require.True(t, ok)
	assert.Equal(t, int64(7), v.(value.Integer).Int64())
}
