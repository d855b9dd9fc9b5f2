package transform

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/pass"
	"pklc/internal/value"
)

// NewTrans2 builds the phase that runs after typify1+promote (spec
// §4.2): it finalizes offset literals whose units were named
// symbolically by a `unit` declaration rather than a literal bit
// count, now that trans1 has populated ctx.UnitBits for every unit in
// scope.
func NewTrans2(ctx *compiler.Context) *pass.Phase {
	p := &pass.Phase{Post: map[ast.Tag]pass.Handler{}}

	p.Post[ast.TagOffsetLiteral] = func(n ast.Node) pass.Result {
		lit := n.(*ast.OffsetLiteral)
		bits, ok := ctx.UnitBits[lit.Unit]
		if !ok {
			// Not a named unit; typify1 already resolved the literal
			// unit spelling (e.g. "b", "B") via ResolveTypeSpec's
			// TypeOffset path, nothing left to finalize.
			return pass.Continue
		}
		t, _ := n.Type().(*value.Type)
		if t == nil || t.Code != value.TypeOffset {
			return pass.Continue
		}
		t.Unit = bits
		return pass.Continue
	}

	return p
}
