package analyze

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/diag"
	"pklc/internal/pass"
)

// NewAnalf builds the phase that runs immediately before codegen (spec
// §4.6): the last check this pipeline can still reject on is whether
// an assignment's left-hand side is actually something that can be
// stored to.
func NewAnalf(ctx *compiler.Context) *pass.Phase {
	p := &pass.Phase{Post: map[ast.Tag]pass.Handler{}}

	p.Post[ast.TagAssignment] = func(n ast.Node) pass.Result {
		as := n.(*ast.Assignment)
		switch as.LHS.(type) {
		case *ast.Identifier, *ast.VarRef, *ast.Indexer, *ast.Trimmer:
			return pass.Continue
		default:
			ctx.Diags.Add(diag.NewError("analf", compiler.Loc(n.Location()), "invalid assignment target"))
			return pass.Error
		}
	}

	return p
}
