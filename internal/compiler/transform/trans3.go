package transform

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/pass"
)

// NewTrans3 builds the phase that runs after folding (spec §4.2):
// folding has already collapsed every subtree whose value is a
// compile-time constant, so what's left for trans3 is structural
// cleanup folding doesn't do itself — here, canceling a double
// arithmetic negation that survived folding because its operand isn't
// constant (`- - x` has no constant value to fold, but is still
// always equal to `x`).
func NewTrans3(ctx *compiler.Context) *pass.Phase {
	p := &pass.Phase{Post: map[ast.Tag]pass.Handler{}}

	p.Post[ast.TagUnary] = func(n ast.Node) pass.Result {
		outer := n.(*ast.Unary)
		if outer.Op != ast.OpNeg {
			return pass.Continue
		}
		inner, ok := outer.Operand.(*ast.Unary)
		if !ok || inner.Op != ast.OpNeg {
			return pass.Continue
		}
		// `- - x` becomes `+ x`: OpPos is codegen's identity unary, so
		// this node now just forwards x without re-negating it.
		outer.Op = ast.OpPos
		outer.Operand = inner.Operand
		return pass.Restart
	}

	return p
}
