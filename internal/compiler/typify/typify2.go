package typify

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/diag"
	"pklc/internal/pass"
	"pklc/internal/value"
)

// NewTypify2 builds the post-folding consistency sweep (spec §4.3):
// every node must carry a known, complete type by this point; a
// `return` value must be promotable to its enclosing function's
// declared return type (or absent, for a void function); and a call to
// a void function may only appear where its absent result is never
// used.
func NewTypify2(ctx *compiler.Context) *pass.Phase {
	// retStack tracks the return type of each FuncDecl currently being
	// walked, nil entries meaning "void" (spec §4.3).
	var retStack []*value.Type
	stmtDepth := 0

	p := &pass.Phase{
		Pre:         map[ast.Tag]pass.Handler{},
		Post:        map[ast.Tag]pass.Handler{},
		DefaultPost: func(n ast.Node) pass.Result { return checkComplete(ctx, n) },
	}

	p.Pre[ast.TagFuncDecl] = func(n ast.Node) pass.Result {
		sig, _ := n.Type().(*value.Type)
		if sig != nil {
			retStack = append(retStack, sig.ReturnType)
		} else {
			retStack = append(retStack, nil)
		}
		return pass.Continue
	}
	p.Post[ast.TagFuncDecl] = func(n ast.Node) pass.Result {
		retStack = retStack[:len(retStack)-1]
		return checkComplete(ctx, n)
	}

	p.Post[ast.TagReturn] = func(n ast.Node) pass.Result {
		ret := n.(*ast.Return)
		var want *value.Type
		if len(retStack) > 0 {
			want = retStack[len(retStack)-1]
		}
		if ret.Value == nil {
			if want != nil {
				ctx.Diags.Add(diag.NewError("typify2", compiler.Loc(n.Location()), "missing return value in function returning %s", want))
				return pass.Error
			}
			return pass.Continue
		}
		if want == nil {
			ctx.Diags.Add(diag.NewError("typify2", compiler.Loc(n.Location()), "return with a value in a void function"))
			return pass.Error
		}
		got := typeOf(ret.Value)
		if got != nil && got.Code == value.TypeIntegral && want.Code == value.TypeIntegral && !got.Promotable(want) && !got.EqualType(want) {
			ctx.Diags.Add(diag.NewError("typify2", compiler.Loc(n.Location()), "return value of type %s is not promotable to %s", got, want))
			return pass.Error
		}
		return pass.Continue
	}

	p.Pre[ast.TagExprStmt] = func(n ast.Node) pass.Result { stmtDepth++; return pass.Continue }
	p.Post[ast.TagExprStmt] = func(n ast.Node) pass.Result {
		stmtDepth--
		return checkComplete(ctx, n)
	}

	p.Post[ast.TagFuncCall] = func(n ast.Node) pass.Result {
		fc := n.(*ast.FuncCall)
		if id, ok := fc.Callee.(*ast.Identifier); ok {
			if sig, ok := ctx.FuncSigs[id.Name]; ok && sig.ReturnType == nil && stmtDepth == 0 {
				ctx.Diags.Add(diag.NewError("typify2", compiler.Loc(n.Location()), "result of void function %q used in an expression", id.Name))
				return pass.Error
			}
		}
		return checkComplete(ctx, n)
	}

	return p
}

// checkComplete enforces "every node must carry a known, complete
// type" for node kinds that should have one; nodes typify1 never
// assigns a type to (statements, declarations without an inferred
// type) are exempt.
func checkComplete(ctx *compiler.Context, n ast.Node) pass.Result {
	t, ok := n.Type().(*value.Type)
	if !ok || t == nil {
		return pass.Continue
	}
	if t.Complete == value.CompleteUnknown {
		ctx.Diags.Add(diag.NewError("typify2", compiler.Loc(n.Location()), "type of %s could not be determined", n))
		return pass.Error
	}
	return pass.Continue
}
