// Package transform implements the four transformation phases spec
// §4.2 places in the pipeline: trans1 runs immediately after parsing,
// trans2 after promotion, trans3 after folding, trans4 just before
// final analysis. Grounded on the teacher's grammar rewrite handlers
// (_examples/clarete-langlang/go/grammar_capture_handler.go, grammar_whitespace_handler.go,
// grammar_charset_handler.go), which likewise rewrite a freshly parsed
// tree into a canonical shape before the rest of the pipeline runs.
package transform

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/pass"
)

// defaultIntWidth is the width an integer literal gets when the parser
// left it unspecified (spec §4.2: "normalizes integer literal types").
const defaultIntWidth = 32

// NewTrans1 builds the phase that runs right after parsing: it
// normalizes integer literal widths, declares every name the
// environment needs to resolve, and resolves each Identifier use to a
// (back, over) coordinate while its frame is still live. It does not
// touch source tags: every node already carries its source in its
// Location, as the parser set it.
func NewTrans1(ctx *compiler.Context) *pass.Phase {
	p := &pass.Phase{
		Name: "trans1",
		Pre:  map[ast.Tag]pass.Handler{},
		Post: map[ast.Tag]pass.Handler{},
	}

	p.Pre[ast.TagCompound] = func(n ast.Node) pass.Result {
		ctx.Env.PushFrame()
		return pass.Continue
	}
	p.Post[ast.TagCompound] = func(n ast.Node) pass.Result {
		ctx.Env.PopFrame()
		return pass.Continue
	}

	p.Pre[ast.TagFuncDecl] = func(n ast.Node) pass.Result {
		fd := n.(*ast.FuncDecl)
		ctx.Env.PushFrame()
		for _, param := range fd.Params {
			cell := &compiler.TypeCell{T: ctx.ResolveTypeSpec(param.Type)}
			ctx.Env.Declare(param.Name, cell)
			ctx.VarTypes[param.Name] = cell.T
		}
		return pass.Continue
	}
	p.Post[ast.TagFuncDecl] = func(n ast.Node) pass.Result {
		ctx.Env.PopFrame()
		return pass.Continue
	}

	p.Pre[ast.TagVarDecl] = func(n ast.Node) pass.Result {
		vd := n.(*ast.VarDecl)
		var cell *compiler.TypeCell
		if vd.TypeSpec != nil {
			cell = &compiler.TypeCell{T: ctx.ResolveTypeSpec(vd.TypeSpec)}
		} else {
			cell = &compiler.TypeCell{} // T stays nil; typify1 records the inferred type in ctx.VarTypes
		}
		ctx.Env.Declare(vd.Name, cell)
		if cell.T != nil {
			ctx.VarTypes[vd.Name] = cell.T
		}
		return pass.Continue
	}

	p.Pre[ast.TagUnitDecl] = func(n ast.Node) pass.Result {
		ud := n.(*ast.UnitDecl)
		ctx.Env.DeclareUnit(ud.Name, ud.BitsPerUnit)
		ctx.UnitBits[ud.Name] = ud.BitsPerUnit
		return pass.Continue
	}

	p.Pre[ast.TagIdentifier] = func(n ast.Node) pass.Result {
		id := n.(*ast.Identifier)
		if back, over, _, ok := ctx.Env.Lookup(id.Name); ok {
			ctx.Resolved[n] = compiler.Coord{Back: back, Over: over}
		}
		return pass.Continue
	}

	p.Post[ast.TagIntegerLiteral] = func(n ast.Node) pass.Result {
		lit := n.(*ast.IntegerLiteral)
		if lit.Width == 0 {
			lit.Width = defaultIntWidth
			lit.Signed = true
		}
		return pass.Continue
	}

	return p
}
