// Package analyze implements C9: the three analysis phases spec §4.6
// schedules around the transform/typify/fold phases — anal1 right
// after trans1 (before anything is typed), anal2 after typify2 (once
// folding and typing have both settled), and analf immediately before
// codegen. Each keeps its own small "am I inside a loop / a function"
// context stack rather than a generic scope object, mirroring how the
// teacher's own recursive-descent checks (_examples/clarete-langlang/go/grammar_ast.go's
// per-node validity assertions) track context with a handful of plain
// counters instead of a full symbol table.
package analyze

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/diag"
	"pklc/internal/pass"
	"pklc/internal/value"
)

// NewAnal1 builds the phase that runs immediately after trans1 (spec
// §4.6): struct field-name uniqueness, break/return context validity,
// and the positivity/shift-count checks that need no type information
// yet to state precisely (offset unit literals, and later — once fold
// has run, since anal1 in this pipeline's ordering sits after fold —
// constant left-shift counts against the result width).
func NewAnal1(ctx *compiler.Context) *pass.Phase {
	loopDepth := 0
	funcDepth := 0

	p := &pass.Phase{
		Pre:    map[ast.Tag]pass.Handler{},
		Post:   map[ast.Tag]pass.Handler{},
		PostOp: map[ast.Op]pass.Handler{},
	}

	enterLoop := func(n ast.Node) pass.Result { loopDepth++; return pass.Continue }
	for _, tag := range []ast.Tag{ast.TagLoopWhile, ast.TagLoopForN, ast.TagLoopForIn} {
		p.Pre[tag] = enterLoop
	}
	p.Post[ast.TagLoopWhile] = func(n ast.Node) pass.Result { loopDepth--; return pass.Continue }
	p.Post[ast.TagLoopForN] = func(n ast.Node) pass.Result { loopDepth--; return pass.Continue }
	p.Post[ast.TagLoopForIn] = func(n ast.Node) pass.Result { loopDepth--; return pass.Continue }

	p.Pre[ast.TagFuncDecl] = func(n ast.Node) pass.Result { funcDepth++; return pass.Continue }
	p.Post[ast.TagFuncDecl] = func(n ast.Node) pass.Result { funcDepth--; return pass.Continue }

	p.Post[ast.TagBreak] = func(n ast.Node) pass.Result {
		if loopDepth == 0 {
			ctx.Diags.Add(diag.NewError("anal1", compiler.Loc(n.Location()), "break outside of a loop"))
			return pass.Error
		}
		return pass.Continue
	}
	p.Post[ast.TagReturn] = func(n ast.Node) pass.Result {
		if funcDepth == 0 {
			ctx.Diags.Add(diag.NewError("anal1", compiler.Loc(n.Location()), "return outside of a function"))
			return pass.Error
		}
		return pass.Continue
	}

	p.Post[ast.TagOffsetLiteral] = func(n ast.Node) pass.Result {
		lit := n.(*ast.OffsetLiteral)
		if il, ok := lit.Magnitude.(*ast.IntegerLiteral); ok && il.Value < 0 {
			ctx.Diags.Add(diag.NewError("anal1", compiler.Loc(n.Location()), "offset magnitude must be positive"))
			return pass.Error
		}
		return pass.Continue
	}

	p.PostOp[ast.OpShl] = func(n ast.Node) pass.Result {
		b := n.(*ast.Binary)
		count, ok := constOf(ctx, b.Right)
		if !ok {
			return pass.Continue
		}
		i, ok := asInteger(count)
		if !ok {
			return pass.Continue
		}
		t := typeOf(b.Left)
		if t == nil || t.Code != value.TypeIntegral {
			return pass.Continue
		}
		if i.Int64() >= int64(t.Size) {
			ctx.Diags.Add(diag.NewError("anal1", compiler.Loc(n.Location()), "left-shift count %d is not less than operand width %d", i.Int64(), t.Size))
			return pass.Error
		}
		return pass.Continue
	}

	p.Post[ast.TagTypeStruct] = func(n ast.Node) pass.Result {
		ts := n.(*ast.TypeStruct)
		seen := make(map[string]bool, len(ts.Fields))
		for _, f := range ts.Fields {
			if seen[f.Name] {
				ctx.Diags.Add(diag.NewError("anal1", compiler.Loc(n.Location()), "duplicate field name %q", f.Name))
				return pass.Error
			}
			seen[f.Name] = true
		}
		return pass.Continue
	}

	return p
}
