// Package pipeline wires the twelve ordered phases spec §4's data flow
// describes into the single Compile entry point internal/compile's
// facade calls. It lives one level above internal/compiler and its
// phase subpackages so it can depend on all of them (including
// codegen) without creating the import cycle that would result from
// putting this in package compiler itself, since every phase
// subpackage already imports compiler.Context.
package pipeline

import (
	"fmt"

	"pklc/internal/ast"
	"pklc/internal/bytecode"
	"pklc/internal/compiler"
	"pklc/internal/compiler/analyze"
	"pklc/internal/compiler/codegen"
	"pklc/internal/compiler/fold"
	"pklc/internal/compiler/promote"
	"pklc/internal/compiler/transform"
	"pklc/internal/compiler/typify"
	"pklc/internal/pass"
)

// Error reports which table-driven phase aborted the pipeline (spec
// §4.1's "pipeline aborts before the next pass if any phase payload
// reports a non-zero error count"). Diagnostics explaining what went
// wrong are in ctx.Diags, not repeated here.
type Error struct {
	Phase string
}

func (e *Error) Error() string { return fmt.Sprintf("pipeline: aborted after phase %q", e.Phase) }

// Compile runs every phase over prog in spec §4's fixed order and, if
// all eleven table-driven phases complete without error, lowers the
// result with codegen (C10) into an executable bytecode.Program.
func Compile(ctx *compiler.Context, prog *ast.Program) (*bytecode.Program, error) {
	named := func(name string, p *pass.Phase) *pass.Phase {
		p.Name = name
		return p
	}
	driver := pass.NewDriver(pass.SkipTypes,
		named("trans1", transform.NewTrans1(ctx)),
		named("typify1", typify.NewTypify1(ctx)),
		named("promote", promote.NewPromote(ctx)),
		named("trans2", transform.NewTrans2(ctx)),
		named("fold", fold.NewFold(ctx)),
		named("trans3", transform.NewTrans3(ctx)),
		named("anal1", analyze.NewAnal1(ctx)),
		named("typify2", typify.NewTypify2(ctx)),
		named("anal2", analyze.NewAnal2(ctx)),
		named("trans4", transform.NewTrans4(ctx)),
		named("analf", analyze.NewAnalf(ctx)),
	)

	if failed := driver.Run(prog); failed != nil {
		return nil, &Error{Phase: failed.Name}
	}
	if ctx.Diags.HasErrors() {
		return nil, &Error{Phase: "diagnostics"}
	}

	return codegen.Generate(ctx, prog)
}
