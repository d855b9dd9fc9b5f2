package analyze

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/diag"
	"pklc/internal/pass"
	"pklc/internal/value"
)

// NewAnal2 builds the phase that runs after typify2 (spec §4.6): every
// declaration's initializer must actually be promotable to its
// declared type (promote already inserted the casts that make this
// true in the common case; this phase catches the cases promote
// couldn't fix, like a struct-typed initializer that doesn't match the
// declared struct's name), and every struct constructor's field values
// must be promotable to their declared field types.
func NewAnal2(ctx *compiler.Context) *pass.Phase {
	p := &pass.Phase{Post: map[ast.Tag]pass.Handler{}}

	p.Post[ast.TagVarDecl] = func(n ast.Node) pass.Result {
		vd := n.(*ast.VarDecl)
		if vd.TypeSpec == nil || vd.Init == nil {
			return pass.Continue
		}
		want := ctx.ResolveTypeSpec(vd.TypeSpec)
		got := typeOf(vd.Init)
		if got == nil || want == nil {
			return pass.Continue
		}
		if got.EqualType(want) {
			return pass.Continue
		}
		if got.Code == value.TypeIntegral && want.Code == value.TypeIntegral && got.Promotable(want) {
			return pass.Continue
		}
		ctx.Diags.Add(diag.NewError("anal2", compiler.Loc(n.Location()), "cannot initialize %s with a value of type %s", want, got))
		return pass.Error
	}

	p.Post[ast.TagStructCons] = func(n ast.Node) pass.Result {
		sc := n.(*ast.StructCons)
		t, ok := sc.Type().(*value.Type)
		if !ok || t.Code != value.TypeStruct {
			return pass.Continue
		}
		for _, f := range sc.Fields {
			fi, ok := f.(*ast.FieldInit)
			if !ok {
				continue
			}
			idx := t.FieldIndex(fi.Name)
			if idx < 0 {
				ctx.Diags.Add(diag.NewError("anal2", compiler.Loc(n.Location()), "struct %s has no field %q", t.Name, fi.Name))
				return pass.Error
			}
			want := t.FieldTypes[idx]
			got := typeOf(fi.Value)
			if got == nil || want.EqualType(got) {
				continue
			}
			if want.Code == value.TypeIntegral && got.Code == value.TypeIntegral && got.Promotable(want) {
				continue
			}
			ctx.Diags.Add(diag.NewError("anal2", compiler.Loc(n.Location()), "field %q of struct %s expects %s, got %s", fi.Name, t.Name, want, got))
			return pass.Error
		}
		return pass.Continue
	}

	return p
}
