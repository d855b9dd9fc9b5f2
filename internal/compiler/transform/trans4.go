package transform

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/pass"
	"pklc/internal/value"
)

// NewTrans4 builds the phase that runs just before final analysis
// (spec §4.2): it lowers a struct constructor's field-init list, which
// may name fields out of order or omit fields with defaults, into the
// positional order codegen needs — one FieldInit per declared field,
// in declaration order, synthesizing a null placeholder for any field
// the source omitted (anal2 independently rejects a missing required
// field; trans4 only reshapes what's already valid).
func NewTrans4(ctx *compiler.Context) *pass.Phase {
	p := &pass.Phase{Post: map[ast.Tag]pass.Handler{}}

	p.Post[ast.TagStructCons] = func(n ast.Node) pass.Result {
		sc := n.(*ast.StructCons)
		t, ok := sc.Type().(*value.Type)
		if !ok || t.Code != value.TypeStruct {
			return pass.Continue
		}
		byName := make(map[string]ast.Node, len(sc.Fields))
		for _, f := range sc.Fields {
			if fi, ok := f.(*ast.FieldInit); ok {
				byName[fi.Name] = fi
			}
		}
		ordered := make([]ast.Node, len(t.FieldNames))
		for i, name := range t.FieldNames {
			if fi, ok := byName[name]; ok {
				ordered[i] = fi
				continue
			}
			ordered[i] = ast.NewFieldInit(name, ast.NewNullLiteral(sc.Location()), sc.Location())
		}
		sc.Fields = ordered
		return pass.Continue
	}

	return p
}
