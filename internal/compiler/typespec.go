package compiler

import (
	"pklc/internal/ast"
	"pklc/internal/value"
)

// ResolveTypeSpec turns a type-specifier subtree (spec §3.2's type node
// family) into a runtime *value.Type descriptor. It is an ordinary
// recursive function rather than a pass.Phase: type specifiers are
// resolved on demand wherever a cast, declaration, or constructor needs
// one, rather than via a dedicated tree walk (spec §4.1 offers a
// VisitTypes driver mode for passes that want to see type nodes in
// place; the type-checking phases here never rewrite a type specifier,
// so they resolve it directly instead).
func (ctx *Context) ResolveTypeSpec(n ast.Node) *value.Type {
	if n == nil {
		return value.AnyType
	}
	switch t := n.(type) {
	case *ast.TypeIntegral:
		return value.NewIntegralType(t.Width, t.Signed)
	case *ast.TypeString:
		return value.StringType
	case *ast.TypeAny:
		return value.AnyType
	case *ast.TypeArray:
		elem := ctx.ResolveTypeSpec(t.ElemType)
		if t.Bound == nil {
			return value.NewArrayType(elem, nil)
		}
		if lit, ok := t.Bound.(*ast.IntegerLiteral); ok {
			count := uint64(lit.Value)
			return value.NewArrayType(elem, &value.ArrayBound{Count: &count})
		}
		// Bound depends on an expression fold hasn't reduced yet; the
		// array type stays incomplete until trans2/fold settle it.
		return value.NewArrayType(elem, nil)
	case *ast.TypeStruct:
		names := make([]string, len(t.Fields))
		types := make([]*value.Type, len(t.Fields))
		for i, f := range t.Fields {
			names[i] = f.Name
			types[i] = ctx.ResolveTypeSpec(f.Type)
		}
		return value.NewStructType(t.Name, names, types)
	case *ast.TypeFunction:
		args := make([]*value.Type, len(t.ParamTypes))
		for i, p := range t.ParamTypes {
			args[i] = ctx.ResolveTypeSpec(p)
		}
		return value.NewClosureType(ctx.ResolveTypeSpec(t.RetType), args)
	case *ast.TypeOffset:
		base := ctx.ResolveTypeSpec(t.BaseType)
		bits := ctx.UnitBits[t.Unit]
		if bits == 0 {
			bits = 1
		}
		return value.NewOffsetType(base, bits)
	default:
		return value.AnyType
	}
}
