// Package typify implements the two typing phases spec §4.3 places in
// the pipeline. typify1 is a bottom-up synthesis pass run immediately
// after trans1: every expression node's type is computed from its
// already-typed children, since the driver's post-order handlers fire
// after a node's subtree has been fully visited (spec §4.1's "then
// recurses into children; then... post handler" gives exactly the
// bottom-up order synthesis needs). typify2 runs after folding and
// re-checks the consistency rules that only make sense once constants
// are in their final form.
package typify

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/diag"
	"pklc/internal/pass"
	"pklc/internal/value"
)

func typeOf(n ast.Node) *value.Type {
	t, _ := n.Type().(*value.Type)
	return t
}

// widerOf picks the result type of a binary arithmetic/bitwise
// operator on two integral operands: the wider width wins, and the
// result is signed unless both operands are unsigned (spec §4.4's
// promotion table feeds the same rule; typify1 only needs to *name* a
// type here, promote is what actually inserts the casts).
func widerOf(a, b *value.Type) *value.Type {
	size := a.Size
	if b.Size > size {
		size = b.Size
	}
	signed := a.Signed && b.Signed
	return value.NewIntegralType(size, signed)
}

var boolType = value.NewIntegralType(32, true)

// NewTypify1 builds the bottom-up type synthesis phase.
func NewTypify1(ctx *compiler.Context) *pass.Phase {
	p := &pass.Phase{
		Post:   map[ast.Tag]pass.Handler{},
		PostOp: map[ast.Op]pass.Handler{},
	}

	p.Post[ast.TagIntegerLiteral] = func(n ast.Node) pass.Result {
		lit := n.(*ast.IntegerLiteral)
		n.SetType(value.NewIntegralType(lit.Width, lit.Signed))
		return pass.Continue
	}
	p.Post[ast.TagStringLiteral] = func(n ast.Node) pass.Result {
		n.SetType(value.StringType)
		return pass.Continue
	}
	p.Post[ast.TagNull] = func(n ast.Node) pass.Result {
		n.SetType(value.AnyType)
		return pass.Continue
	}
	p.Post[ast.TagOffsetLiteral] = func(n ast.Node) pass.Result {
		lit := n.(*ast.OffsetLiteral)
		base := typeOf(lit.Magnitude)
		if base == nil {
			base = value.NewIntegralType(64, false)
		}
		bits := ctx.UnitBits[lit.Unit]
		if bits == 0 {
			bits = 1
		}
		n.SetType(value.NewOffsetType(base, bits))
		return pass.Continue
	}

	p.Post[ast.TagIdentifier] = func(n ast.Node) pass.Result {
		id := n.(*ast.Identifier)
		if t, ok := ctx.VarTypes[id.Name]; ok && t != nil {
			n.SetType(t)
			return pass.Continue
		}
		ctx.Diags.Add(diag.NewError("typify1", compiler.Loc(n.Location()), "undeclared identifier %q", id.Name))
		return pass.Error
	}
	p.Post[ast.TagVarRef] = func(n ast.Node) pass.Result {
		vr := n.(*ast.VarRef)
		if t, ok := ctx.VarTypes[vr.Name]; ok {
			n.SetType(t)
		}
		return pass.Continue
	}

	p.Post[ast.TagCast] = func(n ast.Node) pass.Result {
		c := n.(*ast.Cast)
		n.SetType(ctx.ResolveTypeSpec(c.Target))
		return pass.Continue
	}

	p.Post[ast.TagConditional] = func(n ast.Node) pass.Result {
		c := n.(*ast.Conditional)
		n.SetType(typeOf(c.Then))
		return pass.Continue
	}

	p.Post[ast.TagIndexer] = func(n ast.Node) pass.Result {
		ix := n.(*ast.Indexer)
		bt := typeOf(ix.Base)
		if bt != nil && bt.Code == value.TypeArray {
			n.SetType(bt.ElemType)
		} else {
			n.SetType(value.AnyType)
		}
		return pass.Continue
	}
	p.Post[ast.TagTrimmer] = func(n ast.Node) pass.Result {
		tr := n.(*ast.Trimmer)
		n.SetType(typeOf(tr.Base))
		return pass.Continue
	}

	p.Post[ast.TagFuncCall] = func(n ast.Node) pass.Result {
		fc := n.(*ast.FuncCall)
		if id, ok := fc.Callee.(*ast.Identifier); ok {
			if sig, ok := ctx.FuncSigs[id.Name]; ok {
				n.SetType(sig.ReturnType)
				return pass.Continue
			}
			ctx.Diags.Add(diag.NewError("typify1", compiler.Loc(n.Location()), "call to undeclared function %q", id.Name))
			return pass.Error
		}
		n.SetType(value.AnyType)
		return pass.Continue
	}

	p.Post[ast.TagStructCons] = func(n ast.Node) pass.Result {
		sc := n.(*ast.StructCons)
		n.SetType(ctx.ResolveTypeSpec(sc.Target))
		return pass.Continue
	}

	p.Post[ast.TagMap] = func(n ast.Node) pass.Result {
		m := n.(*ast.MapExpr)
		n.SetType(ctx.ResolveTypeSpec(m.Target))
		return pass.Continue
	}

	p.Post[ast.TagVarDecl] = func(n ast.Node) pass.Result {
		vd := n.(*ast.VarDecl)
		if vd.TypeSpec == nil && vd.Init != nil {
			t := typeOf(vd.Init)
			n.SetType(t)
			ctx.VarTypes[vd.Name] = t
		} else if vd.TypeSpec != nil {
			n.SetType(ctx.ResolveTypeSpec(vd.TypeSpec))
		}
		return pass.Continue
	}

	p.Post[ast.TagFuncDecl] = func(n ast.Node) pass.Result {
		fd := n.(*ast.FuncDecl)
		args := make([]*value.Type, len(fd.ParamTypes))
		for i, pt := range fd.ParamTypes {
			args[i] = ctx.ResolveTypeSpec(pt)
		}
		// A nil RetType means the declaration omitted one, i.e. a void
		// function; ReturnType stays nil rather than resolving to
		// AnyType so typify2 can tell "returns any value" apart from
		// "returns nothing" (spec §4.3's void/non-void return rules).
		var ret *value.Type
		if fd.RetType != nil {
			ret = ctx.ResolveTypeSpec(fd.RetType)
		}
		sig := value.NewClosureType(ret, args)
		n.SetType(sig)
		ctx.FuncSigs[fd.Name] = sig
		return pass.Continue
	}

	binaryArith := func(n ast.Node) pass.Result {
		b := n.(*ast.Binary)
		lt, rt := typeOf(b.Left), typeOf(b.Right)
		if lt == nil || rt == nil {
			n.SetType(value.AnyType)
			return pass.Continue
		}
		if lt.Code == value.TypeStringT || rt.Code == value.TypeStringT {
			n.SetType(value.StringType)
			return pass.Continue
		}
		if lt.Code == value.TypeOffset || rt.Code == value.TypeOffset {
			off := lt
			if off.Code != value.TypeOffset {
				off = rt
			}
			n.SetType(off)
			return pass.Continue
		}
		n.SetType(widerOf(lt, rt))
		return pass.Continue
	}
	for _, op := range []ast.Op{ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod,
		ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr} {
		p.PostOp[op] = binaryArith
	}

	boolResult := func(n ast.Node) pass.Result {
		n.SetType(boolType)
		return pass.Continue
	}
	for _, op := range []ast.Op{ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpAnd, ast.OpOr} {
		p.PostOp[op] = boolResult
	}

	p.PostOp[ast.OpNot] = boolResult
	p.PostOp[ast.OpBitNot] = func(n ast.Node) pass.Result {
		u := n.(*ast.Unary)
		n.SetType(typeOf(u.Operand))
		return pass.Continue
	}
	p.PostOp[ast.OpNeg] = func(n ast.Node) pass.Result {
		u := n.(*ast.Unary)
		n.SetType(typeOf(u.Operand))
		return pass.Continue
	}
	p.PostOp[ast.OpPos] = p.PostOp[ast.OpNeg]

	return p
}
