// Package promote implements C7: spec §4.4's operator-family
// promotion tables. It runs as a single phase after typify1, in
// post-order so every operand already carries the type typify1
// synthesized. Where an operand's type isn't already what the
// operator family requires, the phase wraps it in an explicit Cast
// node (the same node promote's own output would produce by hand) and
// signals Restart so the driver re-types the rewritten subtree before
// moving on (spec §4.1's Restart control flow exists for exactly this:
// "re-run the phase list on the rewritten node").
package promote

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/pass"
	"pklc/internal/value"
)

func typeOf(n ast.Node) *value.Type {
	t, _ := n.Type().(*value.Type)
	return t
}

func typeNodeFor(t *value.Type, loc ast.Location) ast.Node {
	switch t.Code {
	case value.TypeIntegral:
		return ast.NewTypeIntegral(t.Size, t.Signed, loc)
	case value.TypeStringT:
		return ast.NewTypeString(loc)
	case value.TypeOffset:
		return ast.NewTypeOffset(typeNodeFor(t.BaseType, loc), "", loc)
	default:
		return ast.NewTypeAny(loc)
	}
}

func castTo(n ast.Node, t *value.Type) ast.Node {
	c := ast.NewCast(typeNodeFor(t, n.Location()), n, n.Location())
	c.SetType(t)
	return c
}

// promoteOperand wraps operand in a Cast to target when its current
// type differs and is promotable, reporting whether a rewrite
// happened (the caller uses this to decide whether Restart is owed).
func promoteOperand(operand *ast.Node, target *value.Type) bool {
	cur := typeOf(*operand)
	if cur == nil || target == nil || cur.EqualType(target) {
		return false
	}
	if cur.Code != value.TypeIntegral || target.Code != value.TypeIntegral {
		return false
	}
	if !cur.Promotable(target) {
		return false
	}
	*operand = castTo(*operand, target)
	return true
}

// NewPromote builds C7's single phase: one post handler per binary
// operator family (division; add/sub/mod/bitwise; multiplication;
// relational; shift/exponentiation — exponentiation has no AST node
// yet, so only shift is wired; bit-concatenation folds into the same
// widening rule as add/sub here), plus assignment and function-call
// argument promotion. Return values are not promoted: there is no
// handler for Return statements.
func NewPromote(ctx *compiler.Context) *pass.Phase {
	p := &pass.Phase{
		Post:   map[ast.Tag]pass.Handler{},
		PostOp: map[ast.Op]pass.Handler{},
	}

	widen := func(n ast.Node) pass.Result {
		b := n.(*ast.Binary)
		lt, rt := typeOf(b.Left), typeOf(b.Right)
		if lt == nil || rt == nil || lt.Code != value.TypeIntegral || rt.Code != value.TypeIntegral {
			return pass.Continue
		}
		target := widerOf(lt, rt)
		l := promoteOperand(&b.Left, target)
		r := promoteOperand(&b.Right, target)
		if l || r {
			n.SetType(target)
			return pass.Restart
		}
		return pass.Continue
	}
	for _, op := range []ast.Op{ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod,
		ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor} {
		p.PostOp[op] = widen
	}

	// Relational/equality operators promote their operands to a common
	// width for the comparison but always yield int<32> themselves
	// (spec §4.4: "relational" family), so the result type is untouched.
	p.PostOp[ast.OpLt] = widenOperandsOnly
	p.PostOp[ast.OpLe] = widenOperandsOnly
	p.PostOp[ast.OpGt] = widenOperandsOnly
	p.PostOp[ast.OpGe] = widenOperandsOnly
	p.PostOp[ast.OpEq] = widenOperandsOnly
	p.PostOp[ast.OpNe] = widenOperandsOnly

	// Shift counts never promote the shifted operand to the count's
	// width or vice versa (spec §4.4 "shift": the left operand keeps
	// its own type, the count is independently promotable to uint<32>).
	p.PostOp[ast.OpShl] = promoteShiftCount
	p.PostOp[ast.OpShr] = promoteShiftCount

	p.Post[ast.TagAssignment] = func(n ast.Node) pass.Result {
		as := n.(*ast.Assignment)
		target := typeOf(as.LHS)
		if target == nil {
			return pass.Continue
		}
		if promoteOperand(&as.RHS, target) {
			return pass.Restart
		}
		return pass.Continue
	}

	p.Post[ast.TagFuncCall] = func(n ast.Node) pass.Result {
		fc := n.(*ast.FuncCall)
		id, ok := fc.Callee.(*ast.Identifier)
		if !ok {
			return pass.Continue
		}
		sig, ok := ctx.FuncSigs[id.Name]
		if !ok {
			return pass.Continue
		}
		rewrote := false
		for i := range fc.Args {
			if i >= len(sig.ArgTypes) {
				break
			}
			if promoteOperand(&fc.Args[i], sig.ArgTypes[i]) {
				rewrote = true
			}
		}
		if rewrote {
			return pass.Restart
		}
		return pass.Continue
	}

	return p
}

func widerOf(a, b *value.Type) *value.Type {
	size := a.Size
	if b.Size > size {
		size = b.Size
	}
	return value.NewIntegralType(size, a.Signed && b.Signed)
}

func widenOperandsOnly(n ast.Node) pass.Result {
	b := n.(*ast.Binary)
	lt, rt := typeOf(b.Left), typeOf(b.Right)
	if lt == nil || rt == nil || lt.Code != value.TypeIntegral || rt.Code != value.TypeIntegral {
		return pass.Continue
	}
	target := widerOf(lt, rt)
	l := promoteOperand(&b.Left, target)
	r := promoteOperand(&b.Right, target)
	if l || r {
		return pass.Restart
	}
	return pass.Continue
}

func promoteShiftCount(n ast.Node) pass.Result {
	b := n.(*ast.Binary)
	rt := typeOf(b.Right)
	if rt == nil || rt.Code != value.TypeIntegral {
		return pass.Continue
	}
	u32 := value.NewIntegralType(32, false)
	if !rt.EqualType(u32) && promoteOperand(&b.Right, u32) {
		return pass.Restart
	}
	return pass.Continue
}
