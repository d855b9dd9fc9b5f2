// Package fold implements C8, spec §4.5's constant-folding pass. It
// runs after promote, in post-order, annotating every subtree whose
// value is known at compile time with its folded value in
// ctx.ConstVal rather than physically replacing the subtree with a
// literal node — this module's ast.Node values carry no parent
// pointer, so a node can rewrite its own children (as promote.go
// does) but never the reference its own parent holds to it. Consulting
// ctx.ConstVal achieves the same end (dead-branch elision, bounds
// checking, narrowing masks) without needing general tree surgery.
package fold

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/diag"
	"pklc/internal/pass"
	"pklc/internal/value"
)

func constOf(ctx *compiler.Context, n ast.Node) (value.Value, bool) {
	v, ok := ctx.ConstVal[n]
	return v, ok
}

func typeOf(n ast.Node) *value.Type {
	t, _ := n.Type().(*value.Type)
	return t
}

// NewFold builds C8's single phase.
func NewFold(ctx *compiler.Context) *pass.Phase {
	p := &pass.Phase{
		Post:   map[ast.Tag]pass.Handler{},
		PostOp: map[ast.Op]pass.Handler{},
	}

	p.Post[ast.TagIntegerLiteral] = func(n ast.Node) pass.Result {
		lit := n.(*ast.IntegerLiteral)
		ctx.ConstVal[n] = value.NewInteger(lit.Value, lit.Width, lit.Signed)
		return pass.Continue
	}
	p.Post[ast.TagStringLiteral] = func(n ast.Node) pass.Result {
		ctx.ConstVal[n] = value.NewStr(n.(*ast.StringLiteral).Value)
		return pass.Continue
	}
	p.Post[ast.TagOffsetLiteral] = func(n ast.Node) pass.Result {
		lit := n.(*ast.OffsetLiteral)
		mag, ok := constOf(ctx, lit.Magnitude)
		if !ok {
			return pass.Continue
		}
		i, ok := mag.(value.Integer)
		if !ok {
			return pass.Continue
		}
		t := typeOf(n)
		bits := uint64(1)
		if t != nil && t.Code == value.TypeOffset {
			bits = t.Unit
		}
		// Normalize to bits then renormalize by truncating division,
		// the same lossy rule value.FromBits already implements for
		// runtime offset arithmetic (spec §4.5).
		off := value.FromBits(i.Int64()*int64(bits), bits, i.Width, i.Signed)
		ctx.ConstVal[n] = &off
		return pass.Continue
	}

	arith := func(n ast.Node) pass.Result {
		b := n.(*ast.Binary)
		lv, lok := constOf(ctx, b.Left)
		rv, rok := constOf(ctx, b.Right)
		if !lok || !rok {
			return pass.Continue
		}
		if ls, ok := lv.(*value.Str); ok {
			if result, ok := foldStringBinary(b.Op, ls, rv); ok {
				ctx.ConstVal[n] = result
			}
			return pass.Continue
		}
		if lo, ok := lv.(*value.Offset); ok {
			ro, ok := rv.(*value.Offset)
			if !ok {
				return pass.Continue
			}
			if result, ok := foldOffsetBinary(b.Op, lo, ro, typeOf(n)); ok {
				ctx.ConstVal[n] = result
			}
			return pass.Continue
		}
		t := typeOf(n)
		if t == nil || t.Code != value.TypeIntegral {
			return pass.Continue
		}
		li, liok := lv.(value.Integer)
		ri, riok := rv.(value.Integer)
		if !liok || !riok {
			return pass.Continue
		}
		result, ok := foldIntBinary(b.Op, li, ri, t)
		if !ok {
			return pass.Continue
		}
		ctx.ConstVal[n] = result
		return pass.Continue
	}
	for _, op := range []ast.Op{ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod,
		ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr,
		ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpAnd, ast.OpOr} {
		p.PostOp[op] = arith
	}

	p.PostOp[ast.OpNeg] = func(n ast.Node) pass.Result {
		u := n.(*ast.Unary)
		v, ok := constOf(ctx, u.Operand)
		if !ok {
			return pass.Continue
		}
		i, ok := v.(value.Integer)
		if !ok {
			return pass.Continue
		}
		ctx.ConstVal[n] = value.NewInteger(value.WrapSigned(-i.Int64(), i.Width), i.Width, i.Signed)
		return pass.Continue
	}
	p.PostOp[ast.OpBitNot] = func(n ast.Node) pass.Result {
		u := n.(*ast.Unary)
		v, ok := constOf(ctx, u.Operand)
		if !ok {
			return pass.Continue
		}
		i, ok := v.(value.Integer)
		if !ok {
			return pass.Continue
		}
		ctx.ConstVal[n] = value.NewInteger(int64(value.WrapUnsigned(^i.Uint64(), i.Width)), i.Width, i.Signed)
		return pass.Continue
	}
	p.PostOp[ast.OpNot] = func(n ast.Node) pass.Result {
		u := n.(*ast.Unary)
		v, ok := constOf(ctx, u.Operand)
		if !ok {
			return pass.Continue
		}
		i, ok := v.(value.Integer)
		if !ok {
			return pass.Continue
		}
		b := int64(0)
		if i.Int64() == 0 {
			b = 1
		}
		ctx.ConstVal[n] = value.NewInteger(b, 32, true)
		return pass.Continue
	}

	p.Post[ast.TagCast] = func(n ast.Node) pass.Result {
		c := n.(*ast.Cast)
		v, ok := constOf(ctx, c.Operand)
		if !ok {
			return pass.Continue
		}
		t := typeOf(n)
		if t == nil {
			return pass.Continue
		}
		switch t.Code {
		case value.TypeIntegral:
			if i, ok := v.(value.Integer); ok {
				// Narrowing cast masks to the target width (spec §4.5).
				ctx.ConstVal[n] = value.NewInteger(i.Int64(), t.Size, t.Signed)
			}
		case value.TypeOffset:
			if o, ok := v.(*value.Offset); ok {
				renorm := value.FromBits(o.Bits(), t.Unit, o.Magnitude.Width, o.Magnitude.Signed)
				ctx.ConstVal[n] = &renorm
			}
		default:
			ctx.ConstVal[n] = v
		}
		return pass.Continue
	}

	p.Post[ast.TagIndexer] = func(n ast.Node) pass.Result {
		ix := n.(*ast.Indexer)
		idx, ok := constOf(ctx, ix.Index)
		if !ok {
			return pass.Continue
		}
		i, ok := idx.(value.Integer)
		if !ok {
			return pass.Continue
		}
		bt := typeOf(ix.Base)
		if bt != nil && bt.Code == value.TypeArray && bt.Bound != nil && bt.Bound.Count != nil {
			if i.Int64() < 0 || uint64(i.Int64()) >= *bt.Bound.Count {
				ctx.Diags.Add(diag.NewError("fold", compiler.Loc(n.Location()), "array index %d out of bounds (length %d)", i.Int64(), *bt.Bound.Count))
				return pass.Error
			}
		}
		if sv, ok := constOf(ctx, ix.Base); ok {
			if s, ok := sv.(*value.Str); ok {
				runes := []rune(s.Go())
				if i.Int64() < 0 || int(i.Int64()) >= len(runes) {
					ctx.Diags.Add(diag.NewError("fold", compiler.Loc(n.Location()), "string index %d out of bounds (length %d)", i.Int64(), len(runes)))
					return pass.Error
				}
				ctx.ConstVal[n] = value.NewInteger(int64(runes[i.Int64()]), 32, false)
			}
		}
		return pass.Continue
	}

	p.Post[ast.TagConditional] = func(n ast.Node) pass.Result {
		c := n.(*ast.Conditional)
		cv, ok := constOf(ctx, c.Cond)
		if !ok {
			return pass.Continue
		}
		i, ok := cv.(value.Integer)
		if !ok {
			return pass.Continue
		}
		var branch ast.Node
		if i.Int64() != 0 {
			branch = c.Then
		} else {
			branch = c.Else
		}
		if bv, ok := constOf(ctx, branch); ok {
			ctx.ConstVal[n] = bv
		}
		return pass.Continue
	}

	return p
}

func foldIntBinary(op ast.Op, l, r value.Integer, resultType *value.Type) (value.Value, bool) {
	signed := resultType.Signed
	width := resultType.Size
	switch op {
	case ast.OpAdd:
		return wrapResult(l.Int64()+r.Int64(), width, signed), true
	case ast.OpSub:
		return wrapResult(l.Int64()-r.Int64(), width, signed), true
	case ast.OpMul:
		return wrapResult(l.Int64()*r.Int64(), width, signed), true
	case ast.OpDiv:
		if r.Int64() == 0 {
			return nil, false
		}
		return wrapResult(l.Int64()/r.Int64(), width, signed), true
	case ast.OpMod:
		if r.Int64() == 0 {
			return nil, false
		}
		return wrapResult(l.Int64()%r.Int64(), width, signed), true
	case ast.OpBitAnd:
		return wrapResult(l.Int64()&r.Int64(), width, signed), true
	case ast.OpBitOr:
		return wrapResult(l.Int64()|r.Int64(), width, signed), true
	case ast.OpBitXor:
		return wrapResult(l.Int64()^r.Int64(), width, signed), true
	case ast.OpShl:
		return wrapResult(l.Int64()<<uint(r.Int64()), width, signed), true
	case ast.OpShr:
		return wrapResult(l.Int64()>>uint(r.Int64()), width, signed), true
	case ast.OpEq:
		return boolResult(l.Int64() == r.Int64()), true
	case ast.OpNe:
		return boolResult(l.Int64() != r.Int64()), true
	case ast.OpLt:
		return boolResult(l.Int64() < r.Int64()), true
	case ast.OpLe:
		return boolResult(l.Int64() <= r.Int64()), true
	case ast.OpGt:
		return boolResult(l.Int64() > r.Int64()), true
	case ast.OpGe:
		return boolResult(l.Int64() >= r.Int64()), true
	case ast.OpAnd:
		return boolResult(l.Int64() != 0 && r.Int64() != 0), true
	case ast.OpOr:
		return boolResult(l.Int64() != 0 || r.Int64() != 0), true
	default:
		return nil, false
	}
}

// foldStringBinary implements spec §4.5's string operator family: `+`
// concatenates two strings, `*` repeats the left string by an integer
// right operand, and the relational/equality operators compare
// lexicographically by byte.
func foldStringBinary(op ast.Op, l *value.Str, rv value.Value) (value.Value, bool) {
	switch op {
	case ast.OpAdd:
		r, ok := rv.(*value.Str)
		if !ok {
			return nil, false
		}
		return value.Concat(l, r), true
	case ast.OpMul:
		r, ok := rv.(value.Integer)
		if !ok {
			return nil, false
		}
		return value.Repeat(l, uint64(r.Int64())), true
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		r, ok := rv.(*value.Str)
		if !ok {
			return nil, false
		}
		c := value.Compare(l, r)
		switch op {
		case ast.OpEq:
			return boolResult(c == 0), true
		case ast.OpNe:
			return boolResult(c != 0), true
		case ast.OpLt:
			return boolResult(c < 0), true
		case ast.OpLe:
			return boolResult(c <= 0), true
		case ast.OpGt:
			return boolResult(c > 0), true
		default:
			return boolResult(c >= 0), true
		}
	default:
		return nil, false
	}
}

// foldOffsetBinary implements spec §4.5's offset operator family:
// normalize both operands to bits, perform the operation, then
// renormalize to the result's unit by integer division (end-to-end
// scenario 2: 1#B + 8#b folds to magnitude 2, unit 8). Relational and
// equality operators compare the normalized bit counts directly and
// never renormalize, matching foldIntBinary's integer comparisons.
func foldOffsetBinary(op ast.Op, l, r *value.Offset, resultType *value.Type) (value.Value, bool) {
	lb, rb := l.Bits(), r.Bits()
	switch op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if resultType == nil || resultType.Code != value.TypeOffset {
			return nil, false
		}
		var bits int64
		switch op {
		case ast.OpAdd:
			bits = lb + rb
		case ast.OpSub:
			bits = lb - rb
		case ast.OpMul:
			bits = lb * rb
		case ast.OpDiv:
			if rb == 0 {
				return nil, false
			}
			bits = lb / rb
		}
		off := value.FromBits(bits, resultType.Unit, l.Magnitude.Width, l.Magnitude.Signed)
		return &off, true
	case ast.OpEq:
		return boolResult(lb == rb), true
	case ast.OpNe:
		return boolResult(lb != rb), true
	case ast.OpLt:
		return boolResult(lb < rb), true
	case ast.OpLe:
		return boolResult(lb <= rb), true
	case ast.OpGt:
		return boolResult(lb > rb), true
	case ast.OpGe:
		return boolResult(lb >= rb), true
	default:
		return nil, false
	}
}

func wrapResult(v int64, width int, signed bool) value.Integer {
	if signed {
		return value.NewInteger(value.WrapSigned(v, width), width, true)
	}
	return value.NewInteger(int64(value.WrapUnsigned(uint64(v), width)), width, false)
}

func boolResult(b bool) value.Integer {
	if b {
		return value.NewInteger(1, 32, true)
	}
	return value.NewInteger(0, 32, true)
}
