package codegen

import (
	"pklc/internal/ast"
	"pklc/internal/bytecode"
	"pklc/internal/value"
)

var binaryOp = map[ast.Op]bytecode.Opcode{
	ast.OpAdd: bytecode.OpAdd, ast.OpSub: bytecode.OpSub, ast.OpMul: bytecode.OpMul,
	ast.OpDiv: bytecode.OpDiv, ast.OpMod: bytecode.OpMod,
	ast.OpBitAnd: bytecode.OpBitAnd, ast.OpBitOr: bytecode.OpBitOr, ast.OpBitXor: bytecode.OpBitXor,
	ast.OpShl: bytecode.OpShl, ast.OpShr: bytecode.OpShr,
	ast.OpEq: bytecode.OpEq, ast.OpNe: bytecode.OpNe,
	ast.OpLt: bytecode.OpLt, ast.OpLe: bytecode.OpLe, ast.OpGt: bytecode.OpGt, ast.OpGe: bytecode.OpGe,
}

// genExpr emits one expression's code, leaving exactly one value on
// the operand stack (spec §4.7). Constant subtrees are short-circuited
// to a single OpPush of the value fold.go already computed in
// ctx.ConstVal, rather than re-emitting the arithmetic that produced
// it (spec §4.5's folding is meant to reach codegen, not stop at it).
func (c *Codegen) genExpr(n ast.Node) {
	if v, ok := constOf(c.ctx, n); ok {
		if _, isCall := n.(*ast.FuncCall); !isCall {
			c.prog.AppendPush(v, loc(n))
			return
		}
	}

	switch e := n.(type) {
	case *ast.IntegerLiteral:
		c.prog.AppendPush(value.NewInteger(e.Value, e.Width, e.Signed), loc(n))

	case *ast.StringLiteral:
		c.prog.AppendPush(value.NewStr(e.Value), loc(n))

	case *ast.OffsetLiteral:
		// Magnitude is always a literal (grammar-enforced), so fold
		// always resolves this; the ctx.ConstVal fast path above
		// handles it and this arm should be unreachable in practice.
		c.prog.AppendPush(value.NewInteger(0, 64, true), loc(n))

	case *ast.NullLiteral:
		c.prog.AppendPush(value.Null{}, loc(n))

	case *ast.Identifier:
		c.genIdentifier(e)

	case *ast.VarRef:
		c.prog.AppendRegister(bytecode.OpLoad, e.Back, e.Over, loc(n))

	case *ast.Binary:
		c.genBinary(e)

	case *ast.Unary:
		c.genUnary(e)

	case *ast.Cast:
		c.genCast(e)

	case *ast.Conditional:
		c.genConditional(e)

	case *ast.Indexer:
		c.genExpr(e.Base)
		c.genExpr(e.Index)
		c.emit(bytecode.OpIndex, e)

	case *ast.Trimmer:
		c.genExpr(e.Base)
		c.genExpr(e.From)
		c.genExpr(e.To)
		c.emit(bytecode.OpTrim, e)

	case *ast.StructCons:
		c.genStructCons(e)

	case *ast.FuncCall:
		c.genFuncCall(e)

	case *ast.MapExpr:
		c.genMapExpr(e)

	default:
		c.errorf(n, "codegen: unsupported expression %s", n.Tag())
		c.prog.AppendPush(value.Null{}, loc(n))
	}
}

func (c *Codegen) genIdentifier(id *ast.Identifier) {
	if back, over, ok := c.lookup(id.Name); ok {
		c.prog.AppendRegister(bytecode.OpLoad, back, over, loc(id))
		return
	}
	c.errorf(id, "undefined variable %q", id.Name)
	c.prog.AppendPush(value.Null{}, loc(id))
}

func (c *Codegen) genBinary(b *ast.Binary) {
	switch b.Op {
	case ast.OpAnd:
		c.genShortCircuit(b, false)
		return
	case ast.OpOr:
		c.genShortCircuit(b, true)
		return
	}
	c.genExpr(b.Left)
	c.genExpr(b.Right)
	op, ok := binaryOp[b.Op]
	if !ok {
		c.errorf(b, "codegen: unsupported operator %s", b.Op)
		return
	}
	c.emit(op, b)
}

// genShortCircuit lowers && and || without always evaluating the
// right operand (spec §3.2's logical operators are short-circuiting).
// shortOn is the left-hand boolean value that skips evaluating Right
// entirely: false for &&, true for ||.
func (c *Codegen) genShortCircuit(b *ast.Binary, shortOn bool) {
	c.genExpr(b.Left)
	skip := c.prog.FreshLabel()
	end := c.prog.FreshLabel()
	c.prog.AppendInstruction(bytecode.Instruction{Op: bytecode.OpDup, Loc: loc(b)})
	if shortOn {
		c.prog.AppendLabelRef(bytecode.OpJumpIfTrue, skip, loc(b))
	} else {
		c.prog.AppendLabelRef(bytecode.OpJumpIfFalse, skip, loc(b))
	}
	c.emit(bytecode.OpPop, b)
	c.genExpr(b.Right)
	c.prog.AppendLabelRef(bytecode.OpJump, end, loc(b))
	c.prog.AppendLabel(skip, loc(b))
	c.prog.AppendLabel(end, loc(b))
}

func (c *Codegen) genUnary(u *ast.Unary) {
	c.genExpr(u.Operand)
	switch u.Op {
	case ast.OpNeg:
		c.emit(bytecode.OpNeg, u)
	case ast.OpPos:
		// no-op: unary + changes nothing at run time
	case ast.OpNot:
		c.emit(bytecode.OpNot, u)
	case ast.OpBitNot:
		c.emit(bytecode.OpBitNot, u)
	default:
		c.errorf(u, "codegen: unsupported unary operator %s", u.Op)
	}
}

func (c *Codegen) genCast(cst *ast.Cast) {
	c.genExpr(cst.Operand)
	t := typeOf(cst)
	if t == nil {
		return
	}
	switch t.Code {
	case value.TypeIntegral:
		signed := 0
		if t.Signed {
			signed = 1
		}
		c.prog.AppendInstruction(bytecode.Instruction{Op: bytecode.OpCastInt, Arg: t.Size, Arg2: signed, Loc: loc(cst)})
	case value.TypeOffset:
		c.prog.AppendInstruction(bytecode.Instruction{Op: bytecode.OpCastOffset, Arg: int(t.Unit), Loc: loc(cst)})
	default:
		// any/string/struct/array/closure casts carry no run-time
		// representation change (spec §4.3's promotable-type casts are
		// all integral or offset; an `any`-typed cast is just a type
		// system fiction here).
	}
}

func (c *Codegen) genConditional(cond *ast.Conditional) {
	c.genExpr(cond.Cond)
	elseLabel := c.prog.FreshLabel()
	end := c.prog.FreshLabel()
	c.prog.AppendLabelRef(bytecode.OpJumpIfFalse, elseLabel, loc(cond))
	c.genExpr(cond.Then)
	c.prog.AppendLabelRef(bytecode.OpJump, end, loc(cond))
	c.prog.AppendLabel(elseLabel, loc(cond))
	c.genExpr(cond.Else)
	c.prog.AppendLabel(end, loc(cond))
}

func (c *Codegen) genStructCons(sc *ast.StructCons) {
	t := typeOf(sc)
	for _, f := range sc.Fields {
		fi := f.(*ast.FieldInit)
		c.genExpr(fi.Value)
	}
	val := c.prog.AppendValParameter(t)
	c.prog.AppendInstruction(bytecode.Instruction{Op: bytecode.OpMakeStruct, Arg: len(sc.Fields), Val: val, Loc: loc(sc)})
}

// genFuncCall resolves Callee statically by name (see codegen.go's
// package doc): only a bare function name in call position is
// supported. Arguments are pushed in reverse so the callee's param
// bindings (genFuncDecl) can consume them with a plain top-to-bottom
// pop sequence.
func (c *Codegen) genFuncCall(fc *ast.FuncCall) {
	name, ok := calleeName(fc.Callee)
	if !ok {
		c.errorf(fc, "indirect function calls are not supported")
		c.prog.AppendPush(value.Null{}, loc(fc))
		return
	}
	label, ok := c.funcLabels[name]
	if !ok {
		c.errorf(fc, "call to undefined function %q", name)
		c.prog.AppendPush(value.Null{}, loc(fc))
		return
	}
	for i := len(fc.Args) - 1; i >= 0; i-- {
		c.genExpr(fc.Args[i])
	}
	c.prog.AppendLabelRef(bytecode.OpCall, label, loc(fc))
}

func calleeName(n ast.Node) (string, bool) {
	switch c := n.(type) {
	case *ast.Identifier:
		return c.Name, true
	case *ast.VarRef:
		return c.Name, true
	default:
		return "", false
	}
}

// genMapExpr lowers `Target @ ios : offset` (spec §3.1 "Mapping").
// Dispatch to the backing I/O space happens inside the VM's OpMap
// handler (internal/vm/mapping.go); codegen's job is only to
// put the operands and the target type where OpMap expects them.
func (c *Codegen) genMapExpr(m *ast.MapExpr) {
	c.genExpr(m.IOS)
	c.genExpr(m.Offset)
	t := typeOf(m)
	val := c.prog.AppendValParameter(t)
	c.prog.AppendInstruction(bytecode.Instruction{Op: bytecode.OpMap, Val: val, Loc: loc(m)})
}
