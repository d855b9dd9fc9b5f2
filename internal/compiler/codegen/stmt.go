package codegen

import (
	"pklc/internal/ast"
	"pklc/internal/bytecode"
	"pklc/internal/value"
)

// genStmt emits one statement's code; statements never leave a net
// value on the operand stack (spec §4.7).
func (c *Codegen) genStmt(n ast.Node) {
	if n == nil {
		return
	}
	switch s := n.(type) {
	case *ast.Compound:
		c.enterScope()
		for _, stmt := range s.Stmts {
			c.genStmt(stmt)
		}
		c.leaveScope()

	case *ast.VarDecl:
		c.genVarDecl(s)

	case *ast.UnitDecl:
		c.prog.AppendPush(value.NewInteger(int64(s.BitsPerUnit), 64, false), loc(s))
		slot := c.declareUnit(s.Name)
		c.prog.AppendRegister(bytecode.OpStoreUnit, 0, slot, loc(s))

	case *ast.TypeDecl:
		// Type declarations are purely compile-time (resolved by
		// compiler.ResolveTypeSpec); nothing to emit.

	case *ast.FuncDecl:
		// A function literal declared inside a nested scope: register
		// its label lazily (forward calls from earlier sibling
		// statements in the same block are not supported — functions
		// are expected at the top level, spec §3.2).
		if _, ok := c.funcLabels[s.Name]; !ok {
			c.funcLabels[s.Name] = c.prog.FreshLabel()
		}
		after := c.prog.FreshLabel()
		c.prog.AppendLabelRef(bytecode.OpJump, after, loc(s))
		c.genFuncDecl(s)
		c.prog.AppendLabel(after, loc(s))

	case *ast.Assignment:
		c.genAssignment(s)

	case *ast.ExprStmt:
		c.genExpr(s.Expr)
		c.emit(bytecode.OpPop, s)

	case *ast.If:
		c.genIf(s)

	case *ast.LoopWhile:
		c.genLoopWhile(s)

	case *ast.LoopForN:
		c.genLoopForN(s)

	case *ast.LoopForIn:
		c.genLoopForIn(s)

	case *ast.Return:
		if s.Value != nil {
			c.genExpr(s.Value)
		} else {
			c.prog.AppendPush(value.Null{}, loc(s))
		}
		c.emit(bytecode.OpReturn, s)

	case *ast.Break:
		if len(c.breakStack) == 0 {
			c.errorf(s, "break outside of a loop")
			return
		}
		c.prog.AppendLabelRef(bytecode.OpJump, c.breakStack[len(c.breakStack)-1], loc(s))

	case *ast.Print:
		for _, a := range s.Args {
			c.genExpr(a)
			c.emit(bytecode.OpPrint, s)
		}

	default:
		c.errorf(n, "codegen: unsupported statement %s", n.Tag())
	}
}

func (c *Codegen) genVarDecl(vd *ast.VarDecl) {
	if vd.Init != nil {
		c.genExpr(vd.Init)
	} else {
		c.genZeroValue(vd)
	}
	slot := c.declare(vd.Name)
	c.prog.AppendRegister(bytecode.OpStore, 0, slot, loc(vd))
}

// genZeroValue pushes the declared type's default value for a `var`
// with no initializer (spec §3.2 "VarDecl": "uninitialized variables
// take their type's zero value").
func (c *Codegen) genZeroValue(vd *ast.VarDecl) {
	t := typeOf(vd)
	if t == nil {
		c.prog.AppendPush(value.Null{}, loc(vd))
		return
	}
	switch t.Code {
	case value.TypeIntegral:
		c.prog.AppendPush(value.NewInteger(0, t.Size, t.Signed), loc(vd))
	case value.TypeStringT:
		c.prog.AppendPush(value.NewStr(""), loc(vd))
	default:
		c.prog.AppendPush(value.Null{}, loc(vd))
	}
}

func (c *Codegen) genAssignment(as *ast.Assignment) {
	switch lhs := as.LHS.(type) {
	case *ast.Identifier:
		c.genExpr(as.RHS)
		back, over, ok := c.lookup(lhs.Name)
		if !ok {
			c.errorf(as, "undefined variable %q", lhs.Name)
			return
		}
		c.prog.AppendRegister(bytecode.OpStore, back, over, loc(as))

	case *ast.VarRef:
		c.genExpr(as.RHS)
		c.prog.AppendRegister(bytecode.OpStore, lhs.Back, lhs.Over, loc(as))

	case *ast.Indexer:
		c.genExpr(lhs.Base)
		c.genExpr(lhs.Index)
		c.genExpr(as.RHS)
		c.emit(bytecode.OpSetIndex, as)
		c.emit(bytecode.OpPop, as) // discard OpSetIndex's pushed-back base

	case *ast.Trimmer:
		c.errorf(as, "slice assignment is not supported")

	default:
		c.errorf(as, "invalid assignment target")
	}
}

func (c *Codegen) genIf(s *ast.If) {
	c.genExpr(s.Cond)
	elseLabel := c.prog.FreshLabel()
	c.prog.AppendLabelRef(bytecode.OpJumpIfFalse, elseLabel, loc(s))
	c.genStmt(s.Then)
	if s.Else == nil {
		c.prog.AppendLabel(elseLabel, loc(s))
		return
	}
	end := c.prog.FreshLabel()
	c.prog.AppendLabelRef(bytecode.OpJump, end, loc(s))
	c.prog.AppendLabel(elseLabel, loc(s))
	c.genStmt(s.Else)
	c.prog.AppendLabel(end, loc(s))
}

func (c *Codegen) genLoopWhile(s *ast.LoopWhile) {
	top := c.prog.FreshLabel()
	end := c.prog.FreshLabel()
	c.prog.AppendLabel(top, loc(s))
	c.genExpr(s.Cond)
	c.prog.AppendLabelRef(bytecode.OpJumpIfFalse, end, loc(s))
	c.breakStack = append(c.breakStack, end)
	c.genStmt(s.Body)
	c.breakStack = c.breakStack[:len(c.breakStack)-1]
	c.prog.AppendLabelRef(bytecode.OpJump, top, loc(s))
	c.prog.AppendLabel(end, loc(s))
}

func (c *Codegen) genLoopForN(s *ast.LoopForN) {
	c.enterScope()
	if s.Init != nil {
		c.genStmt(s.Init)
	}
	top := c.prog.FreshLabel()
	end := c.prog.FreshLabel()
	c.prog.AppendLabel(top, loc(s))
	if s.Cond != nil {
		c.genExpr(s.Cond)
		c.prog.AppendLabelRef(bytecode.OpJumpIfFalse, end, loc(s))
	}
	c.breakStack = append(c.breakStack, end)
	c.genStmt(s.Body)
	c.breakStack = c.breakStack[:len(c.breakStack)-1]
	if s.Step != nil {
		c.genStmt(s.Step)
	}
	c.prog.AppendLabelRef(bytecode.OpJump, top, loc(s))
	c.prog.AppendLabel(end, loc(s))
	c.leaveScope()
}

// genLoopForIn lowers `for (x in iterable) body` against an array (or
// string, by rune) by way of three hidden locals — the iterable
// itself, an integer index, and the per-iteration binding — since the
// bytecode has no dedicated iterator opcode (spec §3.2 "LoopForIn").
func (c *Codegen) genLoopForIn(s *ast.LoopForIn) {
	c.enterScope()
	c.genExpr(s.Iterable)
	iterSlot := c.declare("$iter")
	c.prog.AppendRegister(bytecode.OpStore, 0, iterSlot, loc(s))

	c.prog.AppendPush(value.NewInteger(0, 64, false), loc(s))
	idxSlot := c.declare("$idx")
	c.prog.AppendRegister(bytecode.OpStore, 0, idxSlot, loc(s))

	varSlot := c.declare(s.VarName)

	top := c.prog.FreshLabel()
	end := c.prog.FreshLabel()
	c.prog.AppendLabel(top, loc(s))

	c.prog.AppendRegister(bytecode.OpLoad, 0, idxSlot, loc(s))
	c.prog.AppendRegister(bytecode.OpLoad, 0, iterSlot, loc(s))
	c.emit(bytecode.OpLen, s)
	c.emit(bytecode.OpLt, s)
	c.prog.AppendLabelRef(bytecode.OpJumpIfFalse, end, loc(s))

	c.prog.AppendRegister(bytecode.OpLoad, 0, iterSlot, loc(s))
	c.prog.AppendRegister(bytecode.OpLoad, 0, idxSlot, loc(s))
	c.emit(bytecode.OpIndex, s)
	c.prog.AppendRegister(bytecode.OpStore, 0, varSlot, loc(s))

	c.breakStack = append(c.breakStack, end)
	c.genStmt(s.Body)
	c.breakStack = c.breakStack[:len(c.breakStack)-1]

	c.prog.AppendRegister(bytecode.OpLoad, 0, idxSlot, loc(s))
	c.prog.AppendPush(value.NewInteger(1, 64, false), loc(s))
	c.emit(bytecode.OpAdd, s)
	c.prog.AppendRegister(bytecode.OpStore, 0, idxSlot, loc(s))
	c.prog.AppendLabelRef(bytecode.OpJump, top, loc(s))

	c.prog.AppendLabel(end, loc(s))
	c.leaveScope()
}
