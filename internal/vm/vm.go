// Package vm executes a compiled bytecode.Program against a run-time
// environment, producing values. It is grounded on the teacher's
// virtualMachine (_examples/clarete-langlang/go/vm.go: a pc/stack struct driving a switch over
// opcodes) and its frame stack (_examples/clarete-langlang/go/vm_stack.go), generalized from
// PEG backtracking registers (ffp, cursor, line, column) to the DSL's
// operand stack plus call frames.
//
// vm imports both bytecode and env (as does internal/compile, which
// drives it); value.Closure's Code/Env fields are typed `any` so that
// those two leaf packages need not import each other (see
// internal/value/closure.go).
package vm

import (
	"fmt"

	"pklc/internal/bytecode"
	"pklc/internal/env"
	"pklc/internal/iosurface"
	"pklc/internal/value"
)

// Error is a run-time fault (divide by zero, out-of-bounds index, a
// mapped value whose backing I/O space rejected a read/write): spec
// §5's "run-time environment" can raise a subset of CompileError's
// sibling conditions, reported through a distinct type so callers can
// tell a compile-time diagnostic from a run-time one (spec §7).
type Error struct {
	Op  bytecode.Opcode
	PC  int
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pc=%d %s: %s", e.PC, e.Op, e.Msg)
}

// callFrame records a call's return address and the operand-stack
// depth at the call, arguments included. The callee pops its own
// arguments, so on return the stack is cut back to at most that depth
// before the return value is pushed (grounded on _examples/clarete-langlang/go/vm_stack.go's frame struct: a tagged union of backtracking/call/
// capture frames, narrowed here to the one kind this VM's Call/Return
// pair needs).
type callFrame struct {
	returnPC   int
	stackDepth int
}

// VM is one execution of a bytecode.Program. It is not safe for
// concurrent use; callers that need to run the same Program from
// multiple goroutines should construct one VM per goroutine (spec §5's
// concurrency model: the compiler and its environment are single-
// threaded per compilation unit).
type VM struct {
	prog   *bytecode.Program
	rt     *env.RuntimeEnv
	stack  []value.Value
	calls  []callFrame
	sink   Printer
	spaces *iosurface.Registry
}

// Printer receives the rendered output of a Print statement (spec
// §6.1's terminal callback table, narrowed to the one entry point the
// executor itself drives).
type Printer interface {
	Print(s string)
}

// New constructs a VM over a made-executable program and a runtime
// environment (spec §3.4). rt may be nil, in which case a fresh
// top-level environment is created.
func New(prog *bytecode.Program, rt *env.RuntimeEnv, sink Printer) *VM {
	if rt == nil {
		rt = env.NewRuntimeEnv()
	}
	return &VM{prog: prog, rt: rt, sink: sink, spaces: iosurface.NewRegistry()}
}

// NewWithSpaces is New, but carries over an I/O-space registry from a
// prior VM instead of starting with an empty one — the incremental
// compiler facade (spec §4.9) runs one fresh VM per input but needs
// ios_open handles to stay valid across inputs.
func NewWithSpaces(prog *bytecode.Program, rt *env.RuntimeEnv, sink Printer, spaces *iosurface.Registry) *VM {
	if rt == nil {
		rt = env.NewRuntimeEnv()
	}
	if spaces == nil {
		spaces = iosurface.NewRegistry()
	}
	return &VM{prog: prog, rt: rt, sink: sink, spaces: spaces}
}

// Spaces exposes the VM's I/O-space registry so a caller can Open a
// backing iosurface.Space before running a program that maps over it.
func (m *VM) Spaces() *iosurface.Registry { return m.spaces }

func (m *VM) push(v value.Value) { m.stack = append(m.stack, v) }

func (m *VM) pop() value.Value {
	n := len(m.stack)
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v
}

func (m *VM) top() value.Value { return m.stack[len(m.stack)-1] }

// Run executes the program from pc 0 to the first OpReturn at call
// depth zero (or to the end of the instruction slice), returning the
// final value left on the stack, if any (spec §4.9/§5: "executes
// compiled programs").
func (m *VM) Run() (value.Value, error) {
	code := m.prog.Code()
	pc := 0
	for pc < len(code) {
		ins := code[pc]
		next, v, done, err := m.step(ins, pc)
		if err != nil {
			return nil, err
		}
		if done {
			return v, nil
		}
		pc = next
	}
	if len(m.stack) == 0 {
		return value.Null{}, nil
	}
	return m.top(), nil
}

func (m *VM) step(ins bytecode.Instruction, pc int) (nextPC int, result value.Value, done bool, err error) {
	fault := func(format string, args ...any) (int, value.Value, bool, error) {
		return 0, nil, false, &Error{Op: ins.Op, PC: pc, Msg: fmt.Sprintf(format, args...)}
	}

	switch ins.Op {
	case bytecode.OpNop:
		return pc + 1, nil, false, nil

	case bytecode.OpPush:
		m.push(m.prog.Literal(ins.Val))
		return pc + 1, nil, false, nil

	case bytecode.OpPop:
		m.pop()
		return pc + 1, nil, false, nil

	case bytecode.OpDup:
		m.push(m.top())
		return pc + 1, nil, false, nil

	case bytecode.OpLoad:
		m.push(m.rt.Get(ins.Arg, ins.Arg2))
		return pc + 1, nil, false, nil

	case bytecode.OpStore:
		m.rt.SetOrBind(ins.Arg, ins.Arg2, m.pop())
		return pc + 1, nil, false, nil

	case bytecode.OpLoadUnit:
		m.push(m.rt.GetUnit(ins.Arg, ins.Arg2))
		return pc + 1, nil, false, nil

	case bytecode.OpStoreUnit:
		m.rt.BindUnit(m.pop())
		return pc + 1, nil, false, nil

	case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod,
		bytecode.OpBitAnd, bytecode.OpBitOr, bytecode.OpBitXor, bytecode.OpShl, bytecode.OpShr:
		rhs, lhs := m.pop(), m.pop()
		v, aerr := arith(ins.Op, lhs, rhs)
		if aerr != nil {
			return fault("%s", aerr)
		}
		m.push(v)
		return pc + 1, nil, false, nil

	case bytecode.OpNeg, bytecode.OpBitNot:
		v, aerr := unaryArith(ins.Op, m.pop())
		if aerr != nil {
			return fault("%s", aerr)
		}
		m.push(v)
		return pc + 1, nil, false, nil

	case bytecode.OpEq, bytecode.OpNe, bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
		rhs, lhs := m.pop(), m.pop()
		m.push(compare(ins.Op, lhs, rhs))
		return pc + 1, nil, false, nil

	case bytecode.OpNot:
		b := m.pop().(value.Integer)
		m.push(value.NewInteger(boolToInt(b.Int64() == 0), 32, true))
		return pc + 1, nil, false, nil

	case bytecode.OpAnd:
		rhs, lhs := m.pop().(value.Integer), m.pop().(value.Integer)
		m.push(value.NewInteger(boolToInt(lhs.Int64() != 0 && rhs.Int64() != 0), 32, true))
		return pc + 1, nil, false, nil

	case bytecode.OpOr:
		rhs, lhs := m.pop().(value.Integer), m.pop().(value.Integer)
		m.push(value.NewInteger(boolToInt(lhs.Int64() != 0 || rhs.Int64() != 0), 32, true))
		return pc + 1, nil, false, nil

	case bytecode.OpJump:
		return ins.Arg, nil, false, nil

	case bytecode.OpJumpIfFalse:
		cond := m.pop().(value.Integer)
		if cond.Int64() == 0 {
			return ins.Arg, nil, false, nil
		}
		return pc + 1, nil, false, nil

	case bytecode.OpJumpIfTrue:
		cond := m.pop().(value.Integer)
		if cond.Int64() != 0 {
			return ins.Arg, nil, false, nil
		}
		return pc + 1, nil, false, nil

	case bytecode.OpCall:
		m.calls = append(m.calls, callFrame{returnPC: pc + 1, stackDepth: len(m.stack)})
		m.rt.Pushf()
		return ins.Arg, nil, false, nil

	case bytecode.OpReturn:
		if len(m.calls) == 0 {
			var ret value.Value = value.Null{}
			if len(m.stack) > 0 {
				ret = m.top()
			}
			return 0, ret, true, nil
		}
		f := m.calls[len(m.calls)-1]
		m.calls = m.calls[:len(m.calls)-1]
		m.rt.Popf()
		var ret value.Value = value.Null{}
		if len(m.stack) > 0 {
			ret = m.pop()
		}
		if len(m.stack) > f.stackDepth {
			m.stack = m.stack[:f.stackDepth]
		}
		m.push(ret)
		return f.returnPC, nil, false, nil

	case bytecode.OpMakeArray:
		return m.execMakeArray(ins, pc)

	case bytecode.OpMakeStruct:
		return m.execMakeStruct(ins, pc)

	case bytecode.OpIndex:
		idx := m.pop().(value.Integer)
		base := m.pop()
		v, ok := indexValue(base, idx.Uint64())
		if !ok {
			return fault("index %d out of range", idx.Uint64())
		}
		m.push(v)
		return pc + 1, nil, false, nil

	case bytecode.OpSetIndex:
		v := m.pop()
		idx := m.pop().(value.Integer)
		base := m.pop()
		if !setIndexValue(base, idx.Uint64(), v) {
			return fault("index %d out of range", idx.Uint64())
		}
		m.push(base)
		return pc + 1, nil, false, nil

	case bytecode.OpFieldValue:
		s := m.pop().(*value.Struct)
		fv, ok := s.FieldValue(uint64(ins.Arg))
		if !ok {
			return fault("field %d absent", ins.Arg)
		}
		m.push(fv)
		return pc + 1, nil, false, nil

	case bytecode.OpSetField:
		v := m.pop()
		s := m.pop().(*value.Struct)
		s.SetField(uint64(ins.Arg), v)
		m.push(s)
		return pc + 1, nil, false, nil

	case bytecode.OpTrim:
		return m.execTrim(ins, pc)

	case bytecode.OpLen:
		n, ok := lenOfValue(m.pop())
		if !ok {
			return fault("operand has no length")
		}
		m.push(value.NewInteger(int64(n), 64, false))
		return pc + 1, nil, false, nil

	case bytecode.OpCastInt:
		v := m.pop()
		i, ok := v.(value.Integer)
		if !ok {
			return fault("cast target is not an integer")
		}
		m.push(value.NewInteger(i.Int64(), ins.Arg, ins.Arg2 != 0))
		return pc + 1, nil, false, nil

	case bytecode.OpCastOffset:
		v := m.pop()
		o, ok := v.(*value.Offset)
		if !ok {
			return fault("cast target is not an offset")
		}
		renorm := value.FromBits(o.Bits(), uint64(ins.Arg), o.Magnitude.Width, o.Magnitude.Signed)
		m.push(&renorm)
		return pc + 1, nil, false, nil

	case bytecode.OpMakeOffset:
		unit := m.pop().(value.Integer)
		mag := m.pop().(value.Integer)
		m.push(&value.Offset{Magnitude: mag, Unit: unit.Uint64()})
		return pc + 1, nil, false, nil

	case bytecode.OpOffsetBits:
		off := m.pop().(*value.Offset)
		m.push(value.NewInteger(off.Bits(), 64, true))
		return pc + 1, nil, false, nil

	case bytecode.OpMap:
		return m.execMap(ins, pc)

	case bytecode.OpUnmap:
		return m.execUnmap(ins, pc)

	case bytecode.OpPrint:
		if m.sink != nil {
			m.sink.Print(m.pop().Render(nil))
		} else {
			m.pop()
		}
		return pc + 1, nil, false, nil

	default:
		return fault("unimplemented opcode")
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
