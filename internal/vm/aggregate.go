package vm

import (
	"fmt"

	"pklc/internal/bytecode"
	"pklc/internal/value"
)

// execMakeArray pops ins.Arg element values off the stack (in reverse
// order, since codegen pushes them left-to-right) and pushes a freshly
// built Array (spec §4.7's array-constructor lowering; spec §3.1
// "Array").
func (m *VM) execMakeArray(ins bytecode.Instruction, pc int) (int, value.Value, bool, error) {
	n := ins.Arg
	elemType := m.prog.Literal(ins.Val).(*value.Type)
	arr := value.MakeArray(uint64(n), elemType)
	for i := n - 1; i >= 0; i-- {
		arr.SetElem(uint64(i), m.pop())
	}
	m.push(arr)
	return pc + 1, nil, false, nil
}

// execTrim implements the `Base[From:To]` slice expression (spec
// §3.2 "Trimmer"): it pops To, From, and Base (codegen pushes them in
// the reverse order: Base, From, To) and pushes a new value holding the half-open [From,To)
// subrange, an Array or a Str depending on Base's kind.
func (m *VM) execTrim(ins bytecode.Instruction, pc int) (int, value.Value, bool, error) {
	fault := func(format string, args ...any) (int, value.Value, bool, error) {
		return 0, nil, false, &Error{Op: ins.Op, PC: pc, Msg: fmt.Sprintf(format, args...)}
	}
	to := m.pop().(value.Integer)
	from := m.pop().(value.Integer)
	base := m.pop()
	lo, hi := from.Uint64(), to.Uint64()
	switch b := base.(type) {
	case *value.Array:
		if hi < lo || hi > uint64(len(b.Elems)) {
			return fault("slice [%d:%d] out of range (length %d)", lo, hi, len(b.Elems))
		}
		out := &value.Array{ElemType: b.ElemType, Elems: append([]value.Element(nil), b.Elems[lo:hi]...)}
		m.push(out)
		return pc + 1, nil, false, nil
	case *value.Str:
		runes := []rune(b.Go())
		if hi < lo || hi > uint64(len(runes)) {
			return fault("slice [%d:%d] out of range (length %d)", lo, hi, len(runes))
		}
		m.push(value.NewStr(string(runes[lo:hi])))
		return pc + 1, nil, false, nil
	default:
		return fault("operand is not sliceable")
	}
}

// execMakeStruct pops ins.Arg field values off the stack and pushes a
// freshly built Struct typed by the literal at ins.Val, which holds a
// zero-value *value.Type carrying the field layout (spec §4.7's
// struct-constructor lowering; spec §3.1 "Struct").
func (m *VM) execMakeStruct(ins bytecode.Instruction, pc int) (int, value.Value, bool, error) {
	n := ins.Arg
	t := m.prog.Literal(ins.Val).(*value.Type)
	s := value.MakeStruct(uint64(n), t)
	for i := n - 1; i >= 0; i-- {
		s.SetField(uint64(i), m.pop())
	}
	m.push(s)
	return pc + 1, nil, false, nil
}
