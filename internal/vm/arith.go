package vm

import (
	"fmt"

	"pklc/internal/bytecode"
	"pklc/internal/value"
)

// arith implements the binary arithmetic/bitwise opcodes over Integer,
// Offset, and Str operands (spec §4.5's fold pass performs the
// compile-time equivalent of this for constant operands; this is its
// run-time twin for the non-constant case). Operands must already be
// of the same promoted width by the time codegen emits these opcodes
// (spec §4.4's promote pass guarantees this), so arith never itself
// widens an operand.
func arith(op bytecode.Opcode, lhs, rhs value.Value) (value.Value, error) {
	if s, ok := lhs.(*value.Str); ok {
		return stringArith(op, s, rhs)
	}
	l, lok := lhs.(value.Integer)
	r, rok := rhs.(value.Integer)
	if !lok || !rok {
		return nil, fmt.Errorf("arith: unsupported operand kinds %v/%v", lhs.Kind(), rhs.Kind())
	}
	width, signed := l.Width, l.Signed
	switch op {
	case bytecode.OpAdd:
		return wrapResult(l.Int64()+r.Int64(), width, signed), nil
	case bytecode.OpSub:
		return wrapResult(l.Int64()-r.Int64(), width, signed), nil
	case bytecode.OpMul:
		return wrapResult(l.Int64()*r.Int64(), width, signed), nil
	case bytecode.OpDiv:
		if r.Int64() == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return wrapResult(l.Int64()/r.Int64(), width, signed), nil
	case bytecode.OpMod:
		if r.Int64() == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return wrapResult(l.Int64()%r.Int64(), width, signed), nil
	case bytecode.OpBitAnd:
		return wrapResult(int64(l.Bits&r.Bits), width, signed), nil
	case bytecode.OpBitOr:
		return wrapResult(int64(l.Bits|r.Bits), width, signed), nil
	case bytecode.OpBitXor:
		return wrapResult(int64(l.Bits^r.Bits), width, signed), nil
	case bytecode.OpShl:
		return wrapResult(l.Int64()<<uint(r.Int64()), width, signed), nil
	case bytecode.OpShr:
		return wrapResult(l.Int64()>>uint(r.Int64()), width, signed), nil
	default:
		return nil, fmt.Errorf("arith: unhandled opcode %s", op)
	}
}

func stringArith(op bytecode.Opcode, lhs *value.Str, rhs value.Value) (value.Value, error) {
	r, ok := rhs.(*value.Str)
	if !ok {
		return nil, fmt.Errorf("arith: string operand paired with non-string")
	}
	switch op {
	case bytecode.OpAdd:
		return value.Concat(lhs, r), nil
	default:
		return nil, fmt.Errorf("arith: unsupported string operator %s", op)
	}
}

func wrapResult(v int64, width int, signed bool) value.Integer {
	if signed {
		return value.NewInteger(value.WrapSigned(v, width), width, true)
	}
	return value.NewInteger(int64(value.WrapUnsigned(uint64(v), width)), width, false)
}

func unaryArith(op bytecode.Opcode, v value.Value) (value.Value, error) {
	i, ok := v.(value.Integer)
	if !ok {
		return nil, fmt.Errorf("arith: unary operator on non-integer kind %v", v.Kind())
	}
	switch op {
	case bytecode.OpNeg:
		return wrapResult(-i.Int64(), i.Width, i.Signed), nil
	case bytecode.OpBitNot:
		return wrapResult(int64(^i.Bits), i.Width, i.Signed), nil
	default:
		return nil, fmt.Errorf("arith: unhandled unary opcode %s", op)
	}
}

// compare implements the six comparison opcodes. Strings compare
// lexicographically (spec §4.5), everything else compares by Int64.
func compare(op bytecode.Opcode, lhs, rhs value.Value) value.Integer {
	var c int
	if ls, ok := lhs.(*value.Str); ok {
		rs := rhs.(*value.Str)
		c = value.Compare(ls, rs)
	} else {
		l := lhs.(value.Integer).Int64()
		r := rhs.(value.Integer).Int64()
		switch {
		case l < r:
			c = -1
		case l > r:
			c = 1
		}
	}
	var result bool
	switch op {
	case bytecode.OpEq:
		result = c == 0
	case bytecode.OpNe:
		result = c != 0
	case bytecode.OpLt:
		result = c < 0
	case bytecode.OpLe:
		result = c <= 0
	case bytecode.OpGt:
		result = c > 0
	case bytecode.OpGe:
		result = c >= 0
	}
	return value.NewInteger(boolToInt(result), 32, true)
}

func indexValue(base value.Value, idx uint64) (value.Value, bool) {
	switch b := base.(type) {
	case *value.Array:
		return b.ElemValue(idx)
	case *value.Struct:
		return b.FieldValue(idx)
	case *value.Str:
		runes := []rune(b.Go())
		if idx >= uint64(len(runes)) {
			return nil, false
		}
		return value.NewInteger(int64(runes[idx]), 32, false), true
	default:
		return nil, false
	}
}

func setIndexValue(base value.Value, idx uint64, v value.Value) bool {
	switch b := base.(type) {
	case *value.Array:
		return b.SetElem(idx, v)
	case *value.Struct:
		return b.SetField(idx, v)
	case *value.Str:
		runes := []rune(b.Go())
		if idx >= uint64(len(runes)) {
			return false
		}
		iv, ok := v.(value.Integer)
		if !ok {
			return false
		}
		runes[idx] = rune(iv.Int64())
		b.Bytes = []byte(string(runes))
		return true
	default:
		return false
	}
}

// lenOfValue implements OpLen: the element count of an array, or the
// rune count of a string (spec §3.1's `length` built-in, generalized
// from the teacher's per-container Len accessors).
func lenOfValue(v value.Value) (uint64, bool) {
	switch b := v.(type) {
	case *value.Array:
		return uint64(len(b.Elems)), true
	case *value.Str:
		return uint64(len([]rune(b.Go()))), true
	default:
		return 0, false
	}
}
