package vm

import (
	"fmt"

	"pklc/internal/bytecode"
	"pklc/internal/iosurface"
	"pklc/internal/value"
)

// execMap implements the `Target @ IOS : Offset` expression (spec §3.1
// "Mapping", §6.1; codegen.genMapExpr): it pops the bit offset, then
// the IOS id (codegen pushes the IOS id first), and reads a fresh mapped value of the
// type pinned at ins.Val out of the resolved space.
func (m *VM) execMap(ins bytecode.Instruction, pc int) (int, value.Value, bool, error) {
	fault := func(format string, args ...any) (int, value.Value, bool, error) {
		return 0, nil, false, &Error{Op: ins.Op, PC: pc, Msg: fmt.Sprintf(format, args...)}
	}
	off, ok := m.pop().(*value.Offset)
	if !ok {
		return fault("map offset operand is not an offset")
	}
	iosVal, ok := m.pop().(value.Integer)
	if !ok {
		return fault("map IOS operand is not an integer handle")
	}
	spaceID := int32(iosVal.Int64())
	sp, ok := m.spaces.Lookup(spaceID)
	if !ok {
		return fault("unknown I/O space %d", spaceID)
	}
	t := m.prog.Literal(ins.Val).(*value.Type)
	v, err := readMapped(sp, spaceID, uint64(off.Bits()), t)
	if err != nil {
		return fault("%s", err)
	}
	m.push(v)
	return pc + 1, nil, false, nil
}

// execUnmap writes a mapped value on top of the stack back to its
// backing space, leaving the value in place (spec glossary "Mapping":
// "write-through").
func (m *VM) execUnmap(ins bytecode.Instruction, pc int) (int, value.Value, bool, error) {
	fault := func(format string, args ...any) (int, value.Value, bool, error) {
		return 0, nil, false, &Error{Op: ins.Op, PC: pc, Msg: fmt.Sprintf(format, args...)}
	}
	v := m.top()
	spaceID, ok := mappingSpaceID(v)
	if !ok {
		return fault("value is not mapped")
	}
	sp, ok := m.spaces.Lookup(spaceID)
	if !ok {
		return fault("unknown I/O space %d", spaceID)
	}
	if err := writeMapped(sp, v); err != nil {
		return fault("%s", err)
	}
	return pc + 1, nil, false, nil
}

func mappingSpaceID(v value.Value) (int32, bool) {
	switch b := v.(type) {
	case *value.Array:
		if b.Mapping == nil {
			return 0, false
		}
		return b.Mapping.SpaceID, true
	case *value.Struct:
		if b.Mapping == nil {
			return 0, false
		}
		return b.Mapping.SpaceID, true
	default:
		return 0, false
	}
}

// bitSizeOf returns a type's fixed bit width, when it has one: every
// integral and offset type does, an array does when its bound is a
// known element count, and a struct does when every field does. A
// type with no fixed size (an unbounded array, `any`, a closure)
// cannot be sequentially mapped and is reported as such.
func bitSizeOf(t *value.Type) (int, bool) {
	switch t.Code {
	case value.TypeIntegral:
		return t.Size, true
	case value.TypeOffset:
		return bitSizeOf(t.BaseType)
	case value.TypeArray:
		if t.Bound == nil || t.Bound.Count == nil {
			return 0, false
		}
		elem, ok := bitSizeOf(t.ElemType)
		if !ok {
			return 0, false
		}
		return elem * int(*t.Bound.Count), true
	case value.TypeStruct:
		total := 0
		for _, ft := range t.FieldTypes {
			n, ok := bitSizeOf(ft)
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true
	default:
		return 0, false
	}
}

// readMapped implements a mapped value's read-back (spec glossary
// "Mapping": "mapped values support read-back... via their mapper...
// closures") by reading directly from sp at baseBit, sequentially by
// type shape, rather than invoking an interpreted Mapper closure — a
// deliberate simplification recorded in DESIGN.md.
func readMapped(sp iosurface.Space, spaceID int32, baseBit uint64, t *value.Type) (value.Value, error) {
	switch t.Code {
	case value.TypeIntegral:
		bits, err := sp.ReadBits(baseBit, t.Size)
		if err != nil {
			return nil, err
		}
		return value.NewInteger(int64(bits), t.Size, t.Signed), nil

	case value.TypeOffset:
		v, err := readMapped(sp, spaceID, baseBit, t.BaseType)
		if err != nil {
			return nil, err
		}
		mag := v.(value.Integer)
		return &value.Offset{Magnitude: mag, Unit: t.Unit}, nil

	case value.TypeStringT:
		var bs []byte
		off := baseBit
		for {
			bits, err := sp.ReadBits(off, 8)
			if err != nil {
				return nil, err
			}
			if bits == 0 {
				break
			}
			bs = append(bs, byte(bits))
			off += 8
		}
		return value.NewStr(string(bs)), nil

	case value.TypeArray:
		if t.Bound == nil || t.Bound.Count == nil {
			return nil, fmt.Errorf("cannot map an unbounded array")
		}
		n := *t.Bound.Count
		elemSize, ok := bitSizeOf(t.ElemType)
		if !ok {
			return nil, fmt.Errorf("cannot map an array of variable-size elements")
		}
		arr := value.MakeArray(n, t.ElemType)
		off := baseBit
		for i := uint64(0); i < n; i++ {
			ev, err := readMapped(sp, spaceID, off, t.ElemType)
			if err != nil {
				return nil, err
			}
			arr.Elems[i] = value.Element{Value: ev, BitOffset: off}
			off += uint64(elemSize)
		}
		arr.Mapping = &value.Mapping{SpaceID: spaceID, BaseBit: baseBit, ElemBound: &n}
		return arr, nil

	case value.TypeStruct:
		s := value.MakeStruct(uint64(len(t.FieldTypes)), t)
		off := baseBit
		for i, ft := range t.FieldTypes {
			fv, err := readMapped(sp, spaceID, off, ft)
			if err != nil {
				return nil, err
			}
			s.Fields[i] = value.Field{Name: t.FieldNames[i], Value: fv, BitOffset: off, Present: true}
			size, ok := bitSizeOf(ft)
			if !ok {
				return nil, fmt.Errorf("cannot map a struct with a variable-size field %q", t.FieldNames[i])
			}
			off += uint64(size)
		}
		s.Mapping = &value.Mapping{SpaceID: spaceID, BaseBit: baseBit}
		return s, nil

	default:
		return nil, fmt.Errorf("type %s is not mappable", t)
	}
}

// writeMapped implements write-through for a value carrying Mapping
// metadata (spec glossary "Mapping": "...and write-through via their
// ...writer closures"), writing its current in-memory contents back
// to the same space/offset it was read from.
func writeMapped(sp iosurface.Space, v value.Value) error {
	switch b := v.(type) {
	case value.Integer:
		return fmt.Errorf("a bare integer carries no mapping to write through")
	case *value.Array:
		if b.Mapping == nil {
			return fmt.Errorf("array is not mapped")
		}
		for _, el := range b.Elems {
			if err := writeMappedAt(sp, el.BitOffset, el.Value); err != nil {
				return err
			}
		}
		return nil
	case *value.Struct:
		if b.Mapping == nil {
			return fmt.Errorf("struct is not mapped")
		}
		for _, f := range b.Fields {
			if !f.Present {
				continue
			}
			if err := writeMappedAt(sp, f.BitOffset, f.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("value is not mappable")
	}
}

func writeMappedAt(sp iosurface.Space, bitOffset uint64, v value.Value) error {
	switch b := v.(type) {
	case value.Integer:
		return sp.WriteBits(bitOffset, b.Width, b.Bits)
	case *value.Offset:
		return sp.WriteBits(bitOffset, b.Magnitude.Width, b.Magnitude.Bits)
	case *value.Str:
		off := bitOffset
		for _, by := range b.Bytes {
			if err := sp.WriteBits(off, 8, uint64(by)); err != nil {
				return err
			}
			off += 8
		}
		return sp.WriteBits(off, 8, 0)
	case *value.Array:
		for _, el := range b.Elems {
			if err := writeMappedAt(sp, el.BitOffset, el.Value); err != nil {
				return err
			}
		}
		return nil
	case *value.Struct:
		for _, f := range b.Fields {
			if !f.Present {
				continue
			}
			if err := writeMappedAt(sp, f.BitOffset, f.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("value is not mappable")
	}
}
