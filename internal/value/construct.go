package value

// This file implements spec §6.2's constructor/accessor API. Every
// constructor returns the Null sentinel for invalid sizes (spec §8.3:
// "make_int(v, 65) returns the null sentinel").

// MakeInt implements make_int(value, size): a signed integer of size
// bits, 1..32.
func MakeInt(v int64, size int) Value {
	if size < 1 || size > 32 {
		return Null{}
	}
	return NewInteger(v, size, true)
}

// MakeUint implements make_uint(value, size): an unsigned integer of
// size bits, 1..32.
func MakeUint(v uint64, size int) Value {
	if size < 1 || size > 32 {
		return Null{}
	}
	return NewInteger(int64(v), size, false)
}

// MakeLong implements make_long(value, size): a signed integer of size
// bits, 33..64.
func MakeLong(v int64, size int) Value {
	if size < 33 || size > 64 {
		return Null{}
	}
	return NewInteger(v, size, true)
}

// MakeUlong implements make_ulong(value, size): an unsigned integer of
// size bits, 33..64.
func MakeUlong(v uint64, size int) Value {
	if size < 33 || size > 64 {
		return Null{}
	}
	return NewInteger(int64(v), size, false)
}

// MakeString implements make_string(s).
func MakeString(s string) Value { return NewStr(s) }

// MakeOffset implements make_offset(magnitude, unit): unit must fit a
// uint<64> (spec §8.3: "make_offset(m, u) with u not a uint<64> returns
// the null sentinel").
func MakeOffset(mag Integer, unit Integer) Value {
	v, ok := NewOffset(mag, unit)
	if !ok {
		return Null{}
	}
	return v
}

// MakeArrayValue implements make_array(nelem, type).
func MakeArrayValue(nelem uint64, t *Type) Value { return MakeArray(nelem, t) }

// MakeStructValue implements make_struct(nfields, type).
func MakeStructValue(nfields uint64, t *Type) Value { return MakeStruct(nfields, t) }

// TypeOf implements typeof(value) -> type.
func TypeOf(v Value) *Type {
	if IsNull(v) {
		return AnyType
	}
	return v.TypeOf()
}
