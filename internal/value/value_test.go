package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeIntBoundaryRejectsOversizedWidth(t *testing.T) {
	require.Equal(t, Null{}, MakeInt(1, 65))
	require.IsType(t, Integer{}, MakeInt(1, 32))
}

func TestMakeLongRejectsNarrowWidth(t *testing.T) {
	require.Equal(t, Null{}, MakeLong(1, 32))
	require.IsType(t, Integer{}, MakeLong(1, 33))
}

func TestIntegerRoundTripsConstructorAccessor(t *testing.T) {
	v := MakeInt(-5, 16)
	iv := v.(Integer)
	assert.Equal(t, int64(-5), iv.Int64())
	assert.Equal(t, 16, iv.Width)
	assert.True(t, iv.Signed)
}

func TestIntegerWidthMaskInvariant(t *testing.T) {
	// spec §8.1: the stored bit pattern equals value & ((1<<w)-1) for
	// unsigned, or its sign extension for signed.
	u := NewInteger(300, 8, false) // 300 & 0xFF = 44
	assert.Equal(t, uint64(44), u.Bits)

	s := NewInteger(-1, 8, true)
	assert.Equal(t, int64(-1), s.Int64())
}

func TestArrayRoundTripsElementsInOrder(t *testing.T) {
	et := NewIntegralType(32, true)
	arr := MakeArray(3, et)
	for i := uint64(0); i < 3; i++ {
		arr.SetElem(i, NewInteger(int64(i)*10, 32, true))
	}
	for i := uint64(0); i < 3; i++ {
		v, ok := arr.ElemValue(i)
		require.True(t, ok)
		assert.Equal(t, int64(i)*10, v.(Integer).Int64())
	}
	_, ok := arr.ElemValue(3)
	assert.False(t, ok)
}

func TestStructSizeOfSpansPresentFields(t *testing.T) {
	// spec §8.4 scenario 4: Packet{ uint<8> len; uint<8>[len] data }
	st := NewStructType("Packet", []string{"len", "data"}, []*Type{
		NewIntegralType(8, false),
		NewArrayType(NewIntegralType(8, false), nil),
	})
	s := MakeStruct(2, st)
	s.Fields[0] = Field{Name: "len", Value: NewInteger(2, 8, false), BitOffset: 0, Present: true}

	dataArr := MakeArray(2, NewIntegralType(8, false))
	dataArr.SetElem(0, NewInteger(0xAA, 8, false))
	dataArr.SetElem(1, NewInteger(0xBB, 8, false))
	s.Fields[1] = Field{Name: "data", Value: dataArr, BitOffset: 8, Present: true}

	assert.Equal(t, uint64(24), s.SizeOf())
	off, ok := s.FieldBOffset(1)
	require.True(t, ok)
	assert.Equal(t, uint64(8), off)

	fv, ok := s.FieldValue(1)
	require.True(t, ok)
	gotArr := fv.(*Array)
	v0, _ := gotArr.ElemValue(0)
	v1, _ := gotArr.ElemValue(1)
	assert.Equal(t, uint64(0xAA), v0.(Integer).Uint64())
	assert.Equal(t, uint64(0xBB), v1.(Integer).Uint64())
}

func TestOffsetArithmeticNormalizesAndRenormalizesByTruncation(t *testing.T) {
	// spec §8.4 scenario 2: 1#B + 8#b => magnitude 2, unit 8 (bytes)
	a := Offset{Magnitude: NewInteger(1, 32, true), Unit: 8}
	b := Offset{Magnitude: NewInteger(8, 32, true), Unit: 1}
	sum := a.Bits() + b.Bits()
	result := FromBits(sum, 8, 32, true)
	assert.Equal(t, int64(2), result.Magnitude.Int64())
	assert.Equal(t, uint64(8), result.Unit)
	assert.Equal(t, uint64(16), (&result).SizeOf())
}

func TestMakeOffsetRejectsNegativeUnit(t *testing.T) {
	// spec §8.3: make_offset(m, u) with u not a uint<64> returns null.
	got := MakeOffset(NewInteger(1, 32, true), NewInteger(-1, 32, true))
	assert.Equal(t, Null{}, got)
}

func TestMakeOffsetAcceptsNonNegativeUnit(t *testing.T) {
	got := MakeOffset(NewInteger(1, 32, true), NewInteger(8, 32, false))
	off, ok := got.(*Offset)
	require.True(t, ok)
	assert.Equal(t, uint64(8), off.Unit)
}

func TestTypeEqualityArrayComparesElementTypeOnly(t *testing.T) {
	one := uint64(1)
	ten := uint64(10)
	a := NewArrayType(NewIntegralType(32, true), &ArrayBound{Count: &one})
	b := NewArrayType(NewIntegralType(32, true), &ArrayBound{Count: &ten})
	assert.True(t, a.EqualType(b))
}

func TestStructTypeEqualityIsNominal(t *testing.T) {
	a := NewStructType("Foo", nil, nil)
	b := NewStructType("Foo", []string{"x"}, []*Type{NewIntegralType(32, true)})
	c := NewStructType("Bar", nil, nil)
	assert.True(t, a.EqualType(b))
	assert.False(t, a.EqualType(c))
}

func TestPromotableWidensButNeverNarrows(t *testing.T) {
	i16 := NewIntegralType(16, true)
	i32 := NewIntegralType(32, true)
	assert.True(t, i16.Promotable(i32))
	assert.False(t, i32.Promotable(i16))
}

func TestStringRepeatAndConcatAndCompare(t *testing.T) {
	s := NewStr("ab")
	assert.Equal(t, "ababab", Repeat(s, 3).Go())
	assert.Equal(t, "abcd", Concat(s, NewStr("cd")).Go())
	assert.True(t, Compare(NewStr("abc"), NewStr("abd")) < 0)
}

func TestNullIsDistinctSentinel(t *testing.T) {
	assert.True(t, IsNull(Null{}))
	assert.False(t, IsNull(NewInteger(0, 8, false)))
}
