package value

import "math/bits"

// Integer is the unified representation of spec §3.1's four integer
// tags (signed/unsigned, inline ≤32 bits / boxed 33..64 bits). Go has
// no inline/boxed distinction worth modeling separately (Design Note:
// "64-bit tagged runtime values"), so a single struct stores the raw
// bit pattern and reports its Kind from Width, matching §8.1's
// invariant: "the stored bit pattern equals value & ((1<<w)-1) when
// unsigned, or the sign-extension thereof when signed".
type Integer struct {
	Width  int // declared bit width, 1..64
	Signed bool
	Bits   uint64 // raw bits, already masked to Width
}

// NewInteger masks v to width bits and records the sign. Width must be
// 1..64; callers needing the §6.2/§8.3 null-sentinel-on-invalid-size
// contract should use MakeInt/MakeUint/MakeLong/MakeUlong instead.
func NewInteger(v int64, width int, signed bool) Integer {
	mask := maskFor(width)
	return Integer{Width: width, Signed: signed, Bits: uint64(v) & mask}
}

func maskFor(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(width)) - 1
}

// Int64 returns the value sign-extended (if Signed) to a Go int64.
func (n Integer) Int64() int64 {
	if !n.Signed || n.Width == 64 {
		return int64(n.Bits)
	}
	shift := uint(64 - n.Width)
	return int64(n.Bits<<shift) >> shift
}

// Uint64 returns the raw unsigned bit pattern.
func (n Integer) Uint64() uint64 { return n.Bits }

func (n Integer) Kind() Kind {
	switch {
	case n.Signed && n.Width <= 32:
		return KindInt
	case !n.Signed && n.Width <= 32:
		return KindUint
	case n.Signed:
		return KindLong
	default:
		return KindUlong
	}
}

func (n Integer) TypeOf() *Type { return NewIntegralType(n.Width, n.Signed) }
func (n Integer) SizeOf() uint64 { return uint64(n.Width) }

func (n Integer) Equal(other Value) bool {
	o, ok := other.(Integer)
	if !ok {
		return false
	}
	return n.Width == o.Width && n.Signed == o.Signed && n.Bits == o.Bits
}

func (n Integer) Render(cfg *RenderConfig) string {
	if cfg == nil {
		cfg = DefaultRenderConfig()
	}
	if n.Signed && n.Int64() < 0 {
		mag := uint64(-n.Int64())
		return "-" + formatBase(mag, cfg.Obase)
	}
	return formatBase(n.Bits, cfg.Obase)
}

func (n Integer) Accept(v Visitor) error { return v.VisitInteger(&n) }

// leadingZeros returns the number of leading zero bits within Width.
// Nothing calls it at present; anal1 checks constant shift counts
// against the operand width directly.
func (n Integer) leadingZeros() int {
	return bits.LeadingZeros64(n.Bits) - (64 - n.Width)
}

// WrapSigned truncates a 64-bit two's-complement result to width bits,
// implementing spec §4.5's "Signed wrap" fold semantics.
func WrapSigned(v int64, width int) int64 {
	i := NewInteger(v, width, true)
	return i.Int64()
}

// WrapUnsigned truncates a 64-bit result to width bits modulo 2^width
// (spec §4.5 "Unsigned wrap").
func WrapUnsigned(v uint64, width int) uint64 {
	return v & maskFor(width)
}
