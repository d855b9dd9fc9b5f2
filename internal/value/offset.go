package value

import "fmt"

// Well-known offset units, expressed in bits (spec glossary: "Offset —
// a pair (magnitude, unit) with unit expressed in bits").
const (
	UnitBit   uint64 = 1
	UnitNibble uint64 = 4
	UnitByte  uint64 = 8
	UnitKilobit uint64 = 1000
	UnitKilobyte uint64 = 8000
)

// Offset carries a magnitude (any integral value) and a unit expressing
// multiples of the base unit "bit" (spec §3.1).
type Offset struct {
	Magnitude Integer
	Unit      uint64
}

// NewOffset validates unit the way spec §6.2 requires (make_offset(m,u)
// with u not a uint<64> returns null): a negative signed unit has no
// unsigned 64-bit representation, so construction fails. Callers that
// already know their unit is a non-negative constant (UnitBit,
// UnitByte, ...) should prefer the struct literal instead.
func NewOffset(mag Integer, unit Integer) (Value, bool) {
	if unit.Signed && unit.Int64() < 0 {
		return Null{}, false
	}
	return &Offset{Magnitude: mag, Unit: unit.Uint64()}, true
}

func (o *Offset) Kind() Kind    { return KindOffset }
func (o *Offset) TypeOf() *Type { return NewOffsetType(o.Magnitude.TypeOf(), o.Unit) }

// SizeOf forwards to the magnitude's size (spec §3.1: "forwarded for
// offsets").
func (o *Offset) SizeOf() uint64 { return o.Magnitude.SizeOf() }

func (o *Offset) Equal(other Value) bool {
	p, ok := other.(*Offset)
	if !ok {
		return false
	}
	return o.Unit == p.Unit && o.Magnitude.Equal(p.Magnitude)
}

func (o *Offset) Render(cfg *RenderConfig) string {
	return fmt.Sprintf("%s#%d", o.Magnitude.Render(cfg), o.Unit)
}

func (o *Offset) String() string { return o.Render(nil) }

func (o *Offset) Accept(v Visitor) error { return v.VisitOffset(o) }

// Bits returns the magnitude normalized to bits (magnitude * unit),
// used pervasively by folding and promotion (spec §4.4, §4.5).
func (o *Offset) Bits() int64 { return o.Magnitude.Int64() * int64(o.Unit) }

// FromBits renormalizes a bit magnitude to the destination unit by
// integer division, truncating non-exact results; this is the defined,
// potentially lossy semantics spec §4.5/§9 calls out explicitly.
func FromBits(bitMag int64, destUnit uint64, width int, signed bool) Offset {
	mag := bitMag / int64(destUnit)
	return Offset{Magnitude: NewInteger(mag, width, signed), Unit: destUnit}
}
