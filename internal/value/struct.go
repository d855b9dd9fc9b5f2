package value

import "strings"

// Field is one named, positioned field inside a Struct (spec §3.1).
type Field struct {
	Name      string
	Value     Value
	BitOffset uint64
	Modified  bool
	Present   bool // false for an absent optional field (spec §3.1)
}

// Method is one (name, closure) pair of a struct's method table (spec
// §3.1).
type Method struct {
	Name    string
	Closure *Closure
}

// Struct carries a type handle, the ordered fields, the ordered
// methods, and optional mapping metadata (spec §3.1).
type Struct struct {
	Type    *Type
	Fields  []Field
	Methods []Method
	Mapping *Mapping
}

// MakeStruct implements spec §6.2's make_struct(nfields, type).
func MakeStruct(nfields uint64, t *Type) *Struct {
	return &Struct{Type: t, Fields: make([]Field, nfields)}
}

func (s *Struct) Kind() Kind    { return KindStruct }
func (s *Struct) TypeOf() *Type { return s.Type }

// SizeOf computes the span from the struct's base offset to
// max(field_offset - base + field_size) over present fields (spec
// §3.1). The base is the bit offset of the first present field.
func (s *Struct) SizeOf() uint64 {
	present := false
	var base uint64
	var maxEnd uint64
	for _, f := range s.Fields {
		if !f.Present || f.Value == nil {
			continue
		}
		if !present {
			base = f.BitOffset
			present = true
		}
		end := f.BitOffset - base + f.Value.SizeOf()
		if end > maxEnd {
			maxEnd = end
		}
	}
	if !present {
		return 0
	}
	return maxEnd
}

func (s *Struct) Equal(other Value) bool {
	o, ok := other.(*Struct)
	if !ok || !s.Type.EqualType(o.Type) || len(s.Fields) != len(o.Fields) {
		return false
	}
	for i := range s.Fields {
		af, bf := s.Fields[i], o.Fields[i]
		if af.Present != bf.Present {
			return false
		}
		if af.Present && !af.Value.Equal(bf.Value) {
			return false
		}
	}
	return true
}

func (s *Struct) Render(cfg *RenderConfig) string {
	if cfg == nil {
		cfg = DefaultRenderConfig()
	}
	sep, open, close := ",", "{", "}"
	if cfg.Omode == OutputTree {
		sep = ",\n"
	}
	var parts []string
	for _, f := range s.Fields {
		if !f.Present {
			continue
		}
		parts = append(parts, f.Name+"="+f.Value.Render(cfg))
	}
	return s.Type.Name + open + strings.Join(parts, sep) + close
}

func (s *Struct) Accept(v Visitor) error { return v.VisitStruct(s) }

// FieldValue returns the value of the field at idx (spec §6.2
// field_value accessor).
func (s *Struct) FieldValue(idx uint64) (Value, bool) {
	if idx >= uint64(len(s.Fields)) || !s.Fields[idx].Present {
		return Null{}, false
	}
	return s.Fields[idx].Value, true
}

// FieldBOffset returns the bit offset of the field at idx (spec §8.4
// scenario 4's field_boffset).
func (s *Struct) FieldBOffset(idx uint64) (uint64, bool) {
	if idx >= uint64(len(s.Fields)) {
		return 0, false
	}
	return s.Fields[idx].BitOffset, true
}

// SetField sets the value of the field at idx, marking it modified and
// present (spec §6.2 field setter).
func (s *Struct) SetField(idx uint64, v Value) bool {
	if idx >= uint64(len(s.Fields)) {
		return false
	}
	s.Fields[idx].Value = v
	s.Fields[idx].Present = true
	s.Fields[idx].Modified = true
	return true
}

// RepresentativeInt returns the value this struct takes when used in an
// integer context (glossary: "integral struct"). ok is false when the
// type has no IntegralRep.
func (s *Struct) RepresentativeInt() (Integer, bool) {
	if s.Type.IntegralRep == nil {
		return Integer{}, false
	}
	for _, f := range s.Fields {
		if f.Value != nil && f.Value.Kind() != KindStruct {
			if iv, ok := f.Value.(Integer); ok {
				return iv, true
			}
		}
	}
	return Integer{}, false
}
