package value

import "strings"

// Element is one (value, bit-offset) pair inside an Array (spec §3.1).
type Element struct {
	Value    Value
	BitOffset uint64
}

// Array carries the element count, element type, the ordered elements,
// and optional mapping metadata (spec §3.1).
type Array struct {
	ElemType *Type
	Elems    []Element
	Mapping  *Mapping
}

// MakeArray implements spec §6.2's make_array(nelem, type): allocate an
// array of nelem zero/absent elements of the given type. Invalid nelem
// (none defined by spec beyond the generic "invalid size" rule) is not
// special-cased here; callers validate nelem against any declared
// bound before calling.
func MakeArray(nelem uint64, elemType *Type) *Array {
	return &Array{ElemType: elemType, Elems: make([]Element, nelem)}
}

func (a *Array) Kind() Kind { return KindArray }
func (a *Array) TypeOf() *Type {
	var bound *ArrayBound
	if len(a.Elems) > 0 {
		n := uint64(len(a.Elems))
		bound = &ArrayBound{Count: &n}
	}
	return NewArrayType(a.ElemType, bound)
}

// SizeOf sums element sizes (spec §3.1).
func (a *Array) SizeOf() uint64 {
	var total uint64
	for _, e := range a.Elems {
		total += e.Value.SizeOf()
	}
	return total
}

func (a *Array) Equal(other Value) bool {
	o, ok := other.(*Array)
	if !ok || len(a.Elems) != len(o.Elems) {
		return false
	}
	for i := range a.Elems {
		if !a.Elems[i].Value.Equal(o.Elems[i].Value) {
			return false
		}
	}
	return true
}

func (a *Array) Render(cfg *RenderConfig) string {
	if cfg == nil {
		cfg = DefaultRenderConfig()
	}
	var parts []string
	limit := len(a.Elems)
	truncated := false
	if cfg.Oacutoff > 0 && limit > cfg.Oacutoff {
		limit = cfg.Oacutoff
		truncated = true
	}
	for i := 0; i < limit; i++ {
		parts = append(parts, a.Elems[i].Value.Render(cfg))
	}
	if truncated {
		parts = append(parts, "...")
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (a *Array) Accept(v Visitor) error { return v.VisitArray(a) }

// ElemValue returns the value at index idx (spec §6.2 element
// accessor), or Null and false if idx is out of bounds.
func (a *Array) ElemValue(idx uint64) (Value, bool) {
	if idx >= uint64(len(a.Elems)) {
		return Null{}, false
	}
	return a.Elems[idx].Value, true
}

// SetElem sets the value at index idx (spec §6.2 element setter).
func (a *Array) SetElem(idx uint64, v Value) bool {
	if idx >= uint64(len(a.Elems)) {
		return false
	}
	a.Elems[idx].Value = v
	return true
}
