package value

import (
	"fmt"
	"strings"
)

// Completeness is the tri-state spec §3.2 requires every type to carry
// after the typing pass: a type is either fully known ("complete"),
// known to still need information ("incomplete" — e.g. an array bound
// that depends on a not-yet-folded expression), or "unknown", which is
// forbidden to survive typify2 (spec §4.3).
type Completeness int

const (
	CompleteKnown Completeness = iota
	CompleteIncomplete
	CompleteUnknown
)

// TypeCode enumerates the type descriptor variants of spec §3.1, using
// the names of spec §6.4's type-code enumeration.
type TypeCode int

const (
	TypeUnknown TypeCode = iota
	TypeIntegral
	TypeStringT
	TypeAny
	TypeArray
	TypeStruct
	TypeOffset
	TypeClosure
)

func (tc TypeCode) String() string {
	switch tc {
	case TypeIntegral:
		return "int"
	case TypeStringT:
		return "string"
	case TypeAny:
		return "any"
	case TypeArray:
		return "array"
	case TypeStruct:
		return "struct"
	case TypeOffset:
		return "offset"
	case TypeClosure:
		return "closure"
	default:
		return "unknown"
	}
}

// Type is the runtime descriptor of a value's type (spec §3.1). Not
// every field is meaningful for every Code; see the constructors below.
type Type struct {
	Code TypeCode

	// Integral
	Size   int // bit width, 1..64
	Signed bool

	// Array
	ElemType *Type
	Bound    *ArrayBound // nil means unbounded

	// Struct
	Name        string // nominal identity — struct types compare by name
	FieldNames  []string
	FieldTypes  []*Type
	IntegralRep *Type // non-nil for "integral structs" (spec §4.4, glossary)

	// Offset
	BaseType *Type
	Unit     uint64

	// Closure
	ReturnType *Type
	ArgTypes   []*Type

	Complete Completeness
}

// ArrayBound is either a fixed element count or a byte/bit length
// expressed as an offset; Design Note: the original source left this
// ambiguous ("count *or* a closure"); we commit to the two concrete
// forms actually needed by the value model and AST (spec §9 Open
// Questions).
type ArrayBound struct {
	Count      *uint64 // element count, when bounded by count
	ByteLength *Offset // byte/bit length, when bounded by size
}

var (
	AnyType    = &Type{Code: TypeAny, Complete: CompleteKnown}
	StringType = &Type{Code: TypeStringT, Complete: CompleteKnown}
)

func NewIntegralType(size int, signed bool) *Type {
	return &Type{Code: TypeIntegral, Size: size, Signed: signed, Complete: CompleteKnown}
}

func NewArrayType(elem *Type, bound *ArrayBound) *Type {
	c := CompleteKnown
	if bound == nil {
		c = CompleteIncomplete
	}
	return &Type{Code: TypeArray, ElemType: elem, Bound: bound, Complete: c}
}

func NewStructType(name string, fieldNames []string, fieldTypes []*Type) *Type {
	return &Type{Code: TypeStruct, Name: name, FieldNames: fieldNames, FieldTypes: fieldTypes, Complete: CompleteKnown}
}

func NewOffsetType(base *Type, unit uint64) *Type {
	return &Type{Code: TypeOffset, BaseType: base, Unit: unit, Complete: CompleteKnown}
}

func NewClosureType(ret *Type, args []*Type) *Type {
	return &Type{Code: TypeClosure, ReturnType: ret, ArgTypes: args, Complete: CompleteKnown}
}

// FieldIndex returns the index of the named field in a struct type, or
// -1 if absent.
func (t *Type) FieldIndex(name string) int {
	for i, n := range t.FieldNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Equal implements spec §3.1's structural type equality, with the one
// exception spec §4.3 names: array types compare element types only,
// never bounds (bound promotion happens later, in C7).
func (t *Type) EqualType(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Code != o.Code {
		return false
	}
	switch t.Code {
	case TypeIntegral:
		return t.Size == o.Size && t.Signed == o.Signed
	case TypeStringT, TypeAny:
		return true
	case TypeArray:
		return t.ElemType.EqualType(o.ElemType)
	case TypeStruct:
		// Nominal: struct types are equal by name (spec §3.1).
		return t.Name == o.Name
	case TypeOffset:
		return t.BaseType.EqualType(o.BaseType) && t.Unit == o.Unit
	case TypeClosure:
		if !t.ReturnType.EqualType(o.ReturnType) || len(t.ArgTypes) != len(o.ArgTypes) {
			return false
		}
		for i := range t.ArgTypes {
			if !t.ArgTypes[i].EqualType(o.ArgTypes[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Equal implements the Value interface in terms of EqualType.
func (t *Type) Equal(other Value) bool {
	o, ok := other.(*Type)
	if !ok {
		return false
	}
	return t.EqualType(o)
}

// Promotable implements spec §4.3's integral promotability rule: target
// size must be >= source size, and signedness must either match or go
// from unsigned to signed; signed-to-unsigned is never promotable.
func (t *Type) Promotable(to *Type) bool {
	if t.Code != TypeIntegral || to.Code != TypeIntegral {
		return false
	}
	if to.Size < t.Size {
		return false
	}
	if t.Signed == to.Signed {
		return true
	}
	// unsigned -> signed is allowed at an equal or wider size
	if !t.Signed && to.Signed {
		return to.Size > t.Size || to.Size == t.Size
	}
	return false
}

func (t *Type) String() string {
	switch t.Code {
	case TypeIntegral:
		sign := "int"
		if !t.Signed {
			sign = "uint"
		}
		return fmt.Sprintf("%s<%d>", sign, t.Size)
	case TypeStringT:
		return "string"
	case TypeAny:
		return "any"
	case TypeArray:
		if t.Bound == nil {
			return fmt.Sprintf("%s[]", t.ElemType)
		}
		if t.Bound.Count != nil {
			return fmt.Sprintf("%s[%d]", t.ElemType, *t.Bound.Count)
		}
		return fmt.Sprintf("%s[%s]", t.ElemType, t.Bound.ByteLength)
	case TypeStruct:
		return t.Name
	case TypeOffset:
		return fmt.Sprintf("offset<%s,%d>", t.BaseType, t.Unit)
	case TypeClosure:
		args := make([]string, len(t.ArgTypes))
		for i, a := range t.ArgTypes {
			args[i] = a.String()
		}
		return fmt.Sprintf("(%s)%s", strings.Join(args, ","), t.ReturnType)
	default:
		return "unknown"
	}
}

func (t *Type) Kind() Kind                  { return KindType }
func (t *Type) TypeOf() *Type               { return &Type{Code: TypeAny, Complete: CompleteKnown} }
func (t *Type) SizeOf() uint64              { return 0 } // spec §3.1: type values have size 0
func (t *Type) Render(*RenderConfig) string { return t.String() }
func (t *Type) Accept(v Visitor) error      { return v.VisitType(t) }
