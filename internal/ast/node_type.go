package ast

import (
	"fmt"
	"strings"
)

// TypeIntegral is an int/uint/long/ulong<N> type specifier (spec
// §3.2's type-specifier node family, resolved to *value.Type by
// typify1).
type TypeIntegral struct {
	Header
	Width  int
	Signed bool
}

func NewTypeIntegral(width int, signed bool, loc Location) *TypeIntegral {
	return &TypeIntegral{Header: newHeader(nextID(), TagTypeIntegral, loc), Width: width, Signed: signed}
}

func (n *TypeIntegral) Accept(v Visitor) error { return v.VisitTypeIntegral(n) }
func (n *TypeIntegral) String() string {
	kind := "int"
	if !n.Signed {
		kind = "uint"
	}
	if n.Width > 32 {
		kind = "long"
		if !n.Signed {
			kind = "ulong"
		}
	}
	return fmt.Sprintf("%s<%d>", kind, n.Width)
}
func (n *TypeIntegral) Equal(o Node) bool {
	p, ok := o.(*TypeIntegral)
	return ok && p.Width == n.Width && p.Signed == n.Signed
}

// TypeString is the `string` type specifier.
type TypeString struct{ Header }

func NewTypeString(loc Location) *TypeString {
	return &TypeString{Header: newHeader(nextID(), TagTypeString, loc)}
}

func (n *TypeString) Accept(v Visitor) error { return v.VisitTypeString(n) }
func (n *TypeString) String() string         { return "string" }
func (n *TypeString) Equal(o Node) bool {
	_, ok := o.(*TypeString)
	return ok
}

// TypeAny is the `any` top type specifier (spec §3.1 glossary).
type TypeAny struct{ Header }

func NewTypeAny(loc Location) *TypeAny {
	return &TypeAny{Header: newHeader(nextID(), TagTypeAny, loc)}
}

func (n *TypeAny) Accept(v Visitor) error { return v.VisitTypeAny(n) }
func (n *TypeAny) String() string         { return "any" }
func (n *TypeAny) Equal(o Node) bool {
	_, ok := o.(*TypeAny)
	return ok
}

// TypeArray is `ElemType[Bound]`; Bound is nil for an unbounded array
// type specifier.
type TypeArray struct {
	Header
	ElemType Node
	Bound    Node // expression, nil when unbounded
}

func NewTypeArray(elem, bound Node, loc Location) *TypeArray {
	return &TypeArray{Header: newHeader(nextID(), TagTypeArray, loc), ElemType: elem, Bound: bound}
}

func (n *TypeArray) Accept(v Visitor) error { return v.VisitTypeArray(n) }
func (n *TypeArray) String() string {
	if n.Bound == nil {
		return fmt.Sprintf("%s[]", n.ElemType)
	}
	return fmt.Sprintf("%s[%s]", n.ElemType, n.Bound)
}
func (n *TypeArray) Equal(o Node) bool {
	p, ok := o.(*TypeArray)
	// Array type equality compares element type only (spec §4.3).
	return ok && n.ElemType.Equal(p.ElemType)
}

// FieldSpec is one `name: Type` pair in a TypeStruct.
type FieldSpec struct {
	Name string
	Type Node
}

// TypeStruct is a struct type specifier: `struct { f1: T1; f2: T2; }`
// (spec §3.1, §3.2).
type TypeStruct struct {
	Header
	Name       string // empty for an anonymous struct literal type
	Fields     []FieldSpec
	FieldTypes []Node // parallel to Fields, for Children()
}

func NewTypeStruct(name string, fields []FieldSpec, loc Location) *TypeStruct {
	types := make([]Node, len(fields))
	for i, f := range fields {
		types[i] = f.Type
	}
	return &TypeStruct{Header: newHeader(nextID(), TagTypeStruct, loc), Name: name, Fields: fields, FieldTypes: types}
}

func (n *TypeStruct) Accept(v Visitor) error { return v.VisitTypeStruct(n) }
func (n *TypeStruct) String() string {
	parts := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	return fmt.Sprintf("struct %s { %s }", n.Name, strings.Join(parts, "; "))
}
func (n *TypeStruct) Equal(o Node) bool {
	p, ok := o.(*TypeStruct)
	// Struct type equality is nominal (spec §4.3).
	return ok && p.Name == n.Name
}

// TypeFunction is a function type specifier `(ParamTypes...) RetType`.
type TypeFunction struct {
	Header
	ParamTypes []Node
	RetType    Node
}

func NewTypeFunction(paramTypes []Node, retType Node, loc Location) *TypeFunction {
	return &TypeFunction{Header: newHeader(nextID(), TagTypeFunction, loc), ParamTypes: paramTypes, RetType: retType}
}

func (n *TypeFunction) Accept(v Visitor) error { return v.VisitTypeFunction(n) }
func (n *TypeFunction) String() string {
	parts := make([]string, len(n.ParamTypes))
	for i, p := range n.ParamTypes {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) %s", strings.Join(parts, ", "), n.RetType)
}
func (n *TypeFunction) Equal(o Node) bool {
	p, ok := o.(*TypeFunction)
	if !ok || len(n.ParamTypes) != len(p.ParamTypes) || !n.RetType.Equal(p.RetType) {
		return false
	}
	for i := range n.ParamTypes {
		if !n.ParamTypes[i].Equal(p.ParamTypes[i]) {
			return false
		}
	}
	return true
}

// TypeOffset is `BaseType<Unit>`, the offset type specifier.
type TypeOffset struct {
	Header
	BaseType Node
	Unit     string
}

func NewTypeOffset(base Node, unit string, loc Location) *TypeOffset {
	return &TypeOffset{Header: newHeader(nextID(), TagTypeOffset, loc), BaseType: base, Unit: unit}
}

func (n *TypeOffset) Accept(v Visitor) error { return v.VisitTypeOffset(n) }
func (n *TypeOffset) String() string         { return fmt.Sprintf("%s<%s>", n.BaseType, n.Unit) }
func (n *TypeOffset) Equal(o Node) bool {
	p, ok := o.(*TypeOffset)
	return ok && p.Unit == n.Unit && n.BaseType.Equal(p.BaseType)
}
