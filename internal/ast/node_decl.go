package ast

import "fmt"

// VarDecl declares a variable, optionally typed and optionally
// initialized (spec §3.2 declarations, §3.3 environment binding).
type VarDecl struct {
	Header
	Name     string
	TypeSpec Node // may be nil: inferred from Init
	Init     Node
}

func NewVarDecl(name string, typeSpec, init Node, loc Location) *VarDecl {
	return &VarDecl{Header: newHeader(nextID(), TagVarDecl, loc), Name: name, TypeSpec: typeSpec, Init: init}
}

func (n *VarDecl) Accept(v Visitor) error { return v.VisitVarDecl(n) }
func (n *VarDecl) String() string         { return fmt.Sprintf("var %s = %s;", n.Name, n.Init) }
func (n *VarDecl) Equal(o Node) bool {
	p, ok := o.(*VarDecl)
	if !ok || p.Name != n.Name {
		return false
	}
	if n.Init == nil || p.Init == nil {
		return n.Init == nil && p.Init == nil
	}
	return n.Init.Equal(p.Init)
}

// Param is one (name, type) pair in a function's parameter list.
type Param struct {
	Name string
	Type Node // type specifier
}

// FuncDecl declares a function value (spec §3.2; compiles to a Closure
// per spec §3.1).
type FuncDecl struct {
	Header
	Name       string
	Params     []Param
	ParamTypes []Node // kept parallel to Params for Children() traversal
	RetType    Node
	Body       Node
}

func NewFuncDecl(name string, params []Param, retType, body Node, loc Location) *FuncDecl {
	types := make([]Node, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return &FuncDecl{Header: newHeader(nextID(), TagFuncDecl, loc), Name: name, Params: params, ParamTypes: types, RetType: retType, Body: body}
}

func (n *FuncDecl) Accept(v Visitor) error { return v.VisitFuncDecl(n) }
func (n *FuncDecl) String() string         { return fmt.Sprintf("fun %s = ...;", n.Name) }
func (n *FuncDecl) Equal(o Node) bool {
	p, ok := o.(*FuncDecl)
	if !ok || p.Name != n.Name || len(n.Params) != len(p.Params) {
		return false
	}
	for i := range n.Params {
		if n.Params[i].Name != p.Params[i].Name {
			return false
		}
	}
	return n.Body.Equal(p.Body)
}

// TypeDecl declares a named type alias (spec §3.2).
type TypeDecl struct {
	Header
	Name     string
	TypeSpec Node
}

func NewTypeDecl(name string, typeSpec Node, loc Location) *TypeDecl {
	return &TypeDecl{Header: newHeader(nextID(), TagTypeDecl, loc), Name: name, TypeSpec: typeSpec}
}

func (n *TypeDecl) Accept(v Visitor) error { return v.VisitTypeDecl(n) }
func (n *TypeDecl) String() string         { return fmt.Sprintf("type %s = %s;", n.Name, n.TypeSpec) }
func (n *TypeDecl) Equal(o Node) bool {
	p, ok := o.(*TypeDecl)
	return ok && p.Name == n.Name && n.TypeSpec.Equal(p.TypeSpec)
}

// UnitDecl declares a named offset unit in the separate unit namespace
// (spec §3.3: "two independent namespaces (main vs offset-units) per
// frame").
type UnitDecl struct {
	Header
	Name       string
	BitsPerUnit uint64
}

func NewUnitDecl(name string, bitsPerUnit uint64, loc Location) *UnitDecl {
	return &UnitDecl{Header: newHeader(nextID(), TagUnitDecl, loc), Name: name, BitsPerUnit: bitsPerUnit}
}

func (n *UnitDecl) Accept(v Visitor) error { return v.VisitUnitDecl(n) }
func (n *UnitDecl) String() string         { return fmt.Sprintf("unit %s = %d#b;", n.Name, n.BitsPerUnit) }
func (n *UnitDecl) Equal(o Node) bool {
	p, ok := o.(*UnitDecl)
	return ok && p.Name == n.Name && p.BitsPerUnit == n.BitsPerUnit
}
