package ast

import "fmt"

// Identifier is a bare name reference prior to binding (spec §3.2);
// after analysis it is replaced in expression position by a VarRef
// carrying resolved (back, over) coordinates.
type Identifier struct {
	Header
	Name string
}

func NewIdentifier(name string, loc Location) *Identifier {
	return &Identifier{Header: newHeader(nextID(), TagIdentifier, loc), Name: name}
}

func (n *Identifier) Accept(v Visitor) error { return v.VisitIdentifier(n) }
func (n *Identifier) String() string         { return n.Name }
func (n *Identifier) Equal(o Node) bool {
	p, ok := o.(*Identifier)
	return ok && p.Name == n.Name
}

// IntegerLiteral is a literal int/uint/long/ulong value, recorded with
// its source width/signedness so typify1 can pick a representation
// (spec §3.2, §4.2).
type IntegerLiteral struct {
	Header
	Text   string // original source text, for diagnostics
	Value  int64
	Width  int
	Signed bool
}

func NewIntegerLiteral(text string, val int64, width int, signed bool, loc Location) *IntegerLiteral {
	return &IntegerLiteral{Header: newHeader(nextID(), TagIntegerLiteral, loc), Text: text, Value: val, Width: width, Signed: signed}
}

func (n *IntegerLiteral) Accept(v Visitor) error { return v.VisitIntegerLiteral(n) }
func (n *IntegerLiteral) String() string         { return n.Text }
func (n *IntegerLiteral) Equal(o Node) bool {
	p, ok := o.(*IntegerLiteral)
	return ok && p.Value == n.Value && p.Width == n.Width && p.Signed == n.Signed
}

// StringLiteral is a literal string value (spec §3.2).
type StringLiteral struct {
	Header
	Value string
}

func NewStringLiteral(val string, loc Location) *StringLiteral {
	return &StringLiteral{Header: newHeader(nextID(), TagStringLiteral, loc), Value: val}
}

func (n *StringLiteral) Accept(v Visitor) error { return v.VisitStringLiteral(n) }
func (n *StringLiteral) String() string         { return fmt.Sprintf("%q", n.Value) }
func (n *StringLiteral) Equal(o Node) bool {
	p, ok := o.(*StringLiteral)
	return ok && p.Value == n.Value
}

// OffsetLiteral is a literal magnitude#unit pair (spec §3.2).
type OffsetLiteral struct {
	Header
	Magnitude Node // *IntegerLiteral
	Unit      string
}

func NewOffsetLiteral(mag Node, unit string, loc Location) *OffsetLiteral {
	return &OffsetLiteral{Header: newHeader(nextID(), TagOffsetLiteral, loc), Magnitude: mag, Unit: unit}
}

func (n *OffsetLiteral) Accept(v Visitor) error { return v.VisitOffsetLiteral(n) }
func (n *OffsetLiteral) String() string         { return fmt.Sprintf("%s#%s", n.Magnitude, n.Unit) }
func (n *OffsetLiteral) Equal(o Node) bool {
	p, ok := o.(*OffsetLiteral)
	return ok && p.Unit == n.Unit && n.Magnitude.Equal(p.Magnitude)
}

// NullLiteral denotes the null sentinel literal (spec §3.1, §8.3).
type NullLiteral struct{ Header }

func NewNullLiteral(loc Location) *NullLiteral {
	return &NullLiteral{Header: newHeader(nextID(), TagNull, loc)}
}

func (n *NullLiteral) Accept(v Visitor) error { return v.VisitNullLiteral(n) }
func (n *NullLiteral) String() string         { return "null" }
func (n *NullLiteral) Equal(o Node) bool {
	_, ok := o.(*NullLiteral)
	return ok
}
