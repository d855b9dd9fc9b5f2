package ast

import "fmt"

// Binary is a two-operand expression (spec §3.2).
type Binary struct {
	Header
	Op          Op
	Left, Right Node
}

func NewBinary(op Op, left, right Node, loc Location) *Binary {
	return &Binary{Header: newHeader(nextID(), TagBinary, loc), Op: op, Left: left, Right: right}
}

func (n *Binary) Accept(v Visitor) error { return v.VisitBinary(n) }
func (n *Binary) String() string         { return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right) }
func (n *Binary) Equal(o Node) bool {
	p, ok := o.(*Binary)
	return ok && p.Op == n.Op && n.Left.Equal(p.Left) && n.Right.Equal(p.Right)
}

// Unary is a one-operand expression (spec §3.2).
type Unary struct {
	Header
	Op      Op
	Operand Node
}

func NewUnary(op Op, operand Node, loc Location) *Unary {
	return &Unary{Header: newHeader(nextID(), TagUnary, loc), Op: op, Operand: operand}
}

func (n *Unary) Accept(v Visitor) error { return v.VisitUnary(n) }
func (n *Unary) String() string         { return fmt.Sprintf("(%s%s)", n.Op, n.Operand) }
func (n *Unary) Equal(o Node) bool {
	p, ok := o.(*Unary)
	return ok && p.Op == n.Op && n.Operand.Equal(p.Operand)
}

// Cast is an explicit type conversion `(Target) Operand` (spec §4.3's
// promote pass inserts the implicit equivalent of this node).
type Cast struct {
	Header
	Target  Node // a type specifier node
	Operand Node
}

func NewCast(target, operand Node, loc Location) *Cast {
	return &Cast{Header: newHeader(nextID(), TagCast, loc), Target: target, Operand: operand}
}

func (n *Cast) Accept(v Visitor) error { return v.VisitCast(n) }
func (n *Cast) String() string         { return fmt.Sprintf("(%s)%s", n.Target, n.Operand) }
func (n *Cast) Equal(o Node) bool {
	p, ok := o.(*Cast)
	return ok && n.Target.Equal(p.Target) && n.Operand.Equal(p.Operand)
}

// Conditional is the ternary `Cond ? Then : Else` expression.
type Conditional struct {
	Header
	Cond, Then, Else Node
}

func NewConditional(cond, then, els Node, loc Location) *Conditional {
	return &Conditional{Header: newHeader(nextID(), TagConditional, loc), Cond: cond, Then: then, Else: els}
}

func (n *Conditional) Accept(v Visitor) error { return v.VisitConditional(n) }
func (n *Conditional) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", n.Cond, n.Then, n.Else)
}
func (n *Conditional) Equal(o Node) bool {
	p, ok := o.(*Conditional)
	return ok && n.Cond.Equal(p.Cond) && n.Then.Equal(p.Then) && n.Else.Equal(p.Else)
}

// Indexer is `Base[Index]` (spec §3.2 — array element or struct field
// access depending on Base's typed kind).
type Indexer struct {
	Header
	Base, Index Node
}

func NewIndexer(base, index Node, loc Location) *Indexer {
	return &Indexer{Header: newHeader(nextID(), TagIndexer, loc), Base: base, Index: index}
}

func (n *Indexer) Accept(v Visitor) error { return v.VisitIndexer(n) }
func (n *Indexer) String() string         { return fmt.Sprintf("%s[%s]", n.Base, n.Index) }
func (n *Indexer) Equal(o Node) bool {
	p, ok := o.(*Indexer)
	return ok && n.Base.Equal(p.Base) && n.Index.Equal(p.Index)
}

// Trimmer is the array/string slice `Base[From:To]` (spec §3.2).
type Trimmer struct {
	Header
	Base, From, To Node
}

func NewTrimmer(base, from, to Node, loc Location) *Trimmer {
	return &Trimmer{Header: newHeader(nextID(), TagTrimmer, loc), Base: base, From: from, To: to}
}

func (n *Trimmer) Accept(v Visitor) error { return v.VisitTrimmer(n) }
func (n *Trimmer) String() string         { return fmt.Sprintf("%s[%s:%s]", n.Base, n.From, n.To) }
func (n *Trimmer) Equal(o Node) bool {
	p, ok := o.(*Trimmer)
	return ok && n.Base.Equal(p.Base) && n.From.Equal(p.From) && n.To.Equal(p.To)
}

// FieldInit is one `name: value` pair inside a StructCons.
type FieldInit struct {
	Header
	Name  string
	Value Node
}

func NewFieldInit(name string, val Node, loc Location) *FieldInit {
	return &FieldInit{Header: newHeader(nextID(), TagStructCons, loc), Name: name, Value: val}
}

func (n *FieldInit) Accept(v Visitor) error { return n.Value.Accept(v) }
func (n *FieldInit) String() string         { return fmt.Sprintf("%s: %s", n.Name, n.Value) }
func (n *FieldInit) Equal(o Node) bool {
	p, ok := o.(*FieldInit)
	return ok && p.Name == n.Name && n.Value.Equal(p.Value)
}

// StructCons constructs a struct value: `Target{ f1: v1, f2: v2 }`.
type StructCons struct {
	Header
	Target Node // type specifier node
	Fields []Node // []*FieldInit
}

func NewStructCons(target Node, fields []Node, loc Location) *StructCons {
	return &StructCons{Header: newHeader(nextID(), TagStructCons, loc), Target: target, Fields: fields}
}

func (n *StructCons) Accept(v Visitor) error { return v.VisitStructCons(n) }
func (n *StructCons) String() string         { return fmt.Sprintf("%s{...}", n.Target) }
func (n *StructCons) Equal(o Node) bool {
	p, ok := o.(*StructCons)
	if !ok || len(n.Fields) != len(p.Fields) || !n.Target.Equal(p.Target) {
		return false
	}
	for i := range n.Fields {
		if !n.Fields[i].Equal(p.Fields[i]) {
			return false
		}
	}
	return true
}

// FuncCall is `Callee(Args...)` (spec §3.2).
type FuncCall struct {
	Header
	Callee Node
	Args   []Node
}

func NewFuncCall(callee Node, args []Node, loc Location) *FuncCall {
	return &FuncCall{Header: newHeader(nextID(), TagFuncCall, loc), Callee: callee, Args: args}
}

func (n *FuncCall) Accept(v Visitor) error { return v.VisitFuncCall(n) }
func (n *FuncCall) String() string         { return fmt.Sprintf("%s(...)", n.Callee) }
func (n *FuncCall) Equal(o Node) bool {
	p, ok := o.(*FuncCall)
	if !ok || len(n.Args) != len(p.Args) || !n.Callee.Equal(p.Callee) {
		return false
	}
	for i := range n.Args {
		if !n.Args[i].Equal(p.Args[i]) {
			return false
		}
	}
	return true
}

// MapExpr is `Target @ IOS : Offset`, constructing a mapped value bound
// to an I/O space at a bit offset (spec §3.1 "Mapping", §6.1).
type MapExpr struct {
	Header
	Target, IOS, Offset Node
}

func NewMapExpr(target, ios, offset Node, loc Location) *MapExpr {
	return &MapExpr{Header: newHeader(nextID(), TagMap, loc), Target: target, IOS: ios, Offset: offset}
}

func (n *MapExpr) Accept(v Visitor) error { return v.VisitMapExpr(n) }
func (n *MapExpr) String() string         { return fmt.Sprintf("%s @ %s : %s", n.Target, n.IOS, n.Offset) }
func (n *MapExpr) Equal(o Node) bool {
	p, ok := o.(*MapExpr)
	return ok && n.Target.Equal(p.Target) && n.IOS.Equal(p.IOS) && n.Offset.Equal(p.Offset)
}

// VarRef is a resolved variable reference: (back, over) coordinates
// into the lexical environment, produced by analysis from an
// Identifier (spec §3.2, §3.3 "(back, over) addressing").
type VarRef struct {
	Header
	Name      string
	Back, Over int
}

func NewVarRef(name string, back, over int, loc Location) *VarRef {
	return &VarRef{Header: newHeader(nextID(), TagVarRef, loc), Name: name, Back: back, Over: over}
}

func (n *VarRef) Accept(v Visitor) error { return v.VisitVarRef(n) }
func (n *VarRef) String() string         { return fmt.Sprintf("%s<%d,%d>", n.Name, n.Back, n.Over) }
func (n *VarRef) Equal(o Node) bool {
	p, ok := o.(*VarRef)
	return ok && p.Name == n.Name && p.Back == n.Back && p.Over == n.Over
}
