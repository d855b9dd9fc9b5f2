package ast

import "strings"

// Program is the root of a compiled unit: an ordered list of top-level
// declarations and statements (spec §3.2), mirroring the teacher's
// GrammarNode as the traversal root every pass starts from.
type Program struct {
	Header
	Decls []Node
}

func NewProgram(decls []Node, loc Location) *Program {
	return &Program{Header: newHeader(nextID(), TagProgram, loc), Decls: decls}
}

func (n *Program) Accept(v Visitor) error { return v.VisitProgram(n) }
func (n *Program) String() string {
	parts := make([]string, len(n.Decls))
	for i, d := range n.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}
func (n *Program) Equal(o Node) bool {
	p, ok := o.(*Program)
	if !ok || len(n.Decls) != len(p.Decls) {
		return false
	}
	for i := range n.Decls {
		if !n.Decls[i].Equal(p.Decls[i]) {
			return false
		}
	}
	return true
}

// Append adds a declaration to the end of the program, linking it into
// the declaration chain via Header.next (spec §3.2 "next-sibling
// link") so incremental compilation of a new top-level statement can
// walk from the last existing declaration without rescanning Decls.
func (n *Program) Append(d Node) {
	if len(n.Decls) > 0 {
		n.Decls[len(n.Decls)-1].SetNext(d)
	}
	n.Decls = append(n.Decls, d)
}
