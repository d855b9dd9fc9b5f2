package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramAppendLinksDeclarationChain(t *testing.T) {
	p := NewProgram(nil, Location{})
	a := NewVarDecl("a", nil, NewIntegerLiteral("1", 1, 32, true, Location{}), Location{})
	b := NewVarDecl("b", nil, NewIntegerLiteral("2", 2, 32, true, Location{}), Location{})
	p.Append(a)
	p.Append(b)

	require.Len(t, p.Decls, 2)
	assert.Same(t, Node(b), a.Next())
	assert.Nil(t, b.Next())
}

func TestInspectVisitsEveryNodeOnce(t *testing.T) {
	left := NewIdentifier("x", Location{})
	right := NewIntegerLiteral("1", 1, 32, true, Location{})
	bin := NewBinary(OpAdd, left, right, Location{})

	var seen []Tag
	Inspect(bin, func(n Node) bool {
		seen = append(seen, n.Tag())
		return true
	})

	assert.Equal(t, []Tag{TagBinary, TagIdentifier, TagIntegerLiteral}, seen)
}

func TestEqualIgnoresLocationAndIdentity(t *testing.T) {
	a := NewBinary(OpAdd, NewIdentifier("x", Location{Start: 0}), NewIntegerLiteral("1", 1, 32, true, Location{}), Location{Start: 0})
	b := NewBinary(OpAdd, NewIdentifier("x", Location{Start: 99}), NewIntegerLiteral("1", 1, 32, true, Location{}), Location{Start: 5})
	assert.True(t, a.Equal(b))
}

func TestArrayTypeEqualityIgnoresBound(t *testing.T) {
	bound := NewIntegerLiteral("10", 10, 32, true, Location{})
	a := NewTypeArray(NewTypeIntegral(32, true, Location{}), bound, Location{})
	b := NewTypeArray(NewTypeIntegral(32, true, Location{}), nil, Location{})
	assert.True(t, a.Equal(b))
}

func TestRefCountRetainRelease(t *testing.T) {
	n := NewIdentifier("x", Location{})
	n.Retain()
	n.Retain()
	n.Release()
	assert.Equal(t, 1, n.RefCount())
}
