package pass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pklc/internal/ast"
)

func TestDriverVisitsPreThenChildrenThenPost(t *testing.T) {
	bin := ast.NewBinary(ast.OpAdd, ast.NewIdentifier("x", ast.Location{}), ast.NewIntegerLiteral("1", 1, 32, true, ast.Location{}), ast.Location{})

	var order []string
	p := &Phase{
		Name: "trace",
		Pre: map[ast.Tag]Handler{
			ast.TagBinary:        func(n ast.Node) Result { order = append(order, "pre:bin"); return Continue },
			ast.TagIdentifier:    func(n ast.Node) Result { order = append(order, "pre:id"); return Continue },
			ast.TagIntegerLiteral: func(n ast.Node) Result { order = append(order, "pre:int"); return Continue },
		},
		Post: map[ast.Tag]Handler{
			ast.TagBinary: func(n ast.Node) Result { order = append(order, "post:bin"); return Continue },
		},
	}

	d := NewDriver(SkipTypes, p)
	failed := d.Run(bin)

	require.Nil(t, failed)
	assert.Equal(t, []string{"pre:bin", "pre:id", "pre:int", "post:bin"}, order)
}

func TestErrorResultIncrementsCounterAndAbortsPipeline(t *testing.T) {
	lit := ast.NewIntegerLiteral("1", 1, 32, true, ast.Location{})
	p := &Phase{
		Name: "fails",
		Pre: map[ast.Tag]Handler{
			ast.TagIntegerLiteral: func(n ast.Node) Result { return Error },
		},
	}
	d := NewDriver(SkipTypes, p)
	failed := d.Run(lit)
	require.NotNil(t, failed)
	assert.Equal(t, 1, failed.Errors())
}

func TestRestartReinvokesPreHandlerOnRewrittenNode(t *testing.T) {
	lit := ast.NewIntegerLiteral("1", 1, 32, true, ast.Location{})
	calls := 0
	p := &Phase{
		Pre: map[ast.Tag]Handler{
			ast.TagIntegerLiteral: func(n ast.Node) Result {
				calls++
				if calls < 3 {
					return Restart
				}
				return Continue
			},
		},
	}
	d := NewDriver(SkipTypes, p)
	d.Run(lit)
	assert.Equal(t, 3, calls)
}

func TestBreakSkipsChildrenButNotSiblings(t *testing.T) {
	a := ast.NewIdentifier("a", ast.Location{})
	b := ast.NewIdentifier("b", ast.Location{})
	prog := ast.NewProgram([]ast.Node{a, b}, ast.Location{})

	var visited []string
	p := &Phase{
		Pre: map[ast.Tag]Handler{
			ast.TagIdentifier: func(n ast.Node) Result {
				visited = append(visited, n.(*ast.Identifier).Name)
				if n.(*ast.Identifier).Name == "a" {
					return Break
				}
				return Continue
			},
		},
	}
	d := NewDriver(SkipTypes, p)
	d.Run(prog)
	assert.Equal(t, []string{"a", "b"}, visited)
}

func TestSkipTypesModeDoesNotDescendIntoTypeSpecifiers(t *testing.T) {
	typ := ast.NewTypeIntegral(32, true, ast.Location{})
	decl := ast.NewVarDecl("x", typ, nil, ast.Location{})

	seenType := false
	p := &Phase{
		Pre: map[ast.Tag]Handler{
			ast.TagTypeIntegral: func(n ast.Node) Result { seenType = true; return Continue },
		},
	}
	d := NewDriver(SkipTypes, p)
	d.Run(decl)
	assert.False(t, seenType)

	d2 := NewDriver(VisitTypes, p)
	d2.Run(decl)
	assert.True(t, seenType)
}
