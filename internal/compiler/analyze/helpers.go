package analyze

import (
	"pklc/internal/ast"
	"pklc/internal/compiler"
	"pklc/internal/value"
)

func typeOf(n ast.Node) *value.Type {
	if n == nil {
		return nil
	}
	t, _ := n.Type().(*value.Type)
	return t
}

func constOf(ctx *compiler.Context, n ast.Node) (value.Value, bool) {
	v, ok := ctx.ConstVal[n]
	return v, ok
}

func asInteger(v value.Value) (value.Integer, bool) {
	i, ok := v.(value.Integer)
	return i, ok
}
