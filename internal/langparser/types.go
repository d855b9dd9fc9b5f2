package langparser

import "pklc/internal/ast"

// parseType parses a type specifier: integral widths, string/any,
// array bounds, struct bodies, function types, and a trailing `<unit>`
// offset suffix (spec §3.2's type-specifier grammar).
func (p *Parser) parseType() (ast.Node, error) {
	base, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	return p.parseTypeSuffix(base)
}

func (p *Parser) parseBaseType() (ast.Node, error) {
	loc := p.loc()
	switch {
	case p.atKeyword("int"), p.atKeyword("uint"), p.atKeyword("long"), p.atKeyword("ulong"):
		kind := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		width := 32
		if kind == "long" || kind == "ulong" {
			width = 64
		}
		if p.atPunct("<") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind != tInt {
				return nil, p.errorf("expected integer width, got %q", p.cur.text)
			}
			width = int(p.cur.intVal)
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.expectPunct(">"); err != nil {
				return nil, err
			}
		}
		signed := kind == "int" || kind == "long"
		return ast.NewTypeIntegral(width, signed, loc), nil

	case p.atKeyword("string"):
		return ast.NewTypeString(loc), p.advance()

	case p.atKeyword("any"):
		return ast.NewTypeAny(loc), p.advance()

	case p.atKeyword("struct"):
		return p.parseStructType()

	case p.atPunct("("):
		return p.parseFunctionType()

	case p.cur.kind == tIdent:
		// A named struct type used by reference (resolved by name
		// during type checking, not re-parsed as a body here).
		name := p.cur.text
		return ast.NewTypeStruct(name, nil, loc), p.advance()

	default:
		return nil, p.errorf("expected a type specifier, got %q", p.cur.text)
	}
}

func (p *Parser) parseStructType() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectKeyword("struct"); err != nil {
		return nil, err
	}
	name := ""
	if p.cur.kind == tIdent {
		name = p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var fields []ast.FieldSpec
	for !p.atPunct("}") {
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		ft, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.FieldSpec{Name: fname, Type: ft})
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return ast.NewTypeStruct(name, fields, loc), nil
}

func (p *Parser) parseFunctionType() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []ast.Node
	for !p.atPunct(")") {
		pt, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, pt)
		if p.atPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return ast.NewTypeFunction(params, ret, loc), nil
}

// parseTypeSuffix applies zero or more trailing `[Bound?]` array
// suffixes and/or `<unit>` offset suffixes to an already-parsed base
// type. A `<` suffix whose contents are an identifier (not a bare
// integer width, already consumed by parseBaseType for integral types)
// is an offset unit.
func (p *Parser) parseTypeSuffix(base ast.Node) (ast.Node, error) {
	t := base
	for {
		switch {
		case p.atPunct("["):
			loc := p.loc()
			if err := p.advance(); err != nil {
				return nil, err
			}
			var bound ast.Node
			if !p.atPunct("]") {
				var err error
				if bound, err = p.parseExpr(); err != nil {
					return nil, err
				}
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			t = ast.NewTypeArray(t, bound, loc)

		case p.atPunct("<"):
			loc := p.loc()
			if err := p.advance(); err != nil {
				return nil, err
			}
			unit, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(">"); err != nil {
				return nil, err
			}
			t = ast.NewTypeOffset(t, unit, loc)

		default:
			return t, nil
		}
	}
}
