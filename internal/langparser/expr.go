package langparser

import "pklc/internal/ast"

// precedence levels, low to high (spec §3.2's expression grammar).
var binPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"|": 5,
	"^": 6,
	"&": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var binOp = map[string]ast.Op{
	"||": ast.OpOr, "&&": ast.OpAnd,
	"==": ast.OpEq, "!=": ast.OpNe,
	"<": ast.OpLt, "<=": ast.OpLe, ">": ast.OpGt, ">=": ast.OpGe,
	"|": ast.OpBitOr, "^": ast.OpBitXor, "&": ast.OpBitAnd,
	"<<": ast.OpShl, ">>": ast.OpShr,
	"+": ast.OpAdd, "-": ast.OpSub,
	"*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod,
}

// parseExpr parses the full expression grammar: ternary at the top,
// down through precedence-climbing binary operators, to unary/postfix/
// primary (spec §3.2).
func (p *Parser) parseExpr() (ast.Node, error) {
	return p.parseTernary()
}

func (p *Parser) parseTernary() (ast.Node, error) {
	loc := p.loc()
	cond, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if !p.atPunct("?") {
		return cond, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewConditional(cond, then, els, loc), nil
}

func (p *Parser) parseBinary(minPrec int) (ast.Node, error) {
	loc := p.loc()
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		if p.cur.kind != tPunct {
			return lhs, nil
		}
		prec, ok := binPrec[p.cur.text]
		if !ok || prec < minPrec {
			return lhs, nil
		}
		op := binOp[p.cur.text]
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinary(op, lhs, rhs, loc)
	}
}

func (p *Parser) parseUnary() (ast.Node, error) {
	loc := p.loc()
	if p.cur.kind == tPunct {
		var op ast.Op
		switch p.cur.text {
		case "-":
			op = ast.OpNeg
		case "+":
			op = ast.OpPos
		case "!":
			op = ast.OpNot
		case "~":
			op = ast.OpBitNot
		}
		if op != ast.OpNone {
			if err := p.advance(); err != nil {
				return nil, err
			}
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return ast.NewUnary(op, operand, loc), nil
		}
		// A leading `(Type)` starting an explicit cast: disambiguated by
		// trying to parse a type specifier and requiring a closing `)`
		// immediately followed by an operand-starting token.
		if p.cur.text == "(" {
			if cast, ok, err := p.tryParseCast(loc); err != nil {
				return nil, err
			} else if ok {
				return cast, nil
			}
		}
	}
	return p.parsePostfix()
}

func (p *Parser) tryParseCast(loc ast.Location) (ast.Node, bool, error) {
	save := *p.sc
	savedCur, savedPeek := p.cur, p.peek
	restore := func() {
		*p.sc = save
		p.cur, p.peek = savedCur, savedPeek
	}

	if err := p.advance(); err != nil { // consume "("
		restore()
		return nil, false, nil
	}
	if !p.startsType() {
		restore()
		return nil, false, nil
	}
	ts, err := p.parseType()
	if err != nil {
		restore()
		return nil, false, nil
	}
	if !p.atPunct(")") {
		restore()
		return nil, false, nil
	}
	if err := p.advance(); err != nil {
		restore()
		return nil, false, nil
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, false, err
	}
	return ast.NewCast(ts, operand, loc), true, nil
}

func (p *Parser) startsType() bool {
	if p.cur.kind == tKeyword {
		switch p.cur.text {
		case "int", "uint", "long", "ulong", "string", "any", "struct":
			return true
		}
	}
	return false
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		loc := p.loc()
		switch {
		case p.atPunct("["):
			if err := p.advance(); err != nil {
				return nil, err
			}
			var from ast.Node
			if !p.atPunct(":") {
				if from, err = p.parseExpr(); err != nil {
					return nil, err
				}
			}
			if p.atPunct(":") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				to, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				if err := p.expectPunct("]"); err != nil {
					return nil, err
				}
				n = ast.NewTrimmer(n, from, to, loc)
				continue
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			n = ast.NewIndexer(n, from, loc)

		case p.atPunct("("):
			if err := p.advance(); err != nil {
				return nil, err
			}
			var args []ast.Node
			for !p.atPunct(")") {
				a, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
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
			n = ast.NewFuncCall(n, args, loc)

		case p.atPunct("@"):
			if err := p.advance(); err != nil {
				return nil, err
			}
			ios, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(":"); err != nil {
				return nil, err
			}
			off, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			n = ast.NewMapExpr(n, ios, off, loc)

		default:
			return n, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	loc := p.loc()
	switch {
	case p.cur.kind == tInt:
		v := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		lit := ast.NewIntegerLiteral(v.text, v.intVal, v.width, v.signed, loc)
		if p.atPunct("#") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			unit, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			return ast.NewOffsetLiteral(lit, unit, loc), nil
		}
		return lit, nil

	case p.cur.kind == tString:
		v := p.cur.text
		return ast.NewStringLiteral(v, loc), p.advance()

	case p.atKeyword("null"):
		return ast.NewNullLiteral(loc), p.advance()

	case p.cur.kind == tKeyword && (p.cur.text == "struct"):
		return p.parseStructCons()

	case p.cur.kind == tIdent:
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.atPunct("{") {
			return p.parseStructConsBody(ast.NewIdentifier(name, loc), loc)
		}
		return ast.NewIdentifier(name, loc), nil

	case p.atPunct("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return e, p.expectPunct(")")

	default:
		return nil, p.errorf("unexpected token %q", p.cur.text)
	}
}

// parseStructCons parses an anonymous-type struct constructor
// `struct { f1: v1, ... }` by resolving its type the same way a named
// one does: ResolveTypeSpec reads the constructor's own TypeStruct
// node (spec §3.2 "StructCons").
func (p *Parser) parseStructCons() (ast.Node, error) {
	loc := p.loc()
	ts, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return p.parseStructConsBody(ts, loc)
}

func (p *Parser) parseStructConsBody(target ast.Node, loc ast.Location) (ast.Node, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var fields []ast.Node
	for !p.atPunct("}") {
		floc := p.loc()
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.NewFieldInit(name, val, floc))
		if p.atPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return ast.NewStructCons(target, fields, loc), nil
}
