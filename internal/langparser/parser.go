package langparser

import (
	"fmt"

	"pklc/internal/ast"
)

// Parser holds one parse attempt's state: the token scanner plus a
// one-token lookahead buffer (grounded on the teacher's cursor-based
// BaseParser, simplified from backtracking PEG combinators to a plain
// recursive-descent/precedence-climbing front end since this DSL's
// grammar is fixed rather than user-supplied).
type Parser struct {
	sc   *scanner
	cur  token
	peek token
	src  string
}

// New returns a Parser ready to read tokens from src, whose locations
// are reported against the given source name.
func New(source, src string) (*Parser, error) {
	p := &Parser{sc: newScanner(source, src), src: source}
	var err error
	if p.cur, err = p.sc.next(); err != nil {
		return nil, err
	}
	if p.peek, err = p.sc.next(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse implements the ParseFunc(name, text string) (ast.Node, error)
// shape internal/compile's facade takes (spec §6.1's compile_buffer,
// narrowed to one pluggable function signature).
func Parse(source, src string) (ast.Node, error) {
	p, err := New(source, src)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

func (p *Parser) advance() error {
	p.cur = p.peek
	var err error
	p.peek, err = p.sc.next()
	return err
}

func (p *Parser) loc() ast.Location {
	return ast.Location{Source: p.src, Start: p.cur.start, End: p.cur.start}
}

func (p *Parser) atPunct(s string) bool  { return p.cur.kind == tPunct && p.cur.text == s }
func (p *Parser) atKeyword(s string) bool { return p.cur.kind == tKeyword && p.cur.text == s }
func (p *Parser) atEOF() bool             { return p.cur.kind == tEOF }

func (p *Parser) expectPunct(s string) error {
	if !p.atPunct(s) {
		return p.errorf("expected %q, got %q", s, p.cur.text)
	}
	return p.advance()
}

func (p *Parser) expectKeyword(s string) error {
	if !p.atKeyword(s) {
		return p.errorf("expected keyword %q, got %q", s, p.cur.text)
	}
	return p.advance()
}

func (p *Parser) expectIdent() (string, error) {
	if p.cur.kind != tIdent {
		return "", p.errorf("expected identifier, got %q", p.cur.text)
	}
	name := p.cur.text
	return name, p.advance()
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s:%d: %s", p.src, p.cur.start, fmt.Sprintf(format, args...))
}

// ParseProgram parses a whole compilation unit: a sequence of
// declarations and statements (spec §3.2).
func (p *Parser) ParseProgram() (ast.Node, error) {
	loc := p.loc()
	var decls []ast.Node
	for !p.atEOF() {
		d, err := p.parseTopLevel()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return ast.NewProgram(decls, loc), nil
}

func (p *Parser) parseTopLevel() (ast.Node, error) {
	switch {
	case p.atKeyword("fun"):
		return p.parseFuncDecl()
	default:
		return p.parseStmt()
	}
}

func (p *Parser) parseFuncDecl() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectKeyword("fun"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.atPunct(")") {
		pname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname, Type: ptype})
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
	var retType ast.Node
	if p.atPunct(":") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var terr error
		if retType, terr = p.parseType(); terr != nil {
			return nil, terr
		}
	}
	body, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	return ast.NewFuncDecl(name, params, retType, body, loc), nil
}

func (p *Parser) parseStmt() (ast.Node, error) {
	switch {
	case p.atPunct("{"):
		return p.parseCompound()
	case p.atKeyword("var"):
		d, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		return d, p.expectPunct(";")
	case p.atKeyword("type"):
		return p.parseTypeDecl()
	case p.atKeyword("unit"):
		return p.parseUnitDecl()
	case p.atKeyword("if"):
		return p.parseIf()
	case p.atKeyword("while"):
		return p.parseWhile()
	case p.atKeyword("for"):
		return p.parseFor()
	case p.atKeyword("return"):
		return p.parseReturn()
	case p.atKeyword("break"):
		loc := p.loc()
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewBreak(loc), p.expectPunct(";")
	case p.atKeyword("print"):
		return p.parsePrint()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseCompound() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var stmts []ast.Node
	for !p.atPunct("}") {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return ast.NewCompound(stmts, loc), nil
}

func (p *Parser) parseVarDecl() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectKeyword("var"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var typeSpec ast.Node
	if p.atPunct(":") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if typeSpec, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	var init ast.Node
	if p.atPunct("=") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if init, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	return ast.NewVarDecl(name, typeSpec, init, loc), nil
}

func (p *Parser) parseTypeDecl() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectKeyword("type"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	ts, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return ast.NewTypeDecl(name, ts, loc), p.expectPunct(";")
}

func (p *Parser) parseUnitDecl() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectKeyword("unit"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	if p.cur.kind != tInt {
		return nil, p.errorf("expected integer bits-per-unit, got %q", p.cur.text)
	}
	bits := uint64(p.cur.intVal)
	if err := p.advance(); err != nil {
		return nil, err
	}
	return ast.NewUnitDecl(name, bits, loc), p.expectPunct(";")
}

func (p *Parser) parseIf() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectKeyword("if"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if p.atKeyword("else") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if els, err = p.parseStmt(); err != nil {
			return nil, err
		}
	}
	return ast.NewIf(cond, then, els, loc), nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectKeyword("while"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return ast.NewLoopWhile(cond, body, loc), nil
}

// parseFor disambiguates `for (Var in Iterable) Body` from the
// C-style three-clause form by lookahead: an identifier immediately
// followed by `in` can only start the for-in form (spec §3.2).
func (p *Parser) parseFor() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectKeyword("for"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	if p.cur.kind == tIdent && p.peek.kind == tKeyword && p.peek.text == "in" {
		varName := p.cur.text
		if err := p.advance(); err != nil { // consume ident
			return nil, err
		}
		if err := p.advance(); err != nil { // consume "in"
			return nil, err
		}
		iterable, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		body, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		return ast.NewLoopForIn(varName, iterable, body, loc), nil
	}

	var init, cond, step ast.Node
	var err error
	if !p.atPunct(";") {
		if p.atKeyword("var") {
			init, err = p.parseVarDecl()
		} else {
			init, err = p.parseAssignOrExprNode()
		}
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	if !p.atPunct(";") {
		if cond, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	if !p.atPunct(")") {
		if step, err = p.parseAssignOrExprNode(); err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return ast.NewLoopForN(init, cond, step, body, loc), nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectKeyword("return"); err != nil {
		return nil, err
	}
	var v ast.Node
	if !p.atPunct(";") {
		var err error
		if v, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	return ast.NewReturn(v, loc), p.expectPunct(";")
}

func (p *Parser) parsePrint() (ast.Node, error) {
	loc := p.loc()
	if err := p.expectKeyword("print"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
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
	return ast.NewPrint(args, loc), p.expectPunct(";")
}

// parseExprOrAssignStmt parses `Expr = Expr;` or `Expr;` (spec §3.2
// Assignment/ExprStmt).
func (p *Parser) parseExprOrAssignStmt() (ast.Node, error) {
	n, err := p.parseAssignOrExprNode()
	if err != nil {
		return nil, err
	}
	return n, p.expectPunct(";")
}

func (p *Parser) parseAssignOrExprNode() (ast.Node, error) {
	loc := p.loc()
	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.atPunct("=") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.NewAssignment(lhs, rhs, loc), nil
	}
	return ast.NewExprStmt(lhs, loc), nil
}
