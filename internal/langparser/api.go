package langparser

import "pklc/internal/ast"

// ParseStatement parses exactly one statement or declaration from src,
// for the facade's compile_statement entry point (spec §6.1).
func ParseStatement(source, src string) (ast.Node, error) {
	p, err := New(source, src)
	if err != nil {
		return nil, err
	}
	n, err := p.parseTopLevel()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input %q", p.cur.text)
	}
	return n, nil
}

// ParseExpression parses exactly one expression from src, for the
// facade's compile_expression entry point (spec §6.1).
func ParseExpression(source, src string) (ast.Node, error) {
	p, err := New(source, src)
	if err != nil {
		return nil, err
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input %q", p.cur.text)
	}
	return n, nil
}
