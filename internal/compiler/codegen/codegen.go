// Package codegen implements C10, spec §4.7's single forward-emitting
// lowering pass: it walks the fully transformed/typed/promoted/folded/
// analyzed tree exactly once and writes a bytecode.Program.
//
// Unlike the table-driven phases upstream of it (transform, typify,
// promote, fold, analyze), codegen is a plain recursive-descent emitter
// grounded directly on the teacher's own compiler struct (_examples/clarete-langlang/go/grammar_compiler.go's `compiler`, which implements AstNodeVisitor and
// writes instructions as it recurses, rather than registering per-tag
// handlers with a generic walker): emission order matters in a way the
// earlier phases' node-at-a-time rewrites did not, so a hand-written
// walk is the natural fit, the same judgment call the teacher made for
// its own code generator.
//
// codegen keeps its own variable addressing, separate from
// ctx.Resolved: trans1 computed (back, over) coordinates against one
// lexical frame per Compound, matching env.Lexical's scoping rules, but
// the run-time executor (internal/vm) only opens a fresh frame per
// OpCall/OpReturn (env.RuntimeEnv.Pushf/Popf) — nothing pushes a frame
// per compound statement. Reusing trans1's coordinates here would
// address the wrong run-time frame. codegen instead tracks its own
// frame stack, one entry per function body (plus one for the top
// level), and flattens every nested compound's locals into that single
// frame, only using a frame's scope-undo list (addr.go) to keep
// shadowing visibility correct while slot numbers stay monotonic.
package codegen

import (
	"pklc/internal/ast"
	"pklc/internal/bytecode"
	"pklc/internal/compiler"
	"pklc/internal/diag"
	"pklc/internal/value"
)

// Codegen holds the emitter's state for one compilation (spec §4.7;
// grounded on the teacher's `compiler` struct in grammar_compiler.go).
type Codegen struct {
	ctx  *compiler.Context
	prog *bytecode.Program

	frames []*frame

	funcLabels map[string]int // function name -> entry label, registered before any body is emitted
	breakStack []int          // innermost enclosing loop's exit label, one entry per nesting level
}

// New builds a Codegen ready to emit into a fresh Program.
func New(ctx *compiler.Context) *Codegen {
	return &Codegen{
		ctx:        ctx,
		prog:       bytecode.NewProgram(),
		frames:     []*frame{newFrame()},
		funcLabels: map[string]int{},
	}
}

// loc converts an ast.Location into the bytecode package's source
// location, by the same byte-offset-as-column simplification
// compiler.Loc already documents for diag.Location (no cached source
// text is kept to recover real line numbers).
func loc(n ast.Node) bytecode.SourceLocation {
	l := n.Location()
	return bytecode.SourceLocation{Source: l.Source, Column: l.Start}
}

func (c *Codegen) emit(op bytecode.Opcode, n ast.Node) int {
	return c.prog.AppendInstruction(bytecode.Instruction{Op: op, Loc: loc(n)})
}

func (c *Codegen) errorf(n ast.Node, format string, args ...any) {
	c.ctx.Diags.Add(diag.NewError("codegen", compiler.Loc(n.Location()), format, args...))
}

func typeOf(n ast.Node) *value.Type {
	t, _ := n.Type().(*value.Type)
	return t
}

func constOf(ctx *compiler.Context, n ast.Node) (value.Value, bool) {
	v, ok := ctx.ConstVal[n]
	return v, ok
}

// Generate lowers a whole compiled unit (spec §4.7) and returns the
// finished, executable Program.
func Generate(ctx *compiler.Context, prog *ast.Program) (*bytecode.Program, error) {
	c := New(ctx)
	c.genProgram(prog)
	if err := c.prog.MakeExecutable(); err != nil {
		return nil, err
	}
	return c.prog, nil
}

// genProgram lays the code out the way the teacher's VisitGrammarNode
// does: an entry jump past every function body (so execution at pc 0
// never falls into one), the bodies themselves, then the top-level
// statements the jump lands on (_examples/clarete-langlang/go/grammar_compiler.go: "emit
// ICall{}, emit IHalt{}, then walk the grammar's definitions").
func (c *Codegen) genProgram(prog *ast.Program) {
	start := c.prog.FreshLabel()
	c.prog.AppendLabelRef(bytecode.OpJump, start, loc(prog))

	for _, d := range prog.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			c.funcLabels[fd.Name] = c.prog.FreshLabel()
		}
	}
	for _, d := range prog.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			c.genFuncDecl(fd)
		}
	}

	c.prog.AppendLabel(start, loc(prog))
	for i, d := range prog.Decls {
		if _, ok := d.(*ast.FuncDecl); ok {
			continue
		}
		// The unit's final expression statement keeps its value on the
		// stack, where VM.Run returns it as the unit's result.
		if es, ok := d.(*ast.ExprStmt); ok && i == len(prog.Decls)-1 {
			c.genExpr(es.Expr)
			continue
		}
		c.genStmt(d)
	}
}

// genFuncDecl emits one function body at its pre-registered label
// (spec §4.7; calls are resolved statically to this label, see
// genFuncCall — this VM's OpCall only carries a jump target, it never
// consults a Closure value, so indirect/first-class invocation of a
// function stored in a variable is not lowered by this pass; see
// DESIGN.md).
func (c *Codegen) genFuncDecl(fd *ast.FuncDecl) {
	c.prog.AppendLabel(c.funcLabels[fd.Name], loc(fd))
	c.pushFrame()

	// genFuncCall pushes arguments in reverse (last logical argument
	// first) so that, here, a plain top-to-bottom pop sequence binds
	// them to params in declared order via successive slot-extending
	// OpStore (env.RuntimeEnv.SetOrBind) — see genFuncCall.
	for i := 0; i < len(fd.Params); i++ {
		slot := c.declare(fd.Params[i].Name)
		c.prog.AppendRegister(bytecode.OpStore, 0, slot, loc(fd))
	}
	c.genStmt(fd.Body)

	// A function whose body falls off the end without an explicit
	// return produces null (spec §3.2 "Return"; void functions always
	// take this path).
	c.prog.AppendPush(value.Null{}, loc(fd))
	c.emit(bytecode.OpReturn, fd)
	c.popFrame()
}
