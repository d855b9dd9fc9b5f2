// Package compile implements C13, the incremental compiler facade
// (spec §4.9, §6.1): the long-lived object a REPL or an MI client
// drives one buffer at a time. It is grounded on the teacher's
// query.go Database (a cache with a revision counter that rolls back
// on a failed edit) and on api.go's three-entry-point shape
// (GrammarFromBytes/GrammarFromFile/GrammarTransformations), here
// generalized into CompileProgram/CompileStatement/CompileExpression
// over the lexical-environment snapshot/rollback spec §4.9 describes.
package compile

import (
	"fmt"

	"pklc/internal/ast"
	"pklc/internal/bytecode"
	"pklc/internal/compiler"
	"pklc/internal/compiler/pipeline"
	"pklc/internal/config"
	"pklc/internal/diag"
	"pklc/internal/env"
	"pklc/internal/iosurface"
	"pklc/internal/langparser"
	"pklc/internal/value"
	"pklc/internal/vm"
)

// ParseFunc parses one compilation unit's worth of source text into an
// ast.Node, the way grammar_compiler.go's Compile takes any already-
// parsed AstNode: the facade doesn't care how the text became a tree,
// only that it did (spec §7 "external collaborator" role).
type ParseFunc func(source, text string) (ast.Node, error)

// Error reports a facade-level failure: a bootstrap failure is fatal
// (spec §4.9), everything else downgrades to a normal error return.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("compile: %s: %s", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// bootstrapSource defines the core runtime glue every compiler
// instance needs before user input is accepted (spec §4.9: "the
// facade must bootstrap itself by compiling a fixed built-in source
// file"). This module's runtime has no native functions that must be
// seeded in DSL source (unlike the original's pkl-gen.pk closures), so
// bootstrap only establishes the one alias pvm_nenc documents as
// always present.
const bootstrapSource = `var pvm_nenc = 0;`

// Compiler is C13: one incremental-compilation session (spec §4.9).
type Compiler struct {
	parse ParseFunc
	ctx   *compiler.Context
	rt    *env.RuntimeEnv
	spaces *iosurface.Registry
	cfg   *config.Config
	sink  vm.Printer

	bootstrapped      bool
	quiet             bool
	errorOnWarning    bool
	lexicalCuckolding bool
	loaded            map[string]bool
}

// printerFunc adapts a plain function to vm.Printer, letting New
// accept the REPL's existing callback without a wrapper type.
type printerFunc func(string)

func (f printerFunc) Print(s string) { f(s) }

// PrinterFunc adapts fn to vm.Printer (spec §6.3's `puts` callback,
// narrowed to the one entry point the VM's `print` statement drives).
func PrinterFunc(fn func(string)) vm.Printer { return printerFunc(fn) }

// New creates a bootstrapped Compiler. parse is the front end used for
// every subsequent input; a nil parse defaults to this module's own
// internal/langparser. A bootstrap failure is fatal (spec §4.9) and is
// returned as a non-nil error — it is the caller's responsibility to
// abort, matching the original's documented fatal-on-bootstrap-failure
// contract.
func New(parse ParseFunc, sink vm.Printer) (*Compiler, error) {
	if parse == nil {
		parse = langparser.Parse
	}
	c := &Compiler{
		parse:  parse,
		ctx:    compiler.NewContext(false),
		rt:     env.NewRuntimeEnv(),
		spaces: iosurface.NewRegistry(),
		cfg:    config.New(),
		sink:   sink,
		loaded: map[string]bool{},
	}
	if err := c.bootstrap(); err != nil {
		return nil, &Error{Op: "bootstrap", Err: err}
	}
	return c, nil
}

func (c *Compiler) bootstrap() error {
	if err := c.CompileProgram(bootstrapSource, "<bootstrap>"); err != nil {
		return err
	}
	c.bootstrapped = true
	return nil
}

// Bootstrapped reports whether bootstrap() has already completed.
func (c *Compiler) Bootstrapped() bool { return c.bootstrapped }

// Config exposes the facade's output/flag settings (spec §6.4).
func (c *Compiler) Config() *config.Config { return c.cfg }

// Spaces exposes the I/O-space registry the ios_* accessors (spec
// §6.1) are built on.
func (c *Compiler) Spaces() *iosurface.Registry { return c.spaces }

// Diagnostics returns the diagnostics produced by the most recent
// CompileProgram/CompileStatement/CompileExpression call. The bag is
// cleared at the start of the next call, not on failure of the current
// one, so a caller can still inspect why an input was rejected.
func (c *Compiler) Diagnostics() []*diag.Diagnostic { return c.ctx.Diags.Items() }

// snapshot captures everything compile-time declarations touch, so a
// failed input can be rolled back atomically (spec §4.9: "Before
// every input, the top-level environment is snapshotted... On failure
// the snapshot is discarded and the live environment is unchanged").
// ctx's name-keyed tables aren't covered by env.Lexical's frame-depth
// snapshot, so they're shallow-copied alongside it.
type snapshot struct {
	env      env.Snapshot
	varTypes map[string]*value.Type
	funcSigs map[string]*value.Type
	unitBits map[string]uint64
}

func (c *Compiler) snapshot() snapshot {
	return snapshot{
		env:      c.ctx.Env.Snapshot(),
		varTypes: cloneTypeMap(c.ctx.VarTypes),
		funcSigs: cloneTypeMap(c.ctx.FuncSigs),
		unitBits: cloneUintMap(c.ctx.UnitBits),
	}
}

func (c *Compiler) restore(s snapshot) {
	c.ctx.Env.Restore(s.env)
	c.ctx.VarTypes = s.varTypes
	c.ctx.FuncSigs = s.funcSigs
	c.ctx.UnitBits = s.unitBits
}

func cloneTypeMap(m map[string]*value.Type) map[string]*value.Type {
	out := make(map[string]*value.Type, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneUintMap(m map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// CompileProgram implements compile_program (spec §4.9): parse a
// sequence of declarations/statements, run the full pipeline, execute
// the result, and discard the top-of-stack value.
func (c *Compiler) CompileProgram(text, source string) error {
	_, err := c.compileAndRun(text, source)
	return err
}

// CompileStatement implements compile_statement (spec §4.9): parse one
// statement; if it is an expression-statement, its value is returned.
func (c *Compiler) CompileStatement(text, source string) (value.Value, error) {
	n, err := langparser.ParseStatement(source, text)
	if err != nil {
		return nil, &Error{Op: "parse", Err: err}
	}
	return c.runOne(n)
}

// CompileExpression implements compile_expression (spec §4.9): parse
// one expression, lower it, and return a ready-to-run program without
// executing it (ownership transferred to the caller, who is
// responsible for eventually running it through a vm.VM and calling
// Destroy).
func (c *Compiler) CompileExpression(text, source string) (*bytecode.Program, error) {
	n, err := langparser.ParseExpression(source, text)
	if err != nil {
		return nil, &Error{Op: "parse", Err: err}
	}
	prog := ast.NewProgram([]ast.Node{ast.NewExprStmt(n, n.Location())}, n.Location())
	c.ctx.Diags.Reset()
	snap := c.snapshot()
	bp, err := pipeline.Compile(c.ctx, prog)
	if err != nil {
		c.restore(snap)
		return nil, &Error{Op: "pipeline", Err: err}
	}
	return bp, nil
}

// compileAndRun parses text as a whole program via c.parse (the
// pluggable front end), lowers it, and executes it.
func (c *Compiler) compileAndRun(text, source string) (value.Value, error) {
	node, err := c.parse(source, text)
	if err != nil {
		return nil, &Error{Op: "parse", Err: err}
	}
	return c.runOne(node)
}

// runOne lowers and executes a single already-parsed node, under
// snapshot/rollback (spec §4.9). A bare *ast.Program is run whole; any
// other node (ParseStatement's result) is wrapped in a one-declaration
// Program first.
func (c *Compiler) runOne(node ast.Node) (value.Value, error) {
	prog, ok := node.(*ast.Program)
	if !ok {
		prog = ast.NewProgram([]ast.Node{node}, node.Location())
	}

	c.ctx.Diags.Reset()
	snap := c.snapshot()
	bp, err := pipeline.Compile(c.ctx, prog)
	if err != nil {
		c.restore(snap)
		return nil, &Error{Op: "pipeline", Err: err}
	}

	m := vm.NewWithSpaces(bp, c.rt, c.sink, c.spaces)
	result, rerr := m.Run()
	bp.Destroy()
	if rerr != nil {
		c.restore(snap)
		return nil, &Error{Op: "run", Err: rerr}
	}

	if _, isExpr := lastDeclIsExprStmt(prog); isExpr {
		return result, nil
	}
	return nil, nil
}

func lastDeclIsExprStmt(prog *ast.Program) (ast.Node, bool) {
	if len(prog.Decls) == 0 {
		return nil, false
	}
	last := prog.Decls[len(prog.Decls)-1]
	_, ok := last.(*ast.ExprStmt)
	return last, ok
}
