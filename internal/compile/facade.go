package compile

import (
	"os"
	"sort"
	"strings"

	"pklc/internal/bytecode"
	"pklc/internal/diag"
	"pklc/internal/iosurface"
	"pklc/internal/value"
)

// CompileFile implements compile_file (spec §6.1), grounded on the
// teacher's RelativeImportLoader (_examples/clarete-langlang/go/grammar_import_loaders.go's
// os.ReadFile-backed loader) generalized from grammar imports to this
// module's own source files.
func (c *Compiler) CompileFile(path string) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return &Error{Op: "compile_file", Err: err}
	}
	return c.CompileProgram(string(text), path)
}

// Load implements the facade's module loader (spec §4.9: "load a
// module by name or path... skip already-loaded"). searchPaths mirrors
// the original's %DATADIR%-expanded path list; the caller supplies it
// explicitly rather than this package reading an environment variable,
// keeping Compiler free of process-global state.
func (c *Compiler) Load(name string, searchPaths []string) error {
	if c.loaded[name] {
		return nil
	}
	candidates := []string{name}
	for _, dir := range searchPaths {
		candidates = append(candidates, dir+"/"+name)
	}
	var lastErr error
	for _, p := range candidates {
		if err := c.CompileFile(p); err != nil {
			lastErr = err
			continue
		}
		c.loaded[name] = true
		return nil
	}
	return &Error{Op: "load", Err: lastErr}
}

// DefVar implements defvar (spec §6.1): declare a global variable
// bound to an already-computed value, without parsing any source.
// Declared at the top-level frame so it behaves exactly like a
// compile_program `var` declaration from the pipeline's point of view.
func (c *Compiler) DefVar(name string, v value.Value) {
	t := value.TypeOf(v)
	c.ctx.Env.Declare(name, t)
	c.ctx.VarTypes[name] = t
	c.rt.Bind(v)
}

// DeclKind identifies the namespace a DeclP/DeclVal query searches
// (spec §6.1 `decl_map(compiler, kind, callback)`).
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclFunc
	DeclUnit
)

// DeclP reports whether name is declared in kind's namespace (spec
// §6.1 decl_p).
func (c *Compiler) DeclP(name string, kind DeclKind) bool {
	switch kind {
	case DeclFunc:
		_, ok := c.ctx.FuncSigs[name]
		return ok
	case DeclUnit:
		_, ok := c.ctx.UnitBits[name]
		return ok
	default:
		_, ok := c.ctx.VarTypes[name]
		return ok
	}
}

// DeclVal returns name's current run-time value, if it is a declared
// variable (spec §6.1 decl_val). Functions and units have no run-time
// value of their own kind to report.
func (c *Compiler) DeclVal(name string) (value.Value, bool) {
	back, over, _, ok := c.ctx.Env.Lookup(name)
	if !ok {
		return nil, false
	}
	return c.rt.Get(back, over), true
}

// DeclMap enumerates every declared name in kind's namespace, sorted,
// and calls fn once per name (spec §6.1 decl_map).
func (c *Compiler) DeclMap(kind DeclKind, fn func(name string)) {
	var names []string
	switch kind {
	case DeclFunc:
		for n := range c.ctx.FuncSigs {
			names = append(names, n)
		}
	case DeclUnit:
		for n := range c.ctx.UnitBits {
			names = append(names, n)
		}
	default:
		for n := range c.ctx.VarTypes {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	for _, n := range names {
		fn(n)
	}
}

// Completion implements completion_function (spec §6.1): enumerate
// declared names (of any kind) starting with prefix.
func (c *Compiler) Completion(prefix string) []string {
	seen := map[string]bool{}
	var out []string
	add := func(n string) {
		if strings.HasPrefix(n, prefix) && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	c.DeclMap(DeclVar, add)
	c.DeclMap(DeclFunc, add)
	c.DeclMap(DeclUnit, add)
	sort.Strings(out)
	return out
}

// CompileCall implements compile_call (spec §6.1, §4.9): build a
// program whose text is a call of the named function with args, the
// args round-tripped through their surface literal form
// (value.Value.Render) since this module's AST has no "precomputed
// value" literal node — see DESIGN.md. Codegen resolves calls only to
// functions declared in the same compiled unit, and this unit holds
// nothing but the call, so the callee is never found: codegen records
// an "undefined function" diagnostic, no error is returned, and the
// returned program pushes null in place of the call's result.
func (c *Compiler) CompileCall(funcName string, args ...value.Value) (*bytecode.Program, error) {
	var parts []string
	for _, a := range args {
		parts = append(parts, a.Render(nil))
	}
	text := funcName + "(" + strings.Join(parts, ", ") + ")"
	return c.CompileExpression(text, "<compile_call>")
}

// SetQuiet, SetErrorOnWarning, and SetLexicalCuckolding implement the
// facade's three boolean toggles (spec §6.1).
func (c *Compiler) SetQuiet(v bool)             { c.quiet = v }
func (c *Compiler) Quiet() bool                 { return c.quiet }
func (c *Compiler) SetErrorOnWarning(v bool)    { c.errorOnWarning = v; c.ctx.Diags = diag.NewBag(v) }
func (c *Compiler) ErrorOnWarning() bool        { return c.errorOnWarning }
func (c *Compiler) SetLexicalCuckolding(v bool) { c.lexicalCuckolding = v }
func (c *Compiler) LexicalCuckolding() bool     { return c.lexicalCuckolding }

// IOSOpen registers a backing space and returns its handle id (spec
// §6.1 ios_open). IOSClose/IOSSize round out the subset of
// ios_* accessors a single in-memory Space needs (spec §8's explicit
// Go-interface-boundary-only scope for the real backing store).
func (c *Compiler) IOSOpen(sp iosurface.Space) int32   { return c.spaces.Open(sp) }
func (c *Compiler) IOSClose(id int32)                  { c.spaces.Close(id) }
func (c *Compiler) IOSSize(id int32) (uint64, bool) {
	sp, ok := c.spaces.Lookup(id)
	if !ok {
		return 0, false
	}
	return sp.Size(), true
}
