// Package compiler defines the Context every phase (trans1-4,
// typify1-2, promote, fold, anal1/anal2/analf, codegen) shares; the
// phases themselves are wired together in order by
// internal/compiler/pipeline. The Context holds the lexical environment, the diagnostic bag, and the small
// name -> type tables that stand in for the spec's fully general
// declaration lookup (spec §3.3) — simplified here to map lookups by
// declared name, since this module's AST does not thread parent
// pointers back through Identifier/VarRef the way a production
// compiler's arena-allocated nodes would.
package compiler

import (
	"pklc/internal/ast"
	"pklc/internal/diag"
	"pklc/internal/env"
	"pklc/internal/value"
)

// TypeCell is a mutable box around a *value.Type that trans1 binds into
// the environment for each declared variable and parameter. T holds the
// resolved type specifier when the declaration has one; for a `var`
// declared without one T stays nil, and typify1 records the type it
// infers from the initializer in Context.VarTypes instead.
type TypeCell struct{ T *value.Type }

// Context is threaded through every phase constructor in
// internal/compiler/{transform,typify,promote,fold,analyze,codegen}.
type Context struct {
	Env   *env.Lexical
	Diags *diag.Bag

	// VarTypes/FuncSigs resolve a declared name's type for phases that
	// run after the environment's frames carrying that declaration have
	// already been popped (spec §3.3's (back,over) addressing is
	// preserved at the env layer for the VM's benefit; the type-checking
	// phases only need "what type was this name declared with", so a
	// flat name table is sufficient here and is simpler than threading
	// per-scope cells through every phase).
	VarTypes map[string]*value.Type
	FuncSigs map[string]*value.Type

	// UnitBits resolves a `unit` declaration's name to its bits-per-unit
	// value (spec §3.3 unit namespace).
	UnitBits map[string]uint64

	// Resolved records, by node identity, the (back,over) coordinates
	// trans1 computed for each Identifier use while its environment
	// frame was still live. codegen does not read it: it keeps its own
	// variable addressing (see the codegen package doc).
	Resolved map[ast.Node]Coord

	// ConstVal records, by node identity, the compile-time constant
	// value fold computed for a foldable subtree. Folding here
	// annotates rather than physically replaces a constant subtree with
	// a literal node (this module's nodes carry no parent pointer, so a
	// node can rewrite its own children but not the reference its
	// parent holds to itself); codegen and the later analysis phases
	// consult ConstVal directly wherever the spec calls for
	// constant-folded behavior (dead-branch elision, bounds checking,
	// narrowing-cast masking).
	ConstVal map[ast.Node]value.Value
}

// Coord is a resolved lexical address (spec §3.3).
type Coord struct{ Back, Over int }

// NewContext returns an empty Context with a fresh top-level
// environment.
func NewContext(errorOnWarning bool) *Context {
	return &Context{
		Env:      env.NewLexical(),
		Diags:    diag.NewBag(errorOnWarning),
		VarTypes: make(map[string]*value.Type),
		FuncSigs: make(map[string]*value.Type),
		UnitBits: make(map[string]uint64),
		Resolved: make(map[ast.Node]Coord),
		ConstVal: make(map[ast.Node]value.Value),
	}
}

// Loc converts an ast.Location into a diag.Location. The AST only
// carries byte offsets (spec §3.2); line/column are not reconstructed
// here since no source-text cache is kept past parsing, so Column
// carries the byte offset and Line is left at zero. A host wanting
// precise line/column diagnostics should resolve Start against its own
// copy of the source text.
func Loc(l ast.Location) diag.Location {
	return diag.Location{Source: l.Source, Column: l.Start}
}
