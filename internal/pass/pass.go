// Package pass implements the generic depth-first driver every
// table-driven compiler phase (trans1-4, typify1-2, promote, fold,
// anal1/anal2/analf) is plugged into; codegen is a separate recursive
// emitter and does not use it. It is grounded on the teacher's generic
// Inspect walker (_examples/clarete-langlang/go/grammar_ast_visitor.go) combined with the
// revision/error-bookkeeping shape of its query-cache database (_examples/clarete-langlang/go/query.go), reinterpreted here as a per-phase error counter instead of
// a per-file cache generation.
package pass

import "pklc/internal/ast"

// Result is the non-local control-flow value a handler returns in
// place of an exception (spec §4.1).
type Result int

const (
	// Continue proceeds to the next handler / child. It is the zero
	// value so an unset return behaves like the default.
	Continue Result = iota
	// Restart re-runs the current phase on the (possibly rewritten)
	// current node, starting again from its pre handler. Only the
	// current phase is re-run: phases earlier in the list do not see
	// the node again.
	Restart
	// Break skips the remainder of the current subtree for this phase.
	Break
	// Done skips all remaining handlers for this node in this phase.
	Done
	// Error flags the phase payload's error counter and stops the
	// current node, continuing with siblings.
	Error
)

// Handler is a pre- or post-order hook for one node tag (or operator /
// type code, for the specialized tables below).
type Handler func(n ast.Node) Result

// Phase is one pass over the tree: a named set of pre/post handler
// tables keyed by node tag, with specialized overrides keyed by
// operator code (for Binary/Unary) and type code (for type-specifier
// nodes), plus a default handler and an error counter (spec §4.1).
type Phase struct {
	Name string

	Pre  map[ast.Tag]Handler
	Post map[ast.Tag]Handler

	// PreOp/PostOp override Pre/Post for Binary/Unary nodes, keyed by
	// ast.Op, so a phase can special-case `+` without special-casing
	// every other binary operator.
	PreOp  map[ast.Op]Handler
	PostOp map[ast.Op]Handler

	// DefaultPre/DefaultPost run when no tag- or op-specific handler
	// matches.
	DefaultPre  Handler
	DefaultPost Handler

	errors int
}

// Errors reports how many nodes this phase flagged with Error since
// the last Reset.
func (p *Phase) Errors() int { return p.errors }

// Reset clears the phase's error counter. The pipeline does not call
// it: it builds fresh phases for every compile, so each starts at zero.
func (p *Phase) Reset() { p.errors = 0 }

func (p *Phase) dispatch(n ast.Node, pre bool) Handler {
	tables := p.Pre
	opTables := p.PreOp
	def := p.DefaultPre
	if !pre {
		tables = p.Post
		opTables = p.PostOp
		def = p.DefaultPost
	}
	if op := operatorOf(n); op != ast.OpNone {
		if h, ok := opTables[op]; ok {
			return h
		}
	}
	if h, ok := tables[n.Tag()]; ok {
		return h
	}
	return def
}

func operatorOf(n ast.Node) ast.Op {
	switch v := n.(type) {
	case *ast.Binary:
		return v.Op
	case *ast.Unary:
		return v.Op
	default:
		return ast.OpNone
	}
}

// TypeMode controls whether the driver also walks into type-specifier
// subtrees (spec §4.1: "a mode flag indicating whether type nodes are
// also traversed").
type TypeMode int

const (
	// SkipTypes does not descend into type-specifier nodes.
	SkipTypes TypeMode = iota
	// VisitTypes descends into type-specifier nodes exactly once per
	// occurrence; the driver marks visited type nodes so later passes
	// in the same Run skip them (spec §4.1).
	VisitTypes
)

func isTypeTag(t ast.Tag) bool {
	switch t {
	case ast.TagTypeIntegral, ast.TagTypeString, ast.TagTypeAny,
		ast.TagTypeArray, ast.TagTypeStruct, ast.TagTypeFunction, ast.TagTypeOffset:
		return true
	default:
		return false
	}
}

// Driver runs an ordered list of phases over an AST, one full
// depth-first walk per phase (spec §4.1: "for each visited node it
// calls, in order across phases, the node's pre handler in each phase;
// it then recurses into children; then... post handler").
type Driver struct {
	Phases []*Phase
	Mode   TypeMode
}

// NewDriver constructs a driver over the given ordered phase list.
func NewDriver(mode TypeMode, phases ...*Phase) *Driver {
	return &Driver{Phases: phases, Mode: mode}
}

// Run walks root once per phase, in phase-list order. It returns the
// first phase whose error counter went non-zero, or nil if every phase
// completed cleanly (spec §4.1's abort-before-next-pass contract is
// enforced by the caller inspecting this return value, since only the
// caller knows what "the next pass" means across phase boundaries).
func (d *Driver) Run(root ast.Node) *Phase {
	visitedTypes := make(map[ast.Node]bool)
	for _, p := range d.Phases {
		d.runPhase(p, root, visitedTypes)
		if p.Errors() > 0 {
			return p
		}
	}
	return nil
}

func (d *Driver) runPhase(p *Phase, n ast.Node, visitedTypes map[ast.Node]bool) Result {
	if n == nil {
		return Continue
	}
	if d.Mode == SkipTypes && isTypeTag(n.Tag()) {
		return Continue
	}
	if isTypeTag(n.Tag()) {
		if visitedTypes[n] {
			return Continue
		}
		visitedTypes[n] = true
	}

	var done bool
restart:
	if h := p.dispatch(n, true); h != nil {
		switch r := h(n); r {
		case Restart:
			goto restart
		case Break:
			return Continue
		case Done:
			done = true
		case Error:
			p.errors++
			return Continue
		}
	}

	for _, c := range ast.Children(n) {
		if r := d.runPhase(p, c, visitedTypes); r == Break {
			break
		}
	}
	if done {
		return Continue
	}

	if h := p.dispatch(n, false); h != nil {
		switch r := h(n); r {
		case Restart:
			goto restart
		case Error:
			p.errors++
		}
	}
	return Continue
}
