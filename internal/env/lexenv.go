// Package env implements the compile-time lexical environment (C3) and
// the parallel run-time environment (C12) the VM walks at execution
// time (spec §3.3). Both are frame stacks in the style of the
// teacher's backtracking stack (_examples/clarete-langlang/go/vm_stack.go): a slice of frame
// structs with push/pop/top, rather than a linked list of heap
// allocated scope objects.
package env

import "fmt"

// namespace selects one of the two independent, separately addressed
// binding tables every frame carries (spec §3.3: "two independent
// namespaces (main vs offset-units) per frame").
type namespace int

const (
	nsMain namespace = iota
	nsUnit
)

// binding records where in a frame's ordered slot list a name lives,
// together with its declared type slot (filled by typify1/typify2;
// kept as `any` to avoid importing internal/value from this leaf-ish
// package's compile-time half).
type binding struct {
	name string
	typ  any
}

// lexFrame is one activation record in the compile-time environment:
// a function body, a compound statement, or the top-level program each
// push their own frame (spec §3.3).
type lexFrame struct {
	main []binding
	unit []binding
}

func (f *lexFrame) slots(ns namespace) []binding {
	if ns == nsUnit {
		return f.unit
	}
	return f.main
}

// Lexical is the compile-time environment: a stack of frames, plus
// (back, over) addressing for resolving a name to a frame distance and
// an in-frame slot index (spec §3.3).
type Lexical struct {
	frames []lexFrame
}

// NewLexical returns an environment with a single top-level frame.
func NewLexical() *Lexical {
	return &Lexical{frames: []lexFrame{{}}}
}

// PushFrame opens a new lexical scope (entering a compound statement
// or a function body).
func (l *Lexical) PushFrame() { l.frames = append(l.frames, lexFrame{}) }

// PopFrame closes the innermost lexical scope.
func (l *Lexical) PopFrame() {
	if len(l.frames) == 0 {
		panic("env: PopFrame on empty environment")
	}
	l.frames = l.frames[:len(l.frames)-1]
}

// Depth returns the number of frames currently open.
func (l *Lexical) Depth() int { return len(l.frames) }

func (l *Lexical) top() *lexFrame { return &l.frames[len(l.frames)-1] }

// Declare binds name in the innermost frame's main namespace and
// returns its Over index within that frame.
func (l *Lexical) Declare(name string, typ any) int {
	return l.declareIn(nsMain, name, typ)
}

// DeclareUnit binds name in the innermost frame's unit namespace (spec
// §3.3), used for `unit` declarations which never collide with
// variable/function names.
func (l *Lexical) DeclareUnit(name string, typ any) int {
	return l.declareIn(nsUnit, name, typ)
}

func (l *Lexical) declareIn(ns namespace, name string, typ any) int {
	f := l.top()
	b := binding{name: name, typ: typ}
	if ns == nsUnit {
		f.unit = append(f.unit, b)
		return len(f.unit) - 1
	}
	f.main = append(f.main, b)
	return len(f.main) - 1
}

// Lookup resolves name in the main namespace, searching outward from
// the innermost frame. It returns the (back, over) coordinates spec
// §3.3 defines: back is the number of frames to walk outward (0 =
// current frame), over is the slot index within that frame.
func (l *Lexical) Lookup(name string) (back, over int, typ any, ok bool) {
	return l.lookupIn(nsMain, name)
}

// LookupUnit resolves name in the separate unit namespace.
func (l *Lexical) LookupUnit(name string) (back, over int, typ any, ok bool) {
	return l.lookupIn(nsUnit, name)
}

func (l *Lexical) lookupIn(ns namespace, name string) (back, over int, typ any, ok bool) {
	for i := len(l.frames) - 1; i >= 0; i-- {
		slots := l.frames[i].slots(ns)
		for j := len(slots) - 1; j >= 0; j-- {
			if slots[j].name == name {
				return len(l.frames) - 1 - i, j, slots[j].typ, true
			}
		}
	}
	return 0, 0, nil, false
}

// Snapshot captures the current frame stack depth and innermost
// frame's slot counts, enough for Restore to roll the environment back
// after a failed incremental compile attempt (spec §4.1's Restart
// control flow; grounded on the teacher's query.go revision/rollback
// pattern, generalized from a cache invalidation counter to an
// environment checkpoint).
type Snapshot struct {
	depth    int
	mainLen  int
	unitLen  int
}

func (l *Lexical) Snapshot() Snapshot {
	f := l.top()
	return Snapshot{depth: len(l.frames), mainLen: len(f.main), unitLen: len(f.unit)}
}

// Restore truncates the environment back to a prior Snapshot, dropping
// any frames or bindings introduced since. It panics if s was taken at
// a greater depth than the environment currently has, which indicates
// a caller bug rather than a recoverable compile error.
func (l *Lexical) Restore(s Snapshot) {
	if s.depth > len(l.frames) {
		panic(fmt.Sprintf("env: Restore to depth %d exceeds current depth %d", s.depth, len(l.frames)))
	}
	l.frames = l.frames[:s.depth]
	f := l.top()
	f.main = f.main[:s.mainLen]
	f.unit = f.unit[:s.unitLen]
}
