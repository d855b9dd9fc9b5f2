package env

import "pklc/internal/value"

// runtimeFrame is one activation record at execution time: a vector of
// values per namespace, addressed by the same (back, over)
// coordinates Lexical handed out at compile time (spec §3.3).
type runtimeFrame struct {
	main []value.Value
	unit []value.Value
}

// RuntimeEnv is the run-time twin of Lexical (C12): a stack of value
// vectors the VM pushes and pops as it enters and leaves closures and
// compound statements (spec §3.3, §5).
type RuntimeEnv struct {
	frames []runtimeFrame
}

// NewRuntimeEnv returns an environment with one top-level frame.
func NewRuntimeEnv() *RuntimeEnv {
	return &RuntimeEnv{frames: []runtimeFrame{{}}}
}

// Pushf opens a new frame (spec glossary: "pushf/popf").
func (e *RuntimeEnv) Pushf() { e.frames = append(e.frames, runtimeFrame{}) }

// Popf closes the innermost frame.
func (e *RuntimeEnv) Popf() {
	if len(e.frames) == 0 {
		panic("env: Popf on empty runtime environment")
	}
	e.frames = e.frames[:len(e.frames)-1]
}

func (e *RuntimeEnv) top() *runtimeFrame { return &e.frames[len(e.frames)-1] }

// Bind appends a value to the innermost frame's main namespace vector,
// mirroring a Lexical.Declare at compile time; it returns the slot's
// Over index.
func (e *RuntimeEnv) Bind(v value.Value) int {
	f := e.top()
	f.main = append(f.main, v)
	return len(f.main) - 1
}

// BindUnit appends a value to the innermost frame's unit namespace
// vector.
func (e *RuntimeEnv) BindUnit(v value.Value) int {
	f := e.top()
	f.unit = append(f.unit, v)
	return len(f.unit) - 1
}

// Get reads the value at (back, over) in the main namespace, walking
// back frames outward from the innermost one currently open.
func (e *RuntimeEnv) Get(back, over int) value.Value {
	f := e.frameAt(back)
	return f.main[over]
}

// GetUnit reads the value at (back, over) in the unit namespace.
func (e *RuntimeEnv) GetUnit(back, over int) value.Value {
	f := e.frameAt(back)
	return f.unit[over]
}

// Set writes the value at (back, over) in the main namespace (spec
// §3.2 Assignment lowers to this).
func (e *RuntimeEnv) Set(back, over int, v value.Value) {
	f := e.frameAt(back)
	f.main[over] = v
}

// SetOrBind writes the value at (back, over), extending the frame's
// main namespace by one slot first if over is exactly the next free
// index. Codegen assigns slot numbers to locals in the same order
// their declaring statement executes at run time, so a variable's
// first store always lands here rather than through Bind directly
// (spec §3.3 addressing, generalized to cover both the declaring store
// and every later assignment with one opcode).
func (e *RuntimeEnv) SetOrBind(back, over int, v value.Value) {
	f := e.frameAt(back)
	if over == len(f.main) {
		f.main = append(f.main, v)
		return
	}
	f.main[over] = v
}

func (e *RuntimeEnv) frameAt(back int) *runtimeFrame {
	idx := len(e.frames) - 1 - back
	if idx < 0 || idx >= len(e.frames) {
		panic("env: frame address out of range")
	}
	return &e.frames[idx]
}

// Depth returns the number of frames currently open, used by Dup to
// snapshot how far a closure's captured environment must reach (spec
// §3.1 "Closure").
func (e *RuntimeEnv) Depth() int { return len(e.frames) }

// Dup returns a shallow copy of the environment's frame stack, used
// when a closure is created: it captures the defining environment by
// value so that later Pushf/Popf calls on the original do not mutate
// what the closure sees (spec §3.1, §5).
func (e *RuntimeEnv) Dup() *RuntimeEnv {
	frames := make([]runtimeFrame, len(e.frames))
	for i, f := range e.frames {
		frames[i] = runtimeFrame{
			main: append([]value.Value(nil), f.main...),
			unit: append([]value.Value(nil), f.unit...),
		}
	}
	return &RuntimeEnv{frames: frames}
}
