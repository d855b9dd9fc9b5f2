package value

// Closure pairs a bytecode program with a captured environment (spec
// §3.1, glossary "Closure"). Code and Env are deliberately typed `any`:
// value is a leaf package (SPEC_FULL.md §4) and must not import
// internal/bytecode or internal/env, both of which import value to
// embed literal operands and frame slots respectively. The vm package,
// which imports all three, performs the type assertions back to
// *bytecode.Program and *env.RuntimeEnv.
type Closure struct {
	Code     any // *bytecode.Program
	Env      any // *env.RuntimeEnv, captured at closure-creation time
	ArgTypes []*Type
	RetType  *Type
}

func (c *Closure) Kind() Kind    { return KindClosure }
func (c *Closure) TypeOf() *Type { return NewClosureType(c.RetType, c.ArgTypes) }
func (c *Closure) SizeOf() uint64 { return 0 }

func (c *Closure) Equal(other Value) bool {
	o, ok := other.(*Closure)
	return ok && o == c
}

func (c *Closure) Render(*RenderConfig) string { return "#<closure>" }
func (c *Closure) Accept(v Visitor) error      { return v.VisitClosure(c) }
