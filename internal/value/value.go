package value

// Value is the common interface implemented by every runtime value
// variant. It plays the role the teacher's `Value` interface plays in
// value.go, generalized from the four PEG-result variants (String,
// Sequence, Node, Error) to the eleven variants of spec §3.1.
type Value interface {
	// Kind returns the tag selecting which variant this value is.
	Kind() Kind

	// TypeOf returns the runtime type descriptor of this value.
	TypeOf() *Type

	// SizeOf returns the bit count occupied by this value (spec §3.1).
	SizeOf() uint64

	// Equal reports whether this value and other are structurally equal
	// (spec §3.1: deep equality, nominal for struct types).
	Equal(other Value) bool

	// Render formats the value for textual output, honoring cfg's
	// Obase, Oacutoff and Omode; the other RenderConfig fields are not
	// read.
	Render(cfg *RenderConfig) string

	// Accept dispatches to the matching visitor method.
	Accept(Visitor) error
}

// Visitor lets external collaborators (the pretty printer, the MI JSON
// encoder) traverse a value without a type switch, mirroring the
// teacher's ValueVisitor in value.go.
type Visitor interface {
	VisitInteger(*Integer) error
	VisitString(*Str) error
	VisitArray(*Array) error
	VisitStruct(*Struct) error
	VisitOffset(*Offset) error
	VisitType(*Type) error
	VisitClosure(*Closure) error
	VisitNull(Null) error
}

// Null is the distinguished null sentinel (spec §3.1). It has no
// lifecycle and is returned by constructors given invalid arguments
// (spec §6.2, §8.3).
type Null struct{}

func (Null) Kind() Kind                      { return KindNull }
func (Null) TypeOf() *Type                   { return AnyType }
func (Null) SizeOf() uint64                  { return 0 }
func (Null) Render(*RenderConfig) string     { return "null" }
func (n Null) Accept(v Visitor) error        { return v.VisitNull(n) }
func (Null) Equal(other Value) bool {
	_, ok := other.(Null)
	return ok
}

// IsNull reports whether v is the null sentinel, including a nil
// interface value (defensive: callers sometimes forget to normalize a
// nil Go pointer into the Null{} sentinel).
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}
