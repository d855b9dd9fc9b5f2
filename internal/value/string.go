package value

import "strconv"

// Str holds an owned UTF-8 byte sequence plus an implicit null
// terminator for compatibility with the mapped-string contract (spec
// §3.1). Go strings are already immutable and length-prefixed; Bytes
// keeps the raw content without the terminator, which only SizeOf
// counts.
type Str struct {
	Bytes []byte
}

func NewStr(s string) *Str { return &Str{Bytes: []byte(s)} }

func (s *Str) Go() string { return string(s.Bytes) }

func (s *Str) Kind() Kind    { return KindString }
func (s *Str) TypeOf() *Type { return StringType }

// SizeOf returns 8*(strlen+1) bits: the string's bytes plus the null
// terminator (spec §3.1).
func (s *Str) SizeOf() uint64 { return uint64(len(s.Bytes)+1) * 8 }

func (s *Str) Equal(other Value) bool {
	o, ok := other.(*Str)
	if !ok {
		return false
	}
	return string(s.Bytes) == string(o.Bytes)
}

func (s *Str) Render(*RenderConfig) string { return strconv.Quote(string(s.Bytes)) }
func (s *Str) Accept(v Visitor) error      { return v.VisitString(s) }

// Concat implements spec §4.5's "+" fold for strings.
func Concat(a, b *Str) *Str { return NewStr(a.Go() + b.Go()) }

// Repeat implements spec §4.5's string*integer fold ("multiplication
// repeats the string that many times").
func Repeat(s *Str, n uint64) *Str {
	out := make([]byte, 0, uint64(len(s.Bytes))*n)
	for i := uint64(0); i < n; i++ {
		out = append(out, s.Bytes...)
	}
	return &Str{Bytes: out}
}

// Compare implements spec §4.5's lexicographic byte comparison for
// string relationals.
func Compare(a, b *Str) int {
	ab, bb := a.Bytes, b.Bytes
	for i := 0; i < len(ab) && i < len(bb); i++ {
		if ab[i] != bb[i] {
			return int(ab[i]) - int(bb[i])
		}
	}
	return len(ab) - len(bb)
}
