package value

// Mapping is the metadata tying a value to a location in an external
// data stream (spec glossary, §3.1). Arrays and structs carry an
// optional Mapping; mapped values support read-back and write-through
// via Mapper/Writer.
type Mapping struct {
	SpaceID   int32
	BaseBit   uint64
	ElemBound *uint64 // arrays only: optional element-count bound
	ByteBound *uint64 // arrays only: optional byte-size bound
	Mapper    *Closure
	Writer    *Closure
}

func (m *Mapping) IsMapped() bool { return m != nil }
