package bytecode

// Opcode identifies one instruction kind the VM executor switches on.
// The set covers the stack-machine operations codegen (C10) emits:
// literal pushes, arithmetic/comparison/bitwise ops the fold/promote
// passes have already resolved to a single concrete width, variable
// addressing, control flow, and the aggregate/offset builders spec
// §4.7's code generator describes.
type Opcode int

const (
	OpNop Opcode = iota

	// Literal / stack
	OpPush     // push a pinned literal value (wide-push variant, spec §4.7)
	OpPop
	OpDup

	// Variable addressing (spec §3.3's (back, over) coordinates)
	OpLoad
	OpStore
	OpLoadUnit
	OpStoreUnit

	// Arithmetic & bitwise, operating on the Integer/Offset/Str kinds
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpNeg
	OpBitNot

	// Comparison
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	// Logical
	OpNot
	OpAnd
	OpOr

	// Control flow
	OpLabel
	OpJump
	OpJumpIfFalse
	OpJumpIfTrue
	OpCall
	OpReturn

	// Aggregates
	OpMakeArray
	OpMakeStruct
	OpIndex
	OpSetIndex
	OpTrim
	OpFieldValue
	OpSetField
	OpLen

	// Offsets
	OpMakeOffset
	OpOffsetBits

	// Casts (spec §4.7's lowering of an ast.Cast to a concrete runtime
	// conversion, needed whenever the operand isn't a compile-time
	// constant fold already resolved)
	OpCastInt    // Arg = width, Arg2 = 1 if signed
	OpCastOffset // Arg = destination unit

	// Mapping (spec §3.1 "Mapping", §6.1 ios_* boundary)
	OpMap
	OpUnmap

	// I/O
	OpPrint
)

func (o Opcode) String() string {
	names := [...]string{
		"nop", "push", "pop", "dup",
		"load", "store", "loadu", "storeu",
		"add", "sub", "mul", "div", "mod", "and", "or", "xor", "shl", "shr", "neg", "bnot",
		"eq", "ne", "lt", "le", "gt", "ge",
		"not", "land", "lor",
		"label", "jump", "jumpf", "jumpt", "call", "ret",
		"mkarray", "mkstruct", "index", "setindex", "trim", "field", "setfield", "len",
		"mkoffset", "offbits",
		"casti", "casto",
		"map", "unmap",
		"print",
	}
	if int(o) < 0 || int(o) >= len(names) {
		return "?"
	}
	return names[o]
}
