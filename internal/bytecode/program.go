package bytecode

import (
	"fmt"
	"strings"

	"pklc/internal/value"
)

// Program is the bytecode program builder (C11): a growable
// instruction slice plus a literal pool pinned against Go's GC (spec
// §4.8's "GC-root pinning" becomes, in Go, simply "keep a live slice
// reference" — there is no separate root-registration step, but the
// pinning vocabulary is kept because it documents *why* literals live
// in their own table instead of being embedded inline in Instruction:
// embedding an interface value directly would still work, but the
// table keeps Instruction a fixed-size value type, matching the
// teacher's per-opcode fixed-size instruction structs).
//
// Grounded on vm_program.go's Program (label/string tables, code
// slice) and vm_instructions.go's ILabel/NewILabel label allocation.
type Program struct {
	code      []Instruction
	literals  []value.Value
	labelAddr map[int]int // label id -> resolved code index, filled by MakeExecutable
	nextLabel int
	executable bool
}

// NewProgram returns an empty, not-yet-executable program.
func NewProgram() *Program {
	return &Program{}
}

// FreshLabel allocates a new, as-yet-unplaced label id (spec §4.8
// "fresh_label").
func (p *Program) FreshLabel() int {
	p.nextLabel++
	return p.nextLabel
}

// AppendLabel emits an OpLabel marker binding id to the current code
// position (spec §4.8 "append_label").
func (p *Program) AppendLabel(id int, loc SourceLocation) {
	p.code = append(p.code, Instruction{Op: OpLabel, Label: id, Loc: loc})
	p.executable = false
}

// AppendInstruction appends a fully formed instruction verbatim (spec
// §4.8 "append_instruction").
func (p *Program) AppendInstruction(i Instruction) int {
	p.code = append(p.code, i)
	p.executable = false
	return len(p.code) - 1
}

// AppendPush emits an OpPush of a literal value, interning it into the
// literal pool (spec §4.8's "append_push (wide-push variant)" — unlike
// the teacher's narrow/wide opcode pairs chosen by operand size, a
// single push opcode always indexes the pool, since Go values carry no
// encoding-width distinction worth optimizing for here).
func (p *Program) AppendPush(v value.Value, loc SourceLocation) int {
	idx := p.internLiteral(v)
	return p.AppendInstruction(Instruction{Op: OpPush, Val: idx, Loc: loc})
}

// AppendValParameter pins v into the literal pool without emitting an
// instruction, returning its index; used when an instruction other
// than OpPush needs to carry a literal reference (spec §4.8
// "append_val_parameter... with GC-root pinning").
func (p *Program) AppendValParameter(v value.Value) int {
	return p.internLiteral(v)
}

func (p *Program) internLiteral(v value.Value) int {
	p.literals = append(p.literals, v)
	return len(p.literals) - 1
}

// AppendUnsigned emits an instruction carrying a single unsigned
// integer parameter in Arg (spec §4.8 "append_unsigned_parameter").
func (p *Program) AppendUnsigned(op Opcode, n int, loc SourceLocation) int {
	return p.AppendInstruction(Instruction{Op: op, Arg: n, Loc: loc})
}

// AppendRegister emits an instruction carrying a (back, over) register
// pair (spec §4.8 "append_register_parameter"; spec §3.3 addressing).
func (p *Program) AppendRegister(op Opcode, back, over int, loc SourceLocation) int {
	return p.AppendInstruction(Instruction{Op: op, Arg: back, Arg2: over, Loc: loc})
}

// AppendLabelRef emits an instruction referencing a label id, e.g. a
// jump or call target (spec §4.8 "append_label_parameter").
func (p *Program) AppendLabelRef(op Opcode, label int, loc SourceLocation) int {
	return p.AppendInstruction(Instruction{Op: op, Label: label, Loc: loc})
}

// Len returns the number of instructions currently in the program,
// useful for back-patching a jump target computed after the fact.
func (p *Program) Len() int { return len(p.code) }

// At returns the instruction at index idx.
func (p *Program) At(idx int) Instruction { return p.code[idx] }

// Patch overwrites the instruction at idx, used by codegen to
// back-patch a forward jump once its target label's address is known.
func (p *Program) Patch(idx int, i Instruction) {
	p.code[idx] = i
	p.executable = false
}

// Literal returns the pinned literal at idx.
func (p *Program) Literal(idx int) value.Value { return p.literals[idx] }

// MakeExecutable resolves every label reference to a concrete code
// index, memoizing the result (spec §4.8: "make_executable
// (idempotent)"). It is safe to call repeatedly; only the first call
// after a mutation does any work.
func (p *Program) MakeExecutable() error {
	if p.executable {
		return nil
	}
	addr := make(map[int]int, p.nextLabel)
	out := make([]Instruction, 0, len(p.code))
	for _, ins := range p.code {
		if ins.Op == OpLabel {
			addr[ins.Label] = len(out)
			continue
		}
		out = append(out, ins)
	}
	for i, ins := range out {
		switch ins.Op {
		case OpJump, OpJumpIfFalse, OpJumpIfTrue, OpCall:
			target, ok := addr[ins.Label]
			if !ok {
				return fmt.Errorf("bytecode: unresolved label l%d at instruction %d", ins.Label, i)
			}
			ins.Arg = target
			out[i] = ins
		}
	}
	p.code = out
	p.labelAddr = addr
	p.executable = true
	return nil
}

// Executable reports whether MakeExecutable has resolved every label
// since the last mutation.
func (p *Program) Executable() bool { return p.executable }

// Code exposes the resolved instruction slice for the VM executor. It
// panics if MakeExecutable has not been called since the last
// mutation, since jump targets in Arg are only meaningful afterward.
func (p *Program) Code() []Instruction {
	if !p.executable {
		panic("bytecode: Code called before MakeExecutable")
	}
	return p.code
}

// Destroy releases the program's backing storage (spec §4.8
// "destroy"). In Go this just drops references for the GC to reclaim;
// it exists so callers that held onto the Go-idiom-violating C
// lifecycle vocabulary in spec §4.8 have a concrete, if trivial, call
// to make.
func (p *Program) Destroy() {
	p.code = nil
	p.literals = nil
	p.labelAddr = nil
	p.executable = false
}

// Disassemble renders the program as a flat, line-oriented listing,
// grounded on the teacher's Program.PrettyString (_examples/clarete-langlang/go/vm_program.go), simplified to plain text since terminal theming here
// is layered on separately by internal/diag/ascii rather than baked
// into the builder.
func (p *Program) Disassemble() string {
	var b strings.Builder
	for i, ins := range p.code {
		fmt.Fprintf(&b, "%04d  %-8s", i, ins.Op)
		switch ins.Op {
		case OpLabel:
			fmt.Fprintf(&b, "l%d", ins.Label)
		case OpJump, OpJumpIfFalse, OpJumpIfTrue, OpCall:
			if p.executable {
				fmt.Fprintf(&b, "-> %d", ins.Arg)
			} else {
				fmt.Fprintf(&b, "l%d", ins.Label)
			}
		case OpPush:
			fmt.Fprintf(&b, "%s", p.literals[ins.Val].Render(nil))
		case OpLoad, OpStore, OpLoadUnit, OpStoreUnit:
			fmt.Fprintf(&b, "(%d,%d)", ins.Arg, ins.Arg2)
		default:
			if ins.Arg != 0 {
				fmt.Fprintf(&b, "%d", ins.Arg)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
