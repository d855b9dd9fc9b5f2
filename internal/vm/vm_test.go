package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pklc/internal/bytecode"
	"pklc/internal/value"
)

func buildAddProgram(t *testing.T) *bytecode.Program {
	t.Helper()
	p := bytecode.NewProgram()
	p.AppendPush(value.NewInteger(2, 32, true), bytecode.SourceLocation{})
	p.AppendPush(value.NewInteger(3, 32, true), bytecode.SourceLocation{})
	p.AppendInstruction(bytecode.Instruction{Op: bytecode.OpAdd})
	p.AppendInstruction(bytecode.Instruction{Op: bytecode.OpReturn})
	require.NoError(t, p.MakeExecutable())
	return p
}

func TestVMRunsSimpleArithmeticProgram(t *testing.T) {
	p := buildAddProgram(t)
	m := New(p, nil, nil)
	result, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.(value.Integer).Int64())
}

func TestVMDivideByZeroReportsRuntimeError(t *testing.T) {
	p := bytecode.NewProgram()
	p.AppendPush(value.NewInteger(1, 32, true), bytecode.SourceLocation{})
	p.AppendPush(value.NewInteger(0, 32, true), bytecode.SourceLocation{})
	p.AppendInstruction(bytecode.Instruction{Op: bytecode.OpDiv})
	p.AppendInstruction(bytecode.Instruction{Op: bytecode.OpReturn})
	require.NoError(t, p.MakeExecutable())

	m := New(p, nil, nil)
	_, err := m.Run()
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, bytecode.OpDiv, verr.Op)
}

func TestVMConditionalJumpSkipsFalseBranch(t *testing.T) {
	p := bytecode.NewProgram()
	lElse := p.FreshLabel()
	lEnd := p.FreshLabel()
	p.AppendPush(value.NewInteger(0, 32, true), bytecode.SourceLocation{}) // false condition
	p.AppendLabelRef(bytecode.OpJumpIfFalse, lElse, bytecode.SourceLocation{})
	p.AppendPush(value.NewInteger(111, 32, true), bytecode.SourceLocation{})
	p.AppendLabelRef(bytecode.OpJump, lEnd, bytecode.SourceLocation{})
	p.AppendLabel(lElse, bytecode.SourceLocation{})
	p.AppendPush(value.NewInteger(222, 32, true), bytecode.SourceLocation{})
	p.AppendLabel(lEnd, bytecode.SourceLocation{})
	p.AppendInstruction(bytecode.Instruction{Op: bytecode.OpReturn})
	require.NoError(t, p.MakeExecutable())

	m := New(p, nil, nil)
	result, err := m.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(222), result.(value.Integer).Int64())
}

type captureSink struct{ got []string }

func (c *captureSink) Print(s string) { c.got = append(c.got, s) }

func TestVMPrintDispatchesToSink(t *testing.T) {
	p := bytecode.NewProgram()
	p.AppendPush(value.NewStr("hi"), bytecode.SourceLocation{})
	p.AppendInstruction(bytecode.Instruction{Op: bytecode.OpPrint})
	p.AppendInstruction(bytecode.Instruction{Op: bytecode.OpReturn})
	require.NoError(t, p.MakeExecutable())

	sink := &captureSink{}
	m := New(p, nil, sink)
	_, err := m.Run()
	require.NoError(t, err)
	require.Len(t, sink.got, 1)
	assert.Equal(t, `"hi"`, sink.got[0])
}
