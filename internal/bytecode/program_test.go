package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pklc/internal/value"
)

func TestMakeExecutableResolvesForwardJumpAndStripsLabels(t *testing.T) {
	p := NewProgram()
	l1 := p.FreshLabel()
	p.AppendLabelRef(OpJump, l1, SourceLocation{})
	p.AppendInstruction(Instruction{Op: OpNop})
	p.AppendLabel(l1, SourceLocation{})
	p.AppendInstruction(Instruction{Op: OpReturn})

	require.NoError(t, p.MakeExecutable())
	code := p.Code()
	require.Len(t, code, 3)
	assert.Equal(t, OpJump, code[0].Op)
	assert.Equal(t, 2, code[0].Arg) // jump target after label stripped
	assert.Equal(t, OpReturn, code[2].Op)
}

func TestMakeExecutableIsIdempotent(t *testing.T) {
	p := NewProgram()
	p.AppendInstruction(Instruction{Op: OpNop})
	require.NoError(t, p.MakeExecutable())
	first := p.Code()
	require.NoError(t, p.MakeExecutable())
	assert.Equal(t, first, p.Code())
}

func TestMakeExecutableErrorsOnUnresolvedLabel(t *testing.T) {
	p := NewProgram()
	p.AppendLabelRef(OpJump, 999, SourceLocation{})
	assert.Error(t, p.MakeExecutable())
}

func TestAppendPushInternsLiteralAndCodeBecomesNonExecutableAfterMutation(t *testing.T) {
	p := NewProgram()
	p.AppendPush(value.NewInteger(42, 32, true), SourceLocation{})
	require.NoError(t, p.MakeExecutable())
	assert.True(t, p.Executable())

	p.AppendInstruction(Instruction{Op: OpNop})
	assert.False(t, p.Executable())
}

func TestCodePanicsBeforeMakeExecutable(t *testing.T) {
	p := NewProgram()
	p.AppendInstruction(Instruction{Op: OpNop})
	assert.Panics(t, func() { p.Code() })
}
