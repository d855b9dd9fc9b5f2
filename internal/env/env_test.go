package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pklc/internal/value"
)

func TestLexicalLookupResolvesOutwardByBackOver(t *testing.T) {
	l := NewLexical()
	l.Declare("a", nil) // frame 0, slot 0
	l.PushFrame()
	l.Declare("b", nil) // frame 1, slot 0
	back, over, _, ok := l.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, 1, back)
	assert.Equal(t, 0, over)

	back, over, _, ok = l.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 0, back)
	assert.Equal(t, 0, over)
}

func TestLexicalShadowingPrefersInnermostBinding(t *testing.T) {
	l := NewLexical()
	l.Declare("x", nil)
	l.PushFrame()
	l.Declare("x", nil)
	back, _, _, ok := l.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 0, back)
}

func TestLexicalUnitNamespaceIsIndependentOfMain(t *testing.T) {
	l := NewLexical()
	l.Declare("x", nil)
	l.DeclareUnit("x", nil) // same name, different namespace: no collision

	_, _, _, okMain := l.Lookup("x")
	_, _, _, okUnit := l.LookupUnit("x")
	assert.True(t, okMain)
	assert.True(t, okUnit)

	_, _, _, okCross := l.LookupUnit("y")
	assert.False(t, okCross)
}

func TestLexicalSnapshotRestoreRollsBackFailedDeclarations(t *testing.T) {
	l := NewLexical()
	l.Declare("a", nil)
	snap := l.Snapshot()
	l.Declare("b", nil)
	l.PushFrame()
	l.Declare("c", nil)

	l.Restore(snap)
	assert.Equal(t, 1, l.Depth())
	_, _, _, ok := l.Lookup("b")
	assert.False(t, ok)
	_, _, _, ok = l.Lookup("a")
	assert.True(t, ok)
}

func TestRuntimeEnvGetSetRoundTrip(t *testing.T) {
	e := NewRuntimeEnv()
	e.Bind(value.NewInteger(1, 32, true))
	e.Pushf()
	e.Bind(value.NewInteger(2, 32, true))

	assert.Equal(t, int64(1), e.Get(1, 0).(value.Integer).Int64())
	assert.Equal(t, int64(2), e.Get(0, 0).(value.Integer).Int64())

	e.Set(1, 0, value.NewInteger(99, 32, true))
	assert.Equal(t, int64(99), e.Get(1, 0).(value.Integer).Int64())
}

func TestRuntimeEnvDupIsIndependentOfOriginal(t *testing.T) {
	e := NewRuntimeEnv()
	e.Bind(value.NewInteger(1, 32, true))
	captured := e.Dup()

	e.Pushf()
	e.Bind(value.NewInteger(2, 32, true))

	assert.Equal(t, 1, captured.Depth())
	assert.Equal(t, 2, e.Depth())
}
