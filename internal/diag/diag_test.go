package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagHasErrorsIgnoresPlainWarnings(t *testing.T) {
	b := NewBag(false)
	b.Add(NewWarning("trans1", Location{}, "unused variable %s", "x"))
	assert.False(t, b.HasErrors())
}

func TestBagErrorOnWarningEscalates(t *testing.T) {
	b := NewBag(true)
	b.Add(NewWarning("trans1", Location{}, "unused variable %s", "x"))
	assert.True(t, b.HasErrors())
}

func TestBagErrorSeverityAlwaysAborts(t *testing.T) {
	b := NewBag(false)
	b.Add(NewError("typify1", Location{Source: "a.pk", Line: 3, Column: 1}, "type mismatch"))
	require.True(t, b.HasErrors())
	assert.Len(t, b.Items(), 1)
}

func TestWriterSinkPutsRespectsIndent(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf, nil)
	s.Indent(2, 2)
	s.Puts("x")
	assert.Equal(t, "    x", buf.String())
}

func TestReportBracketsWithClassBeginEnd(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriterSink(&buf, nil)
	d := NewError("fold", Location{Line: 1, Column: 1}, "divide by zero")
	Report(s, d)
	assert.Contains(t, buf.String(), "divide by zero")
}
