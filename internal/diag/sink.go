package diag

import (
	"fmt"
	"io"
	"strings"

	"pklc/internal/diag/ascii"
)

// Sink is the terminal callback table spec §6.3 requires: every line
// of textual output the compiler produces — diagnostics, disassembly,
// pretty-printed values — goes through exactly these eight entry
// points, never straight to an io.Writer, so a host application (a
// REPL, an MI client, a test harness) can substitute its own transport
// without the compiler package knowing the difference.
type Sink interface {
	Flush()
	Puts(s string)
	Printf(format string, args ...any)
	Indent(level, step int)
	ClassBegin(name string)
	ClassEnd(name string)
	HyperlinkBegin(url, id string)
	HyperlinkEnd()
}

// WriterSink is the one concrete Sink this module ships: a plain
// io.Writer-backed terminal, optionally themed (spec §6.5's styling is
// out of core scope; this is the minimal local implementation used by
// cmd/pklc and by tests, grounded on the teacher's ascii.Color helper).
type WriterSink struct {
	w       io.Writer
	theme   *ascii.Theme // nil disables coloring
	indent  int
	classes []string
}

// NewWriterSink returns a Sink writing to w. Pass a non-nil theme to
// color diagnostic/class output with ANSI escapes; pass nil for plain
// text (e.g. when writing to a file or a non-terminal).
func NewWriterSink(w io.Writer, theme *ascii.Theme) *WriterSink {
	return &WriterSink{w: w, theme: theme}
}

func (s *WriterSink) Flush() {
	if f, ok := s.w.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
}

func (s *WriterSink) pad() string { return strings.Repeat(" ", s.indent) }

func (s *WriterSink) Puts(str string) { fmt.Fprint(s.w, s.pad()+str) }

func (s *WriterSink) Printf(format string, args ...any) {
	fmt.Fprint(s.w, s.pad()+fmt.Sprintf(format, args...))
}

func (s *WriterSink) Indent(level, step int) { s.indent = level * step }

func (s *WriterSink) ClassBegin(name string) {
	s.classes = append(s.classes, name)
	if s.theme == nil {
		return
	}
	if color := s.colorFor(name); color != "" {
		fmt.Fprint(s.w, color)
	}
}

func (s *WriterSink) ClassEnd(name string) {
	if len(s.classes) > 0 {
		s.classes = s.classes[:len(s.classes)-1]
	}
	if s.theme != nil {
		fmt.Fprint(s.w, ascii.Reset)
	}
}

func (s *WriterSink) colorFor(class string) string {
	switch class {
	case "error":
		return s.theme.Error
	case "warning":
		return s.theme.Warning
	case "info":
		return s.theme.Info
	case "hint":
		return s.theme.Hint
	case "literal":
		return s.theme.Literal
	case "operator":
		return s.theme.Operator
	case "operand":
		return s.theme.Operand
	case "comment":
		return s.theme.Comment
	case "label":
		return s.theme.Label
	default:
		return ""
	}
}

// HyperlinkBegin/HyperlinkEnd emit OSC-8 terminal hyperlink escapes
// when a theme is active (spec §6.3); with no theme they degrade to
// plain text (the id is an opaque correlation token the hyperlink
// server uses, out of this module's scope per spec §1).
func (s *WriterSink) HyperlinkBegin(url, id string) {
	if s.theme == nil {
		return
	}
	fmt.Fprintf(s.w, "\033]8;id=%s;%s\033\\", id, url)
}

func (s *WriterSink) HyperlinkEnd() {
	if s.theme == nil {
		return
	}
	fmt.Fprint(s.w, "\033]8;;\033\\")
}

// Report writes a Diagnostic through the Sink using the standard
// "class_begin(severity) ... class_end" bracketing (spec §6.3/§7).
func Report(s Sink, d *Diagnostic) {
	class := d.Severity.String()
	s.ClassBegin(class)
	s.Printf("%s: %s\n", d.Loc, d.Message)
	s.ClassEnd(class)
}
