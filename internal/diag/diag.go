// Package diag implements the compiler's diagnostics (spec §7) and the
// terminal callback table (spec §6.3) every textual output — error
// messages, disassembly, pretty-printed values — is routed through.
// Grounded on the teacher's ParsingError/Span (_examples/clarete-langlang/go/errors.go,
// pos.go) and its ascii theme (_examples/clarete-langlang/go/ascii/colors.go, adapted here as
// internal/diag/ascii).
package diag

import "fmt"

// Severity classifies a diagnostic (spec §7).
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
	SeverityInternal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityInternal:
		return "internal error"
	default:
		return "diagnostic"
	}
}

// Location mirrors bytecode.SourceLocation without importing it (diag
// sits below bytecode in the import graph: both ast and bytecode
// diagnostics are reported through this package).
type Location struct {
	Source string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.Source == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.Source, l.Line, l.Column)
}

// Diagnostic is one compiler-produced message (spec §7): a
// CompileError or Warning carries a Location; an InternalError may not
// (it can originate from an invariant check with no single source
// point).
type Diagnostic struct {
	Severity Severity
	Message  string
	Loc      Location
	Phase    string // which pass produced this, e.g. "typify1"
}

func (d *Diagnostic) Error() string {
	if d.Phase != "" {
		return fmt.Sprintf("%s: %s [%s] (%s)", d.Severity, d.Message, d.Phase, d.Loc)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Loc)
}

// NewError constructs a SeverityError diagnostic (spec §7
// "CompileError").
func NewError(phase string, loc Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...), Loc: loc, Phase: phase}
}

// NewWarning constructs a SeverityWarning diagnostic.
func NewWarning(phase string, loc Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...), Loc: loc, Phase: phase}
}

// NewInternal constructs a SeverityInternal diagnostic for invariant
// violations that should never reach an end user unannotated (spec §7:
// "InternalError").
func NewInternal(phase string, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: SeverityInternal, Message: fmt.Sprintf(format, args...), Phase: phase}
}

// Bag accumulates diagnostics across a compile attempt, counting
// errors separately from warnings so the facade can decide whether to
// treat "error_on_warning" as fatal (spec §6.4).
type Bag struct {
	items          []*Diagnostic
	errorOnWarning bool
}

// NewBag returns an empty diagnostic bag.
func NewBag(errorOnWarning bool) *Bag {
	return &Bag{errorOnWarning: errorOnWarning}
}

func (b *Bag) Add(d *Diagnostic) {
	b.items = append(b.items, d)
}

// Items returns every diagnostic added so far, in order.
func (b *Bag) Items() []*Diagnostic { return b.items }

// HasErrors reports whether the bag contains anything that should
// abort compilation: any SeverityError/SeverityInternal diagnostic, or
// (when errorOnWarning is set) any SeverityWarning.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SeverityError || d.Severity == SeverityInternal {
			return true
		}
		if b.errorOnWarning && d.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Reset clears the bag, called between incremental compile attempts.
func (b *Bag) Reset() { b.items = nil }
