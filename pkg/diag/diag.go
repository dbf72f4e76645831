package diag

import (
	"fmt"
	"strings"
	"sync"
)

// Phase identifies which stage of the pipeline produced a diagnostic.
type Phase string

const (
	PhaseScan    Phase = "scan"
	PhaseParse   Phase = "parse"
	PhaseResolve Phase = "resolve"
	PhaseRuntime Phase = "runtime"
)

// Severity captures diagnostic levels.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single positioned message produced by one of the phases.
//
// Where is the position descriptor rendered after "Error": either " at end"
// or " at 'lexeme'", or empty when only the line is known.
type Diagnostic struct {
	Phase    Phase
	Severity Severity
	Line     int
	Where    string
	Message  string
}

// Reporter is the diagnostic sink. Implementations must not panic.
type Reporter func(Diagnostic)

// Report invokes r when non-nil.
func (r Reporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	if d.Severity == "" {
		d.Severity = SeverityError
	}
	r(d)
}

// AtEnd is the Where descriptor used for diagnostics on the EOF token.
const AtEnd = " at end"

// AtLexeme returns the Where descriptor for a lexeme.
func AtLexeme(lexeme string) string {
	return fmt.Sprintf(" at '%s'", lexeme)
}

// Describe formats a diagnostic for CLI output.
func Describe(d Diagnostic) string {
	label := "Error"
	if d.Severity == SeverityWarning {
		label = "Warning"
	}
	message := strings.TrimSpace(d.Message)
	if d.Line > 0 {
		return fmt.Sprintf("[line %d] %s%s: %s", d.Line, label, d.Where, message)
	}
	return fmt.Sprintf("%s%s: %s", label, d.Where, message)
}

// Collector accumulates diagnostics, optionally forwarding them to another sink.
type Collector struct {
	mu      sync.Mutex
	items   []Diagnostic
	forward Reporter
}

// NewCollector returns a collector forwarding to next (which may be nil).
func NewCollector(next Reporter) *Collector {
	return &Collector{forward: next}
}

// Reporter returns the sink that records into the collector.
func (c *Collector) Reporter() Reporter {
	return func(d Diagnostic) {
		c.mu.Lock()
		c.items = append(c.items, d)
		c.mu.Unlock()
		c.forward.Report(d)
	}
}

// Diagnostics returns a copy of everything recorded so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Count returns the number of diagnostics recorded for phase (all phases when empty).
func (c *Collector) Count(phase Phase) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if phase == "" {
		return len(c.items)
	}
	n := 0
	for _, d := range c.items {
		if d.Phase == phase {
			n++
		}
	}
	return n
}

// Messages returns the formatted diagnostics, in order.
func (c *Collector) Messages() []string {
	items := c.Diagnostics()
	out := make([]string, 0, len(items))
	for _, d := range items {
		out = append(out, Describe(d))
	}
	return out
}

// Reset discards recorded diagnostics.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}
