package model

import (
	"fmt"
	"strings"
)

// Variant selects how diagnostic groups are classified.
type Variant int

const (
	// SingleSignal classifies groups by suppression directives only.
	SingleSignal Variant = iota
	// TwoSignal also drops groups that never touch the current project tree.
	TwoSignal
)

// String returns the config name of the variant.
func (v Variant) String() string {
	switch v {
	case SingleSignal:
		return "single"
	case TwoSignal:
		return "locality"
	default:
		return "unknown"
	}
}

// Frame is one open diagnostic location on the context stack.
type Frame struct {
	Text       string // raw location line, terminator stripped
	Depth      int
	Path       Path
	Line       int
	Suppressed bool
	Local      bool
}

// Counters accumulates the outcome of one filter run.
type Counters struct {
	Errors   int
	Skipped  int
	NonLocal int
	Unused   int
}

// Clean reports whether nothing at all was counted.
func (c Counters) Clean() bool {
	return c.Errors+c.Skipped+c.NonLocal+c.Unused == 0
}

// Failed reports whether the run should end with a non-zero exit status.
func (c Counters) Failed() bool {
	return c.Errors+c.Unused > 0
}

// Summary renders the final one-line report.
func (c Counters) Summary() string {
	if c.Clean() {
		return "JET: clean!"
	}

	parts := make([]string, 0, 4)
	if c.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", c.Errors))
	}

	if c.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", c.Skipped))
	}

	if c.NonLocal > 0 {
		parts = append(parts, fmt.Sprintf("%d non_local", c.NonLocal))
	}

	if c.Unused > 0 {
		parts = append(parts, fmt.Sprintf("%d unused", c.Unused))
	}

	return "JET: " + strings.Join(parts, ", ")
}

// UnusedDirective is a directive line that no diagnostic ever pointed at.
type UnusedDirective struct {
	Path Path
	Line int // 1-based
}
