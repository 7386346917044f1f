// Package controller renders jetdeps results for the terminal and for
// downstream tools.
package controller

import (
	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

// FilterUI receives the surviving parts of a diagnostic stream.
// Implementations can use different output methods (plain text, styled
// terminal output, etc).
type FilterUI interface {
	// DisplayInfo passes an informational line through and flushes it, so a
	// process tailing the output sees progress immediately.
	DisplayInfo(line string) error
	// DisplayGroup prints a blank separator followed by the location chain.
	DisplayGroup(context []m.Frame) error
	// DisplayMessage prints one diagnostic message line.
	DisplayMessage(line string) error
	// DisplayUnused reports directives no diagnostic matched.
	DisplayUnused(unused []m.UnusedDirective, marker string) error
	// DisplaySummary prints a blank line and the one-line summary.
	DisplaySummary(counters m.Counters) error
	Flush() error
}
