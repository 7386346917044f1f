package controller

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

var (
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	skippedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	cleanStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// StyleSummary renders the summary colored by outcome: red when the run
// fails, yellow when only skipped or non-local groups were counted.
func StyleSummary(counters m.Counters) string {
	summary := counters.Summary()

	switch {
	case counters.Failed():
		return failedStyle.Render(summary)
	case counters.Clean():
		return cleanStyle.Render(summary)
	default:
		return skippedStyle.Render(summary)
	}
}
