package controller

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

// SimpleUI implements FilterUI as buffered line output.
type SimpleUI struct {
	out    *bufio.Writer
	styled bool
}

// NewSimpleUI creates a SimpleUI writing to w. When styled is set the summary
// line is colored.
func NewSimpleUI(w io.Writer, styled bool) *SimpleUI {
	return &SimpleUI{out: bufio.NewWriter(w), styled: styled}
}

// NewCommandUI creates a SimpleUI bound to the command's output, styled only
// when that output is a terminal.
func NewCommandUI(cmd *cobra.Command) *SimpleUI {
	out := cmd.OutOrStdout()
	return NewSimpleUI(out, IsTTY(out))
}

// DisplayInfo prints line and flushes immediately.
func (s *SimpleUI) DisplayInfo(line string) error {
	if err := s.println(line); err != nil {
		return err
	}

	return s.out.Flush()
}

// DisplayGroup prints a blank line and the raw location lines of context.
func (s *SimpleUI) DisplayGroup(context []m.Frame) error {
	if err := s.println(""); err != nil {
		return err
	}

	for _, frame := range context {
		if err := s.println(frame.Text); err != nil {
			return err
		}
	}

	return nil
}

// DisplayMessage prints a diagnostic message line.
func (s *SimpleUI) DisplayMessage(line string) error {
	return s.println(line)
}

// DisplayUnused prints one report line per unused directive, preceded by a
// blank line when there is at least one.
func (s *SimpleUI) DisplayUnused(unused []m.UnusedDirective, marker string) error {
	if len(unused) == 0 {
		return nil
	}

	if err := s.println(""); err != nil {
		return err
	}

	for _, directive := range unused {
		if err := s.printf("%s:%d: Unused %s directive\n", directive.Path, directive.Line, marker); err != nil {
			return err
		}
	}

	return nil
}

// DisplaySummary prints a blank line and the summary.
func (s *SimpleUI) DisplaySummary(counters m.Counters) error {
	if err := s.println(""); err != nil {
		return err
	}

	summary := counters.Summary()
	if s.styled {
		summary = StyleSummary(counters)
	}

	return s.println(summary)
}

// Flush writes any buffered output.
func (s *SimpleUI) Flush() error {
	return s.out.Flush()
}

func (s *SimpleUI) println(line string) error {
	_, err := fmt.Fprintln(s.out, line)
	return err
}

func (s *SimpleUI) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(s.out, format, args...)
	return err
}
