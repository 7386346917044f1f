package domain

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"jetdeps.dev/pkg/jetdeps/internal/controller"
	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

var locationPattern = regexp.MustCompile(`(\S+):(\d+)$`)

// ClassifierOptions configures how stream lines are recognized and grouped.
type ClassifierOptions struct {
	Variant    m.Variant
	InfoPrefix string
	Noise      []string
	// Project is matched against location lines to decide locality.
	Project string
}

// Classifier consumes the diagnostic stream one line at a time and keeps the
// stack of open locations.
type Classifier struct {
	opts     ClassifierOptions
	resolver Resolver
	ui       controller.FilterUI

	stack    []m.Frame
	changed  bool
	counters m.Counters
}

// NewClassifier returns a Classifier writing surviving groups to ui.
func NewClassifier(opts ClassifierOptions, resolver Resolver, ui controller.FilterUI) *Classifier {
	return &Classifier{
		opts:     opts,
		resolver: resolver,
		ui:       ui,
	}
}

// Counters returns the counts accumulated so far.
func (c *Classifier) Counters() m.Counters {
	return c.counters
}

// Feed processes one line of the stream.
func (c *Classifier) Feed(line string) error {
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

	if c.opts.InfoPrefix != "" && strings.HasPrefix(line, c.opts.InfoPrefix) {
		return c.ui.DisplayInfo(line)
	}

	if c.isNoise(line) {
		return nil
	}

	if match := locationPattern.FindStringSubmatch(line); match != nil {
		c.pushLocation(line, m.Path(match[1]), match[2])
		return nil
	}

	if c.opts.Variant == m.TwoSignal {
		return c.twoSignalMessage(line)
	}

	return c.singleSignalMessage(line)
}

func (c *Classifier) isNoise(line string) bool {
	if line == "" {
		return true
	}

	if c.opts.InfoPrefix != "" && strings.Contains(line, c.opts.InfoPrefix) {
		return true
	}

	for _, noise := range c.opts.Noise {
		if noise != "" && strings.Contains(line, noise) {
			return true
		}
	}

	return false
}

func (c *Classifier) pushLocation(line string, path m.Path, lineNumber string) {
	depth := contextDepth(line)

	for len(c.stack) > 0 && len(c.stack) >= depth {
		c.stack = c.stack[:len(c.stack)-1]
	}

	// An unparsable line number stays 0, which no file has.
	number, _ := strconv.Atoi(lineNumber)

	frame := m.Frame{
		Text:       line,
		Depth:      depth,
		Path:       path,
		Line:       number,
		Suppressed: c.resolver.IsSuppressed(path, number),
	}

	if c.opts.Variant == m.TwoSignal && c.opts.Project != "" {
		frame.Local = strings.Contains(line, c.opts.Project)
	}

	c.stack = append(c.stack, frame)
	c.changed = true
}

func (c *Classifier) singleSignalMessage(line string) error {
	if c.anySuppressed() {
		if c.changed {
			c.counters.Skipped++
			c.changed = false
		}

		return nil
	}

	if c.changed {
		c.changed = false
		c.counters.Errors++

		if err := c.ui.DisplayGroup(c.stack); err != nil {
			return err
		}
	}

	return c.ui.DisplayMessage(line)
}

func (c *Classifier) twoSignalMessage(line string) error {
	defer func() { c.changed = false }()

	switch {
	case len(c.stack) == 0:
		return c.ui.DisplayMessage(line)

	case c.anySuppressed():
		if c.changed {
			c.counters.Skipped++
		}

		return nil

	case c.anyLocal():
		if c.changed {
			c.counters.Errors++

			if err := c.ui.DisplayGroup(c.stack); err != nil {
				return err
			}
		}

		return c.ui.DisplayMessage(line)

	default:
		if c.changed {
			c.counters.NonLocal++
		}

		return nil
	}
}

func (c *Classifier) anySuppressed() bool {
	for _, frame := range c.stack {
		if frame.Suppressed {
			return true
		}
	}

	return false
}

func (c *Classifier) anyLocal() bool {
	for _, frame := range c.stack {
		if frame.Local {
			return true
		}
	}

	return false
}

// contextDepth returns the nesting depth encoded in front of a location line:
// the width of its leading whitespace, or, for lines drawn with a tree prefix
// such as "│┌ @ ...", the width of the text before the first space. A bare
// location at column zero has depth 0.
func contextDepth(line string) int {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if indent := utf8.RuneCountInString(line) - utf8.RuneCountInString(trimmed); indent > 0 {
		return indent
	}

	prefix, _, found := strings.Cut(line, " ")
	if !found || locationPattern.MatchString(prefix) {
		return 0
	}

	return utf8.RuneCountInString(prefix)
}
