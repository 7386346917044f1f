package domain

import (
	"log/slog"
	"path/filepath"
	"strings"

	"jetdeps.dev/pkg/jetdeps/internal/adapter"
	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

// LineCache holds the lines of every source file touched during one filter
// run. Next to the original lines it keeps an "unused" copy in which lines
// consumed by a diagnostic are blanked, so directives that were never matched
// can be found afterwards.
type LineCache struct {
	fs     adapter.SourceFSAdapter
	order  []m.Path
	lines  map[m.Path]m.SourceLines
	unused map[m.Path][]string
	bad    map[m.Path]struct{}
}

// NewLineCache returns an empty cache reading through fs.
func NewLineCache(fs adapter.SourceFSAdapter) *LineCache {
	return &LineCache{
		fs:     fs,
		lines:  make(map[m.Path]m.SourceLines),
		unused: make(map[m.Path][]string),
		bad:    make(map[m.Path]struct{}),
	}
}

// Load makes sure path is cached and reports whether its lines are available.
// A path that failed to load once is never retried.
func (c *LineCache) Load(path m.Path) bool {
	if _, ok := c.bad[path]; ok {
		return false
	}

	if _, ok := c.lines[path]; ok {
		return true
	}

	lines, err := c.fs.ReadLines(path)
	if err != nil {
		slog.Debug("source file unavailable", "path", path, "error", err)
		c.bad[path] = struct{}{}

		return false
	}

	c.lines[path] = lines
	c.unused[path] = append([]string(nil), lines...)
	c.order = append(c.order, path)

	return true
}

// Consume returns the text of the 1-based line and blanks it in the unused
// copy. The path must have been loaded.
func (c *LineCache) Consume(path m.Path, line int) (string, bool) {
	text, ok := c.lines[path].Line(line)
	if !ok {
		return "", false
	}

	c.unused[path][line-1] = ""

	return text, true
}

// Paths returns the cached paths in the order they were first loaded.
func (c *LineCache) Paths() []m.Path {
	return append([]m.Path(nil), c.order...)
}

// Unused returns the unused copy of a cached file.
func (c *LineCache) Unused(path m.Path) []string {
	return c.unused[path]
}

// Resolver decides whether a diagnostic location is silenced by a directive
// comment on the referenced source line.
type Resolver interface {
	IsSuppressed(path m.Path, line int) bool
}

type resolver struct {
	fs     adapter.SourceFSAdapter
	cache  *LineCache
	marker string
	wd     m.Path
}

// NewResolver returns a Resolver that looks for marker in the files of cache.
// Paths are made relative to wd before lookup, so diagnostics reporting
// absolute paths hit the same entries as preloaded project files.
func NewResolver(fs adapter.SourceFSAdapter, cache *LineCache, marker string, wd m.Path) Resolver {
	return &resolver{
		fs:     fs,
		cache:  cache,
		marker: marker,
		wd:     wd,
	}
}

// IsSuppressed marks the referenced line as consumed and reports whether it
// carries the directive marker. Unreadable files and out-of-range lines are
// never suppressed.
func (r *resolver) IsSuppressed(path m.Path, line int) bool {
	path = r.relative(path)
	if !r.cache.Load(path) {
		return false
	}

	text, ok := r.cache.Consume(path, line)
	if !ok {
		slog.Debug("location outside of source file", "path", path, "line", line)
		return false
	}

	return r.marker != "" && strings.Contains(text, r.marker)
}

func (r *resolver) relative(path m.Path) m.Path {
	if r.wd == "" {
		return m.Path(filepath.Clean(string(path)))
	}

	target := path
	if !filepath.IsAbs(string(target)) {
		target = m.Path(filepath.Join(string(r.wd), string(path)))
	}

	rel, err := r.fs.RelPath(r.wd, target)
	if err != nil {
		return m.Path(filepath.Clean(string(path)))
	}

	return rel
}
