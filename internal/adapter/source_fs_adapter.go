// Package adapter contains filesystem and I/O adapters for the jetdeps CLI.
package adapter

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when reading project sources. It intentionally hides direct `os`
// access so the filter and graph logic can be tested without touching the disk.
//
//nolint:interfacebloat // A richer interface keeps domain logic decoupled from os/fs.
type SourceFSAdapter interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// ReadLines loads a file and splits it into lines without terminators.
	ReadLines(path m.Path) (m.SourceLines, error)

	// Open returns a reader over the file at path.
	Open(path m.Path) (io.ReadCloser, error)

	// Glob expands slash-separated patterns relative to the working directory.
	// Matches are de-duplicated and returned in lexical order.
	Glob(patterns ...string) ([]m.Path, error)

	// Getwd returns the current working directory.
	Getwd() (m.Path, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflows.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// ReadLines loads a file and splits it on newlines. A trailing newline does
// not produce an extra empty line, and carriage returns are dropped.
func (a *LocalSourceFSAdapter) ReadLines(path m.Path) (m.SourceLines, error) {
	content, err := os.ReadFile(string(path))
	if err != nil {
		return nil, err
	}

	return SplitLines(string(content)), nil
}

// SplitLines splits text into lines the way ReadLines does.
func SplitLines(text string) m.SourceLines {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return m.SourceLines{}
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	return lines
}

// Open opens the file at path for reading.
func (a *LocalSourceFSAdapter) Open(path m.Path) (io.ReadCloser, error) {
	// #nosec G304 - path is an input named on the command line
	return os.Open(string(path))
}

// Glob expands each pattern by walking its static directory prefix and
// matching every regular file beneath it. A missing prefix directory yields
// no matches rather than an error.
func (a *LocalSourceFSAdapter) Glob(patterns ...string) ([]m.Path, error) {
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}

		pattern = path.Clean(pattern)

		matcher, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		root := staticPrefix(pattern)

		err = filepath.WalkDir(root, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				if name == root && os.IsNotExist(err) {
					return filepath.SkipDir
				}

				return err
			}

			if d.IsDir() {
				return nil
			}

			candidate := filepath.ToSlash(name)
			if matcher.Match(candidate) {
				seen[candidate] = struct{}{}
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
	}

	paths := make([]m.Path, 0, len(seen))
	for name := range seen {
		paths = append(paths, m.Path(name))
	}

	sort.Slice(paths, func(i, j int) bool {
		return paths[i] < paths[j]
	})

	return paths, nil
}

// staticPrefix returns the directory part of pattern that holds no glob
// syntax, or "." when the pattern starts with a wildcard.
func staticPrefix(pattern string) string {
	end := strings.IndexAny(pattern, "*?[{\\")
	if end < 0 {
		end = len(pattern)
	}

	slash := strings.LastIndex(pattern[:end], "/")
	if slash <= 0 {
		if slash == 0 {
			return "/"
		}

		return "."
	}

	return pattern[:slash]
}

// Getwd returns the current working directory.
func (a *LocalSourceFSAdapter) Getwd() (m.Path, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	return m.Path(wd), nil
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}
