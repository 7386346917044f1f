// Package model defines the data structures shared by the jet filter and the
// module dependency graph builder.
package model

// Path represents a file system path.
type Path string

// SourceLines holds the lines of one source file, without line terminators.
type SourceLines []string

// Line returns the text of the 1-based line number n and whether it exists.
func (s SourceLines) Line(n int) (string, bool) {
	if n < 1 || n > len(s) {
		return "", false
	}

	return s[n-1], true
}
