// Package domain contains the jet filter pipeline and the module graph
// reduction.
package domain

import "errors"

// ErrFindings reports a run that completed but found problems which should
// fail the invoking process.
var ErrFindings = errors.New("findings reported")
