package domain

import (
	"path/filepath"
	"strings"
	"unicode"

	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

const (
	moduleMarker        = "module "
	referenceMarker     = " .."
	selfReferenceMarker = "..."
)

// ParseModuleFile records the modules declared in one file and the sibling
// modules they reference through relative imports such as "using ..Other".
func ParseModuleFile(reg *m.Registry, path m.Path, lines m.SourceLines) {
	stem := fileStem(path)

	var current *m.Module

	for _, line := range lines {
		if strings.Contains(line, selfReferenceMarker) {
			continue
		}

		if name, ok := strings.CutPrefix(line, moduleMarker); ok {
			current = reg.Declare(name, stem)
			continue
		}

		dep, ok := referencedModule(line)
		if !ok || current == nil {
			continue
		}

		current.Deps[dep] = struct{}{}
	}
}

// referencedModule extracts the module named after the single " .." marker of
// a line, up to its first qualifier dot.
func referencedModule(line string) (string, bool) {
	parts := strings.Split(line, referenceMarker)
	if len(parts) != 2 {
		return "", false
	}

	name, _, _ := strings.Cut(parts[1], ".")
	if name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return "", false
	}

	return name, true
}

func fileStem(path m.Path) string {
	base := filepath.Base(string(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
