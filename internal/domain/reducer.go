package domain

import (
	"slices"

	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

// Reduce removes every direct dependency that is also reachable through a
// longer chain of recorded dependencies, and returns the removed edges.
// Modules are reduced in declaration order; a module's set is replaced only
// after all of its dependencies were checked.
func Reduce(reg *m.Registry) []m.Edge {
	var dropped []m.Edge

	for _, mod := range reg.Modules() {
		retained := make(map[string]struct{}, len(mod.Deps))

		for _, dep := range mod.SortedDeps() {
			if reachable(reg, dep, mod.Name, nil) {
				dropped = append(dropped, m.Edge{From: dep, To: mod.Name})
				continue
			}

			retained[dep] = struct{}{}
		}

		mod.Deps = retained
	}

	return dropped
}

// reachable reports whether dep reaches mod through a path of at least two
// edges. path holds the modules already on the current branch; revisiting one
// of them abandons the branch, so cycles never count as proof.
func reachable(reg *m.Registry, dep string, mod string, path []string) bool {
	if slices.Contains(path, mod) {
		return false
	}

	current, ok := reg.Get(mod)
	if !ok {
		return false
	}

	for _, other := range current.SortedDeps() {
		if other == dep {
			// The direct edge itself is not an alternate path.
			if len(path) == 0 {
				continue
			}

			return true
		}

		if reachable(reg, dep, other, append(path, mod)) {
			return true
		}
	}

	return false
}
