package model

import "sort"

// Module is one declared source module and its direct dependencies.
type Module struct {
	Name string
	Stem string // file name without directory or extension
	Deps map[string]struct{}
}

// SortedDeps returns the dependency names in lexical order.
func (m *Module) SortedDeps() []string {
	deps := make([]string, 0, len(m.Deps))
	for dep := range m.Deps {
		deps = append(deps, dep)
	}

	sort.Strings(deps)

	return deps
}

// Edge is a dependency edge from a dependency to the module that uses it.
type Edge struct {
	From string
	To   string
}

// Registry holds modules in declaration order.
type Registry struct {
	order   []string
	modules map[string]*Module
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Declare starts (or restarts) a module. A redeclared module keeps its
// original position but loses its previously recorded dependencies.
func (r *Registry) Declare(name string, stem string) *Module {
	mod, ok := r.modules[name]
	if !ok {
		mod = &Module{Name: name}
		r.modules[name] = mod
		r.order = append(r.order, name)
	}

	mod.Stem = stem
	mod.Deps = make(map[string]struct{})

	return mod
}

// Get returns the named module.
func (r *Registry) Get(name string) (*Module, bool) {
	mod, ok := r.modules[name]
	return mod, ok
}

// Modules returns the modules in declaration order.
func (r *Registry) Modules() []*Module {
	mods := make([]*Module, 0, len(r.order))
	for _, name := range r.order {
		mods = append(mods, r.modules[name])
	}

	return mods
}

// Len returns the number of declared modules.
func (r *Registry) Len() int {
	return len(r.order)
}

// Edges returns every recorded (dependency -> module) edge, grouped by module
// in declaration order and sorted by dependency within a module.
func (r *Registry) Edges() []Edge {
	var edges []Edge

	for _, mod := range r.Modules() {
		for _, dep := range mod.SortedDeps() {
			edges = append(edges, Edge{From: dep, To: mod.Name})
		}
	}

	return edges
}
