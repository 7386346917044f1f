package controller

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

// Graph output formats.
const (
	FormatDOT   = "dot"
	FormatTable = "table"
	FormatYAML  = "yaml"
)

// GraphOptions controls how module nodes are rendered.
type GraphOptions struct {
	// Root is the module that gets no node line of its own.
	Root      string
	URLPrefix string
	URLSuffix string
}

// Generator renders a module graph as text.
type Generator interface {
	Generate() (string, error)
}

// NewGenerator returns the generator for format.
func NewGenerator(format string, reg *m.Registry, dropped []m.Edge, opts GraphOptions) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatDOT:
		return NewDOTGenerator(reg, opts), nil
	case FormatTable:
		return NewTableGenerator(reg, dropped), nil
	case FormatYAML:
		return NewYAMLGenerator(reg, dropped), nil
	default:
		return nil, fmt.Errorf("unknown graph format %q (want %s, %s or %s)", format, FormatDOT, FormatTable, FormatYAML)
	}
}

// DOTGenerator renders the graph in Graphviz dot syntax. Every module gets a
// clickable box pointing at its documentation page, followed by one edge per
// retained dependency.
type DOTGenerator struct {
	registry *m.Registry
	opts     GraphOptions
}

// NewDOTGenerator creates a DOTGenerator.
func NewDOTGenerator(reg *m.Registry, opts GraphOptions) *DOTGenerator {
	return &DOTGenerator{registry: reg, opts: opts}
}

// Generate implements Generator.
func (d *DOTGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph {\n")
	buf.WriteString("node [ fontname = \"Sans-Serif\" ];\n")

	for _, mod := range d.registry.Modules() {
		if mod.Name != d.opts.Root {
			fmt.Fprintf(&buf,
				"%s [ shape = box, color = white, margin = 0.03, width = 0, height = 0, URL = \"%s%s%s\" target = _top ];\n",
				mod.Name, d.opts.URLPrefix, mod.Stem, d.opts.URLSuffix,
			)
		}

		for _, dep := range mod.SortedDeps() {
			fmt.Fprintf(&buf, "%s -> %s;\n", dep, mod.Name)
		}
	}

	buf.WriteString("}\n")

	return buf.String(), nil
}

// TableGenerator renders one row per module with its retained and dropped
// dependencies.
type TableGenerator struct {
	registry *m.Registry
	dropped  []m.Edge
}

// NewTableGenerator creates a TableGenerator.
func NewTableGenerator(reg *m.Registry, dropped []m.Edge) *TableGenerator {
	return &TableGenerator{registry: reg, dropped: dropped}
}

// Generate implements Generator.
func (t *TableGenerator) Generate() (string, error) {
	droppedBy := droppedByModule(t.dropped)

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Module", "File", "Dependencies", "Dropped"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	edges := 0

	for _, mod := range t.registry.Modules() {
		deps := mod.SortedDeps()
		edges += len(deps)

		table.Append([]string{
			mod.Name,
			mod.Stem,
			strings.Join(deps, ", "),
			strings.Join(droppedBy[mod.Name], ", "),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Modules %d", t.registry.Len()),
		"",
		strconv.Itoa(edges),
		strconv.Itoa(len(t.dropped)),
	})

	table.Render()

	return tableBuffer.String(), nil
}

// YAMLGenerator renders the graph as a YAML document for other tools.
type YAMLGenerator struct {
	registry *m.Registry
	dropped  []m.Edge
}

// NewYAMLGenerator creates a YAMLGenerator.
func NewYAMLGenerator(reg *m.Registry, dropped []m.Edge) *YAMLGenerator {
	return &YAMLGenerator{registry: reg, dropped: dropped}
}

type yamlModule struct {
	Name    string   `yaml:"name"`
	File    string   `yaml:"file"`
	Deps    []string `yaml:"deps,omitempty"`
	Dropped []string `yaml:"dropped,omitempty"`
}

type yamlGraph struct {
	Modules []yamlModule `yaml:"modules"`
}

// Generate implements Generator.
func (y *YAMLGenerator) Generate() (string, error) {
	droppedBy := droppedByModule(y.dropped)

	doc := yamlGraph{Modules: make([]yamlModule, 0, y.registry.Len())}
	for _, mod := range y.registry.Modules() {
		doc.Modules = append(doc.Modules, yamlModule{
			Name:    mod.Name,
			File:    mod.Stem,
			Deps:    mod.SortedDeps(),
			Dropped: droppedBy[mod.Name],
		})
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal graph: %w", err)
	}

	return string(out), nil
}

func droppedByModule(dropped []m.Edge) map[string][]string {
	byModule := make(map[string][]string)
	for _, edge := range dropped {
		byModule[edge.To] = append(byModule[edge.To], edge.From)
	}

	return byModule
}

// Diff returns a unified diff turning expected into actual, or an empty
// string when they are equal.
func Diff(expected string, actual string, expectedName string, actualName string) (string, error) {
	if expected == actual {
		return "", nil
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: expectedName,
		ToFile:   actualName,
		Context:  3,
	})
}
