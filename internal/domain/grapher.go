package domain

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"jetdeps.dev/pkg/jetdeps/internal/adapter"
	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

// GraphArgs contains the arguments for building the module graph.
type GraphArgs struct {
	// Sources are glob patterns of module definition files.
	Sources []string
	// Parallel bounds concurrent file reads; zero or less means unbounded.
	Parallel int
}

// GraphResult is the reduced module graph together with the edges that the
// reduction removed.
type GraphResult struct {
	Registry *m.Registry
	Files    []m.Path
	Dropped  []m.Edge
}

// Grapher builds the reduced module dependency graph.
type Grapher interface {
	Build(ctx context.Context, args GraphArgs) (GraphResult, error)
}

type grapher struct {
	adapter.SourceFSAdapter
}

// NewGrapher creates a Grapher reading module files through fsAdapter.
func NewGrapher(fsAdapter adapter.SourceFSAdapter) Grapher {
	return &grapher{SourceFSAdapter: fsAdapter}
}

// Build reads all module files, parses them in path order and reduces the
// resulting graph.
func (g *grapher) Build(ctx context.Context, args GraphArgs) (GraphResult, error) {
	files, err := g.Glob(args.Sources...)
	if err != nil {
		return GraphResult{}, fmt.Errorf("find module files: %w", err)
	}

	contents, err := g.readAll(ctx, files, args.Parallel)
	if err != nil {
		return GraphResult{}, err
	}

	reg := m.NewRegistry()
	for i, path := range files {
		ParseModuleFile(reg, path, contents[i])
	}

	dropped := Reduce(reg)

	slog.Info("module graph built",
		"files", len(files),
		"modules", reg.Len(),
		"dropped_edges", len(dropped),
	)

	return GraphResult{Registry: reg, Files: files, Dropped: dropped}, nil
}

func (g *grapher) readAll(ctx context.Context, files []m.Path, parallel int) ([]m.SourceLines, error) {
	contents := make([]m.SourceLines, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	if parallel > 0 {
		group.SetLimit(parallel)
	}

	for i, path := range files {
		i, path := i, path
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			lines, err := g.ReadLines(path)
			if err != nil {
				slog.Error("failed to read module file", "path", path, "error", err)
				return fmt.Errorf("read module file %s: %w", path, err)
			}

			contents[i] = lines

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return contents, nil
}
