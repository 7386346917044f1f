package domain

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"jetdeps.dev/pkg/jetdeps/internal/adapter"
	"jetdeps.dev/pkg/jetdeps/internal/controller"
	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

// StdinPath names standard input in FilterArgs.Inputs.
const StdinPath m.Path = "-"

// FilterArgs contains the arguments for one filter run.
type FilterArgs struct {
	// Inputs are read in order; none means Stdin.
	Inputs []m.Path
	Stdin  io.Reader

	// Preload lists glob patterns of project sources cached up front so
	// that their directives take part in the unused sweep.
	Preload []string

	Marker       string
	VendorMarker string
	InfoPrefix   string
	Noise        []string
	Variant      m.Variant
}

// Filter post-processes a diagnostic stream.
type Filter interface {
	Run(ctx context.Context, args FilterArgs) (m.Counters, error)
}

type filter struct {
	adapter.SourceFSAdapter
	controller.FilterUI
}

// NewFilter creates a Filter reading sources through fsAdapter and writing
// its report to ui.
func NewFilter(fsAdapter adapter.SourceFSAdapter, ui controller.FilterUI) Filter {
	return &filter{
		SourceFSAdapter: fsAdapter,
		FilterUI:        ui,
	}
}

// Run classifies every input line, sweeps for unused directives and prints
// the summary. It returns ErrFindings when errors or unused directives were
// counted.
func (f *filter) Run(ctx context.Context, args FilterArgs) (m.Counters, error) {
	wd, err := f.Getwd()
	if err != nil {
		slog.Warn("working directory unavailable, locality and relative paths disabled", "error", err)

		wd = ""
	}

	cache := NewLineCache(f.SourceFSAdapter)

	preload, err := f.Glob(args.Preload...)
	if err != nil {
		return m.Counters{}, fmt.Errorf("preload sources: %w", err)
	}

	for _, path := range preload {
		cache.Load(path)
	}

	slog.Debug("preloaded sources", "count", len(preload), "variant", args.Variant.String())

	project := ""
	if wd != "" {
		project = filepath.Base(string(wd))
	}

	classifier := NewClassifier(ClassifierOptions{
		Variant:    args.Variant,
		InfoPrefix: args.InfoPrefix,
		Noise:      args.Noise,
		Project:    project,
	}, NewResolver(f.SourceFSAdapter, cache, args.Marker, wd), f.FilterUI)

	if err := f.consume(ctx, args, classifier); err != nil {
		// Groups counted before the failure were already rendered.
		if flushErr := f.Flush(); flushErr != nil {
			slog.Warn("failed to flush output", "error", flushErr)
		}

		return classifier.Counters(), err
	}

	counters := classifier.Counters()

	unused := SweepUnused(cache, args.Marker, args.VendorMarker)
	counters.Unused = len(unused)

	if err := f.DisplayUnused(unused, args.Marker); err != nil {
		return counters, fmt.Errorf("display unused directives: %w", err)
	}

	if err := f.DisplaySummary(counters); err != nil {
		return counters, fmt.Errorf("display summary: %w", err)
	}

	if err := f.Flush(); err != nil {
		return counters, fmt.Errorf("flush output: %w", err)
	}

	slog.Info("filter finished",
		"errors", counters.Errors,
		"skipped", counters.Skipped,
		"non_local", counters.NonLocal,
		"unused", counters.Unused,
	)

	if counters.Failed() {
		return counters, ErrFindings
	}

	return counters, nil
}

func (f *filter) consume(ctx context.Context, args FilterArgs, classifier *Classifier) error {
	inputs := args.Inputs
	if len(inputs) == 0 {
		inputs = []m.Path{StdinPath}
	}

	for _, input := range inputs {
		if err := f.consumeInput(ctx, input, args.Stdin, classifier); err != nil {
			return err
		}
	}

	return nil
}

func (f *filter) consumeInput(ctx context.Context, input m.Path, stdin io.Reader, classifier *Classifier) error {
	var reader io.Reader

	if input == StdinPath {
		if stdin == nil {
			return fmt.Errorf("no standard input available")
		}

		reader = stdin
	} else {
		file, err := f.Open(input)
		if err != nil {
			slog.Error("failed to open input", "path", input, "error", err)
			return fmt.Errorf("open input %s: %w", input, err)
		}

		defer func() {
			if err := file.Close(); err != nil {
				slog.Warn("failed to close input", "path", input, "error", err)
			}
		}()

		reader = file
	}

	buffered := bufio.NewReader(reader)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := buffered.ReadString('\n')
		if line != "" {
			if err := classifier.Feed(line); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}

		if errors.Is(readErr, io.EOF) {
			return nil
		}

		if readErr != nil {
			return fmt.Errorf("read %s: %w", input, readErr)
		}
	}
}
