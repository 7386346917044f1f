package domain_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	adaptermocks "jetdeps.dev/pkg/jetdeps/internal/adapter/mocks"
	"jetdeps.dev/pkg/jetdeps/internal/controller"
	"jetdeps.dev/pkg/jetdeps/internal/domain"
	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

func filterArgs(stdin string, variant m.Variant) domain.FilterArgs {
	return domain.FilterArgs{
		Stdin:        strings.NewReader(stdin),
		Preload:      []string{"src/*.jl"},
		Marker:       "NOJET",
		VendorMarker: ".jl/",
		InfoPrefix:   "[toplevel-info]",
		Noise:        []string{"possible errors"},
		Variant:      variant,
	}
}

func expectProject(mockFSAdapter *adaptermocks.MockSourceFSAdapter, wd m.Path) {
	mockFSAdapter.EXPECT().Getwd().Return(wd, nil)
	mockFSAdapter.EXPECT().RelPath(mock.Anything, mock.Anything).RunAndReturn(func(base, target m.Path) (m.Path, error) {
		rel, err := filepath.Rel(string(base), string(target))
		return m.Path(rel), err
	}).Maybe()
}

func TestFilter_Run_ReportsErrorGroup(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	expectProject(mockFSAdapter, "/work/Proj")
	mockFSAdapter.EXPECT().Glob("src/*.jl").Return(nil, nil)
	mockFSAdapter.EXPECT().ReadLines(m.Path("file.jl")).Return(nil, errors.New("not found"))

	out := &bytes.Buffer{}
	filter := domain.NewFilter(mockFSAdapter, controller.NewSimpleUI(out, false))

	// Act
	counters, err := filter.Run(context.Background(), filterArgs("  file.jl:10\nerror: bad thing\n", m.SingleSignal))

	// Assert
	require.ErrorIs(t, err, domain.ErrFindings)
	assert.Equal(t, m.Counters{Errors: 1}, counters)
	assert.Equal(t, "\n  file.jl:10\nerror: bad thing\n\nJET: 1 errors\n", out.String())
}

func TestFilter_Run_SkippedAndUnused(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	expectProject(mockFSAdapter, "/work/Proj")
	mockFSAdapter.EXPECT().Glob("src/*.jl").Return([]m.Path{"src/a.jl"}, nil)
	mockFSAdapter.EXPECT().ReadLines(m.Path("src/a.jl")).Return(m.SourceLines{
		"f() # NOJET Other.jl/issues/1",
		"g() # NOJET Other.jl/issues/2",
	}, nil).Once()

	out := &bytes.Buffer{}
	filter := domain.NewFilter(mockFSAdapter, controller.NewSimpleUI(out, false))

	stdin := "│┌ @ /work/Proj/src/a.jl:1\nerror: silenced\n"

	// Act
	counters, err := filter.Run(context.Background(), filterArgs(stdin, m.SingleSignal))

	// Assert
	require.ErrorIs(t, err, domain.ErrFindings)
	assert.Equal(t, m.Counters{Skipped: 1, Unused: 1}, counters)
	assert.Equal(t, "\nsrc/a.jl:2: Unused NOJET directive\n\nJET: 1 skipped, 1 unused\n", out.String())
}

func TestFilter_Run_CleanRunSucceeds(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	expectProject(mockFSAdapter, "/work/Proj")
	mockFSAdapter.EXPECT().Glob("src/*.jl").Return(nil, nil)

	out := &bytes.Buffer{}
	filter := domain.NewFilter(mockFSAdapter, controller.NewSimpleUI(out, false))

	// Act
	counters, err := filter.Run(context.Background(), filterArgs("[toplevel-info] done\n", m.SingleSignal))

	// Assert
	require.NoError(t, err)
	assert.True(t, counters.Clean())
	assert.Equal(t, "[toplevel-info] done\n\nJET: clean!\n", out.String())
}

func TestFilter_Run_NonLocalDoesNotFail(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	expectProject(mockFSAdapter, "/work/Proj")
	mockFSAdapter.EXPECT().Glob("src/*.jl").Return(nil, nil)
	mockFSAdapter.EXPECT().ReadLines(mock.Anything).Return(nil, errors.New("not found"))

	out := &bytes.Buffer{}
	filter := domain.NewFilter(mockFSAdapter, controller.NewSimpleUI(out, false))

	// Act
	counters, err := filter.Run(context.Background(), filterArgs(" /deps/Other/src/b.jl:4\nerror: theirs\n", m.TwoSignal))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, m.Counters{NonLocal: 1}, counters)
	assert.Equal(t, "\nJET: 1 non_local\n", out.String())
}

func TestFilter_Run_ReadsInputFilesInOrder(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	expectProject(mockFSAdapter, "/work/Proj")
	mockFSAdapter.EXPECT().Glob("src/*.jl").Return(nil, nil)
	mockFSAdapter.EXPECT().ReadLines(mock.Anything).Return(nil, errors.New("not found"))
	mockFSAdapter.EXPECT().Open(m.Path("one.log")).Return(io.NopCloser(strings.NewReader(" a.jl:1\nerror: one\n")), nil)
	mockFSAdapter.EXPECT().Open(m.Path("two.log")).Return(io.NopCloser(strings.NewReader(" b.jl:2\nerror: two")), nil)

	out := &bytes.Buffer{}
	filter := domain.NewFilter(mockFSAdapter, controller.NewSimpleUI(out, false))

	args := filterArgs("", m.SingleSignal)
	args.Inputs = []m.Path{"one.log", "two.log"}

	// Act
	counters, err := filter.Run(context.Background(), args)

	// Assert
	require.ErrorIs(t, err, domain.ErrFindings)
	assert.Equal(t, 2, counters.Errors)
	assert.Equal(t, "\n a.jl:1\nerror: one\n\n b.jl:2\nerror: two\n\nJET: 2 errors\n", out.String())
}

func TestFilter_Run_OpenError(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	expectProject(mockFSAdapter, "/work/Proj")
	mockFSAdapter.EXPECT().Glob("src/*.jl").Return(nil, nil)
	mockFSAdapter.EXPECT().Open(m.Path("missing.log")).Return(nil, errors.New("no such file"))

	filter := domain.NewFilter(mockFSAdapter, controller.NewSimpleUI(&bytes.Buffer{}, false))

	args := filterArgs("", m.SingleSignal)
	args.Inputs = []m.Path{"missing.log"}

	// Act
	_, err := filter.Run(context.Background(), args)

	// Assert
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrFindings)
	assert.Contains(t, err.Error(), "missing.log")
}

func TestFilter_Run_PreloadError(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	mockFSAdapter.EXPECT().Getwd().Return("/work/Proj", nil)
	mockFSAdapter.EXPECT().Glob("src/*.jl").Return(nil, errors.New("bad pattern"))

	filter := domain.NewFilter(mockFSAdapter, controller.NewSimpleUI(&bytes.Buffer{}, false))

	// Act
	_, err := filter.Run(context.Background(), filterArgs("", m.SingleSignal))

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preload sources")
}

func TestFilter_Run_CancelledContext(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	expectProject(mockFSAdapter, "/work/Proj")
	mockFSAdapter.EXPECT().Glob("src/*.jl").Return(nil, nil)

	filter := domain.NewFilter(mockFSAdapter, controller.NewSimpleUI(&bytes.Buffer{}, false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := filter.Run(ctx, filterArgs("  file.jl:10\nerror: bad thing\n", m.SingleSignal))

	// Assert
	require.ErrorIs(t, err, context.Canceled)
}

func TestFilter_Run_IsIdempotent(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	expectProject(mockFSAdapter, "/work/Proj")
	mockFSAdapter.EXPECT().Glob("src/*.jl").Return([]m.Path{"src/a.jl"}, nil).Times(2)
	mockFSAdapter.EXPECT().ReadLines(m.Path("src/a.jl")).Return(m.SourceLines{
		"f() # NOJET",
		"g()",
		"h() # NOJET Other.jl/issues/7",
	}, nil).Times(2)
	mockFSAdapter.EXPECT().ReadLines(m.Path("gone.jl")).Return(nil, errors.New("no such file")).Times(2)

	stdin := strings.Join([]string{
		"[toplevel-info] analyzing",
		" src/a.jl:1",
		"error: silenced",
		" src/a.jl:2",
		"error: reported",
		" gone.jl:4",
		"error: unreadable",
		" gone.jl:5",
		"error: still unreadable",
		"",
	}, "\n")

	run := func() (string, m.Counters, error) {
		out := &bytes.Buffer{}
		filter := domain.NewFilter(mockFSAdapter, controller.NewSimpleUI(out, false))
		counters, err := filter.Run(context.Background(), filterArgs(stdin, m.SingleSignal))

		return out.String(), counters, err
	}

	// Act
	firstOut, firstCounters, firstErr := run()
	secondOut, secondCounters, secondErr := run()

	// Assert
	require.ErrorIs(t, firstErr, domain.ErrFindings)
	require.ErrorIs(t, secondErr, domain.ErrFindings)
	assert.Equal(t, m.Counters{Errors: 3, Skipped: 1, Unused: 1}, firstCounters)
	assert.Equal(t, firstCounters, secondCounters)
	assert.Equal(t, firstOut, secondOut)
	assert.Contains(t, firstOut, "src/a.jl:3: Unused NOJET directive")
}

// failingReader yields its content and then fails.
type failingReader struct {
	content *strings.Reader
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.content.Len() > 0 {
		return r.content.Read(p)
	}

	return 0, errors.New("boom")
}

func TestFilter_Run_ReadErrorKeepsRenderedGroups(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	expectProject(mockFSAdapter, "/work/Proj")
	mockFSAdapter.EXPECT().Glob("src/*.jl").Return(nil, nil)
	mockFSAdapter.EXPECT().ReadLines(mock.Anything).Return(nil, errors.New("not found"))

	out := &bytes.Buffer{}
	filter := domain.NewFilter(mockFSAdapter, controller.NewSimpleUI(out, false))

	args := filterArgs("", m.SingleSignal)
	args.Stdin = &failingReader{content: strings.NewReader("  x.jl:1\nerror: shown\n")}

	// Act
	counters, err := filter.Run(context.Background(), args)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, m.Counters{Errors: 1}, counters)
	assert.Equal(t, "\n  x.jl:1\nerror: shown\n", out.String())
}
