package domain_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adaptermocks "jetdeps.dev/pkg/jetdeps/internal/adapter/mocks"
	"jetdeps.dev/pkg/jetdeps/internal/domain"
	m "jetdeps.dev/pkg/jetdeps/internal/model"
)

func TestLineCache_LoadAndConsume(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	mockFSAdapter.EXPECT().ReadLines(m.Path("a.jl")).Return(m.SourceLines{"x = 1", "y = 2 # NOJET"}, nil).Once()

	cache := domain.NewLineCache(mockFSAdapter)

	// Act
	require.True(t, cache.Load("a.jl"))
	require.True(t, cache.Load("a.jl"))
	text, ok := cache.Consume("a.jl", 2)

	// Assert
	assert.True(t, ok)
	assert.Equal(t, "y = 2 # NOJET", text)
	assert.Equal(t, []string{"x = 1", ""}, cache.Unused("a.jl"))
	assert.Equal(t, []m.Path{"a.jl"}, cache.Paths())

	_, ok = cache.Consume("a.jl", 3)
	assert.False(t, ok)
	_, ok = cache.Consume("a.jl", 0)
	assert.False(t, ok)
}

func TestLineCache_FailedLoadIsNotRetried(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	mockFSAdapter.EXPECT().ReadLines(m.Path("missing.jl")).Return(nil, errors.New("no such file")).Once()

	cache := domain.NewLineCache(mockFSAdapter)

	// Act & Assert
	assert.False(t, cache.Load("missing.jl"))
	assert.False(t, cache.Load("missing.jl"))
	assert.Empty(t, cache.Paths())
}

func TestResolver_IsSuppressed(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	mockFSAdapter.EXPECT().ReadLines(m.Path("src/a.jl")).Return(m.SourceLines{
		"function f()",
		"    g() # NOJET",
		"end",
	}, nil).Once()

	cache := domain.NewLineCache(mockFSAdapter)
	resolver := domain.NewResolver(mockFSAdapter, cache, "NOJET", "")

	// Act & Assert
	assert.False(t, resolver.IsSuppressed("src/a.jl", 1))
	assert.True(t, resolver.IsSuppressed("./src/a.jl", 2))
	assert.False(t, resolver.IsSuppressed("src/a.jl", 99))
	assert.Equal(t, []string{"", "", "end"}, cache.Unused("src/a.jl"))
}

func TestResolver_UnreadableFileIsNeverSuppressed(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	mockFSAdapter.EXPECT().ReadLines(m.Path("gone.jl")).Return(nil, errors.New("permission denied")).Once()

	resolver := domain.NewResolver(mockFSAdapter, domain.NewLineCache(mockFSAdapter), "NOJET", "")

	// Act & Assert
	assert.False(t, resolver.IsSuppressed("gone.jl", 1))
	assert.False(t, resolver.IsSuppressed("gone.jl", 2))
}

func TestResolver_MakesPathsRelativeToWorkingDirectory(t *testing.T) {
	// Arrange
	wd := m.Path(filepath.FromSlash("/work/Proj"))
	abs := m.Path(filepath.FromSlash("/work/Proj/src/a.jl"))
	rel := m.Path(filepath.FromSlash("src/a.jl"))

	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	mockFSAdapter.EXPECT().RelPath(wd, abs).Return(rel, nil).Times(2)
	mockFSAdapter.EXPECT().ReadLines(rel).Return(m.SourceLines{"x # NOJET"}, nil).Once()

	cache := domain.NewLineCache(mockFSAdapter)
	resolver := domain.NewResolver(mockFSAdapter, cache, "NOJET", wd)

	// Act & Assert
	assert.True(t, resolver.IsSuppressed(abs, 1))
	assert.True(t, resolver.IsSuppressed(rel, 1))
	assert.Equal(t, []m.Path{rel}, cache.Paths())
}

func TestSweepUnused(t *testing.T) {
	// Arrange
	mockFSAdapter := adaptermocks.NewMockSourceFSAdapter(t)
	mockFSAdapter.EXPECT().ReadLines(m.Path("src/a.jl")).Return(m.SourceLines{
		"f() # NOJET Other.jl/issues/1",
		"g() # NOJET",
		"h() # NOJET Other.jl/issues/2",
	}, nil)
	mockFSAdapter.EXPECT().ReadLines(m.Path("src/b.jl")).Return(m.SourceLines{
		"k() # NOJET Dep.jl/src/k.jl",
	}, nil)

	cache := domain.NewLineCache(mockFSAdapter)
	require.True(t, cache.Load("src/a.jl"))
	require.True(t, cache.Load("src/b.jl"))
	_, ok := cache.Consume("src/a.jl", 3)
	require.True(t, ok)

	// Act
	unused := domain.SweepUnused(cache, "NOJET", ".jl/")

	// Assert
	assert.Equal(t, []m.UnusedDirective{
		{Path: "src/a.jl", Line: 1},
		{Path: "src/b.jl", Line: 1},
	}, unused)
	assert.Empty(t, domain.SweepUnused(cache, "", ".jl/"))
}
