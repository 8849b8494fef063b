package blendbuild

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, file := range files {
		path := filepath.Join(root, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("// source\n"), 0o644))
	}
}

func TestDiscoverSources(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"blend2d/src/blend2d/core/api-core.cpp",
		"blend2d/src/blend2d/core/api.h",
		"blend2d/src/blend2d/pipeline/jit/pipecompiler.cpp",
		"blend2d/src/blend2d/UPPER.CPP",
		"blend2d/src/blend2d.h",
		"asmjit/src/asmjit/core/api.cpp",
		"asmjit/src/asmjit/x86/x86assembler.cpp",
		"asmjit/src/asmjit/README.md",
	)
	// A directory whose name looks like a source must be recursed, not selected.
	writeTree(t, root, "blend2d/src/odd.cpp/inner.cpp")

	roots := []string{
		filepath.Join(root, "blend2d", "src"),
		filepath.Join(root, "asmjit", "src"),
	}
	sources, err := DiscoverSources(roots)
	require.NoError(t, err)

	expected := SourceSet{
		filepath.Join(root, "asmjit", "src", "asmjit", "core", "api.cpp"),
		filepath.Join(root, "asmjit", "src", "asmjit", "x86", "x86assembler.cpp"),
		filepath.Join(root, "blend2d", "src", "blend2d", "UPPER.CPP"),
		filepath.Join(root, "blend2d", "src", "blend2d", "core", "api-core.cpp"),
		filepath.Join(root, "blend2d", "src", "blend2d", "pipeline", "jit", "pipecompiler.cpp"),
		filepath.Join(root, "blend2d", "src", "odd.cpp", "inner.cpp"),
	}
	assert.Equal(t, expected, sources)
}

func TestDiscoverSourcesDeduplicatesOverlappingRoots(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.cpp", "src/nested/b.cpp")

	sources, err := DiscoverSources([]string{
		filepath.Join(root, "src"),
		filepath.Join(root, "src", "nested"),
	})
	require.NoError(t, err)
	assert.Len(t, sources, 2)
}

func TestDiscoverSourcesCustomExtensions(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.cpp", "b.cc", "c.c")

	sources, err := DiscoverSources([]string{root}, ".cc", ".c")
	require.NoError(t, err)
	assert.Equal(t, SourceSet{filepath.Join(root, "b.cc"), filepath.Join(root, "c.c")}, sources)
}

func TestDiscoverSourcesEmptyRoot(t *testing.T) {
	sources, err := DiscoverSources([]string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, sources)
	assert.NotNil(t, sources)
}

func TestDiscoverSourcesMissingRoot(t *testing.T) {
	sources, err := DiscoverSources([]string{filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, ErrDiscovery)
	assert.Nil(t, sources)
	assert.Equal(t, KindDiscovery, Classify(err))
}

func TestDiscoverSourcesRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "file.cpp")

	_, err := DiscoverSources([]string{filepath.Join(root, "file.cpp")})
	assert.ErrorIs(t, err, ErrDiscovery)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestDiscoverSourcesUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	root := t.TempDir()
	writeTree(t, root, "a.cpp", "locked/b.cpp")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	sources, err := DiscoverSources([]string{root})
	assert.ErrorIs(t, err, ErrDiscovery)
	assert.Nil(t, sources)
}
