package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	blendbuild "github.com/contriboss/blend2d-build"
)

func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	orig := lookupEnv
	t.Cleanup(func() { lookupEnv = orig })
	lookupEnv = func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestRunFlags(t *testing.T) {
	withEnv(t, map[string]string{
		blendbuild.EnvTargetArch: "riscv64",
		blendbuild.EnvToolchain:  "msvc",
		blendbuild.EnvProfile:    "debug",
		blendbuild.EnvSourceDir:  "vendor",
	})

	var stdout, stderr bytes.Buffer
	code := run([]string{"flags"}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	assert.Equal(t, "define ASMJIT_STATIC", lines[0])
	vendor, err := filepath.Abs("vendor")
	assert.NoError(t, err)
	assert.Contains(t, lines, "include "+filepath.Join(vendor, "blend2d", "src"))
	assert.Contains(t, lines, "flag -Zc:__cplusplus")
	assert.NotContains(t, stdout.String(), "NDEBUG")
}

func TestRunLink(t *testing.T) {
	withEnv(t, map[string]string{blendbuild.EnvTargetOS: "windows"})

	var stdout, stderr bytes.Buffer
	code := run([]string{"link"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "link-lib=user32\nlink-lib=uuid\nlink-lib=shell32\n", stdout.String())
}

func TestRunLinkUnknownOS(t *testing.T) {
	withEnv(t, map[string]string{blendbuild.EnvTargetOS: "haiku"})

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"link"}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestRunExitCodes(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		env  map[string]string
		code int
	}{
		{"unknown command", []string{"install"}, nil, 2},
		{"bad flag", []string{"build", "-nope"}, nil, 2},
		{"config error", []string{"flags"}, map[string]string{blendbuild.EnvJobs: "lots"}, 2},
		{"discovery error", []string{"build"}, map[string]string{blendbuild.EnvSourceDir: filepath.Join(t.TempDir(), "missing")}, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			withEnv(t, tc.env)

			var stdout, stderr bytes.Buffer
			assert.Equal(t, tc.code, run(tc.args, &stdout, &stderr))
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRunClean(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	withEnv(t, map[string]string{blendbuild.EnvOutDir: out})

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"clean"}, &stdout, &stderr), stderr.String())
	assert.NoDirExists(t, out)
}
