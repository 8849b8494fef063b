package blendbuild

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuilderFactory(t *testing.T) {
	factory := NewBuilderFactory()

	if len(factory.builders) != 2 {
		t.Errorf("Expected 2 builders, got %d", len(factory.builders))
	}

	testCases := []struct {
		family       Family
		expectedName string
	}{
		{FamilyPOSIX, "POSIX"},
		{FamilyMSVC, "MSVC"},
	}

	for _, tc := range testCases {
		t.Run(tc.family.String(), func(t *testing.T) {
			builder, err := factory.BuilderFor(tc.family)
			if err != nil {
				t.Fatalf("Expected builder for %s, got error: %v", tc.family, err)
			}

			if builder.Name() != tc.expectedName {
				t.Errorf("Expected builder %s for %s, got %s", tc.expectedName, tc.family, builder.Name())
			}
		})
	}

	_, err := factory.BuilderFor(FamilyUnknown)
	if err == nil {
		t.Fatal("Expected error for unknown toolchain family")
	}
	if !errors.Is(err, ErrToolchain) {
		t.Errorf("Expected ErrToolchain, got %v", err)
	}
}

func TestBuilderFactoryRegisterOrder(t *testing.T) {
	factory := &BuilderFactory{}
	first := &PosixBuilder{}
	factory.Register(first)
	factory.Register(&PosixBuilder{})

	builder, err := factory.BuilderFor(FamilyPOSIX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if builder != first {
		t.Error("Expected the first registered builder to win")
	}
}

func TestArtifactPaths(t *testing.T) {
	req := &CompileRequest{OutDir: "out", LibName: "blend2d"}

	if got := (&PosixBuilder{}).ArtifactPath(req); got != filepath.Join("out", "libblend2d.a") {
		t.Errorf("unexpected POSIX artifact path %q", got)
	}
	if got := (&MSVCBuilder{}).ArtifactPath(req); got != filepath.Join("out", "blend2d.lib") {
		t.Errorf("unexpected MSVC artifact path %q", got)
	}
}

// newCompileRequest lays out a small source tree and returns a request
// compiling it into a fresh output directory.
func newCompileRequest(t *testing.T, family Family, profile string) *CompileRequest {
	t.Helper()

	root := t.TempDir()
	sources := SourceSet{
		filepath.Join(root, "asmjit", "src", "core", "api.cpp"),
		filepath.Join(root, "blend2d", "src", "core", "api.cpp"),
		filepath.Join(root, "blend2d", "src", "pipeline", "pipedefs.cpp"),
	}
	for _, src := range sources {
		if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
			t.Fatalf("failed to create source dir: %v", err)
		}
		if err := os.WriteFile(src, []byte("int x;\n"), 0o644); err != nil {
			t.Fatalf("failed to write source: %v", err)
		}
	}

	tc := &Toolchain{Family: family, Compiler: "c++", Archiver: "ar"}
	if family == FamilyMSVC {
		tc.Compiler, tc.Archiver = "cl", "lib"
	}

	return &CompileRequest{
		Sources:   sources,
		Flags:     PlanFlags(PlanInput{Arch: "x86_64", Family: family, Profile: profile}),
		Toolchain: tc,
		OutDir:    filepath.Join(root, "out"),
		LibName:   "blend2d",
		Profile:   profile,
		Jobs:      2,
	}
}

func prepareOutDir(t *testing.T, req *CompileRequest) string {
	t.Helper()

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		t.Fatalf("failed to create out dir: %v", err)
	}
	logPath := filepath.Join(t.TempDir(), "helper.log")
	t.Setenv(helperLogEnv, logPath)
	return logPath
}

func TestPosixBuilderBuild(t *testing.T) {
	stubTools(t, 0)
	req := newCompileRequest(t, FamilyPOSIX, "release")
	req.Verbose = true
	logPath := prepareOutDir(t, req)

	builder := &PosixBuilder{}
	result, err := builder.Build(context.Background(), req)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if !result.Success {
		t.Error("Expected Success=true")
	}
	if result.Artifact != filepath.Join(req.OutDir, "libblend2d.a") {
		t.Errorf("unexpected artifact %q", result.Artifact)
	}
	if _, err := os.Stat(result.Artifact); err != nil {
		t.Errorf("expected artifact on disk: %v", err)
	}
	if len(result.Objects) != len(req.Sources) {
		t.Fatalf("expected %d objects, got %d", len(req.Sources), len(result.Objects))
	}

	// Two sources share the base name api.cpp.
	if result.Objects[0] == result.Objects[1] {
		t.Errorf("object names collide: %s", result.Objects[0])
	}

	invocations := helperInvocations(t, logPath)
	if len(invocations) != len(req.Sources)+1 {
		t.Fatalf("expected %d invocations, got %v", len(req.Sources)+1, invocations)
	}

	var compiles int
	for _, line := range invocations {
		switch {
		case strings.HasPrefix(line, "c++ "):
			compiles++
			for _, want := range []string{"-x c++", "-std=c++17", "-fPIC", "-O2", "-DNDEBUG", "-DASMJIT_STATIC", "-mavx2", "-fno-rtti"} {
				if !strings.Contains(line, want) {
					t.Errorf("compile command %q missing %q", line, want)
				}
			}
		case strings.HasPrefix(line, "ar crs "):
			if !strings.Contains(line, "libblend2d.a") {
				t.Errorf("archive command %q does not name the artifact", line)
			}
		default:
			t.Errorf("unexpected invocation %q", line)
		}
	}
	if compiles != len(req.Sources) {
		t.Errorf("expected %d compiles, got %d", len(req.Sources), compiles)
	}

	var running int
	for _, line := range result.Output {
		if strings.HasPrefix(line, "Running: ") {
			running++
		}
	}
	if running != len(req.Sources)+1 {
		t.Errorf("expected verbose command lines in output, got %v", result.Output)
	}
}

func TestPosixBuilderDebugProfile(t *testing.T) {
	stubTools(t, 0)
	req := newCompileRequest(t, FamilyPOSIX, "")
	req.Jobs = 1
	logPath := prepareOutDir(t, req)

	if _, err := (&PosixBuilder{}).Build(context.Background(), req); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	for _, line := range helperInvocations(t, logPath) {
		if !strings.HasPrefix(line, "c++ ") {
			continue
		}
		if !strings.Contains(line, "-O0 -g") {
			t.Errorf("expected debug codegen flags in %q", line)
		}
		if strings.Contains(line, "NDEBUG") {
			t.Errorf("debug build must not define NDEBUG: %q", line)
		}
	}
}

func TestPosixBuilderCompileFailure(t *testing.T) {
	stubTools(t, 0)
	req := newCompileRequest(t, FamilyPOSIX, "release")
	prepareOutDir(t, req)
	t.Setenv(helperFailEnv, "pipedefs.cpp")

	// A stale artifact from an earlier build must not survive a failure.
	artifact := (&PosixBuilder{}).ArtifactPath(req)
	if err := os.WriteFile(artifact, []byte("stale"), 0o644); err != nil {
		t.Fatalf("failed to write stale artifact: %v", err)
	}

	result, err := (&PosixBuilder{}).Build(context.Background(), req)
	if err == nil {
		t.Fatal("Expected compile failure")
	}
	if !errors.Is(err, ErrCompile) {
		t.Errorf("Expected ErrCompile, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipedefs.cpp") {
		t.Errorf("Expected failing source in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "simulated failure") {
		t.Errorf("Expected compiler output in error, got %v", err)
	}
	if result.Success || result.Error == nil {
		t.Error("Expected failed BuildResult")
	}
	if _, statErr := os.Stat(artifact); !os.IsNotExist(statErr) {
		t.Errorf("Expected no artifact after failure, stat err: %v", statErr)
	}
}

func TestPosixBuilderArchiverProducesNothing(t *testing.T) {
	stubTools(t, 0)
	req := newCompileRequest(t, FamilyPOSIX, "release")
	prepareOutDir(t, req)
	t.Setenv(helperNoWriteEnv, "1")

	_, err := (&PosixBuilder{}).Build(context.Background(), req)
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("Expected ErrCompile, got %v", err)
	}
}

func TestPosixBuilderArchiveFailure(t *testing.T) {
	stubTools(t, 0)
	req := newCompileRequest(t, FamilyPOSIX, "release")
	prepareOutDir(t, req)
	t.Setenv(helperFailEnv, "crs")

	_, err := (&PosixBuilder{}).Build(context.Background(), req)
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("Expected ErrCompile, got %v", err)
	}
	if !strings.Contains(err.Error(), "ar build failed") {
		t.Errorf("Expected archiver failure, got %v", err)
	}
}

func TestBuildWithoutSources(t *testing.T) {
	stubTools(t, 0)
	req := newCompileRequest(t, FamilyPOSIX, "release")
	req.Sources = nil
	prepareOutDir(t, req)

	_, err := (&PosixBuilder{}).Build(context.Background(), req)
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("Expected ErrCompile, got %v", err)
	}
}

func TestMSVCBuilderBuild(t *testing.T) {
	stubTools(t, 0)
	req := newCompileRequest(t, FamilyMSVC, "release")
	logPath := prepareOutDir(t, req)

	result, err := (&MSVCBuilder{}).Build(context.Background(), req)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if result.Artifact != filepath.Join(req.OutDir, "blend2d.lib") {
		t.Errorf("unexpected artifact %q", result.Artifact)
	}
	for _, obj := range result.Objects {
		if filepath.Ext(obj) != ".obj" {
			t.Errorf("expected .obj object, got %s", obj)
		}
	}

	for _, line := range helperInvocations(t, logPath) {
		switch {
		case strings.HasPrefix(line, "cl "):
			for _, want := range []string{"-nologo", "-std:c++latest", "-MD", "-O2", "/DASMJIT_STATIC", "/arch:AVX2", "-GR-", "-Fo"} {
				if !strings.Contains(line, want) {
					t.Errorf("compile command %q missing %q", line, want)
				}
			}
			if strings.Contains(line, "-fno-rtti") {
				t.Errorf("POSIX hardening flag leaked into %q", line)
			}
		case strings.HasPrefix(line, "lib "):
			if !strings.Contains(line, "-out:") {
				t.Errorf("archive command %q has no output", line)
			}
		default:
			t.Errorf("unexpected invocation %q", line)
		}
	}
}

func TestBuilderClean(t *testing.T) {
	stubTools(t, 0)
	req := newCompileRequest(t, FamilyPOSIX, "release")
	prepareOutDir(t, req)

	builder := &PosixBuilder{}
	if _, err := builder.Build(context.Background(), req); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if err := builder.Clean(context.Background(), req); err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if _, err := os.Stat(builder.ArtifactPath(req)); !os.IsNotExist(err) {
		t.Error("Expected artifact removed")
	}
	if _, err := os.Stat(filepath.Join(req.OutDir, "obj")); !os.IsNotExist(err) {
		t.Error("Expected object directory removed")
	}

	// Cleaning twice is not an error.
	if err := builder.Clean(context.Background(), req); err != nil {
		t.Errorf("second Clean returned error: %v", err)
	}
}

func TestObjectName(t *testing.T) {
	a := objectName(filepath.Join("blend2d", "src", "core", "api.cpp"), ".o")
	b := objectName(filepath.Join("asmjit", "src", "core", "api.cpp"), ".o")

	if a == b {
		t.Errorf("expected distinct object names, both %s", a)
	}
	if !strings.HasPrefix(a, "api-") || !strings.HasSuffix(a, ".o") {
		t.Errorf("unexpected object name %s", a)
	}
	if a != objectName(filepath.Join("blend2d", "src", "core", "api.cpp"), ".o") {
		t.Error("expected object names to be stable")
	}
}
