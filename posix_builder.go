package blendbuild

import (
	"context"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

// PosixBuilder compiles with GCC/Clang style drivers and archives with ar.
//
// Compile command per source:
//
//	c++ -x c++ -std=c++17 -fPIC -O2 -c <defines> <includes> <flags> src.cpp -o obj/src-<hash>.o
//
// Archive command:
//
//	ar crs libblend2d.a obj/*.o
type PosixBuilder struct{}

// Name returns the builder name
func (b *PosixBuilder) Name() string {
	return "POSIX"
}

// CanBuild checks if this builder drives compilers of family
func (b *PosixBuilder) CanBuild(family Family) bool {
	return family == FamilyPOSIX
}

// Build compiles the sources and archives them into lib<LibName>.a
func (b *PosixBuilder) Build(ctx context.Context, req *CompileRequest) (*BuildResult, error) {
	return runCommonBuild(ctx, req, b.ArtifactPath(req), CommonBuildSteps{
		PrepareFunc: prepareObjectDir,
		CompileFunc: b.compile,
		ArchiveFunc: b.archive,
	})
}

// Clean removes the object directory and the artifact
func (b *PosixBuilder) Clean(_ context.Context, req *CompileRequest) error {
	if err := sh.Rm(filepath.Join(req.OutDir, "obj")); err != nil {
		return err
	}
	return sh.Rm(b.ArtifactPath(req))
}

// compile runs the compiler once per source
func (b *PosixBuilder) compile(ctx context.Context, req *CompileRequest, objDir string, result *BuildResult) ([]string, error) {
	base := []string{"-x", "c++", "-std=c++17", "-fPIC"}
	if req.debug() {
		base = append(base, "-O0", "-g")
	} else {
		base = append(base, "-O2")
	}
	base = append(base, "-c")
	base = append(base, req.Flags.Args(FamilyPOSIX)...)

	return compileObjects(ctx, b.Name(), req, objDir, ".o", func(src, obj string) []string {
		args := append([]string{}, base...)
		return append(args, src, "-o", obj)
	}, result)
}

// archive bundles the objects with ar
func (b *PosixBuilder) archive(ctx context.Context, req *CompileRequest, objects []string, result *BuildResult) (string, error) {
	artifact := b.ArtifactPath(req)
	args := append([]string{"crs", artifact}, objects...)

	lines, err := runTool(ctx, req, req.Toolchain.Archiver, args)
	result.Output = append(result.Output, lines...)
	if err != nil {
		return "", compileError(BuildError("ar", lines, err))
	}
	return artifact, nil
}

// ArtifactPath returns <OutDir>/lib<LibName>.a
func (b *PosixBuilder) ArtifactPath(req *CompileRequest) string {
	return filepath.Join(req.OutDir, "lib"+req.LibName+".a")
}
