package blendbuild

import (
	"context"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

// MSVCBuilder compiles with cl or clang-cl and archives with lib.
//
// Compile command per source:
//
//	cl -nologo -std:c++latest -MD -O2 -c <defines> <includes> <flags> -Foobj\src-<hash>.obj src.cpp
//
// Archive command:
//
//	lib -nologo -out:blend2d.lib obj\*.obj
type MSVCBuilder struct{}

// Name returns the builder name
func (b *MSVCBuilder) Name() string {
	return "MSVC"
}

// CanBuild checks if this builder drives compilers of family
func (b *MSVCBuilder) CanBuild(family Family) bool {
	return family == FamilyMSVC
}

// Build compiles the sources and archives them into <LibName>.lib
func (b *MSVCBuilder) Build(ctx context.Context, req *CompileRequest) (*BuildResult, error) {
	return runCommonBuild(ctx, req, b.ArtifactPath(req), CommonBuildSteps{
		PrepareFunc: prepareObjectDir,
		CompileFunc: b.compile,
		ArchiveFunc: b.archive,
	})
}

// Clean removes the object directory and the artifact
func (b *MSVCBuilder) Clean(_ context.Context, req *CompileRequest) error {
	if err := sh.Rm(filepath.Join(req.OutDir, "obj")); err != nil {
		return err
	}
	return sh.Rm(b.ArtifactPath(req))
}

// compile runs cl once per source
func (b *MSVCBuilder) compile(ctx context.Context, req *CompileRequest, objDir string, result *BuildResult) ([]string, error) {
	base := []string{"-nologo", "-std:c++latest", "-MD"}
	if req.debug() {
		base = append(base, "-Od", "-Z7")
	} else {
		base = append(base, "-O2")
	}
	base = append(base, "-c")
	base = append(base, req.Flags.Args(FamilyMSVC)...)

	return compileObjects(ctx, b.Name(), req, objDir, ".obj", func(src, obj string) []string {
		args := append([]string{}, base...)
		return append(args, "-Fo"+obj, src)
	}, result)
}

// archive bundles the objects with lib
func (b *MSVCBuilder) archive(ctx context.Context, req *CompileRequest, objects []string, result *BuildResult) (string, error) {
	artifact := b.ArtifactPath(req)
	args := append([]string{"-nologo", "-out:" + artifact}, objects...)

	lines, err := runTool(ctx, req, req.Toolchain.Archiver, args)
	result.Output = append(result.Output, lines...)
	if err != nil {
		return "", compileError(BuildError("lib", lines, err))
	}
	return artifact, nil
}

// ArtifactPath returns <OutDir>/<LibName>.lib
func (b *MSVCBuilder) ArtifactPath(req *CompileRequest) string {
	return filepath.Join(req.OutDir, req.LibName+".lib")
}
