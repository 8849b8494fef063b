package blendbuild

import "context"

// BuildResult contains the output and status of a compilation.
//
// After a build completes, this structure provides:
//   - Success status indicating if the build completed without errors
//   - Output lines captured from the compiler and archiver (stdout/stderr)
//   - Artifact path of the static library
//   - Objects compiled into the artifact
//   - Error information if the build failed
type BuildResult struct {
	Success  bool     // True if build completed successfully
	Output   []string // Lines of output from the compiler and archiver
	Artifact string   // Path to the static library
	Objects  []string // Object files archived into the library
	Error    error    // Error if build failed, nil otherwise
}

// CompileRequest contains everything a Builder needs for one compilation.
//
// Inputs:
//   - Sources: the discovered SourceSet
//   - Flags: the planned FlagSet
//   - Toolchain: the resolved compiler and archiver
//
// Output placement:
//   - OutDir: build-scoped directory receiving the artifact
//   - LibName: library base name; builders derive the file name from it
//
// Build behavior:
//   - Profile: build profile, selects optimisation and debug info
//   - Jobs: maximum concurrent compiler processes (0 or 1 = serial)
//   - Env: extra environment variables for compiler processes
//   - Verbose: record the command lines in Output
type CompileRequest struct {
	Sources   SourceSet
	Flags     FlagSet
	Toolchain *Toolchain

	OutDir  string
	LibName string

	Profile string
	Jobs    int
	Env     map[string]string
	Verbose bool
}

// debug reports whether the request uses the debug profile.
func (r *CompileRequest) debug() bool {
	return isDebugProfile(r.Profile)
}

// CommonBuildSteps defines the standard build pattern shared by builders.
//
// Every static-library build follows the same pattern:
//  1. Prepare: create the object directory
//  2. Compile: turn every source into an object file
//  3. Archive: bundle the objects into the static library
//
// Builders customise each step for their toolchain family.
type CommonBuildSteps struct {
	// PrepareFunc creates the object directory and returns its path
	PrepareFunc func(req *CompileRequest) (string, error)

	// CompileFunc compiles every source into objDir and returns the object paths
	CompileFunc func(ctx context.Context, req *CompileRequest, objDir string, result *BuildResult) ([]string, error)

	// ArchiveFunc writes the static library and returns its path
	ArchiveFunc func(ctx context.Context, req *CompileRequest, objects []string, result *BuildResult) (string, error)
}
