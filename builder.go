package blendbuild

import "context"

// Builder defines the interface that compiles a SourceSet into a static library.
//
// Each builder drives one toolchain family's compiler and archiver and
// must implement these five methods to integrate with the BuilderFactory.
//
// # Builder Lifecycle
//
//  1. CanBuild() - Factory calls this to find the builder for a toolchain family
//  2. Build() - Session calls this once per build to produce the artifact
//  3. Clean() - Optional removal of objects and the artifact
//
// # Example Implementation
//
//	type ZigBuilder struct{}
//
//	func (b *ZigBuilder) Name() string {
//	    return "Zig"
//	}
//
//	func (b *ZigBuilder) CanBuild(family Family) bool {
//	    return family == FamilyPOSIX
//	}
//
//	func (b *ZigBuilder) ArtifactPath(req *CompileRequest) string {
//	    return filepath.Join(req.OutDir, "lib"+req.LibName+".a")
//	}
//
//	func (b *ZigBuilder) Build(ctx context.Context, req *CompileRequest) (*BuildResult, error) {
//	    result := &BuildResult{Success: true}
//	    // ... build logic ...
//	    return result, nil
//	}
//
//	func (b *ZigBuilder) Clean(ctx context.Context, req *CompileRequest) error {
//	    return nil
//	}
//
// # Thread Safety
//
// Builder implementations are stateless. A builder never runs two builds of
// the same artifact concurrently.
type Builder interface {
	// Name returns the human-readable name of this builder.
	//
	// This name is used in error messages and logs.
	Name() string

	// CanBuild reports whether this builder drives compilers of family.
	CanBuild(family Family) bool

	// ArtifactPath returns where Build writes the static library of req.
	ArtifactPath(req *CompileRequest) string

	// Build compiles req.Sources under req.Flags into exactly one static
	// library in req.OutDir.
	//
	// Returns:
	//   - BuildResult with Success=true and Artifact set on success
	//   - BuildResult with Success=false and Error on failure; no artifact
	//     is left behind
	Build(ctx context.Context, req *CompileRequest) (*BuildResult, error)

	// Clean removes the objects and the artifact of req.
	//
	// Returns nil if there is nothing to clean.
	Clean(ctx context.Context, req *CompileRequest) error
}
