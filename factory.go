package blendbuild

import (
	"fmt"
)

// BuilderFactory manages the registration and selection of builders.
//
// The factory maintains a registry of Builder implementations and provides
// methods to:
//   - Register new builders
//   - Find the builder for a toolchain family
//
// # Usage
//
// Create a factory with the standard builders:
//
//	factory := blendbuild.NewBuilderFactory()
//	builder, err := factory.BuilderFor(toolchain.Family)
//
// # Builder Selection
//
// BuilderFor calls CanBuild() on each registered builder in order and
// returns the first one that accepts the family.
//
// # Thread Safety
//
// BuilderFactory is NOT thread-safe for registration.
// Register all builders before use.
type BuilderFactory struct {
	builders []Builder
}

// NewBuilderFactory creates a factory with the standard builders registered:
//  1. PosixBuilder - GCC/Clang style compilers with ar
//  2. MSVCBuilder - cl/clang-cl with lib
func NewBuilderFactory() *BuilderFactory {
	factory := &BuilderFactory{}

	factory.Register(&PosixBuilder{})
	factory.Register(&MSVCBuilder{})

	return factory
}

// Register adds a new builder to the factory.
//
// Builders are checked in the order they are registered.
func (f *BuilderFactory) Register(builder Builder) {
	f.builders = append(f.builders, builder)
}

// BuilderFor returns the first builder accepting family.
func (f *BuilderFactory) BuilderFor(family Family) (Builder, error) {
	for _, builder := range f.builders {
		if builder.CanBuild(family) {
			return builder, nil
		}
	}

	return nil, fmt.Errorf("%w: no builder for toolchain family %s", ErrToolchain, family)
}
