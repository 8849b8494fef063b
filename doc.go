// Package blendbuild compiles the Blend2D 2D rendering engine and its bundled
// AsmJit assembler into one static library for the host or a cross target.
//
// It discovers the C++ sources of both codebases, classifies the compiler
// into a toolchain family, derives the compiler flags from the target's
// SIMD feature ladder, compiles and archives the sources, and reports the
// system libraries the artifact must be linked against. Foreign-function
// bindings are generated from the public header through an external tool.
//
// # Basic Usage
//
// Capture the configuration once and run the pipeline:
//
//	cfg, err := blendbuild.LoadConfig(os.LookupEnv)
//	if err != nil {
//	    return err
//	}
//
//	session := blendbuild.NewSession(cfg, nil)
//	outcome, err := session.Build(ctx, blendbuild.Options{})
//	if err != nil {
//	    os.Exit(blendbuild.Classify(err).ExitCode())
//	}
//	fmt.Println(strings.Join(outcome.Link.Directives(), "\n"))
//
// # Architecture
//
//	Session
//	├── DiscoverSources (blend2d/src, asmjit/src)
//	├── ResolveToolchain (Family: POSIX or MSVC)
//	├── PlanFlags (feature ladder + profile + family)
//	├── BuilderFactory
//	│   ├── PosixBuilder (c++ / ar)
//	│   └── MSVCBuilder (cl / lib)
//	├── LinkPlanFor (target OS)
//	└── BindingGenerator
//	    ├── BindgenGenerator (bindgen)
//	    └── CForGoGenerator (c-for-go)
//
// # Feature Ladder
//
// Each architecture maps to an ordered list of instruction-set tiers. POSIX
// compilers receive every tier's flags cumulatively. MSVC receives a single
// /arch floor plus the compatibility macros its front end does not define.
// The widest x86 tier (AVX512) is withheld unless explicitly enabled.
//
// # Configuration
//
// All input comes from environment variables read once by LoadConfig. See the
// Env constants for the full list. Nothing re-reads the environment later.
//
// # Errors
//
// Every fatal error wraps one of ErrConfig, ErrDiscovery, ErrToolchain,
// ErrCompile or ErrBindings. A failed build never leaves a partial library.
// Unknown architectures and operating systems are not errors: they build
// without SIMD flags or system link libraries.
package blendbuild
