package blendbuild

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

// Family is the compiler capability family. Every flag decision branches on it.
type Family int

const (
	// FamilyUnknown is the zero value, used only before detection.
	FamilyUnknown Family = iota
	// FamilyPOSIX covers GCC, Clang and other compilers with GNU-style options.
	FamilyPOSIX
	// FamilyMSVC covers cl.exe and clang-cl.
	FamilyMSVC
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case FamilyPOSIX:
		return "posix"
	case FamilyMSVC:
		return "msvc"
	default:
		return "unknown"
	}
}

// Toolchain is the resolved compiler and archiver for one build.
type Toolchain struct {
	Family   Family
	Compiler string // Absolute path of the C++ compiler
	Archiver string // Absolute path of the static library archiver
}

// msvcCompilerPatterns match compiler base names with MSVC-style command lines.
var msvcCompilerPatterns = []string{`(?i)^cl(\.exe)?$`, `(?i)^clang-cl(\.exe)?$`}

// ResolveToolchain resolves the compiler and archiver for cfg and classifies
// the compiler into exactly one Family.
//
// # Resolution
//
//   - Compiler: cfg.CXX, else "cl" for msvc targets, else "c++"
//   - Family: cfg.ToolchainOverride when set, else detected from the compiler name
//   - Archiver: cfg.AR, else "lib" (alternative "llvm-lib") for MSVC and
//     "ar" (alternative "llvm-ar") for POSIX
//
// # Errors
//
// Returns an error wrapping ErrToolchain if the compiler or archiver cannot
// be found in PATH. A build cannot proceed without its toolchain family.
func ResolveToolchain(cfg *Config) (*Toolchain, error) {
	compiler := compilerName(cfg)
	family := DetectFamily(cfg)

	requirements := []ToolRequirement{
		{Name: compiler, Purpose: "C++ compiler"},
		archiverRequirement(cfg, family),
	}
	if err := CheckRequiredTools(requirements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolchain, err)
	}

	compilerPath, err := resolveTool(requirements[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolchain, err)
	}
	archiverPath, err := resolveTool(requirements[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrToolchain, err)
	}

	return &Toolchain{
		Family:   family,
		Compiler: compilerPath,
		Archiver: archiverPath,
	}, nil
}

// ClassifyCompiler returns the family of a compiler from its executable name.
func ClassifyCompiler(compiler string) Family {
	if MatchesPattern(filepath.Base(compiler), msvcCompilerPatterns...) {
		return FamilyMSVC
	}
	return FamilyPOSIX
}

// CompilerVersion returns the first line the compiler prints about itself.
// It is informational only; MSVC prints its banner on stderr when run bare.
func CompilerVersion(_ context.Context, tc *Toolchain) string {
	var out string
	var err error
	if tc.Family == FamilyMSVC {
		out, err = sh.Output(tc.Compiler, "-nologo", "-?")
	} else {
		out, err = sh.Output(tc.Compiler, "--version")
	}
	if err != nil && out == "" {
		return ""
	}
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(line)
}

// DetectFamily returns the toolchain family cfg selects without resolving
// any executable: the override when set, else the family of the configured
// or default compiler name.
func DetectFamily(cfg *Config) Family {
	if cfg.ToolchainOverride != FamilyUnknown {
		return cfg.ToolchainOverride
	}
	return ClassifyCompiler(compilerName(cfg))
}

func compilerName(cfg *Config) string {
	if cfg.CXX != "" {
		return cfg.CXX
	}
	return defaultCompiler(cfg)
}

func defaultCompiler(cfg *Config) string {
	if cfg.ToolchainOverride == FamilyMSVC || (cfg.ToolchainOverride == FamilyUnknown && cfg.TargetEnv == "msvc") {
		return "cl"
	}
	return "c++"
}

func archiverRequirement(cfg *Config, family Family) ToolRequirement {
	if cfg.AR != "" {
		return ToolRequirement{Name: cfg.AR, Purpose: "static library archiver"}
	}
	if family == FamilyMSVC {
		return ToolRequirement{Name: "lib", Alternatives: []string{"llvm-lib"}, Purpose: "static library archiver"}
	}
	return ToolRequirement{Name: "ar", Alternatives: []string{"llvm-ar"}, Purpose: "static library archiver"}
}

// resolveTool returns the path of the first available tool of req.
func resolveTool(req ToolRequirement) (string, error) {
	for _, name := range append([]string{req.Name}, req.Alternatives...) {
		if path, err := execLookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s not found in PATH", req.Name)
}
