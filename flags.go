package blendbuild

import (
	"strings"
)

// Defines emitted independently of architecture and toolchain.
const (
	// StaticAsmJitDefine declares the bundled assembler/JIT as statically linked.
	StaticAsmJitDefine = "ASMJIT_STATIC"

	// ProductionDefine is set for every profile other than debug.
	ProductionDefine = "NDEBUG"
)

// Hardening and portability flags. The two sets are disjoint and never
// emitted together.
var (
	msvcHardeningFlags = []string{
		"-MP",
		"-GR-",
		"-GF",
		"-Zc:__cplusplus",
		"-Zc:inline",
		"-Zc:strictStrings",
		"-Zc:threadSafeInit-",
	}

	posixHardeningFlags = []string{
		"-fvisibility=hidden",
		"-fno-exceptions",
		"-fno-rtti",
		"-fno-math-errno",
		"-fno-semantic-interposition",
		"-fno-threadsafe-statics",
		"-fmerge-all-constants",
		"-ftree-vectorize",
	}
)

// FlagSet is the complete derived compiler configuration for one build.
type FlagSet struct {
	Defines  []string // Preprocessor macros, without -D
	Flags    []string // Compiler flags in family syntax
	Includes []string // Include directories, without -I
}

// PlanInput holds everything the flag plan depends on.
type PlanInput struct {
	Arch           string
	Family         Family
	Profile        string
	EnableWithheld bool     // Include tiers marked Withheld
	Includes       []string // Include directories
	Defines        []string // Extra defines appended after ASMJIT_STATIC
}

// PlanFlags composes the toolchain family, the architecture feature ladder and
// the build profile into one FlagSet.
//
// # Plan Order
//
//  1. ASMJIT_STATIC, then in.Defines
//  2. Each enabled tier's announcement define, for every family
//  3. NDEBUG unless the profile is debug or unset
//  4. Per-tier flags of the family (see tierFlags)
//  5. The family's hardening flags (see hardeningFlags)
//
// Architectures without a ladder contribute no defines or flags. The result
// depends only on in, so identical inputs produce identical FlagSets.
func PlanFlags(in PlanInput) FlagSet {
	fs := FlagSet{
		Defines:  []string{StaticAsmJitDefine},
		Includes: append([]string{}, in.Includes...),
	}
	fs.Defines = append(fs.Defines, in.Defines...)

	ladder, _ := LadderFor(in.Arch)
	tiers := ladder.Enabled(in.EnableWithheld)

	for _, tier := range tiers {
		if tier.Define != "" {
			fs.Defines = append(fs.Defines, tier.Define)
		}
	}

	if !isDebugProfile(in.Profile) {
		fs.Defines = append(fs.Defines, ProductionDefine)
	}

	fs.Flags = append(fs.Flags, tierFlags(in.Family, tiers)...)
	fs.Flags = append(fs.Flags, hardeningFlags(in.Family)...)

	return fs
}

// isDebugProfile reports whether profile builds without the production
// define. An empty profile counts as debug.
func isDebugProfile(profile string) bool {
	return profile == "" || profile == DebugProfile
}

// PlanFor builds the PlanInput of cfg for toolchain family and plans it.
func PlanFor(cfg *Config, family Family) FlagSet {
	return PlanFlags(PlanInput{
		Arch:           cfg.TargetArch,
		Family:         family,
		Profile:        cfg.Profile,
		EnableWithheld: cfg.EnableAVX512,
		Includes:       cfg.SourceRoots(),
	})
}

// tierFlags emits the per-tier flags of family.
//
// POSIX-like compilers receive every flag of every tier, cumulatively.
// MSVC-like compilers receive each tier's compatibility defines and a single
// instruction-set floor taken from the highest tier that carries one.
func tierFlags(family Family, tiers Ladder) []string {
	var flags []string

	switch family {
	case FamilyPOSIX:
		for _, tier := range tiers {
			flags = append(flags, tier.PosixFlags...)
		}
	case FamilyMSVC:
		var floor string
		for _, tier := range tiers {
			for _, define := range tier.MSVCDefines {
				flags = append(flags, "-D"+define)
			}
			if tier.MSVCFlag != "" {
				floor = tier.MSVCFlag
			}
		}
		if floor != "" {
			flags = append(flags, floor)
		}
	}

	return flags
}

// hardeningFlags returns the fixed hardening/portability set of family.
func hardeningFlags(family Family) []string {
	switch family {
	case FamilyMSVC:
		return append([]string{}, msvcHardeningFlags...)
	case FamilyPOSIX:
		return append([]string{}, posixHardeningFlags...)
	default:
		return nil
	}
}

// Args renders the FlagSet as compiler arguments: defines, includes, flags.
func (fs FlagSet) Args(family Family) []string {
	defPrefix, incPrefix := "-D", "-I"
	if family == FamilyMSVC {
		defPrefix, incPrefix = "/D", "/I"
	}

	args := make([]string, 0, len(fs.Defines)+len(fs.Includes)+len(fs.Flags))
	for _, define := range fs.Defines {
		args = append(args, defPrefix+define)
	}
	for _, include := range fs.Includes {
		args = append(args, incPrefix+include)
	}
	return append(args, fs.Flags...)
}

// HasDefine reports whether name is among the defines.
func (fs FlagSet) HasDefine(name string) bool {
	for _, define := range fs.Defines {
		if define == name {
			return true
		}
	}
	return false
}

// String renders the FlagSet one entry per line, for display and hashing.
func (fs FlagSet) String() string {
	var b strings.Builder
	for _, define := range fs.Defines {
		b.WriteString("define " + define + "\n")
	}
	for _, include := range fs.Includes {
		b.WriteString("include " + include + "\n")
	}
	for _, flag := range fs.Flags {
		b.WriteString("flag " + flag + "\n")
	}
	return b.String()
}
