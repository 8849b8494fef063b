package blendbuild

// FeatureTier is one step of an architecture's SIMD capability ladder.
type FeatureTier struct {
	// Name identifies the tier (SSE2, AVX2, NEON, ...).
	Name string

	// Define announces the tier to the compiled sources. It is emitted for
	// every toolchain family. Empty when the tier has no announcement macro.
	Define string

	// PosixFlags are appended for POSIX-like compilers. Tiers compose
	// additively, so a flag may repeat one emitted by an earlier tier.
	PosixFlags []string

	// MSVCFlag is the instruction-set floor (/arch:...) for MSVC-like
	// compilers. Only the highest enabled tier's flag is passed.
	MSVCFlag string

	// MSVCDefines are macros MSVC does not predefine for the tier; they are
	// passed as -D flags to MSVC-like compilers only.
	MSVCDefines []string

	// Withheld keeps the tier out of the plan unless explicitly enabled.
	Withheld bool
}

// Ladder is an ordered list of tiers, weakest first.
type Ladder []FeatureTier

// Enabled returns the tiers that take part in a plan, preserving order.
// Withheld tiers are included only when includeWithheld is true.
func (l Ladder) Enabled(includeWithheld bool) Ladder {
	var tiers Ladder
	for _, tier := range l {
		if tier.Withheld && !includeWithheld {
			continue
		}
		tiers = append(tiers, tier)
	}
	return tiers
}

// x86Ladder is shared by x86_64 and i686.
var x86Ladder = Ladder{
	{Name: "SSE2", Define: "BL_BUILD_OPT_SSE2", PosixFlags: []string{"-msse2"}, MSVCFlag: "/arch:SSE2"},
	{Name: "SSE3", Define: "BL_BUILD_OPT_SSE3", PosixFlags: []string{"-msse3"}, MSVCDefines: []string{"__SSE3__"}},
	{Name: "SSSE3", Define: "BL_BUILD_OPT_SSSE3", PosixFlags: []string{"-mssse3"}, MSVCDefines: []string{"__SSSE3__"}},
	{Name: "SSE4_1", Define: "BL_BUILD_OPT_SSE4_1", PosixFlags: []string{"-msse4.1"}, MSVCDefines: []string{"__SSE4_1__"}},
	{Name: "SSE4_2", Define: "BL_BUILD_OPT_SSE4_2", PosixFlags: []string{"-mpopcnt", "-mpclmul", "-msse4.2"}, MSVCFlag: "/arch:SSE4.2"},
	{Name: "AVX", Define: "BL_BUILD_OPT_AVX", PosixFlags: []string{"-mpopcnt", "-mpclmul", "-mavx"}, MSVCFlag: "/arch:AVX"},
	{Name: "AVX2", Define: "BL_BUILD_OPT_AVX2", PosixFlags: []string{"-mpopcnt", "-mpclmul", "-mbmi", "-mbmi2", "-mavx2"}, MSVCFlag: "/arch:AVX2"},
	// Breaks runtime CPU detection in the engine; enable with BLEND2D_ENABLE_AVX512.
	{
		Name:   "AVX512",
		Define: "BL_BUILD_OPT_AVX512",
		PosixFlags: []string{
			"-mpopcnt", "-mpclmul", "-mbmi", "-mbmi2",
			"-mavx512f", "-mavx512bw", "-mavx512dq", "-mavx512cd", "-mavx512vl",
		},
		MSVCFlag: "/arch:AVX512",
		Withheld: true,
	},
}

var ladders = map[string]Ladder{
	"x86_64": x86Ladder,
	"i686":   x86Ladder,
	"aarch64": {
		{Name: "NEON", PosixFlags: []string{"-march=armv8-a+crc+simd"}, MSVCDefines: []string{"__ARM_NEON__"}},
	},
	"arm": {
		{Name: "NEON", PosixFlags: []string{"-mfpu=neon"}, MSVCDefines: []string{"__ARM_NEON__"}},
	},
}

// LadderFor returns the feature ladder of arch. The boolean is false for
// architectures without a ladder; they build with portable flags only.
func LadderFor(arch string) (Ladder, bool) {
	ladder, ok := ladders[arch]
	return ladder, ok
}
