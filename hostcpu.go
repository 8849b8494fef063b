package blendbuild

import (
	"golang.org/x/sys/cpu"
)

// hostProbes report whether the machine running the build supports a tier.
var hostProbes = map[string]func() bool{
	"SSE2":   func() bool { return cpu.X86.HasSSE2 },
	"SSE3":   func() bool { return cpu.X86.HasSSE3 },
	"SSSE3":  func() bool { return cpu.X86.HasSSSE3 },
	"SSE4_1": func() bool { return cpu.X86.HasSSE41 },
	"SSE4_2": func() bool { return cpu.X86.HasSSE42 && cpu.X86.HasPOPCNT && cpu.X86.HasPCLMULQDQ },
	"AVX":    func() bool { return cpu.X86.HasAVX },
	"AVX2":   func() bool { return cpu.X86.HasAVX2 && cpu.X86.HasBMI1 && cpu.X86.HasBMI2 },
	"AVX512": func() bool {
		return cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512DQ &&
			cpu.X86.HasAVX512CD && cpu.X86.HasAVX512VL
	},
	"NEON": func() bool { return cpu.ARM64.HasASIMD || cpu.ARM.HasNEON },
}

// HostSupports reports whether the build host's CPU implements tier.
// Unknown tiers report false.
func HostSupports(tier FeatureTier) bool {
	probe, ok := hostProbes[tier.Name]
	return ok && probe()
}

// MissingOnHost returns the names of tiers in l that the build host lacks.
// The result only matters when the target architecture is the host's:
// compiled sources still dispatch at runtime.
func MissingOnHost(l Ladder) []string {
	var missing []string
	for _, tier := range l {
		if !HostSupports(tier) {
			missing = append(missing, tier.Name)
		}
	}
	return missing
}
