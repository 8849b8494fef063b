package blendbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	tc := &Toolchain{Family: FamilyPOSIX, Compiler: "/usr/bin/c++", Archiver: "/usr/bin/ar"}
	fs := PlanFlags(PlanInput{Arch: "x86_64", Family: FamilyPOSIX, Profile: "release"})
	sources := SourceSet{"a.cpp", "b.cpp"}

	base := Fingerprint(tc, fs, sources)
	assert.Len(t, base, 64)
	assert.Equal(t, base, Fingerprint(tc, fs, sources))

	t.Run("flags change", func(t *testing.T) {
		debug := PlanFlags(PlanInput{Arch: "x86_64", Family: FamilyPOSIX, Profile: DebugProfile})
		assert.NotEqual(t, base, Fingerprint(tc, debug, sources))
	})

	t.Run("sources change", func(t *testing.T) {
		assert.NotEqual(t, base, Fingerprint(tc, fs, SourceSet{"a.cpp"}))
		assert.NotEqual(t, base, Fingerprint(tc, fs, SourceSet{"a.cpp", "b.cpp", "c.cpp"}))
	})

	t.Run("field boundaries", func(t *testing.T) {
		assert.NotEqual(t,
			Fingerprint(tc, fs, SourceSet{"ab", "c"}),
			Fingerprint(tc, fs, SourceSet{"a", "bc"}))
	})

	t.Run("toolchain change", func(t *testing.T) {
		other := *tc
		other.Compiler = "/usr/bin/clang++"
		assert.NotEqual(t, base, Fingerprint(&other, fs, sources))
	})
}
