package blendbuild

import (
	"encoding/binary"
	"encoding/hex"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint identifies the inputs of one compilation.
//
// It covers the toolchain, the FlagSet and the SourceSet paths. All
// components are length-prefixed in a fixed order, so identical inputs always
// produce the same fingerprint and any change produces a different one.
func Fingerprint(tc *Toolchain, fs FlagSet, sources SourceSet) string {
	h, _ := blake2b.New256(nil)

	writeField(h, []byte(tc.Family.String()))
	writeField(h, []byte(tc.Compiler))
	writeField(h, []byte(tc.Archiver))
	writeField(h, []byte(fs.String()))

	writeCount(h, len(sources))
	for _, path := range sources {
		writeField(h, []byte(path))
	}

	return hex.EncodeToString(h.Sum(nil))
}

func writeField(h hash.Hash, data []byte) {
	writeCount(h, len(data))
	h.Write(data)
}

func writeCount(h hash.Hash, n int) {
	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(n))
	h.Write(prefix[:])
}
