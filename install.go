package blendbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
	"github.com/magefile/mage/target"
)

// StampFile records the fingerprint of the last successful compilation.
const StampFile = "build.stamp"

// installFiles copies built files into dest and returns the installed paths
// relative to dest. Files are placed flat, by base name, because the
// emitted cgo directives locate the library through ${SRCDIR}.
func installFiles(dest string, files []string) ([]string, error) {
	if dest == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, err
	}

	var installed []string
	for _, src := range uniqueStrings(files) {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("install %s: %w", src, err)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		rel := safeRelativePath(filepath.Base(src))
		if err := sh.Copy(filepath.Join(dest, rel), src); err != nil {
			return nil, fmt.Errorf("install %s: %w", src, err)
		}
		installed = append(installed, filepath.ToSlash(rel))
	}

	return installed, nil
}

// upToDate reports whether artifact was built from the inputs identified by
// fingerprint and is newer than every file under roots. Headers count, so
// touching one rebuilds. A missing stamp or artifact means a rebuild.
func upToDate(outDir, artifact, fingerprint string, roots []string) (bool, error) {
	stamp, err := os.ReadFile(filepath.Join(outDir, StampFile))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if strings.TrimSpace(string(stamp)) != fingerprint {
		return false, nil
	}

	stale, err := target.Dir(artifact, roots...)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !stale, nil
}

// writeStamp records fingerprint after a successful compilation.
func writeStamp(outDir, fingerprint string) error {
	return os.WriteFile(filepath.Join(outDir, StampFile), []byte(fingerprint+"\n"), 0o644)
}

func safeRelativePath(path string) string {
	clean := filepath.Clean(path)
	if clean == "." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return filepath.Base(path)
	}
	return clean
}
