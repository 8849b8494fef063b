package blendbuild

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DefaultSourceExtensions are the file extensions compiled into the library.
var DefaultSourceExtensions = []string{".cpp"}

// SourceSet is the collection of source files compiled by one build.
// It is always sorted and free of duplicates.
type SourceSet []string

// DiscoverSources recursively collects compiled-language sources under roots.
//
// Every directory under each root is visited. Files are selected when their
// extension matches one of exts (case-insensitive, DefaultSourceExtensions
// when exts is empty); directories are recursed, never selected.
//
// # Errors
//
// If a root is missing, is not a directory, or any directory below it cannot
// be read, DiscoverSources returns an error wrapping ErrDiscovery and a nil
// SourceSet. Partial results are never returned.
//
// # Ordering
//
// The result is sorted lexicographically so the SourceSet does not depend on
// the order in which the filesystem lists directory entries.
func DiscoverSources(roots []string, exts ...string) (SourceSet, error) {
	if len(exts) == 0 {
		exts = DefaultSourceExtensions
	}

	seen := make(map[string]struct{})
	for _, root := range roots {
		found, err := discoverRoot(root, exts)
		if err != nil {
			return nil, err
		}
		for _, path := range found {
			seen[path] = struct{}{}
		}
	}

	set := make(SourceSet, 0, len(seen))
	for path := range seen {
		set = append(set, path)
	}
	sort.Strings(set)
	return set, nil
}

// discoverRoot walks a single root
func discoverRoot(root string, exts []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDiscovery, root)
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if MatchesExtension(d.Name(), exts...) {
			files = append(files, filepath.Clean(path))
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, walkErr)
	}

	return files, nil
}
