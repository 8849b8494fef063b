package blendbuild

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/magefile/mage/sh"
)

// MatchesPattern checks if a name matches any of the given regex patterns.
//
// # Returns
//
// Returns true if the name matches any pattern, false otherwise.
// If a pattern is invalid regex, it is silently skipped.
//
// # Example
//
//	// Check for an MSVC-style compiler driver
//	if MatchesPattern("clang-cl.exe", `(?i)^clang-cl(\.exe)?$`) {
//	    // MSVC command line syntax
//	}
//
// # Thread Safety
//
// This function is thread-safe and can be called concurrently.
func MatchesPattern(name string, patterns ...string) bool {
	for _, pattern := range patterns {
		if matched, _ := regexp.MatchString(pattern, name); matched {
			return true
		}
	}
	return false
}

// MatchesExtension checks if a filename has any of the given extensions.
//
// This is a case-insensitive check for file extensions.
// Used by source discovery to select compiled-language sources.
//
// # Example
//
//	if MatchesExtension("path_stroke.cpp", ".cpp") {
//	    // Compile it
//	}
//
// # Thread Safety
//
// This function is thread-safe and can be called concurrently.
func MatchesExtension(filename string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// BuildError creates a standardized tool error with output context.
//
// This helper formats compiler, archiver and binding generator failures
// consistently, including the tool's verbatim output for debugging. The
// underlying error is wrapped and stays reachable through errors.Is/As.
//
// # Format
//
// With error and output:
//
//	POSIX build failed (exit status 1): exit status 1
//
//	Build output:
//	src/blend2d/core/api.cpp:12:1: error: expected ';'
//
// With error but no output:
//
//	POSIX build failed (exit status 1): exit status 1
//
// With output but no error:
//
//	POSIX build failed
//
//	Build output:
//	... output lines ...
//
// # Thread Safety
//
// This function is thread-safe and can be called concurrently.
func BuildError(builder string, output []string, err error) error {
	outputStr := strings.Join(output, "\n")

	if err == nil {
		if outputStr != "" {
			return fmt.Errorf("%s build failed\n\nBuild output:\n%s", builder, outputStr)
		}
		return fmt.Errorf("%s build failed", builder)
	}

	prefix := fmt.Sprintf("%s build failed", builder)
	if sh.CmdRan(err) {
		prefix = fmt.Sprintf("%s (exit status %d)", prefix, sh.ExitStatus(err))
	}

	if outputStr != "" {
		return fmt.Errorf("%s: %w\n\nBuild output:\n%s", prefix, err, outputStr)
	}

	return fmt.Errorf("%s: %w", prefix, err)
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{})
	var result []string

	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		result = append(result, value)
	}

	return result
}

// splitLines splits tool output into lines, dropping the trailing newline.
func splitLines(output []byte) []string {
	text := strings.TrimRight(string(output), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
