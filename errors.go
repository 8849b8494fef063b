package blendbuild

import (
	"errors"
	"os"
)

// Error taxonomy. Every fatal condition of a build wraps exactly one of these.
var (
	// ErrConfig indicates malformed environment input.
	ErrConfig = errors.New("invalid build configuration")

	// ErrDiscovery indicates a source directory could not be traversed.
	ErrDiscovery = errors.New("source discovery failed")

	// ErrToolchain indicates the compiler or archiver could not be resolved.
	ErrToolchain = errors.New("toolchain resolution failed")

	// ErrCompile indicates a compiler or archiver invocation failed.
	ErrCompile = errors.New("compilation failed")

	// ErrBindings indicates the binding generator failed.
	ErrBindings = errors.New("binding generation failed")
)

// ErrorKind is the coarse class of a build error, used for logging and exit codes.
type ErrorKind string

const (
	KindUnknown   ErrorKind = "unknown"
	KindConfig    ErrorKind = "config"
	KindDiscovery ErrorKind = "discovery"
	KindToolchain ErrorKind = "toolchain"
	KindCompile   ErrorKind = "compile"
	KindBindings  ErrorKind = "bindings"
	KindIO        ErrorKind = "io"
)

// Classify maps err onto the build error taxonomy.
// Only sentinel identity and standard library error types are inspected.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrConfig):
		return KindConfig
	case errors.Is(err, ErrDiscovery):
		return KindDiscovery
	case errors.Is(err, ErrToolchain):
		return KindToolchain
	case errors.Is(err, ErrCompile):
		return KindCompile
	case errors.Is(err, ErrBindings):
		return KindBindings
	}

	var perr *os.PathError
	if errors.As(err, &perr) {
		return KindIO
	}
	return KindUnknown
}

// ExitCode returns the process exit code used by the command line tool for err.
func (k ErrorKind) ExitCode() int {
	switch k {
	case KindConfig:
		return 2
	case KindDiscovery, KindIO:
		return 3
	case KindToolchain:
		return 4
	case KindCompile:
		return 5
	case KindBindings:
		return 6
	default:
		return 1
	}
}
