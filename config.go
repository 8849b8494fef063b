package blendbuild

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Environment variables consulted by LoadConfig.
const (
	EnvTargetArch   = "BLEND2D_TARGET_ARCH"
	EnvTargetOS     = "BLEND2D_TARGET_OS"
	EnvTargetEnv    = "BLEND2D_TARGET_ENV"
	EnvProfile      = "BLEND2D_PROFILE"
	EnvToolchain    = "BLEND2D_TOOLCHAIN"
	EnvCXX          = "CXX"
	EnvAR           = "AR"
	EnvSourceDir    = "BLEND2D_SOURCE_DIR"
	EnvOutDir       = "BLEND2D_OUT_DIR"
	EnvJobs         = "BLEND2D_JOBS"
	EnvEnableAVX512 = "BLEND2D_ENABLE_AVX512"
	EnvBindingTool  = "BLEND2D_BINDGEN"
	EnvCgoPackage   = "BLEND2D_CGO_PACKAGE"
	EnvVerbose      = "BLEND2D_VERBOSE"
	EnvInstallDir   = "BLEND2D_INSTALL_DIR"
)

// DebugProfile is the only build profile that omits the production define.
const DebugProfile = "debug"

// Binding generator adapters selectable through BLEND2D_BINDGEN.
const (
	BindingToolBindgen = "bindgen"
	BindingToolCForGo  = "c-for-go"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Config is the build configuration captured once from the environment.
//
// A Config is never modified after LoadConfig returns it. Every pipeline
// component receives it explicitly instead of reading the process
// environment, so a build can never observe a torn configuration.
type Config struct {
	// Target platform
	TargetArch string // Architecture id (x86_64, i686, aarch64, arm, ...)
	TargetOS   string // OS id (linux, macos, windows, ...)
	TargetEnv  string // ABI (msvc, gnu), empty when unknown

	// Profile is the build profile; empty is treated as debug.
	Profile string

	// Toolchain selection
	ToolchainOverride Family // FamilyUnknown means detect from the compiler
	CXX               string // Compiler executable, empty for the family default
	AR                string // Archiver executable, empty for the family default

	// Layout
	SourceDir string // Absolute directory containing blend2d/ and asmjit/
	OutDir    string // Absolute build-scoped output directory

	// InstallDir is the absolute Go package directory receiving the library
	// and the cgo link file. Empty means the files stay in OutDir.
	InstallDir string

	// Build options
	Jobs          int    // Parallel compiler processes
	EnableAVX512  bool   // Enable the withheld widest x86 tier
	BindingTool   string // bindgen or c-for-go
	CgoPackage    string // Package name of the emitted cgo link file
	Verbose       bool   // Debug logging
	consultedVars []string
}

// LoadConfig captures the build configuration from lookup.
//
// Absent variables fall back to defaults derived from the host. A variable
// that is present but not valid UTF-8, or that cannot be parsed, fails with
// ErrConfig before any build work starts.
func LoadConfig(lookup LookupFunc) (*Config, error) {
	r := &envReader{lookup: lookup}

	cfg := &Config{
		TargetArch:  r.raw(EnvTargetArch, hostArch()),
		TargetOS:    r.raw(EnvTargetOS, hostOS()),
		Profile:     r.raw(EnvProfile, ""),
		CXX:         r.str(EnvCXX, ""),
		AR:          r.str(EnvAR, ""),
		SourceDir:   r.str(EnvSourceDir, "."),
		BindingTool: r.str(EnvBindingTool, BindingToolBindgen),
		CgoPackage:  r.str(EnvCgoPackage, "blend2d"),
	}

	defaultEnv := ""
	if cfg.TargetOS == "windows" && runtime.GOOS == "windows" {
		defaultEnv = "msvc"
	}
	cfg.TargetEnv = r.str(EnvTargetEnv, defaultEnv)

	cfg.OutDir = r.str(EnvOutDir, filepath.Join(cfg.SourceDir, "target", "blend2d"))
	cfg.InstallDir = r.str(EnvInstallDir, "")
	cfg.Jobs = r.integer(EnvJobs, runtime.GOMAXPROCS(0))
	cfg.EnableAVX512 = r.boolean(EnvEnableAVX512)
	cfg.Verbose = r.boolean(EnvVerbose)

	switch tc := strings.ToLower(r.str(EnvToolchain, "")); tc {
	case "":
		cfg.ToolchainOverride = FamilyUnknown
	case "msvc":
		cfg.ToolchainOverride = FamilyMSVC
	case "gnu", "posix":
		cfg.ToolchainOverride = FamilyPOSIX
	default:
		r.fail(EnvToolchain, fmt.Errorf("unknown toolchain family %q", tc))
	}

	switch cfg.BindingTool {
	case BindingToolBindgen, BindingToolCForGo:
	default:
		r.fail(EnvBindingTool, fmt.Errorf("unknown binding generator %q", cfg.BindingTool))
	}

	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}

	// Compilers run with OutDir as working directory, so every path handed
	// to them must be absolute.
	r.absolute(EnvSourceDir, &cfg.SourceDir)
	r.absolute(EnvOutDir, &cfg.OutDir)
	r.absolute(EnvInstallDir, &cfg.InstallDir)

	if r.err != nil {
		return nil, r.err
	}

	cfg.consultedVars = r.consulted
	return cfg, nil
}

// Consulted returns the environment variables read while capturing cfg,
// in the order they were read.
func (c *Config) Consulted() []string {
	return append([]string{}, c.consultedVars...)
}

// SourceRoots returns the roots of the two embedded codebases.
func (c *Config) SourceRoots() []string {
	return []string{
		filepath.Join(c.SourceDir, "blend2d", "src"),
		filepath.Join(c.SourceDir, "asmjit", "src"),
	}
}

// HeaderPath returns the public header aggregating the engine's API.
func (c *Config) HeaderPath() string {
	return filepath.Join(c.SourceDir, "blend2d", "src", "blend2d.h")
}

// envReader reads variables, recording each name and keeping the first error.
type envReader struct {
	lookup    LookupFunc
	consulted []string
	err       error
}

func (r *envReader) get(name string) (string, bool) {
	r.consulted = append(r.consulted, name)
	value, ok := r.lookup(name)
	if !ok {
		return "", false
	}
	if !utf8.ValidString(value) {
		r.fail(name, fmt.Errorf("value is not valid UTF-8: %q", value))
		return "", false
	}
	return value, true
}

// raw returns the value of name when present, even if empty. Target ids
// keep an explicit empty value so that it stays unrecognised.
func (r *envReader) raw(name, def string) string {
	if value, ok := r.get(name); ok {
		return value
	}
	return def
}

func (r *envReader) str(name, def string) string {
	if value, ok := r.get(name); ok && value != "" {
		return value
	}
	return def
}

func (r *envReader) integer(name string, def int) int {
	value, ok := r.get(name)
	if !ok || value == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		r.fail(name, err)
		return def
	}
	return n
}

func (r *envReader) boolean(name string) bool {
	value, ok := r.get(name)
	if !ok || value == "" {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		r.fail(name, err)
		return false
	}
	return b
}

func (r *envReader) absolute(name string, dir *string) {
	if *dir == "" {
		return
	}
	abs, err := filepath.Abs(*dir)
	if err != nil {
		r.fail(name, err)
		return
	}
	*dir = abs
}

func (r *envReader) fail(name string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s: %v", ErrConfig, name, err)
	}
}

// hostArch maps GOARCH onto the architecture ids used by the feature ladder.
func hostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86_64"
	case "386":
		return "i686"
	case "arm64":
		return "aarch64"
	default:
		return runtime.GOARCH
	}
}

// hostOS maps GOOS onto the OS ids used by the platform linker.
func hostOS() string {
	if runtime.GOOS == "darwin" {
		return "macos"
	}
	return runtime.GOOS
}
