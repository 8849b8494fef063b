package blendbuild

import (
	"context"
	"fmt"
	"path/filepath"
)

// DefaultAllowList selects every symbol starting with the engine's two-letter
// prefix, in either case.
const DefaultAllowList = "[Bb][Ll].*"

// EnumPolicy controls how C enums are represented in generated bindings.
type EnumPolicy int

const (
	// EnumBitfield wraps each enum in a named integer type with bit
	// operations, so undeclared flag combinations remain representable.
	EnumBitfield EnumPolicy = iota
	// EnumNewType wraps each enum in a named integer type without bit operations.
	EnumNewType
	// EnumConsts emits plain integer constants.
	EnumConsts
)

// String returns the policy name understood by bindgen's --default-enum-style.
func (p EnumPolicy) String() string {
	switch p {
	case EnumNewType:
		return "newtype"
	case EnumConsts:
		return "consts"
	default:
		return "bitfield"
	}
}

// BindingRequest describes one binding generation run.
type BindingRequest struct {
	Header     string     // Public header aggregating the API
	AllowList  string     // Regex selecting functions, types and variables
	EnumPolicy EnumPolicy // Enum representation
	Defines    []string   // Preprocessor defines used while parsing the header
	Includes   []string   // Include directories used while parsing the header
	OutDir     string     // Directory receiving the generated source
}

// BindingGenerator produces foreign-function bindings from a C header.
//
// Implementations drive an external generator. Generate returns the path of
// the generated source file. It fails with an error wrapping ErrBindings if
// the header does not parse under req.Defines or nothing is generated.
type BindingGenerator interface {
	Name() string
	Generate(ctx context.Context, req BindingRequest) (string, error)
}

// DefaultBindingRequest returns the binding request of cfg: the public
// header, the default allow-list, bitfield enums and the static asmjit define.
func DefaultBindingRequest(cfg *Config) BindingRequest {
	return BindingRequest{
		Header:     cfg.HeaderPath(),
		AllowList:  DefaultAllowList,
		EnumPolicy: EnumBitfield,
		Defines:    []string{StaticAsmJitDefine},
		Includes:   cfg.SourceRoots(),
		OutDir:     cfg.OutDir,
	}
}

// NewBindingGenerator returns the adapter selected by cfg.BindingTool.
func NewBindingGenerator(cfg *Config) (BindingGenerator, error) {
	switch cfg.BindingTool {
	case BindingToolBindgen, "":
		return &BindgenGenerator{}, nil
	case BindingToolCForGo:
		return &CForGoGenerator{PackageName: cfg.CgoPackage}, nil
	default:
		return nil, fmt.Errorf("%w: unknown binding generator %q", ErrConfig, cfg.BindingTool)
	}
}

func bindingsError(err error) error {
	return fmt.Errorf("%w: %w", ErrBindings, err)
}

func headerName(req BindingRequest) string {
	return filepath.Base(req.Header)
}
