package blendbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CForGoManifest is the name of the manifest written next to the bindings.
const CForGoManifest = "c-for-go.yml"

// CForGoGenerator drives c-for-go, producing a Go package of cgo bindings.
//
// C enums always become named integer types, which keeps undeclared bit
// combinations representable for every EnumPolicy.
type CForGoGenerator struct {
	// Tool overrides the c-for-go executable.
	Tool string

	// PackageName is the generated Go package name.
	PackageName string
}

type cforgoManifest struct {
	Generator  cforgoGenerator  `yaml:"GENERATOR"`
	Parser     cforgoParser     `yaml:"PARSER"`
	Translator cforgoTranslator `yaml:"TRANSLATOR"`
}

type cforgoGenerator struct {
	PackageName        string            `yaml:"PackageName"`
	PackageDescription string            `yaml:"PackageDescription"`
	Includes           []string          `yaml:"Includes"`
	FlagGroups         []cforgoFlagGroup `yaml:"FlagGroups"`
}

type cforgoFlagGroup struct {
	Name  string   `yaml:"name"`
	Flags []string `yaml:"flags"`
}

type cforgoParser struct {
	IncludePaths []string       `yaml:"IncludePaths"`
	SourcesPaths []string       `yaml:"SourcesPaths"`
	Defines      map[string]int `yaml:"Defines"`
}

type cforgoTranslator struct {
	ConstRules map[string]string       `yaml:"ConstRules"`
	Rules      map[string][]cforgoRule `yaml:"Rules"`
}

type cforgoRule struct {
	Action string `yaml:"action"`
	From   string `yaml:"from"`
}

// Name returns the generator name
func (g *CForGoGenerator) Name() string {
	return "c-for-go"
}

// Generate writes the manifest, runs c-for-go and returns the path of the
// generated package's main file
func (g *CForGoGenerator) Generate(ctx context.Context, req BindingRequest) (string, error) {
	tool := g.tool()
	if err := CheckRequiredTools([]ToolRequirement{{Name: tool, Purpose: "binding generator"}}); err != nil {
		return "", bindingsError(err)
	}

	manifest, err := g.Manifest(req)
	if err != nil {
		return "", bindingsError(err)
	}
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return "", bindingsError(err)
	}
	manifestPath := filepath.Join(req.OutDir, CForGoManifest)
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return "", bindingsError(err)
	}

	pkgDir := filepath.Join(req.OutDir, g.packageName())
	cmd := execCommandContext(ctx, tool, "-out", req.OutDir, manifestPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(pkgDir)
		return "", bindingsError(BuildError(g.Name(), splitLines(out), err))
	}

	output := filepath.Join(pkgDir, g.packageName()+".go")
	if _, err := os.Stat(output); err != nil {
		return "", bindingsError(fmt.Errorf("%s produced no output: %w", tool, err))
	}
	return output, nil
}

// Manifest renders the c-for-go YAML manifest of req.
func (g *CForGoGenerator) Manifest(req BindingRequest) ([]byte, error) {
	defines := make(map[string]int, len(req.Defines))
	cppflags := make([]string, 0, len(req.Defines))
	for _, define := range req.Defines {
		defines[define] = 1
		cppflags = append(cppflags, "-D"+define)
	}

	accept := []cforgoRule{{Action: "accept", From: "^" + req.AllowList}}

	m := cforgoManifest{
		Generator: cforgoGenerator{
			PackageName:        g.packageName(),
			PackageDescription: "Bindings for " + headerName(req),
			Includes:           []string{headerName(req)},
			FlagGroups:         []cforgoFlagGroup{{Name: "CPPFLAGS", Flags: cppflags}},
		},
		Parser: cforgoParser{
			IncludePaths: append([]string{}, req.Includes...),
			SourcesPaths: []string{req.Header},
			Defines:      defines,
		},
		Translator: cforgoTranslator{
			ConstRules: map[string]string{"defines": "expand", "enum": "expand"},
			Rules: map[string][]cforgoRule{
				"global":   accept,
				"function": accept,
				"type":     accept,
				"const":    accept,
			},
		},
	}

	return yaml.Marshal(&m)
}

func (g *CForGoGenerator) tool() string {
	if g.Tool != "" {
		return g.Tool
	}
	return "c-for-go"
}

func (g *CForGoGenerator) packageName() string {
	if g.PackageName != "" {
		return strings.ToLower(g.PackageName)
	}
	return "blend2d"
}
