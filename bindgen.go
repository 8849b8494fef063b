package blendbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// BindgenOutput is the file written by BindgenGenerator.
const BindgenOutput = "bindings.rs"

// BindgenGenerator drives the bindgen command line tool.
//
// Generated command:
//
//	bindgen blend2d.h --output bindings.rs --no-layout-tests --no-doc-comments \
//	    --no-derive-debug --default-enum-style bitfield \
//	    --allowlist-function '^[Bb][Ll].*' --allowlist-type ... --allowlist-var ... \
//	    -- -DASMJIT_STATIC -I...
type BindgenGenerator struct {
	// Tool overrides the bindgen executable.
	Tool string
}

// Name returns the generator name
func (g *BindgenGenerator) Name() string {
	return "bindgen"
}

// Generate runs bindgen and returns the path of the generated file
func (g *BindgenGenerator) Generate(ctx context.Context, req BindingRequest) (string, error) {
	tool := g.tool()
	if err := CheckRequiredTools([]ToolRequirement{{Name: tool, Purpose: "binding generator"}}); err != nil {
		return "", bindingsError(err)
	}
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return "", bindingsError(err)
	}

	output := filepath.Join(req.OutDir, BindgenOutput)
	args := g.Args(req, output)

	cmd := execCommandContext(ctx, tool, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(output)
		return "", bindingsError(BuildError(g.Name(), splitLines(out), err))
	}
	if _, err := os.Stat(output); err != nil {
		return "", bindingsError(fmt.Errorf("%s produced no output: %w", tool, err))
	}

	return output, nil
}

// Args returns the bindgen argument list writing to output.
func (g *BindgenGenerator) Args(req BindingRequest, output string) []string {
	allow := "^" + req.AllowList
	args := []string{
		req.Header,
		"--output", output,
		"--no-layout-tests",
		"--no-doc-comments",
		"--no-derive-debug",
		"--default-enum-style", req.EnumPolicy.String(),
		"--allowlist-function", allow,
		"--allowlist-type", allow,
		"--allowlist-var", allow,
		"--",
	}
	for _, define := range req.Defines {
		args = append(args, "-D"+define)
	}
	for _, include := range req.Includes {
		args = append(args, "-I"+include)
	}
	return args
}

func (g *BindgenGenerator) tool() string {
	if g.Tool != "" {
		return g.Tool
	}
	return "bindgen"
}
