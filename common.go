package blendbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// runCommonBuild executes the standard 3-step build process.
//
// # Process Flow
//
//  1. Create empty BuildResult
//  2. Call PrepareFunc to create the object directory
//  3. Call CompileFunc to compile every source
//  4. Call ArchiveFunc to write the static library
//  5. Verify the artifact exists
//  6. Return BuildResult with Success=true
//
// # Error Handling
//
// If any step returns an error:
//   - result.Error is set to the error
//   - result.Success remains false
//   - The artifact at artifactPath is removed, so a failed build never leaves a
//     partial library behind
//   - Subsequent steps are not executed
func runCommonBuild(ctx context.Context, req *CompileRequest, artifactPath string, steps CommonBuildSteps) (*BuildResult, error) {
	result := &BuildResult{
		Success: false,
		Output:  []string{},
	}

	fail := func(err error) (*BuildResult, error) {
		_ = os.Remove(artifactPath)
		result.Error = err
		return result, err
	}

	if len(req.Sources) == 0 {
		return fail(fmt.Errorf("%w: no sources to compile", ErrCompile))
	}

	// Step 1: Prepare the object directory
	objDir, err := steps.PrepareFunc(req)
	if err != nil {
		return fail(err)
	}

	// Step 2: Compile every source
	objects, err := steps.CompileFunc(ctx, req, objDir, result)
	if err != nil {
		return fail(err)
	}
	result.Objects = objects

	// Step 3: Archive into the static library
	artifact, err := steps.ArchiveFunc(ctx, req, objects, result)
	if err != nil {
		return fail(err)
	}

	if info, err := os.Stat(artifact); err != nil || !info.Mode().IsRegular() {
		return fail(fmt.Errorf("%w: archiver did not produce %s", ErrCompile, artifact))
	}

	result.Artifact = artifact
	result.Success = true
	return result, nil
}

// prepareObjectDir creates <OutDir>/obj, emptied first so that objects of
// sources removed since the previous build are never archived.
func prepareObjectDir(req *CompileRequest) (string, error) {
	objDir := filepath.Join(req.OutDir, "obj")
	if err := os.RemoveAll(objDir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		return "", err
	}
	return objDir, nil
}

// runTool runs one compiler or archiver process and returns its output lines.
func runTool(ctx context.Context, req *CompileRequest, tool string, args []string) ([]string, error) {
	cmd := execCommandContext(ctx, tool, args...)
	cmd.Dir = req.OutDir

	// Set environment variables
	cmd.Env = cmd.Environ()
	for key, value := range req.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	output, err := cmd.CombinedOutput()

	var lines []string
	if req.Verbose {
		lines = append(lines, fmt.Sprintf("Running: %s %s", tool, strings.Join(args, " ")))
	}
	lines = append(lines, splitLines(output)...)

	return lines, err
}
