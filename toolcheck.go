package blendbuild

import (
	"fmt"
	"os/exec"
	"strings"
)

// Indirections over os/exec so tests can substitute fake tools.
var (
	execLookPath       = exec.LookPath
	execCommandContext = exec.CommandContext
)

// ToolRequirement describes an external build tool dependency.
//
// This structure allows the toolchain resolver and the binding generators to
// declare:
//   - Required tools (must be available)
//   - Optional tools (nice to have, but not required)
//   - Alternative tools (any one of several tools can satisfy the requirement)
//
// # Examples
//
// Required tool:
//
//	ToolRequirement{
//	    Name:    "c++",
//	    Purpose: "C++ compiler",
//	}
//
// Tool with alternatives:
//
//	ToolRequirement{
//	    Name:         "ar",
//	    Alternatives: []string{"llvm-ar"},
//	    Purpose:      "static library archiver",
//	}
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g., "c++", "cl", "bindgen").
	Name string

	// Alternatives are alternative tool names that can satisfy this requirement.
	// If any tool in Alternatives is found, the requirement is satisfied.
	Alternatives []string

	// Optional indicates this tool is optional and won't cause an error if missing.
	Optional bool

	// Purpose is a human-readable description of why this tool is needed.
	Purpose string
}

// CheckToolAvailable checks if a tool is available in the system PATH.
//
// Returns nil if the tool is found in PATH, or an error naming the tool.
func CheckToolAvailable(tool string) error {
	_, err := execLookPath(tool)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies all required tools are available.
//
// # Behavior
//
//   - Checks the primary tool name first
//   - If not found, tries each alternative tool in order
//   - Optional tools are checked but don't cause errors
//   - Returns all missing required tools in a single error
//
// # Error Format
//
// Single missing tool:
//
//	c++ (C++ compiler) not found in PATH
//
// Multiple missing tools:
//
//	missing required tools: c++ (C++ compiler), ar (static library archiver)
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missingTools []string

	for _, req := range requirements {
		found := CheckToolAvailable(req.Name) == nil

		if !found && len(req.Alternatives) > 0 {
			for _, alt := range req.Alternatives {
				if CheckToolAvailable(alt) == nil {
					found = true
					break
				}
			}
		}

		if !found && !req.Optional {
			if req.Purpose != "" {
				missingTools = append(missingTools, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missingTools = append(missingTools, req.Name)
			}
		}
	}

	if len(missingTools) == 0 {
		return nil
	}

	if len(missingTools) == 1 {
		return fmt.Errorf("%s not found in PATH", missingTools[0])
	}

	return fmt.Errorf("missing required tools: %s", strings.Join(missingTools, ", "))
}
