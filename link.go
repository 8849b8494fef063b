package blendbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LinkPlan is the ordered list of system libraries a target OS needs when
// linking the static library.
type LinkPlan struct {
	OS   string
	Libs []string
}

type linkEntry struct {
	os   string
	libs []string
}

var linkTable = []linkEntry{
	{os: "windows", libs: []string{"user32", "uuid", "shell32"}},
	{os: "linux", libs: []string{"c", "m", "pthread", "rt"}},
	{os: "macos", libs: []string{"c", "m", "pthread"}},
}

// LinkPlanFor returns the link plan of os. Unrecognised identifiers,
// including the empty string, yield an empty plan rather than an error so
// that unsupported but buildable platforms still build.
func LinkPlanFor(os string) LinkPlan {
	for _, entry := range linkTable {
		if entry.os == os {
			return LinkPlan{OS: os, Libs: append([]string{}, entry.libs...)}
		}
	}
	return LinkPlan{OS: os, Libs: []string{}}
}

// LDFLAGS renders the plan as -l linker flags.
func (p LinkPlan) LDFLAGS() []string {
	flags := make([]string, 0, len(p.Libs))
	for _, lib := range p.Libs {
		flags = append(flags, "-l"+lib)
	}
	return flags
}

// Directives renders one "link-lib=<name>" line per library, the form read by
// downstream build drivers.
func (p LinkPlan) Directives() []string {
	lines := make([]string, 0, len(p.Libs))
	for _, lib := range p.Libs {
		lines = append(lines, "link-lib="+lib)
	}
	return lines
}

// CgoFileName is the name of the generated cgo link file.
const CgoFileName = "cgo_link.go"

// WriteCgoFile writes a Go file into dir whose #cgo directives link the
// static library (named libName, found in dir) followed by the plan's
// system libraries. It returns the written path.
func (p LinkPlan) WriteCgoFile(dir, pkg, libName string) (string, error) {
	ldflags := append([]string{"-L${SRCDIR}", "-l" + libName}, p.LDFLAGS()...)

	var b strings.Builder
	b.WriteString("// Code generated by blend2d-build. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "// #cgo CPPFLAGS: -D%s\n", StaticAsmJitDefine)
	fmt.Fprintf(&b, "// #cgo LDFLAGS: %s\n", strings.Join(ldflags, " "))
	b.WriteString("import \"C\"\n")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, CgoFileName)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
