// Copyright 2026 go-intrinsics Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"
)

const generatedHeader = "// Code generated by intrgen. DO NOT EDIT.\n"

// buildUnitDecl assembles the declaration unit for one generated unit: IR
// node types, dispatch functions, and the mirroring table.
func buildUnitDecl(pkg, unitName string, items []classified) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\npackage %s\n\n", generatedHeader, pkg)
	fmt.Fprintf(&buf, "import (\n\t\"github.com/ajroetker/go-intrinsics/intrin\"\n)\n\n")

	for _, c := range items {
		writeNode(&buf, c)
		if err := writeDispatch(&buf, c); err != nil {
			return nil, err
		}
	}
	writeMirror(&buf, unitName, items)
	return buf.Bytes(), nil
}

// buildUnitLower assembles the paired C-lowering unit.
func buildUnitLower(pkg, unitName string, items []classified) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\npackage %s\n\n", generatedHeader, pkg)
	fmt.Fprintf(&buf, "import (\n\t\"fmt\"\n\t\"io\"\n\n\t\"github.com/ajroetker/go-intrinsics/intrin\"\n)\n\n")
	writeLower(&buf, unitName, items)
	return buf.Bytes()
}

// emitUnit generates and writes both files of one unit.
func (g *Generator) emitUnit(unitName string, items []classified) error {
	decl, err := buildUnitDecl(g.PackageOut, unitName, items)
	if err != nil {
		return err
	}
	lower := buildUnitLower(g.PackageOut, unitName, items)

	base := strings.ToLower(unitName)
	if err := g.writeSource(base+".gen.go", decl); err != nil {
		return err
	}
	return g.writeSource(base+"_lower.gen.go", lower)
}

// writeUmbrellaFiles writes the two umbrella files for a chunked group.
func (g *Generator) writeUmbrellaFiles(tech string, units []string) error {
	var decl bytes.Buffer
	fmt.Fprintf(&decl, "%s\npackage %s\n\n", generatedHeader, g.PackageOut)
	fmt.Fprintf(&decl, "import (\n\t\"github.com/ajroetker/go-intrinsics/intrin\"\n)\n\n")
	fmt.Fprintf(&decl, "// Mirror%s composes the %s sub-units.\n", tech, tech)
	fmt.Fprintf(&decl, "func Mirror%s(n intrin.Expr, f intrin.Rewriter) (intrin.Expr, bool) {\n", tech)
	for _, u := range units {
		fmt.Fprintf(&decl, "\tif e, ok := Mirror%s(n, f); ok {\n\t\treturn e, true\n\t}\n", u)
	}
	fmt.Fprintf(&decl, "\treturn nil, false\n}\n")

	var lower bytes.Buffer
	fmt.Fprintf(&lower, "%s\npackage %s\n\n", generatedHeader, g.PackageOut)
	fmt.Fprintf(&lower, "import (\n\t\"io\"\n\n\t\"github.com/ajroetker/go-intrinsics/intrin\"\n)\n\n")
	fmt.Fprintf(&lower, "// Lower%s composes the %s sub-units.\n", tech, tech)
	fmt.Fprintf(&lower, "func Lower%s(w io.Writer, n intrin.Node, env *intrin.CodegenEnv) bool {\n", tech)
	for _, u := range units {
		fmt.Fprintf(&lower, "\tif Lower%s(w, n, env) {\n\t\treturn true\n\t}\n", u)
	}
	fmt.Fprintf(&lower, "\treturn false\n}\n")

	base := strings.ToLower(tech)
	if err := g.writeSource(base+".gen.go", decl.Bytes()); err != nil {
		return err
	}
	return g.writeSource(base+"_lower.gen.go", lower.Bytes())
}

// writeSource formats the generated unit (pruning unused imports along the
// way) and writes it. A formatting failure means the generator produced
// malformed Go; that is a defect, not a runtime condition, so the run
// aborts rather than writing broken output.
func (g *Generator) writeSource(name string, src []byte) error {
	path := filepath.Join(g.OutputDir, name)
	formatted, err := imports.Process(path, src, nil)
	if err != nil {
		return fmt.Errorf("generated unit %s is malformed: %w", name, err)
	}
	if err := os.WriteFile(path, formatted, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// writeStats writes the per-ISA statistics report: total count, pointer
// argument census, warnings for the statistics-worthy shapes, and the
// names dropped by the global dedup policy.
func (g *Generator) writeStats(tech string, items []classified, dropped []string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "instruction set: %s\n", tech)
	fmt.Fprintf(&buf, "total intrinsics: %d\n", len(items))

	var pointerLines []string
	var warnings []string
	for _, c := range items {
		if c.Cls.HasArrayParams() {
			var names []string
			for _, i := range c.Cls.ArrayParams {
				names = append(names, c.In.Params[i].Name)
			}
			pointerLines = append(pointerLines, fmt.Sprintf("  %s (%s)", c.In.Name, strings.Join(names, ", ")))
		}
		if len(c.Cls.ArrayParams) > 1 {
			warnings = append(warnings, fmt.Sprintf("  %s: %d array parameters", c.In.Name, len(c.Cls.ArrayParams)))
		}
		if c.Cls.Return.IsUntypedPtr() {
			warnings = append(warnings, fmt.Sprintf("  %s: untyped pointer return", c.In.Name))
		}
	}

	fmt.Fprintf(&buf, "pointer arguments: %d\n", len(pointerLines))
	for _, l := range pointerLines {
		fmt.Fprintln(&buf, l)
	}
	if len(warnings) > 0 {
		fmt.Fprintf(&buf, "warnings:\n")
		for _, w := range warnings {
			fmt.Fprintln(&buf, w)
		}
	}
	for _, name := range dropped {
		fmt.Fprintf(&buf, "duplicate dropped: %s\n", name)
	}

	if g.HostReport {
		supported, unknown := 0, 0
		for _, c := range items {
			ok, known := hostSupports(c.In.CPUID)
			switch {
			case !known:
				unknown++
			case ok:
				supported++
			}
		}
		fmt.Fprintf(&buf, "host support: %d/%d supported, %d unknown\n", supported, len(items), unknown)
	}

	path := filepath.Join(g.StatsDir, strings.ToLower(tech)+"_stats.txt")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write stats %s: %w", path, err)
	}
	return nil
}
