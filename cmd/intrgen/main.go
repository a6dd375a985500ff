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

// Command intrgen generates Go bindings from the vendor intrinsics database.
//
// Usage:
//
//	intrgen -input data.xml -output ./intrinsics -pkg intrinsics
//	intrgen -input data.xml -output ./intrinsics -host
//
// Per instruction set, the generator writes one declaration unit (IR node
// types, dispatch functions, mirroring table), one paired C-lowering unit,
// and a plain-text statistics report. Instruction sets above the per-unit
// cap are split into fixed-size sub-units composed by an umbrella unit.
//
// Any schema violation in the database (a missing or blank required field,
// an unrecognized category, type, or microarchitecture, a malformed
// performance figure) aborts the whole run; partial output is never usable.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

var (
	inputFile  = flag.String("input", env.Str("INTRGEN_INPUT", ""), "Intrinsics database XML file (required)")
	outputDir  = flag.String("output", env.Str("INTRGEN_OUTPUT", "."), "Output directory for generated units")
	statsDir   = flag.String("stats", env.Str("INTRGEN_STATS", ""), "Directory for statistics reports (default: output directory)")
	packageOut = flag.String("pkg", env.Str("INTRGEN_PKG", "intrinsics"), "Package name of generated units")
	hostReport = flag.Bool("host", env.Bool("INTRGEN_HOST"), "Include host CPU support in statistics")
	unitCap    = flag.Int("cap", env.Int("INTRGEN_CAP", defaultUnitCap), "Per-unit intrinsic cap before splitting")
)

func main() {
	flag.Parse()

	if *inputFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -input flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	gen := &Generator{
		InputFile:  *inputFile,
		OutputDir:  *outputDir,
		StatsDir:   *statsDir,
		PackageOut: *packageOut,
		HostReport: *hostReport,
		UnitCap:    *unitCap,
	}

	if err := gen.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated intrinsic bindings in %s\n", *outputDir)
}
