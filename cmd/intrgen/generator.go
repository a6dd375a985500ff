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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/ajroetker/go-intrinsics/cmd/intrgen/ir"
)

// defaultUnitCap is the per-unit intrinsic cap: a group at or above it is
// split into consecutive chunks of this size.
const defaultUnitCap = 500

// compatTechs are the two legacy instruction sets whose umbrella unit
// composes an optional pre-existing compat unit when its file is already on
// disk. A one-off accommodation, not a general mechanism.
var compatTechs = map[string]bool{
	"MMX":   true,
	"KNCNI": true,
}

// Generator orchestrates one full generation run over the database.
type Generator struct {
	InputFile  string // intrinsics database document
	OutputDir  string // directory for generated units
	StatsDir   string // directory for per-ISA statistics reports
	PackageOut string // package name of generated units
	HostReport bool   // include host CPU support in statistics
	UnitCap    int    // per-unit intrinsic cap (defaultUnitCap if 0)
}

// Run executes the pipeline: parse the database, group by instruction-set
// tag in first-seen order, dedup names globally, and generate one unit (or
// a chunked sub-unit family plus umbrella) per group. Processing order is
// significant: the dedup accumulator flows through the groups sequentially,
// so output is reproducible for a given input.
func (g *Generator) Run() error {
	if g.UnitCap <= 0 {
		g.UnitCap = defaultUnitCap
	}
	if g.StatsDir == "" {
		g.StatsDir = g.OutputDir
	}

	ins, err := ParseDatabase(g.InputFile)
	if err != nil {
		return err
	}
	if len(ins) == 0 {
		return fmt.Errorf("database %s contains no intrinsic records", g.InputFile)
	}

	groups, order := groupByTech(ins)

	emitted := make(map[string]bool)
	goNames := make(map[string]string)
	for _, tech := range order {
		kept, dropped := dedupNames(groups[tech], emitted)

		if err := recordGoNames(kept, goNames); err != nil {
			return fmt.Errorf("instruction set %s: %w", tech, err)
		}

		items, err := classifyAll(kept)
		if err != nil {
			return fmt.Errorf("instruction set %s: %w", tech, err)
		}

		if err := g.writeStats(tech, items, dropped); err != nil {
			return fmt.Errorf("instruction set %s: %w", tech, err)
		}

		if len(items) == 0 {
			continue
		}

		if len(items) < g.UnitCap {
			if err := g.emitUnit(tech, items); err != nil {
				return fmt.Errorf("instruction set %s: %w", tech, err)
			}
			continue
		}

		// Oversized group: consecutive fixed-size chunks, original order
		// preserved, each an independently named sub-unit.
		chunks := lo.Chunk(items, g.UnitCap)
		subNames := make([]string, len(chunks))
		for i, chunk := range chunks {
			subNames[i] = fmt.Sprintf("%s%02d", tech, i)
			if err := g.emitUnit(subNames[i], chunk); err != nil {
				return fmt.Errorf("instruction set %s: %w", tech, err)
			}
		}
		if err := g.emitUmbrella(tech, subNames); err != nil {
			return fmt.Errorf("instruction set %s: %w", tech, err)
		}
	}

	return nil
}

// groupByTech groups intrinsics by instruction-set tag and returns the tags
// in first-seen document order. Order must be stable: it defines which
// group wins the global name dedup.
func groupByTech(ins []*ir.Intrinsic) (map[string][]*ir.Intrinsic, []string) {
	groups := lo.GroupBy(ins, func(in *ir.Intrinsic) string { return in.Tech })

	var order []string
	seen := make(map[string]bool)
	for _, in := range ins {
		if !seen[in.Tech] {
			seen[in.Tech] = true
			order = append(order, in.Tech)
		}
	}
	return groups, order
}

// dedupNames applies the global name-dedup policy against the accumulator:
// the first occurrence of a name across all groups wins, later duplicates
// are dropped and reported. The accumulator is mutated for the next group.
func dedupNames(ins []*ir.Intrinsic, emitted map[string]bool) (kept []*ir.Intrinsic, dropped []string) {
	for _, in := range ins {
		if emitted[in.Name] {
			dropped = append(dropped, in.Name)
			continue
		}
		emitted[in.Name] = true
		kept = append(kept, in)
	}
	return kept, dropped
}

// recordGoNames checks that every generated Go identifier is unique across
// the whole run. The vendor-name dedup cannot catch this: underscore
// positions are erased by the name conversion, so two distinct vendor names
// can fold to the same identifier. That is a fatal consistency error, not a
// dedup case.
func recordGoNames(ins []*ir.Intrinsic, goNames map[string]string) error {
	for _, in := range ins {
		goName := in.GoName()
		if prev, ok := goNames[goName]; ok {
			return fmt.Errorf("intrinsic %s: generated name %s already used by %s", in.Name, goName, prev)
		}
		goNames[goName] = in.Name
	}
	return nil
}

// emitUmbrella writes the umbrella unit composing an oversized group's
// sub-units: its mirror tries each sub-mirror in order, its lowering tries
// each sub-lowering. For the legacy compat instruction sets, an already
// existing compat unit joins the composition.
func (g *Generator) emitUmbrella(tech string, subNames []string) error {
	units := append([]string(nil), subNames...)
	if compatTechs[tech] {
		compatFile := filepath.Join(g.OutputDir, strings.ToLower(tech)+"_compat.gen.go")
		if _, err := os.Stat(compatFile); err == nil {
			units = append(units, tech+"Compat")
		}
	}
	return g.writeUmbrellaFiles(tech, units)
}
