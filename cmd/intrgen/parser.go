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
	"encoding/xml"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ajroetker/go-intrinsics/cmd/intrgen/ir"
	"github.com/ajroetker/go-intrinsics/intrin"
)

// noDescription is the placeholder used when a record carries no prose.
const noDescription = "No description available for this intrinsic."

// variesMarker is the database's spelling for "measured but not constant".
const variesMarker = "Varies"

// xmlDatabase mirrors the on-disk intrinsics database document.
type xmlDatabase struct {
	XMLName    xml.Name       `xml:"intrinsics-list"`
	Intrinsics []xmlIntrinsic `xml:"intrinsic"`
}

// xmlIntrinsic is one raw database record.
type xmlIntrinsic struct {
	Name        string     `xml:"name,attr"`
	Tech        string     `xml:"tech,attr"`
	Types       []string   `xml:"type"`
	CPUID       []string   `xml:"CPUID"`
	Categories  []string   `xml:"category"`
	Return      xmlReturn  `xml:"return"`
	Params      []xmlParam `xml:"parameter"`
	Description string     `xml:"description"`
	Operation   []string   `xml:"operation"`
	Headers     []string   `xml:"header"`
	Perf        []xmlPerf  `xml:"perfdata"`
}

type xmlReturn struct {
	Type string `xml:"type,attr"`
}

type xmlParam struct {
	VarName string `xml:"varname,attr"`
	Type    string `xml:"type,attr"`
}

type xmlPerf struct {
	Arch       string `xml:"arch,attr"`
	Latency    string `xml:"lat,attr"`
	Throughput string `xml:"tpt,attr"`
}

// ParseDatabase reads the intrinsics database document and returns one
// ir.Intrinsic per record, in document order. Any schema violation fails
// the whole run with a diagnostic naming the field and record; partial
// results are never returned.
func ParseDatabase(filename string) ([]*ir.Intrinsic, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}

	var db xmlDatabase
	if err := xml.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("decode database: %w", err)
	}

	ins := make([]*ir.Intrinsic, 0, len(db.Intrinsics))
	for _, rec := range db.Intrinsics {
		in, err := parseRecord(rec)
		if err != nil {
			return nil, err
		}
		ins = append(ins, in)
	}
	return ins, nil
}

// parseRecord validates one raw record and builds the immutable Intrinsic.
func parseRecord(rec xmlIntrinsic) (*ir.Intrinsic, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return nil, fmt.Errorf("record missing required attribute %q", "name")
	}
	fail := func(field string, err error) error {
		return fmt.Errorf("record %s: %s: %w", name, field, err)
	}
	require := func(field, value string) (string, error) {
		v := strings.TrimSpace(value)
		if v == "" {
			return "", fmt.Errorf("record %s: missing required attribute %q", name, field)
		}
		return v, nil
	}

	tech, err := require("tech", rec.Tech)
	if err != nil {
		return nil, err
	}
	returnRaw, err := require("return", rec.Return.Type)
	if err != nil {
		return nil, err
	}

	in := &ir.Intrinsic{
		Name:      name,
		Tech:      ir.NormalizeTech(tech),
		ReturnRaw: returnRaw,
	}

	for _, flag := range rec.CPUID {
		if f := strings.TrimSpace(flag); f != "" {
			in.CPUID = append(in.CPUID, f)
		}
	}

	for _, t := range rec.Types {
		k, err := ir.ParseKind(strings.TrimSpace(t))
		if err != nil {
			return nil, fail("type", err)
		}
		if !slices.Contains(in.Kinds, k) {
			in.Kinds = append(in.Kinds, k)
		}
	}
	if len(in.Kinds) == 0 {
		return nil, fmt.Errorf("record %s: missing required attribute %q", name, "type")
	}

	for _, c := range rec.Categories {
		cat, err := ir.ParseCategory(strings.TrimSpace(c))
		if err != nil {
			return nil, fail("category", err)
		}
		if !slices.Contains(in.Categories, cat) {
			in.Categories = append(in.Categories, cat)
		}
	}
	if len(in.Categories) == 0 {
		return nil, fmt.Errorf("record %s: missing required attribute %q", name, "category")
	}

	// Declared void parameters denote "no parameter", not a real argument.
	// Deduplicate by name keeping the first occurrence, order preserved.
	var params []ir.Param
	for _, p := range rec.Params {
		if strings.TrimSpace(p.Type) == "void" {
			continue
		}
		varName, err := require("parameter varname", p.VarName)
		if err != nil {
			return nil, err
		}
		typ, err := require("parameter type", p.Type)
		if err != nil {
			return nil, err
		}
		params = append(params, ir.NewParam(varName, typ))
	}
	in.Params = lo.UniqBy(params, func(p ir.Param) string { return p.Name })

	// Synthesize the companion offset parameter for each array-typed
	// parameter, as a parallel list in the same relative order.
	for _, p := range in.Params {
		t, err := ir.MapRaw(p.Raw)
		if err != nil {
			return nil, fail("parameter "+p.Name, err)
		}
		if t.Array {
			in.OffsetParams = append(in.OffsetParams, ir.NewParam(p.Name+"Offset", "__int64"))
		}
	}

	in.Perf = make(map[ir.MicroArch]intrin.Perf, len(rec.Perf))
	for _, pe := range rec.Perf {
		arch, err := ir.ParseMicroArch(strings.TrimSpace(pe.Arch))
		if err != nil {
			return nil, fail("perfdata", err)
		}
		lat, err := parsePerfValue(pe.Latency)
		if err != nil {
			return nil, fail("perfdata latency", err)
		}
		tpt, err := parsePerfValue(pe.Throughput)
		if err != nil {
			return nil, fail("perfdata throughput", err)
		}
		if lat == nil && tpt == nil {
			continue
		}
		in.Perf[arch] = intrin.Perf{Latency: lat, Throughput: tpt}
	}

	in.Description = strings.TrimSpace(rec.Description)
	if in.Description == "" {
		in.Description = noDescription
	}

	for _, op := range rec.Operation {
		if o := strings.TrimSpace(op); o != "" {
			in.Operation = append(in.Operation, o)
		}
	}

	if len(rec.Headers) == 0 || strings.TrimSpace(rec.Headers[0]) == "" {
		return nil, fmt.Errorf("record %s: missing required attribute %q", name, "header")
	}
	in.Header = strings.TrimSpace(rec.Headers[0])

	return in, nil
}

// parsePerfValue turns one latency/throughput attribute into an optional
// figure: empty and "Varies" mean unmeasured, anything else must parse as a
// number.
func parsePerfValue(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == variesMarker {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid figure %q", s)
	}
	return &v, nil
}
