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

// Package ir holds the in-memory model of the intrinsics database: one
// Intrinsic per record, the raw-type mapping table, and the calling
// convention classifier the code templates key off.
package ir

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/ajroetker/go-intrinsics/intrin"
)

// Param is one declared parameter of an intrinsic. Identity is by name;
// NewParam sanitizes names that collide with Go keywords. Immutable once
// constructed.
type Param struct {
	Name string // sanitized identifier
	Raw  string // raw vendor type string, e.g. "__m128i", "float const *"
}

// NewParam builds a Param, renaming Go keywords by appending "_"
// ("type" becomes "type_") so generated identifiers stay legal.
func NewParam(name, raw string) Param {
	if token.IsKeyword(name) {
		name += "_"
	}
	return Param{Name: name, Raw: raw}
}

// Category is the semantic category of an intrinsic. The set is fixed;
// parsing an unlisted category string is a fatal schema error.
type Category int

const (
	CatArithmetic Category = iota
	CatLoad
	CatStore
	CatCast
	CatCompare
	CatConvert
	CatShift
	CatLogical
	CatMask
	CatMove
	CatSwizzle
	CatCryptography
	CatRandom
	CatElementaryMath
	CatSpecialMath
	CatTrigonometry
	CatProbabilityStatistics
	CatBitManipulation
	CatStringCompare
	CatGeneralSupport
	CatMiscellaneous
	CatOSTargeted
	CatApplicationTargeted
	CatSet
)

// categoryNames maps the database's category strings to Category values.
var categoryNames = map[string]Category{
	"Arithmetic":                CatArithmetic,
	"Load":                      CatLoad,
	"Store":                     CatStore,
	"Cast":                      CatCast,
	"Compare":                   CatCompare,
	"Convert":                   CatConvert,
	"Shift":                     CatShift,
	"Logical":                   CatLogical,
	"Mask":                      CatMask,
	"Move":                      CatMove,
	"Swizzle":                   CatSwizzle,
	"Cryptography":              CatCryptography,
	"Random":                    CatRandom,
	"Elementary Math Functions": CatElementaryMath,
	"Special Math Functions":    CatSpecialMath,
	"Trigonometry":              CatTrigonometry,
	"Probability/Statistics":    CatProbabilityStatistics,
	"Bit Manipulation":          CatBitManipulation,
	"String Compare":            CatStringCompare,
	"General Support":           CatGeneralSupport,
	"Miscellaneous":             CatMiscellaneous,
	"OS-Targeted":               CatOSTargeted,
	"Application-Targeted":      CatApplicationTargeted,
	"Set":                       CatSet,
}

var categoryStrings = func() map[Category]string {
	m := make(map[Category]string, len(categoryNames))
	for s, c := range categoryNames {
		m[c] = s
	}
	return m
}()

// ParseCategory maps a database category string to its Category.
func ParseCategory(s string) (Category, error) {
	c, ok := categoryNames[s]
	if !ok {
		return 0, fmt.Errorf("category unknown: %q", s)
	}
	return c, nil
}

// String returns the database spelling of the category.
func (c Category) String() string {
	if s, ok := categoryStrings[c]; ok {
		return s
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Kind is the semantic data kind an intrinsic operates on. An intrinsic may
// carry several (e.g. integer-to-float converts).
type Kind int

const (
	KindFloatingPoint Kind = iota
	KindInteger
	KindMask
)

var kindNames = map[string]Kind{
	"Floating Point": KindFloatingPoint,
	"Integer":        KindInteger,
	"Mask":           KindMask,
}

// ParseKind maps a database type-tag string to its Kind.
func ParseKind(s string) (Kind, error) {
	k, ok := kindNames[s]
	if !ok {
		return 0, fmt.Errorf("type tag unknown: %q", s)
	}
	return k, nil
}

// String returns the database spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindFloatingPoint:
		return "Floating Point"
	case KindInteger:
		return "Integer"
	case KindMask:
		return "Mask"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MicroArch is one of the microarchitectures the database carries
// performance figures for. The enumeration is closed: a perf entry naming
// anything else is a fatal schema error, there is no default case.
type MicroArch int

const (
	ArchNehalem MicroArch = iota
	ArchWestmere
	ArchSandyBridge
	ArchIvyBridge
	ArchHaswell
	ArchBroadwell
	ArchSkylake
	ArchSkylakeX
	ArchIcelake
	ArchKnightsLanding
)

var microArchNames = map[string]MicroArch{
	"Nehalem":         ArchNehalem,
	"Westmere":        ArchWestmere,
	"Sandy Bridge":    ArchSandyBridge,
	"Ivy Bridge":      ArchIvyBridge,
	"Haswell":         ArchHaswell,
	"Broadwell":       ArchBroadwell,
	"Skylake":         ArchSkylake,
	"Skylake-X":       ArchSkylakeX,
	"Icelake":         ArchIcelake,
	"Knights Landing": ArchKnightsLanding,
}

// ParseMicroArch maps a perf entry's arch attribute to its MicroArch.
func ParseMicroArch(s string) (MicroArch, error) {
	a, ok := microArchNames[s]
	if !ok {
		return 0, fmt.Errorf("microarchitecture unknown: %q", s)
	}
	return a, nil
}

// String returns the database spelling of the microarchitecture.
func (a MicroArch) String() string {
	for s, v := range microArchNames {
		if v == a {
			return s
		}
	}
	return fmt.Sprintf("MicroArch(%d)", int(a))
}

// Intrinsic is one fully parsed database record. Constructed once by the
// parser, immutable afterwards: classification and template generation are
// pure functions over its fields.
type Intrinsic struct {
	// Name is the canonical vendor API name, e.g. "_mm_add_epi32".
	Name string

	// Tech is the instruction-set tag with ".", "-" and "/" stripped
	// ("SSE4.1" becomes "SSE41").
	Tech string

	// CPUID lists the feature flags the intrinsic requires.
	CPUID []string

	// ReturnRaw is the raw vendor return type string.
	ReturnRaw string

	// Kinds is the set of semantic kinds; never empty after parsing.
	Kinds []Kind

	// Categories is the set of categories; never empty after parsing.
	Categories []Category

	// Perf maps microarchitectures to measured figures. Entries with both
	// figures unmeasured are omitted entirely.
	Perf map[MicroArch]intrin.Perf

	// Params are the declared parameters, deduplicated by name with order
	// preserved. Declared "void" parameters are dropped before this list
	// is built.
	Params []Param

	// OffsetParams holds one synthesized signed-integer parameter per
	// array-typed entry of Params, named "<name>Offset", in the same
	// relative order as the array parameters they augment.
	OffsetParams []Param

	Description string
	Operation   []string
	Header      string
}

// GoName converts the vendor name to the exported Go identifier used for
// the generated node type and dispatch function: "_mm256_loadu_ps" becomes
// "MM256LoaduPs", "_rdrand16_step" becomes "Rdrand16Step".
func (in *Intrinsic) GoName() string {
	s := strings.TrimLeft(in.Name, "_")
	var b strings.Builder
	for i, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		if i == 0 && vendorPrefix(part) {
			b.WriteString(strings.ToUpper(part))
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// vendorPrefix reports whether part is an "mm"-family prefix ("mm",
// "mm256", "mm512") that is conventionally spelled in full caps.
func vendorPrefix(part string) bool {
	rest, ok := strings.CutPrefix(part, "mm")
	if !ok {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeTech strips the punctuation the database uses inside
// instruction-set tags.
func NormalizeTech(tech string) string {
	r := strings.NewReplacer(".", "", "-", "", "/", "")
	return r.Replace(tech)
}
