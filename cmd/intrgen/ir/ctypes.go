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

package ir

import (
	"fmt"
	"strings"
)

// Base is the canonical semantic type a raw vendor type string maps to.
type Base int

const (
	// Vector register types.
	BaseM64 Base = iota
	BaseM128
	BaseM128d
	BaseM128i
	BaseM256
	BaseM256d
	BaseM256i
	BaseM512
	BaseM512d
	BaseM512i

	// Write masks.
	BaseMask8
	BaseMask16
	BaseMask32
	BaseMask64

	// Scalars.
	BaseI8
	BaseI16
	BaseI32
	BaseI64
	BaseU8
	BaseU16
	BaseU32
	BaseU64
	BaseF32
	BaseF64

	// BaseVoid is the no-value type; its pointer spelling is the untyped
	// pointer.
	BaseVoid

	// BaseVoidPtr is the element type of "void **": an array of untyped
	// pointers.
	BaseVoidPtr
)

// Type is the canonical form of one raw vendor type string. Array is true
// for pointer spellings: "float *" maps to {BaseF32, Array: true}, which is
// distinct from plain "float" and is what drives the classifier.
type Type struct {
	Base  Base
	Array bool
}

// baseTypes maps normalized (const-stripped, space-collapsed, star-free)
// vendor spellings to their Base. Lookup failure is a fatal configuration
// error at the MapRaw call site; the table is exhaustively maintained
// against the database, never soft-defaulted.
var baseTypes = map[string]Base{
	"__m64":   BaseM64,
	"__m128":  BaseM128,
	"__m128d": BaseM128d,
	"__m128i": BaseM128i,
	"__m256":  BaseM256,
	"__m256d": BaseM256d,
	"__m256i": BaseM256i,
	"__m512":  BaseM512,
	"__m512d": BaseM512d,
	"__m512i": BaseM512i,

	"__mmask8":  BaseMask8,
	"__mmask16": BaseMask16,
	"__mmask32": BaseMask32,
	"__mmask64": BaseMask64,

	"char":               BaseI8,
	"signed char":        BaseI8,
	"unsigned char":      BaseU8,
	"short":              BaseI16,
	"unsigned short":     BaseU16,
	"int":                BaseI32,
	"signed int":         BaseI32,
	"unsigned":           BaseU32,
	"unsigned int":       BaseU32,
	"long long":          BaseI64,
	"unsigned long long": BaseU64,
	"__int8":             BaseI8,
	"__int16":            BaseI16,
	"__int32":            BaseI32,
	"unsigned __int32":   BaseU32,
	"__int64":            BaseI64,
	"unsigned __int64":   BaseU64,
	"size_t":             BaseU64,
	"float":              BaseF32,
	"double":             BaseF64,
	"void":               BaseVoid,

	// Enumerated C types are signed 32-bit integers on every supported ABI.
	"_MM_PERM_ENUM":           BaseI32,
	"_MM_CMPINT_ENUM":         BaseI32,
	"_MM_MANTISSA_NORM_ENUM":  BaseI32,
	"_MM_MANTISSA_SIGN_ENUM":  BaseI32,
	"_MM_UPCONV_PS_ENUM":      BaseI32,
	"_MM_UPCONV_PD_ENUM":      BaseI32,
	"_MM_UPCONV_EPI32_ENUM":   BaseI32,
	"_MM_UPCONV_EPI64_ENUM":   BaseI32,
	"_MM_DOWNCONV_PS_ENUM":    BaseI32,
	"_MM_DOWNCONV_PD_ENUM":    BaseI32,
	"_MM_DOWNCONV_EPI32_ENUM": BaseI32,
	"_MM_DOWNCONV_EPI64_ENUM": BaseI32,
	"_MM_BROADCAST32_ENUM":    BaseI32,
	"_MM_BROADCAST64_ENUM":    BaseI32,
	"_MM_EXP_ADJ_ENUM":        BaseI32,
	"_MM_ROUND_MODE_ENUM":     BaseI32,
	"const int":               BaseI32,
}

// MapRaw maps one raw vendor type string to its canonical Type. The mapping
// is total over the database; an unmapped string is a configuration error
// the caller must treat as fatal.
func MapRaw(raw string) (Type, error) {
	s := strings.Join(strings.Fields(raw), " ")
	stars := 0
	for strings.HasSuffix(s, "*") {
		stars++
		s = strings.TrimSpace(strings.TrimSuffix(s, "*"))
	}
	if stars > 0 {
		// const qualifiers are irrelevant once the pointer spelling is known.
		s = strings.TrimSpace(strings.TrimPrefix(s, "const "))
		s = strings.TrimSpace(strings.TrimSuffix(s, " const"))
	}

	base, ok := baseTypes[s]
	if !ok {
		return Type{}, fmt.Errorf("unmapped type %q", raw)
	}

	switch stars {
	case 0:
		return Type{Base: base}, nil
	case 1:
		return Type{Base: base, Array: true}, nil
	case 2:
		if base != BaseVoid {
			return Type{}, fmt.Errorf("unmapped type %q", raw)
		}
		return Type{Base: BaseVoidPtr, Array: true}, nil
	default:
		return Type{}, fmt.Errorf("unmapped type %q", raw)
	}
}

// IsVoid reports whether t is the plain no-value type.
func (t Type) IsVoid() bool { return t.Base == BaseVoid && !t.Array }

// IsUntypedPtr reports whether t is the generic "void *" pointer.
func (t Type) IsUntypedPtr() bool { return t.Base == BaseVoid && t.Array }

// IsVector reports whether t is a vector register or write-mask type.
func (t Type) IsVector() bool {
	return t.Base >= BaseM64 && t.Base <= BaseMask64 && !t.Array
}

// GoElem returns the Go type generated dispatch signatures use as the
// Container element for an array of this base. The untyped pointer has no
// fixed element; callers substitute the intrinsic's element type parameter.
func (t Type) GoElem() string {
	switch t.Base {
	case BaseM64:
		return "intrin.M64"
	case BaseM128:
		return "intrin.M128"
	case BaseM128d:
		return "intrin.M128d"
	case BaseM128i:
		return "intrin.M128i"
	case BaseM256:
		return "intrin.M256"
	case BaseM256d:
		return "intrin.M256d"
	case BaseM256i:
		return "intrin.M256i"
	case BaseM512:
		return "intrin.M512"
	case BaseM512d:
		return "intrin.M512d"
	case BaseM512i:
		return "intrin.M512i"
	case BaseMask8:
		return "intrin.Mask8"
	case BaseMask16:
		return "intrin.Mask16"
	case BaseMask32:
		return "intrin.Mask32"
	case BaseMask64:
		return "intrin.Mask64"
	case BaseI8:
		return "int8"
	case BaseI16:
		return "int16"
	case BaseI32:
		return "int32"
	case BaseI64:
		return "int64"
	case BaseU8:
		return "uint8"
	case BaseU16:
		return "uint16"
	case BaseU32:
		return "uint32"
	case BaseU64:
		return "uint64"
	case BaseF32:
		return "float32"
	case BaseF64:
		return "float64"
	default:
		return ""
	}
}

// CastType returns the C pointer type lowering casts an array operand to,
// derived from the raw spelling with spacing normalized:
// "float const *" becomes "float const*".
func CastType(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	s = strings.ReplaceAll(s, " *", "*")
	return s
}
