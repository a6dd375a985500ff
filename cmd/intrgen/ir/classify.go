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
	"slices"
)

// Convention is the calling convention bucket a classified intrinsic falls
// into. Every intrinsic lands in exactly one bucket; selection follows the
// precedence of Classify.
type Convention int

const (
	// ConvConstructing returns a fresh array or untyped pointer; the
	// dispatch operation wraps the node in a mutable-result marker.
	ConvConstructing Convention = iota

	// ConvReading loads from a container; dispatch delegates to the
	// container's tracked-read hook.
	ConvReading

	// ConvWriting stores into a container; dispatch delegates to the
	// container's tracked-write hook.
	ConvWriting

	// ConvEffectful produces no value and touches no container; dispatch
	// wraps the node in a generic effect marker.
	ConvEffectful

	// ConvPure returns the node construction directly.
	ConvPure
)

// String returns a short name for the convention.
func (c Convention) String() string {
	switch c {
	case ConvConstructing:
		return "constructing"
	case ConvReading:
		return "reading"
	case ConvWriting:
		return "writing"
	case ConvEffectful:
		return "effectful"
	case ConvPure:
		return "pure"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// Class is the result of classifying one Intrinsic: the mapped types of its
// signature plus everything the code templates select on. Pure function of
// the Intrinsic's fields.
type Class struct {
	Convention Convention

	// Return is the mapped return type.
	Return Type

	// ParamTypes holds the mapped type of each scalar parameter, parallel
	// to Intrinsic.Params.
	ParamTypes []Type

	// ArrayParams indexes the scalar parameters whose mapped type is an
	// array type, in declaration order. Parallel to Intrinsic.OffsetParams.
	ArrayParams []int

	// VoidPtrParams indexes the scalar parameters mapped to the untyped
	// pointer.
	VoidPtrParams []int

	// ArrayReturn is true when the return type is array-valued or the
	// untyped pointer.
	ArrayReturn bool

	// NeedsElemType is true when the generated operation carries an extra
	// element type parameter for untyped-pointer instantiation.
	NeedsElemType bool
}

// HasArrayParams reports whether any scalar parameter maps to an array type.
func (c *Class) HasArrayParams() bool { return len(c.ArrayParams) > 0 }

// HasVoidPtrParams reports whether any scalar parameter is an untyped pointer.
func (c *Class) HasVoidPtrParams() bool { return len(c.VoidPtrParams) > 0 }

// Generic reports whether the generated operation needs type parameters at
// all: any array involvement, in parameters or return.
func (c *Class) Generic() bool {
	return c.HasArrayParams() || c.ArrayReturn
}

// Classify maps every raw type of the intrinsic through the type table and
// selects the calling convention. A type the table does not cover makes the
// whole run fail; there is no soft default.
func Classify(in *Intrinsic) (*Class, error) {
	ret, err := MapRaw(in.ReturnRaw)
	if err != nil {
		return nil, fmt.Errorf("intrinsic %s: return: %w", in.Name, err)
	}

	c := &Class{Return: ret}
	for i, p := range in.Params {
		t, err := MapRaw(p.Raw)
		if err != nil {
			return nil, fmt.Errorf("intrinsic %s: parameter %s: %w", in.Name, p.Name, err)
		}
		c.ParamTypes = append(c.ParamTypes, t)
		if t.Array {
			c.ArrayParams = append(c.ArrayParams, i)
			if t.IsUntypedPtr() {
				c.VoidPtrParams = append(c.VoidPtrParams, i)
			}
		}
	}

	if len(c.ArrayParams) != len(in.OffsetParams) {
		return nil, fmt.Errorf("intrinsic %s: %d array parameters but %d offset parameters",
			in.Name, len(c.ArrayParams), len(in.OffsetParams))
	}

	c.ArrayReturn = ret.Array || ret.IsUntypedPtr()
	c.NeedsElemType = c.HasVoidPtrParams()

	// Bucket selection, in precedence order. The order matters: a Load with
	// an array parameter is reading, not writing.
	switch {
	case c.ArrayReturn:
		c.Convention = ConvConstructing
	case slices.Contains(in.Categories, CatLoad):
		c.Convention = ConvReading
	case c.HasArrayParams():
		c.Convention = ConvWriting
	case ret.IsVoid():
		c.Convention = ConvEffectful
	default:
		c.Convention = ConvPure
	}

	// Reading and writing dispatch through a container hook, so both need an
	// array parameter to dispatch on. A Load record without one is malformed.
	if (c.Convention == ConvReading || c.Convention == ConvWriting) && !c.HasArrayParams() {
		return nil, fmt.Errorf("intrinsic %s: %s convention requires an array parameter", in.Name, c.Convention)
	}

	return c, nil
}
