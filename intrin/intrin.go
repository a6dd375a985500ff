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

// Package intrin is the runtime support surface for code generated by
// intrgen. Generated units define one IR node struct per CPU intrinsic plus
// a dispatch function, a mirroring (rewrite) table, and a C-lowering table;
// all four reference the small set of types in this package.
//
// The package models expressions symbolically: an Expr is whatever the
// consuming optimizer threads through the tree, and a Node is one generated
// intrinsic invocation shape. Array and pointer parameters flow through the
// Container capability, which keeps dependency bookkeeping alive across
// reads, writes, and rewrites.
package intrin

// Expr is an operand in the consuming optimizer's expression tree. Generated
// IR nodes are Exprs, as are literals, symbols, and effect wrappers.
type Expr any

// Node is implemented by every generated IR node struct. Beyond the marker,
// nodes expose the source intrinsic's name and the C header that declares it.
type Node interface {
	Name() string
	Header() string
	isIntrinsicNode()
}

// NodeMarker is embedded by generated node structs to satisfy the Node
// marker method without repeating it per node.
type NodeMarker struct{}

func (NodeMarker) isIntrinsicNode() {}

// Rewriter is the substitution function a mirroring pass supplies: Apply
// maps each sub-argument of a matched node to its replacement.
type Rewriter interface {
	Apply(Expr) Expr
}

// RewriteFunc adapts a plain function to the Rewriter interface.
type RewriteFunc func(Expr) Expr

func (f RewriteFunc) Apply(e Expr) Expr { return f(e) }

// Summary is opaque effect metadata carried by Reflected wrappers. The
// optimizer owns its representation; this package only threads it through.
type Summary any

// Reflected wraps a node that was issued under an effect context, carrying
// the effect summary U and the effect dependencies Es. Mirroring a wrapped
// node must preserve both.
type Reflected struct {
	Node Expr
	U    Summary
	Es   []Expr
}

// WithEffects rewraps e in a Reflected carrying the given summary and
// effect dependencies.
func WithEffects(e Expr, u Summary, es []Expr) Expr {
	return &Reflected{Node: e, U: u, Es: es}
}

// MutableResult marks a constructing operation's result: the value is a
// freshly produced register/buffer the optimizer may treat as writable.
type MutableResult struct {
	Node Expr
}

// Mutable wraps e in a MutableResult marker.
func Mutable(e Expr) Expr { return &MutableResult{Node: e} }

// EffectMarker wraps a side-effecting operation that produces no value and
// touches no tracked container (e.g. fences, prefetches).
type EffectMarker struct {
	Node Expr
}

// Effect wraps e in an EffectMarker.
func Effect(e Expr) Expr { return &EffectMarker{Node: e} }

// Lit is a compile-time literal operand. Lowering recognizes literal zero
// offsets (and only those) for the textual "+ offset" elision.
type Lit struct {
	Value any
}

// Integral constrains the offset operands of generated dispatch functions.
type Integral interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Container is the capability surface array- and pointer-typed parameters
// are accessed through. Any storage representation works as long as it can
// perform a tracked read, perform a tracked write, and transform itself
// under a rewrite without losing its dependency bookkeeping.
type Container interface {
	// TrackedRead records a read of this container by node and returns the
	// expression the dispatch operation yields. deps are further containers
	// the same node reads.
	TrackedRead(node Node, deps ...Expr) Expr

	// TrackedWrite records a write of this container by node and returns
	// the (effectful) expression the dispatch operation yields. outs are
	// further containers the same node writes.
	TrackedWrite(node Node, outs ...Expr) Expr

	// TransformUnder rebuilds the container under a mirroring pass so that
	// container-specific bookkeeping survives the rewrite.
	TransformUnder(r Rewriter) Container
}

// ContainerOf fixes a Container's element type for generated dispatch
// signatures: a "float *" parameter is constrained to ContainerOf[float32],
// a "void *" parameter to ContainerOf[T] for a caller-chosen T.
type ContainerOf[E any] interface {
	Container
	Elem() E
}

// Vector register and mask value markers. Generated dispatch signatures use
// these as Container element types for pointer-to-register parameters
// (e.g. "__m128i *" becomes ContainerOf[M128i]).
type (
	M64   struct{}
	M128  struct{}
	M128d struct{}
	M128i struct{}
	M256  struct{}
	M256d struct{}
	M256i struct{}
	M512  struct{}
	M512d struct{}
	M512i struct{}

	Mask8  struct{}
	Mask16 struct{}
	Mask32 struct{}
	Mask64 struct{}
)

// Perf holds measured latency and throughput for one microarchitecture.
// Nil means unmeasured or variable, never zero.
type Perf struct {
	Latency    *float64
	Throughput *float64
}

// Measured returns a pointer to v, for building Perf literals in generated
// metadata tables.
func Measured(v float64) *float64 { return &v }
