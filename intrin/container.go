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

package intrin

// SliceContainer is the reference Container backed by a contiguous Go
// slice. It satisfies ContainerOf[T] and keeps enough dependency
// bookkeeping for an optimizer (or a test) to observe the order of tracked
// reads and writes and to verify that a rewrite preserved them.
type SliceContainer[T any] struct {
	Data []T

	reads  []Node
	writes []Node
	deps   []Expr
}

// NewSliceContainer wraps data in a SliceContainer.
func NewSliceContainer[T any](data []T) *SliceContainer[T] {
	return &SliceContainer[T]{Data: data}
}

// Elem fixes the element type; the value is never used.
func (c *SliceContainer[T]) Elem() (zero T) { return }

// Reads returns the nodes that performed tracked reads, in order.
func (c *SliceContainer[T]) Reads() []Node { return c.reads }

// Writes returns the nodes that performed tracked writes, in order.
func (c *SliceContainer[T]) Writes() []Node { return c.writes }

// Deps returns the accumulated cross-container dependencies.
func (c *SliceContainer[T]) Deps() []Expr { return c.deps }

func (c *SliceContainer[T]) TrackedRead(node Node, deps ...Expr) Expr {
	c.reads = append(c.reads, node)
	c.deps = append(c.deps, deps...)
	return node
}

func (c *SliceContainer[T]) TrackedWrite(node Node, outs ...Expr) Expr {
	c.writes = append(c.writes, node)
	c.deps = append(c.deps, outs...)
	return Effect(node)
}

// TransformUnder rebuilds the container for a mirrored tree. The backing
// slice is shared; the recorded dependencies are rewritten through r so
// container-specific bookkeeping survives the rewrite.
func (c *SliceContainer[T]) TransformUnder(r Rewriter) Container {
	out := &SliceContainer[T]{
		Data:   c.Data,
		reads:  append([]Node(nil), c.reads...),
		writes: append([]Node(nil), c.writes...),
	}
	for _, d := range c.deps {
		out.deps = append(out.deps, r.Apply(d))
	}
	return out
}
