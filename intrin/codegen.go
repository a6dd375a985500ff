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

import "fmt"

// CodegenEnv carries per-translation-unit state while generated lowering
// tables turn IR nodes into C source text: the set of headers the emitted
// code needs, and how operands and destinations render.
type CodegenEnv struct {
	// Headers collects the C headers required by emitted calls.
	Headers map[string]bool

	// Dst names the destination variable for a value-producing node.
	Dst func(Node) string

	// Operand renders one operand as C source text.
	Operand func(Expr) string
}

// NewCodegenEnv returns an env with default symbolic rendering, suitable
// for tests and for drivers that name operands themselves.
func NewCodegenEnv() *CodegenEnv {
	return &CodegenEnv{
		Headers: make(map[string]bool),
		Dst:     func(n Node) string { return "v" },
		Operand: defaultOperand,
	}
}

func defaultOperand(e Expr) string {
	switch v := e.(type) {
	case Lit:
		return fmt.Sprint(v.Value)
	case *Lit:
		return fmt.Sprint(v.Value)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// RequireHeader records that the emitted code needs header h.
func (e *CodegenEnv) RequireHeader(h string) {
	if e.Headers == nil {
		e.Headers = make(map[string]bool)
	}
	e.Headers[h] = true
}

// CastPtr renders an array operand as the C cast expression
// "(ctype) (base + offset)". The "+ offset" term is elided only when the
// offset operand is the literal constant 0. The elision is textual: a
// symbolic offset whose runtime value happens to be zero keeps the term.
func (e *CodegenEnv) CastPtr(ctype string, base, offset Expr) string {
	if IsLitZero(offset) {
		return fmt.Sprintf("(%s) (%s)", ctype, e.Operand(base))
	}
	return fmt.Sprintf("(%s) (%s + %s)", ctype, e.Operand(base), e.Operand(offset))
}

// IsLitZero reports whether e is the literal constant 0.
func IsLitZero(e Expr) bool {
	lit, ok := e.(Lit)
	if !ok {
		p, pok := e.(*Lit)
		if !pok {
			return false
		}
		lit = *p
	}
	switch v := lit.Value.(type) {
	case int:
		return v == 0
	case int8:
		return v == 0
	case int16:
		return v == 0
	case int32:
		return v == 0
	case int64:
		return v == 0
	case uint:
		return v == 0
	case uint8:
		return v == 0
	case uint16:
		return v == 0
	case uint32:
		return v == 0
	case uint64:
		return v == 0
	default:
		return false
	}
}
