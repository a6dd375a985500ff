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
	"strings"

	"github.com/ajroetker/go-intrinsics/cmd/intrgen/ir"
)

// classified pairs an intrinsic with its classification for template
// generation. The four artifacts are all derived from this one value, which
// is what keeps them mutually consistent.
type classified struct {
	In  *ir.Intrinsic
	Cls *ir.Class
}

// classifyAll classifies every intrinsic of a unit up front so a malformed
// record aborts before any artifact text is produced.
func classifyAll(ins []*ir.Intrinsic) ([]classified, error) {
	out := make([]classified, 0, len(ins))
	for _, in := range ins {
		cls, err := ir.Classify(in)
		if err != nil {
			return nil, err
		}
		if in.GoName() == in.Name {
			// The generated identifier must never shadow the source name.
			return nil, fmt.Errorf("intrinsic %s: generated name collides with record name", in.Name)
		}
		out = append(out, classified{In: in, Cls: cls})
	}
	return out, nil
}

// fieldName converts a parameter name to its exported node field name.
func fieldName(p ir.Param) string {
	return strings.ToUpper(p.Name[:1]) + p.Name[1:]
}

// coreName is the unexported constructor shared by the dispatch function
// and the mirror rule: the leading initialism is lowered in full, so
// "MMAddEpi32" becomes "mmAddEpi32" and "Rdrand16Step" becomes
// "rdrand16Step".
func coreName(goName string) string {
	upper := 0
	for upper < len(goName) && goName[upper] >= 'A' && goName[upper] <= 'Z' {
		upper++
	}
	switch {
	case upper == 0:
		return goName
	case upper == len(goName):
		return strings.ToLower(goName)
	case upper == 1:
		return strings.ToLower(goName[:1]) + goName[1:]
	default:
		// Keep the last upper letter as the start of the next word unless it
		// is followed by a digit run ("MM256"-style prefixes).
		if goName[upper] >= 'a' && goName[upper] <= 'z' {
			return strings.ToLower(goName[:upper-1]) + goName[upper-1:]
		}
		return strings.ToLower(goName[:upper]) + goName[upper:]
	}
}

// containerParamNames names the container type parameters of a generic
// dispatch signature, one per array parameter ("A", "B", ...), or a single
// "A" for a constructing operation whose only array involvement is the
// return value.
var containerParamNames = []string{"A", "B", "C", "D", "E", "F"}

// genericClause builds the type parameter list for a generic dispatch
// function: one container parameter per array parameter, a shared integral
// offset parameter, and a trailing element type parameter when an untyped
// pointer needs instantiating.
func genericClause(c classified) (clause string, containers map[int]string, err error) {
	if !c.Cls.Generic() {
		return "", nil, nil
	}

	var parts []string
	containers = make(map[int]string)

	usedT := false
	elemFor := func(t ir.Type) string {
		if t.IsUntypedPtr() || t.Base == ir.BaseVoidPtr {
			usedT = true
			return "T"
		}
		return t.GoElem()
	}

	next := 0
	for _, idx := range c.Cls.ArrayParams {
		if next >= len(containerParamNames) {
			return "", nil, fmt.Errorf("intrinsic %s: too many array parameters", c.In.Name)
		}
		name := containerParamNames[next]
		next++
		containers[idx] = name
		parts = append(parts, fmt.Sprintf("%s intrin.ContainerOf[%s]", name, elemFor(c.Cls.ParamTypes[idx])))
	}
	if len(parts) == 0 {
		// Array return with no array parameters: the caller still chooses
		// the result container.
		parts = append(parts, fmt.Sprintf("A intrin.ContainerOf[%s]", elemFor(c.Cls.Return)))
	}

	parts = append(parts, "O intrin.Integral")

	if usedT {
		parts = append(parts, "T any")
	}

	return "[" + strings.Join(parts, ", ") + "]", containers, nil
}

// writeNode emits the IR node struct and its metadata methods.
func writeNode(buf *bytes.Buffer, c classified) {
	in, cls := c.In, c.Cls
	goName := in.GoName()

	fmt.Fprintf(buf, "// %sNode is the IR node for %s (%s).\n", goName, in.Name, in.Tech)
	fmt.Fprintf(buf, "type %sNode struct {\n", goName)
	fmt.Fprintf(buf, "\tintrin.NodeMarker\n")
	if len(in.Params) > 0 || len(in.OffsetParams) > 0 {
		fmt.Fprintf(buf, "\n")
	}
	for i, p := range in.Params {
		if cls.ParamTypes[i].Array {
			fmt.Fprintf(buf, "\t%s intrin.Container // %s\n", fieldName(p), ir.CastType(p.Raw))
		} else {
			fmt.Fprintf(buf, "\t%s intrin.Expr // %s\n", fieldName(p), ir.CastType(p.Raw))
		}
	}
	for _, p := range in.OffsetParams {
		fmt.Fprintf(buf, "\t%s intrin.Expr // __int64\n", fieldName(p))
	}
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "func (*%sNode) Name() string   { return %q }\n", goName, in.Name)
	fmt.Fprintf(buf, "func (*%sNode) Header() string { return %q }\n\n", goName, in.Header)

	fmt.Fprintf(buf, "func (*%sNode) Categories() []string { return %s }\n", goName, stringSliceLit(categoryStrings(in)))
	fmt.Fprintf(buf, "func (*%sNode) Kinds() []string      { return %s }\n\n", goName, stringSliceLit(kindStrings(in)))

	writePerfMethod(buf, c)
}

func categoryStrings(in *ir.Intrinsic) []string {
	out := make([]string, len(in.Categories))
	for i, c := range in.Categories {
		out[i] = c.String()
	}
	return out
}

func kindStrings(in *ir.Intrinsic) []string {
	out := make([]string, len(in.Kinds))
	for i, k := range in.Kinds {
		out[i] = k.String()
	}
	return out
}

func stringSliceLit(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[]string{" + strings.Join(quoted, ", ") + "}"
}

// writePerfMethod emits the Perf metadata method, in a fixed
// microarchitecture order so regeneration is reproducible.
func writePerfMethod(buf *bytes.Buffer, c classified) {
	in := c.In
	goName := in.GoName()

	if len(in.Perf) == 0 {
		fmt.Fprintf(buf, "func (*%sNode) Perf() map[string]intrin.Perf { return nil }\n\n", goName)
		return
	}

	fmt.Fprintf(buf, "func (*%sNode) Perf() map[string]intrin.Perf {\n", goName)
	fmt.Fprintf(buf, "\treturn map[string]intrin.Perf{\n")
	for arch := ir.ArchNehalem; arch <= ir.ArchKnightsLanding; arch++ {
		p, ok := in.Perf[arch]
		if !ok {
			continue
		}
		fmt.Fprintf(buf, "\t\t%q: {Latency: %s, Throughput: %s},\n",
			arch.String(), floatPtrLit(p.Latency), floatPtrLit(p.Throughput))
	}
	fmt.Fprintf(buf, "\t}\n}\n\n")
}

func floatPtrLit(v *float64) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("intrin.Measured(%g)", *v)
}

// writeDispatch emits the public generic dispatch function and the
// unexported core constructor the mirror rule reuses. The body shape is
// selected by the calling-convention bucket.
func writeDispatch(buf *bytes.Buffer, c classified) error {
	in, cls := c.In, c.Cls
	goName := in.GoName()
	core := coreName(goName)

	clause, containers, err := genericClause(c)
	if err != nil {
		return err
	}

	// Public signature: scalar parameters in declaration order, offset
	// parameters appended as a parallel list.
	var pub, coreParams, coreArgs []string
	for i, p := range in.Params {
		if name, ok := containers[i]; ok {
			pub = append(pub, fmt.Sprintf("%s %s", p.Name, name))
			coreParams = append(coreParams, fmt.Sprintf("%s intrin.Container", p.Name))
		} else {
			pub = append(pub, fmt.Sprintf("%s intrin.Expr", p.Name))
			coreParams = append(coreParams, fmt.Sprintf("%s intrin.Expr", p.Name))
		}
		coreArgs = append(coreArgs, p.Name)
	}
	for _, p := range in.OffsetParams {
		pub = append(pub, fmt.Sprintf("%s O", p.Name))
		coreParams = append(coreParams, fmt.Sprintf("%s intrin.Expr", p.Name))
		coreArgs = append(coreArgs, p.Name)
	}

	fmt.Fprintf(buf, "// %s%s: %s\n", goName, clauseDocSuffix(clause), oneLine(in.Description))
	fmt.Fprintf(buf, "//\n// %s [%s]\n", in.Name, strings.Join(in.CPUID, ", "))
	fmt.Fprintf(buf, "func %s%s(%s) intrin.Expr {\n", goName, clause, strings.Join(pub, ", "))
	fmt.Fprintf(buf, "\treturn %s(%s)\n", core, strings.Join(coreArgs, ", "))
	fmt.Fprintf(buf, "}\n\n")

	fmt.Fprintf(buf, "func %s(%s) intrin.Expr {\n", core, strings.Join(coreParams, ", "))
	fmt.Fprintf(buf, "\tn := &%sNode{%s}\n", goName, nodeLiteralFields(c))

	switch cls.Convention {
	case ir.ConvConstructing:
		fmt.Fprintf(buf, "\treturn intrin.Mutable(n)\n")
	case ir.ConvReading:
		first, rest := hookArgs(c)
		fmt.Fprintf(buf, "\treturn %s.TrackedRead(n%s)\n", first, rest)
	case ir.ConvWriting:
		first, rest := hookArgs(c)
		fmt.Fprintf(buf, "\treturn %s.TrackedWrite(n%s)\n", first, rest)
	case ir.ConvEffectful:
		fmt.Fprintf(buf, "\treturn intrin.Effect(n)\n")
	case ir.ConvPure:
		fmt.Fprintf(buf, "\treturn n\n")
	}
	fmt.Fprintf(buf, "}\n\n")
	return nil
}

func clauseDocSuffix(clause string) string {
	if clause == "" {
		return ""
	}
	return " (generic)"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nodeLiteralFields builds the composite literal body shared by the
// dispatch core: every scalar parameter then every offset parameter.
func nodeLiteralFields(c classified) string {
	var parts []string
	for _, p := range c.In.Params {
		parts = append(parts, fmt.Sprintf("%s: %s", fieldName(p), p.Name))
	}
	for _, p := range c.In.OffsetParams {
		parts = append(parts, fmt.Sprintf("%s: %s", fieldName(p), p.Name))
	}
	return strings.Join(parts, ", ")
}

// hookArgs returns the receiver of the tracked read/write hook (the first
// array parameter) and the remaining array parameters as tracked extras.
func hookArgs(c classified) (first, rest string) {
	idxs := c.Cls.ArrayParams
	first = c.In.Params[idxs[0]].Name
	if len(idxs) > 1 {
		var extras []string
		for _, i := range idxs[1:] {
			extras = append(extras, c.In.Params[i].Name)
		}
		rest = ", " + strings.Join(extras, ", ")
	}
	return first, rest
}

// mirrorRebuild renders the call that rebuilds a node under a rewrite:
// every operand through f.Apply, container operands through their own
// TransformUnder hook so dependency bookkeeping survives.
func mirrorRebuild(c classified, recv string) string {
	var args []string
	for i, p := range c.In.Params {
		if c.Cls.ParamTypes[i].Array {
			args = append(args, fmt.Sprintf("%s.%s.TransformUnder(f)", recv, fieldName(p)))
		} else {
			args = append(args, fmt.Sprintf("f.Apply(%s.%s)", recv, fieldName(p)))
		}
	}
	for _, p := range c.In.OffsetParams {
		args = append(args, fmt.Sprintf("f.Apply(%s.%s)", recv, fieldName(p)))
	}
	return fmt.Sprintf("%s(%s)", coreName(c.In.GoName()), strings.Join(args, ", "))
}

// writeMirror emits the unit's rewrite table: one case per node, plus the
// reflected-effect wrapper cases that preserve the summary and effect
// dependencies of the original.
func writeMirror(buf *bytes.Buffer, unitName string, items []classified) {
	fmt.Fprintf(buf, "// Mirror%s rewrites one %s node with every sub-argument passed\n", unitName, unitName)
	fmt.Fprintf(buf, "// through f, preserving effect wrappers. It reports whether n matched.\n")
	fmt.Fprintf(buf, "func Mirror%s(n intrin.Expr, f intrin.Rewriter) (intrin.Expr, bool) {\n", unitName)
	fmt.Fprintf(buf, "\tswitch v := n.(type) {\n")
	for _, c := range items {
		fmt.Fprintf(buf, "\tcase *%sNode:\n", c.In.GoName())
		fmt.Fprintf(buf, "\t\treturn %s, true\n", mirrorRebuild(c, "v"))
	}
	fmt.Fprintf(buf, "\tcase *intrin.Reflected:\n")
	fmt.Fprintf(buf, "\t\tswitch inner := v.Node.(type) {\n")
	for _, c := range items {
		fmt.Fprintf(buf, "\t\tcase *%sNode:\n", c.In.GoName())
		fmt.Fprintf(buf, "\t\t\treturn intrin.WithEffects(%s, v.U, v.Es), true\n", mirrorRebuild(c, "inner"))
	}
	fmt.Fprintf(buf, "\t\t}\n")
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\treturn nil, false\n")
	fmt.Fprintf(buf, "}\n")
}

// writeLowerCase emits one node's C lowering: header requirement, then a
// bare call statement for void intrinsics or a value statement otherwise.
// Array operands render through env.CastPtr, which elides a literal-zero
// offset textually.
func writeLowerCase(buf *bytes.Buffer, c classified) {
	in, cls := c.In, c.Cls
	goName := in.GoName()

	fmt.Fprintf(buf, "\tcase *%sNode:\n", goName)
	fmt.Fprintf(buf, "\t\tenv.RequireHeader(%q)\n", in.Header)

	var args []string
	offsetOf := make(map[int]string)
	for k, idx := range cls.ArrayParams {
		offsetOf[idx] = fieldName(in.OffsetParams[k])
	}
	for i, p := range in.Params {
		if cls.ParamTypes[i].Array {
			args = append(args, fmt.Sprintf("env.CastPtr(%q, v.%s, v.%s)",
				ir.CastType(p.Raw), fieldName(p), offsetOf[i]))
		} else {
			args = append(args, fmt.Sprintf("env.Operand(v.%s)", fieldName(p)))
		}
	}

	verbs := strings.TrimSuffix(strings.Repeat("%s, ", len(args)), ", ")
	argList := strings.Join(args, ", ")
	if cls.Return.IsVoid() {
		if len(args) == 0 {
			fmt.Fprintf(buf, "\t\tfmt.Fprintf(w, \"%s();\\n\")\n", in.Name)
		} else {
			fmt.Fprintf(buf, "\t\tfmt.Fprintf(w, \"%s(%s);\\n\", %s)\n", in.Name, verbs, argList)
		}
	} else {
		if len(args) == 0 {
			fmt.Fprintf(buf, "\t\tfmt.Fprintf(w, \"%%s = %s();\\n\", env.Dst(v))\n", in.Name)
		} else {
			fmt.Fprintf(buf, "\t\tfmt.Fprintf(w, \"%%s = %s(%s);\\n\", env.Dst(v), %s)\n", in.Name, verbs, argList)
		}
	}
	fmt.Fprintf(buf, "\t\treturn true\n")
}

// writeLower emits the unit's C lowering table.
func writeLower(buf *bytes.Buffer, unitName string, items []classified) {
	fmt.Fprintf(buf, "// Lower%s emits the C call statement for one %s node and records\n", unitName, unitName)
	fmt.Fprintf(buf, "// the headers it requires. It reports whether n matched.\n")
	fmt.Fprintf(buf, "func Lower%s(w io.Writer, n intrin.Node, env *intrin.CodegenEnv) bool {\n", unitName)
	fmt.Fprintf(buf, "\tswitch v := n.(type) {\n")
	for _, c := range items {
		writeLowerCase(buf, c)
	}
	fmt.Fprintf(buf, "\t}\n")
	fmt.Fprintf(buf, "\treturn false\n")
	fmt.Fprintf(buf, "}\n")
}
