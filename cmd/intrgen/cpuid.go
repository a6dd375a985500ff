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

import "golang.org/x/sys/cpu"

// cpuidProbe maps the database's CPUID flag strings to the host feature
// bits x/sys/cpu can probe at runtime. Flags without a probe (uncommon
// extensions, non-x86 hosts) report as unknown rather than unsupported.
var cpuidProbe = map[string]*bool{
	"SSE2":       &cpu.X86.HasSSE2,
	"SSE3":       &cpu.X86.HasSSE3,
	"SSSE3":      &cpu.X86.HasSSSE3,
	"SSE4.1":     &cpu.X86.HasSSE41,
	"SSE41":      &cpu.X86.HasSSE41,
	"SSE4.2":     &cpu.X86.HasSSE42,
	"SSE42":      &cpu.X86.HasSSE42,
	"AVX":        &cpu.X86.HasAVX,
	"AVX2":       &cpu.X86.HasAVX2,
	"FMA":        &cpu.X86.HasFMA,
	"AVX512F":    &cpu.X86.HasAVX512F,
	"AVX512BW":   &cpu.X86.HasAVX512BW,
	"AVX512CD":   &cpu.X86.HasAVX512CD,
	"AVX512DQ":   &cpu.X86.HasAVX512DQ,
	"AVX512VL":   &cpu.X86.HasAVX512VL,
	"AVX512ER":   &cpu.X86.HasAVX512ER,
	"AVX512PF":   &cpu.X86.HasAVX512PF,
	"AVX512VBMI": &cpu.X86.HasAVX512VBMI,
	"AVX512IFMA": &cpu.X86.HasAVX512IFMA,
	"BMI1":       &cpu.X86.HasBMI1,
	"BMI2":       &cpu.X86.HasBMI2,
	"POPCNT":     &cpu.X86.HasPOPCNT,
	"AES":        &cpu.X86.HasAES,
	"PCLMULQDQ":  &cpu.X86.HasPCLMULQDQ,
	"RDRAND":     &cpu.X86.HasRDRAND,
	"RDSEED":     &cpu.X86.HasRDSEED,
	"ADX":        &cpu.X86.HasADX,
	"OSXSAVE":    &cpu.X86.HasOSXSAVE,
}

// hostSupports reports whether the running CPU supports every flag an
// intrinsic requires. known is false when any flag has no runtime probe,
// in which case ok is meaningless.
func hostSupports(flags []string) (ok, known bool) {
	ok = true
	for _, f := range flags {
		probe, have := cpuidProbe[f]
		if !have {
			return false, false
		}
		if !*probe {
			ok = false
		}
	}
	return ok, true
}
