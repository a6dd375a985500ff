package ir

import (
	"strings"
	"testing"
)

func TestGoName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"_mm_add_epi32", "MMAddEpi32"},
		{"_mm256_loadu_ps", "MM256LoaduPs"},
		{"_mm512_mask_add_ps", "MM512MaskAddPs"},
		{"_rdrand16_step", "Rdrand16Step"},
		{"_mm_pause", "MMPause"},
		{"_mm_clmulepi64_si128", "MMClmulepi64Si128"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &Intrinsic{Name: tt.name}
			if got := in.GoName(); got != tt.want {
				t.Errorf("GoName(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestNewParamSanitizesKeywords(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a", "a"},
		{"mem_addr", "mem_addr"},
		{"type", "type_"},
		{"range", "range_"},
		{"func", "func_"},
	}

	for _, tt := range tests {
		p := NewParam(tt.name, "int")
		if p.Name != tt.want {
			t.Errorf("NewParam(%q).Name = %q, want %q", tt.name, p.Name, tt.want)
		}
	}
}

func TestNormalizeTech(t *testing.T) {
	tests := []struct {
		tech string
		want string
	}{
		{"SSE4.1", "SSE41"},
		{"AVX-512", "AVX512"},
		{"KNC/AVX-512", "KNCAVX512"},
		{"SSE2", "SSE2"},
	}

	for _, tt := range tests {
		if got := NormalizeTech(tt.tech); got != tt.want {
			t.Errorf("NormalizeTech(%q) = %q, want %q", tt.tech, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("Elementary Math Functions")
	if err != nil {
		t.Fatalf("ParseCategory: %v", err)
	}
	if c != CatElementaryMath {
		t.Errorf("ParseCategory = %v, want CatElementaryMath", c)
	}

	if _, err := ParseCategory("Quantum"); err == nil {
		t.Fatal("ParseCategory(\"Quantum\") succeeded, want error")
	} else if !strings.Contains(err.Error(), "category unknown") {
		t.Errorf("error = %v, want a category-unknown diagnostic", err)
	}
}

func TestParseMicroArch(t *testing.T) {
	a, err := ParseMicroArch("Ivy Bridge")
	if err != nil {
		t.Fatalf("ParseMicroArch: %v", err)
	}
	if a != ArchIvyBridge {
		t.Errorf("ParseMicroArch = %v, want ArchIvyBridge", a)
	}

	if _, err := ParseMicroArch("Pentium"); err == nil {
		t.Fatal("ParseMicroArch(\"Pentium\") succeeded, want error")
	}
}
