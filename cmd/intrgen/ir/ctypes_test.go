package ir

import (
	"strings"
	"testing"
)

func TestMapRaw(t *testing.T) {
	tests := []struct {
		raw     string
		want    Type
		wantErr bool
	}{
		{"__m128i", Type{Base: BaseM128i}, false},
		{"__m512d", Type{Base: BaseM512d}, false},
		{"__mmask16", Type{Base: BaseMask16}, false},
		{"int", Type{Base: BaseI32}, false},
		{"unsigned __int64", Type{Base: BaseU64}, false},
		{"float", Type{Base: BaseF32}, false},
		{"void", Type{Base: BaseVoid}, false},
		{"_MM_PERM_ENUM", Type{Base: BaseI32}, false},

		// Pointer spellings map to "array of T", distinct from plain T.
		{"float *", Type{Base: BaseF32, Array: true}, false},
		{"float*", Type{Base: BaseF32, Array: true}, false},
		{"const float *", Type{Base: BaseF32, Array: true}, false},
		{"float const *", Type{Base: BaseF32, Array: true}, false},
		{"__m128i *", Type{Base: BaseM128i, Array: true}, false},
		{"void *", Type{Base: BaseVoid, Array: true}, false},
		{"void **", Type{Base: BaseVoidPtr, Array: true}, false},
		{"double  *", Type{Base: BaseF64, Array: true}, false},

		{"struct siginfo", Type{}, true},
		{"int ***", Type{}, true},
		{"float **", Type{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := MapRaw(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MapRaw(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				if !strings.Contains(err.Error(), "unmapped type") {
					t.Errorf("MapRaw(%q) error = %v, want an unmapped-type diagnostic", tt.raw, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("MapRaw(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTypePredicates(t *testing.T) {
	voidPtr, err := MapRaw("void *")
	if err != nil {
		t.Fatal(err)
	}
	if !voidPtr.IsUntypedPtr() {
		t.Error("void * must be the untyped pointer")
	}
	if voidPtr.IsVoid() {
		t.Error("void * must not be the plain no-value type")
	}

	vec, _ := MapRaw("__m256")
	if !vec.IsVector() {
		t.Error("__m256 must be a vector type")
	}
	vecPtr, _ := MapRaw("__m256 *")
	if vecPtr.IsVector() {
		t.Error("__m256 * is an array type, not a vector value")
	}
}

func TestGoElem(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"float *", "float32"},
		{"__int64 *", "int64"},
		{"__m128i *", "intrin.M128i"},
		{"__mmask8 *", "intrin.Mask8"},
	}
	for _, tt := range tests {
		typ, err := MapRaw(tt.raw)
		if err != nil {
			t.Fatalf("MapRaw(%q): %v", tt.raw, err)
		}
		if got := typ.GoElem(); got != tt.want {
			t.Errorf("GoElem(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestCastType(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"float const *", "float const*"},
		{"const float*", "const float*"},
		{"__m128i  *", "__m128i*"},
		{"void **", "void**"},
	}
	for _, tt := range tests {
		if got := CastType(tt.raw); got != tt.want {
			t.Errorf("CastType(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
