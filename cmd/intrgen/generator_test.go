package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajroetker/go-intrinsics/cmd/intrgen/ir"
)

func simpleRecord(name, tech string) string {
	return fmt.Sprintf(`
  <intrinsic name=%q tech=%q>
    <type>Integer</type>
    <CPUID>SSE2</CPUID>
    <category>Arithmetic</category>
    <return type="__m128i"/>
    <parameter varname="a" type="__m128i"/>
    <header>emmintrin.h</header>
  </intrinsic>`, name, tech)
}

func TestGroupByTechKeepsFirstSeenOrder(t *testing.T) {
	ins := []*ir.Intrinsic{
		{Name: "_a", Tech: "SSE2"},
		{Name: "_b", Tech: "AVX"},
		{Name: "_c", Tech: "SSE2"},
		{Name: "_d", Tech: "MMX"},
	}
	groups, order := groupByTech(ins)

	wantOrder := []string{"SSE2", "AVX", "MMX"}
	if len(order) != len(wantOrder) {
		t.Fatalf("order = %v, want %v", order, wantOrder)
	}
	for i := range wantOrder {
		if order[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", order, wantOrder)
		}
	}
	if len(groups["SSE2"]) != 2 || groups["SSE2"][0].Name != "_a" || groups["SSE2"][1].Name != "_c" {
		t.Errorf("SSE2 group = %v, want [_a _c] in order", groups["SSE2"])
	}
}

func TestDedupNamesAcrossGroups(t *testing.T) {
	emitted := make(map[string]bool)

	g1 := []*ir.Intrinsic{{Name: "_mm_dup"}, {Name: "_mm_only1"}}
	kept1, dropped1 := dedupNames(g1, emitted)
	if len(kept1) != 2 || len(dropped1) != 0 {
		t.Fatalf("group 1: kept %d dropped %d, want 2/0", len(kept1), len(dropped1))
	}

	// The same name in a later group loses: first occurrence wins.
	g2 := []*ir.Intrinsic{{Name: "_mm_dup"}, {Name: "_mm_only2"}}
	kept2, dropped2 := dedupNames(g2, emitted)
	if len(kept2) != 1 || kept2[0].Name != "_mm_only2" {
		t.Errorf("group 2 kept = %v, want [_mm_only2]", kept2)
	}
	if len(dropped2) != 1 || dropped2[0] != "_mm_dup" {
		t.Errorf("group 2 dropped = %v, want [_mm_dup]", dropped2)
	}
}

func TestRunSmallGroup(t *testing.T) {
	outDir := t.TempDir()
	gen := &Generator{
		InputFile:  writeDB(t, db(addRecord, loadRecord)),
		OutputDir:  outDir,
		PackageOut: "intrinsics",
	}
	if err := gen.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, f := range []string{"sse2.gen.go", "sse2_lower.gen.go", "avx.gen.go", "avx_lower.gen.go", "sse2_stats.txt", "avx_stats.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, f)); err != nil {
			t.Errorf("missing output file %s: %v", f, err)
		}
	}

	stats, err := os.ReadFile(filepath.Join(outDir, "avx_stats.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stats), "pointer arguments: 1") {
		t.Errorf("avx stats = %q, want pointer argument census", stats)
	}
	if !strings.Contains(string(stats), "_mm256_loadu_ps (mem_addr)") {
		t.Errorf("avx stats = %q, want the pointer intrinsic named", stats)
	}
}

func TestRunPartitionsOversizedGroup(t *testing.T) {
	// 3*cap + 5 records must yield exactly 4 chunks: 3 full, 1 of size 5.
	const unitCap = 8
	var records []string
	for i := 0; i < 3*unitCap+5; i++ {
		records = append(records, simpleRecord(fmt.Sprintf("_mm_op%02d", i), "SSE2"))
	}

	outDir := t.TempDir()
	gen := &Generator{
		InputFile:  writeDB(t, db(records...)),
		OutputDir:  outDir,
		PackageOut: "intrinsics",
		UnitCap:    unitCap,
	}
	if err := gen.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("sse2%02d.gen.go", i)
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing sub-unit %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "sse204.gen.go")); err == nil {
		t.Error("unexpected fifth sub-unit sse204.gen.go")
	}

	umbrella, err := os.ReadFile(filepath.Join(outDir, "sse2.gen.go"))
	if err != nil {
		t.Fatal(err)
	}
	src := string(umbrella)
	for i := 0; i < 4; i++ {
		want := fmt.Sprintf("MirrorSSE2%02d(n, f)", i)
		if !strings.Contains(src, want) {
			t.Errorf("umbrella missing composition of %s", want)
		}
	}
	if strings.Contains(src, "MirrorSSE204") {
		t.Error("umbrella composes a sub-unit that does not exist")
	}

	lower, err := os.ReadFile(filepath.Join(outDir, "sse2_lower.gen.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(lower), "LowerSSE203(w, n, env)") {
		t.Error("lowering umbrella missing last sub-unit")
	}

	// The last chunk holds exactly the 5 trailing records, no
	// recombination across partitions.
	last, err := os.ReadFile(filepath.Join(outDir, "sse203.gen.go"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(last), "Node struct {"); got != 5 {
		t.Errorf("last chunk defines %d nodes, want 5", got)
	}
	if !strings.Contains(string(last), "MMOp24Node") || !strings.Contains(string(last), "MMOp28Node") {
		t.Error("last chunk missing its boundary records")
	}
}

func TestRunGlobalDedup(t *testing.T) {
	outDir := t.TempDir()
	gen := &Generator{
		InputFile: writeDB(t, db(
			simpleRecord("_mm_dup", "SSE2"),
			simpleRecord("_mm_dup", "AVX"),
			simpleRecord("_mm_avx_only", "AVX"),
		)),
		OutputDir:  outDir,
		PackageOut: "intrinsics",
	}
	if err := gen.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	sse2, err := os.ReadFile(filepath.Join(outDir, "sse2.gen.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(sse2), "func MMDup(") {
		t.Error("first group must keep the shared name")
	}

	avx, err := os.ReadFile(filepath.Join(outDir, "avx.gen.go"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(avx), "MMDup") {
		t.Error("later group must drop the duplicate name")
	}
	if !strings.Contains(string(avx), "func MMAvxOnly(") {
		t.Error("later group must keep its own names")
	}

	stats, err := os.ReadFile(filepath.Join(outDir, "avx_stats.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stats), "duplicate dropped: _mm_dup") {
		t.Errorf("avx stats = %q, want the dropped duplicate reported", stats)
	}
}

func TestRunGeneratedNameCollision(t *testing.T) {
	// "_mm_dup_x" and "_mm_dup__x" are distinct vendor names, but the name
	// conversion erases underscore positions and folds both to MMDupX. The
	// vendor-name dedup does not apply; the run must fail instead of
	// emitting two declarations of the same identifier.
	gen := &Generator{
		InputFile: writeDB(t, db(
			simpleRecord("_mm_dup_x", "SSE2"),
			simpleRecord("_mm_dup__x", "AVX"),
		)),
		OutputDir:  t.TempDir(),
		PackageOut: "intrinsics",
	}

	err := gen.Run()
	if err == nil {
		t.Fatal("Run succeeded with colliding generated names, want error")
	}
	if !strings.Contains(err.Error(), "MMDupX") {
		t.Errorf("error = %v, want it to name the colliding identifier", err)
	}
	if !strings.Contains(err.Error(), "_mm_dup_x") || !strings.Contains(err.Error(), "_mm_dup__x") {
		t.Errorf("error = %v, want it to name both records", err)
	}
}

func TestUmbrellaCompatComposition(t *testing.T) {
	outDir := t.TempDir()
	gen := &Generator{OutputDir: outDir, PackageOut: "intrinsics"}

	// Without the compat file on disk the umbrella stays plain.
	if err := gen.emitUmbrella("MMX", []string{"MMX00", "MMX01"}); err != nil {
		t.Fatalf("emitUmbrella: %v", err)
	}
	src, _ := os.ReadFile(filepath.Join(outDir, "mmx.gen.go"))
	if strings.Contains(string(src), "MMXCompat") {
		t.Error("umbrella composed a compat unit that is not on disk")
	}

	// With the file present, the legacy accommodation kicks in.
	if err := os.WriteFile(filepath.Join(outDir, "mmx_compat.gen.go"), []byte("package intrinsics\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := gen.emitUmbrella("MMX", []string{"MMX00", "MMX01"}); err != nil {
		t.Fatalf("emitUmbrella: %v", err)
	}
	src, _ = os.ReadFile(filepath.Join(outDir, "mmx.gen.go"))
	if !strings.Contains(string(src), "MirrorMMXCompat(n, f)") {
		t.Error("umbrella must compose the existing compat unit")
	}

	// The accommodation is specific to the two legacy sets.
	if err := os.WriteFile(filepath.Join(outDir, "avx512f_compat.gen.go"), []byte("package intrinsics\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := gen.emitUmbrella("AVX512F", []string{"AVX512F00"}); err != nil {
		t.Fatalf("emitUmbrella: %v", err)
	}
	src, _ = os.ReadFile(filepath.Join(outDir, "avx512f.gen.go"))
	if strings.Contains(string(src), "Compat") {
		t.Error("non-legacy instruction sets must not compose compat units")
	}
}

func TestHostSupports(t *testing.T) {
	if _, known := hostSupports([]string{"NOT_A_FLAG"}); known {
		t.Error("unknown flag must report known=false")
	}
	// Probed flags must answer with known=true whatever the host is.
	if _, known := hostSupports([]string{"SSE2", "AVX"}); !known {
		t.Error("probed flags must report known=true")
	}
}
