package mdbg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFastq(t *testing.T, dir string, reads []string) string {
	t.Helper()
	path := filepath.Join(dir, "in.fastq")
	var sb strings.Builder
	for i, r := range reads {
		sb.WriteString("@read")
		sb.WriteString(string(rune('0' + i)))
		sb.WriteString("\n")
		sb.WriteString(r)
		sb.WriteString("\n+\n")
		sb.WriteString(strings.Repeat("I", len(r)))
		sb.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// spec.md testable-properties scenario 2: two identical reads,
// density 1.0 forces every k-mer to be a minimizer; expect the build
// to write a FASTA file whose first record is unitig_0. The period-4
// read has only two canonical 5-mers, which form a two-node ring, so
// that record comes from the cycle pass and is not the whole read.
func TestBuildIdenticalReadsChain(t *testing.T) {
	dir := t.TempDir()
	in := writeFastq(t, dir, []string{"ACGTACGTACGTACGT", "ACGTACGTACGTACGT"})
	out := filepath.Join(dir, "out.fa")
	cfg := Config{
		InputFastq: in, OutputFasta: out, WorkDir: filepath.Join(dir, "work"),
		K: 5, Density: 1.0, Threads: 2, ExpectedKmerCount: 1000, FPRate: 0.01,
	}
	if err := Build(cfg); err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], ">unitig_0") {
		t.Fatalf("expected a single fasta record, got:\n%s", data)
	}
}

// spec.md testable-properties scenario 1: a single homopolymer read
// produces zero unitigs (no edges: every occurrence shares one ID).
func TestBuildHomopolymerProducesNoUnitigs(t *testing.T) {
	dir := t.TempDir()
	in := writeFastq(t, dir, []string{"AAAAAAAAAAA"})
	out := filepath.Join(dir, "out.fa")
	cfg := Config{
		InputFastq: in, OutputFasta: out, WorkDir: filepath.Join(dir, "work"),
		K: 5, Density: 1.0, Threads: 1, ExpectedKmerCount: 1000, FPRate: 0.01,
	}
	if err := Build(cfg); err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("expected an empty fasta file, got:\n%s", data)
	}
}

func TestBuildRejectsInvalidK(t *testing.T) {
	dir := t.TempDir()
	in := writeFastq(t, dir, []string{"ACGTACGT"})
	cfg := Config{InputFastq: in, OutputFasta: filepath.Join(dir, "out.fa"), WorkDir: dir, K: 0, Density: 0.5}
	if err := Build(cfg); err == nil {
		t.Errorf("expected error for K=0")
	}
}

func TestBuildRejectsMissingInput(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{InputFastq: filepath.Join(dir, "missing.fastq"), OutputFasta: filepath.Join(dir, "out.fa"), WorkDir: dir, K: 5, Density: 0.5}
	if err := Build(cfg); err == nil {
		t.Errorf("expected error for missing input file")
	}
}

func TestBuildCleansUpWorkDir(t *testing.T) {
	dir := t.TempDir()
	in := writeFastq(t, dir, []string{"ACGTACGTACGTACGT", "ACGTACGTACGTACGT"})
	work := filepath.Join(dir, "work")
	cfg := Config{
		InputFastq: in, OutputFasta: filepath.Join(dir, "out.fa"), WorkDir: work,
		K: 5, Density: 1.0, Threads: 2, ExpectedKmerCount: 1000, FPRate: 0.01,
	}
	if err := Build(cfg); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(work)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Errorf("expected work dir to be empty after success, found %s", e.Name())
	}
}
