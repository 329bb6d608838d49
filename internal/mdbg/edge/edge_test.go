package edge

import (
	"strings"
	"testing"

	"github.com/Jroswprovey/JMDBG/internal/mdbg/minimizer"
)

func TestExtractSkipsSelfLoops(t *testing.T) {
	read := []byte("AAAAAAAAAAA")
	occ := []minimizer.Occurrence{
		{ID: 0, Position: 0}, {ID: 0, Position: 1}, {ID: 0, Position: 2},
	}
	set := NewSet()
	ExtractFromRead(read, occ, 5, set)
	if set.Len() != 0 {
		t.Errorf("expected zero edges from tandem same-id occurrences, got %d", set.Len())
	}
}

func TestExtractProducesExpectedSequence(t *testing.T) {
	read := []byte("ACGTACGTACGTACGT")
	occ := []minimizer.Occurrence{{ID: 0, Position: 0}, {ID: 1, Position: 4}}
	set := NewSet()
	ExtractFromRead(read, occ, 5, set)
	if set.Len() != 1 {
		t.Fatalf("expected 1 edge, got %d", set.Len())
	}
	var got Record
	set.Each(func(r Record) { got = r })
	if got.Seq != "ACGTACGTA" {
		t.Errorf("seq = %q, want ACGTACGTA", got.Seq)
	}
	if len(got.Seq) < 5 {
		t.Errorf("edge sequence shorter than k")
	}
}

func TestDeduplication(t *testing.T) {
	set := NewSet()
	r := Record{From: 1, To: 2, Seq: "ACGTA"}
	if !set.Add(r) {
		t.Errorf("first add should report new")
	}
	if set.Add(r) {
		t.Errorf("duplicate add should report not-new")
	}
	if set.Len() != 1 {
		t.Errorf("len = %d, want 1", set.Len())
	}
}

func TestTSVRoundTrip(t *testing.T) {
	r := Record{From: 42, To: 7, Seq: "ACGTACGT"}
	var buf strings.Builder
	if err := WriteTSV(&buf, r); err != nil {
		t.Fatal(err)
	}
	line := strings.TrimSuffix(buf.String(), "\n")
	got, err := ParseTSV(line)
	if err != nil {
		t.Fatal(err)
	}
	if got != r {
		t.Errorf("round trip mismatch: got %+v want %+v", got, r)
	}
}

func TestDegreeMaps(t *testing.T) {
	set := NewSet()
	set.Add(Record{From: 0, To: 1, Seq: "AAAAA"})
	set.Add(Record{From: 1, To: 2, Seq: "AAAAA"})
	in, out := set.DegreeMaps()
	if out[0] != 1 || in[1] != 1 || out[1] != 1 || in[2] != 1 {
		t.Errorf("unexpected degrees in=%v out=%v", in, out)
	}
	if in[0] != 0 || out[2] != 0 {
		t.Errorf("expected boundary nodes to have zero opposite degree, got in[0]=%d out[2]=%d", in[0], out[2])
	}
}
