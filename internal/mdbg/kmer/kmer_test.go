package kmer

import "testing"

func TestCanonicalIdempotent(t *testing.T) {
	k := 5
	for _, s := range []string{"AAAAA", "ACGTA", "TTTTT", "GATTACA"[:5]} {
		x, ok := FromString(s)
		if !ok {
			t.Fatalf("FromString(%q) failed", s)
		}
		c := Canonical(x, k)
		if Canonical(c, k) != c {
			t.Errorf("canonical(canonical(%d)) != canonical(%d)", x, x)
		}
		rc := ReverseComplement(x, k)
		if Canonical(rc, k) != c {
			t.Errorf("canonical(rc(%d)) != canonical(%d)", x, x)
		}
	}
}

func TestReverseComplementInvolution(t *testing.T) {
	k := 7
	x, _ := FromString("ACGTACG")
	rc := ReverseComplement(x, k)
	if got := ReverseComplement(rc, k); got != x {
		t.Errorf("rc(rc(x))=%d want %d", got, x)
	}
}

func TestReverseComplementKnown(t *testing.T) {
	x, _ := FromString("AAAAC")
	rc := ReverseComplement(x, 5)
	if got := ToString(rc, 5); got != "GTTTT" {
		t.Errorf("rc(AAAAC)=%s want GTTTT", got)
	}
}

func TestCanonicalStrand(t *testing.T) {
	a, _ := FromString("AAAAC")
	b, _ := FromString("GTTTT")
	if Canonical(a, 5) != Canonical(b, 5) {
		t.Errorf("AAAAC and its reverse complement GTTTT must canonicalize equal")
	}
}

func TestHash64Zero(t *testing.T) {
	h := Hash64(0)
	want := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		want *= fnvPrime64
	}
	if h != want {
		t.Errorf("Hash64(0)=%#x want %#x", h, want)
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"A", "ACGT", "ACGTACGTACGTACGTACGTACGTACGTACG"} {
		x, ok := FromString(s)
		if !ok {
			t.Fatalf("FromString(%q) failed", s)
		}
		if got := ToString(x, len(s)); got != s {
			t.Errorf("ToString(FromString(%q))=%q", s, got)
		}
	}
}

func TestRollerBasic(t *testing.T) {
	r := NewRoller(3)
	seq := "AAACGT"
	var kmers []string
	for i := 0; i < len(seq); i++ {
		if v, ok := r.Push(seq[i]); ok {
			kmers = append(kmers, ToString(v, 3))
		}
	}
	want := []string{"AAA", "AAC", "ACG", "CGT"}
	if len(kmers) != len(want) {
		t.Fatalf("got %v want %v", kmers, want)
	}
	for i := range want {
		if kmers[i] != want[i] {
			t.Errorf("kmer %d = %s want %s", i, kmers[i], want[i])
		}
	}
}

func TestRollerResetsOnGap(t *testing.T) {
	r := NewRoller(3)
	seq := "ACNACG"
	var kmers []string
	for i := 0; i < len(seq); i++ {
		if v, ok := r.Push(seq[i]); ok {
			kmers = append(kmers, ToString(v, 3))
		}
	}
	// the N breaks the window; only "ACG" (positions 3-5) should form.
	want := []string{"ACG"}
	if len(kmers) != len(want) || kmers[0] != want[0] {
		t.Errorf("got %v want %v", kmers, want)
	}
}

func TestAllOnesKmerSequence(t *testing.T) {
	// Scenario 1 of the testable-properties section: AAAAAAAAAAA, k=5.
	r := NewRoller(5)
	seq := "AAAAAAAAAAA"
	count := 0
	for i := 0; i < len(seq); i++ {
		if v, ok := r.Push(seq[i]); ok {
			count++
			if v != 0 {
				t.Errorf("all-A kmer should encode to 0, got %d", v)
			}
		}
	}
	if count != len(seq)-5+1 {
		t.Errorf("expected %d kmers, got %d", len(seq)-5+1, count)
	}
}
