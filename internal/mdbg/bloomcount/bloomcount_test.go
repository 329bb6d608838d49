package bloomcount

import (
	"testing"

	"github.com/Jroswprovey/JMDBG/internal/mdbg/kmer"
)

func sliceSource(seqs [][]byte) Source {
	return func() (<-chan []byte, error) {
		ch := make(chan []byte, len(seqs))
		for _, s := range seqs {
			ch <- s
		}
		close(ch)
		return ch, nil
	}
}

func TestSeenTwiceDetectsRepeatedKmer(t *testing.T) {
	reads := [][]byte{
		[]byte("ACGTACGTA"),
		[]byte("ACGTACGTA"),
	}
	seenTwice, err := Count(sliceSource(reads), Params{
		K: 5, ExpectedKmerCount: 1000, FPRate: 0.01, Threads: 2,
	})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	// "ACGTA" appears in both reads, so its canonical form must be
	// reported present, deterministically (no false negatives).
	if !seenTwice.Test(Key(canon("ACGTA"))) {
		t.Errorf("expected seenTwice to contain repeated kmer ACGTA")
	}
}

func TestDeterministicAcrossRuns(t *testing.T) {
	reads := [][]byte{[]byte("ACGTACGTACGT")}
	a, err := Count(sliceSource(reads), Params{K: 5, ExpectedKmerCount: 1000, FPRate: 0.01, Threads: 4})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Count(sliceSource(reads), Params{K: 5, ExpectedKmerCount: 1000, FPRate: 0.01, Threads: 4})
	if err != nil {
		t.Fatal(err)
	}
	// same k-mers, same sizing => membership must agree on the
	// k-mers actually inserted.
	if a.Test(Key(canon("ACGTA"))) != b.Test(Key(canon("ACGTA"))) {
		t.Errorf("membership not deterministic across identical runs")
	}
}

func canon(s string) uint64 {
	x, _ := kmer.FromString(s)
	return kmer.Canonical(x, len(s))
}
