package minimizer

import "testing"

type alwaysTrue struct{}

func (alwaysTrue) Test([]byte) bool { return true }

func TestMonotoneIDAssignment(t *testing.T) {
	tbl := NewTable(5, 1.0) // density 1.0 admits everything
	tbl.DiscoverRead([]byte("AAAAAAAAAAA"), alwaysTrue{})
	if tbl.Len() != 1 {
		t.Fatalf("expected exactly 1 minimizer for all-A read, got %d", tbl.Len())
	}
	occ := tbl.OccurrencesInRead([]byte("AAAAAAAAAAA"))
	for _, o := range occ {
		if o.ID != 0 {
			t.Errorf("expected all occurrences to share ID 0, got %d", o.ID)
		}
	}
}

func TestOccurrencesInIncreasingPositionOrder(t *testing.T) {
	tbl := NewTable(5, 1.0)
	read := []byte("ACGTACGTACGTACGT")
	tbl.DiscoverRead(read, alwaysTrue{})
	occ := tbl.OccurrencesInRead(read)
	for i := 1; i < len(occ); i++ {
		if occ[i].Position <= occ[i-1].Position {
			t.Errorf("positions not increasing: %v", occ)
		}
	}
}

func TestDensityApproximatelyRespected(t *testing.T) {
	tbl := NewTable(15, 0.2)
	admitted := 0
	total := 5000
	for i := 0; i < total; i++ {
		c := uint64(i) * 2654435761 // scattered synthetic canonical kmers
		c &= (1 << 30) - 1
		if tbl.Admits(c) {
			admitted++
		}
	}
	frac := float64(admitted) / float64(total)
	if frac < 0.1 || frac > 0.3 {
		t.Errorf("admitted fraction %v far from density 0.2", frac)
	}
}

func TestUnknownKmerNotEmittedInPass2(t *testing.T) {
	tbl := NewTable(5, 0.0000001) // near-zero density: almost nothing discovered
	tbl.DiscoverRead([]byte("ACGTACGTACGT"), alwaysTrue{})
	occ := tbl.OccurrencesInRead([]byte("ACGTACGTACGT"))
	for _, o := range occ {
		if int(o.ID) >= tbl.Len() {
			t.Errorf("occurrence references unknown id %d (table has %d entries)", o.ID, tbl.Len())
		}
	}
}
