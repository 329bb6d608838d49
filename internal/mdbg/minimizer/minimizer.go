// Package minimizer selects a sparse, deterministic subset of
// canonical k-mers (minimizers) by hash density and assigns each a
// dense, monotonically increasing integer ID.
package minimizer

import (
	"encoding/binary"
	"fmt"

	"github.com/Jroswprovey/JMDBG/internal/mdbg/kmer"
)

// mask63 keeps the hash unsigned within a positive int64's worth of
// bits, per the admission rule.
const mask63 = (uint64(1) << 63) - 1

// Filter reports set membership for an 8-byte big-endian k-mer key;
// satisfied by *bloom.BloomFilter's Test method. Kept as a narrow
// interface so this package doesn't need to know how abundance
// filtering is implemented.
type Filter interface {
	Test([]byte) bool
}

// Occurrence is a minimizer sighted at a position in a read.
type Occurrence struct {
	ID       uint32
	Position int
}

// Table is the dense canonicalKmer -> ID map built during minimizer
// discovery (pass 1) and read only thereafter (pass 2 onward).
type Table struct {
	k         int
	threshold uint64
	ids       map[uint64]uint32
	nextID    uint32
}

// NewTable builds an empty ID table for the given k-mer length and
// admission density (0 < density <= 1).
func NewTable(k int, density float64) *Table {
	if density <= 0 || density > 1 {
		panic(fmt.Sprintf("[minimizer.NewTable] density %v out of range (0,1]", density))
	}
	return &Table{
		k:         k,
		threshold: uint64(density * float64(uint64(1)<<63)),
		ids:       make(map[uint64]uint32),
	}
}

// Admits reports whether canonical k-mer c passes the hash-density
// criterion, independent of whether it has been seen before.
func (t *Table) Admits(c uint64) bool {
	h := kmer.Hash64(c) & mask63
	return h < t.threshold
}

// Len returns the number of minimizers discovered so far.
func (t *Table) Len() int {
	return len(t.ids)
}

// Lookup returns the ID assigned to canonical k-mer c, if any.
func (t *Table) Lookup(c uint64) (id uint32, ok bool) {
	id, ok = t.ids[c]
	return
}

// discover assigns c a fresh ID (first-seen order) if it doesn't have
// one yet and reports the (possibly pre-existing) ID.
func (t *Table) discover(c uint64) uint32 {
	if id, ok := t.ids[c]; ok {
		return id
	}
	id := t.nextID
	t.ids[c] = id
	t.nextID++
	return id
}

// DiscoverRead runs pass 1 over a single read: for every canonical
// k-mer that seenTwice admits by abundance, if it also clears the
// hash-density threshold, it is assigned an ID (or reuses its
// existing one). Reads must be processed in file order across the
// whole dataset for ID assignment to be deterministic.
func (t *Table) DiscoverRead(read []byte, seenTwice Filter) {
	roller := kmer.NewRoller(t.k)
	var key [8]byte
	for i := 0; i < len(read); i++ {
		v, ok := roller.Push(read[i])
		if !ok {
			continue
		}
		c := kmer.Canonical(v, t.k)
		binary.BigEndian.PutUint64(key[:], c)
		if !seenTwice.Test(key[:]) {
			continue
		}
		if !t.Admits(c) {
			continue
		}
		t.discover(c)
	}
}

// OccurrencesInRead runs pass 2 over a single read: it emits, in
// increasing position order, the (id, position) pairs of every
// previously discovered minimizer. Position is the 0-based index in
// read of the first base of the canonical k-mer's forward occurrence.
func (t *Table) OccurrencesInRead(read []byte) []Occurrence {
	roller := kmer.NewRoller(t.k)
	var out []Occurrence
	for i := 0; i < len(read); i++ {
		v, ok := roller.Push(read[i])
		if !ok {
			continue
		}
		c := kmer.Canonical(v, t.k)
		id, known := t.ids[c]
		if !known {
			continue
		}
		start := i - t.k + 1
		out = append(out, Occurrence{ID: id, Position: start})
	}
	return out
}
