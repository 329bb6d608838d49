// Package bloomcount builds the "seen at least twice" Bloom filter
// used to suppress k-mers that are overwhelmingly sequencing errors,
// via the two-pass parallel scheme of the design (a single producer
// feeding a bounded channel of read sequences, and a fixed pool of
// consumers each owning a thread-local filter that is OR-merged after
// a barrier).
package bloomcount

import (
	"encoding/binary"
	"sync"

	"github.com/willf/bloom"

	"github.com/Jroswprovey/JMDBG/internal/mdbg/kmer"
)

// queueCapacity is the bounded-queue size between the producer and the
// consumer pool. Count does not create the channel itself: the bound is
// whatever capacity the Source's channel was made with.
const queueCapacity = 1000

// Params configures both the Bloom filter sizing and the amount of
// parallelism used to build it.
type Params struct {
	K                 int
	ExpectedKmerCount uint
	FPRate            float64
	Threads           int
}

// Source produces one channel of raw read sequences per call, closed
// at EOF. It must support being called twice (once per counting pass)
// and yield the same sequences, in the same order, both times.
type Source func() (<-chan []byte, error)

// Count runs the two-pass counter over source and returns seenTwice,
// the filter whose Test reports (with the filter's false-positive
// rate) that a canonical k-mer occurred at least twice.
func Count(source Source, p Params) (seenTwice *bloom.BloomFilter, err error) {
	seenOnce, err := runPass(source, p, nil)
	if err != nil {
		return nil, err
	}
	seenTwice, err = runPass(source, p, seenOnce)
	if err != nil {
		return nil, err
	}
	return seenTwice, nil
}

// runPass streams every sequence from source through p.Threads
// consumers. When gate is nil every k-mer encountered is inserted
// (pass 1); when gate is non-nil a k-mer is inserted only if gate
// already might-contain it (pass 2).
func runPass(source Source, p Params, gate *bloom.BloomFilter) (*bloom.BloomFilter, error) {
	seqs, err := source()
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	local := make([]*bloom.BloomFilter, p.Threads)
	for t := 0; t < p.Threads; t++ {
		local[t] = bloom.NewWithEstimates(p.ExpectedKmerCount, p.FPRate)
		wg.Add(1)
		go func(bf *bloom.BloomFilter) {
			defer wg.Done()
			consume(seqs, p.K, bf, gate)
		}(local[t])
	}
	wg.Wait()

	merged := bloom.NewWithEstimates(p.ExpectedKmerCount, p.FPRate)
	for _, bf := range local {
		if err := merged.Merge(bf); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// consume drains seqs, rolling every k-mer of every sequence and
// inserting its canonical form into bf, subject to gate.
func consume(seqs <-chan []byte, k int, bf, gate *bloom.BloomFilter) {
	roller := kmer.NewRoller(k)
	var key [8]byte
	for line := range seqs {
		roller.Reset()
		for i := 0; i < len(line); i++ {
			v, ok := roller.Push(line[i])
			if !ok {
				continue
			}
			c := kmer.Canonical(v, k)
			binary.BigEndian.PutUint64(key[:], c)
			if gate != nil && !gate.Test(key[:]) {
				continue
			}
			bf.Add(key[:])
		}
	}
}

// Key packs a canonical k-mer for a direct membership query against a
// filter built by this package, without going through Count.
func Key(c uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], c)
	return key[:]
}
