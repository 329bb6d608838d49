// Package kmer holds the pure integer arithmetic over 2-bit-packed
// k-mers: rolling, canonicalization, and the FNV-1a admission hash.
// None of it allocates on the hot path.
package kmer

import "fmt"

// MaxK is the largest k this package supports; a 2k-bit k-mer must fit
// a uint64.
const MaxK = 31

var baseCode [256]int8

func init() {
	for i := range baseCode {
		baseCode[i] = -1
	}
	baseCode['A'], baseCode['a'] = 0, 0
	baseCode['C'], baseCode['c'] = 1, 1
	baseCode['G'], baseCode['g'] = 2, 2
	baseCode['T'], baseCode['t'] = 3, 3
}

// Mask returns (1<<2k)-1.
func Mask(k int) uint64 {
	return (uint64(1) << uint(2*k)) - 1
}

// Roller accumulates a rolling 2k-bit k-mer over a stream of raw
// bases fed one at a time via Push. It resets on any non-ACGT base
// so that a k-mer never spans a gap in the input (spec's recommended
// fix for the N-handling open question); consequently the position
// space Push works in is always the caller's raw-string index, and
// edge slicing never diverges from k-mer positions.
type Roller struct {
	k      int
	mask   uint64
	val    uint64
	filled int
}

// NewRoller builds a Roller for k-mers of length k. Panics if k is
// out of [1, MaxK].
func NewRoller(k int) *Roller {
	if k < 1 || k > MaxK {
		panic(fmt.Sprintf("[kmer.NewRoller] k=%d out of range [1,%d]", k, MaxK))
	}
	return &Roller{k: k, mask: Mask(k)}
}

// Reset drops the accumulated window, as if starting over at the
// beginning of a new sequence.
func (r *Roller) Reset() {
	r.val = 0
	r.filled = 0
}

// Push feeds the next raw base (an ASCII byte). If b is not one of
// ACGT/acgt the window resets and ok is false. Otherwise ok reports
// whether the window now holds a full k-mer, in which case val is
// that k-mer (the k bases most recently pushed, oldest in the
// highest-order bits).
func (r *Roller) Push(b byte) (val uint64, ok bool) {
	code := baseCode[b]
	if code < 0 {
		r.Reset()
		return 0, false
	}
	r.val = ((r.val << 2) | uint64(code)) & r.mask
	if r.filled < r.k {
		r.filled++
	}
	if r.filled < r.k {
		return 0, false
	}
	return r.val, true
}

// ReverseComplement reverse-complements a k-mer of length k: toggle
// each base pair via XOR 0b11 and reverse the pair order.
func ReverseComplement(x uint64, k int) uint64 {
	var rc uint64
	for i := 0; i < k; i++ {
		base := x & 0x3
		x >>= 2
		rc = (rc << 2) | (base ^ 0x3)
	}
	return rc
}

// Canonical returns the lexicographically (numerically) smaller of x
// and its reverse complement, i.e. the strand-agnostic identity of
// the k-mer.
func Canonical(x uint64, k int) uint64 {
	rc := ReverseComplement(x, k)
	if rc < x {
		return rc
	}
	return x
}

// FNV-1a 64 seed and prime, per the classic constants.
const (
	fnvOffset64 = 0xcbf29ce484222325
	fnvPrime64  = 0x100000001b3
)

// Hash64 computes FNV-1a over the 8 bytes of x, most-significant
// byte first. It is used only for minimizer admission and is
// independent of any Bloom-filter hashing.
func Hash64(x uint64) uint64 {
	h := uint64(fnvOffset64)
	for shift := 56; shift >= 0; shift -= 8 {
		b := byte(x >> uint(shift))
		h ^= uint64(b)
		h *= fnvPrime64
	}
	return h
}

var codeBase = [4]byte{'A', 'C', 'G', 'T'}

// ToString renders the k low-order bases of x as an uppercase ACGT
// string, most significant base first.
func ToString(x uint64, k int) string {
	out := make([]byte, k)
	for i := k - 1; i >= 0; i-- {
		out[i] = codeBase[x&0x3]
		x >>= 2
	}
	return string(out)
}

// FromString packs an ACGT string (len <= MaxK) into a k-mer integer.
// Returns ok=false if s contains a non-ACGT byte.
func FromString(s string) (val uint64, ok bool) {
	for i := 0; i < len(s); i++ {
		code := baseCode[s[i]]
		if code < 0 {
			return 0, false
		}
		val = (val << 2) | uint64(code)
	}
	return val, true
}
