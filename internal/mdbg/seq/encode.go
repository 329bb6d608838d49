// Package seq packs raw ASCII DNA into a dense 2-bit encoding and
// unpacks it again. K-mer rolling is done by kmer.Roller over raw read
// bytes, not over this packed form.
package seq

import "fmt"

// base codes, big-endian within a byte: A=00 C=01 G=10 T=11.
const (
	codeA = 0
	codeC = 1
	codeG = 2
	codeT = 3
)

var baseCode [256]int8

func init() {
	for i := range baseCode {
		baseCode[i] = -1
	}
	baseCode['A'], baseCode['a'] = codeA, codeA
	baseCode['C'], baseCode['c'] = codeC, codeC
	baseCode['G'], baseCode['g'] = codeG, codeG
	baseCode['T'], baseCode['t'] = codeT, codeT
}

var codeBase = [4]byte{'A', 'C', 'G', 'T'}

// EncodedSequence packs four 2-bit codes per byte, big-endian within
// the byte. Non-ACGT characters are dropped, not replaced, so
// validBaseCount may be smaller than len(raw).
type EncodedSequence struct {
	Bnt            []byte
	validBaseCount int
}

// Len returns the number of successfully encoded bases.
func (s *EncodedSequence) Len() int {
	return s.validBaseCount
}

// Encode packs the ACGT (case-insensitive) characters of raw, in
// order, skipping every other byte.
func Encode(raw []byte) *EncodedSequence {
	s := &EncodedSequence{Bnt: make([]byte, 0, len(raw)/4+1)}
	var cur byte
	var filled int
	for _, c := range raw {
		code := baseCode[c]
		if code < 0 {
			continue
		}
		cur |= byte(code) << (uint(3-filled) * 2)
		filled++
		if filled == 4 {
			s.Bnt = append(s.Bnt, cur)
			cur = 0
			filled = 0
		}
		s.validBaseCount++
	}
	if filled > 0 {
		s.Bnt = append(s.Bnt, cur)
	}
	return s
}

// GetBaseAt returns the 2-bit code at encoded position pos.
func (s *EncodedSequence) GetBaseAt(pos int) byte {
	if pos < 0 || pos >= s.validBaseCount {
		panic(fmt.Sprintf("[EncodedSequence.GetBaseAt] pos %d out of range [0,%d)", pos, s.validBaseCount))
	}
	byteIdx := pos / 4
	shift := uint(3-pos%4) * 2
	return (s.Bnt[byteIdx] >> shift) & 0x3
}

// Decode restores the ACGT string of the encoded bases (uppercase).
// decode(encode(s)) == s restricted to its ACGT characters.
func (s *EncodedSequence) Decode() string {
	out := make([]byte, s.validBaseCount)
	for i := 0; i < s.validBaseCount; i++ {
		out[i] = codeBase[s.GetBaseAt(i)]
	}
	return string(out)
}
