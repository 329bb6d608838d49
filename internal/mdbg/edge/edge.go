// Package edge turns per-read minimizer occurrences into the edge
// records of the minimizer de Bruijn graph, and defines the on-disk
// record format the external sorter and unitig assembler share.
package edge

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Jroswprovey/JMDBG/internal/mdbg/minimizer"
)

// Record is one edge: the substring of some read spanning from the
// start of the "from" minimizer through the end of the "to"
// minimizer.
type Record struct {
	From uint32
	To   uint32
	Seq  string
}

// key identifies a record for deduplication purposes.
type key struct {
	from, to uint32
	seq      string
}

// Set deduplicates edge records across the whole dataset.
type Set struct {
	m map[key]struct{}
}

// NewSet returns an empty deduplicating edge set.
func NewSet() *Set {
	return &Set{m: make(map[key]struct{})}
}

// Add inserts r if not already present; it reports whether the
// record was newly added.
func (s *Set) Add(r Record) bool {
	k := key{r.From, r.To, r.Seq}
	if _, ok := s.m[k]; ok {
		return false
	}
	s.m[k] = struct{}{}
	return true
}

// Len reports the number of distinct edges accumulated.
func (s *Set) Len() int {
	return len(s.m)
}

// Each calls fn once per distinct record, in unspecified order.
func (s *Set) Each(fn func(Record)) {
	for k := range s.m {
		fn(Record{From: k.from, To: k.to, Seq: k.seq})
	}
}

// ExtractFromRead emits, into set, one edge per consecutive pair of
// minimizer occurrences in occ, skipping self-loops (occurrences that
// resolve to the same ID, e.g. tandem-close minimizers). end is
// clamped to len(read).
func ExtractFromRead(read []byte, occ []minimizer.Occurrence, k int, set *Set) {
	for i := 0; i+1 < len(occ); i++ {
		from, to := occ[i], occ[i+1]
		if from.ID == to.ID {
			continue
		}
		end := to.Position + k
		if end > len(read) {
			end = len(read)
		}
		if from.Position >= end {
			continue
		}
		set.Add(Record{
			From: from.ID,
			To:   to.ID,
			Seq:  string(read[from.Position:end]),
		})
	}
}

// WriteTSV appends r to w in the on-disk record format used
// throughout the pipeline: "<fromId>\t<toId>\t<sequence>\n".
func WriteTSV(w io.Writer, r Record) error {
	_, err := fmt.Fprintf(w, "%d\t%d\t%s\n", r.From, r.To, r.Seq)
	return err
}

// ParseTSV parses one on-disk record line (without its trailing
// newline).
func ParseTSV(line string) (Record, error) {
	tab1 := strings.IndexByte(line, '\t')
	if tab1 < 0 {
		return Record{}, fmt.Errorf("[edge.ParseTSV] missing first tab in %q", line)
	}
	rest := line[tab1+1:]
	tab2 := strings.IndexByte(rest, '\t')
	if tab2 < 0 {
		return Record{}, fmt.Errorf("[edge.ParseTSV] missing second tab in %q", line)
	}
	from, err := strconv.ParseUint(line[:tab1], 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("[edge.ParseTSV] bad fromId in %q: %w", line, err)
	}
	to, err := strconv.ParseUint(rest[:tab2], 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("[edge.ParseTSV] bad toId in %q: %w", line, err)
	}
	return Record{From: uint32(from), To: uint32(to), Seq: rest[tab2+1:]}, nil
}

// ScanTSV reads every record from r via fn until EOF.
func ScanTSV(r io.Reader, fn func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		rec, err := ParseTSV(line)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return sc.Err()
}

// DegreeMaps computes inDegrees and outDegrees over the deduplicated
// edge set. Every node that appears in some edge has an entry in both
// maps: a node with no incoming (or no outgoing) edge is recorded with
// an explicit zero in that map.
func (s *Set) DegreeMaps() (inDegrees, outDegrees map[uint32]int) {
	inDegrees = make(map[uint32]int)
	outDegrees = make(map[uint32]int)
	s.Each(func(r Record) {
		outDegrees[r.From]++
		inDegrees[r.To]++
		if _, ok := inDegrees[r.From]; !ok {
			inDegrees[r.From] += 0
		}
		if _, ok := outDegrees[r.To]; !ok {
			outDegrees[r.To] += 0
		}
	})
	return
}
