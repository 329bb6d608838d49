// Package readfilter implements the optional read-name filter
// collaborator of spec.md §6: given an aligner's BAM output, build the
// set of mapped read names and copy through only the FASTQ records
// whose name is absent from that set.
package readfilter

import (
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/Jroswprovey/JMDBG/internal/mdbg/fastqio"
)

// NameSet is the Set<string> of spec.md §6.
type NameSet map[string]struct{}

// FromBAM opens bamPath and collects the query name of every mapped
// record, mirroring how the teacher derives its own long-read mapping
// sets (deconstructdbg's bam.go: skip sam.Unmapped records).
func FromBAM(bamPath string) (NameSet, error) {
	f, err := os.Open(bamPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br, err := bam.NewReader(f, 1)
	if err != nil {
		return nil, err
	}
	defer br.Close()

	names := make(NameSet)
	for {
		rec, err := br.Read()
		if err != nil {
			break // EOF or truncated stream; nothing further to collect
		}
		if rec.Flags&sam.Unmapped != 0 {
			continue
		}
		names[rec.Name] = struct{}{}
	}
	return names, nil
}

// Apply copies every record of inPath into outPath whose name is NOT
// in exclude, preserving order.
func Apply(inPath, outPath string, exclude NameSet) (kept, dropped int, err error) {
	rc, err := fastqio.Open(inPath)
	if err != nil {
		return 0, 0, err
	}
	defer rc.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return 0, 0, err
	}
	defer out.Close()

	r := fastqio.NewReader(rc)
	w := fastqio.NewWriter(out)
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		if _, excluded := exclude[rec.Name]; excluded {
			dropped++
			continue
		}
		if err := w.Write(rec); err != nil {
			return kept, dropped, err
		}
		kept++
	}
	return kept, dropped, w.Flush()
}
