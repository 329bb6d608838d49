package mdbg

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Jroswprovey/JMDBG/internal/mdbg/bloomcount"
	"github.com/Jroswprovey/JMDBG/internal/mdbg/edge"
	"github.com/Jroswprovey/JMDBG/internal/mdbg/extsort"
	"github.com/Jroswprovey/JMDBG/internal/mdbg/fastqio"
	"github.com/Jroswprovey/JMDBG/internal/mdbg/minimizer"
	"github.com/Jroswprovey/JMDBG/internal/mdbg/readfilter"
	"github.com/Jroswprovey/JMDBG/internal/mdbg/unitig"
)

// queueCapacity bounds the channel of read sequences that feeds the
// Bloom counter's consumer pool, mirroring bloomcount's own
// bounded-queue sizing. Minimizer discovery and edge extraction are
// single-threaded and read the FASTQ directly, without a queue.
const queueCapacity = 1000

// Build runs the full assembly pipeline: optional read-name
// filtering, two-pass Bloom counting, minimizer discovery, edge
// extraction, external sort, and unitig assembly, writing FASTA
// contigs to cfg.OutputFasta. It is the "build(...)" entry point
// spec.md §6 names as the core's public API.
func Build(cfg Config) error {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return err
	}

	unsortedPath, sortedPath, err := prepareWorkDir(cfg.WorkDir)
	if err != nil {
		return err
	}

	assemblyInput := cfg.InputFastq
	if cfg.ReadNameFilterBAM != "" {
		filtered, err := filterReads(cfg)
		if err != nil {
			return fmt.Errorf("[Build] read-name filter: %w", err)
		}
		assemblyInput = filtered
		defer os.Remove(filtered)
	}

	seenTwice, err := bloomcount.Count(func() (<-chan []byte, error) {
		return fastqio.SequenceQueue(assemblyInput, queueCapacity)
	}, cfg.bloomParams())
	if err != nil {
		return fmt.Errorf("[Build] bloom counting: %w", err)
	}
	log.Printf("[Build] two-pass bloom counter ready (k=%d, expected=%d, fp=%v)", cfg.K, cfg.ExpectedKmerCount, cfg.FPRate)

	table := minimizer.NewTable(cfg.K, cfg.Density)
	if err := discoverMinimizers(assemblyInput, table, seenTwice); err != nil {
		return fmt.Errorf("[Build] minimizer discovery: %w", err)
	}
	log.Printf("[Build] discovered %d minimizers", table.Len())

	edgeSet, err := extractEdges(assemblyInput, table, cfg.K)
	if err != nil {
		return fmt.Errorf("[Build] edge extraction: %w", err)
	}
	log.Printf("[Build] extracted %d distinct edges", edgeSet.Len())

	inDegree, outDegree := edgeSet.DegreeMaps()

	if err := writeUnsortedEdges(unsortedPath, edgeSet); err != nil {
		return fmt.Errorf("[Build] writing unsorted edges: %w", err)
	}
	edgeSet = nil // its in-memory form may be released once serialized

	if err := extsort.Sort(unsortedPath, sortedPath, cfg.WorkDir, cfg.SortBufferBytes); err != nil {
		return fmt.Errorf("[Build] external sort: %w", err)
	}

	graph, err := unitig.Load(sortedPath, inDegree, outDegree, cfg.K)
	if err != nil {
		return fmt.Errorf("[Build] loading sorted edges: %w", err)
	}

	if cfg.DumpGraph {
		if err := graph.DumpDOT(cfg.OutputFasta + ".dot"); err != nil {
			return fmt.Errorf("[Build] dumping graph: %w", err)
		}
	}

	unitigs := graph.Assemble(unitig.AssembleOptions{
		PopBubbles:     cfg.PopBubbles,
		MaxBubbleDepth: cfg.MaxBubbleDepth,
		MaxBubbleLen:   cfg.MaxBubbleLen,
	})
	log.Printf("[Build] assembled %d unitigs", len(unitigs))

	fw, f, err := unitig.CreateFastaFile(cfg.OutputFasta)
	if err != nil {
		return fmt.Errorf("[Build] creating output: %w", err)
	}
	defer f.Close()
	if err := fw.WriteAll(unitigs); err != nil {
		return fmt.Errorf("[Build] writing fasta: %w", err)
	}

	cleanupWorkDir(unsortedPath, sortedPath)
	return nil
}

// filterReads applies the read-name filter collaborator ahead of
// assembly and returns the path of the filtered FASTQ.
func filterReads(cfg Config) (string, error) {
	names, err := readfilter.FromBAM(cfg.ReadNameFilterBAM)
	if err != nil {
		return "", fmt.Errorf("[filterReads] loading %s: %w", cfg.ReadNameFilterBAM, err)
	}
	filteredPath := filepath.Join(cfg.WorkDir, "filtered.fastq")
	kept, dropped, err := readfilter.Apply(cfg.InputFastq, filteredPath, names)
	if err != nil {
		return "", err
	}
	log.Printf("[filterReads] kept %d reads, dropped %d matching %s", kept, dropped, cfg.ReadNameFilterBAM)
	return filteredPath, nil
}

// discoverMinimizers runs pass 1 (spec.md §4.4) single-threaded, in
// file order, so first-seen ID assignment is deterministic.
func discoverMinimizers(path string, table *minimizer.Table, seenTwice minimizer.Filter) error {
	rc, err := fastqio.Open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	r := fastqio.NewReader(rc)
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		table.DiscoverRead(rec.Seq, seenTwice)
	}
	return r.Err()
}

// extractEdges runs pass 2 (spec.md §4.4/§4.6): re-read the FASTQ,
// emit ordered minimizer occurrences per read, and extract the edges
// between consecutive occurrences into a deduplicated set.
func extractEdges(path string, table *minimizer.Table, k int) (*edge.Set, error) {
	rc, err := fastqio.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	set := edge.NewSet()
	r := fastqio.NewReader(rc)
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		occ := table.OccurrencesInRead(rec.Seq)
		edge.ExtractFromRead(rec.Seq, occ, k, set)
	}
	return set, r.Err()
}

// writeUnsortedEdges serializes edgeSet to the on-disk TSV format the
// external sorter reads.
func writeUnsortedEdges(path string, set *edge.Set) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var writeErr error
	set.Each(func(r edge.Record) {
		if writeErr != nil {
			return
		}
		writeErr = edge.WriteTSV(f, r)
	})
	return writeErr
}
