// Package extsort implements the classical external merge sort used
// to order edge records by their source minimizer ID: bounded
// in-memory runs sorted and spilled to temp files, then merged with a
// min-heap over one cursor per run.
package extsort

import (
	"bufio"
	"container/heap"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash"

	"github.com/Jroswprovey/JMDBG/internal/mdbg/edge"
)

// DefaultBufferBytes bounds how much of the unsorted file is held in
// memory per run, before it is sorted and spilled.
const DefaultBufferBytes = 64 << 20 // 64 MiB

// Sort reads the newline-delimited edge records in inputPath, sorts
// them by ascending fromId, and writes the result to outputPath.
// Intermediate run files are created under workDir and removed on
// success; ties on fromId are broken arbitrarily but stably within a
// run.
func Sort(inputPath, outputPath, workDir string, bufferBytes int) (err error) {
	if bufferBytes <= 0 {
		bufferBytes = DefaultBufferBytes
	}
	runs, err := writeRuns(inputPath, workDir, bufferBytes)
	if err != nil {
		return fmt.Errorf("[extsort.Sort] writeRuns: %w", err)
	}
	defer func() {
		for _, r := range runs {
			os.Remove(r.path)
		}
	}()
	if err := mergeRuns(runs, outputPath); err != nil {
		return fmt.Errorf("[extsort.Sort] mergeRuns: %w", err)
	}
	return nil
}

// runInfo is a spilled sort run together with the xxhash checksum of
// its bytes at write time, so a truncated or otherwise corrupted spill
// file is caught at merge time instead of silently mis-sorting.
type runInfo struct {
	path     string
	checksum uint64
}

// writeRuns splits the input into sorted runs bounded by bufferBytes
// each, returning their paths and checksums.
func writeRuns(inputPath, workDir string, bufferBytes int) (runs []runInfo, err error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var buf []edge.Record
	var bufSize int
	runIdx := 0

	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		sort.SliceStable(buf, func(i, j int) bool { return buf[i].From < buf[j].From })
		runPath := filepath.Join(workDir, fmt.Sprintf("run-%06d.tsv", runIdx))
		runIdx++
		sum, err := writeRecords(runPath, buf)
		if err != nil {
			return err
		}
		runs = append(runs, runInfo{path: runPath, checksum: sum})
		buf = buf[:0]
		bufSize = 0
		return nil
	}

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		rec, err := edge.ParseTSV(line)
		if err != nil {
			return nil, err
		}
		buf = append(buf, rec)
		bufSize += len(line) + 1
		if bufSize >= bufferBytes {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return runs, nil
}

// writeRecords spills recs to path and returns the xxhash checksum of
// the bytes written, computed as they're written rather than in a
// second pass.
func writeRecords(path string, recs []edge.Record) (uint64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h := xxhash.New()
	w := bufio.NewWriter(io.MultiWriter(f, h))
	for _, r := range recs {
		if err := edge.WriteTSV(w, r); err != nil {
			return 0, err
		}
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// runCursor tracks one open run file's current head record, hashing
// its bytes as they're scanned so a checksum mismatch at EOF reveals a
// truncated or otherwise corrupted spill file.
type runCursor struct {
	path     string
	sc       *bufio.Scanner
	f        *os.File
	hash     hash.Hash64
	checksum uint64
	head     edge.Record
	hasHead  bool
}

func (c *runCursor) advance() error {
	if c.sc.Scan() {
		line := c.sc.Bytes()
		c.hash.Write(line)
		c.hash.Write([]byte{'\n'})
		rec, err := edge.ParseTSV(string(line))
		if err != nil {
			return err
		}
		c.head, c.hasHead = rec, true
		return nil
	}
	c.hasHead = false
	if err := c.sc.Err(); err != nil {
		return err
	}
	if c.hash.Sum64() != c.checksum {
		return fmt.Errorf("[extsort] run %s: checksum mismatch, spill file corrupted or truncated", c.path)
	}
	return nil
}

// cursorHeap is a min-heap over run cursors ordered by head.From.
type cursorHeap []*runCursor

func (h cursorHeap) Len() int            { return len(h) }
func (h cursorHeap) Less(i, j int) bool  { return h[i].head.From < h[j].head.From }
func (h cursorHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *cursorHeap) Push(x interface{}) { *h = append(*h, x.(*runCursor)) }
func (h *cursorHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// mergeRuns performs a k-way merge of runs into outputPath.
func mergeRuns(runs []runInfo, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()
	w := bufio.NewWriter(out)
	defer w.Flush()

	var cursors []*runCursor
	defer func() {
		for _, c := range cursors {
			c.f.Close()
		}
	}()

	h := &cursorHeap{}
	for _, ri := range runs {
		f, err := os.Open(ri.path)
		if err != nil {
			return err
		}
		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		c := &runCursor{path: ri.path, sc: sc, f: f, hash: xxhash.New(), checksum: ri.checksum}
		cursors = append(cursors, c)
		if err := c.advance(); err != nil {
			return err
		}
		if c.hasHead {
			*h = append(*h, c)
		}
	}
	heap.Init(h)

	for h.Len() > 0 {
		c := heap.Pop(h).(*runCursor)
		if err := edge.WriteTSV(w, c.head); err != nil {
			return err
		}
		if err := c.advance(); err != nil {
			return err
		}
		if c.hasHead {
			heap.Push(h, c)
		}
	}
	return nil
}
