// Package fastqio reads FASTQ, transparently decompressing the
// gzip/zstd/brotli-compressed variants the teacher's own pipeline
// stages produce, and writes plain (uncompressed) FASTQ.
package fastqio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/brotli/go/cbrotli"
	"github.com/klauspost/compress/zstd"
)

// Record is a single FASTQ read; only Name and Seq matter to the
// assembly core (spec.md §6: "only the sequence line is consumed").
type Record struct {
	Name string // header text after '@', first whitespace-delimited token
	Seq  []byte
	Qual []byte
}

// Open opens path for reading, wrapping it in a decompressor chosen
// by the file extension (.gz, .zst, .br); a plain path is read as-is.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &closeBoth{Reader: zr, inner: f, closer: zr}, nil
	case strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
		if err != nil {
			f.Close()
			return nil, err
		}
		return &closeBoth{Reader: zr, inner: f, closer: zstdCloser{zr}}, nil
	case strings.HasSuffix(path, ".br"):
		br := cbrotli.NewReader(f)
		return &closeBoth{Reader: br, inner: f, closer: br}, nil
	default:
		return f, nil
	}
}

type closeBoth struct {
	io.Reader
	inner  io.Closer
	closer io.Closer
}

// zstdCloser adapts *zstd.Decoder's void Close() to io.Closer.
type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}

func (c *closeBoth) Close() error {
	c.closer.Close()
	return c.inner.Close()
}

// Reader parses 4-line FASTQ records from an underlying stream.
type Reader struct {
	sc *bufio.Scanner
}

// NewReader wraps r for record-at-a-time FASTQ parsing.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Reader{sc: sc}
}

// Read returns the next record, or io.EOF once the stream is
// exhausted. A truncated final record (fewer than 4 lines available
// at EOF) is tolerated and reported as io.EOF rather than an error.
func (r *Reader) Read() (Record, error) {
	if !r.sc.Scan() {
		return Record{}, io.EOF
	}
	header := r.sc.Text()
	if !strings.HasPrefix(header, "@") {
		return Record{}, fmt.Errorf("[fastqio.Reader.Read] expected '@' header, got %q", header)
	}
	if !r.sc.Scan() {
		return Record{}, io.EOF // truncated record
	}
	seqLine := r.sc.Text()
	if !r.sc.Scan() {
		return Record{}, io.EOF
	}
	if !r.sc.Scan() {
		return Record{}, io.EOF
	}
	qualLine := r.sc.Text()

	name := header[1:]
	if sp := strings.IndexAny(name, " \t"); sp >= 0 {
		name = name[:sp]
	}
	return Record{Name: name, Seq: []byte(seqLine), Qual: []byte(qualLine)}, nil
}

// Err reports any non-EOF error the underlying scanner accumulated.
func (r *Reader) Err() error {
	return r.sc.Err()
}

// SequenceQueue opens path and streams every record's sequence line
// into a channel of the given capacity, closing the channel at EOF.
// It is the producer side of the Bloom-filter two-pass counter
// (spec.md §5: "bounded queue, capacity 1000").
func SequenceQueue(path string, capacity int) (<-chan []byte, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	ch := make(chan []byte, capacity)
	go func() {
		defer close(ch)
		defer rc.Close()
		fr := NewReader(rc)
		for {
			rec, err := fr.Read()
			if err != nil {
				return
			}
			ch <- rec.Seq
		}
	}()
	return ch, nil
}

// Writer writes FASTQ records back out, used by the read-name filter
// collaborator.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w for record writes.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write appends one FASTQ record.
func (w *Writer) Write(r Record) error {
	if _, err := fmt.Fprintf(w.w, "@%s\n", r.Name); err != nil {
		return err
	}
	if _, err := w.w.Write(r.Seq); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	if _, err := w.w.WriteString("+\n"); err != nil {
		return err
	}
	if _, err := w.w.Write(r.Qual); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush flushes buffered output.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
