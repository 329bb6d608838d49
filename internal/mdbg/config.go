// Package mdbg wires the minimizer de Bruijn graph pipeline stages
// (internal/mdbg/*) into the single build() entry point spec.md §6
// names, replacing the teacher's process-wide flag globals with a
// plain Config struct passed by value.
package mdbg

import (
	"fmt"
	"os"
	"runtime"

	"github.com/Jroswprovey/JMDBG/internal/mdbg/bloomcount"
	"github.com/Jroswprovey/JMDBG/internal/mdbg/unitig"
)

// Config holds every tunable of a single Build invocation. Nothing in
// this package reads process-wide state.
type Config struct {
	InputFastq  string // required
	OutputFasta string // required
	WorkDir     string // required, created if absent

	K       int     // 1 <= K <= 31, odd is conventional but not required
	Density float64 // (0,1], minimizer admission density

	// ReadNameFilterBAM, if set, names a BAM file of aligned reads
	// whose query names should be dropped before assembly (spec.md
	// §6's optional read-name filter collaborator).
	ReadNameFilterBAM string

	Threads           int
	ExpectedKmerCount uint
	FPRate            float64
	SortBufferBytes   int

	PopBubbles     bool
	MaxBubbleDepth int
	MaxBubbleLen   int

	// DumpGraph, if set, writes a Graphviz DOT rendering of the
	// pre-assembly adjacency graph next to OutputFasta for debugging;
	// it has no effect on the assembled unitigs.
	DumpGraph bool
}

// defaults mirrors the teacher's own flag defaults (constructcf.go /
// ga.go), scaled to the parameters this spec's Bloom counter uses.
func (c *Config) defaults() {
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	if c.ExpectedKmerCount == 0 {
		c.ExpectedKmerCount = 100_000_000
	}
	if c.FPRate == 0 {
		c.FPRate = 0.01
	}
	if c.SortBufferBytes == 0 {
		c.SortBufferBytes = 64 << 20
	}
	if c.MaxBubbleDepth == 0 {
		c.MaxBubbleDepth = unitig.DefaultBubbleDepth
	}
	if c.MaxBubbleLen == 0 {
		c.MaxBubbleLen = unitig.DefaultBubbleLen
	}
}

// validate enforces spec.md §7's "invalid configuration" taxonomy:
// fail fast at entry rather than partway through the pipeline.
func (c *Config) validate() error {
	if c.K <= 0 {
		return fmt.Errorf("[Config.validate] K must be > 0, got %d", c.K)
	}
	if c.K > 31 {
		return fmt.Errorf("[Config.validate] K must be <= 31, got %d", c.K)
	}
	if c.Density <= 0 || c.Density > 1 {
		return fmt.Errorf("[Config.validate] Density must be in (0,1], got %v", c.Density)
	}
	if c.InputFastq == "" {
		return fmt.Errorf("[Config.validate] InputFastq is required")
	}
	if _, err := os.Stat(c.InputFastq); err != nil {
		return fmt.Errorf("[Config.validate] InputFastq: %w", err)
	}
	if c.OutputFasta == "" {
		return fmt.Errorf("[Config.validate] OutputFasta is required")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("[Config.validate] WorkDir is required")
	}
	return nil
}

func (c Config) bloomParams() bloomcount.Params {
	return bloomcount.Params{
		K:                 c.K,
		ExpectedKmerCount: c.ExpectedKmerCount,
		FPRate:            c.FPRate,
		Threads:           c.Threads,
	}
}
