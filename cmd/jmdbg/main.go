package main

import (
	"log"

	"github.com/jwaldrip/odin/cli"

	"github.com/Jroswprovey/JMDBG/internal/mdbg"
	"github.com/Jroswprovey/JMDBG/internal/mdbg/readfilter"
	"github.com/Jroswprovey/JMDBG/internal/mdbg/unitig"
)

const KmerDef = 21

var app = cli.New("1.0.0", "Minimizer de Bruijn Graph genome assembler", func(c cli.Command) {})

func init() {
	app.DefineStringFlag("i", "", "input reads file, *.fastq[.gz|.zst|.br]")
	app.DefineStringFlag("o", "assembly.fa", "output unitig fasta file")
	app.DefineStringFlag("w", "./jmdbg_work", "working directory for intermediate files")
	app.DefineIntFlag("K", KmerDef, "kmer length, 1 <= K <= 31")
	app.DefineFloat64Flag("D", 0.01, "minimizer density, in (0,1]")
	app.DefineIntFlag("t", 0, "number of worker threads, 0 means runtime.NumCPU()")

	build := app.DefineSubCommand("build", "run the full pipeline: filter, count, edges, sort, assemble", Build)
	{
		build.DefineStringFlag("bam", "", "optional BAM of aligned reads; query names present here are dropped before assembly")
		build.DefineInt64Flag("expectKmers", 100_000_000, "expected distinct kmer count, sizes the Bloom filters")
		build.DefineFloat64Flag("fp", 0.01, "Bloom filter false-positive rate")
		build.DefineIntFlag("sortBuf", 64<<20, "external sort in-memory buffer size in bytes")
		build.DefineBoolFlag("popBubbles", false, "collapse short bubbles after unitig assembly")
		build.DefineIntFlag("bubbleDepth", unitig.DefaultBubbleDepth, "max bubble search depth in edges")
		build.DefineIntFlag("bubbleLen", unitig.DefaultBubbleLen, "max bubble branch length in bases")
		build.DefineBoolFlag("dumpGraph", false, "write a Graphviz .dot of the pre-assembly graph next to -o")
	}

	filter := app.DefineSubCommand("filter", "drop reads whose name is mapped in a BAM file", Filter)
	{
		filter.DefineStringFlag("bam", "", "BAM file of aligned reads")
	}
}

func main() {
	app.Start()
}

// Build wires the app's global flags and the build subcommand's own
// flags into a mdbg.Config and runs the pipeline end to end. This is
// the CLI's entry point onto the build() operation named in spec.md §6.
func Build(c cli.Command) {
	p := c.Parent()
	cfg := mdbg.Config{
		InputFastq:        p.Flag("i").String(),
		OutputFasta:       p.Flag("o").String(),
		WorkDir:           p.Flag("w").String(),
		K:                 p.Flag("K").Get().(int),
		Density:           p.Flag("D").Get().(float64),
		Threads:           p.Flag("t").Get().(int),
		ReadNameFilterBAM: c.Flag("bam").String(),
		ExpectedKmerCount: uint(c.Flag("expectKmers").Get().(int64)),
		FPRate:            c.Flag("fp").Get().(float64),
		SortBufferBytes:   c.Flag("sortBuf").Get().(int),
		PopBubbles:        c.Flag("popBubbles").Get().(bool),
		MaxBubbleDepth:    c.Flag("bubbleDepth").Get().(int),
		MaxBubbleLen:      c.Flag("bubbleLen").Get().(int),
		DumpGraph:         c.Flag("dumpGraph").Get().(bool),
	}
	if err := mdbg.Build(cfg); err != nil {
		log.Fatalf("[Build] %v\n", err)
	}
}

// Filter runs the read-name filter collaborator standalone, writing
// the filtered FASTQ to the app's -o flag.
func Filter(c cli.Command) {
	p := c.Parent()
	in := p.Flag("i").String()
	out := p.Flag("o").String()
	bamPath := c.Flag("bam").String()
	if bamPath == "" {
		log.Fatalf("[Filter] -bam is required\n")
	}
	names, err := readfilter.FromBAM(bamPath)
	if err != nil {
		log.Fatalf("[Filter] loading %s: %v\n", bamPath, err)
	}
	kept, dropped, err := readfilter.Apply(in, out, names)
	if err != nil {
		log.Fatalf("[Filter] %v\n", err)
	}
	log.Printf("[Filter] kept %d reads, dropped %d matching %s\n", kept, dropped, bamPath)
}
