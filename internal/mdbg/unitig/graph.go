// Package unitig streams the sorted edge file into an in-memory
// adjacency graph and walks maximal non-branching paths (unitigs) out
// of it, with optional bubble popping and a cycle-emission pass for
// components that the non-simple-start rule alone would miss.
package unitig

import (
	"bufio"
	"os"
	"sort"

	"github.com/Jroswprovey/JMDBG/internal/mdbg/edge"
)

// Edge is one outgoing arc in the in-memory adjacency graph.
type Edge struct {
	To  uint32
	Seq string
}

// Graph is the adjacency-list view of the deduplicated, sorted edge
// stream, plus the degree maps needed to classify nodes as simple
// (in=out=1) or non-simple.
type Graph struct {
	K         int
	Adjacency map[uint32][]Edge
	InDegree  map[uint32]int
	OutDegree map[uint32]int
}

// Load reads sortedPath (already ordered by fromId, per the external
// sort stage) into a Graph. The adjacency lists preserve the arrival
// order of edges sharing the same source, which is required for
// walkPath's "adjacency[cur][0]" rule to be deterministic.
func Load(sortedPath string, inDegree, outDegree map[uint32]int, k int) (*Graph, error) {
	f, err := os.Open(sortedPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g := &Graph{
		K:         k,
		Adjacency: make(map[uint32][]Edge),
		InDegree:  inDegree,
		OutDegree: outDegree,
	}
	r := bufio.NewReaderSize(f, 1<<20)
	err = edge.ScanTSV(r, func(rec edge.Record) error {
		g.Adjacency[rec.From] = append(g.Adjacency[rec.From], Edge{To: rec.To, Seq: rec.Seq})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// isSimple reports whether u has exactly one incoming and one
// outgoing edge, i.e. is a pass-through node of some unitig.
func (g *Graph) isSimple(u uint32) bool {
	return g.InDegree[u] == 1 && g.OutDegree[u] == 1
}

// allNodes returns every node appearing in either degree map, sorted
// for deterministic traversal order.
func (g *Graph) allNodes() []uint32 {
	seen := make(map[uint32]struct{}, len(g.InDegree)+len(g.OutDegree))
	for id := range g.InDegree {
		seen[id] = struct{}{}
	}
	for id := range g.OutDegree {
		seen[id] = struct{}{}
	}
	nodes := make([]uint32, 0, len(seen))
	for id := range seen {
		nodes = append(nodes, id)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

// edgeKey packs a directed edge for the traversed-edge bitset.
func edgeKey(from, to uint32) uint64 {
	return uint64(from)<<32 | uint64(to)
}

// walkPath performs the walk described in the design: starting at u
// via firstEdge, append sequence while the current node stays simple
// and its (single) outgoing edge hasn't already been traversed by any
// walk. Marking happens as edges are consumed, so the same edge is
// never emitted twice across the whole assembly.
func (g *Graph) walkPath(u uint32, firstEdge Edge, traversed map[uint64]bool) string {
	seq := firstEdge.Seq
	traversed[edgeKey(u, firstEdge.To)] = true
	cur := firstEdge.To
	for g.isSimple(cur) {
		edges := g.Adjacency[cur]
		if len(edges) == 0 {
			break
		}
		next := edges[0]
		k := edgeKey(cur, next.To)
		if traversed[k] {
			break
		}
		seq += next.Seq[g.K:]
		traversed[k] = true
		cur = next.To
	}
	return seq
}

// AssembleOptions tunes the optional bubble-popping extension of
// spec.md §4.8; the baseline assembler (PopBubbles: false) simply
// enumerates every unitig and lets bubbles remain as parallel unitigs.
type AssembleOptions struct {
	PopBubbles     bool
	MaxBubbleDepth int
	MaxBubbleLen   int
}

// DefaultBubbleDepth and DefaultBubbleLen are the bounds spec.md
// documents for the optional bubble resolver.
const (
	DefaultBubbleDepth = 20
	DefaultBubbleLen   = 1500
)

// Assemble enumerates every unitig: one walk per untraversed outgoing
// edge of every non-simple node, plus a second pass that captures pure
// cycles (rings where every vertex is simple) the first pass cannot
// reach because it never starts from a simple node.
func (g *Graph) Assemble(opts AssembleOptions) []string {
	traversed := make(map[uint64]bool)
	var unitigs []string

	nodes := g.allNodes()

	if opts.PopBubbles {
		depth, length := opts.MaxBubbleDepth, opts.MaxBubbleLen
		if depth <= 0 {
			depth = DefaultBubbleDepth
		}
		if length <= 0 {
			length = DefaultBubbleLen
		}
		g.popBubbles(nodes, traversed, depth, length)
	}

	for _, u := range nodes {
		if g.isSimple(u) {
			continue
		}
		for _, e := range g.Adjacency[u] {
			if traversed[edgeKey(u, e.To)] {
				continue
			}
			seq := g.walkPath(u, e, traversed)
			if len(seq) >= g.K {
				unitigs = append(unitigs, seq)
			}
		}
	}

	unitigs = append(unitigs, g.emitCycles(nodes, traversed)...)

	return unitigs
}
