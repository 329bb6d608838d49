package unitig

// emitCycles handles pure cycles: components where every vertex has
// in-degree = out-degree = 1, so no vertex ever qualifies as a
// non-simple walk start and the main Assemble pass leaves every edge
// untraversed. For each such component we start from an arbitrary
// unvisited edge and walk with the same walkPath rule used elsewhere;
// walkPath's own traversed-edge check stops the walk the instant it
// comes back around to the edge it started from, so each ring is
// emitted exactly once. The closing overlap is kept: the emitted
// sequence ends with the same k bases (the start node's k-mer) that it
// begins with; they are not trimmed.
func (g *Graph) emitCycles(nodes []uint32, traversed map[uint64]bool) []string {
	var unitigs []string
	for _, u := range nodes {
		if !g.isSimple(u) {
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
	return unitigs
}
