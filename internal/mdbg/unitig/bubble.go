package unitig

// bubbleBranch is one simple-chain walk out of a non-simple node,
// stopped early at maxDepth hops or maxLen bases, or upon reaching
// another non-simple node (a candidate bubble endpoint).
type bubbleBranch struct {
	firstEdge Edge
	end       uint32
	closed    bool // reached a non-simple node within bounds
	seq       string
	edgeKeys  []uint64 // every edge traversed along this branch, in order
}

// traceBranch walks the simple-node chain starting at u via e,
// without mutating any traversed-edge state, recording every edge key
// it crosses so a losing branch can later be marked traversed without
// being emitted.
func (g *Graph) traceBranch(u uint32, e Edge, maxDepth, maxLen int) bubbleBranch {
	b := bubbleBranch{firstEdge: e, seq: e.Seq}
	b.edgeKeys = append(b.edgeKeys, edgeKey(u, e.To))
	cur := e.To
	depth := 1
	for {
		if !g.isSimple(cur) {
			b.end = cur
			b.closed = true
			return b
		}
		if depth >= maxDepth || len(b.seq) >= maxLen {
			b.end = cur
			b.closed = false
			return b
		}
		edges := g.Adjacency[cur]
		if len(edges) == 0 {
			b.end = cur
			b.closed = false
			return b
		}
		next := edges[0]
		b.seq += next.Seq[g.K:]
		b.edgeKeys = append(b.edgeKeys, edgeKey(cur, next.To))
		cur = next.To
		depth++
	}
}

// popBubbles finds, for each non-simple node, groups of outgoing
// branches that reconverge on the same non-simple node within
// maxDepth/maxLen, and marks every edge of every branch but the
// lexicographically smallest as traversed so Assemble's main pass
// skips them; the winning branch is left untouched and gets emitted
// normally by the caller.
func (g *Graph) popBubbles(nodes []uint32, traversed map[uint64]bool, maxDepth, maxLen int) {
	for _, u := range nodes {
		if g.isSimple(u) {
			continue
		}
		edges := g.Adjacency[u]
		if len(edges) < 2 {
			continue
		}
		byEnd := make(map[uint32][]bubbleBranch)
		for _, e := range edges {
			k := edgeKey(u, e.To)
			if traversed[k] {
				continue
			}
			br := g.traceBranch(u, e, maxDepth, maxLen)
			if !br.closed {
				continue
			}
			byEnd[br.end] = append(byEnd[br.end], br)
		}
		for _, branches := range byEnd {
			if len(branches) < 2 {
				continue
			}
			winner := 0
			for i := 1; i < len(branches); i++ {
				if branches[i].seq < branches[winner].seq {
					winner = i
				}
			}
			for i, br := range branches {
				if i == winner {
					continue
				}
				for _, k := range br.edgeKeys {
					traversed[k] = true
				}
			}
		}
	}
}
