package unitig

import (
	"fmt"
	"os"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

// DumpDOT renders the in-memory adjacency graph as Graphviz DOT,
// mirroring the teacher's "smfy -Graph" debug output. It is a
// visualization affordance, not part of the core assembly algorithm,
// and is only ever invoked when Config.DumpGraph is set.
func (g *Graph) DumpDOT(path string) error {
	dot := gographviz.NewGraph()
	if err := dot.SetName("mdbg"); err != nil {
		return err
	}
	if err := dot.SetDir(true); err != nil {
		return err
	}

	added := make(map[string]bool)
	addNode := func(id uint32) error {
		name := strconv.FormatUint(uint64(id), 10)
		if added[name] {
			return nil
		}
		added[name] = true
		attrs := map[string]string{"label": fmt.Sprintf("\"%d\"", id)}
		return dot.AddNode("mdbg", name, attrs)
	}

	for from, edges := range g.Adjacency {
		if err := addNode(from); err != nil {
			return err
		}
		for _, e := range edges {
			if err := addNode(e.To); err != nil {
				return err
			}
			attrs := map[string]string{"label": fmt.Sprintf("\"%d\"", len(e.Seq))}
			fromName := strconv.FormatUint(uint64(from), 10)
			toName := strconv.FormatUint(uint64(e.To), 10)
			if err := dot.AddEdge(fromName, toName, true, attrs); err != nil {
				return err
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(dot.String())
	return err
}
