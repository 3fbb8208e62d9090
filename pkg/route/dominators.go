package route

import "github.com/matzehuels/bitroute/pkg/world"

// immediateDominators computes the immediate dominator of every node
// reachable from entry, using the Cooper-Harvey-Kennedy iterative
// algorithm over reverse post-order. Edges for which skip returns true are
// excluded from the walk, so a node only counted as reachable through a
// skipped edge reports -1, the same as a genuinely unreachable node. The
// entry dominates itself.
func immediateDominators(g *world.Graph, entry int, skip func(world.Edge) bool) []int {
	order := postOrderSkipping(g, entry, skip)

	// Position of each node in the post-order sequence; -1 means
	// unreachable.
	index := make([]int, g.NodeCount())
	for i := range index {
		index[i] = -1
	}
	for i, n := range order {
		index[n] = i
	}

	idom := make([]int, g.NodeCount())
	for i := range idom {
		idom[i] = -1
	}
	idom[entry] = entry

	// Predecessors within the filtered subgraph.
	preds := make([][]int, g.NodeCount())
	for _, e := range g.Edges() {
		if skip != nil && skip(e) {
			continue
		}
		if index[e.From] >= 0 && index[e.To] >= 0 {
			preds[e.To] = append(preds[e.To], e.From)
		}
	}

	for changed := true; changed; {
		changed = false
		// Reverse post-order, skipping the entry.
		for i := len(order) - 1; i >= 0; i-- {
			n := order[i]
			if n == entry {
				continue
			}
			newIdom := -1
			for _, p := range preds[n] {
				if idom[p] < 0 {
					continue
				}
				if newIdom < 0 {
					newIdom = p
				} else {
					newIdom = intersect(idom, index, newIdom, p)
				}
			}
			if newIdom >= 0 && idom[n] != newIdom {
				idom[n] = newIdom
				changed = true
			}
		}
	}
	return idom
}

// intersect walks the two dominator chains up to their common ancestor.
// Post-order indices grow toward the entry, which lets the walk compare
// positions instead of maintaining explicit depths.
func intersect(idom, index []int, a, b int) int {
	for a != b {
		for index[a] < index[b] {
			a = idom[a]
		}
		for index[b] < index[a] {
			b = idom[b]
		}
	}
	return a
}

func postOrderSkipping(g *world.Graph, entry int, skip func(world.Edge) bool) []int {
	visited := make([]bool, g.NodeCount())
	var order []int
	var visit func(n int)
	visit = func(n int) {
		visited[n] = true
		for _, e := range g.Out(n) {
			edge := g.Edge(e)
			if skip != nil && skip(edge) {
				continue
			}
			if !visited[edge.To] {
				visit(edge.To)
			}
		}
		order = append(order, n)
	}
	visit(entry)
	return order
}
