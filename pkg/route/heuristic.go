package route

import "math"

// chain is the best continuation found from a node: the bits and frames
// collected from the node to the end of the chain, and the first live edge
// to follow. edge is -1 when the chain ends at the node itself.
type chain struct {
	bits int
	time float64
	edge int
}

// better orders chains by bits collected, breaking ties toward the
// cheaper one.
func better(a, b chain) bool {
	if a.bits != b.bits {
		return a.bits > b.bits
	}
	return a.time < b.time
}

// HeuristicPath greedily extracts a simple path from the live subgraph:
// a post-order pass computes the best continuation of every reachable
// node, then the path follows best continuations from the entry. The
// returned edge IDs are in travel order; ok reports whether the path
// ends at the goal.
//
// Back edges of the depth-first traversal are ignored, so the path never
// revisits a node even when the live subgraph is cyclic.
func (vg *ValueGraph) HeuristicPath() ([]int, bool) {
	chains := make([]chain, vg.World.NodeCount())
	done := make([]bool, vg.World.NodeCount())

	for _, n := range vg.postOrder() {
		node := vg.World.Node(n)
		// A chain only ends where no live continuation exists; otherwise a
		// zero-cost stop would always beat moving on.
		best := chain{bits: node.Bits, time: node.Time, edge: -1}
		found := false
		for _, e := range vg.World.Out(n) {
			if !vg.Live(e) {
				continue
			}
			edge := vg.World.Edge(e)
			if !done[edge.To] {
				continue
			}
			next := chains[edge.To]
			cand := chain{
				bits: node.Bits + next.bits,
				time: node.Time + edge.Frames() + next.time,
				edge: e,
			}
			if !found || better(cand, best) {
				best = cand
				found = true
			}
		}
		chains[n] = best
		done[n] = true
	}

	var path []int
	n := vg.Entry
	for chains[n].edge >= 0 {
		e := chains[n].edge
		path = append(path, e)
		n = vg.World.Edge(e).To
	}
	return path, n == vg.Goal
}

// branchEdge picks the undecided heuristic-path edge whose value is
// closest to 0.5. When the path strands short of the goal there is
// nothing worth steering toward and the choice is left to the solver.
func branchEdge(vg *ValueGraph, canBranch func(edge int) bool) (int, bool) {
	path, ok := vg.HeuristicPath()
	if !ok {
		return 0, false
	}
	best := -1
	bestScore := math.Inf(1)
	for _, e := range path {
		w := vg.Value(e)
		if 1.0-w <= Eps {
			continue
		}
		if !canBranch(e) {
			continue
		}
		if score := math.Abs(w - 0.5); score < bestScore {
			best, bestScore = e, score
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
