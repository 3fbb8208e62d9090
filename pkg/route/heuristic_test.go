package route

import (
	"slices"
	"testing"

	"github.com/matzehuels/bitroute/pkg/world"
)

func allOnes(g *world.Graph) []float64 {
	vals := make([]float64, g.EdgeCount())
	for i := range vals {
		vals[i] = 1
	}
	return vals
}

func TestHeuristicPathPrefersBits(t *testing.T) {
	g := forkGraph(t)
	vg := NewValueGraph(g, 0, 2, allOnes(g))

	path, ok := vg.HeuristicPath()
	if !ok {
		t.Fatal("HeuristicPath() did not reach the goal")
	}
	// The detour collects 3 bits and wins over the cheaper direct hop.
	if want := []int{1, 2}; !slices.Equal(path, want) {
		t.Errorf("path = %v, want detour %v", path, want)
	}
}

func TestHeuristicPathBreaksTiesByTime(t *testing.T) {
	// Two routes with identical yield; the shorter one must win.
	g := build(t,
		[]world.Node{
			{Name: "t.entry"},
			{Name: "t.near", Bits: 1},
			{Name: "t.far", Bits: 1},
			{Name: "t.goal"},
		},
		[]world.Edge{
			edge(0, 1, 1), edge(1, 3, 1),
			edge(0, 2, 5), edge(2, 3, 5),
		},
	)
	vg := NewValueGraph(g, 0, 3, allOnes(g))

	path, ok := vg.HeuristicPath()
	if !ok {
		t.Fatal("HeuristicPath() did not reach the goal")
	}
	if want := []int{0, 1}; !slices.Equal(path, want) {
		t.Errorf("path = %v, want near route %v", path, want)
	}
}

func TestHeuristicPathFollowsOnlyLiveEdges(t *testing.T) {
	g := forkGraph(t)
	vals := allOnes(g)
	vals[1], vals[2] = 0, 0 // kill the detour
	vg := NewValueGraph(g, 0, 2, vals)

	path, ok := vg.HeuristicPath()
	if !ok {
		t.Fatal("HeuristicPath() did not reach the goal")
	}
	if want := []int{0}; !slices.Equal(path, want) {
		t.Errorf("path = %v, want direct %v", path, want)
	}
}

func TestHeuristicPathStopsShortWithoutGoal(t *testing.T) {
	g := forkGraph(t)
	vals := make([]float64, g.EdgeCount())
	vals[1] = 1 // only entry -> bits is live
	vg := NewValueGraph(g, 0, 2, vals)

	if _, ok := vg.HeuristicPath(); ok {
		t.Error("HeuristicPath() = ok, want failure when the goal is unreachable")
	}
}

func TestHeuristicPathIgnoresBackEdges(t *testing.T) {
	// A live two-cycle must not trap the walk.
	g := build(t,
		[]world.Node{
			{Name: "b.entry"}, {Name: "b.x", Bits: 1}, {Name: "b.y", Bits: 1}, {Name: "b.goal"},
		},
		[]world.Edge{
			edge(0, 1, 1), edge(1, 2, 1), edge(2, 1, 1), edge(2, 3, 1),
		},
	)
	vg := NewValueGraph(g, 0, 3, allOnes(g))

	path, ok := vg.HeuristicPath()
	if !ok {
		t.Fatal("HeuristicPath() did not reach the goal")
	}
	seen := map[int]bool{}
	node := 0
	for _, e := range path {
		node = g.Edge(e).To
		if seen[node] {
			t.Fatalf("path %v revisits node %d", path, node)
		}
		seen[node] = true
	}
	if node != 3 {
		t.Errorf("path ends at node %d, want the goal", node)
	}
}

func TestBranchEdgePicksMostFractional(t *testing.T) {
	g := forkGraph(t)
	vg := NewValueGraph(g, 0, 2, []float64{1, 0.6, 0.9})

	e, ok := branchEdge(vg, func(int) bool { return true })
	if !ok || e != 1 {
		t.Errorf("branchEdge() = %d, %v, want edge 1 (closest to 0.5)", e, ok)
	}
}

func TestBranchEdgeSkipsDecidedAndRejectedEdges(t *testing.T) {
	g := forkGraph(t)
	vg := NewValueGraph(g, 0, 2, []float64{1, 1, 0.5})

	// The detour's first hop is already integral; only the second is a
	// candidate.
	e, ok := branchEdge(vg, func(int) bool { return true })
	if !ok || e != 2 {
		t.Errorf("branchEdge() = %d, %v, want edge 2", e, ok)
	}

	if _, ok := branchEdge(vg, func(int) bool { return false }); ok {
		t.Error("branchEdge() chose an edge the solver rejected")
	}
}

func TestBranchEdgeDefersWithoutGoalPath(t *testing.T) {
	g := forkGraph(t)
	// Only entry -> bits is live: the heuristic path strands short of the
	// goal, so no branching choice should be steered.
	vals := make([]float64, g.EdgeCount())
	vals[1] = 0.5
	vg := NewValueGraph(g, 0, 2, vals)

	if _, ok := branchEdge(vg, func(int) bool { return true }); ok {
		t.Error("branchEdge() steered along a path that never reaches the goal")
	}
}

func TestHeuristicPathDeterministic(t *testing.T) {
	g := forkGraph(t)
	vg := NewValueGraph(g, 0, 2, allOnes(g))

	first, _ := vg.HeuristicPath()
	for i := 0; i < 10; i++ {
		again, _ := vg.HeuristicPath()
		if !slices.Equal(first, again) {
			t.Fatalf("run %d: path %v, want %v", i, again, first)
		}
	}
}
