package route

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bitroute/pkg/world"
)

func quiet() Options {
	return Options{Logger: log.New(io.Discard)}
}

func TestOptimizeChain(t *testing.T) {
	g := chainGraph(t, 5)
	opts := quiet()
	opts.RequiredBits = 5

	res, err := Optimize(g, opts)
	if err != nil {
		t.Fatalf("Optimize(): %v", err)
	}
	if len(res.Edges) != 2 {
		t.Fatalf("route has %d edges, want 2", len(res.Edges))
	}
	if res.Bits != 5 {
		t.Errorf("Bits = %d, want 5", res.Bits)
	}
	if math.Abs(res.Frames-12) > 1e-6 {
		t.Errorf("Frames = %v, want 12", res.Frames)
	}
}

func TestOptimizeDirectWhenNoBitsRequired(t *testing.T) {
	res, err := Optimize(forkGraph(t), quiet())
	if err != nil {
		t.Fatalf("Optimize(): %v", err)
	}
	if len(res.Edges) != 1 {
		t.Fatalf("route has %d edges, want the direct hop", len(res.Edges))
	}
	if math.Abs(res.Frames-6) > 1e-6 {
		t.Errorf("Frames = %v, want 6", res.Frames)
	}
}

func TestOptimizeDetoursForBits(t *testing.T) {
	opts := quiet()
	opts.RequiredBits = 3

	res, err := Optimize(forkGraph(t), opts)
	if err != nil {
		t.Fatalf("Optimize(): %v", err)
	}
	if res.Bits < 3 {
		t.Errorf("Bits = %d, want at least 3", res.Bits)
	}
	if len(res.Edges) != 2 {
		t.Errorf("route has %d edges, want the detour's 2", len(res.Edges))
	}
	if math.Abs(res.Frames-24) > 1e-6 {
		t.Errorf("Frames = %v, want 24", res.Frames)
	}
}

func TestOptimizeInsufficientBits(t *testing.T) {
	opts := quiet()
	opts.RequiredBits = 10 // the fork world holds 3

	if _, err := Optimize(forkGraph(t), opts); !errors.Is(err, ErrInsufficientBits) {
		t.Errorf("Optimize() = %v, want ErrInsufficientBits", err)
	}
}

func TestOptimizeInfeasibleOneofs(t *testing.T) {
	// Two one-of nodes hold 2 bits each; 4 bits are demanded but at most
	// one of the nodes may be visited.
	g := build(t,
		[]world.Node{
			{Name: "o.entry"},
			{Name: "o.first", Bits: 2, Cost: world.CostOneof},
			{Name: "o.second", Bits: 2, Cost: world.CostOneof},
			{Name: "o.goal"},
		},
		[]world.Edge{
			edge(0, 1, 1), edge(0, 2, 1),
			edge(1, 2, 1), edge(2, 1, 1),
			edge(1, 3, 1), edge(2, 3, 1),
		},
	)
	opts := quiet()
	opts.RequiredBits = 4

	if _, err := Optimize(g, opts); !errors.Is(err, ErrNoRoute) {
		t.Errorf("Optimize() = %v, want ErrNoRoute", err)
	}
}

func TestOptimizeNeverTakesBothCycleDirections(t *testing.T) {
	g := build(t,
		[]world.Node{
			{Name: "c.entry"}, {Name: "c.x", Bits: 1}, {Name: "c.y", Bits: 1}, {Name: "c.goal"},
		},
		[]world.Edge{
			edge(0, 1, 1), edge(1, 2, 1), edge(2, 1, 1), edge(2, 3, 1),
		},
	)
	opts := quiet()
	opts.RequiredBits = 2

	res, err := Optimize(g, opts)
	if err != nil {
		t.Fatalf("Optimize(): %v", err)
	}
	forward, backward := false, false
	for _, e := range res.Edges {
		if e.From == 1 && e.To == 2 {
			forward = true
		}
		if e.From == 2 && e.To == 1 {
			backward = true
		}
	}
	if forward && backward {
		t.Error("route takes both directions of the two-cycle")
	}
}

func TestOptimizeRoutesThroughKey(t *testing.T) {
	// The lock guards the only bits. A route through it must first pick
	// up the key even though the direct approach is cheaper.
	g := build(t,
		[]world.Node{
			{Name: "k.entry"},
			{Name: "k.key", Keys: 1},
			{Name: "k.lock", Bits: 3, Cost: world.CostLock},
			{Name: "k.goal"},
		},
		[]world.Edge{
			edge(0, 2, 1), // direct to the lock, no key
			edge(0, 1, 2), edge(1, 2, 2),
			edge(2, 3, 1),
		},
	)
	opts := quiet()
	opts.RequiredBits = 3

	res, err := Optimize(g, opts)
	if err != nil {
		t.Fatalf("Optimize(): %v", err)
	}
	viaKey := false
	for _, n := range res.Nodes {
		if n.Name == "k.key" {
			viaKey = true
		}
	}
	if !viaKey {
		t.Errorf("route %v skips the key", routeNames(res))
	}
	if res.Keys != 1 {
		t.Errorf("Keys = %d, want 1", res.Keys)
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	opts := quiet()
	opts.RequiredBits = 3

	first, err := Optimize(forkGraph(t), opts)
	if err != nil {
		t.Fatalf("Optimize(): %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := Optimize(forkGraph(t), opts)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if again.Frames != first.Frames || len(again.Edges) != len(first.Edges) {
			t.Fatalf("run %d: %v frames over %d edges, want %v over %d",
				i, again.Frames, len(again.Edges), first.Frames, len(first.Edges))
		}
		for j := range first.Edges {
			if again.Edges[j].ID != first.Edges[j].ID {
				t.Fatalf("run %d: edge %d is %d, want %d", i, j, again.Edges[j].ID, first.Edges[j].ID)
			}
		}
	}
}

// recordingHooks counts events and keeps the labels seen.
type recordingHooks struct {
	labels []string
	done   int
}

func (h *recordingHooks) Relaxed(label string, _ *ValueGraph)  { h.labels = append(h.labels, label) }
func (h *recordingHooks) CutAdded(label string, _ *ValueGraph) { h.labels = append(h.labels, label) }
func (h *recordingHooks) Solution(label string, _ *ValueGraph) { h.labels = append(h.labels, label) }
func (h *recordingHooks) Done(label string, _ *ValueGraph) {
	h.labels = append(h.labels, label)
	h.done++
}

func TestOptimizeHookOrdering(t *testing.T) {
	hooks := &recordingHooks{}
	opts := quiet()
	opts.RequiredBits = 3
	opts.Hooks = hooks

	if _, err := Optimize(forkGraph(t), opts); err != nil {
		t.Fatalf("Optimize(): %v", err)
	}
	if hooks.done != 1 {
		t.Errorf("Done fired %d times, want 1", hooks.done)
	}
	for i := 1; i < len(hooks.labels); i++ {
		if hooks.labels[i-1] >= hooks.labels[i] {
			t.Fatalf("labels out of order: %q before %q", hooks.labels[i-1], hooks.labels[i])
		}
	}
}

// newSearch builds the callback state for a graph without touching the
// solver, the way Optimize wires it.
func newSearch(t *testing.T, g *world.Graph, requiredBits int) *search {
	t.Helper()
	entry, err := g.Entry()
	if err != nil {
		t.Fatalf("Entry(): %v", err)
	}
	goal, err := g.Goal()
	if err != nil {
		t.Fatalf("Goal(): %v", err)
	}
	return &search{
		g:            g,
		entry:        entry,
		goal:         goal,
		idom:         immediateDominators(g, entry, secretEdges),
		requiredBits: requiredBits,
	}
}

func TestHeuristicIncumbentRespectsDominators(t *testing.T) {
	// The gate dominates the vault on the non-secret subgraph, but a
	// secret shortcut skips it. A path through the shortcut violates the
	// vault's dominator row and must never seed the incumbent.
	g := build(t,
		[]world.Node{
			{Name: "v.entry"},
			{Name: "v.gate"},
			{Name: "v.vault", Bits: 3},
			{Name: "v.goal"},
		},
		[]world.Edge{
			edge(0, 1, 1),
			edge(1, 2, 1),
			{From: 0, To: 2, DX: 1, DZ: 1, Cost: world.CostSecret},
			edge(2, 3, 1),
		},
	)
	s := newSearch(t, g, 3)

	if s.pathFeasible([]int{2, 3}) {
		t.Error("shortcut path accepted despite skipping the vault's dominator")
	}
	if !s.pathFeasible([]int{0, 1, 3}) {
		t.Error("path through the gate rejected")
	}
}

func TestHeuristicIncumbentCountsBitsLikeTheRow(t *testing.T) {
	// The entry has no incoming edge, so its bits never appear in the
	// bits row; a candidate incumbent may not count them either.
	g := build(t,
		[]world.Node{
			{Name: "e.entry", Bits: 2},
			{Name: "e.mid", Bits: 3},
			{Name: "e.goal"},
		},
		[]world.Edge{edge(0, 1, 1), edge(1, 2, 1)},
	)

	if newSearch(t, g, 5).pathFeasible([]int{0, 1}) {
		t.Error("path accepted by counting the entry's bits toward the row")
	}
	if !newSearch(t, g, 3).pathFeasible([]int{0, 1}) {
		t.Error("path rejected despite satisfying the bits row")
	}
}

func routeNames(res *Result) []string {
	names := make([]string, len(res.Nodes))
	for i, n := range res.Nodes {
		names[i] = n.Name
	}
	return names
}
