package world

import (
	"errors"
	"math"
	"testing"
)

func TestAddNodeAssignsDenseIDs(t *testing.T) {
	g := New()
	for i := 0; i < 5; i++ {
		if id := g.AddNode(Node{Name: "n"}); id != i {
			t.Errorf("AddNode() = %d, want %d", id, i)
		}
	}
	if err := validateIDs(g); err != nil {
		t.Errorf("dense IDs: %v", err)
	}
}

func validateIDs(g *Graph) error {
	for i, n := range g.Nodes() {
		if n.ID != i {
			return ErrSparseNodeID
		}
	}
	return nil
}

func TestAddEdgeUnknownEndpoint(t *testing.T) {
	g := New()
	g.AddNode(Node{Name: "a"})
	if _, err := g.AddEdge(Edge{From: 0, To: 3}); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge() error = %v, want ErrUnknownNode", err)
	}
}

func TestEntryAndGoal(t *testing.T) {
	g := chain(t, 3)
	entry, err := g.Entry()
	if err != nil || entry != 0 {
		t.Errorf("Entry() = %d, %v, want 0, nil", entry, err)
	}
	goal, err := g.Goal()
	if err != nil || goal != 2 {
		t.Errorf("Goal() = %d, %v, want 2, nil", goal, err)
	}
}

func TestValidateMultipleEntries(t *testing.T) {
	g := New()
	g.AddNode(Node{Name: "a"})
	g.AddNode(Node{Name: "b"})
	g.AddNode(Node{Name: "goal"})
	mustEdge(t, g, Edge{From: 0, To: 2})
	mustEdge(t, g, Edge{From: 1, To: 2})
	if err := g.Validate(); !errors.Is(err, ErrMultipleEntries) {
		t.Errorf("Validate() = %v, want ErrMultipleEntries", err)
	}
}

func TestValidateNoGoal(t *testing.T) {
	g := New()
	g.AddNode(Node{Name: "entry"})
	g.AddNode(Node{Name: "a"})
	g.AddNode(Node{Name: "b"})
	mustEdge(t, g, Edge{From: 0, To: 1})
	mustEdge(t, g, Edge{From: 1, To: 2})
	mustEdge(t, g, Edge{From: 2, To: 1})
	if err := g.Validate(); !errors.Is(err, ErrNoGoal) {
		t.Errorf("Validate() = %v, want ErrNoGoal", err)
	}
}

func TestValidateOK(t *testing.T) {
	if err := chain(t, 4).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestKeysMinusLock(t *testing.T) {
	tests := []struct {
		node Node
		want int
	}{
		{Node{Keys: 1}, 1},
		{Node{Keys: 1, Cost: CostLock}, 0},
		{Node{Cost: CostLock}, -1},
		{Node{}, 0},
	}
	for _, tt := range tests {
		if got := tt.node.KeysMinusLock(); got != tt.want {
			t.Errorf("KeysMinusLock() with keys=%d cost=%v: got %d, want %d",
				tt.node.Keys, tt.node.Cost, got, tt.want)
		}
	}
}

func TestFrames(t *testing.T) {
	tests := []struct {
		dx, dy, dz float64
		want       float64
	}{
		{1, 0, 1, 6},    // horizontal only, shorter axis
		{4, 0, 1, 6},    // shorter horizontal axis wins
		{1, 2, 1, 12},   // vertical dominates
		{-2, 0, -2, 12}, // direction does not matter
		{0, -3, 0, 18},  // downward travel still costs
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		e := Edge{DX: tt.dx, DY: tt.dy, DZ: tt.dz}
		if got := e.Frames(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Frames(%v,%v,%v) = %v, want %v", tt.dx, tt.dy, tt.dz, got, tt.want)
		}
	}
}

func TestTotalBits(t *testing.T) {
	g := New()
	g.AddNode(Node{Bits: 3})
	g.AddNode(Node{Bits: 5})
	g.AddNode(Node{})
	if got := g.TotalBits(); got != 8 {
		t.Errorf("TotalBits() = %d, want 8", got)
	}
}

func TestFindEdge(t *testing.T) {
	g := chain(t, 3)
	if id, ok := g.FindEdge(0, 1); !ok || id != 0 {
		t.Errorf("FindEdge(0,1) = %d, %v, want 0, true", id, ok)
	}
	if _, ok := g.FindEdge(1, 0); ok {
		t.Error("FindEdge(1,0) found an edge, want none")
	}
}

// chain builds a simple path 0 -> 1 -> ... -> n-1.
func chain(t *testing.T, n int) *Graph {
	t.Helper()
	g := New()
	for i := 0; i < n; i++ {
		g.AddNode(Node{Name: "n"})
	}
	for i := 0; i+1 < n; i++ {
		mustEdge(t, g, Edge{From: i, To: i + 1})
	}
	return g
}

func mustEdge(t *testing.T, g *Graph, e Edge) int {
	t.Helper()
	id, err := g.AddEdge(e)
	if err != nil {
		t.Fatalf("AddEdge(%d->%d): %v", e.From, e.To, err)
	}
	return id
}
