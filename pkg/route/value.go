package route

import "github.com/matzehuels/bitroute/pkg/world"

// Eps is the tolerance below which a fractional edge value counts as zero.
const Eps = 1e-6

// ValueGraph pairs the world graph with one value per edge, taken from a
// solver state (an LP relaxation or an integral incumbent). An edge is live
// when its value exceeds [Eps]; the analyses in this package only follow
// live edges.
type ValueGraph struct {
	World  *world.Graph
	Entry  int
	Goal   int
	values []float64
}

// NewValueGraph builds a view over g with the given per-edge values,
// indexed by edge ID.
func NewValueGraph(g *world.Graph, entry, goal int, values []float64) *ValueGraph {
	return &ValueGraph{World: g, Entry: entry, Goal: goal, values: values}
}

// Value returns the solver value of an edge.
func (vg *ValueGraph) Value(edgeID int) float64 { return vg.values[edgeID] }

// Live reports whether an edge carries solver value.
func (vg *ValueGraph) Live(edgeID int) bool { return vg.values[edgeID] > Eps }

// LiveOut returns the live outgoing edge IDs of a node in insertion order.
func (vg *ValueGraph) LiveOut(node int) []int {
	var live []int
	for _, e := range vg.World.Out(node) {
		if vg.Live(e) {
			live = append(live, e)
		}
	}
	return live
}

// Reachable returns the set of nodes reachable from the entry over live
// edges, as a membership slice indexed by node ID. Traversal order follows
// edge insertion order, so the result is deterministic for a given state.
func (vg *ValueGraph) Reachable() []bool {
	reached := make([]bool, vg.World.NodeCount())
	stack := []int{vg.Entry}
	reached[vg.Entry] = true
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range vg.World.Out(n) {
			if !vg.Live(e) {
				continue
			}
			to := vg.World.Edge(e).To
			if !reached[to] {
				reached[to] = true
				stack = append(stack, to)
			}
		}
	}
	return reached
}

// postOrder returns the nodes reachable from the entry over live edges in
// depth-first post-order. Children are expanded in edge insertion order.
func (vg *ValueGraph) postOrder() []int {
	visited := make([]bool, vg.World.NodeCount())
	var order []int
	var visit func(n int)
	visit = func(n int) {
		visited[n] = true
		for _, e := range vg.World.Out(n) {
			if !vg.Live(e) {
				continue
			}
			if to := vg.World.Edge(e).To; !visited[to] {
				visit(to)
			}
		}
		order = append(order, n)
	}
	visit(vg.Entry)
	return order
}
