// Package world models the traversable game world as a directed graph of
// collectables and doors, and loads it from a JSON room description.
//
// Node and edge identifiers are dense zero-based integers with no gaps.
// The optimizer allocates exactly one solver variable per edge, indexed by
// edge ID, so [Graph.Validate] rejects graphs whose identifiers are sparse
// as well as graphs without exactly one entry node (no incoming edges) and
// exactly one goal node (no outgoing edges). Once built, a Graph is never
// mutated and may be shared by reference across a solve.
package world

import (
	"errors"
	"math"
	"slices"
)

var (
	// ErrNoEntry is returned by [Graph.Entry] and [Graph.Validate] when no
	// node is free of incoming edges.
	ErrNoEntry = errors.New("graph has no entry node")

	// ErrMultipleEntries is returned by [Graph.Entry] and [Graph.Validate]
	// when more than one node has no incoming edges.
	ErrMultipleEntries = errors.New("graph has multiple entry nodes")

	// ErrNoGoal is returned by [Graph.Goal] and [Graph.Validate] when no
	// node is free of outgoing edges.
	ErrNoGoal = errors.New("graph has no goal node")

	// ErrMultipleGoals is returned by [Graph.Goal] and [Graph.Validate]
	// when more than one node has no outgoing edges.
	ErrMultipleGoals = errors.New("graph has multiple goal nodes")

	// ErrSparseNodeID is returned by [Graph.Validate] when a node's ID does
	// not match its position in the node list.
	ErrSparseNodeID = errors.New("node IDs are not densely packed")

	// ErrSparseEdgeID is returned by [Graph.Validate] when an edge's ID does
	// not match its position in the edge list.
	ErrSparseEdgeID = errors.New("edge IDs are not densely packed")

	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint does
	// not name an existing node.
	ErrUnknownNode = errors.New("unknown edge endpoint")
)

// Cost tags a node with the extra constraint class that applies when the
// route passes through it.
type Cost int

const (
	// CostFree marks a node with no extra constraint.
	CostFree Cost = iota
	// CostLock marks a node that consumes one key when visited.
	CostLock
	// CostWater marks a node gated by the water level.
	CostWater
	// CostSecret marks a node behind a secret passage. Edges into secret
	// nodes are excluded from dominator analysis since they bypass the
	// regular gateway structure.
	CostSecret
	// CostOneof marks a node in a group of which at most one may be visited.
	CostOneof
)

// String returns the lowercase tag name used in room files.
func (c Cost) String() string {
	switch c {
	case CostLock:
		return "lock"
	case CostWater:
		return "water"
	case CostSecret:
		return "secret"
	case CostOneof:
		return "oneof"
	default:
		return "free"
	}
}

// Node is a location in the world: a collectable or a door. Nodes are
// immutable once the graph is built.
type Node struct {
	ID   int
	Name string // globally unique, "room.place"
	Bits int    // bits gained when the node is visited
	Keys int    // keys gained when the node is visited
	Cost Cost
	Time float64 // dwell frames spent at the node
}

// KeysMinusLock returns the net key yield of visiting the node: keys gained
// minus the one key a lock consumes.
func (n Node) KeysMinusLock() int {
	if n.Cost == CostLock {
		return n.Keys - 1
	}
	return n.Keys
}

// Edge is a directed traversal between two nodes. The displacement between
// the endpoints determines the traversal cost. Edges inherit the cost tag
// of their target node. Edges are immutable once built.
type Edge struct {
	ID         int
	From, To   int
	DX, DY, DZ float64
	Cost       Cost
}

// framesPerUnit is the movement cost of one unit of displacement.
const framesPerUnit = 6.0

// Frames converts the edge displacement into a traversal cost. Horizontal
// travel follows the shorter of the two horizontal axes and overlaps with
// vertical travel, so the two contributions race rather than add.
func (e Edge) Frames() float64 {
	xz := math.Min(math.Abs(e.DX), math.Abs(e.DZ)) * framesPerUnit
	y := math.Abs(e.DY) * framesPerUnit
	return math.Max(xz, y)
}

// Graph is a directed graph with dense zero-based node and edge IDs.
// Adjacency lists hold edge IDs in insertion order, which makes every
// traversal over the graph deterministic. The zero value is not usable -
// use New.
type Graph struct {
	nodes []Node
	edges []Edge
	out   [][]int // node ID -> outgoing edge IDs, insertion order
	in    [][]int // node ID -> incoming edge IDs, insertion order
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends a node and returns its assigned ID. The ID field of the
// argument is overwritten.
func (g *Graph) AddNode(n Node) int {
	n.ID = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return n.ID
}

// AddEdge appends an edge and returns its assigned ID. The ID field of the
// argument is overwritten. Returns ErrUnknownNode if either endpoint does
// not exist.
func (g *Graph) AddEdge(e Edge) (int, error) {
	if e.From < 0 || e.From >= len(g.nodes) || e.To < 0 || e.To >= len(g.nodes) {
		return 0, ErrUnknownNode
	}
	e.ID = len(g.edges)
	g.edges = append(g.edges, e)
	g.out[e.From] = append(g.out[e.From], e.ID)
	g.in[e.To] = append(g.in[e.To], e.ID)
	return e.ID, nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id int) Node { return g.nodes[id] }

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id int) Edge { return g.edges[id] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns a copy of all nodes in ID order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in ID order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Out returns the outgoing edge IDs of a node in insertion order.
// The returned slice is a read-only view.
func (g *Graph) Out(id int) []int { return g.out[id] }

// In returns the incoming edge IDs of a node in insertion order.
// The returned slice is a read-only view.
func (g *Graph) In(id int) []int { return g.in[id] }

// FindEdge returns the ID of the first edge from one node to another.
func (g *Graph) FindEdge(from, to int) (int, bool) {
	for _, e := range g.out[from] {
		if g.edges[e].To == to {
			return e, true
		}
	}
	return 0, false
}

// Sources returns the IDs of all nodes with no incoming edges.
func (g *Graph) Sources() []int {
	var ids []int
	for i := range g.nodes {
		if len(g.in[i]) == 0 {
			ids = append(ids, i)
		}
	}
	return ids
}

// Sinks returns the IDs of all nodes with no outgoing edges.
func (g *Graph) Sinks() []int {
	var ids []int
	for i := range g.nodes {
		if len(g.out[i]) == 0 {
			ids = append(ids, i)
		}
	}
	return ids
}

// Entry returns the unique node with no incoming edges.
func (g *Graph) Entry() (int, error) {
	sources := g.Sources()
	switch len(sources) {
	case 0:
		return 0, ErrNoEntry
	case 1:
		return sources[0], nil
	default:
		return 0, ErrMultipleEntries
	}
}

// Goal returns the unique node with no outgoing edges.
func (g *Graph) Goal() (int, error) {
	sinks := g.Sinks()
	switch len(sinks) {
	case 0:
		return 0, ErrNoGoal
	case 1:
		return sinks[0], nil
	default:
		return 0, ErrMultipleGoals
	}
}

// TotalBits returns the sum of bit yields over all nodes.
func (g *Graph) TotalBits() int {
	total := 0
	for _, n := range g.nodes {
		total += n.Bits
	}
	return total
}

// Validate checks the invariants the optimizer relies on: densely packed
// node and edge IDs, edge endpoints in range, and exactly one entry and one
// goal node. A violation is a configuration error in the input data, not a
// runtime condition, so callers should treat it as fatal for the solve.
func (g *Graph) Validate() error {
	for i, n := range g.nodes {
		if n.ID != i {
			return ErrSparseNodeID
		}
	}
	for i, e := range g.edges {
		if e.ID != i {
			return ErrSparseEdgeID
		}
		if e.From < 0 || e.From >= len(g.nodes) || e.To < 0 || e.To >= len(g.nodes) {
			return ErrUnknownNode
		}
	}
	if _, err := g.Entry(); err != nil {
		return err
	}
	if _, err := g.Goal(); err != nil {
		return err
	}
	return nil
}
