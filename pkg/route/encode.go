package route

import (
	"fmt"

	"github.com/matzehuels/bitroute/pkg/glpk"
	"github.com/matzehuels/bitroute/pkg/world"
)

// The encoding allocates one binary variable per edge, indexed by edge ID,
// and expresses the route structure as linear rows over those variables.
// Connectivity is not encoded here; it is enforced lazily during the
// search by connectivityCut.

// edgeVars builds the variable specs: selecting an edge costs its travel
// frames plus the dwell time of its target node.
func edgeVars(g *world.Graph) []glpk.Var {
	vars := make([]glpk.Var, g.EdgeCount())
	for _, e := range g.Edges() {
		vars[e.ID] = glpk.Var{
			Name:      fmt.Sprintf("e%04d", e.ID),
			Kind:      glpk.Int,
			Bounds:    glpk.Double(0, 1),
			Objective: e.Frames() + g.Node(e.To).Time,
		}
	}
	return vars
}

// flowExprs balances edge selection per node: the entry emits one unit,
// the goal absorbs one, every other node passes through what it receives.
func flowExprs(g *world.Graph, vars glpk.VarRefs, entry, goal int) []glpk.Expr {
	exprs := make([]glpk.Expr, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		var terms []glpk.Term
		for _, e := range g.Out(n.ID) {
			terms = append(terms, vars.At(e).Times(1))
		}
		for _, e := range g.In(n.ID) {
			terms = append(terms, vars.At(e).Times(-1))
		}
		balance := 0.0
		switch n.ID {
		case entry:
			balance = 1
		case goal:
			balance = -1
		}
		exprs = append(exprs, glpk.Expr{
			Name:   n.Name + "/flow",
			Bounds: glpk.Fixed(balance),
			Terms:  terms,
		})
	}
	return exprs
}

// capacityExprs limits every intermediate node to a single visit by
// bounding its incoming selection.
func capacityExprs(g *world.Graph, vars glpk.VarRefs, entry, goal int) []glpk.Expr {
	var exprs []glpk.Expr
	for _, n := range g.Nodes() {
		if n.ID == entry || n.ID == goal {
			continue
		}
		in := g.In(n.ID)
		if len(in) == 0 {
			continue
		}
		terms := make([]glpk.Term, len(in))
		for i, e := range in {
			terms[i] = vars.At(e).Times(1)
		}
		exprs = append(exprs, glpk.Expr{
			Name:   n.Name + "/capacity",
			Bounds: glpk.Upper(1),
			Terms:  terms,
		})
	}
	return exprs
}

// secretEdges marks the edges excluded from dominator analysis: secret
// passages bypass the gateway structure.
func secretEdges(e world.Edge) bool { return e.Cost == world.CostSecret }

// dominatorExprs ties each node to its immediate dominator: a node cannot
// be entered more often than the gateway every path to it must pass.
// idom comes from immediateDominators over the non-secret subgraph. Nodes
// dominated directly by the entry need no row; the flow balance already
// caps the entry's output.
func dominatorExprs(g *world.Graph, vars glpk.VarRefs, entry int, idom []int) []glpk.Expr {
	var exprs []glpk.Expr
	for _, n := range g.Nodes() {
		d := idom[n.ID]
		if n.ID == entry || d < 0 || d == entry {
			continue
		}
		var terms []glpk.Term
		for _, e := range g.In(n.ID) {
			terms = append(terms, vars.At(e).Times(1))
		}
		for _, e := range g.In(d) {
			terms = append(terms, vars.At(e).Times(-1))
		}
		exprs = append(exprs, glpk.Expr{
			Name:   n.Name + "/dominator",
			Bounds: glpk.Upper(0),
			Terms:  terms,
		})
	}
	return exprs
}

// antiCycleExprs forbids selecting both directions of a two-node cycle,
// which flow balance and capacity alone would allow as a detached loop.
func antiCycleExprs(g *world.Graph, vars glpk.VarRefs) []glpk.Expr {
	var exprs []glpk.Expr
	for _, e := range g.Edges() {
		rev, ok := g.FindEdge(e.To, e.From)
		if !ok || e.ID >= rev {
			continue
		}
		exprs = append(exprs, glpk.Expr{
			Name:   fmt.Sprintf("%s<>%s/cycle", g.Node(e.From).Name, g.Node(e.To).Name),
			Bounds: glpk.Upper(1),
			Terms:  []glpk.Term{vars.At(e.ID).Times(1), vars.At(rev).Times(1)},
		})
	}
	return exprs
}

// requiredBitsExpr demands that the visited nodes yield at least n bits.
// Capacity keeps incoming selection at most one per node, so weighting
// each edge by its target's yield counts every visited node once.
func requiredBitsExpr(g *world.Graph, vars glpk.VarRefs, n int) glpk.Expr {
	var terms []glpk.Term
	for _, e := range g.Edges() {
		if bits := g.Node(e.To).Bits; bits > 0 {
			terms = append(terms, vars.At(e.ID).Times(float64(bits)))
		}
	}
	return glpk.Expr{Name: "bits", Bounds: glpk.Lower(float64(n)), Terms: terms}
}

// oneofExpr allows at most one visit across all one-of nodes. ok is false
// when the graph has none.
func oneofExpr(g *world.Graph, vars glpk.VarRefs) (glpk.Expr, bool) {
	var terms []glpk.Term
	for _, n := range g.Nodes() {
		if n.Cost != world.CostOneof {
			continue
		}
		for _, e := range g.In(n.ID) {
			terms = append(terms, vars.At(e).Times(1))
		}
	}
	if len(terms) == 0 {
		return glpk.Expr{}, false
	}
	return glpk.Expr{Name: "oneof", Bounds: glpk.Upper(1), Terms: terms}, true
}

// totalKeysExpr keeps the key budget non-negative over the whole route:
// each visited node contributes its keys found minus the key its lock
// consumes. This is a global balance, not an ordering constraint; a route
// may still spend a key before the solver's accounting earns it. ok is
// false when the graph has no locks to spend keys on.
func totalKeysExpr(g *world.Graph, vars glpk.VarRefs) (glpk.Expr, bool) {
	locks := false
	var terms []glpk.Term
	for _, e := range g.Edges() {
		node := g.Node(e.To)
		if node.Cost == world.CostLock {
			locks = true
		}
		if k := node.KeysMinusLock(); k != 0 {
			terms = append(terms, vars.At(e.ID).Times(float64(k)))
		}
	}
	if !locks {
		return glpk.Expr{}, false
	}
	return glpk.Expr{Name: "keys", Bounds: glpk.Lower(0), Terms: terms}, true
}
