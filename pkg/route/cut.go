package route

import (
	"encoding/hex"
	"fmt"

	"github.com/matzehuels/bitroute/pkg/glpk"
)

// connectivityCut inspects the live subgraph of a relaxation and, when the
// nodes reachable from the entry do not carry enough bits, returns a
// constraint forcing at least one edge across the boundary of the reached
// set. The boundary is taken over the full graph, not just live edges, so
// the cut stays valid for every feasible route.
//
// Cuts are deduplicated by the reached node set via seen: re-deriving a
// cut that is already part of the problem means the relaxation is not yet
// re-solved, not that a new row is needed.
func connectivityCut(vg *ValueGraph, requiredBits int, vars glpk.VarRefs, seen map[string]bool) (glpk.Expr, bool) {
	reached := vg.Reachable()

	bits := 0
	for n, ok := range reached {
		if ok {
			bits += vg.World.Node(n).Bits
		}
	}
	if bits >= requiredBits {
		return glpk.Expr{}, false
	}

	key := reachedKey(reached)
	if seen[key] {
		return glpk.Expr{}, false
	}
	seen[key] = true

	var terms []glpk.Term
	for _, e := range vg.World.Edges() {
		if reached[e.From] && !reached[e.To] {
			terms = append(terms, vars.At(e.ID).Times(1))
		}
	}
	// An empty boundary leaves the required bits out of reach entirely; the
	// termless row with a positive lower bound makes that infeasibility
	// explicit to the solver.
	return glpk.Expr{
		Name:   fmt.Sprintf("cut%04d", len(seen)),
		Bounds: glpk.Lower(1),
		Terms:  terms,
	}, true
}

// reachedKey packs a node membership set into a compact string key.
func reachedKey(reached []bool) string {
	packed := make([]byte, (len(reached)+7)/8)
	for n, ok := range reached {
		if ok {
			packed[n/8] |= 1 << (n % 8)
		}
	}
	return hex.EncodeToString(packed)
}
