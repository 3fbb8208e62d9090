package glpk

/*
#include <glpk.h>
*/
import "C"

import (
	"unsafe"

	pointer "github.com/mattn/go-pointer"
)

// BranchDir selects which subproblem the solver explores first after
// branching on a variable.
type BranchDir int

const (
	// BranchUp explores the rounded-up subproblem first.
	BranchUp BranchDir = iota
	// BranchDown explores the rounded-down subproblem first.
	BranchDown
	// BranchAuto leaves the choice to the solver.
	BranchAuto
)

func (d BranchDir) glp() C.int {
	switch d {
	case BranchUp:
		return C.GLP_UP_BRNCH
	case BranchDown:
		return C.GLP_DN_BRNCH
	default:
		return C.GLP_NO_BRNCH
	}
}

// MIPCallback receives control at decision points of the branch-and-cut
// search. Every method gets a borrowed [Prob] view of the subproblem being
// solved; the view is only valid for the duration of the call.
//
// The second return value of the first three methods reports whether the
// callback has anything to contribute; returning false defers to the
// solver's default behavior.
type MIPCallback interface {
	// LazyExpr may return a violated constraint row to add to the current
	// subproblem. Called when the LP relaxation of a node is optimal but
	// rows may still be missing.
	LazyExpr(p *Prob) (Expr, bool)

	// HeuristicSolution may return an integral feasible point to seed the
	// incumbent, one value per variable in allocation order.
	HeuristicSolution(p *Prob) ([]float64, bool)

	// Branch may pick the fractional variable to branch on. canBranch
	// reports whether the solver accepts branching on a given variable at
	// this node; returning a variable it rejects is a logic error.
	Branch(p *Prob, canBranch func(VarRef) bool) (VarRef, BranchDir, bool)

	// BestSolution is called whenever the solver accepts a new incumbent.
	BestSolution(p *Prob)
}

//export bitrouteTreeCallback
func bitrouteTreeCallback(tree *C.glp_tree, info unsafe.Pointer) {
	cb := pointer.Restore(info).(MIPCallback)
	prob := &Prob{ptr: C.glp_ios_get_prob(tree)}

	switch C.glp_ios_reason(tree) {
	case C.GLP_IROWGEN:
		if expr, ok := cb.LazyExpr(prob); ok {
			prob.AddExpr(expr)
		}
	case C.GLP_IHEUR:
		if vals, ok := cb.HeuristicSolution(prob); ok {
			// glp_ios_heur_sol reads 1-based entries 1..n.
			arr := make([]C.double, len(vals)+1)
			for i, v := range vals {
				arr[i+1] = C.double(v)
			}
			C.glp_ios_heur_sol(tree, &arr[0])
		}
	case C.GLP_IBRANCH:
		canBranch := func(v VarRef) bool {
			return C.glp_ios_can_branch(tree, C.int(v)) != 0
		}
		if v, dir, ok := cb.Branch(prob, canBranch); ok {
			C.glp_ios_branch_upon(tree, C.int(v), dir.glp())
		}
	case C.GLP_IBINGO:
		cb.BestSolution(prob)
	}
}
