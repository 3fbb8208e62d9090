package glpk

// #include <glpk.h>
import "C"

import "errors"

// Sentinel errors returned by [Problem.SolveMIP], one per GLPK failure
// code. ErrNoPrimalFeasible is the one callers routinely branch on: with
// the presolver enabled it is how an infeasible model reports itself.
var (
	ErrBadBounds        = errors.New("glpk: variable with incorrect bounds")
	ErrRootLPUnsolved   = errors.New("glpk: root LP relaxation could not be solved")
	ErrNoPrimalFeasible = errors.New("glpk: no primal feasible solution")
	ErrNoDualFeasible   = errors.New("glpk: no dual feasible solution")
	ErrSolverFailure    = errors.New("glpk: solver failure")
	ErrMIPGap           = errors.New("glpk: relative gap tolerance reached")
	ErrTimeLimit        = errors.New("glpk: time limit exceeded")
	ErrStopped          = errors.New("glpk: search terminated by callback")
	ErrUnknown          = errors.New("glpk: unknown solver error")
)

func solveError(code C.int) error {
	switch code {
	case 0:
		return nil
	case C.GLP_EBOUND:
		return ErrBadBounds
	case C.GLP_EROOT:
		return ErrRootLPUnsolved
	case C.GLP_ENOPFS:
		return ErrNoPrimalFeasible
	case C.GLP_ENODFS:
		return ErrNoDualFeasible
	case C.GLP_EFAIL:
		return ErrSolverFailure
	case C.GLP_EMIPGAP:
		return ErrMIPGap
	case C.GLP_ETMLIM:
		return ErrTimeLimit
	case C.GLP_ESTOP:
		return ErrStopped
	default:
		return ErrUnknown
	}
}
