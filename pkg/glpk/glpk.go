// Package glpk wraps the GNU Linear Programming Kit's mixed-integer
// branch-and-cut solver.
//
// The wrapper is deliberately thin: [Problem] owns the native problem
// handle, [Prob] is the borrowed view the solver hands back during
// callbacks, and [Var], [Expr] and [Term] describe columns and rows as
// plain Go values so that problem construction stays testable without
// touching the native library. All solver failures surface as typed
// sentinel errors, never as a silent default.
//
// GLPK's search loop is single threaded and re-enters the caller through
// [MIPCallback] on its own stack; nothing in this package is safe for
// concurrent use.
package glpk

/*
#cgo LDFLAGS: -lglpk
#include <stdlib.h>
#include <glpk.h>

extern void bitrouteTreeCallback(glp_tree *T, void *info);

static void bitroute_install_callback(glp_iocp *iocp, void *info) {
	iocp->cb_func = bitrouteTreeCallback;
	iocp->cb_info = info;
}
*/
import "C"

import (
	"unsafe"

	pointer "github.com/mattn/go-pointer"
)

// Direction is the optimization sense of the objective.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

func (d Direction) glp() C.int {
	if d == Maximize {
		return C.GLP_MAX
	}
	return C.GLP_MIN
}

// Kind is the domain of a variable.
type Kind int

const (
	// Float is a continuous variable.
	Float Kind = iota
	// Int is an integer variable. During the search its bounds are relaxed
	// to a continuous range and only re-tightened at integral nodes of the
	// branch-and-bound tree.
	Int
)

func (k Kind) glp() C.int {
	if k == Int {
		return C.GLP_IV
	}
	return C.GLP_CV
}

// Bounds restricts a variable or a constraint row. Use the constructors;
// the zero value is Free.
type Bounds struct {
	kind         C.int
	lower, upper float64
}

// Free places no bound.
func Free() Bounds { return Bounds{kind: C.GLP_FR} }

// Lower bounds from below: lower <= x.
func Lower(lower float64) Bounds { return Bounds{kind: C.GLP_LO, lower: lower} }

// Upper bounds from above: x <= upper.
func Upper(upper float64) Bounds { return Bounds{kind: C.GLP_UP, upper: upper} }

// Double bounds from both sides: lower <= x <= upper.
func Double(lower, upper float64) Bounds {
	return Bounds{kind: C.GLP_DB, lower: lower, upper: upper}
}

// Fixed pins to a single value: x = value.
func Fixed(value float64) Bounds { return Bounds{kind: C.GLP_FX, lower: value} }

func (b Bounds) glp() (C.int, float64, float64) {
	if b.kind == 0 {
		return C.GLP_FR, 0, 0
	}
	return b.kind, b.lower, b.upper
}

// VarRef identifies a variable (column) in a problem. References are
// 1-based, matching GLPK's indexing.
type VarRef int

// Times builds a linear term from the variable and a coefficient.
func (v VarRef) Times(coef float64) Term { return Term{Var: v, Coef: coef} }

// Term is one coefficient of a linear expression.
type Term struct {
	Var  VarRef
	Coef float64
}

// VarRefs is a contiguous block of variable references allocated together.
type VarRefs struct {
	first, n int
}

// At returns the i-th reference of the block. An index outside the block
// is a logic error and panics.
func (vs VarRefs) At(i int) VarRef {
	if i < 0 || i >= vs.n {
		panic("glpk: variable index out of range")
	}
	return VarRef(vs.first + i)
}

// Len returns the number of references in the block.
func (vs VarRefs) Len() int { return vs.n }

// Var describes a variable to allocate.
type Var struct {
	Name      string
	Kind      Kind
	Bounds    Bounds
	Objective float64
}

// Expr describes a named linear constraint row.
type Expr struct {
	Name   string
	Bounds Bounds
	Terms  []Term
}

// Prob is a borrowed view of a native problem. The solver hands one to
// each callback invocation; it must not be retained past the callback's
// return. Problem embeds it for the owned case.
type Prob struct {
	ptr *C.glp_prob
}

// Problem owns a native problem handle. Close releases it exactly once.
type Problem struct {
	Prob
}

// New allocates an empty problem.
func New() *Problem {
	return &Problem{Prob{ptr: C.glp_create_prob()}}
}

// Close destroys the native problem. Safe to call more than once.
func (p *Problem) Close() {
	if p.ptr != nil {
		C.glp_delete_prob(p.ptr)
		p.ptr = nil
	}
}

// SetName names the problem.
func (p *Prob) SetName(name string) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	C.glp_set_prob_name(p.ptr, cname)
}

// SetDirection sets the optimization sense.
func (p *Prob) SetDirection(d Direction) {
	C.glp_set_obj_dir(p.ptr, d.glp())
}

// NumVars returns the number of allocated variables.
func (p *Prob) NumVars() int {
	return int(C.glp_get_num_cols(p.ptr))
}

// AddVars allocates one variable per spec and returns the block.
func (p *Prob) AddVars(specs []Var) VarRefs {
	vars := p.allocVars(len(specs))
	for i, spec := range specs {
		p.initVar(vars.At(i), spec)
	}
	return vars
}

// AddVar allocates a single variable.
func (p *Prob) AddVar(spec Var) VarRef {
	v := p.allocVars(1).At(0)
	p.initVar(v, spec)
	return v
}

func (p *Prob) allocVars(n int) VarRefs {
	if n == 0 {
		return VarRefs{first: int(C.glp_get_num_cols(p.ptr)) + 1}
	}
	first := int(C.glp_add_cols(p.ptr, C.int(n)))
	return VarRefs{first: first, n: n}
}

func (p *Prob) initVar(v VarRef, spec Var) {
	cname := C.CString(spec.Name)
	defer C.free(unsafe.Pointer(cname))
	kind, lower, upper := spec.Bounds.glp()
	C.glp_set_col_name(p.ptr, C.int(v), cname)
	C.glp_set_col_kind(p.ptr, C.int(v), spec.Kind.glp())
	C.glp_set_col_bnds(p.ptr, C.int(v), kind, C.double(lower), C.double(upper))
	C.glp_set_obj_coef(p.ptr, C.int(v), C.double(spec.Objective))
}

// Value returns the variable's value in the current LP relaxation.
func (p *Prob) Value(v VarRef) float64 {
	return float64(C.glp_get_col_prim(p.ptr, C.int(v)))
}

// IntValue returns the variable's value in the best integral solution.
func (p *Prob) IntValue(v VarRef) float64 {
	return float64(C.glp_mip_col_val(p.ptr, C.int(v)))
}

// IntObjective returns the objective value of the best integral solution.
func (p *Prob) IntObjective() float64 {
	return float64(C.glp_mip_obj_val(p.ptr))
}

// AddExprs allocates one constraint row per spec.
func (p *Prob) AddExprs(specs []Expr) {
	rows := p.allocExprs(len(specs))
	for i, spec := range specs {
		p.initExpr(rows.At(i), spec)
	}
}

// AddExpr allocates a single constraint row. An Expr with no terms is
// legal: combined with a positive lower bound it makes the problem
// infeasible, which is exactly what an unsatisfiable cut should do.
func (p *Prob) AddExpr(spec Expr) {
	row := p.allocExprs(1).At(0)
	p.initExpr(row, spec)
}

func (p *Prob) allocExprs(n int) VarRefs {
	if n == 0 {
		return VarRefs{first: int(C.glp_get_num_rows(p.ptr)) + 1}
	}
	first := int(C.glp_add_rows(p.ptr, C.int(n)))
	return VarRefs{first: first, n: n}
}

func (p *Prob) initExpr(row VarRef, spec Expr) {
	cname := C.CString(spec.Name)
	defer C.free(unsafe.Pointer(cname))
	kind, lower, upper := spec.Bounds.glp()
	C.glp_set_row_name(p.ptr, C.int(row), cname)
	C.glp_set_row_bnds(p.ptr, C.int(row), kind, C.double(lower), C.double(upper))
	if len(spec.Terms) == 0 {
		C.glp_set_mat_row(p.ptr, C.int(row), 0, nil, nil)
		return
	}
	// GLPK arrays are 1-based; index 0 is ignored.
	ind := make([]C.int, len(spec.Terms)+1)
	val := make([]C.double, len(spec.Terms)+1)
	for i, term := range spec.Terms {
		ind[i+1] = C.int(term.Var)
		val[i+1] = C.double(term.Coef)
	}
	C.glp_set_mat_row(p.ptr, C.int(row), C.int(len(spec.Terms)), &ind[0], &val[0])
}

// SolveMIP runs the branch-and-cut search. The presolver is required for a
// cold start; binarization helps the cut machinery; GLPK's simple rounding
// heuristic is disabled because it does not respect lazy rows that have
// not been added yet. cb may be nil to run without callbacks.
//
// The callback executes synchronously inside the solver's search loop, on
// the calling goroutine.
func (p *Problem) SolveMIP(cb MIPCallback) error {
	var iocp C.glp_iocp
	C.glp_init_iocp(&iocp)
	iocp.msg_lev = C.GLP_MSG_ERR
	iocp.presolve = C.GLP_ON
	iocp.binarize = C.GLP_ON
	iocp.sr_heur = C.GLP_OFF

	if cb != nil {
		info := pointer.Save(cb)
		defer pointer.Unref(info)
		C.bitroute_install_callback(&iocp, info)
	}

	return solveError(C.glp_intopt(p.ptr, &iocp))
}
