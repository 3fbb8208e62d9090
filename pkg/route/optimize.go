// Package route finds a minimum-cost route through a world graph that
// collects a required number of bits. The problem is formulated as a
// mixed-integer program over binary edge variables and solved with GLPK's
// branch-and-cut search, extended with lazy connectivity cuts, a greedy
// path heuristic for incumbents, and a branching rule that follows the
// heuristic path.
package route

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bitroute/pkg/glpk"
	"github.com/matzehuels/bitroute/pkg/world"
)

var (
	// ErrInsufficientBits is returned by Optimize when the world as a whole
	// holds fewer bits than required, before any solver work is done.
	ErrInsufficientBits = errors.New("route: world does not hold enough bits")

	// ErrNoRoute is returned when the model is infeasible: enough bits
	// exist, but no route can collect them.
	ErrNoRoute = errors.New("route: no feasible route")

	// errBrokenPath reports selected edges that do not form a walkable
	// path from entry to goal. It indicates a formulation bug.
	errBrokenPath = errors.New("route: selected edges do not form a path")
)

// Options configures a solve. The zero value asks for a cheapest route
// with no bit requirement.
type Options struct {
	// RequiredBits is the minimum bit yield the route must collect.
	RequiredBits int
	// Hooks observes the search. Nil means NoopHooks.
	Hooks Hooks
	// Logger for progress reporting. Nil means log.Default().
	Logger *log.Logger
}

// Result is a solved route.
type Result struct {
	// Edges in travel order from entry to goal.
	Edges []world.Edge
	// Nodes in visit order, starting at the entry.
	Nodes []world.Node

	Bits   int
	Keys   int
	Frames float64

	// Search statistics.
	Relaxations int
	Cuts        int
	Branches    int
	Solutions   int
}

// Optimize finds the cheapest route from the graph's entry to its goal
// collecting at least opts.RequiredBits bits.
func Optimize(g *world.Graph, opts Options) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if opts.Hooks == nil {
		opts.Hooks = NoopHooks{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if total := g.TotalBits(); total < opts.RequiredBits {
		return nil, fmt.Errorf("%w: world holds %d, need %d", ErrInsufficientBits, total, opts.RequiredBits)
	}

	// Validate guarantees both exist.
	entry, _ := g.Entry()
	goal, _ := g.Goal()

	prob := glpk.New()
	defer prob.Close()
	prob.SetName("bitroute")
	prob.SetDirection(glpk.Minimize)

	idom := immediateDominators(g, entry, secretEdges)

	vars := prob.AddVars(edgeVars(g))
	prob.AddExprs(flowExprs(g, vars, entry, goal))
	prob.AddExprs(capacityExprs(g, vars, entry, goal))
	prob.AddExprs(dominatorExprs(g, vars, entry, idom))
	prob.AddExprs(antiCycleExprs(g, vars))
	if opts.RequiredBits > 0 {
		prob.AddExpr(requiredBitsExpr(g, vars, opts.RequiredBits))
	}
	if expr, ok := oneofExpr(g, vars); ok {
		prob.AddExpr(expr)
	}
	if expr, ok := totalKeysExpr(g, vars); ok {
		prob.AddExpr(expr)
	}

	s := &search{
		g:            g,
		entry:        entry,
		goal:         goal,
		vars:         vars,
		idom:         idom,
		requiredBits: opts.RequiredBits,
		hooks:        opts.Hooks,
		logger:       opts.Logger,
		seen:         make(map[string]bool),
	}

	opts.Logger.Info("solving", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "required_bits", opts.RequiredBits)
	if err := prob.SolveMIP(s); err != nil {
		if errors.Is(err, glpk.ErrNoPrimalFeasible) || errors.Is(err, glpk.ErrNoDualFeasible) {
			return nil, fmt.Errorf("%w: %v", ErrNoRoute, err)
		}
		return nil, err
	}

	res, err := s.extract(&prob.Prob)
	if err != nil {
		return nil, err
	}
	opts.Hooks.Done(s.label("done"), s.incumbent(&prob.Prob))
	opts.Logger.Info("solved",
		"frames", res.Frames, "bits", res.Bits, "steps", len(res.Edges),
		"relaxations", res.Relaxations, "cuts", res.Cuts,
		"branches", res.Branches, "solutions", res.Solutions)
	return res, nil
}

// search carries the per-solve state the solver callbacks need. It
// implements glpk.MIPCallback.
type search struct {
	g            *world.Graph
	entry, goal  int
	vars         glpk.VarRefs
	idom         []int
	requiredBits int
	hooks        Hooks
	logger       *log.Logger

	// seen deduplicates connectivity cuts by reached node set.
	seen map[string]bool

	events      int
	relaxations int
	cuts        int
	branches    int
	solutions   int
}

// label produces a per-solve unique event name that sorts in event order.
func (s *search) label(kind string) string {
	s.events++
	return fmt.Sprintf("%04d-%s", s.events, kind)
}

// relaxation snapshots the current LP relaxation as a value graph.
func (s *search) relaxation(p *glpk.Prob) *ValueGraph {
	vals := make([]float64, s.g.EdgeCount())
	for i := range vals {
		vals[i] = p.Value(s.vars.At(i))
	}
	return NewValueGraph(s.g, s.entry, s.goal, vals)
}

// incumbent snapshots the best integral solution as a value graph.
func (s *search) incumbent(p *glpk.Prob) *ValueGraph {
	vals := make([]float64, s.g.EdgeCount())
	for i := range vals {
		vals[i] = p.IntValue(s.vars.At(i))
	}
	return NewValueGraph(s.g, s.entry, s.goal, vals)
}

func (s *search) LazyExpr(p *glpk.Prob) (glpk.Expr, bool) {
	s.relaxations++
	vg := s.relaxation(p)
	s.hooks.Relaxed(s.label("relax"), vg)

	expr, ok := connectivityCut(vg, s.requiredBits, s.vars, s.seen)
	if !ok {
		return glpk.Expr{}, false
	}
	s.cuts++
	s.hooks.CutAdded(s.label("cut"), vg)
	s.logger.Debug("connectivity cut", "name", expr.Name, "boundary_edges", len(expr.Terms))
	return expr, true
}

func (s *search) HeuristicSolution(p *glpk.Prob) ([]float64, bool) {
	vg := s.relaxation(p)
	path, ok := vg.HeuristicPath()
	if !ok || !s.pathFeasible(path) {
		return nil, false
	}
	// The presolved problem may carry more columns than we allocated;
	// everything beyond the path stays zero.
	vals := make([]float64, p.NumVars())
	for _, e := range path {
		vals[int(s.vars.At(e))-1] = 1
	}
	s.logger.Debug("heuristic incumbent", "steps", len(path))
	return vals, true
}

// pathFeasible checks every row of the encoding a simple entry-to-goal
// path could still violate before the path may seed the incumbent: the
// solver installs heuristic solutions without verifying rows, and a wrong
// incumbent's bound prunes genuinely feasible solutions. Bits, keys and
// one-of counts follow the rows exactly, over edge targets only; the
// entry has no incoming edge and contributes to none of them. The
// dominator rows demand that a visited node's dominator is visited too,
// which a path entered through a secret shortcut would break.
func (s *search) pathFeasible(path []int) bool {
	visited := make([]bool, s.g.NodeCount())
	visited[s.entry] = true

	bits, keys, oneofs := 0, 0, 0
	for _, e := range path {
		node := s.g.Node(s.g.Edge(e).To)
		visited[node.ID] = true
		bits += node.Bits
		keys += node.KeysMinusLock()
		if node.Cost == world.CostOneof {
			oneofs++
		}
	}
	if bits < s.requiredBits || keys < 0 || oneofs > 1 {
		return false
	}
	for _, e := range path {
		if d := s.idom[s.g.Edge(e).To]; d >= 0 && d != s.entry && !visited[d] {
			return false
		}
	}
	return true
}

// Branch picks the fractional edge on the heuristic path closest to being
// undecided and explores its selection first.
func (s *search) Branch(p *glpk.Prob, canBranch func(glpk.VarRef) bool) (glpk.VarRef, glpk.BranchDir, bool) {
	vg := s.relaxation(p)
	e, ok := branchEdge(vg, func(edge int) bool {
		return canBranch(s.vars.At(edge))
	})
	if !ok {
		return 0, glpk.BranchAuto, false
	}
	s.branches++
	return s.vars.At(e), glpk.BranchUp, true
}

func (s *search) BestSolution(p *glpk.Prob) {
	s.solutions++
	s.hooks.Solution(s.label("sol"), s.incumbent(p))
	s.logger.Info("new incumbent", "frames", p.IntObjective(), "solutions", s.solutions)
}

// extract walks the selected edges from entry to goal and assembles the
// result. Selected edges disjoint from the walk (zero-cost loops the
// model tolerates) are ignored.
func (s *search) extract(p *glpk.Prob) (*Result, error) {
	res := &Result{
		Frames:      p.IntObjective(),
		Relaxations: s.relaxations,
		Cuts:        s.cuts,
		Branches:    s.branches,
		Solutions:   s.solutions,
	}

	node := s.g.Node(s.entry)
	res.Nodes = append(res.Nodes, node)
	res.Bits += node.Bits
	res.Keys += node.Keys

	at := s.entry
	for steps := 0; at != s.goal; steps++ {
		if steps > s.g.EdgeCount() {
			return nil, errBrokenPath
		}
		next := -1
		for _, e := range s.g.Out(at) {
			if p.IntValue(s.vars.At(e)) > 0.5 {
				next = e
				break
			}
		}
		if next < 0 {
			return nil, errBrokenPath
		}
		edge := s.g.Edge(next)
		node = s.g.Node(edge.To)
		res.Edges = append(res.Edges, edge)
		res.Nodes = append(res.Nodes, node)
		res.Bits += node.Bits
		res.Keys += node.Keys
		at = edge.To
	}
	return res, nil
}
