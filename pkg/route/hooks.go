package route

// Hooks receives snapshots of the search as it progresses. Labels are
// unique within a solve and sort in event order. The *ValueGraph handed to
// a hook is freshly allocated and may be retained.
//
// Hooks run synchronously inside the solver's callback, so slow
// implementations slow the search down; subsample if needed.
type Hooks interface {
	// Relaxed fires after each LP relaxation the cut separator inspects.
	Relaxed(label string, vg *ValueGraph)
	// CutAdded fires when a connectivity cut joins the problem.
	CutAdded(label string, vg *ValueGraph)
	// Solution fires when the solver accepts a new incumbent.
	Solution(label string, vg *ValueGraph)
	// Done fires once with the final solution.
	Done(label string, vg *ValueGraph)
}

// NoopHooks ignores every event.
type NoopHooks struct{}

func (NoopHooks) Relaxed(string, *ValueGraph)  {}
func (NoopHooks) CutAdded(string, *ValueGraph) {}
func (NoopHooks) Solution(string, *ValueGraph) {}
func (NoopHooks) Done(string, *ValueGraph)     {}
