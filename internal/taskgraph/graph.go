// Package taskgraph implements the Task Graph (spec.md §4.A): a directed
// graph of states with contiguous, stable indices, used to model task
// dependencies and to answer cycle and reachability questions before a run
// starts.
//
// States are addressed by position rather than by pointer -- the same
// vector-plus-index design the teacher project uses for its DAG -- which
// gives O(1) neighbour access and lets the process table (owned by
// internal/controller) be a parallel slice indexed identically.
package taskgraph

// State is a single node in the graph: a task's label, its position, and
// its adjacency lists in insertion order.
type State struct {
	label string
	id    int
	next  []int
	prev  []int
}

// Label returns the task id this state represents.
func (s *State) Label() string { return s.label }

// ID returns the state's position in the graph.
func (s *State) ID() int { return s.id }

// Next returns the successor indices in insertion order.
func (s *State) Next() []int {
	out := make([]int, len(s.next))
	copy(out, s.next)
	return out
}

// Prev returns the predecessor indices in insertion order.
func (s *State) Prev() []int {
	out := make([]int, len(s.prev))
	copy(out, s.prev)
	return out
}

// Graph is a directed graph of States plus a list of start-state indices.
//
// Invariants (spec.md §3 "Task Graph (TaskFst)"):
//   - indices are contiguous and stable for the lifetime of the graph
//   - u is in prev(v) iff v is in next(u)
//   - AddArc does not reject a self-loop (from == to); IsCyclic reports a
//     reachable one as a cycle
type Graph struct {
	states      []*State
	startStates []int
	isStart     map[int]bool
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{isStart: make(map[int]bool)}
}

// AddState appends a new state labelled label and returns its index. Order
// of insertion is preserved.
func (g *Graph) AddState(label string) int {
	idx := len(g.states)
	g.states = append(g.states, &State{label: label, id: idx})
	return idx
}

// AddStartState marks index as an entry point. Duplicate marks are
// permitted but behave as one.
func (g *Graph) AddStartState(index int) {
	if g.isStart[index] {
		return
	}
	g.isStart[index] = true
	g.startStates = append(g.startStates, index)
}

// AddArc records the edge from -> to in both adjacency lists.
//
// Precondition: both indices must exist; violating it is a programmer
// error and panics, matching the graph's role as a total, internally
// trusted data structure (spec.md §4.A: "The graph does not validate
// dependency existence; the caller must do so before insertion").
func (g *Graph) AddArc(from, to int) {
	g.states[from].next = append(g.states[from].next, to)
	g.states[to].prev = append(g.states[to].prev, from)
}

// State returns the state at index i.
func (g *Graph) State(i int) *State { return g.states[i] }

// Len returns the total number of states.
func (g *Graph) Len() int { return len(g.states) }

// StartStates returns the configured start-state indices, in the order
// they were added.
func (g *Graph) StartStates() []int {
	out := make([]int, len(g.startStates))
	copy(out, g.startStates)
	return out
}
