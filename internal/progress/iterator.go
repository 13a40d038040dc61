// Package progress implements the Progress Iterator (spec.md §4.B): a
// stateful view over a task graph that tracks each state as Todo,
// InProgress, or Done, and exposes the FIFO frontier of states ready to
// run.
package progress

import "github.com/Joxit/runtasktic/internal/taskgraph"

// Status is a state's position in the run.
type Status int

const (
	Todo Status = iota
	InProgress
	Done
)

func (s Status) String() string {
	switch s {
	case Todo:
		return "Todo"
	case InProgress:
		return "InProgress"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}

// Iterator holds a graph, a status per state, and a FIFO ready-queue. The
// graph is held by reference, not copied: the iterator only reads it, and
// the caller must not mutate it while a run is in progress.
type Iterator struct {
	graph  *taskgraph.Graph
	status []Status
	ready  []int
	queued []bool
}

// New returns an iterator over graph, seeded with graph's start states.
func New(graph *taskgraph.Graph) *Iterator {
	status := make([]Status, graph.Len())
	queued := make([]bool, graph.Len())
	ready := make([]int, 0, len(graph.StartStates()))
	for _, s := range graph.StartStates() {
		ready = append(ready, s)
		queued[s] = true
	}
	return &Iterator{graph: graph, status: status, ready: ready, queued: queued}
}

// HasNext reports whether the ready-queue is non-empty.
func (it *Iterator) HasNext() bool {
	return len(it.ready) > 0
}

// Next pops the head of the ready-queue, marks it InProgress, and returns
// its state. It returns (nil, false) when the queue is empty.
func (it *Iterator) Next() (*taskgraph.State, bool) {
	if len(it.ready) == 0 {
		return nil, false
	}
	idx := it.ready[0]
	it.ready = it.ready[1:]
	it.status[idx] = InProgress
	return it.graph.State(idx), true
}

// MarkDone transitions index to Done and admits any successor whose
// predecessors are now all Done (spec.md §4.B). A state enters the
// ready-queue at most once per run.
func (it *Iterator) MarkDone(index int) {
	it.status[index] = Done
	for _, s := range it.graph.State(index).Next() {
		if it.status[s] != Todo || it.queued[s] {
			continue
		}
		if it.allPredecessorsDone(s) {
			it.ready = append(it.ready, s)
			it.queued[s] = true
		}
	}
}

// SetDone force-marks index as Done without passing through InProgress.
// Used to pre-mark unreachable states when a partial re-execution is
// requested (spec.md §4.D preflight step 5).
func (it *Iterator) SetDone(index int) {
	it.status[index] = Done
}

func (it *Iterator) allPredecessorsDone(index int) bool {
	for _, p := range it.graph.State(index).Prev() {
		if it.status[p] != Done {
			return false
		}
	}
	return true
}

// NInProgress returns the count of states currently InProgress.
func (it *Iterator) NInProgress() int {
	n := 0
	for _, s := range it.status {
		if s == InProgress {
			n++
		}
	}
	return n
}

// IsDone reports whether every state has reached Done.
func (it *Iterator) IsDone() bool {
	for _, s := range it.status {
		if s != Done {
			return false
		}
	}
	return true
}

// Status returns the current status of a state, for observability.
func (it *Iterator) Status(index int) Status {
	return it.status[index]
}
