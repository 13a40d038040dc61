package controller

import (
	"sort"

	"github.com/Joxit/runtasktic/internal/config"
	"github.com/Joxit/runtasktic/internal/progress"
	"github.com/Joxit/runtasktic/internal/taskgraph"
)

// plan is the outcome of preflight: a built graph, the iterator seeded to
// run it, and the id-to-index mapping the main loop needs to resolve
// tasks back to configuration entries.
type plan struct {
	graph   *taskgraph.Graph
	iter    *progress.Iterator
	index   map[string]int
	byIndex []string
}

// preflight allocates a state per task, wires dependency arcs (or marks
// start states), rejects cycles, and pre-marks the unreachable subgraph
// Done when override starts were given. It does not check for an empty
// task map; config.Load rejects one before a Configuration reaches here.
func preflight(cfg *config.Configuration, overrideStarts []string) (*plan, error) {
	for _, id := range overrideStarts {
		if _, ok := cfg.Tasks[id]; !ok {
			return nil, &UnknownStartError{TaskID: id}
		}
	}

	graph, ids, index, err := BuildGraph(cfg, overrideStarts)
	if err != nil {
		return nil, err
	}

	iter := progress.New(graph)

	if len(overrideStarts) > 0 {
		reachable := graph.ReachableStates()
		for i, ok := range reachable {
			if !ok {
				iter.SetDone(i)
			}
		}
	}

	return &plan{graph: graph, iter: iter, index: index, byIndex: ids}, nil
}

// BuildGraph allocates a state per task (ids sorted for a deterministic
// layout, since Configuration.Tasks is an unordered Go map) and wires
// dependency arcs or start states, then rejects cycles. It is exported so
// callers that only need the graph's shape -- DOT export, in particular --
// can reuse preflight's graph-assembly step without running anything.
func BuildGraph(cfg *config.Configuration, overrideStarts []string) (*taskgraph.Graph, []string, map[string]int, error) {
	ids := make([]string, 0, len(cfg.Tasks))
	for id := range cfg.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	overrideSet := make(map[string]bool, len(overrideStarts))
	for _, id := range overrideStarts {
		overrideSet[id] = true
	}

	graph := taskgraph.New()
	index := make(map[string]int, len(ids))
	for _, id := range ids {
		index[id] = graph.AddState(id)
	}

	for _, id := range ids {
		task := cfg.Tasks[id]
		isNaturalStart := len(task.DependsOn) == 0 && len(overrideStarts) == 0
		isOverrideStart := len(overrideStarts) > 0 && overrideSet[id]
		if isNaturalStart || isOverrideStart {
			graph.AddStartState(index[id])
			continue
		}
		for _, dep := range task.DependsOn {
			graph.AddArc(index[dep], index[id])
		}
	}

	if graph.IsCyclic() {
		return nil, nil, nil, &CycleError{Tasks: ids}
	}
	// With natural starts only, a state that no start reaches has an
	// ancestor chain that loops back on itself: a cycle IsCyclic cannot see
	// because no start state leads into it.
	if len(overrideStarts) == 0 {
		for _, ok := range graph.ReachableStates() {
			if !ok {
				return nil, nil, nil, &CycleError{Tasks: ids}
			}
		}
	}

	return graph, ids, index, nil
}
