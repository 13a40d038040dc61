// Package dotexport renders a task graph as DOT source and, optionally,
// shells out to the external `dot` binary to rasterize it (spec.md §6
// "DOT export").
package dotexport

import (
	"strings"

	"github.com/Joxit/runtasktic/internal/taskgraph"
)

// Render serializes g as a DOT digraph.
//
// A state with no incoming arcs is drawn as shape=doublecircle, unless it
// is also the graph's unique terminal (a state with no outgoing arcs, when
// exactly one such state exists) -- in which case it is drawn with the
// default shape, since a singleton start-and-end node gains nothing from
// the distinction. Every start state additionally gets an invisible
// pseudo-source node `init_<id>` with an arc into it, so the rendered
// image always shows where execution begins even for a state that does
// have incoming arcs from a previous partial run. Grounded on the original
// Rust implementation's `fst::dot::dot_write_file` for the base label/id
// emission shape; re-emitting the same graph always yields identical
// bytes, since states and their successor lists are already in a stable,
// insertion-determined order.
func Render(g *taskgraph.Graph) string {
	var b strings.Builder
	b.WriteString("digraph {\n")

	terminal := uniqueTerminal(g)
	isStart := make(map[int]bool)
	for _, s := range g.StartStates() {
		isStart[s] = true
	}

	for i := 0; i < g.Len(); i++ {
		state := g.State(i)
		id := formatID(state.Label())
		label := escapeLabel(state.Label())

		shape := "circle"
		if len(state.Prev()) == 0 && i != terminal {
			shape = "doublecircle"
		}
		b.WriteString("  " + id + " [label=\"" + label + "\" shape=" + shape + "]\n")

		if isStart[i] {
			init := "init_" + id
			b.WriteString("  " + init + " [shape=point style=invis]\n")
			b.WriteString("  " + init + " -> " + id + "\n")
		}

		for _, next := range state.Next() {
			b.WriteString("  " + id + " -> " + formatID(g.State(next).Label()) + "\n")
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// uniqueTerminal returns the index of the sole state with no outgoing
// arcs, or -1 if there is none or more than one.
func uniqueTerminal(g *taskgraph.Graph) int {
	found := -1
	for i := 0; i < g.Len(); i++ {
		if len(g.State(i).Next()) == 0 {
			if found != -1 {
				return -1
			}
			found = i
		}
	}
	return found
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, `"`, `\"`)
}

// formatID derives a DOT node identifier from a task label: spaces become
// underscores, every other non-alphanumeric/underscore rune is dropped.
func formatID(label string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		}
	}
	return b.String()
}
