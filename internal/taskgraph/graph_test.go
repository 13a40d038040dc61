package taskgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joxit/runtasktic/internal/taskgraph"
)

func TestAddArc(t *testing.T) {
	g := taskgraph.New()
	a := g.AddState("a")
	b := g.AddState("b")
	g.AddArc(a, b)

	require.Equal(t, []int{b}, g.State(a).Next())
	require.Empty(t, g.State(a).Prev())
	require.Equal(t, []int{a}, g.State(b).Prev())
	require.Empty(t, g.State(b).Next())
}

// TestIsCyclicAndReachable mirrors the original Rust fst::mod test of the
// same name, growing the graph incrementally and checking both properties
// after each mutation.
func TestIsCyclicAndReachable(t *testing.T) {
	g := taskgraph.New()
	a := g.AddState("a")
	b := g.AddState("b")

	g.AddArc(a, b)
	assert.Equal(t, []bool{false, false}, g.ReachableStates())

	g.AddStartState(a)
	assert.Equal(t, []bool{true, true}, g.ReachableStates())
	assert.False(t, g.IsCyclic())

	c := g.AddState("c")
	assert.Equal(t, []bool{true, true, false}, g.ReachableStates())
	g.AddArc(a, c)
	assert.Equal(t, []bool{true, true, true}, g.ReachableStates())
	assert.False(t, g.IsCyclic())
	g.AddArc(b, c)
	assert.False(t, g.IsCyclic())

	d := g.AddState("d")
	assert.Equal(t, []bool{true, true, true, false}, g.ReachableStates())
	g.AddArc(c, d)
	assert.Equal(t, []bool{true, true, true, true}, g.ReachableStates())
	assert.False(t, g.IsCyclic())

	e := g.AddState("e")
	assert.Equal(t, []bool{true, true, true, true, false}, g.ReachableStates())
	g.AddStartState(e)
	assert.Equal(t, []bool{true, true, true, true, true}, g.ReachableStates())
	assert.False(t, g.IsCyclic())

	g.AddArc(e, d)
	assert.False(t, g.IsCyclic())

	g.AddArc(d, b)
	assert.True(t, g.IsCyclic())
}

func TestAddStartStateDeduplicates(t *testing.T) {
	g := taskgraph.New()
	a := g.AddState("a")
	g.AddStartState(a)
	g.AddStartState(a)
	assert.Equal(t, []int{a}, g.StartStates())
}

func TestLen(t *testing.T) {
	g := taskgraph.New()
	g.AddState("a")
	g.AddState("b")
	assert.Equal(t, 2, g.Len())
}
