package dotexport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Joxit/runtasktic/internal/taskgraph"
)

func buildSample() *taskgraph.Graph {
	g := taskgraph.New()
	a := g.AddState(`"a"`)
	b := g.AddState("b a ba")
	g.AddArc(a, b)
	g.AddStartState(a)

	c := g.AddState("c")
	g.AddArc(a, c)
	g.AddArc(b, c)

	d := g.AddState("d%s")
	g.AddArc(c, d)

	e := g.AddState("e")
	g.AddStartState(e)
	g.AddArc(e, d)

	return g
}

func TestRenderIsDeterministic(t *testing.T) {
	g := buildSample()
	first := Render(g)
	second := Render(g)
	assert.Equal(t, first, second)
}

func TestRenderEscapesLabelsAndFormatsIDs(t *testing.T) {
	g := buildSample()
	out := Render(g)

	assert.Contains(t, out, `label="\"a\""`)
	assert.Contains(t, out, "b_a_ba [label=\"b a ba\"") // spaces mapped to underscores by formatID
	assert.Contains(t, out, "ds [label=\"d%s\"")        // '%' dropped
}

func TestRenderMarksStartStatesWithInvisiblePseudoSource(t *testing.T) {
	g := buildSample()
	out := Render(g)

	assert.Contains(t, out, "init_a [shape=point style=invis]")
	assert.Contains(t, out, "init_a -> a")
	assert.Contains(t, out, "init_e [shape=point style=invis]")
	assert.Contains(t, out, "init_e -> e")
}

func TestRenderDoubleCircleForSourcesExceptUniqueTerminal(t *testing.T) {
	g := taskgraph.New()
	only := g.AddState("only")
	g.AddStartState(only)

	out := Render(g)
	assert.Contains(t, out, "only [label=\"only\" shape=circle]", "the sole node is both the start and the unique terminal, so it keeps the default shape")
}

func TestRenderDoubleCircleForOrdinaryStart(t *testing.T) {
	g := taskgraph.New()
	a := g.AddState("a")
	b := g.AddState("b")
	g.AddArc(a, b)
	g.AddStartState(a)

	out := Render(g)
	assert.Contains(t, out, "a [label=\"a\" shape=doublecircle]")
	assert.Contains(t, out, "b [label=\"b\" shape=circle]")
}
