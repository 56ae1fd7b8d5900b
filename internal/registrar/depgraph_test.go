package registrar //nolint:testpackage // exercises the unexported depGraph wrapper directly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepGraph_OrderPutsDependenciesFirst(t *testing.T) {
	t.Parallel()

	g := newDepGraph()
	g.addNode("public.addr")
	g.addNode("public.person")

	require.NoError(t, g.addEdge("public.person", "public.addr"))

	order, err := g.order()
	require.NoError(t, err)
	assert.Equal(t, []string{"public.addr", "public.person"}, order)
}

func TestDepGraph_IndependentNodesOrderAlphabetically(t *testing.T) {
	t.Parallel()

	g := newDepGraph()
	g.addNode("public.zebra")
	g.addNode("public.alpha")

	order, err := g.order()
	require.NoError(t, err)
	assert.Equal(t, []string{"public.alpha", "public.zebra"}, order)
}

func TestDepGraph_CycleIsRejected(t *testing.T) {
	t.Parallel()

	g := newDepGraph()
	g.addNode("public.a")
	g.addNode("public.b")

	require.NoError(t, g.addEdge("public.a", "public.b"))
	require.NoError(t, g.addEdge("public.b", "public.a"))

	_, err := g.order()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular")
}

func TestDepGraph_EdgeOnUnregisteredNodeErrors(t *testing.T) {
	t.Parallel()

	g := newDepGraph()
	g.addNode("public.a")

	err := g.addEdge("public.a", "public.missing")
	require.Error(t, err)
}
