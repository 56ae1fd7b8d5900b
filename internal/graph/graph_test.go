package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fontana-sql/fontana/internal/graph"
)

func TestKeyGraph_TopologicalSort_OrdersDependenciesFirst(t *testing.T) {
	t.Parallel()

	g := graph.NewKeyGraph()
	g.AddNode("addr")
	g.AddNode("person")

	require.NoError(t, g.AddEdge("person", "addr"))

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"addr", "person"}, order)
}

func TestKeyGraph_TopologicalSort_DetectsCycle(t *testing.T) {
	t.Parallel()

	g := graph.NewKeyGraph()
	g.AddNode("a")
	g.AddNode("b")

	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "a"))

	_, err := g.TopologicalSort()
	require.Error(t, err)

	var cycleErr *graph.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"a", "b"}, cycleErr.Remaining)
}

func TestKeyGraph_AddEdge_RequiresBothNodesToExist(t *testing.T) {
	t.Parallel()

	g := graph.NewKeyGraph()
	g.AddNode("a")

	err := g.AddEdge("a", "missing")
	require.Error(t, err)
}

func TestKeyGraph_HasNode(t *testing.T) {
	t.Parallel()

	g := graph.NewKeyGraph()
	assert.False(t, g.HasNode("a"))

	g.AddNode("a")
	assert.True(t, g.HasNode("a"))
}
