package registrar

import (
	"errors"
	"fmt"

	"github.com/fontana-sql/fontana/internal/graph"
)

// depGraph tracks "depends on" edges between registered type keys so the
// emitter can walk user types in dependency order (inner/field types before
// the composites/domains that reference them) and so the registrar can
// detect a cycle, which spec.md §9 notes shouldn't occur for user types but
// must still be guarded against. A thin adapter over internal/graph.KeyGraph,
// which is itself specialized to exactly this registry-key domain.
type depGraph struct {
	g *graph.KeyGraph
}

func newDepGraph() *depGraph {
	return &depGraph{g: graph.NewKeyGraph()}
}

func (g *depGraph) addNode(key string) {
	g.g.AddNode(key)
}

// addEdge records that `dependent` requires `dependency` to be emitted
// first. graph.KeyGraph.AddEdge(from, to) records exactly this "from
// depends on to" relationship (edges[to][from], inDegree[from]++), so
// dependent/dependency map straight onto from/to.
func (g *depGraph) addEdge(dependent, dependency string) error {
	if !g.g.HasNode(dependent) || !g.g.HasNode(dependency) {
		return fmt.Errorf("registrar: dependency edge on unregistered node %q -> %q", dependent, dependency)
	}

	return g.g.AddEdge(dependent, dependency)
}

// order returns registered keys such that every dependency precedes its
// dependents, breaking ties alphabetically for determinism (spec.md §4.3
// "Determinism").
func (g *depGraph) order() ([]string, error) {
	order, err := g.g.TopologicalSort()
	if err != nil {
		var cycleErr *graph.CycleError
		if errors.As(err, &cycleErr) {
			return nil, fmt.Errorf("registrar: circular type dependency among %v", cycleErr.Remaining)
		}

		return nil, fmt.Errorf("registrar: %w", err)
	}

	return order, nil
}
