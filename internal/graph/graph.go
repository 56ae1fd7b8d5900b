// Package graph implements the directed graph the registrar threads type
// dependencies through: every node is a (schema, name) registry key, and an
// edge records that one registered type must be emitted before another.
package graph

import (
	"fmt"
	"maps"
	"sort"
)

// KeyGraph is a directed graph over registry keys ("schema.name" strings).
// It exists to give the registrar a deterministic topological order (spec.md
// §4.3 "Determinism": ties break alphabetically) and to surface a cycle
// among user types as a typed error instead of an infinite recursion.
type KeyGraph struct {
	nodes    map[string]bool
	edges    map[string]map[string]bool
	inDegree map[string]int
}

func NewKeyGraph() *KeyGraph {
	return &KeyGraph{
		nodes:    make(map[string]bool),
		edges:    make(map[string]map[string]bool),
		inDegree: make(map[string]int),
	}
}

func (g *KeyGraph) AddNode(key string) {
	g.nodes[key] = true
	if _, exists := g.inDegree[key]; !exists {
		g.inDegree[key] = 0
	}

	if g.edges[key] == nil {
		g.edges[key] = make(map[string]bool)
	}
}

func (g *KeyGraph) HasNode(key string) bool {
	return g.nodes[key]
}

// AddEdge records that `from` depends on `to`: `to` must precede `from` in
// any topological order this graph produces.
func (g *KeyGraph) AddEdge(from, to string) error {
	if !g.nodes[from] || !g.nodes[to] {
		return fmt.Errorf("graph: both keys must be registered before adding edge: %s -> %s", from, to)
	}

	if g.edges[to] == nil {
		g.edges[to] = make(map[string]bool)
	}

	if !g.edges[to][from] {
		g.edges[to][from] = true
		g.inDegree[from]++
	}

	return nil
}

func (g *KeyGraph) remainingKeys(inDegree map[string]int) []string {
	remaining := make([]string, 0)

	for key, degree := range inDegree {
		if degree > 0 {
			remaining = append(remaining, key)
		}
	}

	sort.Strings(remaining)

	return remaining
}

// CycleError reports the registry keys still owing a dependency once Kahn's
// algorithm stalls - the types left out of a would-be topological order
// because they (transitively) depend on each other.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph: circular dependency among keys %v", e.Remaining)
}

// TopologicalSort runs Kahn's algorithm, breaking every tie in the
// ready-queue alphabetically so two calls over the same edge set always
// return the same order regardless of registration order or map iteration.
func (g *KeyGraph) TopologicalSort() ([]string, error) {
	inDegree := make(map[string]int)
	maps.Copy(inDegree, g.inDegree)

	var queue []string

	for key := range g.nodes {
		if inDegree[key] == 0 {
			queue = append(queue, key)
		}
	}

	sort.Strings(queue)

	var result []string

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]

		result = append(result, key)

		for dependent := range g.edges[key] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, &CycleError{Remaining: g.remainingKeys(inDegree)}
	}

	return result, nil
}
