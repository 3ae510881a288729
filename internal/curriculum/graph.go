package curriculum

import (
	"slices"
	"sort"
)

// Graph is the grammar prerequisite DAG with precomputed indices.
type Graph struct {
	concepts   []GrammarConcept
	byID       map[string]*GrammarConcept
	dependents map[string][]string
	topoOrder  []string
	topoIndex  map[string]int
}

// NewGraph validates concepts and builds the graph.
func NewGraph(concepts []GrammarConcept) (*Graph, error) {
	if err := validateConcepts(concepts); err != nil {
		return nil, err
	}
	return buildGraph(concepts), nil
}

// buildGraph indexes concepts and computes a topological order (Kahn's
// algorithm). Concepts must already be validated.
func buildGraph(concepts []GrammarConcept) *Graph {
	g := &Graph{
		concepts:   slices.Clone(concepts),
		byID:       make(map[string]*GrammarConcept, len(concepts)),
		dependents: make(map[string][]string),
		topoIndex:  make(map[string]int, len(concepts)),
	}
	for i := range g.concepts {
		g.byID[g.concepts[i].ID] = &g.concepts[i]
	}
	for i := range g.concepts {
		for _, pre := range g.concepts[i].Prerequisites {
			g.dependents[pre] = append(g.dependents[pre], g.concepts[i].ID)
		}
	}
	for id := range g.dependents {
		sort.Strings(g.dependents[id])
	}

	inDegree := make(map[string]int, len(concepts))
	var queue []string
	for i := range g.concepts {
		c := &g.concepts[i]
		inDegree[c.ID] = len(c.Prerequisites)
		if len(c.Prerequisites) == 0 {
			queue = append(queue, c.ID)
		}
	}
	// Deterministic ordering
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		g.topoIndex[id] = len(g.topoOrder)
		g.topoOrder = append(g.topoOrder, id)
		for _, dep := range g.dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	return g
}

// Concept returns a concept by id.
func (g *Graph) Concept(id string) (GrammarConcept, bool) {
	c, ok := g.byID[id]
	if !ok {
		return GrammarConcept{}, false
	}
	return *c, true
}

// Concepts returns every concept in topological order.
func (g *Graph) Concepts() []GrammarConcept {
	out := make([]GrammarConcept, 0, len(g.topoOrder))
	for _, id := range g.topoOrder {
		out = append(out, *g.byID[id])
	}
	return out
}

// Roots returns concepts without prerequisites, in topological order.
func (g *Graph) Roots() []GrammarConcept {
	var out []GrammarConcept
	for _, c := range g.Concepts() {
		if len(c.Prerequisites) == 0 {
			out = append(out, c)
		}
	}
	return out
}

// Prerequisites returns the direct prerequisites of id.
func (g *Graph) Prerequisites(id string) []GrammarConcept {
	c, ok := g.byID[id]
	if !ok {
		return nil
	}
	out := make([]GrammarConcept, 0, len(c.Prerequisites))
	for _, pre := range c.Prerequisites {
		if p, ok := g.byID[pre]; ok {
			out = append(out, *p)
		}
	}
	return out
}

// Dependents returns concepts that list id as a direct prerequisite.
func (g *Graph) Dependents(id string) []GrammarConcept {
	out := make([]GrammarConcept, 0, len(g.dependents[id]))
	for _, dep := range g.dependents[id] {
		out = append(out, *g.byID[dep])
	}
	return out
}

// TopoIndex returns the position of id in the topological order, or -1.
func (g *Graph) TopoIndex(id string) int {
	i, ok := g.topoIndex[id]
	if !ok {
		return -1
	}
	return i
}

// IsUnlocked reports whether every prerequisite of id satisfies met.
func (g *Graph) IsUnlocked(id string, met func(prereqID string) bool) bool {
	c, ok := g.byID[id]
	if !ok {
		return false
	}
	for _, pre := range c.Prerequisites {
		if !met(pre) {
			return false
		}
	}
	return true
}
