package graph

import (
	"iter"
	"slices"

	"github.com/underlay/rdfset/types"
)

// Collection is a set of graphs keyed by name
type Collection interface {
	// Add inserts g. If a graph with the same name exists, g is merged into
	// it when merge is set and rejected otherwise.
	Add(g Graph, merge bool) bool
	Remove(name types.GraphName) bool
	Has(name types.GraphName) bool
	Get(name types.GraphName) (Graph, bool)
	Names() iter.Seq[types.GraphName]
	Graphs() iter.Seq[Graph]
	Len() int
}

// MemoryCollection is a Collection backed by a map
type MemoryCollection struct {
	graphs map[types.GraphName]Graph
}

// NewCollection returns an empty MemoryCollection
func NewCollection(graphs ...Graph) *MemoryCollection {
	c := &MemoryCollection{graphs: make(map[types.GraphName]Graph, len(graphs))}
	for _, g := range graphs {
		c.Add(g, true)
	}
	return c
}

func (c *MemoryCollection) Add(g Graph, merge bool) bool {
	existing, has := c.graphs[g.Name()]
	if !has {
		c.graphs[g.Name()] = g
		return true
	} else if merge {
		Merge(existing, g)
		return true
	}
	return false
}

func (c *MemoryCollection) Remove(name types.GraphName) bool {
	if _, has := c.graphs[name]; !has {
		return false
	}
	delete(c.graphs, name)
	return true
}

func (c *MemoryCollection) Has(name types.GraphName) bool {
	_, has := c.graphs[name]
	return has
}

func (c *MemoryCollection) Get(name types.GraphName) (Graph, bool) {
	g, has := c.graphs[name]
	return g, has
}

func (c *MemoryCollection) Len() int { return len(c.graphs) }

// Names yields graph names in Compare order
func (c *MemoryCollection) Names() iter.Seq[types.GraphName] {
	return func(yield func(types.GraphName) bool) {
		for _, name := range c.sortedNames() {
			if !yield(name) {
				return
			}
		}
	}
}

func (c *MemoryCollection) Graphs() iter.Seq[Graph] {
	return func(yield func(Graph) bool) {
		for _, name := range c.sortedNames() {
			g, has := c.graphs[name]
			if !has {
				continue
			}
			if !yield(g) {
				return
			}
		}
	}
}

func (c *MemoryCollection) sortedNames() []types.GraphName {
	names := make([]types.GraphName, 0, len(c.graphs))
	for name := range c.graphs {
		names = append(names, name)
	}
	slices.SortFunc(names, types.Compare)
	return names
}
