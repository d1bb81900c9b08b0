package rdfset

import (
	"iter"
	"slices"

	"github.com/google/uuid"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/scope"
	"github.com/underlay/rdfset/types"
)

// GraphIndex keeps every graph as an independent indexed container in a
// graph.Collection. Scopes over several graphs are materialized into a
// merged scratch graph when they are pushed.
type GraphIndex struct {
	graphs graph.Collection
}

// NewGraphIndex returns a GraphIndex over c
func NewGraphIndex(c graph.Collection) *GraphIndex { return &GraphIndex{graphs: c} }

func (x *GraphIndex) HasGraph(name types.GraphName) bool { return x.graphs.Has(name) }

func (x *GraphIndex) Graph(name types.GraphName) (graph.Graph, bool) { return x.graphs.Get(name) }

func (x *GraphIndex) GraphNames() iter.Seq[types.GraphName] { return x.graphs.Names() }

func (x *GraphIndex) Graphs() iter.Seq[graph.Graph] { return x.graphs.Graphs() }

func (x *GraphIndex) Len() int { return x.graphs.Len() }

func (x *GraphIndex) AddGraph(g graph.Graph) bool { return x.graphs.Add(g, true) }

func (x *GraphIndex) RemoveGraph(name types.GraphName) bool { return x.graphs.Remove(name) }

func (x *GraphIndex) Modifiable(name types.GraphName) (graph.Graph, bool) { return x.graphs.Get(name) }

// Resolve returns an empty scratch graph for no names and a merged copy for
// several. A single name is left unresolved and looked up on every read.
func (x *GraphIndex) Resolve(names []types.GraphName) scope.Scope {
	sc := scope.Scope{Names: slices.Clone(names)}
	switch len(names) {
	case 0:
		sc.Graph = graph.New(scratchName())
	case 1:
	default:
		merged := graph.New(scratchName())
		for _, name := range names {
			if g, has := x.graphs.Get(name); has {
				graph.Merge(merged, g)
			}
		}
		sc.Graph = merged
	}
	return sc
}

func (x *GraphIndex) Match(sc *scope.Scope, p graph.Pattern, quoted bool) iter.Seq[types.Triple] {
	if sc != nil {
		return match(x.scoped(sc), p, quoted)
	}
	return union(x.graphs.Graphs(), func(g graph.Graph) iter.Seq[types.Triple] { return match(g, p, quoted) })
}

func (x *GraphIndex) Contains(sc *scope.Scope, t types.Triple, quoted bool) bool {
	if sc != nil {
		return contains(x.scoped(sc), t, quoted)
	}
	for g := range x.graphs.Graphs() {
		if contains(g, t, quoted) {
			return true
		}
	}
	return false
}

// scoped returns the graph sc reads from, following a single-name scope to
// whatever graph currently has that name
func (x *GraphIndex) scoped(sc *scope.Scope) graph.Graph {
	if sc.Graph != nil {
		return sc.Graph
	} else if g, has := x.graphs.Get(sc.Names[0]); has {
		return g
	}
	return graph.New(sc.Names[0])
}

func scratchName() types.GraphName { return types.Blank("scope-" + uuid.NewString()) }
