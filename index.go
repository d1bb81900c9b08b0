package rdfset

import (
	"iter"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/scope"
	"github.com/underlay/rdfset/types"
)

// Index is the storage strategy of a Store. It decides how graphs are kept
// and how a scope is resolved and read. A nil scope means the whole dataset.
type Index interface {
	HasGraph(name types.GraphName) bool
	Graph(name types.GraphName) (graph.Graph, bool)
	GraphNames() iter.Seq[types.GraphName]
	Graphs() iter.Seq[graph.Graph]
	Len() int

	// AddGraph inserts g, merging into an existing graph of the same name
	AddGraph(g graph.Graph) bool
	// RemoveGraph drops the named graph. Default graphs that must keep
	// their slot are cleared through Modifiable by the Store instead.
	RemoveGraph(name types.GraphName) bool
	// Modifiable returns the live graph that edits should go through
	Modifiable(name types.GraphName) (graph.Graph, bool)

	Resolve(names []types.GraphName) scope.Scope
	Match(sc *scope.Scope, p graph.Pattern, quoted bool) iter.Seq[types.Triple]
	Contains(sc *scope.Scope, t types.Triple, quoted bool) bool
}

// union yields the triples produced by f for every item, each triple once
func union[T any](items iter.Seq[T], f func(T) iter.Seq[types.Triple]) iter.Seq[types.Triple] {
	return func(yield func(types.Triple) bool) {
		seen := map[string]struct{}{}
		for item := range items {
			for t := range f(item) {
				key := t.Key()
				if _, has := seen[key]; has {
					continue
				}
				seen[key] = struct{}{}
				if !yield(t) {
					return
				}
			}
		}
	}
}

func match(g graph.Graph, p graph.Pattern, quoted bool) iter.Seq[types.Triple] {
	if quoted {
		return g.MatchQuoted(p)
	}
	return g.Match(p)
}

func contains(g graph.Graph, t types.Triple, quoted bool) bool {
	if quoted {
		return g.ContainsQuoted(t)
	}
	return g.Contains(t)
}
