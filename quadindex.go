package rdfset

import (
	"iter"
	"slices"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/scope"
	"github.com/underlay/rdfset/types"
)

// QuadSource stores triples keyed by graph name. Every read and write names
// its graph explicitly.
type QuadSource interface {
	HasGraph(name types.GraphName) bool
	GraphNames() iter.Seq[types.GraphName]
	// EnsureGraph creates an empty graph and reports whether it was absent
	EnsureGraph(name types.GraphName) bool
	RemoveGraph(name types.GraphName) bool

	AddQuad(name types.GraphName, t types.Triple) bool
	RemoveQuad(name types.GraphName, t types.Triple) bool
	ContainsQuad(name types.GraphName, t types.Triple) bool
	ContainsQuotedQuad(name types.GraphName, t types.Triple) bool
	CountQuads(name types.GraphName) int
	Quads(name types.GraphName) iter.Seq[types.Triple]
	QuotedQuads(name types.GraphName) iter.Seq[types.Triple]
	MatchQuads(name types.GraphName, p graph.Pattern) iter.Seq[types.Triple]
	MatchQuotedQuads(name types.GraphName, p graph.Pattern) iter.Seq[types.Triple]
}

// MemoryQuads is the in-memory QuadSource: one indexed TripleSet per graph
type MemoryQuads struct {
	graphs map[types.GraphName]*graph.TripleSet
}

// NewMemoryQuads returns an empty MemoryQuads
func NewMemoryQuads() *MemoryQuads {
	return &MemoryQuads{graphs: map[types.GraphName]*graph.TripleSet{}}
}

func (m *MemoryQuads) HasGraph(name types.GraphName) bool {
	_, has := m.graphs[name]
	return has
}

func (m *MemoryQuads) GraphNames() iter.Seq[types.GraphName] {
	return func(yield func(types.GraphName) bool) {
		names := make([]types.GraphName, 0, len(m.graphs))
		for name := range m.graphs {
			names = append(names, name)
		}
		slices.SortFunc(names, types.Compare)
		for _, name := range names {
			if !yield(name) {
				return
			}
		}
	}
}

func (m *MemoryQuads) EnsureGraph(name types.GraphName) bool {
	if _, has := m.graphs[name]; has {
		return false
	}
	m.graphs[name] = graph.NewTripleSet()
	return true
}

func (m *MemoryQuads) RemoveGraph(name types.GraphName) bool {
	if _, has := m.graphs[name]; !has {
		return false
	}
	delete(m.graphs, name)
	return true
}

func (m *MemoryQuads) AddQuad(name types.GraphName, t types.Triple) bool {
	m.EnsureGraph(name)
	return m.graphs[name].Add(t)
}

func (m *MemoryQuads) RemoveQuad(name types.GraphName, t types.Triple) bool {
	set, has := m.graphs[name]
	return has && set.Delete(t)
}

func (m *MemoryQuads) ContainsQuad(name types.GraphName, t types.Triple) bool {
	set, has := m.graphs[name]
	return has && set.Contains(t)
}

func (m *MemoryQuads) ContainsQuotedQuad(name types.GraphName, t types.Triple) bool {
	set, has := m.graphs[name]
	return has && set.ContainsQuoted(t)
}

func (m *MemoryQuads) CountQuads(name types.GraphName) int {
	if set, has := m.graphs[name]; has {
		return set.Count()
	}
	return 0
}

func (m *MemoryQuads) Quads(name types.GraphName) iter.Seq[types.Triple] {
	return m.seq(name, func(s *graph.TripleSet) iter.Seq[types.Triple] { return s.All() })
}

func (m *MemoryQuads) QuotedQuads(name types.GraphName) iter.Seq[types.Triple] {
	return m.seq(name, func(s *graph.TripleSet) iter.Seq[types.Triple] { return s.Quoted() })
}

func (m *MemoryQuads) MatchQuads(name types.GraphName, p graph.Pattern) iter.Seq[types.Triple] {
	return m.seq(name, func(s *graph.TripleSet) iter.Seq[types.Triple] { return s.Match(p) })
}

func (m *MemoryQuads) MatchQuotedQuads(name types.GraphName, p graph.Pattern) iter.Seq[types.Triple] {
	return m.seq(name, func(s *graph.TripleSet) iter.Seq[types.Triple] { return s.MatchQuoted(p) })
}

func (m *MemoryQuads) seq(name types.GraphName, f func(*graph.TripleSet) iter.Seq[types.Triple]) iter.Seq[types.Triple] {
	return func(yield func(types.Triple) bool) {
		set, has := m.graphs[name]
		if !has {
			return
		}
		for t := range f(set) {
			if !yield(t) {
				return
			}
		}
	}
}

// QuadIndex composes every dataset read from the QuadSource primitives over
// the names of the current scope. Graphs are handed out as views that
// forward to the source.
type QuadIndex struct {
	source QuadSource
}

// NewQuadIndex returns a QuadIndex over source
func NewQuadIndex(source QuadSource) *QuadIndex { return &QuadIndex{source: source} }

func (x *QuadIndex) HasGraph(name types.GraphName) bool { return x.source.HasGraph(name) }

func (x *QuadIndex) Graph(name types.GraphName) (graph.Graph, bool) {
	if !x.source.HasGraph(name) {
		return nil, false
	}
	return x.view(name), true
}

func (x *QuadIndex) GraphNames() iter.Seq[types.GraphName] { return x.source.GraphNames() }

func (x *QuadIndex) Graphs() iter.Seq[graph.Graph] {
	return func(yield func(graph.Graph) bool) {
		for name := range x.source.GraphNames() {
			if !yield(x.view(name)) {
				return
			}
		}
	}
}

func (x *QuadIndex) Len() int {
	n := 0
	for range x.source.GraphNames() {
		n++
	}
	return n
}

func (x *QuadIndex) AddGraph(g graph.Graph) bool {
	name := g.Name()
	x.source.EnsureGraph(name)
	for t := range g.Triples() {
		x.source.AddQuad(name, t)
	}
	return true
}

func (x *QuadIndex) RemoveGraph(name types.GraphName) bool { return x.source.RemoveGraph(name) }

func (x *QuadIndex) Modifiable(name types.GraphName) (graph.Graph, bool) { return x.Graph(name) }

// Resolve records the names only; reads fan out to the source per name
func (x *QuadIndex) Resolve(names []types.GraphName) scope.Scope {
	return scope.Scope{Names: slices.Clone(names)}
}

func (x *QuadIndex) Match(sc *scope.Scope, p graph.Pattern, quoted bool) iter.Seq[types.Triple] {
	each := func(name types.GraphName) iter.Seq[types.Triple] {
		if quoted {
			return x.source.MatchQuotedQuads(name, p)
		}
		return x.source.MatchQuads(name, p)
	}

	if sc == nil {
		return union(x.source.GraphNames(), each)
	} else if len(sc.Names) == 1 {
		return each(sc.Names[0])
	}
	return union(slices.Values(sc.Names), each)
}

func (x *QuadIndex) Contains(sc *scope.Scope, t types.Triple, quoted bool) bool {
	names := x.source.GraphNames()
	if sc != nil {
		names = slices.Values(sc.Names)
	}
	for name := range names {
		if quoted && x.source.ContainsQuotedQuad(name, t) {
			return true
		} else if !quoted && x.source.ContainsQuad(name, t) {
			return true
		}
	}
	return false
}

func (x *QuadIndex) view(name types.GraphName) graph.Graph {
	return graph.NewWithCollection(name, QuadCollection(x.source, name))
}
