package graph

import (
	"iter"

	"github.com/underlay/rdfset/types"
)

// Memory is a Graph over a TripleCollection
type Memory struct {
	name    types.GraphName
	triples TripleCollection
}

// New returns an empty in-memory graph
func New(name types.GraphName) *Memory {
	return &Memory{name: name, triples: NewTripleSet()}
}

// NewWithCollection returns a graph whose triples live in c
func NewWithCollection(name types.GraphName, c TripleCollection) *Memory {
	return &Memory{name: name, triples: c}
}

// FromTriples returns an in-memory graph holding triples
func FromTriples(name types.GraphName, triples ...types.Triple) *Memory {
	g := New(name)
	g.Assert(triples...)
	return g
}

func (g *Memory) Name() types.GraphName { return g.name }

func (g *Memory) Assert(triples ...types.Triple) bool {
	changed := false
	for _, t := range triples {
		if g.triples.Add(t) {
			changed = true
		}
	}
	return changed
}

func (g *Memory) Retract(triples ...types.Triple) bool {
	changed := false
	for _, t := range triples {
		if g.triples.Delete(t) {
			changed = true
		}
	}
	return changed
}

func (g *Memory) Clear() {
	var all []types.Triple
	for t := range g.triples.All() {
		all = append(all, t)
	}
	g.Retract(all...)
}

func (g *Memory) IsEmpty() bool { return g.triples.Count() == 0 }

func (g *Memory) Count() int { return g.triples.Count() }

func (g *Memory) Contains(t types.Triple) bool { return g.triples.Contains(t) }

func (g *Memory) ContainsQuoted(t types.Triple) bool { return g.triples.ContainsQuoted(t) }

func (g *Memory) Triples() iter.Seq[types.Triple] { return g.triples.All() }

func (g *Memory) QuotedTriples() iter.Seq[types.Triple] { return g.triples.Quoted() }

func (g *Memory) Match(p Pattern) iter.Seq[types.Triple] { return g.triples.Match(p) }

func (g *Memory) MatchQuoted(p Pattern) iter.Seq[types.Triple] { return g.triples.MatchQuoted(p) }
