package rdfset

import (
	"iter"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/types"
)

type quadCollection struct {
	source QuadSource
	name   types.GraphName
}

// QuadCollection presents the quads of one graph as a graph.TripleCollection.
// Nothing is copied; every call is forwarded to source with the fixed name.
func QuadCollection(source QuadSource, name types.GraphName) graph.TripleCollection {
	return &quadCollection{source: source, name: name}
}

func (c *quadCollection) Add(t types.Triple) bool { return c.source.AddQuad(c.name, t) }

func (c *quadCollection) Delete(t types.Triple) bool { return c.source.RemoveQuad(c.name, t) }

func (c *quadCollection) Contains(t types.Triple) bool { return c.source.ContainsQuad(c.name, t) }

func (c *quadCollection) ContainsQuoted(t types.Triple) bool {
	return c.source.ContainsQuotedQuad(c.name, t)
}

func (c *quadCollection) Count() int { return c.source.CountQuads(c.name) }

func (c *quadCollection) All() iter.Seq[types.Triple] { return c.source.Quads(c.name) }

func (c *quadCollection) Quoted() iter.Seq[types.Triple] { return c.source.QuotedQuads(c.name) }

func (c *quadCollection) Match(p graph.Pattern) iter.Seq[types.Triple] {
	return c.source.MatchQuads(c.name, p)
}

func (c *quadCollection) MatchQuoted(p graph.Pattern) iter.Seq[types.Triple] {
	return c.source.MatchQuotedQuads(c.name, p)
}
