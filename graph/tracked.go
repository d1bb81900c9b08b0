package graph

import (
	"iter"

	"github.com/underlay/rdfset/types"
)

// Change is one logged edit of a Tracked graph
type Change struct {
	Triple  types.Triple
	Deleted bool
}

// Tracked applies edits to the wrapped graph immediately and records each
// effective insertion or deletion, so that Discard can undo them in reverse.
// Edits that do not change the graph are not recorded.
type Tracked struct {
	inner Graph
	log   []Change
}

// Track wraps g in a change-tracking graph
func Track(g Graph) *Tracked { return &Tracked{inner: g} }

// Inner returns the wrapped graph
func (g *Tracked) Inner() Graph { return g.inner }

// Pending returns the edits since the last Flush or Discard
func (g *Tracked) Pending() []Change { return g.log }

func (g *Tracked) Name() types.GraphName { return g.inner.Name() }

func (g *Tracked) Assert(triples ...types.Triple) bool {
	changed := false
	for _, t := range triples {
		if g.inner.Assert(t) {
			g.log = append(g.log, Change{Triple: t})
			changed = true
		}
	}
	return changed
}

func (g *Tracked) Retract(triples ...types.Triple) bool {
	changed := false
	for _, t := range triples {
		if g.inner.Retract(t) {
			g.log = append(g.log, Change{Triple: t, Deleted: true})
			changed = true
		}
	}
	return changed
}

// Clear retracts every triple one at a time so that each is logged
func (g *Tracked) Clear() {
	var all []types.Triple
	for t := range g.inner.Triples() {
		all = append(all, t)
	}
	g.Retract(all...)
}

// Flush accepts the pending edits
func (g *Tracked) Flush() error {
	g.log = nil
	return nil
}

// Discard reverts the pending edits, most recent first
func (g *Tracked) Discard() error {
	for i := len(g.log) - 1; i >= 0; i-- {
		change := g.log[i]
		if change.Deleted {
			g.inner.Assert(change.Triple)
		} else {
			g.inner.Retract(change.Triple)
		}
	}
	g.log = nil
	return nil
}

func (g *Tracked) IsEmpty() bool { return g.inner.IsEmpty() }

func (g *Tracked) Count() int { return g.inner.Count() }

func (g *Tracked) Contains(t types.Triple) bool { return g.inner.Contains(t) }

func (g *Tracked) ContainsQuoted(t types.Triple) bool { return g.inner.ContainsQuoted(t) }

func (g *Tracked) Triples() iter.Seq[types.Triple] { return g.inner.Triples() }

func (g *Tracked) QuotedTriples() iter.Seq[types.Triple] { return g.inner.QuotedTriples() }

func (g *Tracked) Match(p Pattern) iter.Seq[types.Triple] { return g.inner.Match(p) }

func (g *Tracked) MatchQuoted(p Pattern) iter.Seq[types.Triple] { return g.inner.MatchQuoted(p) }
