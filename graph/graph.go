// Package graph provides named RDF graphs: the Graph contract, an indexed
// in-memory triple collection, a change-tracking wrapper that can be flushed
// or discarded, and an in-memory collection of graphs keyed by name.
package graph

import (
	"iter"

	ld "github.com/piprate/json-gold/ld"

	"github.com/underlay/rdfset/types"
)

// A Pattern selects triples. A nil position matches any term.
type Pattern struct {
	Subject   ld.Node
	Predicate ld.Node
	Object    ld.Node
}

// Matches reports whether t agrees with every bound position of p
func (p Pattern) Matches(t types.Triple) bool {
	return matchTerm(p.Subject, t.Subject) && matchTerm(p.Predicate, t.Predicate) && matchTerm(p.Object, t.Object)
}

// Any matches every triple whose subject, predicate or object is node
func Any(node ld.Node) []Pattern {
	return []Pattern{{Subject: node}, {Predicate: node}, {Object: node}}
}

func (p Pattern) nodes() [3]ld.Node { return [3]ld.Node{p.Subject, p.Predicate, p.Object} }

func matchTerm(pattern, node ld.Node) bool {
	return pattern == nil || types.FormatTerm(pattern) == types.FormatTerm(node)
}

// TripleCollection is an indexed set of asserted triples together with the
// triples they quote.
type TripleCollection interface {
	Add(t types.Triple) bool
	Delete(t types.Triple) bool
	Contains(t types.Triple) bool
	ContainsQuoted(t types.Triple) bool
	Count() int
	All() iter.Seq[types.Triple]
	Quoted() iter.Seq[types.Triple]
	Match(p Pattern) iter.Seq[types.Triple]
	MatchQuoted(p Pattern) iter.Seq[types.Triple]
}

// A Graph is a named, mutable set of triples
type Graph interface {
	Name() types.GraphName

	// Assert adds the triples and reports whether any of them were new
	Assert(triples ...types.Triple) bool
	// Retract removes the triples and reports whether any of them were present
	Retract(triples ...types.Triple) bool
	Clear()

	IsEmpty() bool
	Count() int
	Contains(t types.Triple) bool
	ContainsQuoted(t types.Triple) bool
	Triples() iter.Seq[types.Triple]
	QuotedTriples() iter.Seq[types.Triple]
	Match(p Pattern) iter.Seq[types.Triple]
	MatchQuoted(p Pattern) iter.Seq[types.Triple]
}

// TransactionalGraph is a Graph whose edits can be committed or reverted
type TransactionalGraph interface {
	Graph
	Flush() error
	Discard() error
}

// Merge asserts every triple of src into dst and reports whether dst changed
func Merge(dst, src Graph) bool {
	if dst == src {
		return false
	}
	changed := false
	for t := range src.Triples() {
		if dst.Assert(t) {
			changed = true
		}
	}
	return changed
}

// Distinct drops triples already produced by an earlier sequence
func Distinct(seqs ...iter.Seq[types.Triple]) iter.Seq[types.Triple] {
	if len(seqs) == 1 {
		return seqs[0]
	}
	return func(yield func(types.Triple) bool) {
		seen := map[string]struct{}{}
		for _, seq := range seqs {
			for t := range seq {
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
