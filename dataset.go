// Package rdfset is the dataset layer of an RDF store: the set of named
// graphs a SPARQL evaluator reads from and writes to.
//
// A Dataset answers reads under the current graph scope and applies writes
// to named graphs. Store is the one concrete implementation, composed of an
// Index (graph-centric or quad-centric) and a Mutability (plain,
// transactional or immutable). Scopes belong to a session, so concurrent
// evaluations over one Store each take their own Session.
//
// Datasets do no internal locking. Readers hold Locker().RLock() and writers
// hold Locker().Lock() for the duration of a traversal or transaction.
package rdfset

import (
	"iter"
	"sync"

	ld "github.com/piprate/json-gold/ld"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/types"
)

// Dataset is the operation set every backend exposes
type Dataset interface {
	// AddGraph inserts g, merging it into an existing graph with the same name
	AddGraph(g graph.Graph) (bool, error)
	// RemoveGraph removes the named graph. Removing the default graph clears it.
	RemoveGraph(name types.GraphName) (bool, error)
	HasGraph(name types.GraphName) bool
	Graphs() iter.Seq[graph.Graph]
	GraphNames() iter.Seq[types.GraphName]
	// Graph returns a read view of the named graph. Edits made through it
	// bypass the transaction log.
	Graph(name types.GraphName) (graph.Graph, bool)
	// GetModifiableGraph returns a handle whose edits are tracked until the
	// next Flush or Discard
	GetModifiableGraph(name types.GraphName) (graph.Graph, error)
	// AddQuad asserts t in the named graph, creating the graph if needed
	AddQuad(name types.GraphName, t types.Triple) (bool, error)
	RemoveQuad(name types.GraphName, t types.Triple) (bool, error)

	SetActiveGraph(names ...types.GraphName)
	SetDefaultGraph(names ...types.GraphName)
	ResetActiveGraph() error
	ResetDefaultGraph() error
	ActiveGraphNames() []types.GraphName
	DefaultGraphNames() []types.GraphName
	UsesUnionDefaultGraph() bool

	HasTriples() bool
	ContainsTriple(t types.Triple) bool
	ContainsQuotedTriple(t types.Triple) bool
	Triples() iter.Seq[types.Triple]
	QuotedTriples() iter.Seq[types.Triple]
	Match(p graph.Pattern) iter.Seq[types.Triple]
	MatchQuoted(p graph.Pattern) iter.Seq[types.Triple]

	Flush() error
	Discard() error
}

// Lockable is implemented by datasets that expose their reader/writer lock
type Lockable interface {
	Locker() *sync.RWMutex
}

// GetTriples yields every scoped triple that has node in any position
func GetTriples(ds Dataset, node ld.Node) iter.Seq[types.Triple] {
	return anyPosition(ds.Match, node)
}

// GetQuoted yields every scoped quoted triple that has node in any position
func GetQuoted(ds Dataset, node ld.Node) iter.Seq[types.Triple] {
	return anyPosition(ds.MatchQuoted, node)
}

func anyPosition(match func(graph.Pattern) iter.Seq[types.Triple], node ld.Node) iter.Seq[types.Triple] {
	patterns := graph.Any(node)
	seqs := make([]iter.Seq[types.Triple], len(patterns))
	for i, p := range patterns {
		seqs[i] = match(p)
	}
	return graph.Distinct(seqs...)
}

func GetTriplesWithSubject(ds Dataset, s ld.Node) iter.Seq[types.Triple] {
	return ds.Match(graph.Pattern{Subject: s})
}

func GetTriplesWithPredicate(ds Dataset, p ld.Node) iter.Seq[types.Triple] {
	return ds.Match(graph.Pattern{Predicate: p})
}

func GetTriplesWithObject(ds Dataset, o ld.Node) iter.Seq[types.Triple] {
	return ds.Match(graph.Pattern{Object: o})
}

func GetTriplesWithSubjectPredicate(ds Dataset, s, p ld.Node) iter.Seq[types.Triple] {
	return ds.Match(graph.Pattern{Subject: s, Predicate: p})
}

func GetTriplesWithSubjectObject(ds Dataset, s, o ld.Node) iter.Seq[types.Triple] {
	return ds.Match(graph.Pattern{Subject: s, Object: o})
}

func GetTriplesWithPredicateObject(ds Dataset, p, o ld.Node) iter.Seq[types.Triple] {
	return ds.Match(graph.Pattern{Predicate: p, Object: o})
}

func GetQuotedWithSubject(ds Dataset, s ld.Node) iter.Seq[types.Triple] {
	return ds.MatchQuoted(graph.Pattern{Subject: s})
}

func GetQuotedWithPredicate(ds Dataset, p ld.Node) iter.Seq[types.Triple] {
	return ds.MatchQuoted(graph.Pattern{Predicate: p})
}

func GetQuotedWithObject(ds Dataset, o ld.Node) iter.Seq[types.Triple] {
	return ds.MatchQuoted(graph.Pattern{Object: o})
}

func GetQuotedWithSubjectPredicate(ds Dataset, s, p ld.Node) iter.Seq[types.Triple] {
	return ds.MatchQuoted(graph.Pattern{Subject: s, Predicate: p})
}

func GetQuotedWithSubjectObject(ds Dataset, s, o ld.Node) iter.Seq[types.Triple] {
	return ds.MatchQuoted(graph.Pattern{Subject: s, Object: o})
}

func GetQuotedWithPredicateObject(ds Dataset, p, o ld.Node) iter.Seq[types.Triple] {
	return ds.MatchQuoted(graph.Pattern{Predicate: p, Object: o})
}
