package types

import (
	ld "github.com/piprate/json-gold/ld"
)

// A Triple is an RDF statement. Two triples are equal when their terms are
// structurally equal, which Key captures as a string.
type Triple struct {
	Subject   ld.Node
	Predicate ld.Node
	Object    ld.Node
}

// NewTriple returns the triple (s, p, o)
func NewTriple(s, p, o ld.Node) Triple { return Triple{Subject: s, Predicate: p, Object: o} }

// Key returns the canonical N-Triples-star form of t without the trailing dot
func (t Triple) Key() string {
	return FormatTerm(t.Subject) + " " + FormatTerm(t.Predicate) + " " + FormatTerm(t.Object)
}

// Equal reports whether t and u are structurally equal
func (t Triple) Equal(u Triple) bool { return t.Key() == u.Key() }

func (t Triple) String() string { return t.Key() }

// Nodes returns the subject, predicate and object in order
func (t Triple) Nodes() [3]ld.Node { return [3]ld.Node{t.Subject, t.Predicate, t.Object} }

// Quoted returns every triple quoted by t, at any nesting depth
func (t Triple) Quoted() []Triple {
	var quoted []Triple
	for _, node := range [2]ld.Node{t.Subject, t.Object} {
		if q, is := node.(*TripleNode); is {
			quoted = append(quoted, q.Triple)
			quoted = append(quoted, q.Triple.Quoted()...)
		}
	}
	return quoted
}

// TripleNode is a quoted triple used as a term
type TripleNode struct {
	Triple Triple
}

// Quote wraps t so that it can appear as the subject or object of another triple
func Quote(t Triple) *TripleNode { return &TripleNode{Triple: t} }

// GetValue returns the canonical form of the quoted triple
func (n TripleNode) GetValue() string { return "<< " + n.Triple.Key() + " >>" }

// Equal compares quoted triples structurally
func (n TripleNode) Equal(o ld.Node) bool {
	q, is := o.(*TripleNode)
	return is && q.Triple.Key() == n.Triple.Key()
}

// IsTripleNode reports whether node is a quoted triple term
func IsTripleNode(node ld.Node) bool {
	_, is := node.(*TripleNode)
	return is
}
