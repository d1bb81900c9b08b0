package graph

import (
	"iter"

	"github.com/underlay/rdfset/types"
)

// index keeps one table of triples keyed by their canonical form, plus one
// posting set per position from term to triple keys.
type index struct {
	triples map[string]types.Triple
	terms   [3]map[string]map[string]struct{}
}

func newIndex() *index {
	x := &index{triples: map[string]types.Triple{}}
	for i := range x.terms {
		x.terms[i] = map[string]map[string]struct{}{}
	}
	return x
}

func (x *index) insert(key string, t types.Triple) bool {
	if _, has := x.triples[key]; has {
		return false
	}
	x.triples[key] = t
	for i, node := range t.Nodes() {
		term := types.FormatTerm(node)
		postings, has := x.terms[i][term]
		if !has {
			postings = map[string]struct{}{}
			x.terms[i][term] = postings
		}
		postings[key] = struct{}{}
	}
	return true
}

func (x *index) remove(key string) bool {
	t, has := x.triples[key]
	if !has {
		return false
	}
	delete(x.triples, key)
	for i, node := range t.Nodes() {
		term := types.FormatTerm(node)
		postings := x.terms[i][term]
		delete(postings, key)
		if len(postings) == 0 {
			delete(x.terms[i], term)
		}
	}
	return true
}

func (x *index) all() iter.Seq[types.Triple] {
	return func(yield func(types.Triple) bool) {
		for _, t := range x.triples {
			if !yield(t) {
				return
			}
		}
	}
}

// match scans the smallest posting set among the bound positions
func (x *index) match(p Pattern) iter.Seq[types.Triple] {
	var postings map[string]struct{}
	bound := false
	for i, node := range p.nodes() {
		if node == nil {
			continue
		}
		candidates := x.terms[i][types.FormatTerm(node)]
		if !bound || len(candidates) < len(postings) {
			postings = candidates
		}
		bound = true
	}

	if !bound {
		return x.all()
	}

	return func(yield func(types.Triple) bool) {
		for key := range postings {
			t, has := x.triples[key]
			if !has || !p.Matches(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// TripleSet is the in-memory TripleCollection. Quoted triples are reference
// counted by the asserted triples that contain them.
type TripleSet struct {
	asserted *index
	quoted   *index
	refs     map[string]int
}

// NewTripleSet returns an empty TripleSet
func NewTripleSet() *TripleSet {
	return &TripleSet{asserted: newIndex(), quoted: newIndex(), refs: map[string]int{}}
}

// Add inserts t and reports whether it was new
func (s *TripleSet) Add(t types.Triple) bool {
	if !s.asserted.insert(t.Key(), t) {
		return false
	}
	for _, q := range t.Quoted() {
		key := q.Key()
		s.refs[key]++
		if s.refs[key] == 1 {
			s.quoted.insert(key, q)
		}
	}
	return true
}

// Delete removes t and reports whether it was present
func (s *TripleSet) Delete(t types.Triple) bool {
	if !s.asserted.remove(t.Key()) {
		return false
	}
	for _, q := range t.Quoted() {
		key := q.Key()
		s.refs[key]--
		if s.refs[key] <= 0 {
			delete(s.refs, key)
			s.quoted.remove(key)
		}
	}
	return true
}

func (s *TripleSet) Contains(t types.Triple) bool {
	_, has := s.asserted.triples[t.Key()]
	return has
}

func (s *TripleSet) ContainsQuoted(t types.Triple) bool {
	_, has := s.quoted.triples[t.Key()]
	return has
}

func (s *TripleSet) Count() int { return len(s.asserted.triples) }

func (s *TripleSet) All() iter.Seq[types.Triple] { return s.asserted.all() }

func (s *TripleSet) Quoted() iter.Seq[types.Triple] { return s.quoted.all() }

func (s *TripleSet) Match(p Pattern) iter.Seq[types.Triple] { return s.asserted.match(p) }

func (s *TripleSet) MatchQuoted(p Pattern) iter.Seq[types.Triple] { return s.quoted.match(p) }
