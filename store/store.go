// Package store persists snapshots of graphs. A dataset writes the graphs
// touched by a transaction to its QuadStore after a successful flush, and
// can restore every stored graph when it is constructed.
package store

import (
	"slices"
	"sort"

	"github.com/pkg/errors"

	"github.com/underlay/rdfset/types"
)

// ErrNotFound indicates that no snapshot is stored under the given name
var ErrNotFound = errors.New("not found")

// QuadStore is an interface for things that can persist graphs
type QuadStore interface {
	Set(name types.GraphName, triples []types.Triple) error
	Get(name types.GraphName) ([]types.Triple, error)
	Delete(name types.GraphName) error
	// List returns the stored names in order, starting at from
	List(from types.GraphName) List
}

// List iterates over stored graph names
type List interface {
	Next() (name types.GraphName, valid bool)
	Close()
}

type emptyList struct{}
type emptyStore struct{}

// Empty returns a QuadStore that stores nothing
func Empty() QuadStore { return emptyStore{} }

// IsEmpty reports whether s is the store returned by Empty
func IsEmpty(s QuadStore) bool {
	_, is := s.(emptyStore)
	return s == nil || is
}

func (el emptyList) Close()                                   {}
func (el emptyList) Next() (name types.GraphName, valid bool) { return }

func (es emptyStore) Set(types.GraphName, []types.Triple) error   { return nil }
func (es emptyStore) Get(types.GraphName) ([]types.Triple, error) { return nil, ErrNotFound }
func (es emptyStore) Delete(types.GraphName) error                { return nil }
func (es emptyStore) List(types.GraphName) List                   { return emptyList{} }

type memoryStore struct {
	graphs map[string][]types.Triple
	values []string
}

// NewMemory returns a QuadStore that keeps snapshots in memory
func NewMemory() QuadStore {
	return &memoryStore{
		graphs: map[string][]types.Triple{},
		values: []string{},
	}
}

func (m *memoryStore) Set(name types.GraphName, triples []types.Triple) error {
	value := name.String()
	if _, has := m.graphs[value]; !has {
		i := sort.SearchStrings(m.values, value)
		m.values = slices.Insert(m.values, i, value)
	}
	m.graphs[value] = slices.Clone(triples)
	return nil
}

func (m *memoryStore) Get(name types.GraphName) ([]types.Triple, error) {
	triples, has := m.graphs[name.String()]
	if !has {
		return nil, ErrNotFound
	}
	return slices.Clone(triples), nil
}

func (m *memoryStore) Delete(name types.GraphName) error {
	value := name.String()
	if _, has := m.graphs[value]; !has {
		return ErrNotFound
	}

	delete(m.graphs, value)
	i := sort.SearchStrings(m.values, value)
	m.values = slices.Delete(m.values, i, i+1)
	return nil
}

type memoryList struct {
	int
	*memoryStore
}

func (ml *memoryList) Close() {}
func (ml *memoryList) Next() (name types.GraphName, valid bool) {
	for ml.int < len(ml.memoryStore.values) {
		value := ml.memoryStore.values[ml.int]
		ml.int++
		if name, err := types.ParseGraphName(value); err == nil {
			return name, true
		}
	}
	return
}

func (m *memoryStore) List(from types.GraphName) List {
	i := 0
	if !from.IsDefault() {
		i = sort.SearchStrings(m.values, from.String())
	}
	return &memoryList{i, m}
}

// Names drains l into a slice and closes it
func Names(l List) []types.GraphName {
	defer l.Close()
	var names []types.GraphName
	for name, valid := l.Next(); valid; name, valid = l.Next() {
		names = append(names, name)
	}
	return names
}
