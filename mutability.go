package rdfset

import (
	"github.com/pkg/errors"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/types"
)

// Mutability is the write strategy of a Store
type Mutability interface {
	AddGraph(ix Index, g graph.Graph) (bool, error)
	// RemoveGraph drops the named graph, or clears it in place when keep is
	// set
	RemoveGraph(ix Index, name types.GraphName, keep bool) (bool, error)
	// Modifiable returns a handle for edits and records that it was taken
	Modifiable(ix Index, name types.GraphName) (graph.Graph, error)
	// Edit is Modifiable for single-quad edits. Repeated edits of one graph
	// within a transaction are recorded once.
	Edit(ix Index, name types.GraphName) (graph.Graph, error)
	// Flush commits and returns the names of the graphs that were touched
	Flush(ix Index) ([]types.GraphName, error)
	Discard(ix Index) error
	Pending() []PersistenceAction
}

func notFound(name types.GraphName) error {
	return errors.Wrapf(ErrGraphNotFound, "graph %s", name)
}

// plain applies every edit directly and keeps no log
type plain struct{}

func (plain) AddGraph(ix Index, g graph.Graph) (bool, error) { return ix.AddGraph(g), nil }

func (plain) RemoveGraph(ix Index, name types.GraphName, keep bool) (bool, error) {
	if !keep {
		return ix.RemoveGraph(name), nil
	}

	g, has := ix.Modifiable(name)
	if has {
		g.Clear()
	}
	return has, nil
}

func (plain) Modifiable(ix Index, name types.GraphName) (graph.Graph, error) {
	g, has := ix.Modifiable(name)
	if !has {
		return nil, notFound(name)
	}
	return g, nil
}

func (p plain) Edit(ix Index, name types.GraphName) (graph.Graph, error) { return p.Modifiable(ix, name) }

func (plain) Flush(Index) ([]types.GraphName, error) { return nil, nil }
func (plain) Discard(Index) error                    { return nil }
func (plain) Pending() []PersistenceAction           { return nil }

// immutable rejects every edit
type immutable struct{}

func (immutable) AddGraph(Index, graph.Graph) (bool, error) { return false, ErrUnsupported }

func (immutable) RemoveGraph(Index, types.GraphName, bool) (bool, error) {
	return false, ErrUnsupported
}

func (immutable) Modifiable(Index, types.GraphName) (graph.Graph, error) {
	return nil, ErrUnsupported
}

func (immutable) Edit(Index, types.GraphName) (graph.Graph, error) { return nil, ErrUnsupported }

func (immutable) Flush(Index) ([]types.GraphName, error) { return nil, nil }
func (immutable) Discard(Index) error                    { return nil }
func (immutable) Pending() []PersistenceAction           { return nil }
