package rdfset

import (
	"iter"
	"sync"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/types"
)

type datasetCollection struct{ ds Dataset }

// Collection projects ds as a graph.Collection. Mutations go through the
// dataset, so they are logged by its transaction; errors are reported as false.
func Collection(ds Dataset) graph.Collection { return datasetCollection{ds} }

func (c datasetCollection) Add(g graph.Graph, merge bool) bool {
	if !merge && c.ds.HasGraph(g.Name()) {
		return false
	}
	added, err := c.ds.AddGraph(g)
	return err == nil && added
}

func (c datasetCollection) Remove(name types.GraphName) bool {
	removed, err := c.ds.RemoveGraph(name)
	return err == nil && removed
}

func (c datasetCollection) Has(name types.GraphName) bool { return c.ds.HasGraph(name) }

func (c datasetCollection) Get(name types.GraphName) (graph.Graph, bool) { return c.ds.Graph(name) }

func (c datasetCollection) Names() iter.Seq[types.GraphName] { return c.ds.GraphNames() }

func (c datasetCollection) Graphs() iter.Seq[graph.Graph] { return c.ds.Graphs() }

func (c datasetCollection) Len() int {
	n := 0
	for range c.ds.GraphNames() {
		n++
	}
	return n
}

// Wrapper forwards every Dataset operation to the dataset it embeds.
// Decorators embed a Wrapper and override the operations they change.
type Wrapper struct {
	Dataset
	fallback sync.RWMutex
}

var (
	_ Dataset  = (*Wrapper)(nil)
	_ Lockable = (*Wrapper)(nil)
)

// Wrap returns a Wrapper around inner
func Wrap(inner Dataset) *Wrapper { return &Wrapper{Dataset: inner} }

// Inner returns the wrapped dataset
func (w *Wrapper) Inner() Dataset { return w.Dataset }

// Locker returns the inner dataset's lock if it exposes one, and a lock
// owned by the wrapper otherwise
func (w *Wrapper) Locker() *sync.RWMutex {
	if l, ok := w.Dataset.(Lockable); ok {
		if lock := l.Locker(); lock != nil {
			return lock
		}
	}
	return &w.fallback
}

// ReadOnlyWrapper rejects every mutation with ErrUnsupported and forwards
// everything else
type ReadOnlyWrapper struct {
	*Wrapper
}

// ReadOnly wraps inner so that it cannot be modified through the wrapper
func ReadOnly(inner Dataset) *ReadOnlyWrapper { return &ReadOnlyWrapper{Wrap(inner)} }

func (w *ReadOnlyWrapper) AddGraph(graph.Graph) (bool, error) { return false, ErrUnsupported }

func (w *ReadOnlyWrapper) RemoveGraph(types.GraphName) (bool, error) { return false, ErrUnsupported }

func (w *ReadOnlyWrapper) GetModifiableGraph(types.GraphName) (graph.Graph, error) {
	return nil, ErrUnsupported
}

func (w *ReadOnlyWrapper) AddQuad(types.GraphName, types.Triple) (bool, error) {
	return false, ErrUnsupported
}

func (w *ReadOnlyWrapper) RemoveQuad(types.GraphName, types.Triple) (bool, error) {
	return false, ErrUnsupported
}
