package rdfset

import (
	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/types"
)

// NewInMemory opens a graph-indexed dataset over a fresh in-memory collection
func NewInMemory(config *Config) (*Store, error) {
	return NewInMemoryFrom(graph.NewCollection(), config)
}

// NewInMemoryFrom opens a graph-indexed dataset over c. The dataset takes
// ownership of the graphs in c.
func NewInMemoryFrom(c graph.Collection, config *Config) (*Store, error) {
	s, err := NewStore(NewGraphIndex(c), config)
	if err != nil {
		return nil, err
	}
	s.ensureDefault()
	return s, nil
}

// NewInMemoryQuad opens a quad-indexed dataset over a fresh MemoryQuads
func NewInMemoryQuad(config *Config) (*Store, error) {
	s, err := NewStore(NewQuadIndex(NewMemoryQuads()), config)
	if err != nil {
		return nil, err
	}
	s.ensureDefault()
	return s, nil
}

// ensureDefault creates the unnamed graph and the fixed default graph if
// they are missing. It writes to the index directly so that the graphs exist
// even when the dataset is read-only, and so that nothing is logged.
func (s *Store) ensureDefault() {
	for _, name := range []types.GraphName{types.Default, s.config.DefaultGraph} {
		if !s.index.HasGraph(name) {
			s.index.AddGraph(graph.New(name))
		}
	}
}
