// Package loader reads JSON-LD and N-Quads documents into graphs using
// json-gold, and can add the result to a dataset.
package loader

import (
	"slices"

	ld "github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"

	"github.com/underlay/rdfset"
	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/types"
)

// FromJSONLD converts a parsed JSON-LD document into one graph per graph
// label. Remote contexts are resolved with documents, which may be nil if
// the document has none.
func FromJSONLD(doc interface{}, base string, documents ld.DocumentLoader) ([]*graph.Memory, error) {
	opts := ld.NewJsonLdOptions(base)
	opts.ProduceGeneralizedRdf = true
	if documents == nil {
		documents = NewDocumentLoader()
	}
	opts.DocumentLoader = documents

	proc := ld.NewJsonLdProcessor()
	result, err := proc.ToRDF(doc, opts)
	if err != nil {
		return nil, errors.Wrap(err, "converting JSON-LD to RDF")
	}

	dataset, ok := result.(*ld.RDFDataset)
	if !ok {
		return nil, errors.Errorf("unexpected JSON-LD result %T", result)
	}
	return fromDataset(dataset), nil
}

// FromNQuads parses an N-Quads document into one graph per graph label
func FromNQuads(input string) ([]*graph.Memory, error) {
	dataset, err := ld.ParseNQuads(input)
	if err != nil {
		return nil, errors.Wrap(err, "parsing N-Quads")
	}
	return fromDataset(dataset), nil
}

func fromDataset(dataset *ld.RDFDataset) []*graph.Memory {
	graphs := make([]*graph.Memory, 0, len(dataset.Graphs))
	for label, quads := range dataset.Graphs {
		g := graph.New(types.FromLabel(label))
		for _, quad := range quads {
			g.Assert(types.NewTriple(quad.Subject, quad.Predicate, quad.Object))
		}
		graphs = append(graphs, g)
	}
	slices.SortFunc(graphs, func(a, b *graph.Memory) int { return types.Compare(a.Name(), b.Name()) })
	return graphs
}

// Into adds every graph to ds, merging into graphs that already exist
func Into(ds rdfset.Dataset, graphs []*graph.Memory) error {
	for _, g := range graphs {
		if _, err := ds.AddGraph(g); err != nil {
			return errors.Wrapf(err, "adding %s", g.Name())
		}
	}
	return nil
}
