// Package types holds the RDF values shared by every dataset backend:
// graph names, triples, quoted triple terms, and the line codec used to
// persist graph snapshots.
package types

import (
	"strings"

	ld "github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
)

// DefaultLabel is the json-gold dataset label of the unnamed graph
const DefaultLabel = "@default"

// Kind discriminates the three shapes a graph name can take
type Kind uint8

const (
	// KindDefault is the unnamed default graph
	KindDefault Kind = iota
	// KindIRI is a graph named by an IRI
	KindIRI
	// KindBlank is a graph named by a blank node
	KindBlank
)

func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	default:
		return "default"
	}
}

// GraphName identifies a graph inside a dataset. The zero value is the
// unnamed default graph. GraphName is comparable and can be used as a map key.
type GraphName struct {
	kind  Kind
	value string
}

// Default is the unnamed default graph
var Default = GraphName{}

// IRI returns the graph name for an IRI
func IRI(value string) GraphName { return GraphName{kind: KindIRI, value: value} }

// Blank returns the graph name for a blank node. A leading "_:" is stripped.
func Blank(id string) GraphName {
	return GraphName{kind: KindBlank, value: strings.TrimPrefix(id, "_:")}
}

// Kind returns the shape of the name
func (g GraphName) Kind() Kind { return g.kind }

// Value returns the IRI or blank node identifier, or "" for the default graph
func (g GraphName) Value() string { return g.value }

// IsDefault reports whether g is the unnamed default graph
func (g GraphName) IsDefault() bool { return g.kind == KindDefault }

// Node returns the json-gold term for g, or nil for the default graph
func (g GraphName) Node() ld.Node {
	switch g.kind {
	case KindIRI:
		return ld.NewIRI(g.value)
	case KindBlank:
		return ld.NewBlankNode("_:" + g.value)
	default:
		return nil
	}
}

// Label returns the key json-gold uses for g in an RDFDataset
func (g GraphName) Label() string {
	switch g.kind {
	case KindIRI:
		return g.value
	case KindBlank:
		return "_:" + g.value
	default:
		return DefaultLabel
	}
}

func (g GraphName) String() string {
	switch g.kind {
	case KindIRI:
		return "<" + g.value + ">"
	case KindBlank:
		return "_:" + g.value
	default:
		return DefaultLabel
	}
}

// FromLabel parses a json-gold dataset label
func FromLabel(label string) GraphName {
	if label == "" || label == DefaultLabel {
		return Default
	} else if strings.HasPrefix(label, "_:") {
		return Blank(label)
	}
	return IRI(label)
}

// FromNode converts a json-gold term into a graph name. A nil node is the
// default graph; literals and quoted triples cannot name graphs.
func FromNode(node ld.Node) (GraphName, error) {
	switch node := node.(type) {
	case nil:
		return Default, nil
	case *ld.IRI:
		return IRI(node.Value), nil
	case *ld.BlankNode:
		return Blank(node.Attribute), nil
	default:
		return Default, errors.Wrapf(ErrInvalidTerm, "cannot name a graph with %s", FormatTerm(node))
	}
}

// ParseGraphName reads a name in the form produced by String
func ParseGraphName(s string) (GraphName, error) {
	if s == "" || s == DefaultLabel {
		return Default, nil
	}
	node, err := ParseTerm(s)
	if err != nil {
		return Default, err
	}
	return FromNode(node)
}

// Compare orders graph names by kind and then by value
func Compare(a, b GraphName) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	return strings.Compare(a.value, b.value)
}
