package types

import (
	"testing"

	ld "github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphNameKinds(t *testing.T) {
	var zero GraphName
	assert.True(t, zero.IsDefault())
	assert.Equal(t, Default, zero)
	assert.Nil(t, Default.Node())
	assert.Equal(t, DefaultLabel, Default.Label())

	g := IRI("http://example.com/g")
	assert.Equal(t, KindIRI, g.Kind())
	assert.Equal(t, "<http://example.com/g>", g.String())
	assert.Equal(t, "http://example.com/g", g.Label())

	b := Blank("_:b0")
	assert.Equal(t, Blank("b0"), b)
	assert.Equal(t, "_:b0", b.Label())
	assert.True(t, ld.IsBlankNode(b.Node()))

	names := map[GraphName]int{Default: 0, g: 1, b: 2}
	assert.Equal(t, 1, names[IRI("http://example.com/g")])
}

func TestGraphNameConversions(t *testing.T) {
	for _, name := range []GraphName{Default, IRI("http://example.com/a"), Blank("x")} {
		fromNode, err := FromNode(name.Node())
		require.NoError(t, err)
		assert.Equal(t, name, fromNode)
		assert.Equal(t, name, FromLabel(name.Label()))

		parsed, err := ParseGraphName(name.String())
		require.NoError(t, err)
		assert.Equal(t, name, parsed)
	}

	_, err := FromNode(ld.NewLiteral("x", "", ""))
	assert.True(t, errors.Is(err, ErrInvalidTerm))
}

func TestCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(Default, IRI("a")))
	assert.Equal(t, -1, Compare(IRI("a"), IRI("b")))
	assert.Equal(t, 1, Compare(Blank("a"), IRI("z")))
	assert.Equal(t, 0, Compare(Blank("a"), Blank("_:a")))
}

func TestTripleEquality(t *testing.T) {
	a := NewTriple(ld.NewIRI("s"), ld.NewIRI("p"), ld.NewLiteral("o", "", ""))
	b := NewTriple(ld.NewIRI("s"), ld.NewIRI("p"), ld.NewLiteral("o", ld.XSDString, ""))
	c := NewTriple(ld.NewIRI("s"), ld.NewIRI("p"), ld.NewLiteral("o", "", "en"))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.Equal(t, `<s> <p> "o"`, a.Key())
}

func TestQuoted(t *testing.T) {
	inner := NewTriple(ld.NewIRI("a"), ld.NewIRI("b"), ld.NewIRI("c"))
	middle := NewTriple(Quote(inner), ld.NewIRI("said"), ld.NewBlankNode("_:x"))
	outer := NewTriple(ld.NewIRI("z"), ld.NewIRI("believes"), Quote(middle))

	quoted := outer.Quoted()
	require.Len(t, quoted, 2)
	assert.True(t, quoted[0].Equal(middle))
	assert.True(t, quoted[1].Equal(inner))

	assert.True(t, Quote(inner).Equal(Quote(NewTriple(ld.NewIRI("a"), ld.NewIRI("b"), ld.NewIRI("c")))))
	assert.False(t, Quote(inner).Equal(ld.NewIRI("a")))
	assert.True(t, IsTripleNode(outer.Object))
}

func TestCodecRoundTrip(t *testing.T) {
	inner := NewTriple(ld.NewBlankNode("_:b1"), ld.NewIRI("http://example.com/p"), ld.NewLiteral("tab\there \"quoted\"\n", "", ""))
	triples := []Triple{
		inner,
		NewTriple(ld.NewIRI("http://example.com/s"), ld.NewIRI("http://example.com/p"), ld.NewLiteral("42", "http://www.w3.org/2001/XMLSchema#integer", "")),
		NewTriple(ld.NewIRI("http://example.com/s"), ld.NewIRI("http://example.com/label"), ld.NewLiteral("bonjour", ld.RDFLangString, "fr")),
		NewTriple(Quote(inner), ld.NewIRI("http://example.com/source"), ld.NewIRI("http://example.com/doc")),
	}

	data := EncodeTriples(triples)
	decoded, err := DecodeTriples(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(triples))
	for i := range triples {
		assert.True(t, triples[i].Equal(decoded[i]), "triple %d: %s != %s", i, triples[i], decoded[i])
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"<unterminated",
		`"open literal`,
		"_: <p> <o>",
		"<< <a> <b> <c> <p> <o>",
		"<s> <p> <o> extra",
		"?x <p> <o>",
	} {
		_, err := ParseTriple(input)
		assert.True(t, errors.Is(err, ErrInvalidTerm), "input %q", input)
	}

	_, err := DecodeTriples([]byte("<a> <b> <c> .\n<bad\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
