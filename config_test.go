package rdfset

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/types"
)

func TestLoadOptions(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(`
union_default_graph: true
default_graph: http://example.com/fixed
index: quad
store:
  kind: badger
  in_memory: true
`))
	require.NoError(t, err)
	assert.True(t, opts.UnionDefaultGraph)
	assert.Equal(t, "http://example.com/fixed", opts.DefaultGraph)
	assert.Equal(t, IndexQuad, opts.Index)
	assert.Equal(t, StoreBadger, opts.Store.Kind)
	assert.True(t, opts.Store.InMemory)
}

func TestLoadOptionsEmpty(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, &Options{}, opts)
}

func TestLoadOptionsRejects(t *testing.T) {
	for _, input := range []string{
		"unknown_key: 1\n",
		"index: btree\n",
		"store:\n  kind: s3\n",
		"store:\n  bucket: x\n",
	} {
		_, err := LoadOptions(strings.NewReader(input))
		assert.Error(t, err, input)
	}
}

func TestOpenDefaults(t *testing.T) {
	s, err := Open(nil, nil, nil)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Index().(*GraphIndex)
	assert.True(t, ok)
	assert.False(t, s.UsesUnionDefaultGraph())
	assert.Equal(t, []types.GraphName{types.Default}, slices.Collect(s.GraphNames()))
}

func TestOpenFixedDefaultGraph(t *testing.T) {
	s, err := Open(&Options{DefaultGraph: "http://example.com/fixed", Index: IndexQuad}, zap.NewNop(), nil)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Index().(*QuadIndex)
	assert.True(t, ok)
	assert.True(t, s.HasGraph(types.IRI("http://example.com/fixed")))

	_, err = s.AddQuad(types.IRI("http://example.com/fixed"), tr("a", "p", "b"))
	require.NoError(t, err)
	assert.True(t, s.ContainsTriple(tr("a", "p", "b")))

	_, err = s.RemoveGraph(types.IRI("http://example.com/fixed"))
	require.NoError(t, err)
	g, has := s.Graph(types.IRI("http://example.com/fixed"))
	require.True(t, has)
	assert.True(t, g.IsEmpty())
	assert.Equal(t, []types.GraphName{types.IRI("http://example.com/fixed")}, s.DefaultGraphNames())
}

func TestOpenReadOnly(t *testing.T) {
	s, err := Open(&Options{ReadOnly: true}, nil, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.HasGraph(types.Default))
	_, err = s.AddGraph(graph.New(name("g")))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = s.GetModifiableGraph(types.Default)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestOpenBadgerStore(t *testing.T) {
	opts := &Options{}
	opts.Store.Kind = StoreBadger
	opts.Store.Path = filepath.Join(t.TempDir(), "snapshots")

	s, err := Open(opts, zap.NewNop(), nil)
	require.NoError(t, err)
	_, err = s.AddGraph(graph.FromTriples(name("g"), tr("a", "p", "b")))
	require.NoError(t, err)
	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	reopened, err := Open(opts, zap.NewNop(), nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, keysOf(tr("a", "p", "b")), contents(t, reopened, name("g")))
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	opts := &Options{}
	opts.Store.Kind = StoreBadger
	_, err := Open(opts, nil, nil)
	assert.Error(t, err)
}
