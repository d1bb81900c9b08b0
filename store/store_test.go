package store

import (
	"testing"

	ld "github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/underlay/rdfset/types"
)

func sample() []types.Triple {
	s, p := ld.NewIRI("http://example.com/s"), ld.NewIRI("http://example.com/p")
	inner := types.NewTriple(s, p, ld.NewLiteral("line\nbreak", "", ""))
	return []types.Triple{
		inner,
		types.NewTriple(types.Quote(inner), p, ld.NewBlankNode("_:b0")),
	}
}

func exercise(t *testing.T, s QuadStore) {
	g1, g2 := types.IRI("http://example.com/g1"), types.Blank("g2")

	_, err := s.Get(g1)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.Set(g1, sample()))
	require.NoError(t, s.Set(g2, nil))
	require.NoError(t, s.Set(types.Default, sample()[:1]))
	require.NoError(t, s.Set(g1, sample()))

	got, err := s.Get(g1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i, want := range sample() {
		assert.True(t, want.Equal(got[i]))
	}

	empty, err := s.Get(g2)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.ElementsMatch(t, []types.GraphName{types.Default, g1, g2}, Names(s.List(types.Default)))

	require.NoError(t, s.Delete(g2))
	assert.True(t, errors.Is(s.Delete(g2), ErrNotFound))
	assert.ElementsMatch(t, []types.GraphName{types.Default, g1}, Names(s.List(types.Default)))
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemory())
}

func TestBadgerStore(t *testing.T) {
	db, err := OpenBadger(Options{InMemory: true, Logger: zap.NewNop()})
	require.NoError(t, err)
	defer db.Close()

	exercise(t, NewBadger(db))
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(Options{})
	assert.Error(t, err)
}

func TestEmptyStore(t *testing.T) {
	s := Empty()
	assert.True(t, IsEmpty(s))
	assert.False(t, IsEmpty(NewMemory()))
	require.NoError(t, s.Set(types.Default, sample()))
	_, err := s.Get(types.Default)
	assert.True(t, errors.Is(err, ErrNotFound))
	require.NoError(t, s.Delete(types.Default))
	assert.Empty(t, Names(s.List(types.Default)))
}
