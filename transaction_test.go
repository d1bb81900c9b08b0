package rdfset

import (
	"slices"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/store"
	"github.com/underlay/rdfset/types"
)

// committed builds the state every rollback test starts from
func committed(t *testing.T, s *Store) {
	_, err := s.AddQuad(types.Default, tr("d", "p", "0"))
	require.NoError(t, err)
	_, err = s.AddGraph(graph.FromTriples(name("g1"), tr("a", "p", "1")))
	require.NoError(t, err)
	_, err = s.AddGraph(graph.FromTriples(name("g2"), tr("b", "p", "2")))
	require.NoError(t, err)
	require.NoError(t, s.Flush())
	require.Empty(t, s.Pending())
}

func TestDiscardRestoresCommittedState(t *testing.T) {
	eachBackend(t, Config{}, func(t *testing.T, s *Store) {
		committed(t, s)

		_, err := s.AddGraph(graph.FromTriples(name("g3"), tr("c", "p", "3")))
		require.NoError(t, err)
		_, err = s.AddGraph(graph.FromTriples(name("g1"), tr("a", "p", "merged")))
		require.NoError(t, err)

		g1, err := s.GetModifiableGraph(name("g1"))
		require.NoError(t, err)
		g1.Retract(tr("a", "p", "1"))
		g1.Assert(tr("a", "p", "edited"))

		def, err := s.GetModifiableGraph(types.Default)
		require.NoError(t, err)
		def.Assert(tr("d", "p", "new"))

		_, err = s.AddQuad(name("g4"), tr("e", "p", "4"))
		require.NoError(t, err)
		_, err = s.RemoveGraph(types.Default)
		require.NoError(t, err)
		_, err = s.RemoveQuad(name("g2"), tr("b", "p", "2"))
		require.NoError(t, err)

		assert.NotEmpty(t, s.Pending())
		require.NoError(t, s.Discard())
		assert.Empty(t, s.Pending())

		assert.Equal(t, []types.GraphName{types.Default, name("g1"), name("g2")}, slices.Collect(s.GraphNames()))
		assert.Equal(t, keysOf(tr("d", "p", "0")), contents(t, s, types.Default))
		assert.Equal(t, keysOf(tr("a", "p", "1")), contents(t, s, name("g1")))
		assert.Equal(t, keysOf(tr("b", "p", "2")), contents(t, s, name("g2")))
	})
}

// Rolling back a deletion restores the graph's name but not its triples
func TestDiscardDeletedGraphComesBackEmpty(t *testing.T) {
	eachBackend(t, Config{}, func(t *testing.T, s *Store) {
		committed(t, s)

		g2, err := s.GetModifiableGraph(name("g2"))
		require.NoError(t, err)
		g2.Retract(tr("b", "p", "2"))
		g2.Assert(tr("b", "p", "edited"))

		removed, err := s.RemoveGraph(name("g2"))
		require.NoError(t, err)
		assert.True(t, removed)

		kinds := []ActionKind{}
		for _, action := range s.Pending() {
			kinds = append(kinds, action.Kind)
		}
		assert.Equal(t, []ActionKind{Modified, Deleted}, kinds)

		require.NoError(t, s.Discard())
		assert.True(t, s.HasGraph(name("g2")))
		assert.Empty(t, contents(t, s, name("g2")))
		assert.Equal(t, keysOf(tr("a", "p", "1")), contents(t, s, name("g1")))
	})
}

func TestDiscardRemoveThenReAdd(t *testing.T) {
	eachBackend(t, Config{}, func(t *testing.T, s *Store) {
		committed(t, s)

		_, err := s.RemoveGraph(name("g1"))
		require.NoError(t, err)
		_, err = s.AddGraph(graph.FromTriples(name("g1"), tr("x", "y", "z")))
		require.NoError(t, err)
		assert.Equal(t, keysOf(tr("x", "y", "z")), contents(t, s, name("g1")))

		require.NoError(t, s.Discard())
		assert.True(t, s.HasGraph(name("g1")))
		assert.Empty(t, contents(t, s, name("g1")))
	})
}

func TestFlushKeepsEdits(t *testing.T) {
	eachBackend(t, Config{}, func(t *testing.T, s *Store) {
		committed(t, s)

		g1, err := s.GetModifiableGraph(name("g1"))
		require.NoError(t, err)
		g1.Assert(tr("a", "p", "more"))
		_, err = s.RemoveGraph(name("g2"))
		require.NoError(t, err)

		require.NoError(t, s.Flush())
		require.NoError(t, s.Discard())
		assert.Equal(t, keysOf(tr("a", "p", "1"), tr("a", "p", "more")), contents(t, s, name("g1")))
		assert.False(t, s.HasGraph(name("g2")))
	})
}

func TestModifiableLoggedAtCallTime(t *testing.T) {
	eachBackend(t, Config{}, func(t *testing.T, s *Store) {
		committed(t, s)

		first, err := s.GetModifiableGraph(name("g1"))
		require.NoError(t, err)
		second, err := s.GetModifiableGraph(name("g1"))
		require.NoError(t, err)
		assert.Same(t, first, second)

		pending := s.Pending()
		require.Len(t, pending, 2)
		for _, action := range pending {
			assert.Equal(t, Modified, action.Kind)
			assert.Equal(t, name("g1"), action.Graph.Name())
		}

		_, ok := first.(graph.TransactionalGraph)
		assert.True(t, ok)
	})
}

func TestDeletedActionHoldsRemovedTriples(t *testing.T) {
	eachBackend(t, Config{}, func(t *testing.T, s *Store) {
		committed(t, s)

		removed, err := s.RemoveGraph(name("g1"))
		require.NoError(t, err)
		assert.True(t, removed)

		pending := s.Pending()
		require.Len(t, pending, 1)
		assert.Equal(t, Deleted, pending[0].Kind)
		assert.Equal(t, name("g1"), pending[0].Graph.Name())
		assert.Equal(t, 1, pending[0].Graph.Count())
		assert.Equal(t, keysOf(tr("a", "p", "1")), keys(pending[0].Graph.Triples()))

		// the record is detached from the dataset
		pending[0].Graph.Assert(tr("a", "p", "late"))
		assert.False(t, s.HasGraph(name("g1")))
	})
}

func TestQuadEditsRecordedOnce(t *testing.T) {
	eachBackend(t, Config{}, func(t *testing.T, s *Store) {
		committed(t, s)

		for _, o := range []string{"x", "y", "z"} {
			_, err := s.AddQuad(name("g1"), tr("a", "p", o))
			require.NoError(t, err)
		}
		_, err := s.RemoveQuad(name("g1"), tr("a", "p", "1"))
		require.NoError(t, err)

		pending := s.Pending()
		require.Len(t, pending, 1)
		assert.Equal(t, Modified, pending[0].Kind)

		require.NoError(t, s.Discard())
		assert.Equal(t, keysOf(tr("a", "p", "1")), contents(t, s, name("g1")))
	})
}

func TestUntrackedHasNoLog(t *testing.T) {
	eachBackend(t, Config{Untracked: true}, func(t *testing.T, s *Store) {
		committed(t, s)
		_, err := s.RemoveGraph(name("g1"))
		require.NoError(t, err)
		assert.Empty(t, s.Pending())
		require.NoError(t, s.Discard())
		assert.False(t, s.HasGraph(name("g1")))
	})
}

func TestFlushPersistsTouchedGraphs(t *testing.T) {
	snapshots := store.NewMemory()
	s, err := NewInMemory(&Config{Store: snapshots})
	require.NoError(t, err)
	committed(t, s)

	assert.ElementsMatch(t, []types.GraphName{types.Default, name("g1"), name("g2")}, store.Names(snapshots.List(types.Default)))

	_, err = s.RemoveGraph(name("g2"))
	require.NoError(t, err)
	_, err = s.AddQuad(name("g1"), tr("a", "p", "later"))
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	_, err = s.AddGraph(graph.FromTriples(name("discarded"), tr("x", "y", "z")))
	require.NoError(t, err)
	require.NoError(t, s.Discard())

	assert.ElementsMatch(t, []types.GraphName{types.Default, name("g1")}, store.Names(snapshots.List(types.Default)))

	for _, b := range backends {
		reopened, err := b.open(&Config{Store: snapshots})
		require.NoError(t, err, b.name)
		assert.Equal(t, []types.GraphName{types.Default, name("g1")}, slices.Collect(reopened.GraphNames()), b.name)
		assert.Equal(t, keysOf(tr("a", "p", "1"), tr("a", "p", "later")), contents(t, reopened, name("g1")), b.name)
		assert.Equal(t, keysOf(tr("d", "p", "0")), contents(t, reopened, types.Default), b.name)
	}
}

func TestFlushWithBadgerStore(t *testing.T) {
	db, err := store.OpenBadger(store.Options{InMemory: true})
	require.NoError(t, err)
	defer db.Close()

	s, err := NewInMemoryQuad(&Config{Store: store.NewBadger(db)})
	require.NoError(t, err)
	committed(t, s)

	triples, err := store.NewBadger(db).Get(name("g2"))
	require.NoError(t, err)
	assert.Equal(t, keysOf(tr("b", "p", "2")), keysOf(triples...))
}

func TestTransactionMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	s, err := NewInMemory(&Config{Registerer: registry})
	require.NoError(t, err)

	committed(t, s)
	_, err = s.RemoveGraph(name("g1"))
	require.NoError(t, err)
	require.NoError(t, s.Discard())
	s.SetActiveGraph(name("g1"))

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.transactions.WithLabelValues("flushed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.transactions.WithLabelValues("discarded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.actions.WithLabelValues("deleted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.scopes.WithLabelValues("active")))

	// a second dataset on the same registry shares the counters
	other, err := NewInMemory(&Config{Registerer: registry})
	require.NoError(t, err)
	require.NoError(t, other.Discard())
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.transactions.WithLabelValues("discarded")))
}

func TestTransactionLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s, err := NewInMemory(&Config{Logger: zap.New(core)})
	require.NoError(t, err)

	committed(t, s)

	flushed := logs.FilterMessage("transaction flushed").All()
	require.Len(t, flushed, 1)
	fields := flushed[0].ContextMap()
	assert.NotEmpty(t, fields["txn"])
	assert.EqualValues(t, 3, fields["actions"])
	assert.Equal(t, 3, logs.FilterMessage("graph action").Len())

	s.Log()
	assert.Equal(t, 3, logs.FilterMessage("graph").Len())
	assert.Equal(t, 1, logs.FilterMessage("dataset").Len())
}

func TestPersistFailureIsReported(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	s, err := NewInMemory(&Config{Store: &failingStore{QuadStore: store.NewMemory(), failures: 1}, Logger: zap.New(core)})
	require.NoError(t, err)

	_, err = s.AddQuad(name("g"), tr("a", "p", "b"))
	require.NoError(t, err)
	err = s.Flush()
	assert.True(t, errors.Is(err, errFailing))
	assert.Equal(t, 1, logs.FilterMessage("persisting graph").Len())
}

func TestFlushRetriesUnsavedGraphs(t *testing.T) {
	snapshots := &failingStore{QuadStore: store.NewMemory(), failures: 1}
	s, err := NewInMemory(&Config{Store: snapshots})
	require.NoError(t, err)

	_, err = s.AddQuad(name("g"), tr("a", "p", "b"))
	require.NoError(t, err)
	require.Error(t, s.Flush())
	assert.Empty(t, store.Names(snapshots.List(types.Default)))

	// nothing new is pending, the failed snapshot is written anyway
	require.NoError(t, s.Flush())
	triples, err := snapshots.Get(name("g"))
	require.NoError(t, err)
	assert.Equal(t, keysOf(tr("a", "p", "b")), keysOf(triples...))

	require.NoError(t, snapshots.Delete(name("g")))
	require.NoError(t, s.Flush())
	assert.Empty(t, store.Names(snapshots.List(types.Default)))
}

var errFailing = errors.New("disk on fire")

// failingStore fails the next failures calls to Set
type failingStore struct {
	store.QuadStore
	failures int
}

func (s *failingStore) Set(name types.GraphName, triples []types.Triple) error {
	if s.failures > 0 {
		s.failures--
		return errFailing
	}
	return s.QuadStore.Set(name, triples)
}
