package rdfset

import (
	"slices"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/types"
)

// ActionKind classifies a PersistenceAction
type ActionKind uint8

const (
	// Added records a graph that did not exist before the transaction
	Added ActionKind = iota
	// Deleted records a removed graph
	Deleted
	// Modified records an edit to an existing graph
	Modified
)

func (k ActionKind) String() string {
	switch k {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	default:
		return "unknown"
	}
}

// PersistenceAction is one entry of a transaction log
type PersistenceAction struct {
	Graph graph.Graph
	Kind  ActionKind
}

// transactional applies edits immediately and logs one action per
// graph-level call. Flush walks the log forward and Discard walks it in
// reverse. Callers serialize transactions with the write lock.
type transactional struct {
	actions []PersistenceAction
	handles map[types.GraphName]*graph.Tracked
	id      string
	logger  *zap.Logger
	metrics *metrics
}

func newTransactional(logger *zap.Logger, m *metrics) *transactional {
	return &transactional{
		handles: map[types.GraphName]*graph.Tracked{},
		logger:  logger,
		metrics: m,
	}
}

func (tx *transactional) Pending() []PersistenceAction { return slices.Clone(tx.actions) }

func (tx *transactional) record(g graph.Graph, kind ActionKind) {
	if tx.id == "" {
		tx.id = uuid.NewString()
		tx.logger.Debug("transaction started", zap.String("txn", tx.id))
	}
	tx.actions = append(tx.actions, PersistenceAction{Graph: g, Kind: kind})
	tx.metrics.actions.WithLabelValues(kind.String()).Inc()
	tx.logger.Debug("graph action",
		zap.String("txn", tx.id),
		zap.Stringer("kind", kind),
		zap.Stringer("graph", g.Name()),
	)
}

// handle returns the cached change-tracking handle for name
func (tx *transactional) handle(ix Index, name types.GraphName) (*graph.Tracked, bool) {
	if h, has := tx.handles[name]; has {
		return h, true
	}
	g, has := ix.Modifiable(name)
	if !has {
		return nil, false
	}
	h := graph.Track(g)
	tx.handles[name] = h
	return h, true
}

// AddGraph logs Added for a new name. For an existing name the triples are
// merged through the tracked handle and logged as Modified, so that Discard
// removes them again.
func (tx *transactional) AddGraph(ix Index, g graph.Graph) (bool, error) {
	name := g.Name()
	if h, has := tx.handle(ix, name); has {
		graph.Merge(h, g)
		tx.record(h, Modified)
		return true, nil
	}

	added := ix.AddGraph(g)
	tx.record(g, Added)
	return added, nil
}

// RemoveGraph logs Deleted with a copy of the graph as it was before
// removal. A graph that keeps its slot is cleared through its tracked handle
// and logged as Modified instead.
func (tx *transactional) RemoveGraph(ix Index, name types.GraphName, keep bool) (bool, error) {
	if keep {
		h, has := tx.handle(ix, name)
		if !has {
			return false, nil
		}
		h.Clear()
		tx.record(h, Modified)
		return true, nil
	}

	g, has := ix.Graph(name)
	if !has {
		return false, nil
	}
	// quoted triples follow from the asserted ones
	removed := graph.FromTriples(name, slices.Collect(g.Triples())...)
	ok := ix.RemoveGraph(name)
	delete(tx.handles, name)
	tx.record(removed, Deleted)
	return ok, nil
}

// Modifiable logs Modified at call time, whether or not the handle is edited
func (tx *transactional) Modifiable(ix Index, name types.GraphName) (graph.Graph, error) {
	h, has := tx.handle(ix, name)
	if !has {
		return nil, notFound(name)
	}
	tx.record(h, Modified)
	return h, nil
}

// Edit returns the cached handle without logging again, so a run of
// AddQuad calls on one graph is recorded once
func (tx *transactional) Edit(ix Index, name types.GraphName) (graph.Graph, error) {
	if h, has := tx.handles[name]; has {
		return h, nil
	}
	return tx.Modifiable(ix, name)
}

func (tx *transactional) Flush(ix Index) ([]types.GraphName, error) {
	touched := tx.touched()
	for _, action := range tx.actions {
		g, ok := action.Graph.(graph.TransactionalGraph)
		if !ok {
			continue
		}

		var err error
		switch action.Kind {
		case Added, Modified:
			err = g.Flush()
		case Deleted:
			err = g.Discard()
		}
		if err != nil {
			return nil, errors.Wrapf(err, "flushing %s", g.Name())
		}
	}

	for _, h := range tx.handles {
		if err := h.Flush(); err != nil {
			return nil, errors.Wrapf(err, "flushing %s", h.Name())
		}
	}

	tx.end("flushed")
	return touched, nil
}

// Discard undoes the log in reverse. A deleted graph comes back as an empty
// placeholder, and edits made to it before its deletion are not replayed.
func (tx *transactional) Discard(ix Index) error {
	deleted := map[types.GraphName]bool{}
	for i := len(tx.actions) - 1; i >= 0; i-- {
		action := tx.actions[i]
		name := action.Graph.Name()
		switch action.Kind {
		case Added:
			ix.RemoveGraph(name)
		case Deleted:
			deleted[name] = true
			if !ix.HasGraph(name) {
				ix.AddGraph(graph.New(name))
			}
		case Modified:
			if deleted[name] {
				continue
			}
			if g, ok := action.Graph.(graph.TransactionalGraph); ok {
				if err := g.Discard(); err != nil {
					return errors.Wrapf(err, "discarding %s", g.Name())
				}
			}
		}
	}

	for _, h := range tx.handles {
		if err := h.Discard(); err != nil {
			return errors.Wrapf(err, "discarding %s", h.Name())
		}
	}

	tx.end("discarded")
	return nil
}

func (tx *transactional) touched() []types.GraphName {
	var names []types.GraphName
	for _, action := range tx.actions {
		if name := action.Graph.Name(); !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

func (tx *transactional) end(outcome string) {
	if len(tx.actions) > 0 {
		tx.logger.Debug("transaction "+outcome,
			zap.String("txn", tx.id),
			zap.Int("actions", len(tx.actions)),
		)
	}
	tx.metrics.transactions.WithLabelValues(outcome).Inc()
	tx.actions = nil
	tx.handles = map[types.GraphName]*graph.Tracked{}
	tx.id = ""
}
