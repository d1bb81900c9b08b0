package rdfset

import (
	"io"
	"iter"
	"slices"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/underlay/rdfset/graph"
	"github.com/underlay/rdfset/scope"
	"github.com/underlay/rdfset/store"
	"github.com/underlay/rdfset/types"
)

// core is the state shared by every session of a Store
type core struct {
	config  *Config
	index   Index
	mut     Mutability
	lock    sync.RWMutex
	logger  *zap.Logger
	metrics *metrics
	closers []io.Closer
	// unsaved holds flushed graphs whose snapshot has not been written yet
	unsaved []types.GraphName
}

// A Store is a dataset instance. Sessions of one Store share graphs, lock
// and transaction log, and each has its own graph scope.
type Store struct {
	*core
	scope *scope.Stack
}

var (
	_ Dataset  = (*Store)(nil)
	_ Lockable = (*Store)(nil)
)

// NewStore composes a dataset from an index. The mutability strategy is
// picked from config: ReadOnly, then Untracked, and transactional otherwise.
// Graphs held by config.Store are loaded into the index.
func NewStore(ix Index, config *Config) (*Store, error) {
	config = config.withDefaults()

	m, err := newMetrics(config.Registerer)
	if err != nil {
		return nil, err
	}

	var mut Mutability
	if config.ReadOnly {
		mut = immutable{}
	} else if config.Untracked {
		mut = plain{}
	} else {
		mut = newTransactional(config.Logger, m)
	}

	c := &core{
		config:  config,
		index:   ix,
		mut:     mut,
		logger:  config.Logger,
		metrics: m,
	}

	if err := c.restore(); err != nil {
		return nil, err
	}

	return &Store{core: c, scope: scope.New()}, nil
}

func (c *core) restore() error {
	if store.IsEmpty(c.config.Store) {
		return nil
	}

	for _, name := range store.Names(c.config.Store.List(types.Default)) {
		triples, err := c.config.Store.Get(name)
		if err != nil {
			return errors.Wrapf(err, "restoring %s", name)
		}
		c.index.AddGraph(graph.FromTriples(name, triples...))
	}
	return nil
}

// persist writes a snapshot of each named graph, or deletes the snapshot of
// a graph that no longer exists. It returns the names it did not get to.
func (c *core) persist(names []types.GraphName) ([]types.GraphName, error) {
	if store.IsEmpty(c.config.Store) {
		return nil, nil
	}

	for i, name := range names {
		var err error
		if g, has := c.index.Graph(name); has {
			err = c.config.Store.Set(name, slices.Collect(g.Triples()))
		} else if err = c.config.Store.Delete(name); errors.Is(err, store.ErrNotFound) {
			err = nil
		}

		if err != nil {
			c.logger.Error("persisting graph", zap.Stringer("graph", name), zap.Error(err))
			return names[i:], errors.Wrapf(err, "persisting %s", name)
		}
	}
	return nil, nil
}

// pinned reports whether name must keep its slot: the unnamed graph, and the
// fixed default graph unless the default graph is the union
func (c *core) pinned(name types.GraphName) bool {
	return name.IsDefault() || (!c.config.UnionDefaultGraph && name == c.config.DefaultGraph)
}

// Session returns a handle on the same dataset with its own graph scope.
// Each concurrent query evaluation should use its own session.
func (s *Store) Session() *Store { return &Store{core: s.core, scope: scope.New()} }

// Locker returns the reader/writer lock shared by every session
func (s *Store) Locker() *sync.RWMutex { return &s.lock }

// Index returns the storage strategy
func (s *Store) Index() Index { return s.index }

// Pending returns the actions logged since the last Flush or Discard
func (s *Store) Pending() []PersistenceAction { return s.mut.Pending() }

// Close releases resources opened on behalf of the dataset
func (s *Store) Close() (err error) {
	if s == nil {
		return
	}

	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	s.closers = nil
	return
}

func (s *Store) AddGraph(g graph.Graph) (bool, error) { return s.mut.AddGraph(s.index, g) }

// RemoveGraph drops the named graph. The unnamed graph and the fixed default
// graph are cleared instead.
func (s *Store) RemoveGraph(name types.GraphName) (bool, error) {
	return s.mut.RemoveGraph(s.index, name, s.pinned(name))
}

func (s *Store) HasGraph(name types.GraphName) bool { return s.index.HasGraph(name) }

func (s *Store) Graphs() iter.Seq[graph.Graph] { return s.index.Graphs() }

func (s *Store) GraphNames() iter.Seq[types.GraphName] { return s.index.GraphNames() }

func (s *Store) Graph(name types.GraphName) (graph.Graph, bool) { return s.index.Graph(name) }

func (s *Store) GetModifiableGraph(name types.GraphName) (graph.Graph, error) {
	return s.mut.Modifiable(s.index, name)
}

func (s *Store) AddQuad(name types.GraphName, t types.Triple) (bool, error) {
	if !s.index.HasGraph(name) {
		return s.mut.AddGraph(s.index, graph.FromTriples(name, t))
	}

	g, err := s.mut.Edit(s.index, name)
	if err != nil {
		return false, err
	}
	return g.Assert(t), nil
}

func (s *Store) RemoveQuad(name types.GraphName, t types.Triple) (bool, error) {
	if !s.index.HasGraph(name) {
		return false, nil
	}

	g, err := s.mut.Edit(s.index, name)
	if err != nil {
		return false, err
	}
	return g.Retract(t), nil
}

func (s *Store) SetActiveGraph(names ...types.GraphName) {
	s.scope.PushActive(s.index.Resolve(names))
	s.metrics.scopes.WithLabelValues("active").Inc()
}

func (s *Store) SetDefaultGraph(names ...types.GraphName) {
	s.scope.PushDefault(s.index.Resolve(names))
	s.metrics.scopes.WithLabelValues("default").Inc()
}

func (s *Store) ResetActiveGraph() error {
	if err := s.scope.PopActive(); err != nil {
		return ErrNoActiveGraph
	}
	return nil
}

func (s *Store) ResetDefaultGraph() error {
	if err := s.scope.PopDefault(); err != nil {
		return ErrNoDefaultGraph
	}
	return nil
}

// ActiveGraphNames returns the names of the innermost active scope, falling
// back to DefaultGraphNames
func (s *Store) ActiveGraphNames() []types.GraphName {
	if sc, has := s.scope.Active(); has {
		return slices.Clone(sc.Names)
	}
	return s.DefaultGraphNames()
}

// DefaultGraphNames returns the names of the innermost default scope. With
// nothing pushed it is every graph name in union mode and the fixed default
// graph otherwise.
func (s *Store) DefaultGraphNames() []types.GraphName {
	if sc, has := s.scope.Default(); has {
		return slices.Clone(sc.Names)
	} else if s.config.UnionDefaultGraph {
		return slices.Collect(s.index.GraphNames())
	}
	return []types.GraphName{s.config.DefaultGraph}
}

func (s *Store) UsesUnionDefaultGraph() bool { return s.config.UnionDefaultGraph }

// effective returns the scope reads are answered from: the active scope, else
// the default scope, else the fixed default graph. Nil means every graph.
func (s *Store) effective() *scope.Scope {
	if sc, has := s.scope.Active(); has {
		return &sc
	} else if sc, has := s.scope.Default(); has {
		return &sc
	} else if s.config.UnionDefaultGraph {
		return nil
	}

	sc := s.index.Resolve([]types.GraphName{s.config.DefaultGraph})
	return &sc
}

func (s *Store) HasTriples() bool {
	for range s.Triples() {
		return true
	}
	return false
}

func (s *Store) ContainsTriple(t types.Triple) bool {
	return s.index.Contains(s.effective(), t, false)
}

func (s *Store) ContainsQuotedTriple(t types.Triple) bool {
	return s.index.Contains(s.effective(), t, true)
}

func (s *Store) Triples() iter.Seq[types.Triple] { return s.Match(graph.Pattern{}) }

func (s *Store) QuotedTriples() iter.Seq[types.Triple] { return s.MatchQuoted(graph.Pattern{}) }

func (s *Store) Match(p graph.Pattern) iter.Seq[types.Triple] {
	return s.index.Match(s.effective(), p, false)
}

func (s *Store) MatchQuoted(p graph.Pattern) iter.Seq[types.Triple] {
	return s.index.Match(s.effective(), p, true)
}

// Flush commits the current transaction and then persists a snapshot of
// every graph it touched. Graphs whose snapshot could not be written are
// retried by the next Flush.
func (s *Store) Flush() error {
	touched, err := s.mut.Flush(s.index)
	if err != nil {
		return err
	}

	for _, name := range touched {
		if !slices.Contains(s.unsaved, name) {
			s.unsaved = append(s.unsaved, name)
		}
	}
	s.unsaved, err = s.persist(s.unsaved)
	return err
}

// Discard rolls back the current transaction
func (s *Store) Discard() error { return s.mut.Discard(s.index) }

// Log writes the name and size of every graph to the logger
func (s *Store) Log() {
	var n int
	for g := range s.index.Graphs() {
		s.logger.Info("graph", zap.Stringer("name", g.Name()), zap.Int("triples", g.Count()))
		n++
	}
	s.logger.Info("dataset",
		zap.Int("graphs", n),
		zap.Bool("union_default_graph", s.config.UnionDefaultGraph),
		zap.Stringer("default_graph", s.config.DefaultGraph),
	)
}
