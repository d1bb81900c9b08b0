package rdfset

import (
	"io"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/underlay/rdfset/store"
	"github.com/underlay/rdfset/types"
)

// Config contains the initialization options of a dataset
type Config struct {
	// UnionDefaultGraph makes an unset default scope read the union of every
	// graph instead of DefaultGraph alone
	UnionDefaultGraph bool
	// DefaultGraph is the fixed default graph. The zero value is the unnamed graph.
	DefaultGraph types.GraphName
	// ReadOnly rejects every mutation with ErrUnsupported
	ReadOnly bool
	// Untracked applies mutations without a transaction log
	Untracked bool
	// Store receives snapshots of the graphs touched by each flushed
	// transaction, and seeds the dataset when it is constructed
	Store      store.QuadStore
	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

func (c *Config) withDefaults() *Config {
	config := Config{}
	if c != nil {
		config = *c
	}

	if config.Store == nil {
		config.Store = store.Empty()
	}

	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &config
}

// Index kinds accepted by Options
const (
	IndexGraph = "graph"
	IndexQuad  = "quad"
)

// Store kinds accepted by Options
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// Options is the serialized form of a dataset configuration
type Options struct {
	UnionDefaultGraph bool         `yaml:"union_default_graph"`
	DefaultGraph      string       `yaml:"default_graph"`
	Index             string       `yaml:"index"`
	ReadOnly          bool         `yaml:"read_only"`
	Untracked         bool         `yaml:"untracked"`
	Store             StoreOptions `yaml:"store"`
}

// StoreOptions selects and configures the snapshot store
type StoreOptions struct {
	Kind          string `yaml:"kind"`
	store.Options `yaml:",inline"`
}

// LoadOptions decodes YAML options. Unknown keys are rejected.
func LoadOptions(r io.Reader) (*Options, error) {
	opts := &Options{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding dataset options")
	}
	return opts, opts.validate()
}

func (o *Options) validate() error {
	switch o.Index {
	case "", IndexGraph, IndexQuad:
	default:
		return errors.Errorf("unknown index %q", o.Index)
	}

	switch o.Store.Kind {
	case "", StoreNone, StoreMemory, StoreBadger:
	default:
		return errors.Errorf("unknown store %q", o.Store.Kind)
	}

	return nil
}

// Open constructs the in-memory dataset described by opts
func Open(opts *Options, logger *zap.Logger, registerer prometheus.Registerer) (*Store, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	config := &Config{
		UnionDefaultGraph: opts.UnionDefaultGraph,
		DefaultGraph:      types.FromLabel(opts.DefaultGraph),
		ReadOnly:          opts.ReadOnly,
		Untracked:         opts.Untracked,
		Logger:            logger,
		Registerer:        registerer,
	}

	var closer io.Closer
	switch opts.Store.Kind {
	case StoreMemory:
		config.Store = store.NewMemory()
	case StoreBadger:
		bo := opts.Store.Options
		bo.Logger = logger
		db, err := store.OpenBadger(bo)
		if err != nil {
			return nil, err
		}
		config.Store, closer = store.NewBadger(db), db
	}

	var s *Store
	var err error
	if opts.Index == IndexQuad {
		s, err = NewInMemoryQuad(config)
	} else {
		s, err = NewInMemory(config)
	}

	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	if closer != nil {
		s.closers = append(s.closers, closer)
	}
	return s, nil
}
