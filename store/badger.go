package store

import (
	"strings"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/underlay/rdfset/types"
)

// GraphPrefix is the first byte of every snapshot key
const GraphPrefix = byte('g')

// Options configures OpenBadger
type Options struct {
	// Path is the directory for badger files. Ignored when InMemory is set.
	Path       string `yaml:"path"`
	InMemory   bool   `yaml:"in_memory"`
	SyncWrites bool   `yaml:"sync_writes"`
	// Logger receives badger's own log output. Nil disables it.
	Logger *zap.Logger `yaml:"-"`
}

// OpenBadger opens a badger database for use with NewBadger
func OpenBadger(opts Options) (*badger.DB, error) {
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("badger path is required unless in_memory is set")
	}

	bo := badger.DefaultOptions(opts.Path).WithSyncWrites(opts.SyncWrites)
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	}

	if opts.Logger != nil {
		bo = bo.WithLogger(&badgerLogger{opts.Logger.Sugar()})
	} else {
		bo = bo.WithLogger(nil)
	}

	db, err := badger.Open(bo)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger")
	}
	return db, nil
}

// badgerLogger adapts zap to badger.Logger
type badgerLogger struct{ s *zap.SugaredLogger }

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.s.Errorf(strings.TrimSpace(f), v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.s.Warnf(strings.TrimSpace(f), v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.s.Infof(strings.TrimSpace(f), v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.s.Debugf(strings.TrimSpace(f), v...) }

type badgerStore struct{ Badger *badger.DB }

// NewBadger creates a QuadStore over db. The caller keeps ownership of db.
func NewBadger(db *badger.DB) QuadStore { return &badgerStore{Badger: db} }

func graphKey(name types.GraphName) []byte {
	value := name.String()
	key := make([]byte, 1+len(value))
	key[0] = GraphPrefix
	copy(key[1:], value)
	return key
}

func (b *badgerStore) Get(name types.GraphName) ([]types.Triple, error) {
	txn := b.Badger.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(graphKey(name))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var triples []types.Triple
	err = item.Value(func(val []byte) (err error) {
		triples, err = types.DecodeTriples(val)
		return
	})
	if err != nil {
		return nil, errors.Wrapf(err, "decoding snapshot of %s", name)
	}
	return triples, nil
}

func (b *badgerStore) Delete(name types.GraphName) error {
	key := graphKey(name)
	return b.Badger.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func (b *badgerStore) Set(name types.GraphName, triples []types.Triple) error {
	val := types.EncodeTriples(triples)
	key := graphKey(name)
	return b.Badger.Update(func(txn *badger.Txn) error { return txn.Set(key, val) })
}

type badgerList struct {
	txn  *badger.Txn
	iter *badger.Iterator
}

func (bl *badgerList) Close() { bl.iter.Close(); bl.txn.Discard() }
func (bl *badgerList) Next() (name types.GraphName, valid bool) {
	for bl.iter.Valid() {
		key := bl.iter.Item().KeyCopy(nil)
		bl.iter.Next()
		if name, err := types.ParseGraphName(string(key[1:])); err == nil {
			return name, true
		}
	}
	return
}

func (b *badgerStore) List(from types.GraphName) List {
	txn := b.Badger.NewTransaction(false)
	iter := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: false,
		Prefix:         []byte{GraphPrefix},
	})
	if from.IsDefault() {
		iter.Seek([]byte{GraphPrefix})
	} else {
		iter.Seek(graphKey(from))
	}
	return &badgerList{txn, iter}
}
