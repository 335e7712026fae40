// Package db provides a persistent store.Store backed by an on-disk
// key-value database. Each verification status has its own typed table,
// opened under a fixed namespace on one shared handle.
package db

import (
	"errors"
	"fmt"

	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/lightstore/libs/kv"
	"github.com/tendermint/lightstore/libs/log"
	"github.com/tendermint/lightstore/store"
	"github.com/tendermint/lightstore/types"
)

// Fixed namespaces of the four status tables. Any process opening the same
// database path shares state through them.
const (
	unverifiedNamespace = "light_store/unverified"
	verifiedNamespace   = "light_store/verified"
	trustedNamespace    = "light_store/trusted"
	failedNamespace     = "light_store/failed"
)

type dbStore struct {
	unverified *kv.Table[int64, types.LightBlock]
	verified   *kv.Table[int64, types.LightBlock]
	trusted    *kv.Table[int64, types.LightBlock]
	failed     *kv.Table[int64, types.LightBlock]

	logger log.Logger
}

type options struct {
	logger log.Logger
}

// Option sets a parameter on the store.
type Option func(*options)

// WithLogger sets the logger that observes rows skipped as unreadable
// during scans. Defaults to a nop logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New returns a Store backed by the given database handle. If prefix is not
// empty, the status tables are opened under it, so several stores can share
// one handle.
//
// Heights are keyed with an order-preserving encoding, values with
// canonical CBOR.
func New(db dbm.DB, prefix string, opts ...Option) store.Store {
	o := options{logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	if prefix != "" {
		db = dbm.NewPrefixDB(db, []byte(prefix+"/"))
	}

	s := &dbStore{logger: o.logger}
	s.unverified = s.newTable(db, unverifiedNamespace)
	s.verified = s.newTable(db, verifiedNamespace)
	s.trusted = s.newTable(db, trustedNamespace)
	s.failed = s.newTable(db, failedNamespace)

	return s
}

// Open opens, creating it if necessary, the light store database in dir
// using the default on-disk backend.
func Open(dir string, opts ...Option) (store.Store, error) {
	db, err := dbm.NewDB("light_store", dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, fmt.Errorf("opening light store database: %w", err)
	}
	return New(db, "", opts...), nil
}

func (s *dbStore) newTable(db dbm.DB, namespace string) *kv.Table[int64, types.LightBlock] {
	logger := s.logger.With("table", namespace)
	return kv.NewTable[int64, types.LightBlock](db, namespace,
		kv.WithKeyCodec(kv.OrderedKeys()),
		kv.WithSkipHandler(func(key []byte, err error) {
			logger.Error("skipping unreadable light block", "key", fmt.Sprintf("%X", key), "err", err)
		}),
	)
}

func (s *dbStore) table(status store.Status) (*kv.Table[int64, types.LightBlock], error) {
	switch status {
	case store.Unverified:
		return s.unverified, nil
	case store.Verified:
		return s.verified, nil
	case store.Trusted:
		return s.trusted, nil
	case store.Failed:
		return s.failed, nil
	default:
		return nil, fmt.Errorf("unknown status: %v", status)
	}
}

func (s *dbStore) Get(height int64, status store.Status) (*types.LightBlock, error) {
	if height <= 0 {
		return nil, fmt.Errorf("non-positive height: %d", height)
	}

	t, err := s.table(status)
	if err != nil {
		return nil, err
	}

	lb, ok, err := t.Get(height)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return &lb, nil
}

func (s *dbStore) Insert(lb *types.LightBlock, status store.Status) error {
	height, err := blockHeight(lb)
	if err != nil {
		return err
	}

	t, err := s.table(status)
	if err != nil {
		return err
	}

	return t.Set(height, *lb)
}

// Update clears the block's height out of every other status table before
// writing the block under the target status. The removes and the insert are
// independent engine operations: a crash mid-sequence can leave the height
// absent from all four tables, pending a re-fetch, but never present in two.
func (s *dbStore) Update(lb *types.LightBlock, status store.Status) error {
	height, err := blockHeight(lb)
	if err != nil {
		return err
	}

	target, err := s.table(status)
	if err != nil {
		return err
	}

	for _, other := range store.Statuses() {
		if other == status {
			continue
		}
		t, err := s.table(other)
		if err != nil {
			return err
		}
		if err := t.Delete(height); err != nil {
			return err
		}
	}

	return target.Set(height, *lb)
}

func (s *dbStore) Remove(height int64, status store.Status) error {
	if height <= 0 {
		return fmt.Errorf("non-positive height: %d", height)
	}

	t, err := s.table(status)
	if err != nil {
		return err
	}

	return t.Delete(height)
}

func (s *dbStore) Latest(status store.Status) (*types.LightBlock, error) {
	t, err := s.table(status)
	if err != nil {
		return nil, err
	}

	it, err := t.Iterator()
	if err != nil {
		return nil, err
	}
	defer it.Close()

	// Scan values rather than trusting key order, so the result stays
	// correct under a key codec that is not order-preserving.
	var latest *types.LightBlock
	for it.Next() {
		lb := it.Value()
		if latest == nil || lb.Height > latest.Height {
			latest = &lb
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	return latest, nil
}

func (s *dbStore) Lowest(status store.Status) (*types.LightBlock, error) {
	t, err := s.table(status)
	if err != nil {
		return nil, err
	}

	it, err := t.Iterator()
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var lowest *types.LightBlock
	for it.Next() {
		lb := it.Value()
		if lowest == nil || lb.Height < lowest.Height {
			lowest = &lb
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	return lowest, nil
}

func (s *dbStore) Size(status store.Status) (int, error) {
	t, err := s.table(status)
	if err != nil {
		return 0, err
	}

	it, err := t.Iterator()
	if err != nil {
		return 0, err
	}
	defer it.Close()

	var size int
	for it.Next() {
		size++
	}
	if err := it.Err(); err != nil {
		return 0, err
	}

	return size, nil
}

func (s *dbStore) All(status store.Status) (store.Iterator, error) {
	t, err := s.table(status)
	if err != nil {
		return nil, err
	}

	it, err := t.Iterator()
	if err != nil {
		return nil, err
	}

	return &iterator{src: it}, nil
}

type iterator struct {
	src     *kv.Iterator[types.LightBlock]
	cur     types.LightBlock
	started bool
}

func (it *iterator) Next() bool {
	if !it.src.Next() {
		return false
	}
	it.cur = it.src.Value()
	it.started = true
	return true
}

// Block returns nil until the first call to Next succeeds.
func (it *iterator) Block() *types.LightBlock {
	if !it.started {
		return nil
	}
	lb := it.cur
	return &lb
}

func (it *iterator) Err() error { return it.src.Err() }

func (it *iterator) Close() error { return it.src.Close() }

func blockHeight(lb *types.LightBlock) (int64, error) {
	if lb == nil || lb.SignedHeader == nil || lb.SignedHeader.Header == nil {
		return 0, errors.New("nil light block")
	}
	if lb.Height <= 0 {
		return 0, fmt.Errorf("non-positive height: %d", lb.Height)
	}
	return lb.Height, nil
}
