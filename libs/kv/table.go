// Package kv provides type-safe tables over a byte-oriented tm-db database,
// taking care of (de)serializing keys and values with a canonical binary
// encoding. Many tables share one physical database handle, isolated from
// each other by a namespace prefix.
package kv

import (
	dbm "github.com/tendermint/tm-db"
)

// TableOptions configure a Table or Cell.
type TableOptions struct {
	// Keys encodes table keys; defaults to CBORKeys.
	Keys KeyCodec

	// Values encodes table values; defaults to the canonical CBOR codec.
	Values Codec

	// OnSkip is called with the namespace-relative key and the decode error
	// whenever an iterator drops an unreadable row. A single corrupt row must
	// never abort a full scan, so this hook is the only place such failures
	// surface.
	OnSkip func(key []byte, err error)
}

// Option sets a parameter on TableOptions.
type Option func(*TableOptions)

// WithKeyCodec sets the key codec.
func WithKeyCodec(kc KeyCodec) Option {
	return func(o *TableOptions) { o.Keys = kc }
}

// WithValueCodec sets the value codec.
func WithValueCodec(c Codec) Option {
	return func(o *TableOptions) { o.Values = c }
}

// WithSkipHandler sets the hook observing rows skipped during iteration.
func WithSkipHandler(fn func(key []byte, err error)) Option {
	return func(o *TableOptions) { o.OnSkip = fn }
}

// Table is a typed, namespaced view over a byte-oriented database: an
// ordered mapping from K to V.
//
// Every mutating call is as durable as the underlying engine makes it; no
// buffering is added here.
type Table[K, V any] struct {
	db   dbm.DB
	ns   string
	opts TableOptions
}

// NewTable opens a typed table under the given namespace on db. Tables
// opened under distinct namespaces on the same handle do not observe each
// other's rows.
func NewTable[K, V any](db dbm.DB, namespace string, opts ...Option) *Table[K, V] {
	o := TableOptions{
		Keys:   CBORKeys(),
		Values: CBOR(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Table[K, V]{
		db:   dbm.NewPrefixDB(db, []byte(namespace)),
		ns:   namespace,
		opts: o,
	}
}

// Get loads the value stored under key. The second return is false if the
// key is absent.
func (t *Table[K, V]) Get(key K) (V, bool, error) {
	var zero V

	kb, err := t.opts.Keys.EncodeKey(key)
	if err != nil {
		return zero, false, t.fail("get", encodeErr(err))
	}

	vb, err := t.db.Get(kb)
	if err != nil {
		return zero, false, t.fail("get", err)
	}
	if vb == nil {
		return zero, false, nil
	}

	var value V
	if err := t.opts.Values.Unmarshal(vb, &value); err != nil {
		return zero, false, t.fail("get", decodeErr(err))
	}

	return value, true, nil
}

// Has reports whether key is present, without decoding the value.
func (t *Table[K, V]) Has(key K) (bool, error) {
	kb, err := t.opts.Keys.EncodeKey(key)
	if err != nil {
		return false, t.fail("has", encodeErr(err))
	}

	ok, err := t.db.Has(kb)
	if err != nil {
		return false, t.fail("has", err)
	}

	return ok, nil
}

// Set stores value under key, overwriting any existing entry.
func (t *Table[K, V]) Set(key K, value V) error {
	kb, err := t.opts.Keys.EncodeKey(key)
	if err != nil {
		return t.fail("set", encodeErr(err))
	}

	vb, err := t.opts.Values.Marshal(value)
	if err != nil {
		return t.fail("set", encodeErr(err))
	}

	if err := t.db.Set(kb, vb); err != nil {
		return t.fail("set", err)
	}

	return nil
}

// Delete removes the entry under key. Deleting an absent key is a no-op,
// not an error.
func (t *Table[K, V]) Delete(key K) error {
	kb, err := t.opts.Keys.EncodeKey(key)
	if err != nil {
		return t.fail("delete", encodeErr(err))
	}

	if err := t.db.Delete(kb); err != nil {
		return t.fail("delete", err)
	}

	return nil
}

// Iterator returns a lazy cursor over the table's values in ascending
// key-byte order.
func (t *Table[K, V]) Iterator() (*Iterator[V], error) {
	src, err := t.db.Iterator(nil, nil)
	if err != nil {
		return nil, t.fail("iterate", err)
	}
	return t.newIterator(src), nil
}

// ReverseIterator returns a lazy cursor over the table's values in
// descending key-byte order.
func (t *Table[K, V]) ReverseIterator() (*Iterator[V], error) {
	src, err := t.db.ReverseIterator(nil, nil)
	if err != nil {
		return nil, t.fail("iterate", err)
	}
	return t.newIterator(src), nil
}

func (t *Table[K, V]) newIterator(src dbm.Iterator) *Iterator[V] {
	return &Iterator[V]{
		src:    src,
		codec:  t.opts.Values,
		onSkip: t.opts.OnSkip,
	}
}

func (t *Table[K, V]) fail(op string, err error) error {
	return &Error{Op: op, Namespace: t.ns, Err: err}
}

// Iterator lazily yields decoded values. Rows whose value fails to decode
// are skipped rather than surfaced as errors; the table's OnSkip hook
// observes every skip.
//
// An Iterator reflects what is visible as the scan proceeds. It is not a
// point-in-time snapshot unless the underlying engine provides one.
type Iterator[V any] struct {
	src    dbm.Iterator
	codec  Codec
	onSkip func(key []byte, err error)
	value  V
	err    error
}

// Next advances to the next decodable row. It returns false when the scan
// is exhausted or the engine reports an error; check Err after the loop.
func (it *Iterator[V]) Next() bool {
	for ; it.src.Valid(); it.src.Next() {
		var value V
		if err := it.codec.Unmarshal(it.src.Value(), &value); err != nil {
			if it.onSkip != nil {
				it.onSkip(it.src.Key(), decodeErr(err))
			}
			continue
		}

		it.value = value
		it.src.Next()
		return true
	}

	it.err = it.src.Error()
	return false
}

// Value returns the row the last call to Next advanced to.
func (it *Iterator[V]) Value() V { return it.value }

// Err returns the engine error that ended the scan early, if any.
func (it *Iterator[V]) Err() error { return it.err }

// Close releases the underlying engine cursor.
func (it *Iterator[V]) Close() error { return it.src.Close() }
