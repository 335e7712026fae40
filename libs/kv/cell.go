package kv

import (
	dbm "github.com/tendermint/tm-db"
)

// Cell is a single-value slot under its own namespace: a degenerate table
// holding at most one row, keyed by the empty key. It is meant for singleton
// auxiliary state stored next to regular tables on the same handle.
type Cell[V any] struct {
	table *Table[struct{}, V]
}

// NewCell opens a single-value cell under the given namespace on db.
func NewCell[V any](db dbm.DB, namespace string, opts ...Option) *Cell[V] {
	return &Cell[V]{
		table: NewTable[struct{}, V](db, namespace, opts...),
	}
}

// Get returns the stored value. The second return is false if nothing has
// been set yet.
func (c *Cell[V]) Get() (V, bool, error) {
	return c.table.Get(struct{}{})
}

// Set stores the value, overwriting any previous one.
func (c *Cell[V]) Set(value V) error {
	return c.table.Set(struct{}{}, value)
}
