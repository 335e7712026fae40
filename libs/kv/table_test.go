package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"

	"github.com/tendermint/lightstore/libs/kv"
)

type record struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
}

func TestTableRoundTrip(t *testing.T) {
	table := kv.NewTable[int64, record](dbm.NewMemDB(), "test/records")

	// empty table
	_, ok, err := table.Get(1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, table.Set(1, record{Name: "a", Score: 10}))

	got, ok, err := table.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, record{Name: "a", Score: 10}, got)

	has, err := table.Has(1)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = table.Has(2)
	require.NoError(t, err)
	assert.False(t, has)

	// insert overwrites unconditionally
	require.NoError(t, table.Set(1, record{Name: "b", Score: 20}))
	got, _, err = table.Get(1)
	require.NoError(t, err)
	assert.Equal(t, record{Name: "b", Score: 20}, got)

	require.NoError(t, table.Delete(1))
	_, ok, err = table.Get(1)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting an absent key is a no-op, not an error
	require.NoError(t, table.Delete(42))
}

func TestTablesAreNamespaced(t *testing.T) {
	db := dbm.NewMemDB()
	a := kv.NewTable[int64, record](db, "test/a")
	b := kv.NewTable[int64, record](db, "test/b")

	require.NoError(t, a.Set(1, record{Name: "a"}))

	_, ok, err := b.Get(1)
	require.NoError(t, err)
	assert.False(t, ok, "tables under distinct namespaces must not observe each other")

	got, ok, err := a.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
}

func TestTableGetCorruptValue(t *testing.T) {
	db := dbm.NewMemDB()
	table := kv.NewTable[int64, record](db, "test/records",
		kv.WithKeyCodec(kv.OrderedKeys()))

	require.NoError(t, table.Set(1, record{Name: "a"}))

	// clobber the stored bytes underneath the table
	key, err := kv.OrderedKeys().EncodeKey(int64(1))
	require.NoError(t, err)
	require.NoError(t, db.Set(append([]byte("test/records"), key...), []byte{0xff, 0xba, 0xad}))

	_, _, err = table.Get(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, kv.ErrDecode)

	var kvErr *kv.Error
	require.ErrorAs(t, err, &kvErr)
	assert.Equal(t, "get", kvErr.Op)
	assert.Equal(t, "test/records", kvErr.Namespace)
}

func TestIteratorSkipsCorruptRows(t *testing.T) {
	db := dbm.NewMemDB()

	var skipped [][]byte
	table := kv.NewTable[int64, record](db, "test/records",
		kv.WithKeyCodec(kv.OrderedKeys()),
		kv.WithSkipHandler(func(key []byte, err error) {
			skipped = append(skipped, key)
			assert.ErrorIs(t, err, kv.ErrDecode)
		}),
	)

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, table.Set(i, record{Score: i}))
	}

	// corrupt the row at key 2 behind the table's back
	key, err := kv.OrderedKeys().EncodeKey(int64(2))
	require.NoError(t, err)
	require.NoError(t, db.Set(append([]byte("test/records"), key...), []byte{0xff}))

	it, err := table.Iterator()
	require.NoError(t, err)
	defer it.Close()

	var scores []int64
	for it.Next() {
		scores = append(scores, it.Value().Score)
	}
	require.NoError(t, it.Err())

	assert.Equal(t, []int64{1, 3}, scores, "the corrupt row must be skipped, not abort the scan")
	require.Len(t, skipped, 1)
	assert.Equal(t, key, skipped[0])
}

func TestOrderedKeysIterateInHeightOrder(t *testing.T) {
	table := kv.NewTable[int64, int64](dbm.NewMemDB(), "light_store/verified",
		kv.WithKeyCodec(kv.OrderedKeys()))

	for _, h := range []int64{1, 589473798493, 12342425, 4} {
		require.NoError(t, table.Set(h, h))
	}

	it, err := table.Iterator()
	require.NoError(t, err)
	defer it.Close()

	var forward []int64
	for it.Next() {
		forward = append(forward, it.Value())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []int64{1, 4, 12342425, 589473798493}, forward)

	rit, err := table.ReverseIterator()
	require.NoError(t, err)
	defer rit.Close()

	var backward []int64
	for rit.Next() {
		backward = append(backward, rit.Value())
	}
	require.NoError(t, rit.Err())
	assert.Equal(t, []int64{589473798493, 12342425, 4, 1}, backward)
}

func TestOrderedKeysUnsupportedType(t *testing.T) {
	_, err := kv.OrderedKeys().EncodeKey(struct{}{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kv.ErrEncode)
}
