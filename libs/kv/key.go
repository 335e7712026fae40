package kv

import (
	"fmt"

	"github.com/google/orderedcode"
)

// KeyCodec encodes table keys to bytes. Implementations must be injective:
// two distinct keys may never encode to the same bytes. Iteration over a
// table follows the byte order of encoded keys, so whether iteration yields
// natural key order depends on the codec chosen here.
type KeyCodec interface {
	EncodeKey(k any) ([]byte, error)
}

// CBORKeys encodes keys with the same canonical CBOR codec used for values.
// Byte order under this codec is not validated to match natural key order.
func CBORKeys() KeyCodec { return cborKeys{} }

type cborKeys struct{}

func (cborKeys) EncodeKey(k any) ([]byte, error) { return cborEnc.Marshal(k) }

// OrderedKeys encodes integer and string keys with orderedcode, so byte
// order equals natural key order and iteration yields keys in ascending
// order.
func OrderedKeys() KeyCodec { return orderedKeys{} }

type orderedKeys struct{}

func (orderedKeys) EncodeKey(k any) ([]byte, error) {
	switch k := k.(type) {
	case int64:
		return orderedcode.Append(nil, k)
	case uint64:
		return orderedcode.Append(nil, k)
	case int:
		return orderedcode.Append(nil, int64(k))
	case string:
		return orderedcode.Append(nil, k)
	default:
		return nil, fmt.Errorf("%w: no order-preserving encoding for %T", ErrEncode, k)
	}
}
