package kv

import (
	"errors"
	"fmt"
)

// Failure classes carried inside a store error. Engine failures are passed
// through as whatever error the underlying database returned.
var (
	// ErrEncode means a key or value could not be serialized.
	ErrEncode = errors.New("encode failure")

	// ErrDecode means stored bytes did not parse as the expected type.
	ErrDecode = errors.New("decode failure")
)

// Error is the one error kind returned by the typed table layer. It carries
// the table operation and namespace along with the encode, decode or engine
// failure that caused it.
type Error struct {
	Op        string
	Namespace string
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Op, e.Namespace, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func encodeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrEncode, err)
}

func decodeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrDecode, err)
}
