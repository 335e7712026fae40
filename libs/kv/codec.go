package kv

import (
	"github.com/fxamacker/cbor/v2"
)

// Codec translates values to and from one canonical binary form. The encoded
// form must be self-describing enough that a later revision of the value's
// type can still decode rows written by an earlier one.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// CBOR returns the default codec: deterministic CBOR (RFC 8949 core
// deterministic encoding), with times as RFC 3339 strings.
func CBOR() Codec { return cborCodec{} }

type cborCodec struct{}

func (cborCodec) Marshal(v any) ([]byte, error) { return cborEnc.Marshal(v) }

func (cborCodec) Unmarshal(data []byte, v any) error { return cborDec.Unmarshal(data, v) }

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano

	var err error
	if cborEnc, err = opts.EncMode(); err != nil {
		panic(err)
	}
	if cborDec, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(err)
	}
}
