package codec

import (
	"github.com/fxamacker/cbor/v2"
)

var (
	cborEnc = mustEncMode(cbor.CoreDetEncOptions())
	cborDec = mustDecMode(cbor.DecOptions{})
)

// CBOR returns a codec that encodes values of type T as CBOR using the core
// deterministic encoding rules, so equal values always produce equal bytes.
func CBOR[T any]() Codec[T] {
	return cborCodec[T]{}
}

type cborCodec[T any] struct{}

func (cborCodec[T]) Marshal(v T) ([]byte, error) {
	return cborEnc.Marshal(v)
}

func (cborCodec[T]) Unmarshal(data []byte) (T, error) {
	var v T
	err := cborDec.Unmarshal(data, &v)
	return v, err
}

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	m, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return m
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	m, err := opts.DecMode()
	if err != nil {
		panic(err)
	}
	return m
}
