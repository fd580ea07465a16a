// Package codec provides value codecs that convert typed values to and from
// the bytes stored in a [kv.Store].
//
// [kv.Store]: github.com/dogmatiq/storagekit/kv.Store
package codec

// Codec converts values of type T to and from their binary representation.
type Codec[T any] interface {
	Marshal(v T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}
