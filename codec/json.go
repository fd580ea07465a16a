package codec

import (
	"github.com/dogmatiq/marshalkit/codec/json"
)

// JSON returns a codec that encodes values of type T as JSON.
func JSON[T any]() Codec[T] {
	return jsonCodec[T]{}
}

type jsonCodec[T any] struct {
	c json.Codec
}

func (c jsonCodec[T]) Marshal(v T) ([]byte, error) {
	return c.c.Marshal(v)
}

func (c jsonCodec[T]) Unmarshal(data []byte) (T, error) {
	var v T
	err := c.c.Unmarshal(data, &v)
	return v, err
}
