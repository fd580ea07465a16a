package codec

import (
	"reflect"

	"google.golang.org/protobuf/proto"
)

// Proto returns a codec that encodes Protocol Buffers messages of type T,
// which must be a pointer to a generated message struct.
func Proto[T proto.Message]() Codec[T] {
	return protoCodec[T]{}
}

type protoCodec[T proto.Message] struct{}

func (protoCodec[T]) Marshal(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(v)
}

func (protoCodec[T]) Unmarshal(data []byte) (T, error) {
	var v T
	t := reflect.TypeOf(v).Elem()
	v = reflect.New(t).Interface().(T)

	err := proto.Unmarshal(data, v)
	return v, err
}
