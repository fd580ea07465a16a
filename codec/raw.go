package codec

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/exp/slices"
)

var (
	// Bytes is a codec that stores byte slices verbatim.
	Bytes Codec[[]byte] = bytesCodec{}

	// String is a codec that stores strings as their raw bytes.
	String Codec[string] = stringCodec{}

	// Uint64 is a codec that stores uint64 values as 8 big-endian bytes.
	Uint64 Codec[uint64] = uint64Codec{}
)

type bytesCodec struct{}

func (bytesCodec) Marshal(v []byte) ([]byte, error) {
	return slices.Clone(v), nil
}

func (bytesCodec) Unmarshal(data []byte) ([]byte, error) {
	v := slices.Clone(data)
	if v == nil {
		v = []byte{}
	}
	return v, nil
}

type stringCodec struct{}

func (stringCodec) Marshal(v string) ([]byte, error) {
	return []byte(v), nil
}

func (stringCodec) Unmarshal(data []byte) (string, error) {
	return string(data), nil
}

type uint64Codec struct{}

func (uint64Codec) Marshal(v uint64) ([]byte, error) {
	return binary.BigEndian.AppendUint64(nil, v), nil
}

func (uint64Codec) Unmarshal(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("uint64 value has length %d, expected 8", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}
