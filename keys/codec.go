package keys

import (
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Codec converts keys of type K to and from their segments.
type Codec[K any] interface {
	// Segments returns the number of segments produced by Encode and
	// consumed by Decode.
	Segments() int

	// Encode returns the segments that represent k.
	Encode(k K) ([][]byte, error)

	// Decode returns the key represented by segs.
	Decode(segs [][]byte) (K, error)
}

var (
	// String is a [Codec] for string keys. Strings are encoded as their
	// UTF-8 bytes, decoding rejects invalid UTF-8.
	String Codec[string] = stringCodec{}

	// Bytes is a [Codec] for raw byte-string keys.
	Bytes Codec[[]byte] = bytesCodec{}

	// UUID is a [Codec] for UUID keys, encoded as their 16 bytes.
	UUID Codec[uuid.UUID] = uuidCodec{}
)

type stringCodec struct{}

func (stringCodec) Segments() int {
	return 1
}

func (stringCodec) Encode(k string) ([][]byte, error) {
	return [][]byte{[]byte(k)}, nil
}

func (stringCodec) Decode(segs [][]byte) (string, error) {
	seg, err := single(segs)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(seg) {
		return "", InvalidUTF8Error{slices.Clone(seg)}
	}

	return string(seg), nil
}

type bytesCodec struct{}

func (bytesCodec) Segments() int {
	return 1
}

func (bytesCodec) Encode(k []byte) ([][]byte, error) {
	if k == nil {
		k = []byte{}
	}
	return [][]byte{slices.Clone(k)}, nil
}

func (bytesCodec) Decode(segs [][]byte) ([]byte, error) {
	seg, err := single(segs)
	if err != nil {
		return nil, err
	}

	seg = slices.Clone(seg)
	if seg == nil {
		seg = []byte{}
	}

	return seg, nil
}

type uuidCodec struct{}

func (uuidCodec) Segments() int {
	return 1
}

func (uuidCodec) Encode(k uuid.UUID) ([][]byte, error) {
	return [][]byte{slices.Clone(k[:])}, nil
}

func (uuidCodec) Decode(segs [][]byte) (uuid.UUID, error) {
	seg, err := single(segs)
	if err != nil {
		return uuid.Nil, err
	}

	if len(seg) != 16 {
		return uuid.Nil, SegmentLengthError{16, len(seg)}
	}

	return uuid.FromBytes(seg)
}

func single(segs [][]byte) ([]byte, error) {
	if len(segs) != 1 {
		return nil, SegmentCountError{1, len(segs)}
	}
	return segs[0], nil
}
