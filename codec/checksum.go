package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ChecksumError indicates that a value's stored checksum does not match its
// content.
type ChecksumError struct {
	Want, Got uint64
}

func (e ChecksumError) Error() string {
	return fmt.Sprintf(
		"checksum mismatch: stored %016x, computed %016x",
		e.Want,
		e.Got,
	)
}

// Checksummed returns a codec that appends an xxHash64 checksum to the output
// of c, and verifies it before unmarshaling.
func Checksummed[T any](c Codec[T]) Codec[T] {
	if c == nil {
		panic("codec must not be nil")
	}
	return checksumCodec[T]{c}
}

const checksumSize = 8

type checksumCodec[T any] struct {
	inner Codec[T]
}

func (c checksumCodec[T]) Marshal(v T) ([]byte, error) {
	data, err := c.inner.Marshal(v)
	if err != nil {
		return nil, err
	}

	return binary.BigEndian.AppendUint64(data, xxhash.Sum64(data)), nil
}

func (c checksumCodec[T]) Unmarshal(data []byte) (T, error) {
	if len(data) < checksumSize {
		var zero T
		return zero, fmt.Errorf(
			"checksummed value has length %d, expected at least %d",
			len(data),
			checksumSize,
		)
	}

	n := len(data) - checksumSize
	want := binary.BigEndian.Uint64(data[n:])

	if got := xxhash.Sum64(data[:n]); got != want {
		var zero T
		return zero, ChecksumError{want, got}
	}

	return c.inner.Unmarshal(data[:n])
}
