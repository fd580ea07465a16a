package keys

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

var (
	// Uint8 is a [Codec] for uint8 keys.
	Uint8 Codec[uint8] = unsignedCodec[uint8]{1}
	// Uint16 is a [Codec] for uint16 keys.
	Uint16 Codec[uint16] = unsignedCodec[uint16]{2}
	// Uint32 is a [Codec] for uint32 keys.
	Uint32 Codec[uint32] = unsignedCodec[uint32]{4}
	// Uint64 is a [Codec] for uint64 keys.
	Uint64 Codec[uint64] = unsignedCodec[uint64]{8}
	// Uint128 is a [Codec] for 128-bit unsigned keys.
	Uint128 Codec[U128] = u128Codec{}

	// Int8 is a [Codec] for int8 keys.
	Int8 Codec[int8] = signedCodec[int8]{1}
	// Int16 is a [Codec] for int16 keys.
	Int16 Codec[int16] = signedCodec[int16]{2}
	// Int32 is a [Codec] for int32 keys.
	Int32 Codec[int32] = signedCodec[int32]{4}
	// Int64 is a [Codec] for int64 keys.
	Int64 Codec[int64] = signedCodec[int64]{8}
	// Int128 is a [Codec] for 128-bit signed keys.
	Int128 Codec[I128] = i128Codec{}
)

// signBit is the most-significant bit of the first byte of a big-endian
// integer.
const signBit = 0x80

// putUint writes the low len(b) bytes of v to b in big-endian order.
func putUint(b []byte, v uint64) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

// readUint reads a big-endian integer of len(b) bytes.
func readUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

type unsignedCodec[T constraints.Unsigned] struct {
	width int
}

func (c unsignedCodec[T]) Segments() int {
	return 1
}

func (c unsignedCodec[T]) Encode(k T) ([][]byte, error) {
	seg := make([]byte, c.width)
	putUint(seg, uint64(k))
	return [][]byte{seg}, nil
}

func (c unsignedCodec[T]) Decode(segs [][]byte) (T, error) {
	seg, err := single(segs)
	if err != nil {
		return 0, err
	}

	if len(seg) != c.width {
		return 0, SegmentLengthError{c.width, len(seg)}
	}

	return T(readUint(seg)), nil
}

type signedCodec[T constraints.Signed] struct {
	width int
}

func (c signedCodec[T]) Segments() int {
	return 1
}

func (c signedCodec[T]) Encode(k T) ([][]byte, error) {
	seg := make([]byte, c.width)
	putUint(seg, uint64(int64(k)))
	seg[0] ^= signBit
	return [][]byte{seg}, nil
}

func (c signedCodec[T]) Decode(segs [][]byte) (T, error) {
	seg, err := single(segs)
	if err != nil {
		return 0, err
	}

	if len(seg) != c.width {
		return 0, SegmentLengthError{c.width, len(seg)}
	}

	buf := make([]byte, c.width)
	copy(buf, seg)
	buf[0] ^= signBit

	// Converting to the narrower signed type truncates to the low bits,
	// which restores the sign.
	return T(readUint(buf)), nil
}

// U128 is an unsigned 128-bit integer.
type U128 struct {
	Hi, Lo uint64
}

// U128From64 returns v as a U128.
func U128From64(v uint64) U128 {
	return U128{Lo: v}
}

// Cmp compares u and v, returning -1, 0 or +1.
func (u U128) Cmp(v U128) int {
	switch {
	case u.Hi < v.Hi:
		return -1
	case u.Hi > v.Hi:
		return +1
	case u.Lo < v.Lo:
		return -1
	case u.Lo > v.Lo:
		return +1
	default:
		return 0
	}
}

// I128 is a signed 128-bit integer in two's complement form. Hi carries the
// sign.
type I128 struct {
	Hi int64
	Lo uint64
}

// I128From64 returns v as an I128.
func I128From64(v int64) I128 {
	i := I128{Lo: uint64(v)}
	if v < 0 {
		i.Hi = -1
	}
	return i
}

// Cmp compares i and j, returning -1, 0 or +1.
func (i I128) Cmp(j I128) int {
	switch {
	case i.Hi < j.Hi:
		return -1
	case i.Hi > j.Hi:
		return +1
	case i.Lo < j.Lo:
		return -1
	case i.Lo > j.Lo:
		return +1
	default:
		return 0
	}
}

type u128Codec struct{}

func (u128Codec) Segments() int {
	return 1
}

func (u128Codec) Encode(k U128) ([][]byte, error) {
	seg := make([]byte, 16)
	binary.BigEndian.PutUint64(seg, k.Hi)
	binary.BigEndian.PutUint64(seg[8:], k.Lo)
	return [][]byte{seg}, nil
}

func (u128Codec) Decode(segs [][]byte) (U128, error) {
	seg, err := single(segs)
	if err != nil {
		return U128{}, err
	}

	if len(seg) != 16 {
		return U128{}, SegmentLengthError{16, len(seg)}
	}

	return U128{
		Hi: binary.BigEndian.Uint64(seg),
		Lo: binary.BigEndian.Uint64(seg[8:]),
	}, nil
}

type i128Codec struct{}

func (i128Codec) Segments() int {
	return 1
}

func (i128Codec) Encode(k I128) ([][]byte, error) {
	seg := make([]byte, 16)
	binary.BigEndian.PutUint64(seg, uint64(k.Hi))
	binary.BigEndian.PutUint64(seg[8:], k.Lo)
	seg[0] ^= signBit
	return [][]byte{seg}, nil
}

func (i128Codec) Decode(segs [][]byte) (I128, error) {
	seg, err := single(segs)
	if err != nil {
		return I128{}, err
	}

	if len(seg) != 16 {
		return I128{}, SegmentLengthError{16, len(seg)}
	}

	return I128{
		Hi: int64(binary.BigEndian.Uint64(seg) ^ 1<<63),
		Lo: binary.BigEndian.Uint64(seg[8:]),
	}, nil
}
