package keys

import (
	"encoding/binary"
	"fmt"
)

// MaxSegmentLength is the maximum length of a namespace or of any segment that
// is written with a length prefix.
const MaxSegmentLength = 0xffff

// Address returns the storage address of the key with the given segments
// within the namespace ns.
func Address(ns []byte, segs ...[]byte) ([]byte, error) {
	switch len(segs) {
	case 0:
		return append([]byte{}, ns...), nil
	case 1:
		addr := make([]byte, 0, len(ns)+len(segs[0]))
		addr = append(addr, ns...)
		return append(addr, segs[0]...), nil
	}

	last := len(segs) - 1

	addr, err := appendPrefixed(nil, ns, segs[:last])
	if err != nil {
		return nil, err
	}

	return append(addr, segs[last]...), nil
}

// PrefixAddress returns the leading bytes shared by the addresses of every
// n-segment key in ns whose first segments are equal to partial.
//
// It panics if partial does not have fewer than n segments.
func PrefixAddress(ns []byte, n int, partial ...[]byte) ([]byte, error) {
	if len(partial) >= n {
		panic(fmt.Sprintf(
			"partial key has %d segment(s), expected fewer than %d",
			len(partial),
			n,
		))
	}

	if n == 1 {
		return append([]byte{}, ns...), nil
	}

	return appendPrefixed(nil, ns, partial)
}

// appendPrefixed appends ns and each of segs to addr, each preceded by its
// length.
func appendPrefixed(addr, ns []byte, segs [][]byte) ([]byte, error) {
	size := 2 + len(ns)
	for _, seg := range segs {
		size += 2 + len(seg)
	}

	if addr == nil {
		addr = make([]byte, 0, size)
	}

	addr, err := appendLengthPrefixed(addr, ns)
	if err != nil {
		return nil, err
	}

	for _, seg := range segs {
		addr, err = appendLengthPrefixed(addr, seg)
		if err != nil {
			return nil, err
		}
	}

	return addr, nil
}

func appendLengthPrefixed(addr, seg []byte) ([]byte, error) {
	if len(seg) > MaxSegmentLength {
		return nil, SegmentTooLongError{len(seg)}
	}

	addr = binary.BigEndian.AppendUint16(addr, uint16(len(seg)))
	return append(addr, seg...), nil
}

// Split returns the n segments of addr, which must be an address within ns.
//
// The returned segments refer to the memory of addr.
func Split(ns []byte, n int, addr []byte) ([][]byte, error) {
	switch n {
	case 0:
		if string(addr) != string(ns) {
			return nil, MalformedAddressError{addr, "address is not the namespace"}
		}
		return nil, nil
	case 1:
		if len(addr) < len(ns) || string(addr[:len(ns)]) != string(ns) {
			return nil, MalformedAddressError{addr, "address is not within the namespace"}
		}
		return [][]byte{addr[len(ns):]}, nil
	}

	rest := addr

	head, rest, ok := cutLengthPrefixed(rest)
	if !ok || string(head) != string(ns) {
		return nil, MalformedAddressError{addr, "address is not within the namespace"}
	}

	segs := make([][]byte, 0, n)

	for i := 1; i < n; i++ {
		var seg []byte
		seg, rest, ok = cutLengthPrefixed(rest)
		if !ok {
			return nil, MalformedAddressError{
				addr,
				fmt.Sprintf("segment %d overruns the address", i),
			}
		}
		segs = append(segs, seg)
	}

	return append(segs, rest), nil
}

func cutLengthPrefixed(b []byte) (seg, rest []byte, ok bool) {
	if len(b) < 2 {
		return nil, nil, false
	}

	n := int(binary.BigEndian.Uint16(b))
	b = b[2:]

	if len(b) < n {
		return nil, nil, false
	}

	return b[:n], b[n:], true
}
