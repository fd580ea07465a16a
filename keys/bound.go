package keys

import "bytes"

// PrefixEnd returns the smallest byte string that is greater than every byte
// string that begins with p.
//
// It returns nil if there is no such string, that is, if p is empty or
// consists entirely of 0xff bytes.
func PrefixEnd(p []byte) []byte {
	end := append([]byte{}, p...)

	for i := len(end) - 1; i >= 0; i-- {
		if end[i] != 0xff {
			end[i]++
			return end[:i+1]
		}
	}

	return nil
}

// Bound is one end of a range of addresses.
//
// The zero value is unbounded.
type Bound struct {
	addr      []byte
	inclusive bool
	bounded   bool
}

// Inclusive returns a bound that includes addr.
func Inclusive(addr []byte) Bound {
	return Bound{addr, true, true}
}

// Exclusive returns a bound that excludes addr.
func Exclusive(addr []byte) Bound {
	return Bound{addr, false, true}
}

// IsBounded returns true if b limits the range.
func (b Bound) IsBounded() bool {
	return b.bounded
}

// lower returns the inclusive start address for b as a lower bound.
func (b Bound) lower() []byte {
	if !b.bounded {
		return nil
	}
	if b.inclusive {
		return append([]byte{}, b.addr...)
	}
	return successor(b.addr)
}

// upper returns the exclusive end address for b as an upper bound.
func (b Bound) upper() []byte {
	if !b.bounded {
		return nil
	}
	if b.inclusive {
		return successor(b.addr)
	}
	return append([]byte{}, b.addr...)
}

// successor returns the smallest byte string greater than addr.
func successor(addr []byte) []byte {
	s := make([]byte, len(addr)+1)
	copy(s, addr)
	return s
}

// Interval is a half-open range of addresses [Start, End).
//
// A nil Start or End leaves that side unbounded.
type Interval struct {
	Start, End []byte
}

// PrefixInterval returns the interval containing exactly the addresses that
// begin with p.
func PrefixInterval(p []byte) Interval {
	return Interval{
		Start: append([]byte{}, p...),
		End:   PrefixEnd(p),
	}
}

// Intersect narrows i to the addresses that are also within min and max.
func (i Interval) Intersect(min, max Bound) Interval {
	if lo := min.lower(); lo != nil {
		if i.Start == nil || bytes.Compare(lo, i.Start) > 0 {
			i.Start = lo
		}
	}

	if hi := max.upper(); hi != nil {
		if i.End == nil || bytes.Compare(hi, i.End) < 0 {
			i.End = hi
		}
	}

	return i
}

// IsEmpty returns true if no address is within i.
func (i Interval) IsEmpty() bool {
	return i.Start != nil &&
		i.End != nil &&
		bytes.Compare(i.Start, i.End) >= 0
}

// Contains returns true if addr is within i.
func (i Interval) Contains(addr []byte) bool {
	if i.Start != nil && bytes.Compare(addr, i.Start) < 0 {
		return false
	}
	if i.End != nil && bytes.Compare(addr, i.End) >= 0 {
		return false
	}
	return true
}
