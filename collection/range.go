package collection

import (
	"github.com/dogmatiq/storagekit/keys"
	"github.com/dogmatiq/storagekit/kv"
)

// Range selects a subset of the entries in a [Map].
//
// The zero value selects every entry in ascending key order.
type Range[K any] struct {
	// Prefix restricts the range to keys whose leading components match a
	// partial key, such as one returned by [keys.PairCodec.Prefix].
	Prefix keys.Prefix

	// Min and Max bound the range by full keys. The zero value of each is
	// unbounded.
	Min, Max Bound[K]

	// Order is the order in which entries are visited.
	Order kv.Order
}

// Bound is one end of a [Range].
type Bound[K any] struct {
	key       K
	inclusive bool
	bounded   bool
}

// Inclusive returns a bound that includes k.
func Inclusive[K any](k K) Bound[K] {
	return Bound[K]{k, true, true}
}

// Exclusive returns a bound that excludes k.
func Exclusive[K any](k K) Bound[K] {
	return Bound[K]{k, false, true}
}

// resolve converts b to a bound on addresses within ns.
func (b Bound[K]) resolve(ns []byte, c keys.Codec[K]) (keys.Bound, error) {
	if !b.bounded {
		return keys.Bound{}, nil
	}

	segs, err := c.Encode(b.key)
	if err != nil {
		return keys.Bound{}, EncodeError{typeName[K](), err}
	}

	addr, err := keys.Address(ns, segs...)
	if err != nil {
		return keys.Bound{}, EncodeError{typeName[K](), err}
	}

	if b.inclusive {
		return keys.Inclusive(addr), nil
	}

	return keys.Exclusive(addr), nil
}
