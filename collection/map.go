package collection

import (
	"context"
	"fmt"

	"github.com/dogmatiq/storagekit/codec"
	"github.com/dogmatiq/storagekit/keys"
	"github.com/dogmatiq/storagekit/kv"
)

// Map is a collection of values indexed by keys of type K.
type Map[K, V any] struct {
	ns     string
	keys   keys.Codec[K]
	values codec.Codec[V]
}

// NewMap returns a map stored under ns.
//
// kc encodes the map's keys into address segments, vc encodes its values.
func NewMap[K, V any](
	ns string,
	kc keys.Codec[K],
	vc codec.Codec[V],
) Map[K, V] {
	if kc == nil {
		panic("key codec must not be nil")
	}

	if vc == nil {
		panic("value codec must not be nil")
	}

	if kc.Segments() < 1 {
		panic("key codec must produce at least one segment")
	}

	return Map[K, V]{ns, kc, vc}
}

// Namespace returns the map's namespace.
func (m Map[K, V]) Namespace() string {
	return m.ns
}

// Key returns the path of the value associated with k.
func (m Map[K, V]) Key(k K) (Path[V], error) {
	segs, err := m.keys.Encode(k)
	if err != nil {
		return Path[V]{}, EncodeError{typeName[K](), err}
	}

	addr, err := keys.Address([]byte(m.ns), segs...)
	if err != nil {
		return Path[V]{}, EncodeError{typeName[K](), err}
	}

	return Path[V]{addr, m.values}, nil
}

// Save associates v with k.
func (m Map[K, V]) Save(ctx context.Context, s kv.Store, k K, v V) error {
	p, err := m.Key(k)
	if err != nil {
		return err
	}
	return p.Save(ctx, s, v)
}

// Load returns the value associated with k, or a [NotFoundError] if there is
// none.
func (m Map[K, V]) Load(ctx context.Context, r kv.Reader, k K) (V, error) {
	p, err := m.Key(k)
	if err != nil {
		var zero V
		return zero, err
	}
	return p.Load(ctx, r)
}

// MayLoad returns the value associated with k, if any.
func (m Map[K, V]) MayLoad(ctx context.Context, r kv.Reader, k K) (V, bool, error) {
	p, err := m.Key(k)
	if err != nil {
		var zero V
		return zero, false, err
	}
	return p.MayLoad(ctx, r)
}

// Has returns true if a value is associated with k.
func (m Map[K, V]) Has(ctx context.Context, r kv.Reader, k K) (bool, error) {
	p, err := m.Key(k)
	if err != nil {
		return false, err
	}
	return p.Has(ctx, r)
}

// Remove deletes the value associated with k, if any.
func (m Map[K, V]) Remove(ctx context.Context, s kv.Store, k K) error {
	p, err := m.Key(k)
	if err != nil {
		return err
	}
	return p.Remove(ctx, s)
}

// Update replaces the value associated with k with the result of fn.
//
// See [Path.Update].
func (m Map[K, V]) Update(
	ctx context.Context,
	s kv.Store,
	k K,
	fn func(v V, ok bool) (V, error),
) (V, error) {
	p, err := m.Key(k)
	if err != nil {
		var zero V
		return zero, err
	}
	return p.Update(ctx, s, fn)
}

// Range invokes fn for each entry within rng.
//
// If fn returns false, ranging stops and Range returns nil. If fn returns an
// error, ranging stops and the error is returned.
//
// Maps with single-segment keys share their address prefix with any other
// namespace that begins with the same bytes. Entries belonging to such
// namespaces are visited as though they belong to m.
func (m Map[K, V]) Range(
	ctx context.Context,
	r kv.Reader,
	rng Range[K],
	fn func(ctx context.Context, k K, v V) (bool, error),
) error {
	iv, err := m.interval(rng)
	if err != nil {
		return err
	}

	if iv.IsEmpty() {
		return nil
	}

	ns := []byte(m.ns)
	n := m.keys.Segments()

	return r.Range(
		ctx,
		iv.Start,
		iv.End,
		rng.Order,
		func(ctx context.Context, addr, data []byte) (bool, error) {
			segs, err := keys.Split(ns, n, addr)
			if err != nil {
				return false, DecodeError{addr, typeName[K](), err}
			}

			k, err := m.keys.Decode(segs)
			if err != nil {
				return false, DecodeError{addr, typeName[K](), err}
			}

			v, err := m.values.Unmarshal(data)
			if err != nil {
				return false, DecodeError{addr, typeName[V](), err}
			}

			return fn(ctx, k, v)
		},
	)
}

// interval returns the interval of addresses selected by rng.
func (m Map[K, V]) interval(rng Range[K]) (keys.Interval, error) {
	partial, err := rng.Prefix.Segments()
	if err != nil {
		return keys.Interval{}, EncodeError{"key prefix", err}
	}

	n := m.keys.Segments()
	if len(partial) >= n {
		return keys.Interval{}, EncodeError{
			"key prefix",
			fmt.Errorf(
				"prefix has %d segment(s), expected fewer than %d",
				len(partial),
				n,
			),
		}
	}

	ns := []byte(m.ns)

	p, err := keys.PrefixAddress(ns, n, partial...)
	if err != nil {
		return keys.Interval{}, EncodeError{"key prefix", err}
	}

	lo, err := rng.Min.resolve(ns, m.keys)
	if err != nil {
		return keys.Interval{}, err
	}

	hi, err := rng.Max.resolve(ns, m.keys)
	if err != nil {
		return keys.Interval{}, err
	}

	return keys.PrefixInterval(p).Intersect(lo, hi), nil
}

// Keys returns the keys within rng.
func (m Map[K, V]) Keys(ctx context.Context, r kv.Reader, rng Range[K]) ([]K, error) {
	var result []K

	err := m.Range(
		ctx,
		r,
		rng,
		func(_ context.Context, k K, _ V) (bool, error) {
			result = append(result, k)
			return true, nil
		},
	)

	return result, err
}

// Values returns the values within rng.
func (m Map[K, V]) Values(ctx context.Context, r kv.Reader, rng Range[K]) ([]V, error) {
	var result []V

	err := m.Range(
		ctx,
		r,
		rng,
		func(_ context.Context, _ K, v V) (bool, error) {
			result = append(result, v)
			return true, nil
		},
	)

	return result, err
}

// Clear removes every entry within rng.
func (m Map[K, V]) Clear(ctx context.Context, s kv.Store, rng Range[K]) error {
	iv, err := m.interval(rng)
	if err != nil {
		return err
	}

	if iv.IsEmpty() {
		return nil
	}

	var addrs [][]byte

	if err := s.Range(
		ctx,
		iv.Start,
		iv.End,
		rng.Order,
		func(_ context.Context, addr, _ []byte) (bool, error) {
			addrs = append(addrs, addr)
			return true, nil
		},
	); err != nil {
		return err
	}

	for _, addr := range addrs {
		if err := s.Delete(ctx, addr); err != nil {
			return err
		}
	}

	return nil
}
