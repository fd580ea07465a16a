package collection

import (
	"context"

	"github.com/dogmatiq/storagekit/codec"
	"github.com/dogmatiq/storagekit/kv"
	"golang.org/x/exp/slices"
)

// Path is the resolved address of a single value within a collection.
//
// Paths are produced by [Item.Path] and [Map.Key]. They are cheap to construct
// and are not retained by their collection.
type Path[T any] struct {
	addr  []byte
	codec codec.Codec[T]
}

// NewPath returns a path that stores values at addr using the codec c.
func NewPath[T any](addr []byte, c codec.Codec[T]) Path[T] {
	if c == nil {
		panic("codec must not be nil")
	}

	return Path[T]{slices.Clone(addr), c}
}

// Address returns the storage address of the value.
func (p Path[T]) Address() []byte {
	return slices.Clone(p.addr)
}

// Save stores v at the path's address, replacing any existing value.
func (p Path[T]) Save(ctx context.Context, s kv.Store, v T) error {
	data, err := p.codec.Marshal(v)
	if err != nil {
		return EncodeError{typeName[T](), err}
	}

	return s.Set(ctx, p.addr, data)
}

// Load returns the value at the path's address.
//
// It returns a [NotFoundError] if there is no value.
func (p Path[T]) Load(ctx context.Context, r kv.Reader) (T, error) {
	v, ok, err := p.MayLoad(ctx, r)
	if err != nil {
		return v, err
	}

	if !ok {
		return v, p.notFound()
	}

	return v, nil
}

// MayLoad returns the value at the path's address.
//
// ok is false if there is no value. A value that is present but cannot be
// decoded produces a [DecodeError].
func (p Path[T]) MayLoad(ctx context.Context, r kv.Reader) (v T, ok bool, err error) {
	data, ok, err := r.Get(ctx, p.addr)
	if !ok || err != nil {
		return v, false, err
	}

	v, err = p.codec.Unmarshal(data)
	if err != nil {
		var zero T
		return zero, false, DecodeError{p.Address(), typeName[T](), err}
	}

	return v, true, nil
}

// Has returns true if any data is stored at the path's address.
//
// The data is not decoded.
func (p Path[T]) Has(ctx context.Context, r kv.Reader) (bool, error) {
	return r.Has(ctx, p.addr)
}

// Remove deletes the value at the path's address, if any.
func (p Path[T]) Remove(ctx context.Context, s kv.Store) error {
	return s.Delete(ctx, p.addr)
}

// Update replaces the value at the path's address with the result of fn.
//
// fn is called with the current value, if any. ok is false if there is no
// current value. If fn returns an error, it is returned unchanged and nothing
// is written.
func (p Path[T]) Update(
	ctx context.Context,
	s kv.Store,
	fn func(v T, ok bool) (T, error),
) (T, error) {
	v, ok, err := p.MayLoad(ctx, s)
	if err != nil {
		return v, err
	}

	v, err = fn(v, ok)
	if err != nil {
		return v, err
	}

	return v, p.Save(ctx, s, v)
}

func (p Path[T]) notFound() NotFoundError {
	return NotFoundError{p.Address(), typeName[T]()}
}
