package collection

import (
	"context"

	"github.com/dogmatiq/storagekit/codec"
	"github.com/dogmatiq/storagekit/kv"
)

// Item is a collection that contains at most one value.
//
// The value is stored at the namespace itself.
type Item[T any] struct {
	ns    string
	codec codec.Codec[T]
}

// NewItem returns an item stored at ns, using c to encode its value.
func NewItem[T any](ns string, c codec.Codec[T]) Item[T] {
	if c == nil {
		panic("codec must not be nil")
	}

	return Item[T]{ns, c}
}

// Namespace returns the item's namespace.
func (i Item[T]) Namespace() string {
	return i.ns
}

// Path returns the path of the item's value.
func (i Item[T]) Path() Path[T] {
	return Path[T]{[]byte(i.ns), i.codec}
}

// Save stores v as the item's value.
func (i Item[T]) Save(ctx context.Context, s kv.Store, v T) error {
	return i.Path().Save(ctx, s, v)
}

// Load returns the item's value, or a [NotFoundError] if it has none.
func (i Item[T]) Load(ctx context.Context, r kv.Reader) (T, error) {
	return i.Path().Load(ctx, r)
}

// MayLoad returns the item's value, if any.
func (i Item[T]) MayLoad(ctx context.Context, r kv.Reader) (T, bool, error) {
	return i.Path().MayLoad(ctx, r)
}

// Has returns true if the item has a value.
func (i Item[T]) Has(ctx context.Context, r kv.Reader) (bool, error) {
	return i.Path().Has(ctx, r)
}

// Remove deletes the item's value, if any.
func (i Item[T]) Remove(ctx context.Context, s kv.Store) error {
	return i.Path().Remove(ctx, s)
}

// Update replaces the item's existing value with the result of fn.
//
// It returns a [NotFoundError] without calling fn if the item has no value. If
// fn returns an error, it is returned unchanged and nothing is written.
func (i Item[T]) Update(
	ctx context.Context,
	s kv.Store,
	fn func(T) (T, error),
) (T, error) {
	p := i.Path()

	v, err := p.Load(ctx, s)
	if err != nil {
		return v, err
	}

	v, err = fn(v)
	if err != nil {
		return v, err
	}

	return v, p.Save(ctx, s, v)
}
