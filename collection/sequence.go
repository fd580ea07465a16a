package collection

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/dogmatiq/storagekit/codec"
	"github.com/dogmatiq/storagekit/kv"
)

const (
	headSuffix = "head"
	tailSuffix = "tail"
	indexSize  = 8
)

// sequence is the state machine shared by [AppendStore] and [DequeStore].
//
// Elements occupy the half-open index range [head, tail), each stored at the
// namespace followed by its 8-byte big-endian index. The head and tail
// counters are stored at the namespace followed by "head" and "tail"
// respectively. They are never confused with elements because their addresses
// are a different length.
type sequence[T any] struct {
	ns     string
	codec  codec.Codec[T]
	origin uint64
}

func newSequence[T any](ns string, c codec.Codec[T], origin uint64) sequence[T] {
	if c == nil {
		panic("codec must not be nil")
	}
	return sequence[T]{ns, c, origin}
}

// Namespace returns the sequence's namespace.
func (s sequence[T]) Namespace() string {
	return s.ns
}

func (s sequence[T]) elementAddress(i uint64) []byte {
	addr := make([]byte, 0, len(s.ns)+indexSize)
	addr = append(addr, s.ns...)
	return binary.BigEndian.AppendUint64(addr, i)
}

func (s sequence[T]) element(i uint64) Path[T] {
	return Path[T]{s.elementAddress(i), s.codec}
}

func (s sequence[T]) counter(suffix string) Path[uint64] {
	return Path[uint64]{[]byte(s.ns + suffix), codec.Uint64}
}

// bounds describes the state of a sequence's counters.
type bounds struct {
	Head, Tail       uint64
	HasHead, HasTail bool
}

func (s sequence[T]) load(ctx context.Context, r kv.Reader) (b bounds, err error) {
	b.Head, b.HasHead, err = s.counter(headSuffix).MayLoad(ctx, r)
	if err != nil {
		return b, err
	}

	b.Tail, b.HasTail, err = s.counter(tailSuffix).MayLoad(ctx, r)
	if err != nil {
		return b, err
	}

	if !b.HasHead {
		b.Head = s.origin
	}

	if !b.HasTail {
		b.Tail = s.origin
	}

	return b, nil
}

func (s sequence[T]) saveHead(ctx context.Context, st kv.Store, i uint64) error {
	return s.counter(headSuffix).Save(ctx, st, i)
}

func (s sequence[T]) saveTail(ctx context.Context, st kv.Store, i uint64) error {
	return s.counter(tailSuffix).Save(ctx, st, i)
}

// Bounds returns the indices of the first element and one past the last
// element.
//
// The sequence is empty when head == tail.
func (s sequence[T]) Bounds(ctx context.Context, r kv.Reader) (head, tail uint64, err error) {
	b, err := s.load(ctx, r)
	return b.Head, b.Tail, err
}

// Len returns the number of elements in the sequence.
func (s sequence[T]) Len(ctx context.Context, r kv.Reader) (uint64, error) {
	b, err := s.load(ctx, r)
	return b.Tail - b.Head, err
}

// IsEmpty returns true if the sequence has no elements.
func (s sequence[T]) IsEmpty(ctx context.Context, r kv.Reader) (bool, error) {
	b, err := s.load(ctx, r)
	return b.Head == b.Tail, err
}

// PushBack appends v to the back of the sequence and returns its index.
func (s sequence[T]) PushBack(ctx context.Context, st kv.Store, v T) (uint64, error) {
	b, err := s.load(ctx, st)
	if err != nil {
		return 0, err
	}

	if b.Tail == math.MaxUint64 {
		return 0, ErrIndexOverflow
	}

	i := b.Tail

	if err := s.element(i).Save(ctx, st, v); err != nil {
		return 0, err
	}

	if !b.HasHead {
		if err := s.saveHead(ctx, st, b.Head); err != nil {
			return 0, err
		}
	}

	return i, s.saveTail(ctx, st, i+1)
}

// PopBack removes and returns the element at the back of the sequence.
//
// ok is false if the sequence is empty.
func (s sequence[T]) PopBack(ctx context.Context, st kv.Store) (v T, ok bool, err error) {
	b, err := s.load(ctx, st)
	if err != nil || b.Head == b.Tail {
		return v, false, err
	}

	i := b.Tail - 1

	v, err = s.take(ctx, st, i)
	if err != nil {
		return v, false, err
	}

	return v, true, s.saveTail(ctx, st, i)
}

// PopFront removes and returns the element at the front of the sequence.
//
// ok is false if the sequence is empty.
func (s sequence[T]) PopFront(ctx context.Context, st kv.Store) (v T, ok bool, err error) {
	b, err := s.load(ctx, st)
	if err != nil || b.Head == b.Tail {
		return v, false, err
	}

	i := b.Head

	v, err = s.take(ctx, st, i)
	if err != nil {
		return v, false, err
	}

	return v, true, s.saveHead(ctx, st, i+1)
}

// take loads and removes the element at index i.
func (s sequence[T]) take(ctx context.Context, st kv.Store, i uint64) (T, error) {
	p := s.element(i)

	v, err := p.Load(ctx, st)
	if err != nil {
		return v, err
	}

	return v, p.Remove(ctx, st)
}

// Get returns the element at index i.
//
// Indices are absolute: they do not change when elements are removed from the
// front of the sequence. ok is false if i is outside of the sequence's bounds.
func (s sequence[T]) Get(ctx context.Context, r kv.Reader, i uint64) (v T, ok bool, err error) {
	b, err := s.load(ctx, r)
	if err != nil || i < b.Head || i >= b.Tail {
		return v, false, err
	}

	return s.element(i).MayLoad(ctx, r)
}

// MustGet returns the element at index i, or a [NotFoundError] if i is outside
// of the sequence's bounds.
func (s sequence[T]) MustGet(ctx context.Context, r kv.Reader, i uint64) (T, error) {
	v, ok, err := s.Get(ctx, r, i)
	if err != nil {
		return v, err
	}

	if !ok {
		return v, s.element(i).notFound()
	}

	return v, nil
}

// Set replaces the element at index i.
//
// It returns a [NotFoundError] if i is outside of the sequence's bounds.
func (s sequence[T]) Set(ctx context.Context, st kv.Store, i uint64, v T) error {
	b, err := s.load(ctx, st)
	if err != nil {
		return err
	}

	if i < b.Head || i >= b.Tail {
		return s.element(i).notFound()
	}

	return s.element(i).Save(ctx, st, v)
}

// Front returns the element at the front of the sequence.
//
// ok is false if the sequence is empty.
func (s sequence[T]) Front(ctx context.Context, r kv.Reader) (v T, ok bool, err error) {
	b, err := s.load(ctx, r)
	if err != nil || b.Head == b.Tail {
		return v, false, err
	}

	return s.element(b.Head).MayLoad(ctx, r)
}

// Back returns the element at the back of the sequence.
//
// ok is false if the sequence is empty.
func (s sequence[T]) Back(ctx context.Context, r kv.Reader) (v T, ok bool, err error) {
	b, err := s.load(ctx, r)
	if err != nil || b.Head == b.Tail {
		return v, false, err
	}

	return s.element(b.Tail-1).MayLoad(ctx, r)
}

// Range invokes fn for each element in the sequence, in the given order.
//
// The elements are read from the store as they are visited. Calling Range
// again starts from the current bounds.
func (s sequence[T]) Range(
	ctx context.Context,
	r kv.Reader,
	o kv.Order,
	fn func(ctx context.Context, i uint64, v T) (bool, error),
) error {
	b, err := s.load(ctx, r)
	if err != nil || b.Head == b.Tail {
		return err
	}

	size := len(s.ns) + indexSize

	return r.Range(
		ctx,
		s.elementAddress(b.Head),
		s.elementAddress(b.Tail),
		o,
		func(ctx context.Context, addr, data []byte) (bool, error) {
			if len(addr) != size {
				// The counters sort among the elements.
				return true, nil
			}

			v, err := s.codec.Unmarshal(data)
			if err != nil {
				return false, DecodeError{addr, typeName[T](), err}
			}

			return fn(ctx, binary.BigEndian.Uint64(addr[len(s.ns):]), v)
		},
	)
}

// AppendStore is an ordered sequence of values that grows at the back.
//
// Values can be removed from either end. Indices start at zero and are never
// reused.
type AppendStore[T any] struct {
	sequence[T]
}

// NewAppendStore returns an append store under ns, using c to encode its
// values.
func NewAppendStore[T any](ns string, c codec.Codec[T]) AppendStore[T] {
	return AppendStore[T]{newSequence(ns, c, 0)}
}

// DequeStore is an ordered sequence of values that can grow and shrink at
// either end.
//
// The first value pushed onto an empty deque is at index 1<<63, leaving an
// equal number of indices available at each end.
type DequeStore[T any] struct {
	sequence[T]
}

// NewDequeStore returns a deque store under ns, using c to encode its values.
func NewDequeStore[T any](ns string, c codec.Codec[T]) DequeStore[T] {
	return DequeStore[T]{newSequence(ns, c, 1<<63)}
}

// PushFront prepends v to the front of the deque and returns its index.
func (d DequeStore[T]) PushFront(ctx context.Context, st kv.Store, v T) (uint64, error) {
	b, err := d.load(ctx, st)
	if err != nil {
		return 0, err
	}

	if b.Head == 0 {
		return 0, ErrIndexOverflow
	}

	i := b.Head - 1

	if err := d.element(i).Save(ctx, st, v); err != nil {
		return 0, err
	}

	if !b.HasTail {
		if err := d.saveTail(ctx, st, b.Tail); err != nil {
			return 0, err
		}
	}

	return i, d.saveHead(ctx, st, i)
}
