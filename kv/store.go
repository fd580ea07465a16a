package kv

import (
	"bytes"
	"context"
)

// A RangeFunc is a function used to range over the key/value pairs in a
// [Store].
//
// If err is non-nil, ranging stops and err is propagated up the stack.
// Otherwise, if ok is false, ranging stops without any error being propagated.
type RangeFunc func(ctx context.Context, k, v []byte) (ok bool, err error)

// Order is the order in which [Reader.Range] visits keys.
type Order int

const (
	// Ascending visits keys in ascending byte-wise lexicographic order.
	Ascending Order = iota

	// Descending visits keys in descending byte-wise lexicographic order.
	Descending
)

func (o Order) String() string {
	if o == Descending {
		return "descending"
	}
	return "ascending"
}

// A Reader provides read access to a flat, ordered collection of binary
// key/value pairs.
type Reader interface {
	// Get returns the value associated with k.
	//
	// ok is false if the key does not exist. A key that is associated with an
	// empty value exists.
	Get(ctx context.Context, k []byte) (v []byte, ok bool, err error)

	// Has returns true if k is present in the store.
	Has(ctx context.Context, k []byte) (ok bool, err error)

	// Range invokes fn for each key in the half-open interval [start, end),
	// in the given order.
	//
	// A nil start or end leaves that side of the interval unbounded.
	Range(ctx context.Context, start, end []byte, o Order, fn RangeFunc) error
}

// A Store is a flat, ordered collection of binary key/value pairs.
type Store interface {
	Reader

	// Set associates a value with k, replacing any existing value.
	//
	// An empty v is a valid value, it does not delete the key.
	Set(ctx context.Context, k, v []byte) error

	// Delete removes k from the store.
	//
	// It is not an error to delete a key that does not exist.
	Delete(ctx context.Context, k []byte) error
}

// InRange returns true if k is within the half-open interval [start, end).
func InRange(k, start, end []byte) bool {
	if start != nil && bytes.Compare(k, start) < 0 {
		return false
	}
	if end != nil && bytes.Compare(k, end) >= 0 {
		return false
	}
	return true
}
