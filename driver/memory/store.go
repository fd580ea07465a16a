package memory

import (
	"context"
	"sync"

	"github.com/dogmatiq/storagekit/kv"
	"golang.org/x/exp/slices"
)

// Store is an implementation of [kv.Store] that keeps its key/value pairs in
// memory.
//
// The zero value is an empty store, ready to use.
type Store struct {
	m      sync.RWMutex
	keys   []string // sorted
	values map[string][]byte

	beforeSet func(k, v []byte) error
	afterSet  func(k, v []byte) error
}

// Get returns the value associated with k.
func (s *Store) Get(ctx context.Context, k []byte) ([]byte, bool, error) {
	s.m.RLock()
	defer s.m.RUnlock()

	v, ok := s.values[string(k)]
	return slices.Clone(v), ok, ctx.Err()
}

// Has returns true if k is present in the store.
func (s *Store) Has(ctx context.Context, k []byte) (bool, error) {
	s.m.RLock()
	defer s.m.RUnlock()

	_, ok := s.values[string(k)]
	return ok, ctx.Err()
}

// Set associates a value with k.
func (s *Store) Set(ctx context.Context, k, v []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v = slices.Clone(v)
	if v == nil {
		v = []byte{}
	}

	s.m.Lock()
	defer s.m.Unlock()

	if s.beforeSet != nil {
		if err := s.beforeSet(k, v); err != nil {
			return err
		}
	}

	key := string(k)

	if s.values == nil {
		s.values = map[string][]byte{}
	}

	if _, ok := s.values[key]; !ok {
		i, _ := slices.BinarySearch(s.keys, key)
		s.keys = slices.Insert(s.keys, i, key)
	}

	s.values[key] = v

	if s.afterSet != nil {
		if err := s.afterSet(k, v); err != nil {
			return err
		}
	}

	return nil
}

// Delete removes k from the store.
func (s *Store) Delete(ctx context.Context, k []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.m.Lock()
	defer s.m.Unlock()

	key := string(k)

	if _, ok := s.values[key]; !ok {
		return nil
	}

	delete(s.values, key)

	if i, ok := slices.BinarySearch(s.keys, key); ok {
		s.keys = slices.Delete(s.keys, i, i+1)
	}

	return nil
}

// Range invokes fn for each key in [start, end).
//
// It ranges over a snapshot of the matching pairs, so fn may modify the store.
func (s *Store) Range(
	ctx context.Context,
	start, end []byte,
	o kv.Order,
	fn kv.RangeFunc,
) error {
	type pair struct {
		k string
		v []byte
	}

	s.m.RLock()

	lo := 0
	if start != nil {
		lo, _ = slices.BinarySearch(s.keys, string(start))
	}

	hi := len(s.keys)
	if end != nil {
		hi, _ = slices.BinarySearch(s.keys, string(end))
	}

	var snapshot []pair
	if lo < hi {
		snapshot = make([]pair, 0, hi-lo)
		for _, k := range s.keys[lo:hi] {
			snapshot = append(snapshot, pair{k, s.values[k]})
		}
	}

	s.m.RUnlock()

	if o == kv.Descending {
		slices.Reverse(snapshot)
	}

	for _, p := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := fn(ctx, []byte(p.k), slices.Clone(p.v))
		if !ok || err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of keys in the store.
func (s *Store) Len() int {
	s.m.RLock()
	defer s.m.RUnlock()

	return len(s.keys)
}
